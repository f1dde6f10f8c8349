// Package expfile loads experiment definition files. A file named
// <name>.yaml registers an experiment whose name is exactly the file stem;
// the file body names a preset and the fields it overrides.
package expfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
	"github.com/fiberlab/expreg/internal/metrics"
)

// Registrar applies definition files to the registry.
type Registrar interface {
	Sync(ctx context.Context, name, preset string, ov domexp.Overrides) (domexp.Spec, error)
	Delete(ctx context.Context, name string) error
}

// Definition is one parsed experiment definition file.
type Definition struct {
	Name      string
	Preset    string
	Overrides domexp.Overrides
}

type fileDoc struct {
	// Name is optional; when present it must equal the file stem.
	Name      string           `yaml:"name"`
	Preset    string           `yaml:"preset"`
	Overrides domexp.Overrides `yaml:",inline"`
}

// Stem returns the experiment name a definition file declares: the base
// name with the extension stripped.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFile reads one definition file. The experiment name is the file stem;
// a name key inside the file that disagrees with the stem is an error.
func ParseFile(path string) (Definition, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Definition{}, fmt.Errorf("read definition %s: %w", path, err)
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Definition{}, fmt.Errorf("parse definition %s: %w", path, err)
	}

	stem := Stem(path)
	if doc.Name != "" && doc.Name != stem {
		return Definition{}, fmt.Errorf(
			"definition %s: name %q does not match file stem %q", path, doc.Name, stem)
	}
	if doc.Preset == "" {
		return Definition{}, fmt.Errorf("definition %s: preset is required", path)
	}

	return Definition{Name: stem, Preset: doc.Preset, Overrides: doc.Overrides}, nil
}

// Loader keeps the registry in sync with a directory of definition files.
type Loader struct {
	dir       string
	registrar Registrar
	logger    *zap.Logger
}

// NewLoader creates a Loader for the given directory.
func NewLoader(dir string, registrar Registrar, logger *zap.Logger) *Loader {
	return &Loader{dir: dir, registrar: registrar, logger: logger}
}

func isDefinition(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// Sync loads every definition file in the directory. Files that fail to
// parse or register are logged and skipped; the rest still load.
func (l *Loader) Sync(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, fmt.Errorf("read definition dir %s: %w", l.dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !isDefinition(entry.Name()) {
			continue
		}
		if err := l.loadFile(ctx, filepath.Join(l.dir, entry.Name())); err != nil {
			l.logger.Error("definition load failed",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		loaded++
	}
	return loaded, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) error {
	def, err := ParseFile(path)
	if err != nil {
		metrics.DefinitionReloadsTotal.WithLabelValues("error").Inc()
		return err
	}

	spec, err := l.registrar.Sync(ctx, def.Name, def.Preset, def.Overrides)
	if err != nil {
		metrics.DefinitionReloadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.DefinitionReloadsTotal.WithLabelValues("ok").Inc()
	l.logger.Info("experiment definition loaded",
		zap.String("experiment", spec.Name()),
		zap.String("preset", spec.Preset()),
		zap.Int("epochs", spec.Epochs()),
		zap.Bool("data_augmentation", spec.DataAugmentation()),
	)
	return nil
}

func (l *Loader) removeFile(ctx context.Context, path string) error {
	name := Stem(path)
	if err := l.registrar.Delete(ctx, name); err != nil {
		return fmt.Errorf("remove experiment %s: %w", name, err)
	}
	l.logger.Info("experiment definition removed", zap.String("experiment", name))
	return nil
}
