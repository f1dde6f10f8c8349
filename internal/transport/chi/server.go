package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fiberlab/expreg/internal/domain"
	domrun "github.com/fiberlab/expreg/internal/domain/run"
	expuc "github.com/fiberlab/expreg/internal/usecase/experiment"
	healthuc "github.com/fiberlab/expreg/internal/usecase/health"
	runuc "github.com/fiberlab/expreg/internal/usecase/run"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the registry HTTP API.
type Server struct {
	experiments   *expuc.Service
	runs          *runuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	experiments *expuc.Service,
	runs *runuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		experiments: experiments,
		runs:        runs,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRunNotFound, http.StatusNotFound, codeRunNotFound),
		sentinelHandler(domain.ErrPresetNotFound, http.StatusBadRequest, codePresetNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidSpec, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRunFinished, http.StatusConflict, codeRunFinished),
		sentinelHandler(domain.ErrEpochBudgetExceeded, http.StatusConflict, codeEpochBudgetExceeded),
	}
	return s
}

// sentinelHandler maps a sentinel error to a status code and error code.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/presets", s.ListPresets)
		r.Get("/presets/{name}", s.GetPreset)

		r.Post("/experiments", s.RegisterExperiment)
		r.Get("/experiments", s.ListExperiments)
		r.Get("/experiments/{name}", s.GetExperiment)
		r.Delete("/experiments/{name}", s.DeleteExperiment)

		r.Post("/experiments/{name}/runs", s.StartRun)
		r.Get("/experiments/{name}/runs", s.ListRuns)
		r.Get("/runs/{id}", s.GetRun)
		r.Post("/runs/{id}/epochs", s.RecordEpoch)
		r.Post("/runs/{id}/finish", s.FinishRun)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// ListPresets handles GET /v1/presets.
func (s *Server) ListPresets(w http.ResponseWriter, _ *http.Request) {
	presets := s.experiments.Presets()
	items := make([]presetResponse, len(presets))
	for i, p := range presets {
		items[i] = presetToResponse(p)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetPreset handles GET /v1/presets/{name}.
func (s *Server) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.experiments.Preset(chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presetToResponse(p))
}

// RegisterExperiment handles POST /v1/experiments.
func (s *Server) RegisterExperiment(w http.ResponseWriter, r *http.Request) {
	var req registerExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "experiment name is required")
		return
	}
	if req.Preset == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "preset is required")
		return
	}

	spec, err := s.experiments.Register(r.Context(), req.Name, req.Preset, req.Overrides)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, specToResponse(spec))
}

// ListExperiments handles GET /v1/experiments.
func (s *Server) ListExperiments(w http.ResponseWriter, r *http.Request) {
	specs, err := s.experiments.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]experimentResponse, len(specs))
	for i, spec := range specs {
		items[i] = specToResponse(spec)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetExperiment handles GET /v1/experiments/{name}.
func (s *Server) GetExperiment(w http.ResponseWriter, r *http.Request) {
	spec, err := s.experiments.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, specToResponse(spec))
}

// DeleteExperiment handles DELETE /v1/experiments/{name}.
func (s *Server) DeleteExperiment(w http.ResponseWriter, r *http.Request) {
	if err := s.experiments.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartRun handles POST /v1/experiments/{name}/runs.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Start(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, runToResponse(run))
}

// ListRuns handles GET /v1/experiments/{name}/runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.ListByExperiment(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]runResponse, len(runs))
	for i, run := range runs {
		items[i] = runToResponse(run)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetRun handles GET /v1/runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runToResponse(run))
}

// RecordEpoch handles POST /v1/runs/{id}/epochs.
func (s *Server) RecordEpoch(w http.ResponseWriter, r *http.Request) {
	var req recordEpochRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	run, err := s.runs.RecordEpoch(r.Context(), chi.URLParam(r, "id"), req.Loss)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runToResponse(run))
}

// FinishRun handles POST /v1/runs/{id}/finish.
func (s *Server) FinishRun(w http.ResponseWriter, r *http.Request) {
	var req finishRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	status := domrun.Status(req.Status)
	if !status.Terminal() {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			`status must be "completed" or "failed"`)
		return
	}

	run, err := s.runs.Finish(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runToResponse(run))
}
