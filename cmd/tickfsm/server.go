package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/comalice/tickfsm/internal/core"
	"github.com/comalice/tickfsm/internal/extensibility"
	tlog "github.com/comalice/tickfsm/internal/log"
	"github.com/comalice/tickfsm/internal/production"
	"github.com/comalice/tickfsm/realtime"
)

const maxVarBody = 4 << 10

// server exposes a running machine over HTTP.
type server struct {
	machine *core.Machine
	rt      *realtime.Runtime
	reg     prometheus.Gatherer
	viz     production.DefaultVisualizer
	logger  zerolog.Logger
}

type stateResponse struct {
	Machine string         `json:"machine"`
	State   string         `json:"state"`
	Tick    uint64         `json:"tick"`
	Vars    map[string]any `json:"vars"`
}

func newServer(m *core.Machine, rt *realtime.Runtime, reg prometheus.Gatherer, logger zerolog.Logger) *server {
	return &server{
		machine: m,
		rt:      rt,
		reg:     reg,
		logger:  logger.With().Str(tlog.FieldComponent, "http").Logger(),
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	r.Get("/state", s.handleState)
	r.Get("/dot", s.handleDOT)
	r.Put("/vars/{key}", s.handleSetVar)
	r.Delete("/vars/{key}", s.handleDeleteVar)
	return r
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{
		Machine: s.machine.Config().ID,
		State:   s.machine.NameOf(s.rt.GetCurrentState()),
		Tick:    s.rt.GetTickNumber(),
		Vars:    s.machine.Ctx().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn().Err(err).Msg("encode state")
	}
}

func (s *server) handleDOT(w http.ResponseWriter, r *http.Request) {
	current := s.machine.NameOf(s.rt.GetCurrentState())
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = io.WriteString(w, s.viz.ExportDOT(s.machine.Config(), current))
}

// handleSetVar stores the request body, parsed as a literal, under key.
// Guards observe the new value on the next tick.
func (s *server) handleSetVar(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxVarBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		http.Error(w, "empty value", http.StatusBadRequest)
		return
	}
	val := extensibility.ParseLiteral(raw)
	s.machine.Ctx().Set(key, val)
	s.logger.Debug().Str("key", key).Interface("value", val).Msg("variable set")
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDeleteVar(w http.ResponseWriter, r *http.Request) {
	s.machine.Ctx().Delete(chi.URLParam(r, "key"))
	w.WriteHeader(http.StatusNoContent)
}
