// Package inspect exposes a read-only HTTP surface over an emitter.Registry
// for operators: event listings, listener views, health, and Prometheus
// metrics. It never delivers events — dispatch stays in-process through
// Registry.Emit.
//
// Usage:
//
//	srv := inspect.New(registry)
//	log.Fatal(srv.Serve(config.InspectAddr()))
//
// Endpoints:
//
//	GET /events              → all event entries (name + listener count)
//	GET /events/{name}       → one entry with listener views; 404 if unknown
//	GET /healthz             → liveness probe
//	GET /metrics             → Prometheus metrics page
package inspect

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/sanket/pkg/emitter"
	"github.com/shashiranjanraj/sanket/pkg/logger"
	"github.com/shashiranjanraj/sanket/pkg/metrics"
)

// Server serves introspection endpoints for one registry.
type Server struct {
	reg *emitter.Registry
	mux chi.Router
}

// New builds an inspect server over reg.
func New(reg *emitter.Registry) *Server {
	s := &Server{reg: reg, mux: chi.NewRouter()}

	s.mux.Use(metrics.Middleware())
	s.mux.Get("/events", s.listEvents)
	s.mux.Get("/events/{name}", s.showEvent)
	s.mux.Get("/healthz", s.healthz)
	s.mux.Get("/metrics", metrics.Handler())

	return s
}

// Handler returns the underlying http.Handler, e.g. for mounting under an
// existing router or for httptest.
func (s *Server) Handler() http.Handler { return s.mux }

// Serve blocks, serving the inspect endpoints on addr.
func (s *Server) Serve(addr string) error {
	logger.Info("inspect: listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

type eventSummary struct {
	Name      string `json:"name"`
	Listeners int    `json:"listeners"`
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	events := s.reg.Events()

	out := make([]eventSummary, len(events))
	for i, ev := range events {
		out[i] = eventSummary{Name: ev.Name, Listeners: len(ev.Listeners)}
	}
	success(w, out)
}

func (s *Server) showEvent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	infos, err := s.reg.Listeners(name)
	if err != nil {
		if errors.Is(err, emitter.ErrUnknownEvent) {
			fail(w, http.StatusNotFound, "unknown event: "+name)
			return
		}
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Listeners returns a nil slice for a known-but-empty event; normalize
	// so the JSON field is [] rather than null.
	if infos == nil {
		infos = []emitter.ListenerInfo{}
	}
	success(w, emitter.Event{Name: name, Listeners: infos})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	success(w, map[string]string{"status": "ok"})
}

// ─── JSON envelope ────────────────────────────────────────────────────────────

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

func fail(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}
