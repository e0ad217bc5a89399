// Package server exposes the drawing session engine over HTTP. The embedding
// page drives a session through JSON endpoints and receives composed drawing
// payloads over a per-session websocket, mirroring the postMessage channel a
// survey host would use.
package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/interomap/interomap/internal/config"
	"github.com/interomap/interomap/pkg/notify"
	"github.com/interomap/interomap/pkg/session"
)

// New builds the HTTP server for the given manager. The hub carries session
// event sockets; the manager's notifier factory should be bound to the same
// hub so stroke events reach attached listeners.
func New(cfg config.Config, manager *session.Manager, hub *notify.Hub, logger *log.Logger) *http.Server {
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{
		manager:  manager,
		hub:      hub,
		variable: cfg.Variable,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Delete("/", h.delete)
			r.Post("/persona", h.selectPersona)
			r.Post("/ratings", h.setRatings)
			r.Post("/strokes", h.completeStroke)
			r.Post("/undo", h.undo)
			r.Put("/surfaces/{side}", h.updateSurface)
			r.Get("/drawing", h.getDrawing)
			r.Get("/drawing.svg", h.getDrawingSVG)
			r.Get("/events", h.events)
		})
	})

	return &http.Server{
		Addr:    cfg.Listen,
		Handler: r,
	}
}
