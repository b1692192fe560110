package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"space-adventure-service/internal/app"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/studio"
)

// SessionCounter reports how many game sessions are live.
type SessionCounter interface {
	Live(ctx context.Context) (int, error)
}

// Deps are the use cases served over HTTP.
type Deps struct {
	Games    *app.GameService
	Gallery  *app.Gallery
	Studio   *studio.Studio
	Sessions SessionCounter
	Log      *logger.Logger
}

type healthPayload struct {
	Status    string `json:"status"`
	Sessions  int    `json:"sessions"`
	Workshops int    `json:"workshops"`
}

// NewRouter mounts the REST API and the game websocket.
func NewRouter(deps Deps) http.Handler {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	api := NewAPIHandler(deps.Gallery, deps.Studio, deps.Log)
	ws := NewWSHandler(deps.Games, deps.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		health := healthPayload{Status: "ok"}
		if deps.Studio != nil {
			health.Workshops = deps.Studio.Len()
		}
		if deps.Sessions != nil {
			n, err := deps.Sessions.Live(r.Context())
			if err != nil {
				deps.Log.Warn("count live sessions", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, healthPayload{Status: "degraded"})
				return
			}
			health.Sessions = n
		}
		writeJSON(w, http.StatusOK, health)
	})
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", api.Menu)
		r.Get("/characters", api.ListCharacters)
		r.Post("/characters", api.CreateCharacter)
		r.Post("/workshops", api.OpenWorkshop)
		r.Route("/workshops/{id}", func(r chi.Router) {
			r.Get("/", api.GetWorkshop)
			r.Delete("/", api.CloseWorkshop)
			r.Post("/input", api.WorkshopInput)
			r.Post("/select", api.WorkshopSelect)
			r.Post("/save", api.WorkshopSave)
			r.Post("/retry", api.WorkshopRetry)
			r.Post("/paint", api.WorkshopPaint)
		})
	})
	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
