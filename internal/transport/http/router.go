package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpmw "github.com/cwrk-planet/chat-room/internal/transport/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Debug включает /debug/room
	Debug   bool
	Metrics http.Handler
}

func NewRouter(h *Handler, wsHandler http.HandlerFunc, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(httpmw.RequestLoggerCtx)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// WS endpoint: без таймаута и обёртки ResponseWriter
	r.Get("/ws", wsHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.RequestLogger)
		pr.Use(chimw.Timeout(30 * time.Second))

		pr.Route("/api", func(api chi.Router) {
			api.Get("/health", h.Health)
			api.Route("/rooms", func(rm chi.Router) {
				rm.Get("/", h.ListRooms)
				rm.Route("/{id}", func(rr chi.Router) {
					rr.Get("/", h.GetRoom)
					rr.Get("/participants", h.GetParticipants)
					rr.Get("/events", h.GetEvents)
				})
			})
		})

		if cfg.Debug {
			pr.Get("/debug/room", h.DebugRoom)
		}
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	return r
}
