package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/tasktracker/internal/api/handlers"
	"github.com/isdelr/tasktracker/internal/auth"
	"github.com/isdelr/tasktracker/internal/config"
	"github.com/isdelr/tasktracker/internal/metrics"
	"github.com/isdelr/tasktracker/internal/services"
	"github.com/isdelr/tasktracker/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Config   *config.Config
	Users    services.UserServiceProvider
	Tasks    services.TaskServiceProvider
	Events   services.EventServiceProvider
	Sessions *auth.SessionManager
	Hub      *websocket.Hub
	Metrics  *metrics.Metrics
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	cfg := deps.Config
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users, deps.Sessions, deps.Events, cfg.SessionCookie, cfg.IsProduction())
	taskHandler := handlers.NewTaskHandler(deps.Tasks, deps.Events)
	eventHandler := handlers.NewEventHandler(deps.Events)

	r.Post("/signup", userHandler.Signup)
	r.Post("/login", userHandler.Login)
	r.Get("/logout", userHandler.Logout)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// Everything below needs a session.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(deps.Sessions, cfg.SessionCookie))

		r.Get("/tasks", taskHandler.List)
		r.Post("/tasks", taskHandler.Create)
		r.Put("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)

		r.Get("/events", eventHandler.GetRecent)

		if deps.Hub != nil {
			wsHandler := handlers.NewWebSocketHandler(deps.Hub, cfg.CORSOrigins)
			r.Get("/ws", wsHandler.Serve)
		}
	})

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		log.Info().Str("dir", cfg.StaticDir).Msg("Serving static files")
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
