package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(h.cors().Handler)
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	router.Get("/api/version", h.getServerVersion)

	// credential endpoints, throttled per client IP
	router.Group(func(r chi.Router) {
		r.Use(h.withRateLimit)
		r.Post("/session", h.createSession)
		r.Post("/auth/facebook", h.facebookLogin)
		r.Post("/users", h.register)
		r.Post("/password-reset", h.requestPasswordReset)
		r.Post("/password-reset/confirm", h.confirmPasswordReset)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/users/me", h.me)
		r.Patch("/users/me", h.updateMe)
		r.Get("/users/me/sessions", h.mySessions)
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// cors allows the configured web front-ends to call the API with bearer
// tokens. Authorization and X-Trace-ID are exposed so browsers can read
// them.
func (h *Handler) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: h.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders: []string{"Authorization", traceIDHeader},
		MaxAge:         300,
	})
}
