package router

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vedran77/accounts/internal/transport/http/handlers"
	"github.com/vedran77/accounts/internal/transport/http/middleware"
)

type Deps struct {
	Users          *handlers.UserHandler
	Health         *handlers.HealthHandler
	Tokens         middleware.TokenVerifier
	UserFinder     middleware.UserFinder
	AllowedOrigins []string
	Logger         *zap.Logger
}

func New(d Deps) http.Handler {
	auth := middleware.Authenticate(d.Tokens, d.UserFinder, d.Logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireAdmin(h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /{$}", d.Health.Root)
	mux.HandleFunc("GET /health", d.Health.Health)
	mux.HandleFunc("POST /users/register", d.Users.Register)
	mux.HandleFunc("POST /users/login", d.Users.Login)

	// Admin
	mux.Handle("GET /users", admin(d.Users.List))
	mux.Handle("DELETE /users/{id}", admin(d.Users.Delete))

	// Authenticated
	mux.Handle("GET /users/{id}", protected(d.Users.Get))
	mux.Handle("PUT /users/{id}", protected(d.Users.Update))
	mux.Handle("PUT /users/{id}/change-password", protected(d.Users.ChangePassword))

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var h http.Handler = mux
	h = cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})(h)
	h = middleware.Recoverer(d.Logger)(h)
	h = middleware.RequestLogger(d.Logger)(h)
	h = chimw.RequestID(h)

	return h
}
