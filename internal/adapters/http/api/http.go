// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okian/postboard/pkg/logger"
	"github.com/okian/postboard/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	UserDependencies
	PostDependencies
	HealthDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	usersHandler  *UsersHandler
	postsHandler  *PostsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, l logger.Logger) *Server {
	return &Server{
		healthHandler: NewHealthHandler(deps),
		usersHandler:  NewUsersHandler(deps, l),
		postsHandler:  NewPostsHandler(deps, l),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", MetricsMiddleware(s.usersHandler.HandleCreate, "users.create"))
		r.Get("/", MetricsMiddleware(s.usersHandler.HandleList, "users.list"))
		r.Get("/{id}", MetricsMiddleware(s.usersHandler.HandleGet, "users.get"))
		r.Patch("/{id}", MetricsMiddleware(s.usersHandler.HandleUpdate, "users.update"))
		r.Delete("/{id}", MetricsMiddleware(s.usersHandler.HandleDelete, "users.delete"))
		r.Patch("/{id}/settings", MetricsMiddleware(s.usersHandler.HandleUpdateSettings, "users.settings"))
	})

	r.Route("/posts", func(r chi.Router) {
		r.Post("/", MetricsMiddleware(s.postsHandler.HandleCreate, "posts.create"))
		r.Post("/group", MetricsMiddleware(s.postsHandler.HandleCreateGroup, "posts.group.create"))
		r.Get("/group", MetricsMiddleware(s.postsHandler.HandleListGroup, "posts.group.list"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathID parses the {id} URL parameter as a positive integer.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
