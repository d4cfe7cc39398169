// internal/transport/httpapi/router.go
package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/middleware"
)

// RouterConfig holds the cross-cutting HTTP settings
type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter wires every route with CORS, panic recovery, client info and access logging
func NewRouter(h *Handler, cfg RouterConfig, logger logrus.FieldLogger) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.ClientInfoMiddleware, middleware.AccessLog(logger))

	requireAuth := middleware.RequireAuth(h.auth, logger)
	private := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}
	jsonOnly := func(next http.Handler) http.Handler {
		return handlers.ContentTypeHandler(next, "application/json")
	}

	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Handle("/auth/signup", jsonOnly(http.HandlerFunc(h.signUp))).Methods(http.MethodPost)
	api.Handle("/auth/signin", jsonOnly(http.HandlerFunc(h.signIn))).Methods(http.MethodPost)
	api.Handle("/auth/refresh", jsonOnly(http.HandlerFunc(h.refresh))).Methods(http.MethodPost)
	api.Handle("/auth/signout", private(h.signOut)).Methods(http.MethodPost)
	api.Handle("/auth/me", private(h.me)).Methods(http.MethodGet)

	api.Handle("/tasks", private(h.board)).Methods(http.MethodGet)
	api.Handle("/tasks", jsonOnly(private(h.createTask))).Methods(http.MethodPost)
	api.Handle("/tasks/{id}", private(h.getTask)).Methods(http.MethodGet)
	// PUT replaces every editable field; omitted status/priority reset to pending/medium
	api.Handle("/tasks/{id}", jsonOnly(private(h.updateTask))).Methods(http.MethodPut)
	api.Handle("/tasks/{id}/status", jsonOnly(private(h.updateTaskStatus))).Methods(http.MethodPatch)
	api.Handle("/tasks/{id}", private(h.deleteTask)).Methods(http.MethodDelete)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger),
		handlers.PrintRecoveryStack(false),
	)

	return recovery(cors(router))
}
