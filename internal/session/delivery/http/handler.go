package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/storefront/internal/session"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/middleware"
)

// AuthHandler exposes the session binding over HTTP
type AuthHandler struct {
	binding *session.Binding
	guard   *middleware.Guard
	metrics *middleware.Metrics
}

// NewAuthHandlerWithDI creates a new auth handler using dependency injection
func NewAuthHandlerWithDI(binding *session.Binding, guard *middleware.Guard, metrics *middleware.Metrics) *AuthHandler {
	return &AuthHandler{
		binding: binding,
		guard:   guard,
		metrics: metrics,
	}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Instrument

	router.HandleFunc("/auth/register", m("/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/auth/login", m("/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/auth/session", m("/auth/session", h.Resume)).Methods("GET")
	router.HandleFunc("/auth/logout", m("/auth/logout", h.guard.Auth(h.Logout))).Methods("POST")
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	res, err := h.binding.Register(r.Context(), session.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	h.metrics.ActiveUsers.Inc()
	middleware.RespondOK(w, http.StatusCreated, "Registration successful", res)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	res, err := h.binding.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "Login successful", res)
}

// Resume handles GET /auth/session, restoring the session of the bearer token
func (h *AuthHandler) Resume(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		middleware.RespondError(w, apperr.ErrAuthFailure)
		return
	}

	res, err := h.binding.Resume(r.Context(), token)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "", res)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.binding.Logout(r.Context(), middleware.TokenFromContext(r.Context())); err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "Logged out", nil)
}
