package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/internal/user/usecase/command"
	"github.com/tair/storefront/internal/user/usecase/query"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/middleware"
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	// Command handlers
	createHandler       *command.CreateUserHandler
	updateHandler       *command.UpdateUserHandler
	changeRoleHandler   *command.ChangeRoleHandler
	toggleActiveHandler *command.ToggleActiveHandler

	// Query handlers
	getUserHandler *query.GetUserHandler
	listHandler    *query.ListUsersHandler
	statsHandler   *query.GetStatsHandler

	guard   *middleware.Guard
	metrics *middleware.Metrics
}

// NewUserHandlerWithDI creates a new user handler using dependency injection
func NewUserHandlerWithDI(
	createHandler *command.CreateUserHandler,
	updateHandler *command.UpdateUserHandler,
	changeRoleHandler *command.ChangeRoleHandler,
	toggleActiveHandler *command.ToggleActiveHandler,
	getUserHandler *query.GetUserHandler,
	listHandler *query.ListUsersHandler,
	statsHandler *query.GetStatsHandler,
	guard *middleware.Guard,
	metrics *middleware.Metrics,
) *UserHandler {
	return &UserHandler{
		createHandler:       createHandler,
		updateHandler:       updateHandler,
		changeRoleHandler:   changeRoleHandler,
		toggleActiveHandler: toggleActiveHandler,
		getUserHandler:      getUserHandler,
		listHandler:         listHandler,
		statsHandler:        statsHandler,
		guard:               guard,
		metrics:             metrics,
	}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Instrument

	// Authenticated routes
	router.HandleFunc("/api/users/me", m("/api/users/me", h.guard.Auth(h.GetProfile))).Methods("GET")
	router.HandleFunc("/api/users/me", m("/api/users/me", h.guard.Auth(h.UpdateProfile))).Methods("PATCH")

	// Admin routes
	router.HandleFunc("/api/users", m("/api/users", h.guard.Admin(h.ListUsers))).Methods("GET")
	router.HandleFunc("/api/users", m("/api/users", h.guard.Admin(h.CreateUser))).Methods("POST")
	router.HandleFunc("/api/users/stats", m("/api/users/stats", h.guard.Admin(h.GetStats))).Methods("GET")
	router.HandleFunc("/api/users/{id}", m("/api/users/{id}", h.guard.Admin(h.GetUser))).Methods("GET")
	router.HandleFunc("/api/users/{id}", m("/api/users/{id}", h.guard.Admin(h.UpdateUser))).Methods("PATCH")
	router.HandleFunc("/api/users/{id}/role", m("/api/users/{id}/role", h.guard.Admin(h.ChangeRole))).Methods("PUT")
	router.HandleFunc("/api/users/{id}/status", m("/api/users/{id}/status", h.guard.Admin(h.ToggleActive))).Methods("PUT")
}

// GetProfile handles GET /api/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	me, _ := middleware.UserFromContext(r.Context())

	user, err := h.getUserHandler.Handle(query.GetUserQuery{UserID: me.ID})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "", user)
}

// UpdateProfile handles PATCH /api/users/me; role and status are not self-service
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	me, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		Avatar  *string `json:"avatar"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	user, err := h.updateHandler.Handle(command.UpdateUserCommand{
		UserID: me.ID,
		Patch: domain.UserPatch{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			Avatar:  req.Avatar,
		},
	})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "Profile updated successfully", user)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	users := h.listHandler.Handle(query.ListUsersQuery{
		Role:   v.Get("role"),
		Status: v.Get("status"),
		Search: v.Get("search"),
	})

	middleware.RespondOK(w, http.StatusOK, "", map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.NewUser
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	user, err := h.createHandler.Handle(command.CreateUserCommand{User: req})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Str("email", req.Email).Msg("Failed to create user")
		middleware.RespondError(w, err)
		return
	}

	h.updateActiveUsersMetric()
	middleware.RespondOK(w, http.StatusCreated, "User created successfully", user)
}

// GetStats handles GET /api/users/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	middleware.RespondOK(w, http.StatusOK, "", h.statsHandler.Handle(query.GetStatsQuery{}))
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	user, err := h.getUserHandler.Handle(query.GetUserQuery{UserID: id})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "", user)
}

// UpdateUser handles PATCH /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	var patch domain.UserPatch
	if err := middleware.DecodeJSON(r, &patch); err != nil {
		middleware.RespondError(w, err)
		return
	}
	// last login is maintained by the session binding only
	patch.LastLogin = nil

	user, err := h.updateHandler.Handle(command.UpdateUserCommand{UserID: id, Patch: patch})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	h.updateActiveUsersMetric()
	middleware.RespondOK(w, http.StatusOK, "User updated successfully", user)
}

// ChangeRole handles PUT /api/users/{id}/role
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	user, err := h.changeRoleHandler.Handle(command.ChangeRoleCommand{UserID: id, Role: req.Role})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	logger.Info(r.Context()).Int64("user_id", id).Str("role", req.Role).Msg("User role changed")
	middleware.RespondOK(w, http.StatusOK, "Role updated successfully", user)
}

// ToggleActive handles PUT /api/users/{id}/status
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	user, err := h.toggleActiveHandler.Handle(command.ToggleActiveCommand{UserID: id, IsActive: req.IsActive})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	h.updateActiveUsersMetric()
	logger.Info(r.Context()).Int64("user_id", id).Bool("is_active", req.IsActive).Msg("User status changed")
	middleware.RespondOK(w, http.StatusOK, "Status updated successfully", user)
}

// updateActiveUsersMetric updates the active users gauge
func (h *UserHandler) updateActiveUsersMetric() {
	stats := h.statsHandler.Handle(query.GetStatsQuery{})
	h.metrics.ActiveUsers.Set(float64(stats.ActiveUsers))
}

func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperr.Invalid("invalid user id")
	}
	return id, nil
}
