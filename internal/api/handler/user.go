package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/medical-agent/internal/api/middleware"
	"github.com/Rrens/medical-agent/internal/api/response"
	"github.com/Rrens/medical-agent/internal/domain"
)

// UserService is the user bootstrap used by UserHandler
type UserService interface {
	GetOrCreate(ctx context.Context, email, name string) (*domain.User, error)
}

// UserHandler handles user endpoints
type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Bootstrap returns the caller's user record, creating it on first sign-in
func (h *UserHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	user, err := h.users.GetOrCreate(r.Context(), email, middleware.GetUserName(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, user)
}
