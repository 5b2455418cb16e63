package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/order-tracker/internal/validation"
)

// GetUsersHandler godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {object} ListResponse{data=[]models.User}
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *Handler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.catalog.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.list(w, r, users, len(users))
}

// GetUserByIDHandler godoc
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 400 {object} ErrorResponse "Invalid user ID"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) GetUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", validation.ErrInvalidUserID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	user, err := h.catalog.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.ok(w, r, http.StatusOK, user)
}
