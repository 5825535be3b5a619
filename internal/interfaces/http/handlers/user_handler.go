package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/interfaces/http/middleware"
	"shortlink.backend/internal/interfaces/http/response"
	"shortlink.backend/pkg/utils"
)

type userService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error)
}

type UserHandler struct {
	users userService
}

func NewUserHandler(users userService) *UserHandler {
	return &UserHandler{users: users}
}

// GetUser returns a public account profile
// GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid user id"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	response.Success(c, http.StatusOK, user)
}

// UpdateUser applies a partial update to the caller's own account
// PUT /users/update/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized - Missing token"))
		return
	}
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid user id"))
		return
	}

	var input entities.UpdateUserInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), actorID, id, &input)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}
