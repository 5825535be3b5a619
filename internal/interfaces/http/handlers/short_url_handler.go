package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/interfaces/http/middleware"
	"shortlink.backend/internal/interfaces/http/response"
	"shortlink.backend/pkg/utils"
)

const msgURLNotFound = "Url not found"

type shortURLService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input *entities.CreateShortURLInput) (*entities.ShortURL, error)
	Resolve(ctx context.Context, code string) (string, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.ShortURL, int64, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input *entities.UpdateShortURLInput) (*entities.ShortURL, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ShortURLHandler handles short URL endpoints
type ShortURLHandler struct {
	urls shortURLService
}

func NewShortURLHandler(urls shortURLService) *ShortURLHandler {
	return &ShortURLHandler{urls: urls}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized - Missing token"))
	}
	return id, ok
}

func mappingID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.Error(c, domainerrors.NotFound(msgURLNotFound))
	}
	return id, ok
}

// Create stores a new mapping for the caller
// POST /url
func (h *ShortURLHandler) Create(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}

	var input entities.CreateShortURLInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	mapping, err := h.urls.Create(c.Request.Context(), ownerID, &input)
	if err != nil {
		respondError(c, err, msgURLNotFound)
		return
	}
	response.Success(c, http.StatusCreated, mapping)
}

// Redirect sends the client to the long URL
// GET /url/:code
func (h *ShortURLHandler) Redirect(c *gin.Context) {
	longURL, err := h.urls.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, msgURLNotFound)
		return
	}
	c.Redirect(http.StatusFound, longURL)
}

// ShowLongURL returns the long URL without redirecting
// GET /url/show-long-url/:code
func (h *ShortURLHandler) ShowLongURL(c *gin.Context) {
	longURL, err := h.urls.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, msgURLNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Url found",
		"longUrl": longURL,
	})
}

// List returns the caller's mappings. page and limit are optional; the
// total count is reported in X-Total-Count.
// GET /url/list
func (h *ShortURLHandler) List(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.ParsePagination(c.Query("page"), c.Query("limit"))
	items, total, err := h.urls.ListForOwner(c.Request.Context(), ownerID, pagination)
	if err != nil {
		respondError(c, err, msgURLNotFound)
		return
	}
	if len(items) == 0 {
		response.Error(c, domainerrors.NotFound("No urls found"))
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	response.Success(c, http.StatusOK, items)
}

// Update changes the code and/or long URL of a mapping the caller owns
// PUT /url/update/:id
func (h *ShortURLHandler) Update(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := mappingID(c)
	if !ok {
		return
	}

	var input entities.UpdateShortURLInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	mapping, err := h.urls.Update(c.Request.Context(), ownerID, id, &input)
	if err != nil {
		respondError(c, err, msgURLNotFound)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message": "Url updated successfully",
		"url":     mapping,
	})
}

// Delete removes a mapping the caller owns
// DELETE /url/delete/:id
func (h *ShortURLHandler) Delete(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := mappingID(c)
	if !ok {
		return
	}

	if err := h.urls.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err, msgURLNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Url deleted successfully"})
}
