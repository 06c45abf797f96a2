package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/forum/internal/domain"
	"github.com/msomdec/forum/internal/service"
)

// UserHandler serves public profiles.
type UserHandler struct {
	forum *service.ForumService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(forum *service.ForumService) *UserHandler {
	return &UserHandler{forum: forum}
}

// HandleProfile returns a user's public profile and their posts.
// GET /users/{id}
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	profile, err := h.forum.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeInternalError(w, "get profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}
