package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/forum/internal/domain"
	"github.com/msomdec/forum/internal/service"
)

// PostHandler handles post and comment requests. Every route behind it
// requires a session.
type PostHandler struct {
	forum *service.ForumService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(forum *service.ForumService) *PostHandler {
	return &PostHandler{forum: forum}
}

// HandleList returns every post, newest first.
// GET /posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.forum.ListPosts(r.Context())
	if err != nil {
		writeInternalError(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTOs(posts))
}

// HandleCreate creates a post authored by the session user.
// POST /posts
// Request: {"title":"...","body":"..."}
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.forum.CreatePost(r.Context(), user.ID, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, inputMessage(err))
			return
		}
		writeInternalError(w, "create post", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostDTO(post))
}

// HandleGet returns a post with its comments.
// GET /posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	post, err := h.forum.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeInternalError(w, "get post", err)
		return
	}

	writeJSON(w, http.StatusOK, toPostDetailDTO(post))
}

// HandleComment adds a comment to an open post.
// POST /posts/{id}/comments
// Request: {"body":"..."}
func (h *PostHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.forum.AddComment(r.Context(), user.ID, id, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, inputMessage(err))
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, domain.ErrPostLocked):
			writeError(w, http.StatusForbidden, "Post is locked")
		default:
			writeInternalError(w, "create comment", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toCommentDTO(comment))
}

// HandleLock locks a post. Only its author may do so.
// POST /posts/{id}/lock
func (h *PostHandler) HandleLock(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	post, err := h.forum.LockPost(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, domain.ErrNotAuthor):
			writeError(w, http.StatusForbidden, "Only author can lock")
		default:
			writeInternalError(w, "lock post", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}
