package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/forum/internal/domain"
	"github.com/msomdec/forum/internal/service"
	"github.com/msomdec/forum/internal/view"
)

// HomeHandler renders the HTML forum index.
type HomeHandler struct {
	forum *service.ForumService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(forum *service.ForumService) *HomeHandler {
	return &HomeHandler{forum: forum}
}

// HandleHome renders the index page. Any other path unmatched by the mux
// gets a 404 page.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	displayName := ""
	user := UserFromContext(r.Context())
	if user != nil {
		displayName = user.DisplayName
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		view.ErrorPage(displayName, http.StatusNotFound, "Page not found").Render(r.Context(), w)
		return
	}

	var posts []domain.Post
	if user != nil {
		var err error
		posts, err = h.forum.ListPosts(r.Context())
		if err != nil {
			slog.Error("list posts for home", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			view.ErrorPage(displayName, http.StatusInternalServerError, "Something went wrong").Render(r.Context(), w)
			return
		}
	}

	view.HomePage(displayName, posts).Render(r.Context(), w)
}
