package handler

import (
	"net/http"

	"github.com/msomdec/forum/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, forum *service.ForumService, db Pinger, cookie CookieConfig) {
	authHandler := NewAuthHandler(auth, cookie)
	postHandler := NewPostHandler(forum)
	userHandler := NewUserHandler(forum)
	homeHandler := NewHomeHandler(forum)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /health", HandleHealth(db))

	// Auth
	mux.HandleFunc("POST /auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleLogin)
	mux.Handle("GET /auth/me", OptionalAuth(auth, http.HandlerFunc(authHandler.HandleMe)))
	mux.Handle("POST /auth/logout", requireAuth(authHandler.HandleLogout))

	// Posts and comments
	mux.Handle("GET /posts", requireAuth(postHandler.HandleList))
	mux.Handle("POST /posts", requireAuth(postHandler.HandleCreate))
	mux.Handle("GET /posts/{id}", requireAuth(postHandler.HandleGet))
	mux.Handle("POST /posts/{id}/comments", requireAuth(postHandler.HandleComment))
	mux.Handle("POST /posts/{id}/lock", requireAuth(postHandler.HandleLock))

	// Profiles
	mux.Handle("GET /users/{id}", requireAuth(userHandler.HandleProfile))

	// HTML index
	mux.Handle("GET /", OptionalAuth(auth, http.HandlerFunc(homeHandler.HandleHome)))
}
