package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/msomdec/forum/internal/domain"
	"github.com/msomdec/forum/internal/service"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "forum_session"

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth   *service.AuthService
	cookie CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// HandleRegister processes a JSON registration request.
// POST /auth/register
// Request:  {"email":"...","name":"...","password":"..."}
// Response: 201 {"id":1,"email":"...","name":"...","createdAt":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, inputMessage(err))
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "Email already used")
		default:
			writeInternalError(w, "register user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleLogin verifies credentials and sets the session cookie.
// POST /auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"id":1,"email":"...","name":"...","createdAt":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, inputMessage(err))
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			writeInternalError(w, "login user", err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cookie.TTL.Seconds()),
	})

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleMe returns the currently authenticated user, or null.
// GET /auth/me
// Response: {"user": {...}} or {"user": null}
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogout destroys the server-side session and clears the cookie.
// POST /auth/logout
// Response: {"ok": true}
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), SessionIDFromContext(r.Context())); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeInternalError(w, "logout user", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
