package handlers

import (
	"log"
	"net/http"
	"os"
	"time"

	"squares-app-go/middleware"
	"squares-app-go/models"
	"squares-app-go/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	authResponse, err := h.authService.Login(loginReq.Email, loginReq.Password)
	if err != nil {
		log.Printf("AuthHandler: Login failed for %s: %v", loginReq.Email, err)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.setAuthCookie(w, authResponse.Token)

	log.Printf("AuthHandler: User %s (%s) logged in", authResponse.User.Name, authResponse.User.Email)
	writeJSON(w, http.StatusOK, authResponse)
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	behindProxy := os.Getenv("BEHIND_PROXY") == "true"

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   !behindProxy,
		SameSite: http.SameSiteStrictMode,
	})

	log.Printf("AuthHandler: User logged out from %s", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the current user's information
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, user.ToSafeUser())
}

// setAuthCookie sets the authentication cookie
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	// Behind a TLS-terminating proxy the app sees plain HTTP
	behindProxy := os.Getenv("BEHIND_PROXY") == "true"

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   !behindProxy,
		SameSite: http.SameSiteStrictMode,
	})
}
