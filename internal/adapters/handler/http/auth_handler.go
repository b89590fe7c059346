package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	cookieDomain   string
	cookieSameSite http.SameSite
}

func NewAuthHandler(authService ports.AuthService, cookieDomain string, cookieSameSite http.SameSite) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		cookieDomain:   cookieDomain,
		cookieSameSite: cookieSameSite,
	}
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	credential := r.FormValue("credential")
	if credential == "" {
		http.Error(w, "Missing credential", http.StatusBadRequest)
		return
	}

	accessToken, refreshToken, err := h.authService.LoginWithGoogle(r.Context(), credential)
	if err != nil {
		http.Error(w, "Authentication failed", http.StatusUnauthorized)
		return
	}

	h.setAccessTokenCookie(w, accessToken)
	h.setRefreshTokenCookie(w, refreshToken)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		http.Error(w, "Missing refresh token", http.StatusUnauthorized)
		return
	}

	accessToken, refreshToken, err := h.authService.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		h.expireCookies(w)
		http.Error(w, "Refresh failed", http.StatusUnauthorized)
		return
	}

	h.setAccessTokenCookie(w, accessToken)
	if refreshToken != "" && refreshToken != cookie.Value {
		h.setRefreshTokenCookie(w, refreshToken)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err == nil && cookie.Value != "" {
		_ = h.authService.Logout(r.Context(), cookie.Value)
	}

	h.expireCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   15 * 60,
	})
}

func (h *AuthHandler) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   7 * 24 * 60 * 60,
	})
}

func (h *AuthHandler) expireCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", MaxAge: -1, Path: "/", Domain: h.cookieDomain})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", MaxAge: -1, Path: "/", Domain: h.cookieDomain})
}
