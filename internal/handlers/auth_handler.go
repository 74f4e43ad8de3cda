package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"spellquiz/internal/config"
	"spellquiz/internal/service"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthHandler serves teacher login, by access code or Google sign-in
type AuthHandler struct {
	authService *service.AuthService
	oauthConfig *oauth2.Config
}

// NewAuthHandler creates a new auth handler. Google sign-in is only
// offered when client credentials are configured.
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{authService: authService}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		h.oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectBaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

type loginRequest struct {
	AccessCode string `json:"accessCode"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the teacher access code for a dashboard token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.authService.LoginWithAccessCode(req.AccessCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAccessCode) {
			respondWithError(w, http.StatusUnauthorized, "Invalid access code", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Login failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, loginResponse{Token: token})
}

// StartGoogleOAuth initiates the Google sign-in flow
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", nil)
		return
	}

	state := uuid.New().String()
	h.setTempCookie(w, "oauth_state", state, 10*time.Minute)

	authURL := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleOAuthCallback completes the Google sign-in flow and issues a
// dashboard token
func (h *AuthHandler) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", err)
		return
	}
	h.clearTempCookie(w, "oauth_state")

	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", nil)
		return
	}

	oauthToken, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "OAuth exchange failed", err)
		return
	}

	email, err := h.fetchGoogleEmail(r.Context(), oauthToken)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Failed to fetch Google user info", err)
		return
	}

	token, err := h.authService.LoginWithIdentity(email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *AuthHandler) fetchGoogleEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Email == "" {
		return "", errors.New("no email in Google user info")
	}
	return payload.Email, nil
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
