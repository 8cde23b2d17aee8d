package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mdpreview/mdpreview/internal/config"
	"github.com/mdpreview/mdpreview/internal/ctxkeys"
	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/mdpreview/mdpreview/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

type AuthHandler struct {
	authService       *service.AuthService
	userService       *service.UserService
	appURL            string
	googleOAuthConfig *oauth2.Config
	githubOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		appURL:      cfg.AppURL,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		githubOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// authResponse pairs the session token with the authenticated user.
type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, user *model.User) (*authResponse, error) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		return nil, err
	}

	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.Expiry()))
	user.PasswordHash = nil
	return &authResponse{Token: token, User: user}, nil
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondData(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	resp, err := h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondData(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	respondMessage(w, http.StatusOK, "Logged out")
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	respondData(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			respondError(w, http.StatusConflict, "Email already in use")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated.PasswordHash = nil
	respondData(w, http.StatusOK, updated)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.userService.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCurrentPassword) {
			respondError(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondMessage(w, http.StatusOK, "Password changed")
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(user.ID)
	if err != nil {
		slog.Error("failed to delete account", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	h.authService.ClearJWTCookie(w)
	respondMessage(w, http.StatusOK, "Account deleted")
}

func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	state := generateOAuthState()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	email, err := h.oauthEmail(r, h.googleOAuthConfig, "https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Warn("google oauth callback failed", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusTemporaryRedirect)
		return
	}

	h.finishOAuth(w, r, email, "google")
}

func (h *AuthHandler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	state := generateOAuthState()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.githubOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	email, err := h.oauthEmail(r, h.githubOAuthConfig, "https://api.github.com/user")
	if err != nil {
		slog.Warn("github oauth callback failed", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusTemporaryRedirect)
		return
	}

	h.finishOAuth(w, r, email, "github")
}

// oauthEmail validates the state cookie, exchanges the code, and fetches the
// account email from the provider's user info endpoint.
func (h *AuthHandler) oauthEmail(r *http.Request, cfg *oauth2.Config, userInfoURL string) (string, error) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		return "", fmt.Errorf("oauth state validation failed")
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return "", fmt.Errorf("missing authorization code")
	}

	token, err := cfg.Exchange(r.Context(), code)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}

	client := cfg.Client(r.Context(), token)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var info struct {
		Email string `json:"email"`
	}
	err = json.Unmarshal(body, &info)
	if err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", fmt.Errorf("provider returned no email")
	}

	return info.Email, nil
}

func (h *AuthHandler) finishOAuth(w http.ResponseWriter, r *http.Request, email, provider string) {
	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// Default the display name to the email's local part; the user can
	// change it in settings.
	username := email
	if i := strings.Index(email, "@"); i > 0 {
		username = email[:i]
	}

	user, err := h.authService.AuthenticateOAuth(email, username, provider)
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "provider", provider)
		http.Redirect(w, r, "/login?error=oauth", http.StatusTemporaryRedirect)
		return
	}

	_, err = h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		http.Redirect(w, r, "/login?error=oauth", http.StatusTemporaryRedirect)
		return
	}

	http.Redirect(w, r, "/callback", http.StatusTemporaryRedirect)
}

// generateOAuthState creates a cryptographically secure random state token
// for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}
