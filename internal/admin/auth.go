package admin

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin_session"

// AuthHandler manages admin login and logout.
type AuthHandler struct {
	username string
	password string
	sessions SessionStore
	secure   bool
	logger   *logging.Logger
}

// NewAuthHandler creates the admin auth handler. secure controls the
// Secure flag on the session cookie (off for local development).
func NewAuthHandler(username, password string, sessions SessionStore, secure bool, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{
		username: username,
		password: password,
		sessions: sessions,
		secure:   secure,
		logger:   logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Benutzername und Passwort erforderlich")
		return
	}

	if h.password == "" || !h.credentialsMatch(req.Username, req.Password) {
		h.logger.Info("admin login rejected", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "Ungültige Anmeldedaten")
		return
	}

	token, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error("session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Anmeldefehler")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(DefaultSessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("admin logged in", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Erfolgreich angemeldet",
	})
}

// Logout handles DELETE /api/admin/auth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Error("session destroy failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Erfolgreich abgemeldet",
	})
}

func (h *AuthHandler) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.password)) == 1
	return userOK && passOK
}

// RequireSession gates a route group behind a valid admin session cookie.
func RequireSession(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || !sessions.Validate(r.Context(), cookie.Value) {
				writeError(w, http.StatusUnauthorized, "Nicht authentifiziert")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
