package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/isdelr/tasktracker/internal/auth"
	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles signup, login and logout.
type UserHandler struct {
	service      services.UserServiceProvider
	sessions     *auth.SessionManager
	events       services.EventServiceProvider
	cookieName   string
	secureCookie bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, sessions *auth.SessionManager, events services.EventServiceProvider, cookieName string, secureCookie bool) *UserHandler {
	return &UserHandler{
		service:      service,
		sessions:     sessions,
		events:       events,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// CredentialsPayload defines the structure for signup and login requests.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeBody(r, &payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Signup(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			log.Warn().Str("username", payload.Username).Msg("Signup with taken username")
			writeMessage(w, http.StatusBadRequest, "Username already exists")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		writeInternalError(w)
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User signed up")
	h.record(r, user.ID, models.EventUserSignup, "Signed up as "+user.Username)
	writeMessage(w, http.StatusOK, "Signup successful")
}

// Login checks credentials and starts a session carried by a cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeBody(r, &payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to authenticate user")
		writeInternalError(w)
		return
	}

	// A new login replaces whatever session the client held.
	h.sessions.Logout(auth.TokenFromRequest(r, h.cookieName))

	token, err := h.sessions.Login(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		writeInternalError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  time.Now().Add(h.sessions.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	h.record(r, user.ID, models.EventUserLogin, "Logged in")
	writeMessage(w, http.StatusOK, "Login successful")
}

// Logout ends the caller's session, if any. It always succeeds.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r, h.cookieName)
	if user, err := h.sessions.CurrentUser(token); err == nil {
		h.record(r, user.ID, models.EventUserLogout, "Logged out")
	}
	h.sessions.Logout(token)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *UserHandler) record(r *http.Request, userID, eventType, message string) {
	if h.events == nil {
		return
	}
	if err := h.events.Record(r.Context(), userID, eventType, message, nil); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("type", eventType).Msg("Failed to record event")
	}
}
