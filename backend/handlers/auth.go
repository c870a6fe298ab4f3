package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"socialstream/backend/store"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type signupPayload struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"displayName"`
	ImageRef    *string `json:"imageRef,omitempty"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/signup
func (a *API) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p signupPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		sendErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if !emailPattern.MatchString(p.Email) {
		sendErrorResponse(w, "Invalid email address", http.StatusBadRequest)
		return
	}
	if len(p.Password) < 8 {
		sendErrorResponse(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	if p.DisplayName == "" {
		sendErrorResponse(w, "Display name is required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		a.log.Errorw("hash password", "error", err)
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user := &store.User{
		ID:           store.NewID(),
		Email:        p.Email,
		PasswordHash: string(hash),
		DisplayName:  p.DisplayName,
		ImageRef:     p.ImageRef,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			sendErrorResponse(w, "Email already registered", http.StatusConflict)
			return
		}
		a.sendStoreError(w, err)
		return
	}

	a.sessions.Create(w, user.ID)
	sendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    user,
	})
}

// POST /api/login
func (a *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p loginPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		sendErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := a.store.FindUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(p.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendErrorResponse(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		a.sendStoreError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(p.Password)) != nil {
		sendErrorResponse(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	a.sessions.Create(w, user.ID)
	sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// POST /api/logout
func (a *API) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := a.sessions.Get(r)
	a.sessions.Delete(w, r)
	if err == nil {
		// Clean logout also drops live presence, distinct from a
		// transport disconnect.
		if err := a.registry.MarkOfflineByUser(r.Context(), sess.UserID); err != nil {
			a.log.Errorw("presence cleanup on logout", "user", sess.UserID, "error", err)
		}
	}
	sendJSON(w, http.StatusOK, Response{Success: true})
}

// GET /api/session
func (a *API) SessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := a.sessions.Get(r)
	if err != nil {
		sendJSON(w, http.StatusOK, map[string]any{"success": true, "user": nil})
		return
	}
	user, err := a.store.GetUser(r.Context(), sess.UserID)
	if err != nil {
		a.sessions.Delete(w, r)
		sendJSON(w, http.StatusOK, map[string]any{"success": true, "user": nil})
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
