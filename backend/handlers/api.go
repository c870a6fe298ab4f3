package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"socialstream/backend/realtime"
	"socialstream/backend/store"
)

// API is the REST facade: thin handlers over the store, the broadcast
// hub and the messaging router.
type API struct {
	store     *store.Store
	hub       *realtime.Hub
	registry  *realtime.Registry
	messenger *realtime.Messenger
	sessions  *SessionStore
	log       *zap.SugaredLogger
}

func New(st *store.Store, hub *realtime.Hub, reg *realtime.Registry, msgr *realtime.Messenger, sessions *SessionStore, log *zap.SugaredLogger) *API {
	return &API{
		store:     st,
		hub:       hub,
		registry:  reg,
		messenger: msgr,
		sessions:  sessions,
		log:       log,
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sendErrorResponse(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, Response{Success: false, Message: message})
}

// sendStoreError translates store errors into client responses.
// Internal detail never leaves the server.
func (a *API) sendStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		sendErrorResponse(w, "Already exists", http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		sendErrorResponse(w, "Not found", http.StatusNotFound)
	default:
		a.log.Errorw("request failed", "error", err)
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
