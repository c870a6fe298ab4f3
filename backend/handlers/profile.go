package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"socialstream/backend/realtime"
)

type profileImagePayload struct {
	ImageRef string `json:"imageRef"`
}

// POST /api/profile/image
func (a *API) ProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := a.sessions.Get(r)
	if err != nil {
		sendErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var p profileImagePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		sendErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	p.ImageRef = strings.TrimSpace(p.ImageRef)
	if p.ImageRef == "" {
		sendErrorResponse(w, "Image reference is required", http.StatusBadRequest)
		return
	}

	if err := a.store.UpdateProfileImage(r.Context(), sess.UserID, p.ImageRef); err != nil {
		a.sendStoreError(w, err)
		return
	}

	a.hub.Publish(realtime.EventProfileUpdated, realtime.ProfileEvent{
		UserID:   sess.UserID,
		ImageRef: p.ImageRef,
	})

	sendJSON(w, http.StatusOK, Response{Success: true})
}
