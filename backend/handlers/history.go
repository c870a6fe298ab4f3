package handlers

import "net/http"

// GET /api/history?with=<userID>
//
// The REST history fetch is the catch-up path for clients that were
// offline when a message was delivered live.
func (a *API) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := a.sessions.Get(r)
	if err != nil {
		sendErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	withUserID := r.URL.Query().Get("with")
	if withUserID == "" {
		sendErrorResponse(w, "Missing 'with' parameter", http.StatusBadRequest)
		return
	}

	messages, err := a.messenger.History(r.Context(), sess.UserID, withUserID)
	if err != nil {
		a.sendStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"messages": messages,
	})
}
