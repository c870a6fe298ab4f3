package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"socialstream/backend/realtime"
	"socialstream/backend/store"
)

type createCommentPayload struct {
	Content string `json:"content"`
}

// Fan out /api/posts/{id}/<subresource>.
func (a *API) PostSubresourceHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" {
		sendErrorResponse(w, "Not found", http.StatusNotFound)
		return
	}
	postID := parts[0]

	switch parts[1] {
	case "comments":
		switch r.Method {
		case http.MethodGet:
			a.handleListComments(w, r, postID)
		case http.MethodPost:
			a.handleCreateComment(w, r, postID)
		default:
			sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		sendErrorResponse(w, "Not found", http.StatusNotFound)
	}
}

func (a *API) handleCreateComment(w http.ResponseWriter, r *http.Request, postID string) {
	sess, err := a.sessions.Get(r)
	if err != nil {
		sendErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var p createCommentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		sendErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	content := strings.TrimSpace(p.Content)
	if content == "" {
		sendErrorResponse(w, "Comment cannot be empty", http.StatusBadRequest)
		return
	}
	if len(content) > 4000 {
		sendErrorResponse(w, "Comment too long", http.StatusBadRequest)
		return
	}

	comment := &store.Comment{
		ID:        store.NewID(),
		PostID:    postID,
		AuthorID:  sess.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.CreateComment(r.Context(), comment); err != nil {
		a.sendStoreError(w, err)
		return
	}

	a.hub.Publish(realtime.EventFeedCommentCreated, realtime.CommentEvent{Comment: *comment})

	sendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"comment": comment,
	})
}

func (a *API) handleListComments(w http.ResponseWriter, r *http.Request, postID string) {
	comments, err := a.store.ListComments(r.Context(), postID)
	if err != nil {
		a.sendStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"comments": comments,
	})
}
