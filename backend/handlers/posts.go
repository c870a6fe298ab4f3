package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"socialstream/backend/realtime"
	"socialstream/backend/store"
)

type createPostPayload struct {
	Content  string  `json:"content"`
	MediaRef *string `json:"mediaRef,omitempty"`
}

// /api/posts
func (a *API) PostsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.handleListPosts(w, r)
	case http.MethodPost:
		a.handleCreatePost(w, r)
	default:
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleListPosts(w http.ResponseWriter, r *http.Request) {
	// Anonymous readers get the feed without viewer-specific likes.
	var viewerID string
	if sess, err := a.sessions.Get(r); err == nil {
		viewerID = sess.UserID
	}

	posts, err := a.store.ListPosts(r.Context(), viewerID)
	if err != nil {
		a.sendStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"posts":   posts,
	})
}

func (a *API) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Get(r)
	if err != nil {
		sendErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var p createPostPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		sendErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	content := strings.TrimSpace(p.Content)
	if content == "" {
		sendErrorResponse(w, "Content cannot be empty", http.StatusBadRequest)
		return
	}

	author, err := a.store.GetUser(r.Context(), sess.UserID)
	if err != nil {
		a.sendStoreError(w, err)
		return
	}

	post := &store.Post{
		ID:        store.NewID(),
		AuthorID:  author.ID,
		Content:   content,
		MediaRef:  p.MediaRef,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.CreatePost(r.Context(), post); err != nil {
		a.sendStoreError(w, err)
		return
	}
	post.AuthorName = author.DisplayName

	a.hub.Publish(realtime.EventFeedPostCreated, realtime.PostEvent{Post: *post})

	sendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"post":    post,
	})
}
