package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialstream/backend/realtime"
	"socialstream/backend/store"
)

func waitForEvent(t *testing.T, c *realtime.Client, kind string) realtime.Envelope {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case raw, ok := <-c.Send:
			require.True(t, ok, "send queue closed while waiting for %q", kind)
			var env realtime.Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			if env.Type == kind {
				return env
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", kind)
		}
	}
}

func TestCreatePostRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	w := doJSON(t, api.PostsHandler, http.MethodPost, "/api/posts", map[string]string{
		"content": "hello",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostBroadcastsWithZeroLikes(t *testing.T) {
	api := newTestAPI(t)
	cookies := signup(t, api, "a@example.com", "A")

	observer := &realtime.Client{ConnID: "observer", Send: make(chan []byte, 16)}
	api.hub.Register(observer)

	w := doJSON(t, api.PostsHandler, http.MethodPost, "/api/posts", map[string]string{
		"content": "hello",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	env := waitForEvent(t, observer, realtime.EventFeedPostCreated)
	var got realtime.PostEvent
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "hello", got.Post.Content)
	assert.Equal(t, "A", got.Post.AuthorName)
	assert.Equal(t, 0, got.Post.LikeCount)
}

func TestListPostsViewerSpecific(t *testing.T) {
	api := newTestAPI(t)
	aCookies := signup(t, api, "a@example.com", "A")
	bCookies := signup(t, api, "b@example.com", "B")

	w := doJSON(t, api.PostsHandler, http.MethodPost, "/api/posts", map[string]string{
		"content": "hello",
	}, aCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Post store.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// B likes A's post directly through the store.
	sess, err := api.sessions.Get(requestWithCookies(t, bCookies))
	require.NoError(t, err)
	require.NoError(t, api.store.AddLike(context.Background(), created.Post.ID, sess.UserID))

	var listed struct {
		Posts []store.Post `json:"posts"`
	}

	w = doJSON(t, api.PostsHandler, http.MethodGet, "/api/posts", nil, bCookies)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Posts, 1)
	assert.Equal(t, 1, listed.Posts[0].LikeCount)
	assert.True(t, listed.Posts[0].IsLiked)

	w = doJSON(t, api.PostsHandler, http.MethodGet, "/api/posts", nil, aCookies)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.False(t, listed.Posts[0].IsLiked)
}

func TestCommentsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	cookies := signup(t, api, "a@example.com", "A")

	w := doJSON(t, api.PostsHandler, http.MethodPost, "/api/posts", map[string]string{
		"content": "hello",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Post store.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, api.PostSubresourceHandler, http.MethodPost,
		"/api/posts/"+created.Post.ID+"/comments", map[string]string{"content": "first"}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	// Commenting on a missing post is a 404, not a silent success.
	w = doJSON(t, api.PostSubresourceHandler, http.MethodPost,
		"/api/posts/no-such-post/comments", map[string]string{"content": "x"}, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, api.PostSubresourceHandler, http.MethodGet,
		"/api/posts/"+created.Post.ID+"/comments", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Comments []store.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Comments, 1)
	assert.Equal(t, "first", listed.Comments[0].Content)
	assert.Equal(t, "A", listed.Comments[0].AuthorName)
}

func TestHistoryEndpointSymmetric(t *testing.T) {
	api := newTestAPI(t)
	aCookies := signup(t, api, "a@example.com", "A")
	bCookies := signup(t, api, "b@example.com", "B")

	aSess, err := api.sessions.Get(requestWithCookies(t, aCookies))
	require.NoError(t, err)
	bSess, err := api.sessions.Get(requestWithCookies(t, bCookies))
	require.NoError(t, err)

	_, err = api.messenger.Send(context.Background(), aSess.UserID, bSess.UserID, "hi")
	require.NoError(t, err)

	var resp struct {
		Messages []store.PrivateMessage `json:"messages"`
	}

	w := doJSON(t, api.HistoryHandler, http.MethodGet, "/api/history?with="+bSess.UserID, nil, aCookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "hi", resp.Messages[0].Body)

	w = doJSON(t, api.HistoryHandler, http.MethodGet, "/api/history?with="+aSess.UserID, nil, bCookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
}
