package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialstream/backend/realtime"
	"socialstream/backend/store"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	log := zap.NewNop().Sugar()

	st, err := store.Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.EnsureSchema(context.Background()))

	hub := realtime.NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	reg := realtime.NewRegistry(st, hub, log)
	msgr := realtime.NewMessenger(st, reg, hub, log)
	return New(st, hub, reg, msgr, NewSessionStore(), log)
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func requestWithCookies(t *testing.T, cookies []*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func signup(t *testing.T, api *API, email, name string) []*http.Cookie {
	t.Helper()
	w := doJSON(t, api.SignupHandler, http.MethodPost, "/api/signup", map[string]string{
		"email":       email,
		"password":    "supersecret",
		"displayName": name,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return w.Result().Cookies()
}

func TestSignupAndLoginFlow(t *testing.T) {
	api := newTestAPI(t)

	cookies := signup(t, api, "a@example.com", "A")
	require.NotEmpty(t, cookies)

	// Duplicate email is a distinct conflict, not a generic failure.
	w := doJSON(t, api.SignupHandler, http.MethodPost, "/api/signup", map[string]string{
		"email":       "a@example.com",
		"password":    "supersecret",
		"displayName": "Other",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, api.LoginHandler, http.MethodPost, "/api/login", map[string]string{
		"email":    "a@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, api.LoginHandler, http.MethodPost, "/api/login", map[string]string{
		"email":    "a@example.com",
		"password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := []map[string]string{
		{"email": "not-an-email", "password": "supersecret", "displayName": "A"},
		{"email": "a@example.com", "password": "short", "displayName": "A"},
		{"email": "a@example.com", "password": "supersecret", "displayName": ""},
	}
	for _, payload := range cases {
		w := doJSON(t, api.SignupHandler, http.MethodPost, "/api/signup", payload, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}
}

func TestSessionHandlerReturnsCurrentUser(t *testing.T) {
	api := newTestAPI(t)
	cookies := signup(t, api, "a@example.com", "A")

	w := doJSON(t, api.SessionHandler, http.MethodGet, "/api/session", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool        `json:"success"`
		User    *store.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "a@example.com", resp.User.Email)

	// Without the cookie there is no user, but no error either.
	w = doJSON(t, api.SessionHandler, http.MethodGet, "/api/session", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.User)
}

func TestLogoutDropsPresence(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	cookies := signup(t, api, "a@example.com", "A")

	var resp struct {
		User *store.User `json:"user"`
	}
	w := doJSON(t, api.SessionHandler, http.MethodGet, "/api/session", nil, cookies)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)

	require.NoError(t, api.registry.MarkOnline(ctx, resp.User.ID, "A", "conn-1"))

	w = doJSON(t, api.LogoutHandler, http.MethodPost, "/api/logout", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err := api.registry.ResolveConnection(ctx, resp.User.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The session is gone too.
	w = doJSON(t, api.SessionHandler, http.MethodGet, "/api/session", nil, cookies)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.User)
}
