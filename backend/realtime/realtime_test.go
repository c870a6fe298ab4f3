package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialstream/backend/store"
)

type testEnv struct {
	store     *store.Store
	hub       *Hub
	registry  *Registry
	messenger *Messenger
	log       *zap.SugaredLogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop().Sugar()

	st, err := store.Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.EnsureSchema(context.Background()))

	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	reg := NewRegistry(st, hub, log)
	return &testEnv{
		store:     st,
		hub:       hub,
		registry:  reg,
		messenger: NewMessenger(st, reg, hub, log),
		log:       log,
	}
}

func (e *testEnv) mustUser(t *testing.T, email, name string) *store.User {
	t.Helper()
	u := &store.User{
		ID:           store.NewID(),
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  name,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) mustPost(t *testing.T, author *store.User, content string) *store.Post {
	t.Helper()
	p := &store.Post{
		ID:        store.NewID(),
		AuthorID:  author.ID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.store.CreatePost(context.Background(), p))
	return p
}

func newFakeClient(connID string) *Client {
	return &Client{ConnID: connID, Send: make(chan []byte, 64)}
}

// waitForEvent reads the client's queue until an envelope of the
// wanted kind arrives, skipping everything else.
func waitForEvent(t *testing.T, c *Client, kind string) Envelope {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case raw, ok := <-c.Send:
			require.True(t, ok, "send queue closed while waiting for %q", kind)
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			if env.Type == kind {
				return env
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", kind)
		}
	}
}

// expectNoEvent asserts nothing of the given kind shows up within the
// window.
func expectNoEvent(t *testing.T, c *Client, kind string) {
	t.Helper()
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case raw, ok := <-c.Send:
			if !ok {
				return
			}
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			require.NotEqual(t, kind, env.Type, "unexpected %q event", kind)
		case <-deadline:
			return
		}
	}
}

func drain(c *Client) {
	for {
		select {
		case <-c.Send:
		default:
			return
		}
	}
}

func decodeData[T any](t *testing.T, env Envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
