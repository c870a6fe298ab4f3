package realtime

import (
	"context"

	"go.uber.org/zap"

	"socialstream/backend/store"
)

// Registry tracks which users are online and through which live
// connection. The policy is one live connection per user: a new
// connection for a user replaces any previous one. Every effective
// mutation rebroadcasts the full online list; the redundant traffic
// is the price of never serving a stale list.
type Registry struct {
	store *store.Store
	hub   *Hub
	log   *zap.SugaredLogger
}

func NewRegistry(st *store.Store, hub *Hub, log *zap.SugaredLogger) *Registry {
	return &Registry{store: st, hub: hub, log: log}
}

// MarkOnline binds a user to a connection, replacing any presence
// entry the user held under another connection.
func (r *Registry) MarkOnline(ctx context.Context, userID, displayName, connID string) error {
	if _, err := r.store.RemovePresenceByUser(ctx, userID); err != nil {
		return err
	}
	if err := r.store.UpsertPresence(ctx, userID, displayName, connID); err != nil {
		return err
	}
	r.BroadcastOnline(ctx)
	return nil
}

// MarkOffline removes the entry for a connection. Calling it for a
// connection with no entry is a no-op and broadcasts nothing, so
// double-disconnect cleanup stays silent.
func (r *Registry) MarkOffline(ctx context.Context, connID string) error {
	removed, err := r.store.RemovePresenceByConnection(ctx, connID)
	if err != nil {
		return err
	}
	if removed {
		r.BroadcastOnline(ctx)
	}
	return nil
}

// MarkOfflineByUser removes a user's entry regardless of connection.
// Used for clean logout, where the transport may stay open.
func (r *Registry) MarkOfflineByUser(ctx context.Context, userID string) error {
	removed, err := r.store.RemovePresenceByUser(ctx, userID)
	if err != nil {
		return err
	}
	if removed {
		r.BroadcastOnline(ctx)
	}
	return nil
}

// ListOnline returns the current online users. Connection identities
// never leave the registry.
func (r *Registry) ListOnline(ctx context.Context) ([]OnlineUser, error) {
	entries, err := r.store.ListPresence(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]OnlineUser, 0, len(entries))
	for _, e := range entries {
		users = append(users, OnlineUser{
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			ImageRef:    e.ImageRef,
		})
	}
	return users, nil
}

// ResolveConnection returns the live connection id for a user, or
// store.ErrNotFound when the user is not connected.
func (r *Registry) ResolveConnection(ctx context.Context, userID string) (string, error) {
	return r.store.ResolveConnectionForUser(ctx, userID)
}

// BroadcastOnline pushes the current online list to everyone.
func (r *Registry) BroadcastOnline(ctx context.Context) {
	users, err := r.ListOnline(ctx)
	if err != nil {
		r.log.Errorw("list online users", "error", err)
		return
	}
	r.hub.Publish(EventOnlineUsers, users)
}
