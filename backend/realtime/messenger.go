package realtime

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"socialstream/backend/store"
)

// Messenger routes private messages point-to-point. A message is
// always persisted before any delivery attempt; if the recipient has
// no live connection the message simply waits for their next history
// fetch. The sender's own connection always gets an echo so the
// client reflects the sent state without a refetch.
type Messenger struct {
	store    *store.Store
	registry *Registry
	hub      *Hub
	log      *zap.SugaredLogger
}

func NewMessenger(st *store.Store, reg *Registry, hub *Hub, log *zap.SugaredLogger) *Messenger {
	return &Messenger{store: st, registry: reg, hub: hub, log: log}
}

// Send persists the message and then attempts live delivery. A
// persistence failure aborts the whole operation; no delivery happens
// for an unpersisted message.
func (m *Messenger) Send(ctx context.Context, senderID, recipientID, body string) (*store.PrivateMessage, error) {
	msg := &store.PrivateMessage{
		ID:          store.NewID(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.store.SavePrivateMessage(ctx, msg); err != nil {
		return nil, err
	}

	event := MessageEvent{
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Body:        msg.Body,
		Timestamp:   msg.CreatedAt,
	}

	if connID, err := m.registry.ResolveConnection(ctx, recipientID); err == nil {
		m.hub.SendTo(connID, EventPrivateMessage, event)
	} else if !errors.Is(err, store.ErrNotFound) {
		m.log.Warnw("resolve recipient connection", "recipient", recipientID, "error", err)
	}

	if connID, err := m.registry.ResolveConnection(ctx, senderID); err == nil {
		m.hub.SendTo(connID, EventPrivateMessage, event)
	} else if !errors.Is(err, store.ErrNotFound) {
		m.log.Warnw("resolve sender connection", "sender", senderID, "error", err)
	}

	return msg, nil
}

// History returns the conversation between two users, oldest first,
// identical regardless of argument order.
func (m *Messenger) History(ctx context.Context, userA, userB string) ([]store.PrivateMessage, error) {
	return m.store.FetchHistory(ctx, userA, userB)
}
