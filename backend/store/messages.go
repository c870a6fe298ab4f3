package store

import (
	"context"
	"time"
)

type PrivateMessage struct {
	ID          string    `db:"message_id" json:"messageId"`
	SenderID    string    `db:"sender_id" json:"senderId"`
	RecipientID string    `db:"recipient_id" json:"recipientId"`
	Body        string    `db:"body" json:"body"`
	CreatedAt   time.Time `db:"created_at" json:"timestamp"`
}

func (s *Store) SavePrivateMessage(ctx context.Context, m *PrivateMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO private_messages (message_id, sender_id, recipient_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.SenderID, m.RecipientID, m.Body, m.CreatedAt)
	return wrapErr("save private message", err)
}

// FetchHistory returns the conversation between userA and userB,
// oldest first. The pair is unordered: either side can be passed
// first and the result is identical.
func (s *Store) FetchHistory(ctx context.Context, userA, userB string) ([]PrivateMessage, error) {
	messages := []PrivateMessage{}
	err := s.db.SelectContext(ctx, &messages, `
		SELECT message_id, sender_id, recipient_id, body, created_at
		FROM private_messages
		WHERE (sender_id = ? AND recipient_id = ?)
		   OR (sender_id = ? AND recipient_id = ?)
		ORDER BY created_at ASC, message_id ASC`,
		userA, userB, userB, userA)
	if err != nil {
		return nil, wrapErr("fetch history", err)
	}
	return messages, nil
}
