package store

import "context"

// PresenceEntry records one user's live connection binding. The
// connection id is routing state and must never appear in a broadcast
// payload.
type PresenceEntry struct {
	ConnectionID string  `db:"connection_id"`
	UserID       string  `db:"user_id"`
	DisplayName  string  `db:"display_name"`
	ImageRef     *string `db:"image_ref"`
}

func (s *Store) UpsertPresence(ctx context.Context, userID, displayName, connectionID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO presence (connection_id, user_id, display_name)
		VALUES (?, ?, ?)`, connectionID, userID, displayName)
	return wrapErr("upsert presence", err)
}

// RemovePresenceByConnection drops the entry for a connection and
// reports whether one existed. Absent entries are a no-op.
func (s *Store) RemovePresenceByConnection(ctx context.Context, connectionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM presence WHERE connection_id = ?`, connectionID)
	if err != nil {
		return false, wrapErr("remove presence by connection", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr("remove presence by connection", err)
	}
	return n > 0, nil
}

func (s *Store) RemovePresenceByUser(ctx context.Context, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM presence WHERE user_id = ?`, userID)
	if err != nil {
		return false, wrapErr("remove presence by user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr("remove presence by user", err)
	}
	return n > 0, nil
}

// ListPresence returns every live entry with the owner's current
// profile image joined in.
func (s *Store) ListPresence(ctx context.Context) ([]PresenceEntry, error) {
	entries := []PresenceEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT p.connection_id, p.user_id, p.display_name, u.image_ref
		FROM presence p
		LEFT JOIN users u ON u.user_id = p.user_id
		ORDER BY p.display_name ASC, p.user_id ASC`)
	if err != nil {
		return nil, wrapErr("list presence", err)
	}
	return entries, nil
}

// ResolveConnectionForUser returns the live connection id for a user,
// or ErrNotFound when the user has no connection.
func (s *Store) ResolveConnectionForUser(ctx context.Context, userID string) (string, error) {
	var connID string
	err := s.db.GetContext(ctx, &connID,
		`SELECT connection_id FROM presence WHERE user_id = ?`, userID)
	if err != nil {
		return "", wrapErr("resolve connection", err)
	}
	return connID, nil
}
