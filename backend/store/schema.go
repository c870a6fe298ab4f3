package store

import "context"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	user_id       TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	image_ref     TEXT,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS posts (
	post_id    TEXT PRIMARY KEY,
	author_id  TEXT NOT NULL REFERENCES users(user_id),
	content    TEXT NOT NULL,
	media_ref  TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS comments (
	comment_id TEXT PRIMARY KEY,
	post_id    TEXT NOT NULL REFERENCES posts(post_id),
	author_id  TEXT NOT NULL REFERENCES users(user_id),
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);

CREATE TABLE IF NOT EXISTS likes (
	post_id TEXT NOT NULL REFERENCES posts(post_id),
	user_id TEXT NOT NULL REFERENCES users(user_id),
	PRIMARY KEY (post_id, user_id)
);

CREATE TABLE IF NOT EXISTS private_messages (
	message_id   TEXT PRIMARY KEY,
	sender_id    TEXT NOT NULL REFERENCES users(user_id),
	recipient_id TEXT NOT NULL REFERENCES users(user_id),
	body         TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_pair ON private_messages(sender_id, recipient_id);

CREATE TABLE IF NOT EXISTS presence (
	connection_id TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	display_name  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_presence_user ON presence(user_id);
`

// EnsureSchema applies the schema. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaDDL)
	return wrapErr("ensure schema", err)
}
