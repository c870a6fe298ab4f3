package store

import (
	"context"
	"time"
)

type User struct {
	ID           string    `db:"user_id" json:"userId"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	ImageRef     *string   `db:"image_ref" json:"imageRef,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, email, password_hash, display_name, image_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.ImageRef, u.CreatedAt)
	return wrapErr("create user", err)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `
		SELECT user_id, email, password_hash, display_name, image_ref, created_at
		FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, wrapErr("find user by email", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `
		SELECT user_id, email, password_hash, display_name, image_ref, created_at
		FROM users WHERE user_id = ?`, id)
	if err != nil {
		return nil, wrapErr("get user", err)
	}
	return &u, nil
}

func (s *Store) UpdateProfileImage(ctx context.Context, userID, imageRef string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET image_ref = ? WHERE user_id = ?`, imageRef, userID)
	if err != nil {
		return wrapErr("update profile image", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
