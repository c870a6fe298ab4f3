package store

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	Email       string
	Password    string
	DisplayName string
	ImageRef    string
}

var demoUsers = []demoUser{
	{"alice@example.com", "alice123", "Alice", "/uploads/alice.png"},
	{"bob@example.com", "bob12345", "Bob", "/uploads/bob.png"},
	{"carol@example.com", "carol123", "Carol", ""},
	{"dave@example.com", "dave1234", "Dave", ""},
}

// SeedDemoUsers inserts a handful of demo accounts for local
// development. Existing accounts are left alone.
func (s *Store) SeedDemoUsers(ctx context.Context) error {
	for _, du := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(du.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u := &User{
			ID:           NewID(),
			Email:        du.Email,
			PasswordHash: string(hash),
			DisplayName:  du.DisplayName,
			CreatedAt:    time.Now().UTC(),
		}
		if du.ImageRef != "" {
			ref := du.ImageRef
			u.ImageRef = &ref
		}
		if err := s.CreateUser(ctx, u); err != nil {
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return err
		}
		s.log.Debugw("seeded demo user", "email", du.Email)
	}
	return nil
}
