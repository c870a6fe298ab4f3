package store

import (
	"context"
	"time"
)

type Comment struct {
	ID          string    `db:"comment_id" json:"commentId"`
	PostID      string    `db:"post_id" json:"postId"`
	AuthorID    string    `db:"author_id" json:"authorId"`
	AuthorName  string    `db:"author_name" json:"authorName"`
	AuthorImage *string   `db:"author_image" json:"authorImage,omitempty"`
	Content     string    `db:"content" json:"content"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// CreateComment persists a comment and fills in the author's display
// name and image as they are at this moment, not a cached copy.
// Returns ErrNotFound when the post does not exist.
func (s *Store) CreateComment(ctx context.Context, c *Comment) error {
	ok, err := s.postExists(ctx, c.PostID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (comment_id, post_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt); err != nil {
		return wrapErr("create comment", err)
	}

	err = s.db.GetContext(ctx, c, `
		SELECT c.comment_id, c.post_id, c.author_id,
		       u.display_name AS author_name, u.image_ref AS author_image,
		       c.content, c.created_at
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.comment_id = ?`, c.ID)
	return wrapErr("load comment", err)
}

// ListComments returns a post's comments oldest first.
func (s *Store) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	comments := []Comment{}
	err := s.db.SelectContext(ctx, &comments, `
		SELECT c.comment_id, c.post_id, c.author_id,
		       u.display_name AS author_name, u.image_ref AS author_image,
		       c.content, c.created_at
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.comment_id ASC`, postID)
	if err != nil {
		return nil, wrapErr("list comments", err)
	}
	return comments, nil
}
