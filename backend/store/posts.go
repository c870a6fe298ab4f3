package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Post struct {
	ID         string    `db:"post_id" json:"postId"`
	AuthorID   string    `db:"author_id" json:"authorId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Content    string    `db:"content" json:"content"`
	MediaRef   *string   `db:"media_ref" json:"mediaRef,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	LikeCount  int       `db:"like_count" json:"likeCount"`
	IsLiked    bool      `db:"-" json:"isLiked"`
}

func (s *Store) CreatePost(ctx context.Context, p *Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (post_id, author_id, content, media_ref, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.AuthorID, p.Content, p.MediaRef, p.CreatedAt)
	return wrapErr("create post", err)
}

// ListPosts returns all posts, newest first, with the like count and
// the viewer's own like derived fresh from the likes table. viewerID
// may be empty for anonymous readers.
func (s *Store) ListPosts(ctx context.Context, viewerID string) ([]Post, error) {
	type postRow struct {
		Post
		IsLikedInt int `db:"is_liked"`
	}
	var rows []postRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT p.post_id, p.author_id, u.display_name AS author_name,
		       p.content, p.media_ref, p.created_at,
		       COUNT(l.user_id) AS like_count,
		       COALESCE(MAX(CASE WHEN l.user_id = ? THEN 1 ELSE 0 END), 0) AS is_liked
		FROM posts p
		JOIN users u ON u.user_id = p.author_id
		LEFT JOIN likes l ON l.post_id = p.post_id
		GROUP BY p.post_id
		ORDER BY p.created_at DESC, p.post_id DESC`, viewerID)
	if err != nil {
		return nil, wrapErr("list posts", err)
	}
	posts := make([]Post, 0, len(rows))
	for _, r := range rows {
		p := r.Post
		p.IsLiked = r.IsLikedInt == 1
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *Store) postExists(ctx context.Context, postID string) (bool, error) {
	var one int
	err := s.db.GetContext(ctx, &one, `SELECT 1 FROM posts WHERE post_id = ?`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr("post exists", err)
	}
	return true, nil
}
