package store

import "context"

func (s *Store) HasLike(ctx context.Context, postID, userID string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return false, wrapErr("has like", err)
	}
	return n > 0, nil
}

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO likes (post_id, user_id) VALUES (?, ?)
		 ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
	return wrapErr("add like", err)
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	return wrapErr("remove like", err)
}

func (s *Store) CountLikes(ctx context.Context, postID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID)
	if err != nil {
		return 0, wrapErr("count likes", err)
	}
	return n, nil
}

// ToggleLike flips the (postID, userID) like membership inside a
// single transaction: a conditional insert, falling back to delete
// when the like already exists. The returned count is a fresh
// aggregate from the same transaction, never an incrementally
// maintained counter. Returns ErrNotFound when the post is absent.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string) (liked bool, count int, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, 0, wrapErr("toggle like (begin)", err)
	}
	defer tx.Rollback()

	var one int
	if err := tx.GetContext(ctx, &one, `SELECT 1 FROM posts WHERE post_id = ?`, postID); err != nil {
		return false, 0, wrapErr("toggle like (post)", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO likes (post_id, user_id) VALUES (?, ?)
		 ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
	if err != nil {
		return false, 0, wrapErr("toggle like (insert)", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, 0, wrapErr("toggle like (rows)", err)
	}

	if inserted == 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM likes WHERE post_id = ? AND user_id = ?`, postID, userID); err != nil {
			return false, 0, wrapErr("toggle like (delete)", err)
		}
	}
	liked = inserted > 0

	if err := tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID); err != nil {
		return false, 0, wrapErr("toggle like (count)", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, wrapErr("toggle like (commit)", err)
	}
	return liked, count, nil
}
