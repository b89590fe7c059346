package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) ports.CommentRepository {
	return &commentRepository{
		db: db,
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	var pollID, parentID sql.NullInt64
	if id, ok := comment.Target.Poll(); ok {
		pollID = sql.NullInt64{Int64: id, Valid: true}
	}
	if id, ok := comment.Target.Parent(); ok {
		parentID = sql.NullInt64{Int64: id, Valid: true}
	}

	query := `
		INSERT INTO comments (text, author_id, poll_id, parent_comment_id, posted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, comment.Text, comment.AuthorID, pollID, parentID, comment.PostedAt).Scan(&comment.ID)
	if err != nil {
		switch constraint := violatedConstraint(err); {
		case strings.Contains(constraint, "poll"):
			return domain.ErrPollNotFound
		case strings.Contains(constraint, "parent"):
			return domain.ErrCommentNotFound
		case strings.Contains(constraint, "author"):
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := `
		SELECT id, text, author_id, poll_id, parent_comment_id, posted_at
		FROM comments
		WHERE id = $1
	`
	var comment domain.Comment
	var pollID, parentID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.Text, &comment.AuthorID, &pollID, &parentID, &comment.PostedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	if pollID.Valid {
		comment.Target = domain.PollTarget(pollID.Int64)
	} else {
		comment.Target = domain.ParentTarget(parentID.Int64)
	}
	return &comment, nil
}

func (r *commentRepository) ListRoots(ctx context.Context, pollID, viewerID int64) ([]*domain.CommentView, error) {
	query := `
		SELECT c.id, u.handle, c.text, c.posted_at,
			(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id),
			EXISTS (SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = $2)
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.poll_id = $1
		ORDER BY c.id
	`
	return r.scanViews(r.db.QueryContext(ctx, query, pollID, viewerID))
}

func (r *commentRepository) ListReplies(ctx context.Context, parentCommentID, viewerID int64) ([]*domain.CommentView, error) {
	query := `
		SELECT c.id, u.handle, c.text, c.posted_at,
			(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id),
			EXISTS (SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = $2)
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.parent_comment_id = $1
		ORDER BY c.id
	`
	return r.scanViews(r.db.QueryContext(ctx, query, parentCommentID, viewerID))
}

// Delete removes the comment and its whole reply subtree, likes first. A
// single DELETE covers the subtree; the self-referencing FK is satisfied
// because the statement removes parents and children together.
func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	subtree := `
		WITH RECURSIVE doomed AS (
			SELECT id FROM comments WHERE id = $1
			UNION ALL
			SELECT c.id FROM comments c JOIN doomed d ON c.parent_comment_id = d.id
		)
	`
	_, err = tx.ExecContext(ctx, subtree+`
		DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM doomed)`, id)
	if err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}

	res, err := tx.ExecContext(ctx, subtree+`
		DELETE FROM comments WHERE id IN (SELECT id FROM doomed)`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *commentRepository) Like(ctx context.Context, commentID, userID int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO comment_likes (user_id, comment_id)
		VALUES ($1, $2)
	`
	if _, err := tx.ExecContext(ctx, query, userID, commentID); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrAlreadyLiked
		}
		switch constraint := violatedConstraint(err); {
		case strings.Contains(constraint, "comment"):
			return 0, domain.ErrCommentNotFound
		case strings.Contains(constraint, "user"):
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to insert like: %w", err)
	}

	count, err := r.countLikes(ctx, tx, commentID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return count, nil
}

func (r *commentRepository) Unlike(ctx context.Context, commentID, userID int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE user_id = $1 AND comment_id = $2`,
		userID, commentID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete like: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return 0, domain.ErrNotLiked
	}

	count, err := r.countLikes(ctx, tx, commentID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return count, nil
}

// PollIDsCommentedBy walks every thread from its root so replies count
// toward the poll their thread is rooted on.
func (r *commentRepository) PollIDsCommentedBy(ctx context.Context, userID int64) (map[int64]bool, error) {
	query := `
		WITH RECURSIVE thread AS (
			SELECT id, author_id, poll_id FROM comments WHERE poll_id IS NOT NULL
			UNION ALL
			SELECT c.id, c.author_id, t.poll_id
			FROM comments c
			JOIN thread t ON c.parent_comment_id = t.id
		)
		SELECT DISTINCT poll_id FROM thread WHERE author_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commented polls: %w", err)
	}
	defer rows.Close()

	commented := make(map[int64]bool)
	for rows.Next() {
		var pollID int64
		if err := rows.Scan(&pollID); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		commented[pollID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commented polls: %w", err)
	}
	return commented, nil
}

func (r *commentRepository) countLikes(ctx context.Context, tx *sql.Tx, commentID int64) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`, commentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *commentRepository) scanViews(rows *sql.Rows, err error) ([]*domain.CommentView, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var views []*domain.CommentView
	for rows.Next() {
		var view domain.CommentView
		if err := rows.Scan(&view.ID, &view.AuthorHandle, &view.Text, &view.PostedAt, &view.LikeCount, &view.LikedByViewer); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return views, nil
}
