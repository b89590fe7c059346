package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (question, creator_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, queryPoll, poll.Question, poll.CreatorID, poll.ExpiresAt, poll.CreatedAt).Scan(&poll.ID)
	if err != nil {
		if violatedConstraint(err) != "" {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (poll_id, text)
		VALUES ($1, $2)
		RETURNING id
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i := range poll.Options {
		poll.Options[i].PollID = poll.ID
		err = stmt.QueryRowContext(ctx, poll.ID, poll.Options[i].Text).Scan(&poll.Options[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	query := `
		SELECT id, question, creator_id, expires_at, created_at
		FROM polls
		WHERE id = $1
	`
	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID, &poll.Question, &poll.CreatorID, &poll.ExpiresAt, &poll.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := `
		SELECT id, question, creator_id, expires_at, created_at
		FROM polls
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.CreatorID, &poll.ExpiresAt, &poll.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	for _, poll := range polls {
		options, err := r.fetchOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options
	}

	return polls, nil
}

// Delete holds an exclusive lock on the poll row while it checks the vote
// guard and removes the poll's subtree, so no vote can land between the
// check and the commit. Cascades are explicit, leaves first: comment likes,
// the comment trees, votes, options, then the poll itself.
func (r *pollRepository) Delete(ctx context.Context, id int64, voteLimit int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM polls WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to lock poll: %w", err)
	}

	var totalVotes int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE poll_id = $1`, id).Scan(&totalVotes)
	if err != nil {
		return fmt.Errorf("failed to count votes: %w", err)
	}
	if totalVotes >= voteLimit {
		return domain.ErrPollHasVotes
	}

	subtree := `
		WITH RECURSIVE doomed AS (
			SELECT id FROM comments WHERE poll_id = $1
			UNION ALL
			SELECT c.id FROM comments c JOIN doomed d ON c.parent_comment_id = d.id
		)
	`
	_, err = tx.ExecContext(ctx, subtree+`
		DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM doomed)`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment likes: %w", err)
	}
	_, err = tx.ExecContext(ctx, subtree+`
		DELETE FROM comments WHERE id IN (SELECT id FROM doomed)`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID int64) ([]domain.PollOption, error) {
	query := `
		SELECT id, poll_id, text
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
