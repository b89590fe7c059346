package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Save takes a share lock on the poll row so a concurrent poll deletion
// (which locks the row FOR UPDATE) is serialized against this insert, then
// re-verifies the option inside the transaction. The UNIQUE(poll_id, user_id)
// constraint settles races between duplicate votes.
func (r *voteRepository) Save(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM polls WHERE id = $1 FOR SHARE`, vote.PollID).Scan(&locked)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to lock poll: %w", err)
	}

	var optionOK int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM poll_options WHERE id = $1 AND poll_id = $2`,
		vote.OptionID, vote.PollID,
	).Scan(&optionOK)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrOptionNotFound
		}
		return fmt.Errorf("failed to check option: %w", err)
	}

	query := `
		INSERT INTO votes (poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, vote.PollID, vote.OptionID, vote.UserID, vote.CreatedAt).Scan(&vote.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *voteRepository) HasVoted(ctx context.Context, pollID, userID int64) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) OptionCounts(ctx context.Context, pollID int64) (map[int64]int, error) {
	query := `
		SELECT option_id, COUNT(*)
		FROM votes
		WHERE poll_id = $1
		GROUP BY option_id
	`
	return r.scanCounts(r.db.QueryContext(ctx, query, pollID))
}

func (r *voteRepository) AllOptionCounts(ctx context.Context) (map[int64]int, error) {
	query := `
		SELECT option_id, COUNT(*)
		FROM votes
		GROUP BY option_id
	`
	return r.scanCounts(r.db.QueryContext(ctx, query))
}

func (r *voteRepository) PollIDsVotedBy(ctx context.Context, userID int64) (map[int64]bool, error) {
	query := `SELECT DISTINCT poll_id FROM votes WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get voted polls: %w", err)
	}
	defer rows.Close()

	voted := make(map[int64]bool)
	for rows.Next() {
		var pollID int64
		if err := rows.Scan(&pollID); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		voted[pollID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voted polls: %w", err)
	}
	return voted, nil
}

func (r *voteRepository) scanCounts(rows *sql.Rows, err error) (map[int64]int, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var optionID int64
		var count int
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[optionID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return counts, nil
}
