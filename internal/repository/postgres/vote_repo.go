package postgres

import (
	"context"
	"database/sql"

	"poll-maker/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func (r *VoteRepo) OptionIDs(ctx context.Context, pollID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT o.id
        FROM polls p
        LEFT JOIN poll_options o ON o.poll_id = p.id
        WHERE p.id = $1
        ORDER BY o.position, o.id
    `, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := false
	var ids []int64
	for rows.Next() {
		found = true
		var id sql.NullInt64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if id.Valid {
			ids = append(ids, id.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, vote.ErrPollNotFound
	}
	return ids, nil
}

func (r *VoteRepo) Create(ctx context.Context, v *vote.Vote) error {
	query := `
        INSERT INTO votes (poll_id, option_id, user_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query, v.PollID, v.OptionID, v.UserID).
		Scan(&v.ID, &v.CreatedAt)
	return voteInsertError(err)
}

func voteInsertError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "votes_user_poll_key"):
		return vote.ErrAlreadyVoted
	case isForeignKeyViolation(err, "votes_option_poll_fkey"):
		return vote.ErrInvalidOption
	case isForeignKeyViolation(err, "votes_poll_id_fkey"):
		return vote.ErrPollNotFound
	case isForeignKeyViolation(err, "votes_user_id_fkey"):
		// the session outlived its user row
		return vote.ErrUnauthenticated
	default:
		return err
	}
}

func (r *VoteRepo) CountByPoll(ctx context.Context, pollID int64) (map[int64]int64, int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT option_id, COUNT(*)
        FROM votes
        WHERE poll_id = $1
        GROUP BY option_id
    `, pollID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	res := make(map[int64]int64)
	var total int64
	for rows.Next() {
		var optID int64
		var c int64
		if err := rows.Scan(&optID, &c); err != nil {
			return nil, 0, err
		}
		res[optID] = c
		total += c
	}

	return res, total, rows.Err()
}

func (r *VoteRepo) HasVoted(ctx context.Context, pollID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2)
    `, pollID, userID).Scan(&exists)
	return exists, err
}
