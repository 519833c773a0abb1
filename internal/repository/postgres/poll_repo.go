package postgres

import (
	"context"
	"database/sql"
	"errors"

	"poll-maker/internal/domain/poll"
)

type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	queryPoll := `
        INSERT INTO polls (title, description, user_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	err = tx.QueryRowContext(ctx, queryPoll,
		p.Title,
		p.Description,
		p.UserID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return 0, err
	}

	queryOpt := `
        INSERT INTO poll_options (poll_id, text, position)
        VALUES ($1, $2, $3)
        RETURNING id
    `

	for i := range options {
		options[i].PollID = p.ID
		if err := tx.QueryRowContext(ctx, queryOpt, options[i].PollID, options[i].Text, options[i].Position).
			Scan(&options[i].ID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return p.ID, nil
}

func (r *PollRepo) GetByID(ctx context.Context, id int64) (*poll.Poll, []poll.Option, error) {
	p := &poll.Poll{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, title, description, user_id, created_at
        FROM polls WHERE id = $1
    `, id).Scan(&p.ID, &p.Title, &p.Description, &p.UserID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, poll.ErrPollNotFound
		}
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, text, position
        FROM poll_options WHERE poll_id = $1
        ORDER BY position, id
    `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var opts []poll.Option
	for rows.Next() {
		var o poll.Option
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Position); err != nil {
			return nil, nil, err
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return p, opts, nil
}

func (r *PollRepo) ListRecent(ctx context.Context, limit int) ([]poll.Poll, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, description, user_id, created_at
        FROM polls
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.Poll
	for rows.Next() {
		var p poll.Poll
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.UserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PollRepo) ListByOwner(ctx context.Context, userID int64) ([]poll.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT p.id, p.title, p.description, p.user_id, p.created_at,
               (SELECT COUNT(*) FROM poll_options o WHERE o.poll_id = p.id),
               (SELECT COUNT(*) FROM votes v WHERE v.poll_id = p.id)
        FROM polls p
        WHERE p.user_id = $1
        ORDER BY p.created_at DESC, p.id DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.Summary
	for rows.Next() {
		var s poll.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.UserID, &s.CreatedAt,
			&s.OptionCount, &s.TotalVotes); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *PollRepo) ListVotedBy(ctx context.Context, userID int64) ([]poll.VotedSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT p.id, p.title, p.description, p.user_id, p.created_at, o.text, v.created_at
        FROM votes v
        JOIN polls p ON p.id = v.poll_id
        JOIN poll_options o ON o.id = v.option_id
        WHERE v.user_id = $1
        ORDER BY v.created_at DESC, v.id DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.VotedSummary
	for rows.Next() {
		var s poll.VotedSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.UserID, &s.CreatedAt,
			&s.OptionText, &s.VotedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
