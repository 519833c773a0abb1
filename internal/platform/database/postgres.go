package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"poll-maker/internal/retry"
)

func NewPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	err = retry.DoWithRetry(ctx, 6, 500*time.Millisecond, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := db.PingContext(pingCtx)
		// the server answered, so waiting will not help (bad credentials, missing database)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
