package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"poll-maker/internal/domain/vote"
)

func TestConstraintClassification(t *testing.T) {
	dupVote := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "votes_user_poll_key"})
	badOption := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "votes_option_poll_fkey"}

	if !isUniqueViolation(dupVote, "votes_user_poll_key") {
		t.Fatalf("wrapped unique violation not detected")
	}
	if isUniqueViolation(dupVote, "users_email_key") {
		t.Fatalf("constraint name must be matched")
	}
	if !isUniqueViolation(dupVote, "") {
		t.Fatalf("empty constraint should match any unique violation")
	}
	if !isForeignKeyViolation(badOption, "") || isUniqueViolation(badOption, "") {
		t.Fatalf("foreign key violation misclassified")
	}
	if isForeignKeyViolation(badOption, "votes_user_id_fkey") {
		t.Fatalf("foreign key constraint name must be matched")
	}
	if isForeignKeyViolation(errors.New("plain"), "") || isUniqueViolation(nil, "") {
		t.Fatalf("non-postgres errors must not match")
	}
}

func TestVoteInsertError(t *testing.T) {
	plain := errors.New("connection reset")
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"ok", nil, nil},
		{"duplicate vote", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "votes_user_poll_key"}, vote.ErrAlreadyVoted},
		{"option of another poll", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "votes_option_poll_fkey"}, vote.ErrInvalidOption},
		{"poll deleted", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "votes_poll_id_fkey"}, vote.ErrPollNotFound},
		{"user deleted", fmt.Errorf("scan: %w", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "votes_user_id_fkey"}), vote.ErrUnauthenticated},
		{"unknown error", plain, plain},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := voteInsertError(tc.err)
			if !errors.Is(got, tc.want) && got != tc.want {
				t.Fatalf("voteInsertError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
