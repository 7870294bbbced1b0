package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	pgOther := &pgconn.PgError{Code: "23503"}

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres unique violation", pgDup, true},
		{"wrapped postgres unique violation", fmt.Errorf("create user: %w", pgDup), true},
		{"postgres foreign key violation", pgOther, false},
		{"postgres message fallback", errors.New(`duplicate key value violates unique constraint "users_email_key"`), true},
		{"sqlite message fallback", errors.New("UNIQUE constraint failed: users.email"), true},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
