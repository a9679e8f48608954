package repository

import (
	"errors"

	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// duplicateUserError maps a users unique-constraint violation to the
// matching duplicate error.
func duplicateUserError(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil, false
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return domain.ErrUsernameTaken, true
	case "users_email_key":
		return domain.ErrEmailTaken, true
	}
	return nil, false
}
