package domain

import (
	"time"
	"unicode/utf8"
)

const (
	TitleMinLen = 1
	TitleMaxLen = 200
)

type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	IsCompleted bool      `db:"is_completed" json:"is_completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	UserID      int64     `db:"user_id" json:"user_id"`
}

// TaskPatch lists the fields an update may change. A nil pointer leaves the
// column untouched; SetDescription with a nil Description clears it.
type TaskPatch struct {
	Title          *string
	SetDescription bool
	Description    *string
	IsCompleted    *bool
}

// ValidateTitle enforces the 1..200 character bound.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < TitleMinLen || n > TitleMaxLen {
		return ErrInvalidTitle
	}
	return nil
}
