package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, s.Users(tx).Create(ctx, &domain.User{Username: "a", Email: "a@x.com"}))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, s.UserCount())

	err = s.WithTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.Users(tx).Create(ctx, &domain.User{Username: "a", Email: "a@x.com"})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.UserCount())
}

func TestUpdatedAtMovesForwardOnFrozenClock(t *testing.T) {
	s := New()
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return frozen })
	ctx := context.Background()

	u := &domain.User{Username: "a", Email: "a@x.com"}
	require.NoError(t, s.Users(s).Create(ctx, u))
	task := &domain.Task{Title: "t", UserID: u.ID}
	require.NoError(t, s.Tasks(s).Create(ctx, task))

	got, err := s.Tasks(s).UpdateByOwner(ctx, u.ID, task.ID, domain.TaskPatch{})
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))
}

func TestReturnedTasksAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &domain.User{Username: "a", Email: "a@x.com"}
	require.NoError(t, s.Users(s).Create(ctx, u))
	desc := "original"
	task := &domain.Task{Title: "t", Description: &desc, UserID: u.ID}
	require.NoError(t, s.Tasks(s).Create(ctx, task))

	got, err := s.Tasks(s).GetByOwner(ctx, u.ID, task.ID)
	require.NoError(t, err)
	*got.Description = "mutated"

	again, err := s.Tasks(s).GetByOwner(ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", *again.Description)
}

func TestRawSQLUnsupported(t *testing.T) {
	s := New()
	_, err := s.Exec(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, errRawSQL)
	assert.ErrorIs(t, s.QueryRow(context.Background(), "SELECT 1").Scan(), errRawSQL)
}

func TestAuditListByUserNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice, bob := int64(1), int64(2)

	for _, e := range []domain.AuditLog{
		{UserID: &alice, Username: "alice", Action: domain.AuditActionRegister},
		{UserID: &bob, Username: "bob", Action: domain.AuditActionRegister},
		{UserID: nil, Username: "ghost", Action: domain.AuditActionLoginFailed},
		{UserID: &alice, Username: "alice", Action: domain.AuditActionLogin},
	} {
		require.NoError(t, s.Audit(s).Create(ctx, &e))
	}

	got, err := s.Audit(s).ListByUser(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.AuditActionLogin, got[0].Action)
	assert.Equal(t, domain.AuditActionRegister, got[1].Action)

	got, err = s.Audit(s).ListByUser(ctx, alice, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
