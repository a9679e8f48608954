package service

import (
	"context"
	"strings"
	"testing"

	"taskmanager/internal/domain"
	"taskmanager/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskFixture(t *testing.T) (*TaskService, *domain.User, *domain.User) {
	t.Helper()
	store := memory.New()
	auth := NewAuthService(store, store, NewPasswordHasher(4), newTokens(t))
	return NewTaskService(store, store), register(t, auth, "alice"), register(t, auth, "bob")
}

func ptr[T any](v T) *T { return &v }

func TestTaskService_Create(t *testing.T) {
	s, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := s.Create(ctx, alice, CreateTaskInput{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, alice.ID, task.UserID)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.Description)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	_, err = s.Create(ctx, alice, CreateTaskInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Create(ctx, alice, CreateTaskInput{Title: strings.Repeat("x", 201)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_Isolation(t *testing.T) {
	s, alice, bob := newTaskFixture(t)
	ctx := context.Background()

	task, err := s.Create(ctx, alice, CreateTaskInput{Title: "secret plan"})
	require.NoError(t, err)

	_, err = s.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.Update(ctx, bob, task.ID, domain.TaskPatch{Title: ptr("hijacked")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, bob, task.ID), domain.ErrNotFound)

	got, err := s.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret plan", got.Title)

	// a foreign task looks exactly like a missing one
	_, missing := s.Get(ctx, bob, 999)
	_, foreign := s.Get(ctx, bob, task.ID)
	assert.Equal(t, missing, foreign)
}

func TestTaskService_ListOrderedByID(t *testing.T) {
	s, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		_, err := s.Create(ctx, alice, CreateTaskInput{Title: title})
		require.NoError(t, err)
	}

	list, err := s.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestTaskService_PartialUpdateOnlyCompleted(t *testing.T) {
	s, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := s.Create(ctx, alice, CreateTaskInput{Title: "Buy milk", Description: ptr("2 litres")})
	require.NoError(t, err)

	updated, err := s.Update(ctx, alice, task.ID, domain.TaskPatch{IsCompleted: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Buy milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "2 litres", *updated.Description)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
}

func TestTaskService_UpdateFields(t *testing.T) {
	s, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := s.Create(ctx, alice, CreateTaskInput{Title: "old", Description: ptr("desc")})
	require.NoError(t, err)

	updated, err := s.Update(ctx, alice, task.ID, domain.TaskPatch{Title: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "desc", *updated.Description)

	cleared, err := s.Update(ctx, alice, task.ID, domain.TaskPatch{SetDescription: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Equal(t, "new", cleared.Title)

	_, err = s.Update(ctx, alice, task.ID, domain.TaskPatch{Title: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	got, err := s.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)

	_, err = s.Update(ctx, alice, 404, domain.TaskPatch{IsCompleted: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	s, alice, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := s.Create(ctx, alice, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, alice, task.ID))
	_, err = s.Get(ctx, alice, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, alice, task.ID), domain.ErrNotFound)
}
