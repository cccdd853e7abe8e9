package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anand/task-tracker/backend/internal/models"
)

func TestMemoryStore_DuplicateUsername(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "alice", "hash1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = s.CreateUser(ctx, "alice", "hash2")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryStore_OwnerScoping(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.InsertTask(ctx, 1, models.TaskRequest{Title: "mine"})
	require.NoError(t, err)

	// The owner id never matches for another user, whether the id exists
	// or not.
	assert.ErrorIs(t, s.UpdateTask(ctx, task.ID, 2, models.TaskRequest{Title: "stolen"}), ErrTaskNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID, 2), ErrTaskNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, 999, 1), ErrTaskNotFound)

	mine, err := s.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Title)

	theirs, err := s.ListTasks(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestMemoryStore_UpdateReplacesAllFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.InsertTask(ctx, 1, models.TaskRequest{
		Title: "draft", Description: "old", DueDate: "2026-01-01", Tags: "a,b",
	})
	require.NoError(t, err)
	assert.False(t, task.Completed)

	err = s.UpdateTask(ctx, task.ID, 1, models.TaskRequest{Title: "final", Completed: true})
	require.NoError(t, err)

	list, err := s.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "final", list[0].Title)
	assert.Empty(t, list[0].Description, "update is a full replace")
	assert.Empty(t, list[0].Tags)
	assert.True(t, list[0].Completed)
	assert.Equal(t, task.CreatedAt, list[0].CreatedAt, "created_at is immutable")
}
