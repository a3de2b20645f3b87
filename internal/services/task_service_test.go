package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(t *testing.T) (*TaskService, *store.Store[models.Task]) {
	t.Helper()
	tasks := store.New[models.Task](filepath.Join(t.TempDir(), "tasks.json"))
	return NewTaskService(tasks), tasks
}

func TestTaskService_CreateThenList(t *testing.T) {
	s, _ := newTaskService(t)

	task, err := s.Create("alice", "buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.Task{ID: task.ID, UserID: "alice", Title: "buy milk", Status: "pending"}, task)

	list, err := s.List("alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Task{task}, list)
}

func TestTaskService_ListEmptyIsNotNil(t *testing.T) {
	s, _ := newTaskService(t)

	list, err := s.List("alice")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTaskService_ListKeepsStorageOrderAndOwnership(t *testing.T) {
	s, _ := newTaskService(t)

	a1, err := s.Create("alice", "one")
	require.NoError(t, err)
	_, err = s.Create("bob", "bob's")
	require.NoError(t, err)
	a2, err := s.Create("alice", "two")
	require.NoError(t, err)

	list, err := s.List("alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Task{a1, a2}, list)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	s, _ := newTaskService(t)
	task, err := s.Create("alice", "buy milk")
	require.NoError(t, err)

	for _, status := range []string{"done", "¯\\_(ツ)_/¯", ""} {
		updated, err := s.UpdateStatus("alice", task.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		assert.Equal(t, task.Title, updated.Title)

		list, err := s.List("alice")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, status, list[0].Status)
	}
}

func TestTaskService_UpdateStatusNotFound(t *testing.T) {
	s, _ := newTaskService(t)
	task, err := s.Create("alice", "buy milk")
	require.NoError(t, err)

	_, err = s.UpdateStatus("alice", "missing", "done")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = s.UpdateStatus("bob", task.ID, "done")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	list, err := s.List("alice")
	require.NoError(t, err)
	assert.Equal(t, "pending", list[0].Status)
}

func TestTaskService_Delete(t *testing.T) {
	s, tasks := newTaskService(t)
	keep, err := s.Create("alice", "keep")
	require.NoError(t, err)
	drop, err := s.Create("alice", "drop")
	require.NoError(t, err)

	removed, err := s.Delete("alice", drop.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete("alice", drop.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	all, err := tasks.Load()
	require.NoError(t, err)
	assert.Equal(t, []models.Task{keep}, all)
}

func TestTaskService_DeleteOtherUsersTaskIsNoop(t *testing.T) {
	s, _ := newTaskService(t)
	task, err := s.Create("alice", "mine")
	require.NoError(t, err)

	removed, err := s.Delete("bob", task.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	list, err := s.List("alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTaskService_CorruptFile(t *testing.T) {
	s, tasks := newTaskService(t)
	require.NoError(t, os.WriteFile(tasks.Path(), []byte("[1,2"), 0o644))

	var perr *store.ParseError
	_, err := s.List("alice")
	assert.ErrorAs(t, err, &perr)
	_, err = s.Create("alice", "x")
	assert.ErrorAs(t, err, &perr)
	_, err = s.UpdateStatus("alice", "x", "done")
	assert.ErrorAs(t, err, &perr)
	_, err = s.Delete("alice", "x")
	assert.ErrorAs(t, err, &perr)
}
