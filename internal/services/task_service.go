package services

import (
	"github.com/google/uuid"
	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/store"
)

// TaskServiceProvider defines the interface for task services. Every
// operation is scoped to the owning user.
type TaskServiceProvider interface {
	List(userID string) ([]models.Task, error)
	Create(userID, title string) (models.Task, error)
	UpdateStatus(userID, taskID, status string) (models.Task, error)
	Delete(userID, taskID string) (bool, error)
}

// TaskService provides business logic for task management.
type TaskService struct {
	store *store.Store[models.Task]
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks *store.Store[models.Task]) *TaskService {
	return &TaskService{store: tasks}
}

// List returns the user's tasks in storage order.
func (s *TaskService) List(userID string) ([]models.Task, error) {
	tasks, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	owned := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

// Create appends a new pending task owned by userID.
func (s *TaskService) Create(userID, title string) (models.Task, error) {
	task := models.Task{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
		Status: models.DefaultTaskStatus,
	}
	err := s.store.Update(func(tasks []models.Task) ([]models.Task, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateStatus replaces the status of the user's task. Any string is
// accepted as a status.
func (s *TaskService) UpdateStatus(userID, taskID, status string) (models.Task, error) {
	var updated models.Task
	err := s.store.Update(func(tasks []models.Task) ([]models.Task, error) {
		for i := range tasks {
			if tasks[i].ID == taskID && tasks[i].UserID == userID {
				tasks[i].Status = status
				updated = tasks[i]
				return tasks, nil
			}
		}
		return nil, ErrTaskNotFound
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// Delete removes the user's task with taskID. It reports whether anything
// was removed; deleting a missing task is not an error.
func (s *TaskService) Delete(userID, taskID string) (bool, error) {
	removed := false
	err := s.store.Update(func(tasks []models.Task) ([]models.Task, error) {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID == taskID && t.UserID == userID {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		return kept, nil
	})
	return removed, err
}
