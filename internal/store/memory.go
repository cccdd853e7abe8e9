package store

import (
	"context"
	"sync"
	"time"

	"github.com/anand/task-tracker/backend/internal/models"
)

// MemoryStore is an in-memory implementation of the user and task stores,
// used by tests and local development. It enforces the same ownership rule
// as the SQL store: update and delete match id and owner together.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	tasks      []*models.Task
	nextUserID int64
	nextTaskID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*models.User)}
}

func (s *MemoryStore) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return 0, ErrDuplicateUsername
	}
	s.nextUserID++
	s.users[username] = &models.User{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	return s.nextUserID, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) InsertTask(ctx context.Context, userID int64, req models.TaskRequest) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	t := &models.Task{
		ID:          s.nextTaskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
		Tags:        req.Tags,
	}
	s.tasks = append(s.tasks, t)
	copied := *t
	return &copied, nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, id, userID int64, req models.TaskRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == id && t.UserID == userID {
			t.Title = req.Title
			t.Description = req.Description
			t.DueDate = req.DueDate
			t.Completed = req.Completed
			t.Tags = req.Tags
			return nil
		}
	}
	return ErrTaskNotFound
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id && t.UserID == userID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return ErrTaskNotFound
}
