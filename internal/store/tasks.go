package store

import (
	"context"
	"fmt"

	"github.com/anand/task-tracker/backend/internal/models"
)

func (s *PostgresStore) InsertTask(ctx context.Context, userID int64, req models.TaskRequest) (*models.Task, error) {
	var t models.Task
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, due_date, tags)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, title, description, due_date, completed, created_at, tags`,
		userID, req.Title, req.Description, req.DueDate, req.Tags,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Completed, &t.CreatedAt, &t.Tags)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, description, due_date, completed, created_at, tags
		 FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description,
			&t.DueDate, &t.Completed, &t.CreatedAt, &t.Tags); err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask replaces every mutable field of the task matching both id and
// owner. Matching on both in a single statement keeps a foreign task
// indistinguishable from a missing one.
func (s *PostgresStore) UpdateTask(ctx context.Context, id, userID int64, req models.TaskRequest) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, due_date = $3, completed = $4, tags = $5
		 WHERE id = $6 AND user_id = $7`,
		req.Title, req.Description, req.DueDate, req.Completed, req.Tags, id, userID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id, userID int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
