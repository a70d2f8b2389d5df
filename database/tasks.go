package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tasklink/models"
)

// Task queries. Every statement is scoped by user_id so one user can never
// read or mutate another user's tasks.

// InsertTask stores a new task.
func (s *Store) InsertTask(ctx context.Context, task models.Task) error {
	var freq *string
	if task.RepeatFrequency != nil {
		f := string(*task.RepeatFrequency)
		freq = &f
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, task, description, done, due_date, repeat_frequency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.ID.String(), task.UserID.String(), task.Task, task.Description,
		task.Done, task.DueDate, freq, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetTask retrieves one of userID's tasks. ErrNotFound if the row does not
// exist or belongs to someone else.
func (s *Store) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, task, description, done, due_date, repeat_frequency, created_at
		FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID.String(), userID.String(),
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return task, nil
}

// UpdateTask rewrites the mutable fields of a task. ErrNotFound if the row
// does not exist or belongs to someone else.
func (s *Store) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, task models.Task) error {
	var freq *string
	if task.RepeatFrequency != nil {
		f := string(*task.RepeatFrequency)
		freq = &f
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET task = $1, description = $2, due_date = $3, repeat_frequency = $4
		WHERE id = $5 AND user_id = $6`,
		task.Task, task.Description, task.DueDate, freq, taskID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res)
}

// SetTaskDone flips the done flag.
func (s *Store) SetTaskDone(ctx context.Context, userID, taskID uuid.UUID, done bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET done = $1 WHERE id = $2 AND user_id = $3`,
		done, taskID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return requireAffected(res)
}

// DeleteTask removes one task.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res)
}

// ListTasks returns up to 100 of userID's tasks, newest first. A non-nil
// done filters by completion status.
func (s *Store) ListTasks(ctx context.Context, userID uuid.UUID, done *bool) ([]models.Task, error) {
	q := `
		SELECT id, user_id, task, description, done, due_date, repeat_frequency, created_at
		FROM tasks WHERE user_id = $1`
	args := []any{userID.String()}

	if done != nil {
		q += ` AND done = $2`
		args = append(args, *done)
	}
	q += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// DeleteAllTasks removes all of userID's tasks, optionally restricted by
// completion status. Deleting nothing is not an error.
func (s *Store) DeleteAllTasks(ctx context.Context, userID uuid.UUID, done *bool) error {
	q := `DELETE FROM tasks WHERE user_id = $1`
	args := []any{userID.String()}

	if done != nil {
		q += ` AND done = $2`
		args = append(args, *done)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var id, userID string
	var freq *string
	if err := row.Scan(&id, &userID, &task.Task, &task.Description, &task.Done,
		&task.DueDate, &freq, &task.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if task.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse task id: %w", err)
	}
	if task.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("failed to parse task owner id: %w", err)
	}
	if freq != nil {
		f := models.Frequency(*freq)
		task.RepeatFrequency = &f
	}
	return task, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
