package repository

import (
	"context"
	"errors"
	"fmt"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, title, description, is_completed, created_at, updated_at, user_id`

type PostgresTaskRepository struct {
	db db.DBTX
}

func NewTaskRepository(q db.DBTX) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: q}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt, &t.UserID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, is_completed, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.IsCompleted, t.UserID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's tasks in ascending id order.
func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, userID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return res, nil
}

func (r *PostgresTaskRepository) GetByOwner(ctx context.Context, userID, id int64) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

// UpdateByOwner applies patch in a single statement filtered by owner, so a
// foreign or missing task is never touched. updated_at always moves forward,
// even when two updates land within the same clock tick.
func (r *PostgresTaskRepository) UpdateByOwner(ctx context.Context, userID, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks SET
		     title = COALESCE($3, title),
		     description = CASE WHEN $4::boolean THEN $5 ELSE description END,
		     is_completed = COALESCE($6, is_completed),
		     updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, userID, patch.Title, patch.SetDescription, patch.Description, patch.IsCompleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) DeleteByOwner(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) DeleteAllByOwner(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}
