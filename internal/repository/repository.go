package repository

import (
	"context"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// TaskRepository methods are always scoped by owner: a task belonging to
// another user behaves exactly like a missing one.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	ListByOwner(ctx context.Context, userID int64) ([]*domain.Task, error)
	GetByOwner(ctx context.Context, userID, id int64) (*domain.Task, error)
	UpdateByOwner(ctx context.Context, userID, id int64, patch domain.TaskPatch) (*domain.Task, error)
	DeleteByOwner(ctx context.Context, userID, id int64) error
	DeleteAllByOwner(ctx context.Context, userID int64) (int64, error)
}

// AuditRepository is append-only.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error)
}

// Manager vends repositories bound to a query handle, either the pool or
// an open transaction.
type Manager interface {
	Users(q db.DBTX) UserRepository
	Tasks(q db.DBTX) TaskRepository
	Audit(q db.DBTX) AuditRepository
}

type PostgresManager struct{}

func NewPostgresManager() *PostgresManager {
	return &PostgresManager{}
}

func (PostgresManager) Users(q db.DBTX) UserRepository {
	return NewUserRepository(q)
}

func (PostgresManager) Tasks(q db.DBTX) TaskRepository {
	return NewTaskRepository(q)
}

func (PostgresManager) Audit(q db.DBTX) AuditRepository {
	return NewAuditRepository(q)
}
