package service

import (
	"context"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/repository"
)

type CreateTaskInput struct {
	Title       string
	Description *string
}

// TaskService runs every operation on behalf of a resolved user; tasks of
// other users are reported as not found.
type TaskService struct {
	db    db.DBTX
	repos repository.Manager
}

func NewTaskService(q db.DBTX, repos repository.Manager) *TaskService {
	return &TaskService{db: q, repos: repos}
}

func (s *TaskService) Create(ctx context.Context, owner *domain.User, in CreateTaskInput) (*domain.Task, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	t := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		IsCompleted: false,
		UserID:      owner.ID,
	}
	if err := s.repos.Tasks(s.db).Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the owner's tasks in ascending id order.
func (s *TaskService) List(ctx context.Context, owner *domain.User) ([]*domain.Task, error) {
	return s.repos.Tasks(s.db).ListByOwner(ctx, owner.ID)
}

func (s *TaskService) Get(ctx context.Context, owner *domain.User, id int64) (*domain.Task, error) {
	return s.repos.Tasks(s.db).GetByOwner(ctx, owner.ID, id)
}

// Update applies only the fields set in patch.
func (s *TaskService) Update(ctx context.Context, owner *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Title != nil {
		if err := domain.ValidateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	return s.repos.Tasks(s.db).UpdateByOwner(ctx, owner.ID, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, owner *domain.User, id int64) error {
	return s.repos.Tasks(s.db).DeleteByOwner(ctx, owner.ID, id)
}
