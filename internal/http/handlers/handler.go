package handlers

import (
	"context"

	"taskmanager/internal/domain"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthService is the part of service.AuthService the handlers call.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*service.AccessToken, error)
	DeleteAccount(ctx context.Context, user *domain.User) error
}

type TaskService interface {
	Create(ctx context.Context, owner *domain.User, in service.CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, owner *domain.User) ([]*domain.Task, error)
	Get(ctx context.Context, owner *domain.User, id int64) (*domain.Task, error)
	Update(ctx context.Context, owner *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, owner *domain.User, id int64) error
}

type AuditService interface {
	ListForUser(ctx context.Context, user *domain.User, limit int) ([]*domain.AuditLog, error)
}

type Handler struct {
	Auth  AuthService
	Tasks TaskService
	Audit AuditService
}

func NewHandler(auth AuthService, tasks TaskService, audit AuditService) *Handler {
	return &Handler{Auth: auth, Tasks: tasks, Audit: audit}
}

// currentUser returns the user resolved by middleware.JWT. Routes that call
// it are always mounted behind that middleware; a miss is answered as 401.
func currentUser(c *gin.Context) (*domain.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrNotAuthenticated)
	}
	return u, ok
}
