package service

import (
	"context"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/repository"
)

const (
	DefaultAuditLimit = 20
	MaxAuditLimit     = 100
)

// ClientInfo describes the caller of the current request.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type clientInfoKey struct{}

// WithClientInfo attaches caller details that audit entries pick up.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

func clientInfoFrom(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

// AuditService handles audit logging. Writes are best effort: a failed
// insert is logged and never fails the request that caused it.
type AuditService struct {
	db    db.DBTX
	repos repository.Manager
}

func NewAuditService(q db.DBTX, repos repository.Manager) *AuditService {
	return &AuditService{db: q, repos: repos}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID *int64, username, action string, details map[string]any) {
	info := clientInfoFrom(ctx)
	entry := &domain.AuditLog{
		UserID:    userID,
		Username:  username,
		Action:    action,
		Details:   details,
		IP:        info.IP,
		UserAgent: info.UserAgent,
	}

	if err := s.repos.Audit(s.db).Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "username", username)
	}
}

func (s *AuditService) LogUser(ctx context.Context, user *domain.User, action string, details map[string]any) {
	id := user.ID
	s.Log(ctx, &id, user.Username, action, details)
}

// ListForUser returns the user's most recent entries, newest first.
func (s *AuditService) ListForUser(ctx context.Context, user *domain.User, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	limit = min(limit, MaxAuditLimit)
	return s.repos.Audit(s.db).ListByUser(ctx, user.ID, limit)
}
