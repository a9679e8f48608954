package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
)

// PostgresAuditRepository handles audit log database operations
type PostgresAuditRepository struct {
	db db.DBTX
}

func NewAuditRepository(q db.DBTX) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: q}
}

// Create inserts a new audit log entry
func (r *PostgresAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil || log.Details == nil {
		detailsJSON = []byte("{}")
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, username, action, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, log.UserID, log.Username, log.Action, detailsJSON, log.IP, log.UserAgent).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByUser returns the newest entries for a user first.
func (r *PostgresAuditRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, username, action, details, ip, user_agent, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var detailsJSON []byte
		if err := rows.Scan(&log.ID, &log.UserID, &log.Username, &log.Action, &detailsJSON, &log.IP, &log.UserAgent, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if err := json.Unmarshal(detailsJSON, &log.Details); err != nil {
			log.Details = make(map[string]any)
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
