package repo

import (
	"context"
	"time"

	"github.com/SaladDann/SIGECOB/internal/models"
)

type AuditFilter struct {
	UserID    *uint
	Action    string
	Entity    string
	IPAddress string
	From      *time.Time
	To        *time.Time
}

func (r *GormRepo) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

func (r *GormRepo) RecentAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	logs := make([]models.AuditLog, 0, limit)
	if err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *GormRepo) SearchAuditLogs(ctx context.Context, f AuditFilter, limit int) ([]models.AuditLog, error) {
	q := r.DB.WithContext(ctx).Model(&models.AuditLog{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Action != "" {
		q = q.Where("LOWER(action) LIKE ?"+likeEscape, containsPattern(f.Action))
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.IPAddress != "" {
		q = q.Where("ip_address LIKE ?"+likeEscape, containsPattern(f.IPAddress))
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	logs := make([]models.AuditLog, 0)
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
