package service

import (
	"context"

	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/repo"
)

const (
	recentAuditLimit = 100
	searchAuditLimit = 200
)

type AuditService struct {
	Repo *repo.GormRepo
}

func (s *AuditService) Recent(ctx context.Context) ([]models.AuditLog, error) {
	logs, err := s.Repo.RecentAuditLogs(ctx, recentAuditLimit)
	if err != nil {
		return nil, translate("recent audit logs", err)
	}
	return logs, nil
}

func (s *AuditService) Search(ctx context.Context, f repo.AuditFilter) ([]models.AuditLog, error) {
	logs, err := s.Repo.SearchAuditLogs(ctx, f, searchAuditLimit)
	if err != nil {
		return nil, translate("search audit logs", err)
	}
	return logs, nil
}
