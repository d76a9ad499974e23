package notify

import (
	"context"
	"encoding/json"

	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

type Entry struct {
	UserID   *uint
	Entity   string
	EntityID string
	Details  any
	SourceIP string
}

type AuditSink interface {
	Record(ctx context.Context, action string, e Entry)
}

type GormAuditSink struct {
	Repo *repo.GormRepo
}

// Record never fails the caller; write errors are logged and dropped.
func (s *GormAuditSink) Record(ctx context.Context, action string, e Entry) {
	l := logging.FromContext(ctx).With("sink", "audit", "action", action)

	entry := &models.AuditLog{
		Action:    action,
		UserID:    e.UserID,
		Entity:    optional(e.Entity),
		EntityID:  optional(e.EntityID),
		IPAddress: optional(e.SourceIP),
	}
	if e.Details != nil {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			l.Warn("audit_details_marshal_error", "error", err)
		} else {
			entry.Details = string(raw)
		}
	}

	if err := s.Repo.CreateAuditLog(ctx, entry); err != nil {
		l.Error("audit_write_error", "error", err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
