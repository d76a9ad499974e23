package service

import (
	"context"
	"errors"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/notify"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/pkg/kafka"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

const (
	TopicOrderEvents   = "order_events"
	TopicProductEvents = "product_events"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   domain.Role
	IP     string
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// Effects bundles the best-effort collaborators. Every field is optional and
// nothing here can fail the calling operation.
type Effects struct {
	Dispatcher *notify.Dispatcher
	Audit      notify.AuditSink
	Notifier   notify.Notifier
	Events     notify.EventPublisher
}

func (e *Effects) run(ctx context.Context, name string, fn func(ctx context.Context)) {
	if e == nil {
		return
	}
	if e.Dispatcher == nil {
		fn(ctx)
		return
	}
	e.Dispatcher.Go(ctx, name, fn)
}

func (e *Effects) audit(ctx context.Context, action string, entry notify.Entry) {
	if e == nil || e.Audit == nil {
		return
	}
	e.run(ctx, "audit."+action, func(ctx context.Context) {
		e.Audit.Record(ctx, action, entry)
	})
}

func (e *Effects) publish(ctx context.Context, topic, key string, event map[string]any) {
	if e == nil || e.Events == nil {
		return
	}
	e.run(ctx, "publish."+topic, func(ctx context.Context) {
		if err := e.Events.PublishEvent(ctx, topic, key, event); err != nil && !errors.Is(err, kafka.ErrDisabled) {
			logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "type", event["type"], "error", err)
		}
	})
}

// mail resolves the recipient lazily so the lookup happens off the request path.
func (e *Effects) mail(ctx context.Context, r *repo.GormRepo, userID uint, subject, text, html string) {
	if e == nil || e.Notifier == nil {
		return
	}
	e.run(ctx, "email", func(ctx context.Context) {
		u, err := r.GetUser(ctx, userID)
		if err != nil {
			logging.FromContext(ctx).Warn("email_recipient_error", "user_id", userID, "error", err)
			return
		}
		e.Notifier.Send(ctx, u.Email, subject, text, html)
	})
}

// translate maps a repo error to a domain kind, wrapping unknown errors as
// persistence failures.
func translate(op string, err error) error {
	return domain.Persistence(op, repo.TranslateError(err))
}

func uintPtr(v uint) *uint { return &v }
