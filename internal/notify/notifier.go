package notify

import (
	"context"

	"github.com/SaladDann/SIGECOB/pkg/logging"
)

const TopicNotifications = "notification_events"

type Notifier interface {
	Send(ctx context.Context, to, subject, text, html string) bool
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Email struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// KafkaNotifier hands emails to the mailer through the notification topic.
type KafkaNotifier struct {
	Publisher EventPublisher
}

func (n *KafkaNotifier) Send(ctx context.Context, to, subject, text, html string) bool {
	l := logging.FromContext(ctx).With("notifier", "kafka")
	if to == "" {
		l.Warn("email_skipped", "reason", "empty recipient")
		return false
	}

	msg := Email{Type: "email", To: to, Subject: subject, Text: text, HTML: html}
	if err := n.Publisher.PublishEvent(ctx, TopicNotifications, to, msg); err != nil {
		l.Error("email_send_error", "to", to, "subject", subject, "error", err)
		return false
	}
	l.Info("email_queued", "to", to, "subject", subject)
	return true
}

// LogNotifier only logs. Used when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, to, subject, text, html string) bool {
	logging.FromContext(ctx).Info("email_logged", "to", to, "subject", subject)
	return true
}
