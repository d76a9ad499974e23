package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/internal/testdb"
)

func TestDispatcher_RunsAndRecovers(t *testing.T) {
	d := NewDispatcher(time.Second)

	var ran atomic.Int32
	d.Go(context.Background(), "ok", func(ctx context.Context) { ran.Add(1) })
	d.Go(context.Background(), "panics", func(ctx context.Context) { panic("boom") })
	d.Go(context.Background(), "ok2", func(ctx context.Context) { ran.Add(1) })
	d.Wait()

	assert.EqualValues(t, 2, ran.Load())
}

func TestDispatcher_DetachedFromRequest(t *testing.T) {
	d := NewDispatcher(time.Second)
	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()

	var ctxErr error
	d.Go(reqCtx, "after_response", func(ctx context.Context) { ctxErr = ctx.Err() })
	d.Wait()
	assert.NoError(t, ctxErr)
}

func TestDispatcher_ShutdownDeadline(t *testing.T) {
	d := NewDispatcher(time.Second)
	release := make(chan struct{})
	d.Go(context.Background(), "slow", func(ctx context.Context) { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Shutdown(context.Background()))
}

type fakePublisher struct {
	err    error
	topic  string
	key    string
	events []any
}

func (f *fakePublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	f.topic, f.key = topic, key
	f.events = append(f.events, event)
	return f.err
}

func TestKafkaNotifier(t *testing.T) {
	pub := &fakePublisher{}
	n := &KafkaNotifier{Publisher: pub}

	require.True(t, n.Send(context.Background(), "a@example.com", "Order #1", "text", "<p>html</p>"))
	assert.Equal(t, TopicNotifications, pub.topic)
	assert.Equal(t, "a@example.com", pub.key)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "Order #1", pub.events[0].(Email).Subject)

	pub.err = errors.New("broker down")
	assert.False(t, n.Send(context.Background(), "a@example.com", "s", "t", "h"))
	assert.False(t, n.Send(context.Background(), "", "s", "t", "h"))
}

func TestGormAuditSink_Record(t *testing.T) {
	db := testdb.Open(t)
	sink := &GormAuditSink{Repo: repo.New(db)}

	uid := uint(5)
	sink.Record(context.Background(), "ORDER_CREATED_AND_PAYMENT_PROCESSED", Entry{
		UserID:   &uid,
		Entity:   "Order",
		EntityID: "12",
		Details:  map[string]any{"totalAmount": "20.00"},
		SourceIP: "127.0.0.1",
	})

	var got models.AuditLog
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "ORDER_CREATED_AND_PAYMENT_PROCESSED", got.Action)
	assert.EqualValues(t, 5, *got.UserID)
	assert.Equal(t, "12", *got.EntityID)
	assert.JSONEq(t, `{"totalAmount":"20.00"}`, got.Details)
}

func TestGormAuditSink_SwallowsErrors(t *testing.T) {
	db := testdb.Open(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	sink := &GormAuditSink{Repo: repo.New(db)}
	assert.NotPanics(t, func() {
		sink.Record(context.Background(), "ANY", Entry{})
	})
}
