package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/notify"
)

type recordingSink struct {
	mu      sync.Mutex
	actions []string
	entries []notify.Entry
}

func (s *recordingSink) Record(ctx context.Context, action string, e notify.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	s.entries = append(s.entries, e)
}

func (s *recordingSink) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.actions...)
}

type recordingNotifier struct {
	mu   sync.Mutex
	ok   bool
	sent []string
}

func (n *recordingNotifier) Send(ctx context.Context, to, subject, text, html string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to+"|"+subject)
	return n.ok
}

type recordingPublisher struct {
	mu     sync.Mutex
	err    error
	events []map[string]any
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := event.(map[string]any); ok {
		p.events = append(p.events, m)
	}
	return p.err
}

// snapshot serialises every table a checkout may touch.
func snapshot(t *testing.T, db *gorm.DB) string {
	t.Helper()

	var (
		products   []models.Product
		carts      []models.Cart
		cartItems  []models.CartItem
		orders     []models.Order
		orderItems []models.OrderItem
		payments   []models.Payment
	)
	require.NoError(t, db.Order("id").Find(&products).Error)
	require.NoError(t, db.Order("id").Find(&carts).Error)
	require.NoError(t, db.Order("id").Find(&cartItems).Error)
	require.NoError(t, db.Order("id").Find(&orders).Error)
	require.NoError(t, db.Order("id").Find(&orderItems).Error)
	require.NoError(t, db.Order("id").Find(&payments).Error)

	raw, err := json.Marshal(map[string]any{
		"products":   products,
		"carts":      carts,
		"cartItems":  cartItems,
		"orders":     orders,
		"orderItems": orderItems,
		"payments":   payments,
	})
	require.NoError(t, err)
	return string(raw)
}
