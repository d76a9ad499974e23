package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProducer_DisabledWithoutBrokers(t *testing.T) {
	p := NewProducer(nil)
	require.False(t, p.Enabled())

	err := p.PublishEvent(context.Background(), "order_events", "1", map[string]any{"type": "order_created"})
	require.ErrorIs(t, err, ErrDisabled)
	require.NoError(t, p.Close())
}

func TestProducer_WriterPerTopic(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"})
	require.True(t, p.Enabled())

	w1 := p.writer("order_events")
	w2 := p.writer("order_events")
	w3 := p.writer("product_events")
	require.Same(t, w1, w2)
	require.NotSame(t, w1, w3)
	require.Equal(t, "product_events", w3.Topic)
	require.NoError(t, p.Close())
}

func TestProducer_NilIsDisabled(t *testing.T) {
	var p *Producer
	require.False(t, p.Enabled())
	require.NoError(t, p.Close())
}
