package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Transitions(t *testing.T) {
	t.Parallel()

	allowed := map[[2]OrderStatus]bool{
		{OrderPending, OrderProcessing}:   true,
		{OrderProcessing, OrderShipped}:   true,
		{OrderProcessing, OrderCancelled}: true,
		{OrderShipped, OrderDelivered}:    true,
	}
	all := []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]OrderStatus{from, to}], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestPaymentStatus_Transitions(t *testing.T) {
	t.Parallel()

	allowed := map[[2]PaymentStatus]bool{
		{PaymentPending, PaymentConfirmed}:  true,
		{PaymentPending, PaymentCancelled}:  true,
		{PaymentConfirmed, PaymentRefunded}: true,
	}
	all := []PaymentStatus{PaymentPending, PaymentConfirmed, PaymentCancelled, PaymentRefunded}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]PaymentStatus{from, to}], from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	_, err := ParseOrderStatus("Lost")
	require.ErrorIs(t, err, ErrValidation)

	s, err := ParsePaymentStatus("Refunded")
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, s)

	_, err = ParseProductStatus("available")
	require.ErrorIs(t, err, ErrValidation)

	m, err := ParsePaymentMethod("PayPal")
	require.NoError(t, err)
	assert.Equal(t, MethodPayPal, m)

	_, err = ParsePaymentMethod("Bitcoin")
	require.ErrorIs(t, err, ErrValidation)

	r, err := ParseRole("Auditor")
	require.NoError(t, err)
	assert.Equal(t, RoleAuditor, r)

	_, err = ParseRole("Client")
	require.ErrorIs(t, err, ErrValidation)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	stock := &StockError{ProductID: 3, Available: 1, Requested: 2}
	wrapped := fmt.Errorf("checkout: %w", stock)

	assert.Equal(t, KindInsufficientStock, KindOf(wrapped))
	assert.Equal(t, KindMissingField, KindOf(MissingField("shippingAddress")))
	assert.Equal(t, KindEmptyCart, KindOf(fmt.Errorf("x: %w", ErrEmptyCart)))
	assert.Equal(t, KindPersistenceFailure, KindOf(errors.New("disk on fire")))

	var se *StockError
	require.ErrorAs(t, wrapped, &se)
	assert.EqualValues(t, 3, se.ProductID)
	assert.Contains(t, se.Error(), "available 1, requested 2")
}

func TestPersistence(t *testing.T) {
	t.Parallel()

	require.NoError(t, Persistence("op", nil))

	stock := &StockError{ProductID: 1}
	assert.Same(t, error(stock), Persistence("op", stock))

	raw := errors.New("connection reset")
	err := Persistence("create order", raw)
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, raw)
	assert.Equal(t, KindPersistenceFailure, KindOf(err))
}
