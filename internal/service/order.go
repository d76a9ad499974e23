package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/notify"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/pkg/logging"
	"github.com/SaladDann/SIGECOB/pkg/metrics"
)

type OrderService struct {
	Repo    *repo.GormRepo
	Effects *Effects
	Metrics *metrics.ServerMetrics

	// Now and NewTransactionRef default to the wall clock and TXN-<millis>-<uuid>.
	Now               func() time.Time
	NewTransactionRef func(now time.Time) string

	afterPrecheck func()
	beforeReserve func(ctx context.Context, tx *repo.GormRepo)
}

type CheckoutInput struct {
	UserID          uint
	ShippingAddress string
	PaymentMethod   string
	SourceIP        string
}

type CheckoutResult struct {
	Order   *models.Order
	Payment *models.Payment
}

type StatusUpdateInput struct {
	OrderStatus   string
	PaymentStatus string
}

type checkoutPlan struct {
	items []models.CartItem
	total decimal.Decimal
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) transactionRef(now time.Time) string {
	if s.NewTransactionRef != nil {
		return s.NewTransactionRef(now)
	}
	return fmt.Sprintf("TXN-%d-%s", now.UnixMilli(), uuid.NewString())
}

// planCheckout checks every line against live stock and totals the captured prices.
func planCheckout(cart *models.Cart) (*checkoutPlan, error) {
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart %d: %w", cart.ID, domain.ErrEmptyCart)
	}

	plan := &checkoutPlan{items: cart.Items, total: decimal.Zero}
	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, item.ProductID)
		}
		if available := item.Product.Available(); available < item.Quantity {
			return nil, &domain.StockError{ProductID: item.ProductID, Available: available, Requested: item.Quantity}
		}
		plan.total = plan.total.Add(item.Subtotal())
	}
	return plan, nil
}

// Checkout turns the user's cart into a paid order. Validation and the stock
// pre-check run before the transaction and write nothing. Inside the
// transaction the cart is read once more and every stock decrement is
// conditional, so a concurrent checkout that took the units first makes this
// one fail with InsufficientStock and roll back.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	l := logging.FromContext(ctx).With("svc", "order.checkout", "user_id", in.UserID)

	res, err := s.checkout(ctx, in)
	if err != nil {
		kind := domain.KindOf(err)
		s.Metrics.ObserveCheckout(string(kind))
		if kind == domain.KindPersistenceFailure {
			l.Error("checkout_error", "kind", kind, "error", err)
		} else {
			l.Warn("checkout_error", "kind", kind, "error", err)
		}
		s.Effects.audit(ctx, "ORDER_CREATION_FAILED", notify.Entry{
			UserID:   uintPtr(in.UserID),
			Entity:   "Order",
			Details:  map[string]any{"kind": kind, "error": err.Error()},
			SourceIP: in.SourceIP,
		})
		return nil, err
	}

	s.Metrics.ObserveCheckout("success")
	l.Info("checkout_success", "order_id", res.Order.ID, "total", res.Order.TotalAmount.StringFixed(2))
	s.afterCheckout(ctx, in, res)
	return res, nil
}

func (s *OrderService) checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return nil, domain.MissingField("shippingAddress")
	}
	rawMethod := strings.TrimSpace(in.PaymentMethod)
	if rawMethod == "" {
		return nil, domain.MissingField("paymentMethod")
	}
	method, err := domain.ParsePaymentMethod(rawMethod)
	if err != nil {
		return nil, err
	}

	cart, err := s.Repo.CartSnapshot(ctx, in.UserID)
	if err != nil {
		return nil, translate("load cart", err)
	}
	if _, err := planCheckout(cart); err != nil {
		return nil, err
	}
	if s.afterPrecheck != nil {
		s.afterPrecheck()
	}

	var result CheckoutResult
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.CartSnapshot(ctx, in.UserID)
		if err != nil {
			return err
		}
		plan, err := planCheckout(cart)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID:          in.UserID,
			TotalAmount:     plan.total,
			ShippingAddress: address,
			Status:          domain.OrderPending,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(plan.items))
		for _, ci := range plan.items {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				Price:     ci.Price,
			})
		}
		if err := tx.CreateOrderItems(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		if s.beforeReserve != nil {
			s.beforeReserve(ctx, tx)
		}
		for _, ci := range plan.items {
			if err := tx.DecrementStock(ctx, ci.ProductID, ci.Quantity); err != nil {
				return err
			}
		}

		paidAt := s.now()
		payment := &models.Payment{
			OrderID:       order.ID,
			Amount:        plan.total,
			Method:        string(method),
			TransactionID: s.transactionRef(paidAt),
			Status:        domain.PaymentConfirmed,
			PaidAt:        &paidAt,
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		if !order.Status.CanTransition(domain.OrderProcessing) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, order.Status, domain.OrderProcessing)
		}
		if err := tx.AttachPayment(ctx, order.ID, payment.ID, order.Status, domain.OrderProcessing); err != nil {
			return fmt.Errorf("attach payment: %w", err)
		}

		if _, err := tx.ClearCart(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		full, err := tx.GetOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		result = CheckoutResult{Order: full, Payment: full.Payment}
		return nil
	})
	if err != nil {
		return nil, checkoutError(err)
	}
	return &result, nil
}

// checkoutError keeps caller-facing kinds and folds everything else into
// PersistenceFailure.
func checkoutError(err error) error {
	err = repo.TranslateError(err)
	switch domain.KindOf(err) {
	case domain.KindInsufficientStock, domain.KindEmptyCart, domain.KindNotFound,
		domain.KindMissingField, domain.KindValidation:
		return err
	}
	return fmt.Errorf("checkout: %w: %w", domain.ErrPersistence, err)
}

func (s *OrderService) afterCheckout(ctx context.Context, in CheckoutInput, res *CheckoutResult) {
	order, payment := res.Order, res.Payment
	orderID := strconv.FormatUint(uint64(order.ID), 10)
	total := order.TotalAmount.StringFixed(2)

	s.Effects.audit(ctx, "ORDER_CREATED_AND_PAYMENT_PROCESSED", notify.Entry{
		UserID:   uintPtr(in.UserID),
		Entity:   "Order",
		EntityID: orderID,
		Details: map[string]any{
			"totalAmount":   total,
			"paymentMethod": payment.Method,
			"transactionId": payment.TransactionID,
			"items":         len(order.Items),
		},
		SourceIP: in.SourceIP,
	})

	s.Effects.mail(ctx, s.Repo, in.UserID,
		fmt.Sprintf("Order #%d confirmed", order.ID),
		fmt.Sprintf("Your order #%d for %s was received and paid (transaction %s). Shipping to: %s.",
			order.ID, total, payment.TransactionID, order.ShippingAddress),
		fmt.Sprintf("<p>Your order <b>#%d</b> for <b>%s</b> was received and paid.</p><p>Transaction: %s</p><p>Shipping to: %s</p>",
			order.ID, total, payment.TransactionID, order.ShippingAddress),
	)

	s.Effects.publish(ctx, TopicOrderEvents, orderID, map[string]any{
		"type":          "order_created",
		"orderID":       order.ID,
		"userID":        in.UserID,
		"totalAmount":   total,
		"transactionID": payment.TransactionID,
	})
}

func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.Repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, translate("list user orders", err)
	}
	return orders, nil
}

// ListAll accepts "" or "All" for no filter.
func (s *OrderService) ListAll(ctx context.Context, status string) ([]models.Order, error) {
	var filter domain.OrderStatus
	if status != "" && status != "All" {
		st, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		filter = st
	}
	orders, err := s.Repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, translate("list orders", err)
	}
	return orders, nil
}

// Get returns the order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, actor Actor, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, translate("get order", err)
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: order %d belongs to another user", domain.ErrForbidden, orderID)
	}
	return order, nil
}

// UpdateStatus moves the order and/or its payment along their state machines.
// Asking for the current status is a no-op. Cancelling returns the ordered
// units to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, orderID uint, in StatusUpdateInput) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", orderID)

	if in.OrderStatus == "" && in.PaymentStatus == "" {
		return nil, domain.MissingField("orderStatus or paymentStatus")
	}
	var toOrder domain.OrderStatus
	if in.OrderStatus != "" {
		st, err := domain.ParseOrderStatus(in.OrderStatus)
		if err != nil {
			return nil, err
		}
		toOrder = st
	}
	var toPayment domain.PaymentStatus
	if in.PaymentStatus != "" {
		st, err := domain.ParsePaymentStatus(in.PaymentStatus)
		if err != nil {
			return nil, err
		}
		toPayment = st
	}

	var (
		before  *models.Order
		after   *models.Order
		changed bool
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		before = order

		orderChanged := toOrder != "" && toOrder != order.Status
		if orderChanged && !order.Status.CanTransition(toOrder) {
			return fmt.Errorf("%w: order %s -> %s", domain.ErrInvalidStatusTransition, order.Status, toOrder)
		}

		paymentChanged := false
		if toPayment != "" {
			if order.Payment == nil {
				return fmt.Errorf("%w: order %d has no payment", domain.ErrNotFound, orderID)
			}
			paymentChanged = toPayment != order.Payment.Status
			if paymentChanged && !order.Payment.Status.CanTransition(toPayment) {
				return fmt.Errorf("%w: payment %s -> %s", domain.ErrInvalidStatusTransition, order.Payment.Status, toPayment)
			}
		}

		if !orderChanged && !paymentChanged {
			after = order
			return nil
		}
		changed = true

		if orderChanged {
			if err := tx.UpdateOrderStatus(ctx, order.ID, order.Status, toOrder); err != nil {
				return err
			}
			if toOrder == domain.OrderCancelled {
				for _, item := range order.Items {
					if err := tx.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
						return fmt.Errorf("release stock for product %d: %w", item.ProductID, err)
					}
				}
			}
		}
		if paymentChanged {
			if err := tx.UpdatePaymentStatus(ctx, order.Payment.ID, order.Payment.Status, toPayment); err != nil {
				return err
			}
		}

		after, err = tx.GetOrder(ctx, order.ID)
		return err
	})
	if err != nil {
		err = translate("update order status", err)
		l.Warn("update_status_error", "kind", domain.KindOf(err), "error", err)
		s.Effects.audit(ctx, "ORDER_UPDATE_STATUS_FAILED", notify.Entry{
			UserID:   uintPtr(actor.UserID),
			Entity:   "Order",
			EntityID: strconv.FormatUint(uint64(orderID), 10),
			Details:  map[string]any{"orderStatus": in.OrderStatus, "paymentStatus": in.PaymentStatus, "kind": domain.KindOf(err), "error": err.Error()},
			SourceIP: actor.IP,
		})
		return nil, err
	}
	if !changed {
		l.Info("update_status_noop")
		return after, nil
	}

	l.Info("update_status_success", "order_status", after.Status)
	s.afterStatusUpdate(ctx, actor, before, after)
	return after, nil
}

func (s *OrderService) afterStatusUpdate(ctx context.Context, actor Actor, before, after *models.Order) {
	orderID := strconv.FormatUint(uint64(after.ID), 10)
	details := map[string]any{
		"oldOrderStatus": before.Status,
		"newOrderStatus": after.Status,
	}
	if before.Payment != nil && after.Payment != nil {
		details["oldPaymentStatus"] = before.Payment.Status
		details["newPaymentStatus"] = after.Payment.Status
	}

	s.Effects.audit(ctx, "ORDER_AND_PAYMENT_STATUS_UPDATED", notify.Entry{
		UserID:   uintPtr(actor.UserID),
		Entity:   "Order",
		EntityID: orderID,
		Details:  details,
		SourceIP: actor.IP,
	})

	s.Effects.mail(ctx, s.Repo, after.UserID,
		fmt.Sprintf("Order #%d is now %s", after.ID, after.Status),
		fmt.Sprintf("The status of your order #%d changed from %s to %s.", after.ID, before.Status, after.Status),
		fmt.Sprintf("<p>The status of your order <b>#%d</b> changed from %s to <b>%s</b>.</p>", after.ID, before.Status, after.Status),
	)

	s.Effects.publish(ctx, TopicOrderEvents, orderID, map[string]any{
		"type":    "order_status_changed",
		"orderID": after.ID,
		"from":    before.Status,
		"to":      after.Status,
	})
}
