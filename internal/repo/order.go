package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
)

const orderItemBatchSize = 100

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

// CreateOrderItems inserts all lines in batches.
func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&items, orderItemBatchSize).Error
}

func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

// AttachPayment links the payment and moves the order from -> to in one update.
func (r *GormRepo) AttachPayment(ctx context.Context, orderID, paymentID uint, from, to domain.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]any{"payment_id": paymentID, "status": to})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d is not %s", domain.ErrConflict, orderID, from)
	}
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Preload("Payment").
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, status domain.OrderStatus) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items.Product").Preload("Payment")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	orders := make([]models.Order, 0)
	if err := q.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus is a compare-and-set on the current status.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, from, to domain.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d changed concurrently", domain.ErrConflict, orderID)
	}
	return nil
}

func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, paymentID uint, from, to domain.PaymentStatus) error {
	updates := map[string]any{"status": to}
	if to == domain.PaymentConfirmed {
		updates["paid_at"] = time.Now().UTC()
	}
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: payment %d changed concurrently", domain.ErrConflict, paymentID)
	}
	return nil
}
