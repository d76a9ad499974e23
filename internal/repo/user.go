package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) HasUserWithRole(ctx context.Context, role domain.Role) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	users := make([]models.User, 0, limit)
	if err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return 0, nil, err
	}
	return total, users, nil
}

// CreateUserWithCart registers the user together with their empty cart.
func (r *GormRepo) CreateUserWithCart(ctx context.Context, user *models.User) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.WithContext(ctx).Create(user).Error; err != nil {
			return TranslateError(err)
		}
		return tx.DB.WithContext(ctx).Create(&models.Cart{UserID: user.ID}).Error
	})
}

func (r *GormRepo) UpdateUserFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUserWithCart removes a user that never ordered, together with the
// empty cart. Users with orders or cart lines are kept.
func (r *GormRepo) DeleteUserWithCart(ctx context.Context, id uint) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		if _, err := tx.GetUser(ctx, id); err != nil {
			return err
		}

		var orders int64
		if err := tx.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		var lines int64
		if err := tx.DB.WithContext(ctx).Model(&models.CartItem{}).
			Joins("JOIN carts ON carts.id = cart_items.cart_id").
			Where("carts.user_id = ?", id).
			Count(&lines).Error; err != nil {
			return err
		}
		if orders > 0 || lines > 0 {
			return fmt.Errorf("%w: user %d has %d orders and %d cart lines", domain.ErrConflict, id, orders, lines)
		}

		if err := tx.DB.WithContext(ctx).Where("user_id = ?", id).Delete(&models.Cart{}).Error; err != nil {
			return err
		}
		return tx.DB.WithContext(ctx).Delete(&models.User{}, id).Error
	})
}
