package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// Snapshot returns the cart with live product data; no writes except the
// lazy creation of a missing cart.
func (s *CartService) Snapshot(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.Repo.CartSnapshot(ctx, userID)
	if err != nil {
		return nil, translate("load cart", err)
	}
	return cart, nil
}

// AddItem adds qty units, merging with an existing line for the same product.
// A merged line keeps the price captured when it was first added.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, qty int) (*models.CartItem, error) {
	if productID == 0 {
		return nil, domain.MissingField("productId")
	}
	if err := models.ValidateQuantity(qty); err != nil {
		return nil, err
	}

	var item *models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}
		product, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("product %d: %w", productID, err)
		}
		if product.Status != domain.ProductAvailable {
			return &domain.StockError{ProductID: productID, Available: product.Available(), Requested: qty}
		}

		existing, err := tx.FindCartItemByProduct(ctx, cart.ID, productID)
		switch {
		case err == nil:
			newQty := existing.Quantity + qty
			if err := models.ValidateQuantity(newQty); err != nil {
				return fmt.Errorf("cart already holds %d: %w", existing.Quantity, err)
			}
			if product.Stock < newQty {
				return &domain.StockError{ProductID: productID, Available: product.Stock, Requested: newQty}
			}
			if err := tx.SetCartItemQuantity(ctx, existing.ID, newQty); err != nil {
				return err
			}
			existing.Quantity = newQty
			item = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if product.Stock < qty {
				return &domain.StockError{ProductID: productID, Available: product.Stock, Requested: qty}
			}
			item, err = models.NewCartItem(cart.ID, product, qty)
			if err != nil {
				return err
			}
			if err := tx.CreateCartItem(ctx, item); err != nil {
				return err
			}
		default:
			return err
		}
		item.Product = product
		return nil
	})
	if err != nil {
		return nil, translate("add cart item", err)
	}
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, qty int) (*models.CartItem, error) {
	if err := models.ValidateQuantity(qty); err != nil {
		return nil, err
	}

	var item *models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}
		item, err = tx.GetCartItem(ctx, cart.ID, itemID)
		if err != nil {
			return fmt.Errorf("cart item %d: %w", itemID, err)
		}
		if item.Product == nil {
			return fmt.Errorf("product %d: %w", item.ProductID, gorm.ErrRecordNotFound)
		}
		if available := item.Product.Available(); available < qty {
			return &domain.StockError{ProductID: item.ProductID, Available: available, Requested: qty}
		}
		if err := tx.SetCartItemQuantity(ctx, item.ID, qty); err != nil {
			return err
		}
		item.Quantity = qty
		return nil
	})
	if err != nil {
		return nil, translate("update cart item", err)
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return translate("load cart", err)
	}
	if err := s.Repo.DeleteCartItem(ctx, cart.ID, itemID); err != nil {
		return translate("remove cart item", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return translate("load cart", err)
	}
	if _, err := s.Repo.ClearCart(ctx, cart.ID); err != nil {
		return translate("clear cart", err)
	}
	return nil
}
