package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SaladDann/SIGECOB/internal/domain"
)

func NewProduct(name, description string, price decimal.Decimal, stock int, category, imageURL string) (*Product, error) {
	p := &Product{
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Stock:       stock,
		Status:      domain.ProductAvailable,
		Category:    strings.TrimSpace(category),
		ImageURL:    imageURL,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return domain.MissingField("name")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", domain.ErrValidation)
	}
	if p.Status != "" && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown product status %q", domain.ErrValidation, p.Status)
	}
	return nil
}

// Normalize keeps status consistent with stock. Discontinued is sticky.
func (p *Product) Normalize() {
	switch {
	case p.Status == domain.ProductDiscontinued:
	case p.Stock == 0:
		p.Status = domain.ProductOutOfStock
	default:
		p.Status = domain.ProductAvailable
	}
}

// Available is the quantity a checkout may take.
func (p *Product) Available() int {
	if p.Status == domain.ProductDiscontinued {
		return 0
	}
	return p.Stock
}

func ValidateQuantity(q int) error {
	if q < MinCartQuantity || q > MaxCartQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d", domain.ErrValidation, MinCartQuantity, MaxCartQuantity)
	}
	return nil
}

// NewCartItem captures the product price at the time of adding.
func NewCartItem(cartID uint, p *Product, qty int) (*CartItem, error) {
	if err := ValidateQuantity(qty); err != nil {
		return nil, err
	}
	return &CartItem{
		CartID:    cartID,
		ProductID: p.ID,
		Quantity:  qty,
		Price:     p.Price,
	}, nil
}

// Subtotal uses the captured price, never the live product price.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the captured line prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
