package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/notify"
	"github.com/SaladDann/SIGECOB/internal/repo"
)

type CatalogService struct {
	Repo    *repo.GormRepo
	Effects *Effects

	afterProductLock func(ctx context.Context, tx *repo.GormRepo)
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
}

type PatchProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	ImageURL    *string
	Status      *string
}

func (s *CatalogService) List(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	total, items, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return 0, nil, translate("list products", err)
	}
	return total, items, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, translate("get product", err)
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, actor Actor, in CreateProductInput) (*models.Product, error) {
	p, err := models.NewProduct(in.Name, in.Description, in.Price, in.Stock, in.Category, in.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, translate("create product", err)
	}

	s.changed(ctx, actor, "PRODUCT_CREATED", "product_created", p)
	return p, nil
}

// Patch writes only the provided fields while holding the product row, so a
// checkout committing in between keeps its stock decrement. Status is
// re-derived from stock unless the product is discontinued.
func (s *CatalogService) Patch(ctx context.Context, actor Actor, id uint, in PatchProductInput) (*models.Product, error) {
	var p *models.Product
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cur, err := tx.GetProductForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s.afterProductLock != nil {
			s.afterProductLock(ctx, tx)
		}

		fields, err := in.apply(cur)
		if err != nil {
			return err
		}
		if err := cur.Validate(); err != nil {
			return err
		}
		if err := tx.UpdateProductFields(ctx, id, fields); err != nil {
			return err
		}
		if _, ok := fields["stock"]; ok || in.Status != nil {
			if err := tx.RefreshProductStatus(ctx, id); err != nil {
				return err
			}
		}

		p, err = tx.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate("patch product", err)
	}

	s.changed(ctx, actor, "PRODUCT_UPDATED", "product_updated", p)
	return p, nil
}

// apply copies the provided fields onto p for validation and returns the
// columns to write.
func (in PatchProductInput) apply(p *models.Product) (map[string]any, error) {
	fields := make(map[string]any)
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		fields["name"] = p.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
		fields["description"] = p.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
		fields["price"] = p.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
		fields["stock"] = p.Stock
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
		fields["category"] = p.Category
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
		fields["image_url"] = p.ImageURL
	}
	if in.Status != nil {
		st, err := domain.ParseProductStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		p.Status = st
		fields["status"] = st
	}
	return fields, nil
}

// Discontinue is the catalog's delete; the row stays for order history.
func (s *CatalogService) Discontinue(ctx context.Context, actor Actor, id uint) (*models.Product, error) {
	p, err := s.Repo.DiscontinueProduct(ctx, id)
	if err != nil {
		return nil, translate("discontinue product", err)
	}

	s.changed(ctx, actor, "PRODUCT_DISCONTINUED", "product_discontinued", p)
	return p, nil
}

func (s *CatalogService) changed(ctx context.Context, actor Actor, action, event string, p *models.Product) {
	id := strconv.FormatUint(uint64(p.ID), 10)
	s.Effects.audit(ctx, action, notify.Entry{
		UserID:   uintPtr(actor.UserID),
		Entity:   "Product",
		EntityID: id,
		Details:  map[string]any{"name": p.Name, "price": p.Price.StringFixed(2), "stock": p.Stock, "status": p.Status},
		SourceIP: actor.IP,
	})
	s.Effects.publish(ctx, TopicProductEvents, id, map[string]any{
		"type":      event,
		"productID": p.ID,
		"name":      p.Name,
		"stock":     p.Stock,
		"status":    p.Status,
	})
}
