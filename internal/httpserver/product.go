package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/internal/service"
	"github.com/SaladDann/SIGECOB/internal/transport"
	"github.com/SaladDann/SIGECOB/internal/util"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "get_product_error", err.Error(), err)
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		return respondError(c, l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func parseProductFilter(c echo.Context) (repo.ProductFilter, error) {
	f := repo.ProductFilter{
		Category: c.QueryParam("category"),
		Name:     c.QueryParam("name"),
	}
	if s := c.QueryParam("status"); s != "" {
		st, err := domain.ParseProductStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	for param, dst := range map[string]**decimal.Decimal{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		s := c.QueryParam(param)
		if s == "" {
			continue
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			return f, err
		}
		*dst = &v
	}
	return f, nil
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	filter, err := parseProductFilter(c)
	if err != nil {
		return badRequest(c, l, "get_products_error", "invalid filter", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, items, err := h.Svc.List(ctx, filter, offset, limit)
	if err != nil {
		return respondError(c, l, "get_products_error", err)
	}

	return c.JSON(http.StatusOK, transport.ProductPage{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "create_product_error", err)
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "create_product_error", "invalid body", err)
	}

	p, err := h.Svc.Create(ctx, actor, service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return respondError(c, l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "patch_product_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "patch_product_error", err.Error(), err)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "patch_product_error", "invalid body", err)
	}

	p, err := h.Svc.Patch(ctx, actor, id, service.PatchProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(c, l, "patch_product_error", err)
	}

	l.Info("patch_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

// DeleteProduct discontinues the product.
func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "delete_product_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "delete_product_error", err.Error(), err)
	}

	p, err := h.Svc.Discontinue(ctx, actor, id)
	if err != nil {
		return respondError(c, l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}
