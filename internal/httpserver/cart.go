package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/service"
	"github.com/SaladDann/SIGECOB/internal/transport"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func cartResponse(cart *models.Cart) transport.CartResponse {
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return transport.CartResponse{ID: cart.ID, Items: items, Total: cart.Total(), Amount: count}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, l, "get_cart_error", err)
	}

	cart, err := h.Svc.Snapshot(ctx, userID)
	if err != nil {
		return respondError(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, l, "add_cart_item_error", err)
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_cart_item_error", "invalid body", err)
	}

	item, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, l, "add_cart_item_error", err)
	}

	l.Info("add_cart_item_success", "product_id", req.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, l, "update_cart_item_error", err)
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "update_cart_item_error", err.Error(), err)
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_cart_item_error", "invalid body", err)
	}

	item, err := h.Svc.UpdateItem(ctx, userID, itemID, req.Quantity)
	if err != nil {
		return respondError(c, l, "update_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, l, "remove_cart_item_error", err)
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "remove_cart_item_error", err.Error(), err)
	}

	if err := h.Svc.RemoveItem(ctx, userID, itemID); err != nil {
		return respondError(c, l, "remove_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, l, "clear_cart_error", err)
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		return respondError(c, l, "clear_cart_error", err)
	}

	l.Info("cart successfully cleared")
	return c.NoContent(http.StatusNoContent)
}
