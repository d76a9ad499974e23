package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaladDann/SIGECOB/internal/service"
	"github.com/SaladDann/SIGECOB/internal/transport"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func checkoutResponse(res *service.CheckoutResult) transport.CheckoutResponse {
	out := transport.CheckoutResponse{
		Order: transport.CheckoutOrder{
			ID:              res.Order.ID,
			TotalAmount:     res.Order.TotalAmount,
			OrderStatus:     string(res.Order.Status),
			ShippingAddress: res.Order.ShippingAddress,
		},
	}
	if res.Payment != nil {
		out.Payment = transport.CheckoutPayment{
			ID:            res.Payment.ID,
			PaymentStatus: string(res.Payment.Status),
			TransactionID: res.Payment.TransactionID,
		}
	}
	return out
}

// CreateOrder checks out the caller's cart.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, l, "create_order_error", err)
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "create_order_error", "invalid body", err)
	}

	res, err := h.Svc.Checkout(ctx, service.CheckoutInput{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		SourceIP:        c.RealIP(),
	})
	if err != nil {
		return respondError(c, l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", res.Order.ID)
	return c.JSON(http.StatusCreated, checkoutResponse(res))
}

func (h *OrderHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_mine")

	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, l, "list_orders_error", err)
	}

	orders, err := h.Svc.ListForUser(ctx, userID)
	if err != nil {
		return respondError(c, l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder serves both the owner route and the admin route; the service
// enforces ownership.
func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "get_order_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "get_order_error", err.Error(), err)
	}

	order, err := h.Svc.Get(ctx, actor, id)
	if err != nil {
		return respondError(c, l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	orders, err := h.Svc.ListAll(ctx, c.QueryParam("status"))
	if err != nil {
		return respondError(c, l, "list_all_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "update_order_status_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "update_order_status_error", err.Error(), err)
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_order_status_error", "invalid body", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, actor, id, service.StatusUpdateInput{
		OrderStatus:   req.OrderStatus,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return respondError(c, l, "update_order_status_error", err)
	}

	l.Info("update_order_status_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}
