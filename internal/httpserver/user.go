package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaladDann/SIGECOB/internal/service"
	"github.com/SaladDann/SIGECOB/internal/transport"
	"github.com/SaladDann/SIGECOB/internal/util"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list_users")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, users, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return respondError(c, l, "list_users_error", err)
	}

	return c.JSON(http.StatusOK, transport.UserPage{
		Data: users,
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

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "get_user_error", err.Error(), err)
	}

	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return respondError(c, l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create_user")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "create_user_error", err)
	}

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "create_user_error", "invalid body", err)
	}

	u, err := h.Svc.Create(ctx, actor, service.CreateUserInput{
		RegisterInput: service.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Address:  req.Address,
		},
		Role: req.Role,
	})
	if err != nil {
		return respondError(c, l, "create_user_error", err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "update_user_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "update_user_error", err.Error(), err)
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_user_error", "invalid body", err)
	}

	u, err := h.Svc.Update(ctx, actor, id, service.UpdateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, l, "update_user_error", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, l, "delete_user_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "delete_user_error", err.Error(), err)
	}

	if err := h.Svc.Delete(ctx, actor, id); err != nil {
		return respondError(c, l, "delete_user_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
