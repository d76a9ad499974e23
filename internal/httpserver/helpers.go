package httpserver

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/service"
	authmw "github.com/SaladDann/SIGECOB/pkg/middleware/auth"
)

func currentUser(c echo.Context) (uint, error) {
	id, ok := authmw.UserID(c)
	if !ok {
		return 0, fmt.Errorf("%w: no authenticated user", domain.ErrUnauthorized)
	}
	return id, nil
}

func actorFrom(c echo.Context) (service.Actor, error) {
	id, err := currentUser(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserID: id, Role: domain.Role(authmw.Role(c)), IP: c.RealIP()}, nil
}

func pathID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint(v), nil
}
