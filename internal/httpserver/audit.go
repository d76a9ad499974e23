package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/internal/service"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

type AuditHTTP struct {
	Svc *service.AuditService
}

func (h *AuditHTTP) Recent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "audit.recent")

	logs, err := h.Svc.Recent(ctx)
	if err != nil {
		return respondError(c, l, "audit_recent_error", err)
	}
	return c.JSON(http.StatusOK, logs)
}

func parseAuditFilter(c echo.Context) (repo.AuditFilter, error) {
	f := repo.AuditFilter{
		Action:    c.QueryParam("action"),
		Entity:    c.QueryParam("entity"),
		IPAddress: c.QueryParam("ip"),
	}
	if s := c.QueryParam("userId"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return f, fmt.Errorf("userId: %w", err)
		}
		id := uint(v)
		f.UserID = &id
	}
	for param, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		s := c.QueryParam(param)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, fmt.Errorf("%s: %w", param, err)
		}
		t = t.UTC()
		*dst = &t
	}
	return f, nil
}

func (h *AuditHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "audit.search")

	filter, err := parseAuditFilter(c)
	if err != nil {
		return badRequest(c, l, "audit_search_error", "invalid filter", err)
	}

	logs, err := h.Svc.Search(ctx, filter)
	if err != nil {
		return respondError(c, l, "audit_search_error", err)
	}
	return c.JSON(http.StatusOK, logs)
}
