package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/transport"
)

const kindRateLimited = "RateLimited"

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindMissingField, domain.KindEmptyCart, domain.KindInsufficientStock,
		domain.KindInvalidStatusTransition, domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return string(domain.KindValidation)
	case http.StatusUnauthorized:
		return string(domain.KindUnauthorized)
	case http.StatusForbidden:
		return string(domain.KindForbidden)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return string(domain.KindNotFound)
	case http.StatusConflict:
		return string(domain.KindConflict)
	case http.StatusTooManyRequests:
		return kindRateLimited
	default:
		return string(domain.KindPersistenceFailure)
	}
}

func errorDetails(err error) any {
	var se *domain.StockError
	if errors.As(err, &se) {
		return map[string]any{
			"productId": se.ProductID,
			"available": se.Available,
			"requested": se.Requested,
		}
	}
	return nil
}

// respondError logs err under event and writes the error envelope for its kind.
func respondError(c echo.Context, l *slog.Logger, event string, err error) error {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "kind", kind, "error", err)
		msg = "internal error"
	} else {
		l.Warn(event, "status", status, "kind", kind, "error", err)
	}

	return c.JSON(status, transport.ErrorResponse{
		Status:  "error",
		Kind:    string(kind),
		Message: msg,
		Details: errorDetails(err),
	})
}

// badRequest is for malformed input caught before reaching a service.
func badRequest(c echo.Context, l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return c.JSON(http.StatusBadRequest, transport.ErrorResponse{
		Status:  "error",
		Kind:    string(domain.KindValidation),
		Message: reason,
	})
}

// HTTPErrorHandler renders echo and middleware errors with the same envelope
// the handlers use.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else if kind := domain.KindOf(err); kind != domain.KindPersistenceFailure {
		code = statusFor(kind)
		msg = err.Error()
	}

	body := transport.ErrorResponse{Status: "error", Kind: kindForStatus(code), Message: msg}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, body)
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
