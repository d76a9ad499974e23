package loggingmw

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaladDann/SIGECOB/pkg/logging"
)

func newLogged(t *testing.T) (*echo.Echo, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/items/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside_handler")
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "taken")
	})
	e.GET("/crash", func(c echo.Context) error {
		return errors.New("db gone")
	})
	return e, &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogger_InjectsLoggerAndEchoesRequestID(t *testing.T) {
	e, buf := newLogged(t)

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	entries := lines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "inside_handler", entries[0]["msg"])
	assert.Equal(t, "rid-1", entries[0]["request_id"])
	assert.Equal(t, "/items/:id", entries[0]["route"])
	assert.Equal(t, "/items/7", entries[0]["path"])

	assert.Equal(t, "http_request", entries[1]["msg"])
	assert.Equal(t, "INFO", entries[1]["level"])
	assert.EqualValues(t, 200, entries[1]["status"])
}

func TestRequestLogger_UsesGeneratedRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(base))
	e.GET("/ping", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside_handler")
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	rid := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, rid)

	entries := lines(t, &buf)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, rid, entry["request_id"])
	}
}

func TestRequestLogger_RendersHandlerErrors(t *testing.T) {
	e, buf := newLogged(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/crash", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := lines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.EqualValues(t, 409, entries[0]["status"])
	assert.Contains(t, entries[0]["error"], "taken")

	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.EqualValues(t, 500, entries[1]["status"])
	assert.Equal(t, "db gone", entries[1]["error"])
}
