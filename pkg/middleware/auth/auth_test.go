package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/SaladDann/SIGECOB/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func newServer() *echo.Echo {
	e := echo.New()
	g := e.Group("", RequireAuth(secret))
	g.GET("/me", func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, map[string]any{"id": id, "role": Role(c)})
	})
	g.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole("Admin", "Auditor"))
	return e
}

func token(t *testing.T, id uint, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(id, role, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	return tok
}

func TestRequireAuth_Bearer(t *testing.T) {
	e := newServer()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, 5, "User"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":5,"role":"User"}`, rec.Body.String())
}

func TestRequireAuth_Cookie(t *testing.T) {
	e := newServer()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token(t, 9, "Admin")})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_Missing(t *testing.T) {
	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := newServer()

	cases := []struct {
		role string
		want int
	}{
		{"Admin", http.StatusOK},
		{"Auditor", http.StatusOK},
		{"User", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, 1, tc.role))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, tc.want, rec.Code, tc.role)
	}
}
