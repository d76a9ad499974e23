package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/pkg/idempotency"
	"github.com/SaladDann/SIGECOB/pkg/metrics"
	authmw "github.com/SaladDann/SIGECOB/pkg/middleware/auth"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP
	Audit   *AuditHTTP
	Users   *UserHTTP

	DB          Pinger
	Metrics     *metrics.ServerMetrics
	Idempotency *idempotency.Store

	JWTSecret []byte
	// CheckoutRateLimit is requests per second per user on checkout; 0 disables it.
	CheckoutRateLimit float64
}

func checkoutLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id, ok := authmw.UserID(c); ok {
				return fmt.Sprintf("user:%d", id), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many checkout attempts")
		},
	})
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	requireAuth := authmw.RequireAuth(d.JWTSecret)
	adminOnly := authmw.RequireRole(string(domain.RoleAdmin))
	adminOrAuditor := authmw.RequireRole(string(domain.RoleAdmin), string(domain.RoleAuditor))

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	products := v1.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/:id", d.Catalog.GetProduct)

	cart := v1.Group("/cart", requireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.DELETE("", d.Cart.Clear)
	cart.POST("/items", d.Cart.AddItem)
	cart.PUT("/items/:id", d.Cart.UpdateItem)
	cart.DELETE("/items/:id", d.Cart.RemoveItem)

	checkoutMW := []echo.MiddlewareFunc{}
	if d.CheckoutRateLimit > 0 {
		checkoutMW = append(checkoutMW, checkoutLimiter(d.CheckoutRateLimit))
	}
	checkoutMW = append(checkoutMW, idempotency.Middleware(d.Idempotency))

	orders := v1.Group("/orders", requireAuth)
	orders.POST("", d.Orders.CreateOrder, checkoutMW...)
	orders.GET("", d.Orders.ListMine)
	orders.GET("/:id", d.Orders.GetOrder)

	admin := v1.Group("/admin", requireAuth)
	admin.POST("/products", d.Catalog.CreateProduct, adminOnly)
	admin.PATCH("/products/:id", d.Catalog.PatchProduct, adminOnly)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct, adminOnly)

	admin.GET("/orders", d.Orders.ListAll, adminOnly)
	admin.GET("/orders/:id", d.Orders.GetOrder, adminOnly)
	admin.PUT("/orders/:id/status", d.Orders.UpdateStatus, adminOnly)

	admin.GET("/users", d.Users.ListUsers, adminOnly)
	admin.POST("/users", d.Users.CreateUser, adminOnly)
	admin.GET("/users/:id", d.Users.GetUser, adminOnly)
	admin.PATCH("/users/:id", d.Users.UpdateUser, adminOnly)
	admin.DELETE("/users/:id", d.Users.DeleteUser, adminOnly)

	admin.GET("/audit", d.Audit.Recent, adminOrAuditor)
	admin.GET("/audit/search", d.Audit.Search, adminOrAuditor)
}
