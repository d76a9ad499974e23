package idempotency

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/SaladDann/SIGECOB/pkg/logging"
)

const (
	Header     = "Idempotency-Key"
	DefaultTTL = 24 * time.Hour

	statePending = "pending"
	stateDone    = "done"
)

func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewStore(rdb *redis.Client, prefix string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (s *Store) redisKey(key string) string {
	return fmt.Sprintf("%s:idempotency:%s", s.prefix, key)
}

// Reserve returns false when the key was already used within the TTL.
func (s *Store) Reserve(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, s.redisKey(key), statePending, s.ttl).Result()
}

func (s *Store) Complete(ctx context.Context, key string) error {
	return s.rdb.Set(ctx, s.redisKey(key), stateDone, s.ttl).Err()
}

// Release frees the key so a failed request can be resubmitted.
func (s *Store) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.redisKey(key)).Err()
}

// Middleware rejects a replayed Idempotency-Key with 409. Requests without
// the header pass through. Keys are scoped per authenticated user.
func Middleware(s *Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s == nil {
				return next(c)
			}
			key := Key(c.Request())
			if key == "" {
				return next(c)
			}
			if uid := c.Get("user_id"); uid != nil {
				key = fmt.Sprintf("%v:%s", uid, key)
			}

			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "idempotency")

			ok, err := s.Reserve(ctx, key)
			if err != nil {
				// redis down: do not block checkout on the guard
				l.Error("idempotency_reserve_error", "error", err)
				return next(c)
			}
			if !ok {
				l.Warn("idempotency_replay", "status", 409, "key", key)
				return echo.NewHTTPError(http.StatusConflict, "request with this Idempotency-Key was already submitted")
			}

			err = next(c)
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				if rErr := s.Release(ctx, key); rErr != nil {
					l.Error("idempotency_release_error", "error", rErr)
				}
				return err
			}
			if cErr := s.Complete(ctx, key); cErr != nil {
				l.Error("idempotency_complete_error", "error", cErr)
			}
			return nil
		}
	}
}
