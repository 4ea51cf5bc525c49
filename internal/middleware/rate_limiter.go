package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"aplicas/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateStore counts hits of a key inside a fixed window.
type RateStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisRateStore keeps the counters in Redis so every replica of the API
// shares them.
type RedisRateStore struct {
	rdb redis.Cmdable
}

func NewRedisRateStore(rdb redis.Cmdable) *RedisRateStore {
	return &RedisRateStore{rdb: rdb}
}

func (s *RedisRateStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter allows limit requests per client IP and window under the given
// scope. When the store fails the request is let through.
func RateLimiter(store RateStore, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "aplicas:rl:" + scope + ":" + c.ClientIP()
		n, err := store.Hit(c.Request.Context(), key, window)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if n > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
