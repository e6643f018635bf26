package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"hyperlocal_backend/pkg/apperrors"
)

// NewIPRateLimiter ограничивает запросы по IP клиента.
// rateFormatted: "20-M", "1000-H", "5-S"; пустая строка отключает лимит.
// С redisURL счетчики общие для всех экземпляров сервиса, иначе - в памяти процесса.
func NewIPRateLimiter(rateFormatted, redisURL string) (gin.HandlerFunc, error) {
	return newRateLimiter(rateFormatted, redisURL, "hyperlocal_limiter", func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// NewUserRateLimiter ограничивает запросы по id пользователя из AuthMiddleware,
// поэтому ставится после него. Без пользователя ключом служит IP.
func NewUserRateLimiter(rateFormatted, redisURL string) (gin.HandlerFunc, error) {
	return newRateLimiter(rateFormatted, redisURL, "hyperlocal_limiter_user", func(c *gin.Context) string {
		if id := GetUserID(c); id != 0 {
			return "user:" + strconv.FormatInt(id, 10)
		}
		return "ip:" + c.ClientIP()
	})
}

func newRateLimiter(rateFormatted, redisURL, prefix string, key mgin.KeyGetter) (gin.HandlerFunc, error) {
	if rateFormatted == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rateFormatted, err)
	}

	store, err := newLimiterStore(redisURL, prefix)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(store, rate)
	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(key),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}),
	), nil
}

func newLimiterStore(redisURL, prefix string) (limiter.Store, error) {
	if redisURL == "" {
		return memory.NewStore(), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix: prefix,
	})
}
