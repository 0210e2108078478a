package middleware

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"TourCore/pkg/errors"
	"TourCore/pkg/logger"
	"TourCore/pkg/response"
)

// RateLimiter 按标识计数，返回是否放行与窗口内请求数
type RateLimiter interface {
	Allow(ctx context.Context, identifier string) (bool, int, error)
	Limit() int
}

// RateLimitMiddleware 按客户端 IP 限流，limiter 为 nil 时直接放行。
// 限流存储不可用时放行请求，只记录日志。
func RateLimitMiddleware(limiter RateLimiter) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if limiter == nil {
			c.Next(ctx)
			return
		}

		allowed, count, err := limiter.Allow(ctx, "ip:"+c.ClientIP())
		if err != nil {
			logger.Logger.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next(ctx)
			return
		}

		remaining := limiter.Limit() - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}
