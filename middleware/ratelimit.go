package middleware

import (
	"net/http"
	"strconv"
	"sync"

	ctxutil "Inkwell/pkg/context"
	"Inkwell/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter 按用户（匿名按 IP）限流
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if uid, err := ctxutil.GetUserID(c); err == nil {
			key = "u:" + strconv.FormatUint(uid, 10)
		}
		if !l.get(key).Allow() {
			response.Abort(c, http.StatusTooManyRequests, "请求过于频繁")
			return
		}
		c.Next()
	}
}
