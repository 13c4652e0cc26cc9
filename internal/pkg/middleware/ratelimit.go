package middleware

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/focusflow/focusflow-be/internal/pkg/httpx"
)

// RateLimit 按用户限流，未登录请求按客户端 IP
// AI 相关端点调用又贵又慢，挡一下连点
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := map[string]*rate.Limiter{}

	get := func(k string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[k]; ok {
			return l
		}
		l := rate.NewLimiter(r, burst)
		limiters[k] = l
		return l
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		if id := UserID(c); id != 0 {
			key = "u" + strconv.FormatUint(uint64(id), 10)
		}
		if !get(key).Allow() {
			httpx.FailStatus(c, 429, "too many requests, try again later")
			return
		}
		c.Next()
	}
}
