package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-be/internal/pkg/httpx"
	"github.com/focusflow/focusflow-be/pkg/util"
)

const userIDKey = "user_id"

// JWTAuth Bearer 鉴权，解析通过后把用户信息放进请求上下文
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			httpx.FailStatus(c, 401, "missing or malformed authorization header")
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := util.ParseAccessToken(secret, tokenStr)
		if err != nil {
			httpx.FailStatus(c, 401, "invalid or expired token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// UserID 从上下文取已鉴权的用户 ID
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
