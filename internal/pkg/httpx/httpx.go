package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
)

// 统一响应格式：code 为 HTTP 状态码，data 可为空
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, data any, msg string) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: msg, Data: data})
}

func Created(c *gin.Context, data any, msg string) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: msg, Data: data})
}

// Fail 按 apperr 的类别映射状态码后写出错误响应
func Fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// 内部错误不把细节透给客户端
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, Response{Code: status, Message: msg})
}

// FailStatus 少数不走 apperr 的场景（如 401）
func FailStatus(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: msg})
}
