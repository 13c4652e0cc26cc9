package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误类别：状态机/权限/数据完整性等，handler 层统一映射成 HTTP 状态码
type Kind int

const (
	KindInternal      Kind = iota // 未分类的内部错误
	KindValidation                // 参数缺失或超出范围
	KindInvalidState              // 当前状态下不允许该操作
	KindForbidden                 // 不是资源的所有者
	KindNotFound                  // 记录不存在
	KindDataIntegrity             // 数据损坏（如负时长区间），只记录不修复
	KindDependency                // 外部依赖（文本生成）不可用
	KindUnauthorized              // 未登录或凭证失效
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // 可选的底层错误
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error    { return New(KindValidation, msg) }
func InvalidState(msg string) *Error  { return New(KindInvalidState, msg) }
func Forbidden(msg string) *Error     { return New(KindForbidden, msg) }
func NotFound(msg string) *Error      { return New(KindNotFound, msg) }
func DataIntegrity(msg string) *Error { return New(KindDataIntegrity, msg) }
func Dependency(msg string, err error) *Error {
	return Wrap(KindDependency, msg, err)
}
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }

// KindOf 取出错误类别，非 *Error 一律按 Internal 处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断 err 是否属于某个类别
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// HTTPStatus 类别到 HTTP 状态码的唯一映射点
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
