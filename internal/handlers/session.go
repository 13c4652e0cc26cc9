package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
	"github.com/focusflow/focusflow-be/internal/pkg/httpx"
	"github.com/focusflow/focusflow-be/internal/pkg/middleware"
	"github.com/focusflow/focusflow-be/internal/service"
)

type Session struct {
	svc *service.SessionService
}

func NewSession(svc *service.SessionService) *Session { return &Session{svc: svc} }

// sessionID 从路径参数解析会话 ID
func sessionID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("sessionId"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid session id")
	}
	return uint(id), nil
}

type startReq struct {
	Tags []string `json:"tags"`
}

// Start POST /api/v1/sessions/start
func (h *Session) Start(c *gin.Context) {
	var req startReq
	_ = c.ShouldBindJSON(&req)
	sess, err := h.svc.Start(c.Request.Context(), middleware.UserID(c), req.Tags)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, sess, "Session started successfully")
}

// Pause PATCH /api/v1/sessions/pause/:sessionId
func (h *Session) Pause(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	sess, err := h.svc.Pause(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, sess, "Session paused successfully")
}

// Resume PATCH /api/v1/sessions/resume/:sessionId
func (h *Session) Resume(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	sess, err := h.svc.Resume(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, sess, "Session resumed successfully")
}

type endReq struct {
	Rating *int    `json:"rating"`
	Notes  *string `json:"notes"`
}

// End POST /api/v1/sessions/end/:sessionId
func (h *Session) End(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	var req endReq
	_ = c.ShouldBindJSON(&req)
	if req.Rating == nil {
		httpx.Fail(c, apperr.Validation("rating is required"))
		return
	}
	sess, err := h.svc.End(c.Request.Context(), middleware.UserID(c), id, *req.Rating, req.Notes)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, sess, "Session ended successfully")
}

// Delete DELETE /api/v1/sessions/:sessionId
func (h *Session) Delete(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	sess, err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, sess, "Session deleted successfully")
}

// Current GET /api/v1/sessions/current
// 没有进行中的会话时 data 为空，属于正常返回
func (h *Session) Current(c *gin.Context) {
	cur, err := h.svc.Current(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if cur == nil {
		httpx.OK(c, nil, "No active session")
		return
	}
	httpx.OK(c, cur, "Current session fetched")
}
