package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-be/internal/models"
	"github.com/focusflow/focusflow-be/internal/pkg/httpx"
	"github.com/focusflow/focusflow-be/internal/pkg/middleware"
	"github.com/focusflow/focusflow-be/internal/service"
)

type User struct {
	svc *service.UserService
}

func NewUser(svc *service.UserService) *User { return &User{svc: svc} }

type registerReq struct {
	FullName string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	User   *models.User      `json:"user"`
	Tokens service.TokenPair `json:"tokens"`
}

// Register POST /api/v1/user/register
func (h *User) Register(c *gin.Context) {
	var req registerReq
	_ = c.ShouldBindJSON(&req)
	user, tokens, err := h.svc.Register(c.Request.Context(), req.FullName, req.Username, req.Email, req.Password)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, authResp{User: user, Tokens: tokens}, "User registered successfully")
}

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/v1/user/login
func (h *User) Login(c *gin.Context) {
	var req loginReq
	_ = c.ShouldBindJSON(&req)
	login := req.Username
	if login == "" {
		login = req.Email
	}
	user, tokens, err := h.svc.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, authResp{User: user, Tokens: tokens}, "User logged in successfully")
}

// Logout POST /api/v1/user/logout
func (h *User) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, nil, "User logged out")
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh POST /api/v1/user/refresh
func (h *User) Refresh(c *gin.Context) {
	var req refreshReq
	_ = c.ShouldBindJSON(&req)
	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, tokens, "Access token refreshed")
}

// Profile GET /api/v1/user/profile
// 带上洞察缓存（aiInsights），前端的洞察卡片直接读这里
func (h *User) Profile(c *gin.Context) {
	user, err := h.svc.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, user, "User profile fetched")
}

type updateProfileReq struct {
	FullName string `json:"fullname"`
}

// UpdateProfile PATCH /api/v1/user/profile
func (h *User) UpdateProfile(c *gin.Context) {
	var req updateProfileReq
	_ = c.ShouldBindJSON(&req)
	user, err := h.svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), req.FullName)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, user, "Profile updated successfully")
}
