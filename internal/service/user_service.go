package service

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/focusflow/focusflow-be/internal/config"
	"github.com/focusflow/focusflow-be/internal/models"
	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
	"github.com/focusflow/focusflow-be/internal/repository"
	"github.com/focusflow/focusflow-be/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserService struct {
	repo *repository.UserRepository
	cfg  *config.Config
}

func NewUserService(repo *repository.UserRepository, cfg *config.Config) *UserService {
	return &UserService{repo: repo, cfg: cfg}
}

func (s *UserService) issueTokens(ctx context.Context, user *models.User) (TokenPair, error) {
	access, err := util.GenerateAccessToken(s.cfg.AccessSecret, s.cfg.AccessExpire, user.ID, user.Username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := util.GenerateRefreshToken(s.cfg.RefreshSecret, s.cfg.RefreshExpire, user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	// refresh token 存库，续期时要求完全一致（旧 token 作废）
	if err := s.repo.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Register 注册新用户，校验规则沿用前端已有的约束
func (s *UserService) Register(ctx context.Context, fullName, username, email, password string) (*models.User, TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	switch {
	case fullName == "" || username == "" || email == "" || password == "":
		return nil, TokenPair{}, apperr.Validation("all fields are required")
	case len(username) < 3 || len(username) > 20:
		return nil, TokenPair{}, apperr.Validation("username must be 3-20 characters")
	case !emailPattern.MatchString(email):
		return nil, TokenPair{}, apperr.Validation("please provide a valid email address")
	case len(password) < 6:
		return nil, TokenPair{}, apperr.Validation("password must be at least 6 characters")
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if exists {
		return nil, TokenPair{}, apperr.Validation("username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, TokenPair{}, err
	}
	user := &models.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		AIInsights:   models.DefaultInsights(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, tokens, nil
}

// Login 用户名或邮箱登录
func (s *UserService) Login(ctx context.Context, login, password string) (*models.User, TokenPair, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return nil, TokenPair{}, apperr.Validation("login and password are required")
	}
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, TokenPair{}, apperr.Unauthorized("invalid credentials")
	}
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, tokens, nil
}

// Logout 清掉存库的 refresh token，旧令牌全部失效
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	return s.repo.SetRefreshToken(ctx, userID, "")
}

// Refresh 刷新令牌换新的一对（旋转：旧 refresh 立即作废）
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, apperr.Unauthorized("refresh token is required")
	}
	userID, err := util.ParseRefreshToken(s.cfg.RefreshSecret, refreshToken)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return TokenPair{}, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return TokenPair{}, apperr.Unauthorized("refresh token is expired or already used")
	}
	return s.issueTokens(ctx, user)
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, fullName string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperr.Validation("fullname is required")
	}
	if err := s.repo.UpdateProfile(ctx, userID, fullName); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}
