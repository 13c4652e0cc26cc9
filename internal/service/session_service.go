package service

import (
	"context"
	"time"

	"github.com/focusflow/focusflow-be/internal/models"
	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
)

// SessionStore 会话服务需要的存储能力
// Transition 要求以读取时的状态做守卫写入（见 repository）
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	FindByID(ctx context.Context, id uint) (*models.Session, error)
	FindCurrent(ctx context.Context, userID uint) (*models.Session, error)
	HasMutable(ctx context.Context, userID uint) (bool, error)
	Transition(ctx context.Context, s *models.Session, fromStatuses ...string) error
	Delete(ctx context.Context, id uint) error
}

type SessionService struct {
	store SessionStore
	now   func() time.Time
}

func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{store: store, now: time.Now}
}

// Start 开始一次会话
// 同一用户已有未完成会话时拒绝，避免多个计时器互相踩
func (s *SessionService) Start(ctx context.Context, userID uint, tags []string) (*models.Session, error) {
	busy, err := s.store.HasMutable(ctx, userID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, apperr.InvalidState("an active or paused session already exists")
	}
	sess, err := models.NewSession(userID, tags, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// findOwned 取会话并校验归属
func (s *SessionService) findOwned(ctx context.Context, sessionID, userID uint) (*models.Session, error) {
	sess, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, apperr.Forbidden("not the owner of this session")
	}
	return sess, nil
}

// Pause 暂停：闭合当前区间并把时长折进 duration
func (s *SessionService) Pause(ctx context.Context, userID, sessionID uint) (*models.Session, error) {
	sess, err := s.findOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := sess.Pause(s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Transition(ctx, sess, models.StatusActive); err != nil {
		return nil, err
	}
	return sess, nil
}

// Resume 恢复：追加新的开放区间
func (s *SessionService) Resume(ctx context.Context, userID, sessionID uint) (*models.Session, error) {
	sess, err := s.findOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := sess.Resume(s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Transition(ctx, sess, models.StatusPaused); err != nil {
		return nil, err
	}
	return sess, nil
}

// End 完成：必须带 1-5 的评分，备注可选
func (s *SessionService) End(ctx context.Context, userID, sessionID uint, rating int, notes *string) (*models.Session, error) {
	sess, err := s.findOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := sess.End(s.now(), rating, notes); err != nil {
		return nil, err
	}
	if err := s.store.Transition(ctx, sess, models.StatusActive, models.StatusPaused); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete 硬删除，返回被删的会话
func (s *SessionService) Delete(ctx context.Context, userID, sessionID uint) (*models.Session, error) {
	sess, err := s.findOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentSession getCurrent 的返回：会话加上换算好的当前已计毫秒
type CurrentSession struct {
	*models.Session
	ElapsedMS int64 `json:"elapsedMs"`
}

// Current 取当前 active/paused 会话，没有返回 (nil, nil)
// elapsed = duration + 开放区间已走过的时间，客户端重连后可直接续显
func (s *SessionService) Current(ctx context.Context, userID uint) (*CurrentSession, error) {
	sess, err := s.store.FindCurrent(ctx, userID)
	if err != nil || sess == nil {
		return nil, err
	}
	return &CurrentSession{
		Session:   sess,
		ElapsedMS: sess.Duration + models.LiveElapsed(sess.Intervals, s.now()),
	}, nil
}
