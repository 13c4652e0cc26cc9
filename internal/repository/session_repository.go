package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/focusflow/focusflow-be/internal/models"
	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create 落库新会话（连同初始区间）
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByID 按 ID 取会话，区间按创建顺序带出
func (r *SessionRepository) FindByID(ctx context.Context, id uint) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).
		Preload("Intervals", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("session not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindCurrent 最近一条可变更（active/paused）会话，没有返回 (nil, nil)
func (r *SessionRepository) FindCurrent(ctx context.Context, userID uint) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).
		Preload("Intervals", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ? AND status IN ?", userID, []string{models.StatusActive, models.StatusPaused}).
		Order("created_at DESC").
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// HasMutable 该用户是否还有未完成的会话（start 前置检查用）
func (r *SessionRepository) HasMutable(ctx context.Context, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND status IN ?", userID, []string{models.StatusActive, models.StatusPaused}).
		Count(&n).Error
	return n > 0, err
}

// Transition 持久化一次状态迁移
// 会话行的 UPDATE 以读取时的状态做守卫，并发下另一个迁移先落库时
// RowsAffected 为 0，整个事务回滚并报 InvalidState，不会出现交叉写
func (r *SessionRepository) Transition(ctx context.Context, s *models.Session, fromStatuses ...string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Session{}).
			Where("id = ? AND status IN ?", s.ID, fromStatuses).
			Updates(map[string]any{
				"status":   s.Status,
				"duration": s.Duration,
				"rating":   s.Rating,
				"notes":    s.Notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("session was updated concurrently")
		}
		for i := range s.Intervals {
			iv := &s.Intervals[i]
			switch {
			case iv.ID == 0:
				// resume 追加的新区间
				iv.SessionID = s.ID
				if err := tx.Create(iv).Error; err != nil {
					return err
				}
			case iv.EndTime != nil:
				// 闭合只作用于尚未闭合的行，重复提交不会改写历史
				if err := tx.Model(&models.Interval{}).
					Where("id = ? AND end_time IS NULL", iv.ID).
					Update("end_time", iv.EndTime).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Delete 硬删除会话及其区间
func (r *SessionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.Interval{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Session{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("session not found")
		}
		return nil
	})
}

// CompletedInWindow 某时间窗内创建的已完成会话（周报等只读统计用）
func (r *SessionRepository) CompletedInWindow(ctx context.Context, userID uint, from, to time.Time) ([]models.Session, error) {
	var out []models.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			userID, models.StatusCompleted, from, to).
		Order("date ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CompletedRated 全历史中已完成且有评分的会话，带区间（洞察分析用）
func (r *SessionRepository) CompletedRated(ctx context.Context, userID uint) ([]models.Session, error) {
	var out []models.Session
	err := r.db.WithContext(ctx).
		Preload("Intervals", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ? AND status = ? AND rating IS NOT NULL", userID, models.StatusCompleted).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// CompletedDates 已完成会话的去重日期，倒序（连续打卡统计用）
func (r *SessionRepository) CompletedDates(ctx context.Context, userID uint) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Distinct("date").
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Order("date DESC").
		Pluck("date", &dates).Error
	return dates, err
}

// DistinctTags 用户用过的所有标签
// tags 存的是 JSON 数组，去重在 Go 里做
func (r *SessionRepository) DistinctTags(ctx context.Context, userID uint) ([]string, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).Select("tags").
		Where("user_id = ?", userID).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	tags := []string{}
	for _, s := range sessions {
		for _, t := range s.Tags {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}
	return tags, nil
}
