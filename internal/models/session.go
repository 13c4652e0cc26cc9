package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
)

const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// DateLayout 会话归属日期的存储格式，建档时落库，统计时按字符串分组
const DateLayout = "2006-01-02"

// 一次专注会话
// duration 只累计已闭合区间，区间一闭合就折进来，单调递增
type Session struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	UserID    uint                        `json:"userId" gorm:"index"`
	Intervals []Interval                  `json:"intervals"`
	Duration  int64                       `json:"duration"` // 毫秒
	Status    string                      `json:"status"`   // active、paused、completed
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Date      string                      `json:"date" gorm:"size:10;index"` // YYYY-MM-DD
	Rating    *int                        `json:"rating,omitempty"`          // 1-5，完成时写入
	Notes     *string                     `json:"notes,omitempty"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// NewSession 建一条 active 会话：一个开放区间、零时长、归属今天
func NewSession(userID uint, tags []string, now time.Time) (*Session, error) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	tags = cleaned
	if len(tags) == 0 {
		return nil, apperr.Validation("at least one tag is required")
	}
	return &Session{
		UserID:    userID,
		Intervals: []Interval{{StartTime: now}},
		Duration:  0,
		Status:    StatusActive,
		Tags:      datatypes.NewJSONSlice(tags),
		Date:      now.Format(DateLayout),
	}, nil
}

// Mutable 会话是否还能变更（未完成）
func (s *Session) Mutable() bool {
	return s.Status == StatusActive || s.Status == StatusPaused
}

// closeOpenInterval 闭合开放区间并把本段时长折进 duration
// 返回本段毫秒数；没有开放区间时为 0（end 的幂等闭合会走到这里）
func (s *Session) closeOpenInterval(now time.Time) (int64, error) {
	idx := openIndex(s.Intervals)
	if idx < 0 {
		return 0, nil
	}
	delta := now.Sub(s.Intervals[idx].StartTime).Milliseconds()
	if delta < 0 {
		return 0, apperr.DataIntegrity("open interval starts in the future")
	}
	end := now
	s.Intervals[idx].EndTime = &end
	s.Duration += delta
	return delta, nil
}

// Pause 暂停：闭合当前区间，active -> paused
func (s *Session) Pause(now time.Time) error {
	if s.Status != StatusActive {
		return apperr.InvalidState("session is not active")
	}
	if _, err := s.closeOpenInterval(now); err != nil {
		return err
	}
	s.Status = StatusPaused
	return nil
}

// Resume 恢复：新开一个区间，paused -> active
func (s *Session) Resume(now time.Time) error {
	switch s.Status {
	case StatusActive:
		return apperr.InvalidState("session is already active")
	case StatusCompleted:
		return apperr.InvalidState("cannot resume a completed session")
	}
	s.Intervals = append(s.Intervals, Interval{StartTime: now})
	s.Status = StatusActive
	return nil
}

// End 完成：如有开放区间先闭合，写入评分与备注，进入终态
func (s *Session) End(now time.Time, rating int, notes *string) error {
	if s.Status == StatusCompleted {
		return apperr.InvalidState("session is already completed")
	}
	if rating < 1 || rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}
	if _, err := s.closeOpenInterval(now); err != nil {
		return err
	}
	s.Status = StatusCompleted
	s.Rating = &rating
	s.Notes = notes
	return nil
}

// FirstIntervalHour 第一个区间的开始小时，用于时段分析
func (s *Session) FirstIntervalHour() (int, bool) {
	if len(s.Intervals) == 0 {
		return 0, false
	}
	return s.Intervals[0].StartTime.Hour(), true
}
