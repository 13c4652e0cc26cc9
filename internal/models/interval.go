package models

import (
	"fmt"
	"time"

	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
)

// 一个计时区间（开始->结束，或尚未结束）
// 区间只追加不修改历史，时段分析要用到每段的开始小时
type Interval struct {
	ID        uint       `json:"-" gorm:"primaryKey"`
	SessionID uint       `json:"-" gorm:"index"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Open 区间是否还在计时
func (iv Interval) Open() bool { return iv.EndTime == nil }

// ClosedDuration 累加所有已闭合区间的毫秒数
// 出现 endTime 早于 startTime 的脏数据时直接报错，不做静默修正
func ClosedDuration(intervals []Interval) (int64, error) {
	var total int64
	for _, iv := range intervals {
		if iv.EndTime == nil {
			continue
		}
		d := iv.EndTime.Sub(iv.StartTime).Milliseconds()
		if d < 0 {
			return 0, apperr.DataIntegrity(
				fmt.Sprintf("interval %d ends before it starts", iv.ID))
		}
		total += d
	}
	return total, nil
}

// LiveElapsed 当前开放区间已走过的毫秒数，只用于展示，不落库
// 没有开放区间时返回 0
func LiveElapsed(intervals []Interval, now time.Time) int64 {
	for i := len(intervals) - 1; i >= 0; i-- {
		if intervals[i].EndTime == nil {
			d := now.Sub(intervals[i].StartTime).Milliseconds()
			if d < 0 {
				return 0
			}
			return d
		}
	}
	return 0
}

// openIndex 返回开放区间的下标，没有则为 -1
func openIndex(intervals []Interval) int {
	for i := len(intervals) - 1; i >= 0; i-- {
		if intervals[i].EndTime == nil {
			return i
		}
	}
	return -1
}
