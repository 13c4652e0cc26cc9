package service

import (
	"context"
	"sort"
	"time"

	"github.com/focusflow/focusflow-be/internal/models"
)

// AnalyticsStore 统计查询只读，不会改动会话
type AnalyticsStore interface {
	CompletedInWindow(ctx context.Context, userID uint, from, to time.Time) ([]models.Session, error)
	CompletedDates(ctx context.Context, userID uint) ([]string, error)
	DistinctTags(ctx context.Context, userID uint) ([]string, error)
}

type AnalyticsService struct {
	store AnalyticsStore
	now   func() time.Time
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store, now: time.Now}
}

type WeeklySummary struct {
	TotalDuration      int64   `json:"totalDuration"`
	TotalSessions      int     `json:"totalSessions"`
	ActiveDays         int     `json:"activeDays"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	MostUsedTag        string  `json:"mostUsedTag,omitempty"`
}

type DayStat struct {
	Date          string `json:"date"`
	TotalDuration int64  `json:"totalDuration"`
	SessionCount  int    `json:"sessionCount"`
}

type TagStat struct {
	Tag           string `json:"tag"`
	TotalDuration int64  `json:"totalDuration"`
	Count         int    `json:"count"`
}

type StreakInfo struct {
	CurrentStreak int    `json:"currentStreak"`
	LastActive    string `json:"lastActive,omitempty"`
}

// weekRange 本周窗口：周一 00:00（本地时区）起 7 天
func weekRange(now time.Time) (time.Time, time.Time) {
	diff := (int(now.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	start := time.Date(now.Year(), now.Month(), now.Day()-diff, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 7)
}

// WeeklySummary 本周已完成会话的汇总
func (a *AnalyticsService) WeeklySummary(ctx context.Context, userID uint) (WeeklySummary, error) {
	from, to := weekRange(a.now())
	sessions, err := a.store.CompletedInWindow(ctx, userID, from, to)
	if err != nil {
		return WeeklySummary{}, err
	}
	return summarizeWeek(sessions), nil
}

func summarizeWeek(sessions []models.Session) WeeklySummary {
	var sum WeeklySummary
	days := map[string]struct{}{}
	tagFreq := map[string]int{}
	for _, s := range sessions {
		sum.TotalDuration += s.Duration
		sum.TotalSessions++
		days[s.Date] = struct{}{}
		for _, t := range s.Tags {
			tagFreq[t]++
		}
	}
	sum.ActiveDays = len(days)
	if sum.TotalSessions > 0 {
		sum.AvgSessionDuration = float64(sum.TotalDuration) / float64(sum.TotalSessions)
	}
	sum.MostUsedTag = mostUsedTag(tagFreq)
	return sum
}

// mostUsedTag 出现次数最多的标签，次数相同时取字典序小的，保证结果稳定
func mostUsedTag(freq map[string]int) string {
	best, bestN := "", 0
	for tag, n := range freq {
		if n > bestN || (n == bestN && bestN > 0 && tag < best) {
			best, bestN = tag, n
		}
	}
	return best
}

// DailyBreakdown 本周按日期分组的时长与次数，日期升序
func (a *AnalyticsService) DailyBreakdown(ctx context.Context, userID uint) ([]DayStat, error) {
	from, to := weekRange(a.now())
	sessions, err := a.store.CompletedInWindow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return breakdownByDay(sessions), nil
}

func breakdownByDay(sessions []models.Session) []DayStat {
	byDay := map[string]*DayStat{}
	for _, s := range sessions {
		d, ok := byDay[s.Date]
		if !ok {
			d = &DayStat{Date: s.Date}
			byDay[s.Date] = d
		}
		d.TotalDuration += s.Duration
		d.SessionCount++
	}
	out := make([]DayStat, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TagWiseStats 本周按标签的时长与次数
// 一条会话有 N 个标签就计入 N 行，时长降序，同时长按标签升序
func (a *AnalyticsService) TagWiseStats(ctx context.Context, userID uint) ([]TagStat, error) {
	from, to := weekRange(a.now())
	sessions, err := a.store.CompletedInWindow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return statsByTag(sessions), nil
}

func statsByTag(sessions []models.Session) []TagStat {
	byTag := map[string]*TagStat{}
	for _, s := range sessions {
		for _, t := range s.Tags {
			st, ok := byTag[t]
			if !ok {
				st = &TagStat{Tag: t}
				byTag[t] = st
			}
			st.TotalDuration += s.Duration
			st.Count++
		}
	}
	out := make([]TagStat, 0, len(byTag))
	for _, st := range byTag {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalDuration != out[j].TotalDuration {
			return out[i].TotalDuration > out[j].TotalDuration
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// Streak 从今天起往回数连续有完成记录的天数
// 今天没有记录就是 0；lastActive 始终是最近一个有记录的日期
func (a *AnalyticsService) Streak(ctx context.Context, userID uint) (StreakInfo, error) {
	dates, err := a.store.CompletedDates(ctx, userID)
	if err != nil {
		return StreakInfo{}, err
	}
	return walkStreak(dates, a.now()), nil
}

// walkStreak dates 需要去重且倒序，逐日与期望日期精确比对，断一天即停
func walkStreak(dates []string, now time.Time) StreakInfo {
	if len(dates) == 0 {
		return StreakInfo{}
	}
	info := StreakInfo{LastActive: dates[0]}
	expected := now
	for _, d := range dates {
		if d != expected.Format(models.DateLayout) {
			break
		}
		info.CurrentStreak++
		expected = expected.AddDate(0, 0, -1)
	}
	return info
}

// UserTags 用户用过的全部标签
func (a *AnalyticsService) UserTags(ctx context.Context, userID uint) ([]string, error) {
	return a.store.DistinctTags(ctx, userID)
}
