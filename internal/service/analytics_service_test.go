package service

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/focusflow/focusflow-be/internal/models"
)

func completedSession(date string, durationMS int64, rating int, tags ...string) models.Session {
	r := rating
	return models.Session{
		Status:   models.StatusCompleted,
		Duration: durationMS,
		Date:     date,
		Rating:   &r,
		Tags:     datatypes.NewJSONSlice(tags),
	}
}

func TestWeekRange(t *testing.T) {
	loc := time.Local
	cases := []struct {
		now       time.Time
		wantStart string
	}{
		{time.Date(2025, 3, 13, 15, 4, 5, 0, loc), "2025-03-10"}, // 周四
		{time.Date(2025, 3, 10, 0, 0, 0, 0, loc), "2025-03-10"},  // 周一零点
		{time.Date(2025, 3, 16, 23, 59, 0, 0, loc), "2025-03-10"}, // 周日
	}
	for _, tc := range cases {
		start, end := weekRange(tc.now)
		if start.Format(models.DateLayout) != tc.wantStart {
			t.Errorf("weekRange(%v) start = %v, want %s", tc.now, start, tc.wantStart)
		}
		if !end.Equal(start.AddDate(0, 0, 7)) {
			t.Errorf("weekRange(%v) span != 7 days", tc.now)
		}
		if start.Hour() != 0 || start.Minute() != 0 {
			t.Errorf("weekRange(%v) start not midnight: %v", tc.now, start)
		}
	}
}

func TestSummarizeWeek(t *testing.T) {
	// 周一两条（code/read），周二一条（code）
	sessions := []models.Session{
		completedSession("2025-03-10", 1800000, 4, "code"),
		completedSession("2025-03-10", 600000, 3, "read"),
		completedSession("2025-03-11", 3600000, 5, "code"),
	}
	sum := summarizeWeek(sessions)
	if sum.TotalDuration != 6000000 {
		t.Errorf("totalDuration = %d, want 6000000", sum.TotalDuration)
	}
	if sum.TotalSessions != 3 {
		t.Errorf("totalSessions = %d, want 3", sum.TotalSessions)
	}
	if sum.ActiveDays != 2 {
		t.Errorf("activeDays = %d, want 2", sum.ActiveDays)
	}
	if sum.AvgSessionDuration != 2000000 {
		t.Errorf("avgSessionDuration = %f, want 2000000", sum.AvgSessionDuration)
	}
	if sum.MostUsedTag != "code" {
		t.Errorf("mostUsedTag = %q, want code", sum.MostUsedTag)
	}
}

func TestSummarizeWeekEmpty(t *testing.T) {
	sum := summarizeWeek(nil)
	if sum.TotalSessions != 0 || sum.AvgSessionDuration != 0 || sum.MostUsedTag != "" {
		t.Errorf("empty summary not zero-valued: %+v", sum)
	}
}

func TestMostUsedTagTieIsLexicographic(t *testing.T) {
	freq := map[string]int{"zeta": 2, "alpha": 2, "mid": 1}
	if got := mostUsedTag(freq); got != "alpha" {
		t.Errorf("tie-break = %q, want alpha", got)
	}
}

func TestBreakdownByDay(t *testing.T) {
	sessions := []models.Session{
		completedSession("2025-03-11", 3600000, 5, "code"),
		completedSession("2025-03-10", 1800000, 4, "code"),
		completedSession("2025-03-10", 600000, 3, "read"),
	}
	days := breakdownByDay(sessions)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	// 日期升序
	if days[0].Date != "2025-03-10" || days[1].Date != "2025-03-11" {
		t.Errorf("days out of order: %+v", days)
	}
	if days[0].TotalDuration != 2400000 || days[0].SessionCount != 2 {
		t.Errorf("monday stats wrong: %+v", days[0])
	}
	if days[1].TotalDuration != 3600000 || days[1].SessionCount != 1 {
		t.Errorf("tuesday stats wrong: %+v", days[1])
	}
}

func TestStatsByTag(t *testing.T) {
	sessions := []models.Session{
		completedSession("2025-03-10", 1000, 4, "code", "focus"), // 两个标签各记一行
		completedSession("2025-03-11", 3000, 5, "code"),
		completedSession("2025-03-11", 1000, 2, "read"),
	}
	stats := statsByTag(sessions)
	if len(stats) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(stats))
	}
	if stats[0].Tag != "code" || stats[0].TotalDuration != 4000 || stats[0].Count != 2 {
		t.Errorf("top tag wrong: %+v", stats[0])
	}
	// 时长相同按标签字典序
	if stats[1].Tag != "focus" || stats[2].Tag != "read" {
		t.Errorf("tie order wrong: %+v", stats)
	}
}

func TestWalkStreak(t *testing.T) {
	now := time.Date(2025, 3, 13, 20, 0, 0, 0, time.Local)
	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format(models.DateLayout)
	}

	// {今天, -1, -2, -4} → 连续 3 天
	info := walkStreak([]string{day(0), day(1), day(2), day(4)}, now)
	if info.CurrentStreak != 3 {
		t.Errorf("streak = %d, want 3", info.CurrentStreak)
	}
	if info.LastActive != day(0) {
		t.Errorf("lastActive = %q, want %q", info.LastActive, day(0))
	}

	// 今天没有记录 → 0，但 lastActive 还是最近的那天
	info = walkStreak([]string{day(1), day(2)}, now)
	if info.CurrentStreak != 0 {
		t.Errorf("streak = %d, want 0", info.CurrentStreak)
	}
	if info.LastActive != day(1) {
		t.Errorf("lastActive = %q, want %q", info.LastActive, day(1))
	}

	// 没有任何会话
	info = walkStreak(nil, now)
	if info.CurrentStreak != 0 || info.LastActive != "" {
		t.Errorf("empty streak not zero-valued: %+v", info)
	}
}
