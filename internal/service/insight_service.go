package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/focusflow/focusflow-be/internal/models"
	"github.com/focusflow/focusflow-be/internal/pkg/logger"
)

// TextGenerator 外部文本生成能力（Gemini），只约定输入输出形状
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// InsightSessionStore 洞察分析需要的只读查询
type InsightSessionStore interface {
	CompletedRated(ctx context.Context, userID uint) ([]models.Session, error)
}

// InsightUserStore 洞察缓存的写入口，整体覆盖
type InsightUserStore interface {
	SaveInsights(ctx context.Context, userID uint, in models.AIInsights) error
}

type InsightService struct {
	sessions InsightSessionStore
	users    InsightUserStore
	gen      TextGenerator // 可以为 nil（没配 API key）
	minRated int           // 标签入榜的最小评分样本数
	timeout  time.Duration
	log      *logger.Logger
}

func NewInsightService(sessions InsightSessionStore, users InsightUserStore, gen TextGenerator, minRated int, timeout time.Duration, log *logger.Logger) *InsightService {
	if minRated < 1 {
		minRated = 2
	}
	return &InsightService{
		sessions: sessions,
		users:    users,
		gen:      gen,
		minRated: minRated,
		timeout:  timeout,
		log:      log,
	}
}

type tagPerf struct {
	tag       string
	avgRating float64
	count     int
}

// tagPerformance 按标签的平均评分排名
// 样本少于 minRated 的标签丢掉，避免单次打分带偏结论
func tagPerformance(sessions []models.Session, minRated int) (top, improvement []string) {
	type acc struct {
		total int
		count int
	}
	byTag := map[string]*acc{}
	for _, s := range sessions {
		if s.Rating == nil {
			continue
		}
		for _, t := range s.Tags {
			a, ok := byTag[t]
			if !ok {
				a = &acc{}
				byTag[t] = a
			}
			a.total += *s.Rating
			a.count++
		}
	}
	perf := make([]tagPerf, 0, len(byTag))
	for tag, a := range byTag {
		if a.count < minRated {
			continue
		}
		perf = append(perf, tagPerf{tag: tag, avgRating: float64(a.total) / float64(a.count), count: a.count})
	}
	sort.Slice(perf, func(i, j int) bool {
		if perf[i].avgRating != perf[j].avgRating {
			return perf[i].avgRating > perf[j].avgRating
		}
		return perf[i].tag < perf[j].tag
	})

	top = []string{}
	for i := 0; i < len(perf) && i < 3; i++ {
		top = append(top, perf[i].tag)
	}
	// 尾部 3 个反转，最差的排最前
	improvement = []string{}
	lo := len(perf) - 3
	if lo < 0 {
		lo = 0
	}
	for i := len(perf) - 1; i >= lo; i-- {
		improvement = append(improvement, perf[i].tag)
	}
	return top, improvement
}

// 四个固定时段，文案沿用前端已适配的格式
var timeBlocks = []struct {
	label    string
	from, to int // [from, to) 小时，跨零点的 Night 单独处理
}{
	{"Morning (6am-12pm)", 6, 12},
	{"Afternoon (12pm-5pm)", 12, 17},
	{"Evening (5pm-10pm)", 17, 22},
	{"Night (10pm-6am)", 22, 6},
}

func blockOfHour(hour int) string {
	for _, b := range timeBlocks {
		if b.from < b.to && hour >= b.from && hour < b.to {
			return b.label
		}
	}
	return "Night (10pm-6am)"
}

// peakTime 评分最高的时段，按会话第一个区间的开始小时分桶
// 没有任何样本时返回 "Not enough data"
func peakTime(sessions []models.Session) string {
	type acc struct {
		total int
		count int
	}
	blocks := map[string]*acc{}
	for _, s := range sessions {
		if s.Rating == nil {
			continue
		}
		hour, ok := s.FirstIntervalHour()
		if !ok {
			continue
		}
		label := blockOfHour(hour)
		a, okb := blocks[label]
		if !okb {
			a = &acc{}
			blocks[label] = a
		}
		a.total += *s.Rating
		a.count++
	}
	peak := "Not enough data"
	maxAvg := 0.0
	// 固定顺序遍历，平均分打平时取排前面的时段，结果稳定
	for _, b := range timeBlocks {
		a, ok := blocks[b.label]
		if !ok || a.count == 0 {
			continue
		}
		avg := float64(a.total) / float64(a.count)
		if avg > maxAvg {
			maxAvg = avg
			peak = b.label
		}
	}
	return peak
}

const fallbackAnalysis = "AI analysis temporarily unavailable. Your data analysis is still being processed!"

func buildHabitPrompt(top, improvement []string, peak string) string {
	join := func(tags []string) string {
		if len(tags) == 0 {
			return "None yet"
		}
		return strings.Join(tags, ", ")
	}
	return fmt.Sprintf(`You are a friendly and encouraging productivity coach. Based on the following user data, provide a short, actionable insight (2-3 sentences max).

Data:
- User's best performing task types (highest rated): %s
- Task types the user finds challenging (lowest rated): %s
- The user's most productive time of day (highest rated sessions): %s

Provide one key insight that is positive, specific, and actionable. If there's insufficient data, encourage continued tracking.`,
		join(top), join(improvement), peak)
}

// RunAllAnalyses 跑完两个统计分析，再找文本生成器要一段习惯点评，
// 最后整体覆盖用户的洞察缓存
// 生成器挂了只降级文案，数字结果照常落库，调用方看不到依赖错误
func (s *InsightService) RunAllAnalyses(ctx context.Context, userID uint) (models.AIInsights, error) {
	sessions, err := s.sessions.CompletedRated(ctx, userID)
	if err != nil {
		return models.AIInsights{}, err
	}

	top, improvement := tagPerformance(sessions, s.minRated)
	peak := peakTime(sessions)

	habit := fallbackAnalysis
	if s.gen != nil {
		genCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, genErr := s.gen.GenerateText(genCtx, buildHabitPrompt(top, improvement, peak))
		cancel()
		if genErr != nil {
			s.log.Error("habit analysis generation failed", "user", userID, "error", genErr)
		} else if t := strings.TrimSpace(text); t != "" {
			habit = t
		}
	}

	insights := models.AIInsights{
		TopPerformingTags:    top,
		ImprovementAreaTags:  improvement,
		PeakProductivityTime: peak,
		HabitAnalysis:        habit,
	}
	if err := s.users.SaveInsights(ctx, userID, insights); err != nil {
		return models.AIInsights{}, err
	}
	s.log.Info("insight analysis completed", "user", userID, "peak", peak)
	return insights, nil
}
