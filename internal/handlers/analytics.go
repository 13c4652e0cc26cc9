package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-be/internal/pkg/httpx"
	"github.com/focusflow/focusflow-be/internal/pkg/middleware"
	"github.com/focusflow/focusflow-be/internal/service"
)

type Analytics struct {
	stats    *service.AnalyticsService
	insights *service.InsightService
}

func NewAnalytics(stats *service.AnalyticsService, insights *service.InsightService) *Analytics {
	return &Analytics{stats: stats, insights: insights}
}

// WeeklySummary GET /api/v1/analytics/weekly-summary
func (h *Analytics) WeeklySummary(c *gin.Context) {
	sum, err := h.stats.WeeklySummary(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, sum, "Weekly summary fetched successfully")
}

// DailyBreakdown GET /api/v1/analytics/daily-breakdown
func (h *Analytics) DailyBreakdown(c *gin.Context) {
	days, err := h.stats.DailyBreakdown(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, days, "Daily breakdown fetched")
}

// TagWiseStats GET /api/v1/analytics/tag-wise-stats
func (h *Analytics) TagWiseStats(c *gin.Context) {
	stats, err := h.stats.TagWiseStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, stats, "Tag-wise session stats")
}

// Streak GET /api/v1/analytics/streak
func (h *Analytics) Streak(c *gin.Context) {
	info, err := h.stats.Streak(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, info, "Streak info fetched successfully")
}

// Tags GET /api/v1/analytics/tags
func (h *Analytics) Tags(c *gin.Context) {
	tags, err := h.stats.UserTags(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, tags, "Fetched all tags")
}

// RunAnalysis POST /api/v1/analytics/run-analysis
// 同步执行，返回时洞察缓存已经更新（生成失败会落兜底文案）
func (h *Analytics) RunAnalysis(c *gin.Context) {
	insights, err := h.insights.RunAllAnalyses(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, insights, "Analysis completed successfully")
}
