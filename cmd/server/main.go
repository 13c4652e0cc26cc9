package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/focusflow/focusflow-be/internal/coach"
	"github.com/focusflow/focusflow-be/internal/config"
	"github.com/focusflow/focusflow-be/internal/database"
	"github.com/focusflow/focusflow-be/internal/handlers"
	"github.com/focusflow/focusflow-be/internal/pkg/logger"
	"github.com/focusflow/focusflow-be/internal/pkg/middleware"
	"github.com/focusflow/focusflow-be/internal/repository"
	"github.com/focusflow/focusflow-be/internal/service"
	"github.com/focusflow/focusflow-be/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(cfg.Env)
	defer func() { _ = log.Sync() }()

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库连接并运行迁移（AutoMigrate 会自动创建表及索引）
	db, err := database.Init(cfg)
	if err != nil {
		log.Fatal("db init error", "error", err)
	}

	// 文本生成器可选：没配 GEMINI_API_KEY 时洞察走兜底文案
	var gen service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		c, err := coach.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal("genai init error", "error", err)
		}
		gen = c
	} else {
		log.Info("GEMINI_API_KEY not set, ai features degraded")
	}

	sessionRepo := repository.NewSessionRepository(db)
	userRepo := repository.NewUserRepository(db)

	sessionSvc := service.NewSessionService(sessionRepo)
	analyticsSvc := service.NewAnalyticsService(sessionRepo)
	insightSvc := service.NewInsightService(sessionRepo, userRepo, gen, cfg.MinRatedSessions, cfg.AITimeout, log)
	userSvc := service.NewUserService(userRepo, cfg)
	quoteSvc := service.NewQuoteService(gen, cfg.AITimeout)

	sessionH := handlers.NewSession(sessionSvc)
	analyticsH := handlers.NewAnalytics(analyticsSvc, insightSvc)
	userH := handlers.NewUser(userSvc)
	quoteH := handlers.NewQuote(quoteSvc)

	r := gin.New()
	r.Use(gin.Recovery())              // 捕获 panic 并返回 500
	r.Use(util.Cors(cfg.AllowOrigins)) // CORS 跨域支持

	// 健康检查端点（用于负载均衡器和监控探测）
	r.GET("/api/v1/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "ts": time.Now().Unix()})
	})

	auth := middleware.JWTAuth(cfg.AccessSecret)
	// AI 端点又贵又慢，单独限流
	aiLimit := middleware.RateLimit(rate.Every(2*time.Second), 3)

	user := r.Group("/api/v1/user")
	{
		user.POST("/register", userH.Register)
		user.POST("/login", userH.Login)
		user.POST("/refresh", userH.Refresh)
		user.POST("/logout", auth, userH.Logout)
		user.GET("/profile", auth, userH.Profile)
		user.PATCH("/profile", auth, userH.UpdateProfile)
	}

	// 会话生命周期
	sessions := r.Group("/api/v1/sessions", auth)
	{
		sessions.POST("/start", sessionH.Start)
		sessions.PATCH("/pause/:sessionId", sessionH.Pause)
		sessions.PATCH("/resume/:sessionId", sessionH.Resume)
		sessions.POST("/end/:sessionId", sessionH.End)
		sessions.DELETE("/:sessionId", sessionH.Delete)
		sessions.GET("/current", sessionH.Current)
	}

	// 统计与洞察
	analytics := r.Group("/api/v1/analytics", auth)
	{
		analytics.GET("/weekly-summary", analyticsH.WeeklySummary)
		analytics.GET("/daily-breakdown", analyticsH.DailyBreakdown)
		analytics.GET("/tag-wise-stats", analyticsH.TagWiseStats)
		analytics.GET("/streak", analyticsH.Streak)
		analytics.GET("/tags", analyticsH.Tags)
		analytics.POST("/run-analysis", aiLimit, analyticsH.RunAnalysis)
	}

	r.GET("/api/v1/quote", auth, aiLimit, quoteH.Get)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		log.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
