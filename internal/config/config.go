package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string // 运行环境：dev 或 prod
	Addr string // 服务绑定地址，例如 :3001

	// JWT 双 token：access 短期、refresh 长期（存在用户表里）
	AccessSecret  string
	RefreshSecret string
	AccessExpire  time.Duration
	RefreshExpire time.Duration

	// Postgres 数据库配置
	PGUser string
	PGPass string
	PGDB   string
	PGHost string
	PGPort string

	// Gemini 文本生成（洞察分析与每日一句）
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration // 生成调用的墙钟超时

	// 标签洞察的最小样本数：少于该数量的标签不参与排名
	MinRatedSessions int

	AllowOrigins string // CORS 白名单，逗号分隔
}

// Load 从 .env 文件和环境变量读取配置
// 优先级：环境变量 > .env 文件 > 默认值
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Env:              get("ENV", "dev"),
		Addr:             get("ADDR", ":3001"),
		AccessSecret:     get("ACCESS_TOKEN_SECRET", "dev-access-secret"),
		RefreshSecret:    get("REFRESH_TOKEN_SECRET", "dev-refresh-secret"),
		AccessExpire:     getDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshExpire:    getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		PGUser:           get("PGUSER", "app"),
		PGPass:           get("PGPASSWORD", "app"),
		PGDB:             get("PGDATABASE", "appdb"),
		PGHost:           get("PGHOST", "localhost"),
		PGPort:           get("PGPORT", "5432"),
		GeminiAPIKey:     get("GEMINI_API_KEY", ""),
		GeminiModel:      get("GEMINI_MODEL", "gemini-2.5-flash"),
		AITimeout:        getDuration("AI_TIMEOUT", 15*time.Second),
		MinRatedSessions: getInt("MIN_RATED_SESSIONS", 2),
		AllowOrigins:     get("ALLOW_ORIGINS", ""),
	}
	return c, nil
}

func (c *Config) DSN() string {
	// sslmode=disable 用于开发环境（生产环境应改为 require）
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.PGHost, c.PGUser, c.PGPass, c.PGDB, c.PGPort,
	)
}

// get 从环境变量获取值，如果为空则返回默认值
func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
