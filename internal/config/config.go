package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingConfig 必填配置缺失，启动即失败，不重试
var ErrMissingConfig = errors.New("missing required configuration")

// Config 应用配置
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// AppURL 对外访问地址，用于拼接 widget 脚本地址和 OAuth 回调
	AppURL    string
	AppSecret string

	Database     DatabaseConfig
	Lightfunnels LightfunnelsConfig
	Tasks        TaskConfig
	RateLimit    RateLimitConfig
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN                  string
	EventRetentionMonths int
}

// LightfunnelsConfig 平台 OAuth / GraphQL 配置
type LightfunnelsConfig struct {
	URL          string // LF_URL，GraphQL 与 token 接口所在域
	FrontURL     string // LF_FRONT_URL，商家后台（授权页）
	ClientID     string
	ClientSecret string
	Scopes       string
}

// TaskConfig 定时任务配置
type TaskConfig struct {
	ScriptAuditCron  string
	TokenRefreshCron string
}

// RateLimitConfig 公开接口限流
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// Load 读取环境变量与可选的 .env 文件
func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env 不存在时直接使用环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("SERVER_PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		AppURL:      strings.TrimSpace(getEnvOrViper("APP_URL", getEnvOrViper("BETTER_AUTH_URL", ""))),
		AppSecret:   strings.TrimSpace(getEnvOrViper("APP_SECRET", "")),
		Database: DatabaseConfig{
			DSN:                  getEnvOrViper("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=searchier port=5432 sslmode=disable"),
			EventRetentionMonths: getIntOrDefault("EVENT_RETENTION_MONTHS", 0),
		},
		Lightfunnels: LightfunnelsConfig{
			URL:          strings.TrimSuffix(strings.TrimSpace(getEnvOrViper("LF_URL", "")), "/"),
			FrontURL:     strings.TrimSuffix(strings.TrimSpace(getEnvOrViper("LF_FRONT_URL", "")), "/"),
			ClientID:     strings.TrimSpace(getEnvOrViper("LF_APP_CLIENT", "")),
			ClientSecret: strings.TrimSpace(getEnvOrViper("LF_APP_SECRET", "")),
			Scopes:       getEnvOrViper("LF_SCOPES", "orders,funnels,products"),
		},
		Tasks: TaskConfig{
			ScriptAuditCron:  getEnvOrViper("SCRIPT_AUDIT_CRON", "0 0 * * * *"),
			TokenRefreshCron: getEnvOrViper("TOKEN_REFRESH_CRON", "0 0/40 * * * *"),
		},
		RateLimit: RateLimitConfig{
			PerSecond: getFloatOrDefault("PUBLIC_RATE_LIMIT", 20),
			Burst:     getIntOrDefault("PUBLIC_RATE_BURST", 40),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验必填项
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"APP_URL", c.AppURL},
		{"APP_SECRET", c.AppSecret},
		{"LF_URL", c.Lightfunnels.URL},
		{"LF_FRONT_URL", c.Lightfunnels.FrontURL},
		{"LF_APP_CLIENT", c.Lightfunnels.ClientID},
		{"LF_APP_SECRET", c.Lightfunnels.ClientSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is not configured", ErrMissingConfig, r.key)
		}
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ScriptURL widget 脚本的公开地址
func (c *Config) ScriptURL() string {
	return strings.TrimSuffix(c.AppURL, "/") + "/searchier.js"
}

// CallbackURL OAuth 回调地址
func (c *Config) CallbackURL() string {
	return strings.TrimSuffix(c.AppURL, "/") + "/api/auth/callback"
}

// ==================== 工具函数 ====================

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
