// Package config 提供配置管理
package config

import (
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `yaml:"app"`
	Data      DataConfig      `yaml:"data"`
	API       APIConfig       `yaml:"api"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DataConfig 数据目录与快照文件配置
type DataConfig struct {
	Dir           string `yaml:"dir"`
	GeneralFile   string `yaml:"general_file"`
	RegionalFile  string `yaml:"regional_file"`
	DirectoryFile string `yaml:"directory_file"`
	UploadDir     string `yaml:"upload_dir"`
}

// APIConfig API配置
type APIConfig struct {
	RateLimit int           `yaml:"rate_limit"`
	Timeout   time.Duration `yaml:"timeout"`
	CORS      CORSConfig    `yaml:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Enabled bool     `yaml:"enabled"`
	Origins []string `yaml:"origins"`
}

// AnalyticsConfig 分析阈值配置
type AnalyticsConfig struct {
	TargetRate        float64 `yaml:"target_rate"`
	AlertCriticalRate float64 `yaml:"alert_critical_rate"`
	AtRiskThreshold   float64 `yaml:"at_risk_threshold"`
	TrendDelta        float64 `yaml:"trend_delta"`
	TrendWindow       int     `yaml:"trend_window"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "kaoqin"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7021),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Dir:           getEnv("DATA_DIR", "data"),
			GeneralFile:   getEnv("DATA_GENERAL_FILE", "attendance_history.json"),
			RegionalFile:  getEnv("DATA_REGIONAL_FILE", "rm_attendance_history.json"),
			DirectoryFile: getEnv("DATA_DIRECTORY_FILE", "directory.csv"),
			UploadDir:     getEnv("DATA_UPLOAD_DIR", "uploads"),
		},
		API: APIConfig{
			RateLimit: getEnvInt("API_RATE_LIMIT", 100),
			Timeout:   getEnvDuration("API_TIMEOUT", 30*time.Second),
			CORS: CORSConfig{
				Enabled: getEnvBool("API_CORS_ENABLED", true),
				Origins: []string{"*"},
			},
		},
		Analytics: AnalyticsConfig{
			TargetRate:        getEnvFloat("ANALYTICS_TARGET_RATE", 85.0),
			AlertCriticalRate: getEnvFloat("ANALYTICS_ALERT_CRITICAL_RATE", 80.0),
			AtRiskThreshold:   getEnvFloat("ANALYTICS_AT_RISK_THRESHOLD", 50.0),
			TrendDelta:        getEnvFloat("ANALYTICS_TREND_DELTA", 2.0),
			TrendWindow:       getEnvInt("ANALYTICS_TREND_WINDOW", 3),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
