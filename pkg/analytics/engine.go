// Package analytics 提供考勤聚合分析功能
//
// 所有聚合结果都是存储当前状态的纯函数，按请求重算，从不跨摄取缓存。
// 查询在只读快照上进行，缺数据时返回定义好的回退对象而不是错误。
package analytics

import (
	"math"

	"github.com/kaoqin/kaoqin/pkg/store"
)

// Config 分析阈值配置
// 趋势 ±2 与三点窗口是启发式简化，不是统计检验，保持可配置
type Config struct {
	TargetRate        float64 `json:"target_rate"`         // 目标出勤率 (%)
	AlertCriticalRate float64 `json:"alert_critical_rate"` // 低于该出勤率触发严重告警 (%)
	AtRiskThreshold   float64 `json:"at_risk_threshold"`   // 低于该历史出勤率视为风险员工 (%)
	TrendDelta        float64 `json:"trend_delta"`         // 趋势判定的均值差阈值（百分点）
	TrendWindow       int     `json:"trend_window"`        // 趋势判定的首尾窗口点数
}

// DefaultConfig 返回默认阈值
func DefaultConfig() Config {
	return Config{
		TargetRate:        85.0,
		AlertCriticalRate: 80.0,
		AtRiskThreshold:   50.0,
		TrendDelta:        2.0,
		TrendWindow:       3,
	}
}

// Engine 聚合分析引擎
type Engine struct {
	store *store.Store
	cfg   Config
}

// NewEngine 创建分析引擎
func NewEngine(s *store.Store, cfg Config) *Engine {
	if cfg.TrendWindow <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{store: s, cfg: cfg}
}

// round1 保留一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// mean 算术平均，空切片返回 0
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
