package analytics

import (
	"github.com/kaoqin/kaoqin/pkg/store"
)

// 趋势分类
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// HistoryPoint 单个日期的出勤汇总点
type HistoryPoint struct {
	Date           string  `json:"date"`
	AttendanceRate float64 `json:"attendance_rate"`
	PresentCount   int     `json:"present_count"`
	TotalCount     int     `json:"total_count"`
}

// History 历史趋势序列
type History struct {
	Data        []HistoryPoint `json:"data"`
	Weeks       int            `json:"weeks"`
	AverageRate float64        `json:"average_rate"`
	Trend       string         `json:"trend"`
}

// AttendanceHistory 构造按日期升序的历史序列
//
// weeks 只回显给调用方，序列始终覆盖存储中的全部日期。
// 趋势比较末尾窗口与起始窗口的均值，差值超过 ±TrendDelta 才偏离 stable。
func (e *Engine) AttendanceHistory(weeks int) *History {
	return e.attendanceHistory(e.store.Snapshot(), weeks)
}

func (e *Engine) attendanceHistory(data *store.Data, weeks int) *History {
	dates := data.Dates()
	if len(dates) == 0 {
		return &History{
			Data:        []HistoryPoint{},
			Weeks:       weeks,
			AverageRate: 85.0,
			Trend:       TrendStable,
		}
	}

	points := make([]HistoryPoint, 0, len(dates))
	rates := make([]float64, 0, len(dates))
	for _, date := range dates {
		// 与当前指标走同一条解析路径，同一日期在两个查询中出勤率一致
		total, present, _, _ := resolvedCounts(data, date)
		r := rate(present, total)
		points = append(points, HistoryPoint{
			Date:           date,
			AttendanceRate: round1(r),
			PresentCount:   present,
			TotalCount:     total,
		})
		rates = append(rates, r)
	}

	return &History{
		Data:        points,
		Weeks:       weeks,
		AverageRate: round1(mean(rates)),
		Trend:       e.classifyTrend(rates),
	}
}

// classifyTrend 末尾窗口均值与起始窗口均值比较
// 点数不足窗口大小时退化为末点与首点比较；少于两点视为 stable
func (e *Engine) classifyTrend(rates []float64) string {
	if len(rates) < 2 {
		return TrendStable
	}

	window := e.cfg.TrendWindow
	var recent, early float64
	if len(rates) >= window {
		recent = mean(rates[len(rates)-window:])
		early = mean(rates[:window])
	} else {
		recent = rates[len(rates)-1]
		early = rates[0]
	}

	switch {
	case recent > early+e.cfg.TrendDelta:
		return TrendImproving
	case recent < early-e.cfg.TrendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}
