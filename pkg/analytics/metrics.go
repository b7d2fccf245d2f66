package analytics

import (
	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/store"
)

// 数据来源标识
const (
	DataSourceReal   = "real"   // 由真实存储数据计算
	DataSourceSample = "sample" // 存储为空时的展示性回退值
)

// Metrics 当前快照指标
type Metrics struct {
	TotalEmployees     int     `json:"total_employees"`
	PresentCount       int     `json:"present_count"`
	PartialCount       int     `json:"partial_count"`
	AbsentCount        int     `json:"absent_count"`
	AttendanceRate     float64 `json:"attendance_rate"`
	TargetRate         float64 `json:"target_rate"`
	WeekOverWeekChange float64 `json:"week_over_week_change"`
	EngagementScore    float64 `json:"engagement_score"`
	LastUpdated        string  `json:"last_updated,omitempty"`
	DataSource         string  `json:"data_source"`
}

// CurrentMetrics 计算最近日期的整体指标
//
// 存储为空时返回展示性默认对象（data_source = sample），不是计算出的零值
func (e *Engine) CurrentMetrics() *Metrics {
	return e.currentMetrics(e.store.Snapshot())
}

func (e *Engine) currentMetrics(data *store.Data) *Metrics {
	dates := data.Dates()
	if len(dates) == 0 {
		return e.defaultMetrics()
	}

	recentDate := dates[len(dates)-1]
	total, present, partial, absent := resolvedCounts(data, recentDate)

	// 周环比：与次新日期比较，不足两个日期时为 0
	weekChange := 0.0
	if len(dates) >= 2 {
		prevTotal, prevPresent, _, _ := resolvedCounts(data, dates[len(dates)-2])
		weekChange = rate(present, total) - rate(prevPresent, prevTotal)
	}

	return &Metrics{
		TotalEmployees:     total,
		PresentCount:       present,
		PartialCount:       partial,
		AbsentCount:        absent,
		AttendanceRate:     round1(rate(present, total)),
		TargetRate:         e.cfg.TargetRate,
		WeekOverWeekChange: round1(weekChange),
		EngagementScore:    round1(resolvedEngagementMean(data, recentDate)),
		LastUpdated:        recentDate,
		DataSource:         DataSourceReal,
	}
}

// resolvedCounts 对某日期的全员源人口逐人经优先级解析后计数
// 人口取全员源，解析可改写状态但不改写人口，计数恒满足加和等于总数
func resolvedCounts(data *store.Data, date string) (total, present, partial, absent int) {
	facts := data.General[date]
	total = len(facts)
	for email := range facts {
		fact, _ := data.ResolveFact(date, email)
		switch fact.Status {
		case model.StatusPresent:
			present++
		case model.StatusPartial:
			partial++
		case model.StatusAbsent:
			absent++
		}
	}
	return total, present, partial, absent
}

// resolvedEngagementMean 经优先级解析后的参与度均值
func resolvedEngagementMean(data *store.Data, date string) float64 {
	var scores []float64
	for email := range data.General[date] {
		fact, _ := data.ResolveFact(date, email)
		if (fact.Status == model.StatusPresent || fact.Status == model.StatusPartial) &&
			fact.EngagementScore > 0 {
			scores = append(scores, fact.EngagementScore)
		}
	}
	return mean(scores)
}

// defaultMetrics 无数据时的回退指标
func (e *Engine) defaultMetrics() *Metrics {
	return &Metrics{
		TotalEmployees:     400,
		PresentCount:       340,
		PartialCount:       20,
		AbsentCount:        40,
		AttendanceRate:     85.0,
		TargetRate:         e.cfg.TargetRate,
		WeekOverWeekChange: 0.0,
		EngagementScore:    75.0,
		DataSource:         DataSourceSample,
	}
}

// rate 百分比，total 为 0 时返回 0 而不是除零
func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
