package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/store"
)

// 告警严重级别
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityLow      = "low"
)

// Alert 由当前数据派生的告警，按请求生成，从不持久化
type Alert struct {
	ID             string `json:"id"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
	Acknowledged   bool   `json:"acknowledged"`
	ActionRequired bool   `json:"action_required"`
}

// ActiveAlerts 根据当前指标派生告警列表
//
// 出勤率低于严重阈值触发 critical；存在风险员工触发 high；
// 存在全勤员工触发 low 级别的表彰提示。无数据时返回空列表。
func (e *Engine) ActiveAlerts() []Alert {
	return e.activeAlerts(e.store.Snapshot(), time.Now())
}

func (e *Engine) activeAlerts(data *store.Data, now time.Time) []Alert {
	alerts := []Alert{}
	if len(data.Dates()) == 0 {
		return alerts
	}

	ts := now.Format(time.RFC3339)
	metrics := e.currentMetrics(data)

	if metrics.AttendanceRate < e.cfg.AlertCriticalRate {
		alerts = append(alerts, Alert{
			ID:       uuid.New().String(),
			Severity: SeverityCritical,
			Title:    "Attendance Below Critical Threshold",
			Message: fmt.Sprintf("Current attendance rate is %.1f%%, below the %.0f%% critical threshold",
				metrics.AttendanceRate, e.cfg.AlertCriticalRate),
			Timestamp:      ts,
			Acknowledged:   false,
			ActionRequired: true,
		})
	}

	if atRisk := e.atRiskEmployees(data); len(atRisk) > 0 {
		alerts = append(alerts, Alert{
			ID:       uuid.New().String(),
			Severity: SeverityHigh,
			Title:    "Employees At Risk",
			Message: fmt.Sprintf("%d employee(s) have attendance below %.0f%% and need follow-up",
				len(atRisk), e.cfg.AtRiskThreshold),
			Timestamp:      ts,
			Acknowledged:   false,
			ActionRequired: true,
		})
	}

	if perfect := perfectAttendanceCount(data); perfect > 0 {
		alerts = append(alerts, Alert{
			ID:       uuid.New().String(),
			Severity: SeverityLow,
			Title:    "Perfect Attendance Recognition",
			Message: fmt.Sprintf("%d employee(s) have perfect attendance and deserve recognition",
				perfect),
			Timestamp:      ts,
			Acknowledged:   false,
			ActionRequired: false,
		})
	}

	return alerts
}

// perfectAttendanceCount 全部跟踪日期均出勤的员工数
func perfectAttendanceCount(data *store.Data) int {
	type counts struct {
		total   int
		present int
	}
	tally := make(map[string]*counts)
	for _, facts := range data.General {
		for email, fact := range facts {
			c, ok := tally[email]
			if !ok {
				c = &counts{}
				tally[email] = c
			}
			c.total++
			if fact.Status == model.StatusPresent {
				c.present++
			}
		}
	}

	count := 0
	for _, c := range tally {
		if c.total > 0 && c.present == c.total {
			count++
		}
	}
	return count
}
