package analytics

import (
	"sort"
	"strings"

	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/store"
)

// RiskEntry 风险员工条目
// 当历史出勤率低于阈值时生效；风险分 = 100 − 出勤率
type RiskEntry struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Location       string  `json:"location"`
	Role           string  `json:"role"`
	RiskScore      float64 `json:"risk_score"`
	FourWeekRate   float64 `json:"four_week_rate"`
	CurrentStreak  int     `json:"current_streak"`
	Trend          string  `json:"trend"`
	LastAttendance string  `json:"last_attendance"`
}

// AtRiskEmployees 识别历史出勤率低于阈值的员工
//
// 遍历全员源中出现过的每个邮箱，跨全部日期累计计数；
// 从未被跟踪（总天数为 0）的员工不会出现在结果中。
// 结果按风险分降序排列。
func (e *Engine) AtRiskEmployees() []RiskEntry {
	return e.atRiskEmployees(e.store.Snapshot())
}

func (e *Engine) atRiskEmployees(data *store.Data) []RiskEntry {
	type counts struct {
		total   int
		present int
		absent  int
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
			switch fact.Status {
			case model.StatusPresent:
				c.present++
			case model.StatusAbsent:
				c.absent++
			}
		}
	}

	dates := data.Dates()

	var entries []RiskEntry
	for email, c := range tally {
		if c.total == 0 {
			continue
		}
		presentRate := rate(c.present, c.total)
		if presentRate >= e.cfg.AtRiskThreshold {
			continue
		}

		name, location, role := email, "Unknown", "Unknown"
		if emp, ok := data.ByEmail[email]; ok {
			if emp.Name != "" {
				name = emp.Name
			}
			if emp.Office != "" {
				location = emp.Office
			}
			if emp.Title != "" {
				role = emp.Title
			}
		}

		entries = append(entries, RiskEntry{
			ID:             riskID(email),
			Name:           name,
			Email:          email,
			Location:       location,
			Role:           role,
			RiskScore:      round1(100 - presentRate),
			FourWeekRate:   round1(presentRate),
			CurrentStreak:  c.absent,
			Trend:          "declining",
			LastAttendance: lastPresentDate(data, dates, email),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].RiskScore != entries[j].RiskScore {
			return entries[i].RiskScore > entries[j].RiskScore
		}
		return entries[i].Email < entries[j].Email
	})
	return entries
}

// lastPresentDate 从最近日期向前扫描，返回最后一次出勤日期，无则 "Never"
func lastPresentDate(data *store.Data, dates []string, email string) string {
	for i := len(dates) - 1; i >= 0; i-- {
		if fact, ok := data.General[dates[i]][email]; ok && fact.Status == model.StatusPresent {
			return dates[i]
		}
	}
	return "Never"
}

// riskID 由邮箱生成稳定的条目标识
func riskID(email string) string {
	replacer := strings.NewReplacer("@", "_", ".", "_")
	return replacer.Replace(email)
}
