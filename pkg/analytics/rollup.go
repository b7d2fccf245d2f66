package analytics

import (
	"sort"

	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/store"
)

// ManagerRollup 经理/团队层级汇总，按请求派生，从不持久化
type ManagerRollup struct {
	ManagerName               string  `json:"manager_name"`
	ManagerTitle              string  `json:"manager_title"`
	ManagerType               string  `json:"manager_type"`
	ManagerEmail              string  `json:"manager_email"`
	ManagerOffice             string  `json:"manager_office"`
	ManagerPersonalAttendance float64 `json:"manager_personal_attendance"`
	ManagerCurrentStatus      string  `json:"manager_current_status"`
	ManagerCurrentAttendance  int     `json:"manager_current_attendance"`
	TeamSize                  int     `json:"team_size"`
	TeamAttendanceRate        float64 `json:"team_attendance_rate"`
	TeamPresentCount          int     `json:"team_present_count"`
	TeamEngagementScore       float64 `json:"team_engagement_score"`
	TeamFourWeekRate          float64 `json:"team_four_week_rate"`
	TeamAtRiskCount           int     `json:"team_at_risk_count"`
	RegionName                string  `json:"region_name"`
	TotalEmployees            int     `json:"total_employees"`
	PresentCount              int     `json:"present_count"`
	AttendanceRate            float64 `json:"attendance_rate"`
	RiskScore                 float64 `json:"risk_score"`
	AtRiskCount               int     `json:"at_risk_count"`
	Trend                     string  `json:"trend"`
}

// RegionalBreakdown 计算区域/大区经理的团队汇总
//
// 先区域经理后大区经理，各自保持目录摄取顺序；
// 结果按综合出勤率升序排列（最低在前，便于优先关注），相同时保持发现顺序。
func (e *Engine) RegionalBreakdown() []ManagerRollup {
	data := e.store.Snapshot()

	dates := data.Dates()
	recentDate := ""
	if len(dates) > 0 {
		recentDate = dates[len(dates)-1]
	}

	var rollups []ManagerRollup
	for _, emp := range data.Employees {
		if emp.IsRegionalManager() {
			rollups = append(rollups, e.managerRollup(data, emp, model.TitleRegionalManager, recentDate))
		}
	}
	for _, emp := range data.Employees {
		if !emp.IsRegionalManager() && emp.IsAreaManager() {
			rollups = append(rollups, e.managerRollup(data, emp, model.TitleAreaManager, recentDate))
		}
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].AttendanceRate < rollups[j].AttendanceRate
	})
	return rollups
}

// managerRollup 构造单个经理的汇总
func (e *Engine) managerRollup(data *store.Data, mgr model.Employee, managerType, recentDate string) ManagerRollup {
	personal := e.personalAttendance(data, mgr.Email)
	team := e.teamMembers(data, mgr)
	teamStats := e.teamPerformance(data, team, recentDate)

	// 经理当日出勤指示值，经优先级解析后取状态
	currentStatus := string(model.StatusAbsent)
	currentIndicator := 0
	if recentDate != "" {
		if fact, ok := data.ResolveFact(recentDate, mgr.Email); ok {
			currentStatus = string(fact.Status)
			if fact.Status == model.StatusPresent {
				currentIndicator = 1
			}
		}
	}

	// 综合出勤率 = (团队出勤 + 经理当日指示值) / (团队人数 + 1)
	// 无团队成员时退化为经理单日指示值
	combined := float64(currentIndicator) * 100
	if len(team) > 0 {
		combined = float64(teamStats.presentCount+currentIndicator) / float64(len(team)+1) * 100
	}

	return ManagerRollup{
		ManagerName:               mgr.Name,
		ManagerTitle:              mgr.Title,
		ManagerType:               managerType,
		ManagerEmail:              mgr.Email,
		ManagerOffice:             mgr.Office,
		ManagerPersonalAttendance: round1(personal),
		ManagerCurrentStatus:      currentStatus,
		ManagerCurrentAttendance:  currentIndicator,
		TeamSize:                  len(team),
		TeamAttendanceRate:        round1(teamStats.attendanceRate),
		TeamPresentCount:          teamStats.presentCount,
		TeamEngagementScore:       round1(teamStats.engagementScore),
		TeamFourWeekRate:          round1(teamStats.attendanceRate),
		TeamAtRiskCount:           teamStats.atRiskCount,
		RegionName:                mgr.Office,
		TotalEmployees:            len(team) + 1,
		PresentCount:              teamStats.presentCount + currentIndicator,
		AttendanceRate:            round1(combined),
		RiskScore:                 round1(100 - teamStats.attendanceRate),
		AtRiskCount:               teamStats.atRiskCount,
		Trend:                     "stable",
	}
}

// personalAttendance 经理个人历史出勤率
// 事实按 (日期, 邮箱) 解析一次后计数，区域经理源优先于全员源
func (e *Engine) personalAttendance(data *store.Data, email string) float64 {
	total := 0
	present := 0
	for _, date := range data.TrackedDates(email) {
		fact, ok := data.ResolveFact(date, email)
		if !ok {
			continue
		}
		total++
		if fact.Status == model.StatusPresent {
			present++
		}
	}
	return rate(present, total)
}

// teamMembers 目录中归属该经理的员工（不含经理本人）
// 优先按摄取时解析出的经理邮箱关联；未解析的条目退回显示名匹配
func (e *Engine) teamMembers(data *store.Data, mgr model.Employee) []model.Employee {
	var team []model.Employee
	for _, emp := range data.Employees {
		if emp.Email == mgr.Email {
			continue
		}
		if emp.ManagerEmail == mgr.Email {
			team = append(team, emp)
			continue
		}
		if emp.ManagerEmail == "" && emp.Manager != "" && emp.Manager == mgr.Name {
			team = append(team, emp)
		}
	}
	return team
}

type teamStats struct {
	attendanceRate  float64
	presentCount    int
	engagementScore float64
	atRiskCount     int
}

// teamPerformance 团队在最近日期的表现与历史风险人数
func (e *Engine) teamPerformance(data *store.Data, team []model.Employee, recentDate string) teamStats {
	if len(team) == 0 {
		return teamStats{}
	}

	presentCount := 0
	var engagement []float64
	atRiskCount := 0

	for _, member := range team {
		if recentDate != "" {
			if fact, ok := data.ResolveFact(recentDate, member.Email); ok {
				if fact.Status == model.StatusPresent {
					presentCount++
				}
				if fact.EngagementScore > 0 &&
					(fact.Status == model.StatusPresent || fact.Status == model.StatusPartial) {
					engagement = append(engagement, fact.EngagementScore)
				}
			}
		}

		// 历史出勤率低于阈值计为风险成员；无任何跟踪记录不计
		tracked := data.TrackedDates(member.Email)
		if len(tracked) == 0 {
			continue
		}
		memberPresent := 0
		for _, date := range tracked {
			if fact, ok := data.ResolveFact(date, member.Email); ok && fact.Status == model.StatusPresent {
				memberPresent++
			}
		}
		if rate(memberPresent, len(tracked)) < e.cfg.AtRiskThreshold {
			atRiskCount++
		}
	}

	return teamStats{
		attendanceRate:  rate(presentCount, len(team)),
		presentCount:    presentCount,
		engagementScore: mean(engagement),
		atRiskCount:     atRiskCount,
	}
}
