package analytics

import (
	"fmt"
	"sort"

	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/store"
)

// AttendeeDetail 某日期单个员工的明细行
type AttendeeDetail struct {
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	Title           string  `json:"title"`
	Department      string  `json:"department"`
	Office          string  `json:"office"`
	Status          string  `json:"status"`
	JoinTime        string  `json:"join_time"`
	LeaveTime       string  `json:"leave_time"`
	Duration        string  `json:"duration"`
	EngagementScore float64 `json:"engagement_score"`
	Location        string  `json:"location"`
}

// DaySummary 某日期的状态分布汇总
type DaySummary struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Partial        int     `json:"partial"`
	Absent         int     `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// DayDetail 某日期的完整明细
type DayDetail struct {
	Date      string           `json:"date"`
	Summary   DaySummary       `json:"summary"`
	Attendees []AttendeeDetail `json:"attendees"`
}

// 明细行的状态排序权重，出勤在前便于查看
var statusOrder = map[model.Status]int{
	model.StatusPresent: 0,
	model.StatusPartial: 1,
	model.StatusAbsent:  2,
}

// DetailedAttendance 构造某日期的逐员工明细
//
// 人口取自该日期的全员源记录，逐邮箱经优先级解析后取最终事实，
// 因此 present+partial+absent 恒等于 total。
// 未知日期或空存储返回空明细对象而不是错误。
func (e *Engine) DetailedAttendance(date string) *DayDetail {
	return e.detailedAttendance(e.store.Snapshot(), date)
}

func (e *Engine) detailedAttendance(data *store.Data, date string) *DayDetail {
	facts, ok := data.General[date]
	if !ok || len(facts) == 0 {
		return &DayDetail{
			Date:      date,
			Summary:   DaySummary{},
			Attendees: []AttendeeDetail{},
		}
	}

	attendees := make([]AttendeeDetail, 0, len(facts))
	present, partial, absent := 0, 0, 0
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

		name := fact.Name
		title, department, office := "Unknown", "Unknown", "Unknown"
		if emp, found := data.ByEmail[email]; found {
			if name == "" {
				name = emp.Name
			}
			if emp.Title != "" {
				title = emp.Title
			}
			if emp.Department != "" {
				department = emp.Department
			}
			if emp.Office != "" {
				office = emp.Office
			}
		}
		if name == "" {
			name = email
		}

		attendees = append(attendees, AttendeeDetail{
			Email:           email,
			Name:            name,
			Title:           title,
			Department:      department,
			Office:          office,
			Status:          string(fact.Status),
			JoinTime:        "N/A",
			LeaveTime:       "N/A",
			Duration:        formatDuration(fact.DurationMinutes),
			EngagementScore: fact.EngagementScore,
			Location:        fact.Location,
		})
	}

	sort.SliceStable(attendees, func(i, j int) bool {
		oi := statusOrder[model.Status(attendees[i].Status)]
		oj := statusOrder[model.Status(attendees[j].Status)]
		if oi != oj {
			return oi < oj
		}
		return attendees[i].Email < attendees[j].Email
	})

	total := len(facts)
	return &DayDetail{
		Date: date,
		Summary: DaySummary{
			Total:          total,
			Present:        present,
			Partial:        partial,
			Absent:         absent,
			AttendanceRate: round1(rate(present, total)),
		},
		Attendees: attendees,
	}
}

// AvailableDates 全员源中出现过的日期，升序
func (e *Engine) AvailableDates() []string {
	return e.store.Snapshot().Dates()
}

// formatDuration 将分钟数格式化为 "XhYm" / "Ym" / "0m"
func formatDuration(durationMinutes float64) string {
	minutes := int(durationMinutes)
	if minutes <= 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
