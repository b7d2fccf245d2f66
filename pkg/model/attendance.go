// Package model 定义考勤引擎的核心数据模型
package model

// Status 出勤状态
type Status string

const (
	StatusPresent Status = "Present" // 出勤
	StatusPartial Status = "Partial" // 部分出勤
	StatusAbsent  Status = "Absent"  // 缺勤
)

// Valid 检查状态是否为已知取值
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusPartial, StatusAbsent:
		return true
	}
	return false
}

// Source 考勤数据来源
type Source string

const (
	SourceGeneral         Source = "general"          // 全员考勤源
	SourceRegionalManager Source = "regional_manager" // 区域经理专属考勤源
)

// AttendanceFact 单日单人考勤事实
// 以 (日期, 邮箱, 来源) 唯一标识；字段缺省值在摄取边界统一填充：
// DurationMinutes 缺省 0，Location 缺省 "Unknown"，EngagementScore 缺省 0。
type AttendanceFact struct {
	Name            string  `json:"name"`
	Status          Status  `json:"status"`
	DurationMinutes float64 `json:"duration_minutes"`
	Location        string  `json:"location"`
	// EngagementScore 参与度评分 (0-100)；0 表示未记录，
	// 聚合平均时跳过而不是按零参与计算
	EngagementScore float64 `json:"engagement_score"`
}

// AttendanceRow 摄取边界的规范化考勤行
// 由 normalizer 产出，date 已规范为 YYYY-MM-DD，email 已去除空白
type AttendanceRow struct {
	Date            string  `json:"date"`
	Email           string  `json:"email"`
	Status          Status  `json:"status"`
	DurationMinutes float64 `json:"duration_minutes"`
	EngagementScore float64 `json:"engagement_score"`
}

// DateFacts 某一日期的考勤映射 (邮箱 -> 事实)
// 邮箱不在映射中表示当日未跟踪，区别于 StatusAbsent
type DateFacts map[string]AttendanceFact
