// Package store 提供考勤引擎的内存记录存储
//
// 单写多读模型：摄取操作持写锁互斥执行，聚合查询在只读快照上并发执行。
// 本设计假设单进程独占存储，多实例部署需要外部协调层（超出范围）。
package store

import (
	"sort"
	"sync"

	"github.com/kaoqin/kaoqin/pkg/logger"
	"github.com/kaoqin/kaoqin/pkg/model"
)

// Store 考勤与员工目录存储
type Store struct {
	mu sync.RWMutex

	// 员工目录，按邮箱键控；directoryOrder 保留摄取顺序用于稳定排序
	directory      map[string]model.Employee
	directoryOrder []string

	// 两个平行的考勤源: date -> email -> fact
	general  map[string]model.DateFacts
	regional map[string]model.DateFacts
}

// New 创建空存储
func New() *Store {
	return &Store{
		directory: make(map[string]model.Employee),
		general:   make(map[string]model.DateFacts),
		regional:  make(map[string]model.DateFacts),
	}
}

// ApplyDirectoryBatch 合并目录行，按邮箱整条覆盖，返回更新的员工数
//
// 批次合并后重新解析经理引用：目录中的 manager 字段是显示名，
// 在这里一次性解析为经理邮箱，查询时不再做字符串匹配。
func (s *Store) ApplyDirectoryBatch(rows []model.DirectoryRow) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, row := range rows {
		if _, exists := s.directory[row.Email]; !exists {
			s.directoryOrder = append(s.directoryOrder, row.Email)
		}
		s.directory[row.Email] = model.Employee{
			Email:      row.Email,
			Name:       row.Name,
			Title:      row.Title,
			Department: row.Department,
			Office:     row.Office,
			Manager:    row.Manager,
		}
		updated++
	}
	s.resolveManagersLocked()
	return updated
}

// resolveManagersLocked 将 manager 显示名解析为经理邮箱
// 重名时按目录摄取顺序第一个命中者生效，并记录告警使冲突可观测
func (s *Store) resolveManagersLocked() {
	byName := make(map[string]string, len(s.directory))
	for _, email := range s.directoryOrder {
		emp := s.directory[email]
		if emp.Name == "" {
			continue
		}
		if prev, exists := byName[emp.Name]; exists {
			logger.Warn().
				Str("name", emp.Name).
				Str("kept", prev).
				Str("ignored", email).
				Msg("目录中存在重名员工，经理解析保留先摄取者")
			continue
		}
		byName[emp.Name] = email
	}

	for email, emp := range s.directory {
		if emp.Manager == "" {
			continue
		}
		if managerEmail, ok := byName[emp.Manager]; ok && managerEmail != email {
			emp.ManagerEmail = managerEmail
			s.directory[email] = emp
		}
	}
}

// ApplyAttendanceBatch 将考勤行合并到全员源，返回涉及的日期数
//
// 同键 (日期, 邮箱) 后写覆盖，重复摄取同一批次得到相同终态。
// 显示名与地点从目录补齐，目录缺失时退回原始邮箱与 "Unknown"。
func (s *Store) ApplyAttendanceBatch(rows []model.AttendanceRow) int {
	return s.applyBatch(rows, model.SourceGeneral)
}

// ApplyRegionalManagerBatch 将考勤行合并到区域经理源
func (s *Store) ApplyRegionalManagerBatch(rows []model.AttendanceRow) int {
	return s.applyBatch(rows, model.SourceRegionalManager)
}

func (s *Store) applyBatch(rows []model.AttendanceRow, source model.Source) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.general
	if source == model.SourceRegionalManager {
		target = s.regional
	}

	dates := make(map[string]struct{})
	for _, row := range rows {
		facts, ok := target[row.Date]
		if !ok {
			facts = make(model.DateFacts)
			target[row.Date] = facts
		}

		name := row.Email
		location := "Unknown"
		if emp, ok := s.directory[row.Email]; ok {
			if emp.Name != "" {
				name = emp.Name
			}
			if emp.Office != "" {
				location = emp.Office
			}
		}

		facts[row.Email] = model.AttendanceFact{
			Name:            name,
			Status:          row.Status,
			DurationMinutes: row.DurationMinutes,
			Location:        location,
			EngagementScore: row.EngagementScore,
		}
		dates[row.Date] = struct{}{}
	}
	return len(dates)
}

// MergeStructured 合并日期键控的结构化数据（JSON 摄取路径），按日期整条覆盖
func (s *Store) MergeStructured(data map[string]model.DateFacts, source model.Source) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.general
	if source == model.SourceRegionalManager {
		target = s.regional
	}

	for date, facts := range data {
		merged := make(model.DateFacts, len(facts))
		for email, fact := range facts {
			// 缺省值在摄取边界一次性填充
			if fact.Name == "" {
				if emp, ok := s.directory[email]; ok && emp.Name != "" {
					fact.Name = emp.Name
				} else {
					fact.Name = email
				}
			}
			if fact.Location == "" {
				fact.Location = "Unknown"
			}
			merged[email] = fact
		}
		target[date] = merged
	}
	return len(data)
}

// Reset 清空存储（refresh 重载前使用）
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory = make(map[string]model.Employee)
	s.directoryOrder = nil
	s.general = make(map[string]model.DateFacts)
	s.regional = make(map[string]model.DateFacts)
}

// DateCount 返回全员源中的日期数
func (s *Store) DateCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.general)
}

// Data 存储的只读快照，聚合查询的纯输入
type Data struct {
	General  map[string]model.DateFacts
	Regional map[string]model.DateFacts
	// Employees 按目录摄取顺序排列
	Employees []model.Employee
	ByEmail   map[string]model.Employee
}

// Snapshot 深拷贝当前存储状态
// 拷贝在读锁内完成，之后的聚合计算不与摄取互斥
func (s *Store) Snapshot() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := &Data{
		General:   copyFacts(s.general),
		Regional:  copyFacts(s.regional),
		Employees: make([]model.Employee, 0, len(s.directoryOrder)),
		ByEmail:   make(map[string]model.Employee, len(s.directory)),
	}
	for _, email := range s.directoryOrder {
		emp := s.directory[email]
		data.Employees = append(data.Employees, emp)
		data.ByEmail[email] = emp
	}
	return data
}

func copyFacts(src map[string]model.DateFacts) map[string]model.DateFacts {
	dst := make(map[string]model.DateFacts, len(src))
	for date, facts := range src {
		inner := make(model.DateFacts, len(facts))
		for email, fact := range facts {
			inner[email] = fact
		}
		dst[date] = inner
	}
	return dst
}

// Dates 返回全员源中升序排列的日期列表
// 日期是规范的 YYYY-MM-DD 字符串，字典序即时间序
func (d *Data) Dates() []string {
	dates := make([]string, 0, len(d.General))
	for date := range d.General {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// ResolveFact 解析某 (日期, 邮箱) 的生效考勤事实
//
// 区域经理优先取区域经理源，回退全员源；其他员工以全员源为准。
// 解析只在这里做一次，聚合计数器永远只见到已解析的事实。
func (d *Data) ResolveFact(date, email string) (model.AttendanceFact, bool) {
	if emp, ok := d.ByEmail[email]; ok && emp.IsRegionalManager() {
		if facts, ok := d.Regional[date]; ok {
			if fact, ok := facts[email]; ok {
				return fact, true
			}
		}
	}
	if facts, ok := d.General[date]; ok {
		if fact, ok := facts[email]; ok {
			return fact, true
		}
	}
	return model.AttendanceFact{}, false
}

// TrackedDates 返回某员工经优先级解析后有事实的日期集合（升序）
func (d *Data) TrackedDates(email string) []string {
	seen := make(map[string]struct{})
	for date, facts := range d.General {
		if _, ok := facts[email]; ok {
			seen[date] = struct{}{}
		}
	}
	if emp, ok := d.ByEmail[email]; ok && emp.IsRegionalManager() {
		for date, facts := range d.Regional {
			if _, ok := facts[email]; ok {
				seen[date] = struct{}{}
			}
		}
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
