package normalizer

import (
	"strconv"
	"strings"

	"github.com/kaoqin/kaoqin/pkg/errors"
	"github.com/kaoqin/kaoqin/pkg/model"
)

// AttendanceRows 将规范化表格转换为考勤行
//
// 必需列: date, employee（邮箱）, status；duration 可选，缺省 0。
// 日期或邮箱无效的行跳过并计数，不中断整批摄取。
func AttendanceRows(t *Table) ([]model.AttendanceRow, int, error) {
	dateIdx := t.Column("date")
	employeeIdx := t.Column("employee", "email")
	statusIdx := t.Column("status")

	var missing []string
	if dateIdx < 0 {
		missing = append(missing, "date")
	}
	if employeeIdx < 0 {
		missing = append(missing, "employee")
	}
	if statusIdx < 0 {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, 0, errors.FormatInvalid("考勤文件缺少必需列", missing)
	}

	durationIdx := t.Column("duration", "duration_minutes")
	engagementIdx := t.Column("engagement_score", "engagement")

	var rows []model.AttendanceRow
	skipped := 0
	for _, raw := range t.Rows {
		date, ok := NormalizeDate(t.Cell(raw, dateIdx))
		if !ok {
			skipped++
			continue
		}
		email := strings.TrimSpace(t.Cell(raw, employeeIdx))
		if email == "" || !strings.Contains(email, "@") {
			skipped++
			continue
		}
		status, ok := normalizeStatus(t.Cell(raw, statusIdx))
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, model.AttendanceRow{
			Date:            date,
			Email:           email,
			Status:          status,
			DurationMinutes: parseFloat(t.Cell(raw, durationIdx)),
			EngagementScore: parseFloat(t.Cell(raw, engagementIdx)),
		})
	}
	return rows, skipped, nil
}

// DirectoryRows 将规范化表格转换为员工目录行
//
// 必需列: name, title/position, department, office；manager 可选。
// 邮箱无效的行跳过并计数。
func DirectoryRows(t *Table) ([]model.DirectoryRow, int, error) {
	nameIdx := t.Column("name")
	titleIdx := t.Column("title", "position")
	departmentIdx := t.Column("department")
	officeIdx := t.Column("office")

	var missing []string
	if nameIdx < 0 {
		missing = append(missing, "name")
	}
	if titleIdx < 0 {
		missing = append(missing, "title/position")
	}
	if departmentIdx < 0 {
		missing = append(missing, "department")
	}
	if officeIdx < 0 {
		missing = append(missing, "office")
	}
	if len(missing) > 0 {
		return nil, 0, errors.FormatInvalid("目录文件缺少必需列", missing)
	}

	emailIdx := t.Column("email")
	managerIdx := t.Column("manager")

	var rows []model.DirectoryRow
	skipped := 0
	for _, raw := range t.Rows {
		email := strings.TrimSpace(t.Cell(raw, emailIdx))
		if email == "" || !strings.Contains(email, "@") {
			skipped++
			continue
		}
		rows = append(rows, model.DirectoryRow{
			Email:      email,
			Name:       unquote(t.Cell(raw, nameIdx)),
			Title:      unquote(t.Cell(raw, titleIdx)),
			Department: unquote(t.Cell(raw, departmentIdx)),
			Office:     unquote(t.Cell(raw, officeIdx)),
			Manager:    unquote(t.Cell(raw, managerIdx)),
		})
	}
	return rows, skipped, nil
}

// normalizeStatus 大小写不敏感地归一出勤状态
func normalizeStatus(value string) (model.Status, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "present":
		return model.StatusPresent, true
	case "partial":
		return model.StatusPartial, true
	case "absent":
		return model.StatusAbsent, true
	}
	return "", false
}

// parseFloat 解析数值单元格，无效时取 0
func parseFloat(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// unquote 去除目录单元格中残留的引号
func unquote(value string) string {
	return strings.Trim(value, `"`)
}
