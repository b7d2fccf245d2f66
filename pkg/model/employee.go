// Package model 定义考勤引擎的核心数据模型
package model

import "strings"

// 经理头衔匹配关键字
const (
	TitleRegionalManager = "Regional Manager"
	TitleAreaManager     = "Area Manager"
)

// Employee 员工目录条目，以邮箱为唯一键
// 目录重新摄取时按邮箱整条覆盖，从不删除
type Employee struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Office     string `json:"office"`
	// Manager 上级经理的显示名（目录文件中的原始引用，非外键）
	Manager string `json:"manager"`
	// ManagerEmail 目录摄取时按显示名解析出的经理邮箱
	// 解析不到时为空，团队归属退回按显示名匹配
	ManagerEmail string `json:"manager_email,omitempty"`
}

// IsRegionalManager 检查是否持有区域经理头衔
func (e *Employee) IsRegionalManager() bool {
	return strings.Contains(e.Title, TitleRegionalManager)
}

// IsAreaManager 检查是否持有大区经理头衔
func (e *Employee) IsAreaManager() bool {
	return strings.Contains(e.Title, TitleAreaManager)
}

// DirectoryRow 摄取边界的规范化目录行
type DirectoryRow struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Office     string `json:"office"`
	Manager    string `json:"manager"`
}
