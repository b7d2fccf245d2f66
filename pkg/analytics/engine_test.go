package analytics

import (
	"github.com/kaoqin/kaoqin/pkg/model"
	"github.com/kaoqin/kaoqin/pkg/store"
)

// newTestEngine 构造带默认阈值的引擎与其底层存储
func newTestEngine() (*Engine, *store.Store) {
	s := store.New()
	return NewEngine(s, DefaultConfig()), s
}

// seedDirectory 写入测试目录：Alice 为区域经理，带三名下属
func seedDirectory(s *store.Store) {
	s.ApplyDirectoryBatch([]model.DirectoryRow{
		{Email: "alice@example.com", Name: "Alice Wang", Title: "Regional Manager", Department: "Sales", Office: "Shanghai"},
		{Email: "bob@example.com", Name: "Bob Li", Title: "Account Executive", Department: "Sales", Office: "Shanghai", Manager: "Alice Wang"},
		{Email: "carol@example.com", Name: "Carol Chen", Title: "Account Executive", Department: "Sales", Office: "Shanghai", Manager: "Alice Wang"},
		{Email: "dave@example.com", Name: "Dave Zhao", Title: "Analyst", Department: "Sales", Office: "Shanghai", Manager: "Alice Wang"},
	})
}

func day(date string, statuses map[string]model.Status) []model.AttendanceRow {
	rows := make([]model.AttendanceRow, 0, len(statuses))
	for email, status := range statuses {
		rows = append(rows, model.AttendanceRow{Date: date, Email: email, Status: status})
	}
	return rows
}
