package store

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kaoqin/kaoqin/pkg/errors"
)

// SnapshotPaths 快照文件布局
// 全员考勤与区域经理考勤各一个结构化文件，员工目录一个表格文件
type SnapshotPaths struct {
	Dir           string
	GeneralFile   string
	RegionalFile  string
	DirectoryFile string
}

// General 返回全员考勤快照的完整路径
func (p SnapshotPaths) General() string { return filepath.Join(p.Dir, p.GeneralFile) }

// Regional 返回区域经理考勤快照的完整路径
func (p SnapshotPaths) Regional() string { return filepath.Join(p.Dir, p.RegionalFile) }

// Directory 返回员工目录快照的完整路径
func (p SnapshotPaths) Directory() string { return filepath.Join(p.Dir, p.DirectoryFile) }

// WriteSnapshot 将存储状态持久化为规范化快照
//
// 每个目标文件覆盖前先写 .backup 副本。失败只上报一次，不做重试。
func (s *Store) WriteSnapshot(paths SnapshotPaths) error {
	data := s.Snapshot()

	if err := os.MkdirAll(paths.Dir, 0755); err != nil {
		return errors.SnapshotFailed(paths.Dir, err)
	}

	generalJSON, err := json.MarshalIndent(data.General, "", "  ")
	if err != nil {
		return errors.SnapshotFailed(paths.General(), err)
	}
	if err := writeWithBackup(paths.General(), generalJSON); err != nil {
		return err
	}

	regionalJSON, err := json.MarshalIndent(data.Regional, "", "  ")
	if err != nil {
		return errors.SnapshotFailed(paths.Regional(), err)
	}
	if err := writeWithBackup(paths.Regional(), regionalJSON); err != nil {
		return err
	}

	return writeWithBackup(paths.Directory(), directoryCSV(data))
}

// writeWithBackup 覆盖前保留上一版本的 .backup 副本
func writeWithBackup(path string, content []byte) error {
	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".backup", prev, 0644); err != nil {
			return errors.SnapshotFailed(path+".backup", err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.SnapshotFailed(path, err)
	}
	return nil
}

// directoryCSV 将员工目录编码为表格快照
func directoryCSV(data *Data) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"name", "title", "department", "office", "manager", "email"})
	for _, emp := range data.Employees {
		_ = w.Write([]string{emp.Name, emp.Title, emp.Department, emp.Office, emp.Manager, emp.Email})
	}
	w.Flush()
	return buf.Bytes()
}
