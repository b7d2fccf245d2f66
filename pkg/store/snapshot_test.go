package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaoqin/kaoqin/pkg/model"
)

func testPaths(t *testing.T) SnapshotPaths {
	t.Helper()
	return SnapshotPaths{
		Dir:           t.TempDir(),
		GeneralFile:   "attendance_history.json",
		RegionalFile:  "rm_attendance_history.json",
		DirectoryFile: "directory.csv",
	}
}

func TestWriteSnapshot_CreatesAllFiles(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent, DurationMinutes: 480},
	})
	s.ApplyRegionalManagerBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "alice@example.com", Status: model.StatusPresent},
	})

	paths := testPaths(t)
	if err := s.WriteSnapshot(paths); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	for _, p := range []string{paths.General(), paths.Regional(), paths.Directory()} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Expected snapshot file %s: %v", p, err)
		}
	}

	// 结构化快照应能原样解析回日期键控映射
	raw, err := os.ReadFile(paths.General())
	if err != nil {
		t.Fatalf("Read general snapshot: %v", err)
	}
	var decoded map[string]model.DateFacts
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("General snapshot is not valid JSON: %v", err)
	}
	if decoded["2026-08-03"]["bob@example.com"].Status != model.StatusPresent {
		t.Error("General snapshot lost bob's fact")
	}
}

func TestWriteSnapshot_BackupKeepsPreviousVersion(t *testing.T) {
	s := New()
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent},
	})

	paths := testPaths(t)
	if err := s.WriteSnapshot(paths); err != nil {
		t.Fatalf("First WriteSnapshot failed: %v", err)
	}
	firstVersion, err := os.ReadFile(paths.General())
	if err != nil {
		t.Fatalf("Read first version: %v", err)
	}

	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-10", Email: "bob@example.com", Status: model.StatusAbsent},
	})
	if err := s.WriteSnapshot(paths); err != nil {
		t.Fatalf("Second WriteSnapshot failed: %v", err)
	}

	backup, err := os.ReadFile(paths.General() + ".backup")
	if err != nil {
		t.Fatalf("Expected .backup file: %v", err)
	}
	if string(backup) != string(firstVersion) {
		t.Error("Backup should hold the previous snapshot version")
	}
}

func TestWriteSnapshot_DirectoryCSVHeader(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())

	paths := testPaths(t)
	if err := s.WriteSnapshot(paths); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	raw, err := os.ReadFile(paths.Directory())
	if err != nil {
		t.Fatalf("Read directory snapshot: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "name,title,department,office,manager,email" {
		t.Errorf("Unexpected CSV header: %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("Expected header + 3 rows, got %d lines", len(lines))
	}
}

func TestWriteSnapshot_CreatesDir(t *testing.T) {
	s := New()
	paths := testPaths(t)
	paths.Dir = filepath.Join(paths.Dir, "nested", "data")

	if err := s.WriteSnapshot(paths); err != nil {
		t.Fatalf("WriteSnapshot should create missing directories: %v", err)
	}
}
