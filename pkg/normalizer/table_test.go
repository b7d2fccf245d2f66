package normalizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kaoqin/kaoqin/pkg/errors"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

func TestReadTable_UTF8Comma(t *testing.T) {
	path := writeFile(t, "attendance.csv", []byte("Date,Employee,Status\n2026-08-03,bob@example.com,Present\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if table.Column("date") != 0 || table.Column("employee") != 1 || table.Column("status") != 2 {
		t.Errorf("Headers not normalized: %v", table.Headers)
	}
	if len(table.Rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(table.Rows))
	}
}

func TestReadTable_SemicolonAndTab(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"semicolon", "date;employee;status\n2026-08-03;bob@example.com;Present\n"},
		{"tab", "date\temployee\tstatus\n2026-08-03\tbob@example.com\tPresent\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "attendance.csv", []byte(tc.content))
			table, err := ReadTable(path)
			if err != nil {
				t.Fatalf("ReadTable failed: %v", err)
			}
			if len(table.Headers) != 3 {
				t.Errorf("Expected 3 columns, got %v", table.Headers)
			}
		})
	}
}

func TestReadTable_Latin1(t *testing.T) {
	// "José" 的 é 在 Latin-1 中是 0xE9，不是合法 UTF-8
	content := append([]byte("name,email\nJos"), 0xE9)
	content = append(content, []byte(",jose@example.com\n")...)
	path := writeFile(t, "directory.csv", content)

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if got := table.Cell(table.Rows[0], 0); got != "José" {
		t.Errorf("Expected Latin-1 decoded name José, got %q", got)
	}
}

func TestReadTable_Windows1252Semicolon(t *testing.T) {
	// 0x92 是 Windows-1252 的智能引号，落在 Latin-1 的 C1 拒绝区
	content := append([]byte("date;employee;status\n2026-08-03;bob"), 0x92)
	content = append(content, []byte("s@example.com;Present\n")...)
	path := writeFile(t, "attendance.csv", content)

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if got := table.Cell(table.Rows[0], 1); got != "bob’s@example.com" {
		t.Errorf("Expected Windows-1252 decoded cell, got %q", got)
	}
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "attendance.pdf", []byte("whatever"))

	_, err := ReadTable(path)
	if !errors.Is(err, errors.CodeUnsupportedFileType) {
		t.Errorf("Expected UNSUPPORTED_FILE_TYPE, got %v", err)
	}
}

func TestReadTable_ParseFailed(t *testing.T) {
	// 单列内容在所有编码/分隔符组合下都不可接受
	path := writeFile(t, "attendance.csv", []byte("justoneheader\nvalue\n"))

	_, err := ReadTable(path)
	if !errors.Is(err, errors.CodeParseFailed) {
		t.Errorf("Expected PARSE_FAILED, got %v", err)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2026-08-03", "2026-08-03", true},
		{"08/03/2026", "2026-08-03", true},
		{" 2026-08-03 ", "2026-08-03", true},
		{"03-08-2026", "", false},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeDate(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q,%v; want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTableCell_OutOfRange(t *testing.T) {
	table := &Table{Headers: []string{"a"}, Rows: [][]string{{"x"}}}
	if table.Cell(table.Rows[0], -1) != "" || table.Cell(table.Rows[0], 5) != "" {
		t.Error("Out-of-range cells should be empty")
	}
}
