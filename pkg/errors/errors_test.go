package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestParseFailed(t *testing.T) {
	err := ParseFailed("upload.csv", []string{"utf-8/','", "latin-1/';'"})

	if !Is(err, CodeParseFailed) {
		t.Error("Expected PARSE_FAILED code")
	}
	if GetHTTPStatus(err) != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", GetHTTPStatus(err))
	}
}

func TestFormatInvalid_MissingColumns(t *testing.T) {
	err := FormatInvalid("考勤文件缺少必需列", []string{"date", "status"})

	if !Is(err, CodeFormatInvalid) {
		t.Error("Expected FORMAT_INVALID code")
	}
	missing, ok := err.Fields["missing_columns"].([]string)
	if !ok || len(missing) != 2 {
		t.Errorf("Expected missing columns recorded, got %v", err.Fields)
	}

	// 列名必须出现在 Error() 输出中，错误穿过任何只序列化消息的边界都不丢失
	msg := err.Error()
	for _, col := range []string{"date", "status"} {
		if !strings.Contains(msg, col) {
			t.Errorf("Expected column %q named in error message, got %q", col, msg)
		}
	}
}

func TestFormatInvalid_NoColumns(t *testing.T) {
	err := FormatInvalid("结构化考勤文件格式不符", nil)
	if err.Message != "结构化考勤文件格式不符" {
		t.Errorf("Message should be unchanged without columns, got %q", err.Message)
	}
}

func TestUnsupportedFileType(t *testing.T) {
	err := UnsupportedFileType("report.pdf")
	if GetHTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", GetHTTPStatus(err))
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := SnapshotFailed("data/attendance_history.json", cause)

	if err.Unwrap() != cause {
		t.Error("Expected cause preserved")
	}
	if !Is(err, CodeSnapshotFailed) {
		t.Error("Expected SNAPSHOT_FAILED code")
	}
}

func TestGetCode_PlainError(t *testing.T) {
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Error("Plain errors should map to UNKNOWN")
	}
	if GetHTTPStatus(fmt.Errorf("plain")) != http.StatusInternalServerError {
		t.Error("Plain errors should map to 500")
	}
}
