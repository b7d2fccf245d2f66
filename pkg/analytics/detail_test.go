package analytics

import (
	"testing"

	"github.com/kaoqin/kaoqin/pkg/model"
)

func TestDetailedAttendance(t *testing.T) {
	e, s := newTestEngine()
	seedDirectory(s)
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-10", Email: "bob@example.com", Status: model.StatusPresent, DurationMinutes: 480, EngagementScore: 82.5},
		{Date: "2026-08-10", Email: "carol@example.com", Status: model.StatusPartial, DurationMinutes: 30},
		{Date: "2026-08-10", Email: "dave@example.com", Status: model.StatusAbsent},
	})

	d := e.DetailedAttendance("2026-08-10")

	if d.Summary.Total != 3 || d.Summary.Present != 1 || d.Summary.Partial != 1 || d.Summary.Absent != 1 {
		t.Errorf("Unexpected summary: %+v", d.Summary)
	}
	if d.Summary.Present+d.Summary.Partial+d.Summary.Absent != d.Summary.Total {
		t.Error("Status counts must add up to total")
	}
	if d.Summary.AttendanceRate != 33.3 {
		t.Errorf("Expected rate 33.3, got %.1f", d.Summary.AttendanceRate)
	}

	// 出勤在前，缺勤在后
	if d.Attendees[0].Status != string(model.StatusPresent) || d.Attendees[2].Status != string(model.StatusAbsent) {
		t.Errorf("Attendees not ordered by status: %+v", d.Attendees)
	}

	bob := d.Attendees[0]
	if bob.Duration != "8h0m" {
		t.Errorf("Expected duration 8h0m, got %s", bob.Duration)
	}
	if bob.Title != "Account Executive" || bob.Department != "Sales" || bob.Office != "Shanghai" {
		t.Errorf("Directory enrichment missing: %+v", bob)
	}
	if bob.JoinTime != "N/A" || bob.LeaveTime != "N/A" {
		t.Errorf("Join/leave times should be N/A: %+v", bob)
	}

	carol := d.Attendees[1]
	if carol.Duration != "30m" {
		t.Errorf("Expected duration 30m, got %s", carol.Duration)
	}

	dave := d.Attendees[2]
	if dave.Duration != "0m" {
		t.Errorf("Expected duration 0m, got %s", dave.Duration)
	}
}

func TestDetailedAttendance_RegionalManagerPrecedence(t *testing.T) {
	e, s := newTestEngine()
	seedDirectory(s)
	s.ApplyAttendanceBatch(day("2026-08-10", map[string]model.Status{
		"alice@example.com": model.StatusAbsent,
		"bob@example.com":   model.StatusPresent,
	}))
	s.ApplyRegionalManagerBatch(day("2026-08-10", map[string]model.Status{
		"alice@example.com": model.StatusPresent,
	}))

	d := e.DetailedAttendance("2026-08-10")

	// 解析后的状态计数仍与人口总数一致
	if d.Summary.Total != 2 || d.Summary.Present != 2 || d.Summary.Absent != 0 {
		t.Errorf("Expected precedence-resolved counts, got %+v", d.Summary)
	}
}

func TestDetailedAttendance_UnknownDate(t *testing.T) {
	e, _ := newTestEngine()

	d := e.DetailedAttendance("2030-01-01")
	if d.Date != "2030-01-01" || d.Summary.Total != 0 || len(d.Attendees) != 0 {
		t.Errorf("Expected empty detail object, got %+v", d)
	}
}

func TestAvailableDates(t *testing.T) {
	e, s := newTestEngine()
	s.ApplyAttendanceBatch(day("2026-08-10", map[string]model.Status{"a@x.com": model.StatusPresent}))
	s.ApplyAttendanceBatch(day("2026-08-03", map[string]model.Status{"a@x.com": model.StatusPresent}))

	dates := e.AvailableDates()
	if len(dates) != 2 || dates[0] != "2026-08-03" || dates[1] != "2026-08-10" {
		t.Errorf("Expected sorted dates, got %v", dates)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{480, "8h0m"},
		{95, "1h35m"},
		{30, "30m"},
		{0, "0m"},
		{-5, "0m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.minutes); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}
