package store

import (
	"testing"

	"github.com/kaoqin/kaoqin/pkg/model"
)

func directoryFixture() []model.DirectoryRow {
	return []model.DirectoryRow{
		{Email: "alice@example.com", Name: "Alice Wang", Title: "Regional Manager", Department: "Sales", Office: "Shanghai", Manager: ""},
		{Email: "bob@example.com", Name: "Bob Li", Title: "Account Executive", Department: "Sales", Office: "Shanghai", Manager: "Alice Wang"},
		{Email: "carol@example.com", Name: "Carol Chen", Title: "Account Executive", Department: "Sales", Office: "Shanghai", Manager: "Alice Wang"},
	}
}

func TestApplyAttendanceBatch_Idempotent(t *testing.T) {
	s := New()
	rows := []model.AttendanceRow{
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent, DurationMinutes: 480},
		{Date: "2026-08-03", Email: "carol@example.com", Status: model.StatusAbsent},
		{Date: "2026-08-10", Email: "bob@example.com", Status: model.StatusPartial, DurationMinutes: 200},
	}

	updated := s.ApplyAttendanceBatch(rows)
	if updated != 2 {
		t.Errorf("Expected 2 dates updated, got %d", updated)
	}

	first := s.Snapshot()

	// 重复摄取同一批次应得到相同终态
	s.ApplyAttendanceBatch(rows)
	second := s.Snapshot()

	if len(second.General) != len(first.General) {
		t.Errorf("Expected %d dates after re-ingest, got %d", len(first.General), len(second.General))
	}
	for date, facts := range first.General {
		for email, fact := range facts {
			if second.General[date][email] != fact {
				t.Errorf("Fact for %s/%s changed after re-ingest", date, email)
			}
		}
	}
}

func TestApplyAttendanceBatch_LastWriteWins(t *testing.T) {
	s := New()
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusAbsent},
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent, DurationMinutes: 480},
	})

	fact, ok := s.Snapshot().ResolveFact("2026-08-03", "bob@example.com")
	if !ok {
		t.Fatal("Expected fact for bob")
	}
	if fact.Status != model.StatusPresent {
		t.Errorf("Expected last write Present, got %s", fact.Status)
	}
}

func TestApplyDirectoryBatch_ResolvesManagers(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())

	data := s.Snapshot()
	bob := data.ByEmail["bob@example.com"]
	if bob.ManagerEmail != "alice@example.com" {
		t.Errorf("Expected manager email alice@example.com, got %q", bob.ManagerEmail)
	}

	alice := data.ByEmail["alice@example.com"]
	if !alice.IsRegionalManager() {
		t.Error("Alice should be a regional manager")
	}
}

func TestApplyDirectoryBatch_DuplicateNameKeepsFirst(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch([]model.DirectoryRow{
		{Email: "alice1@example.com", Name: "Alice Wang", Title: "Regional Manager", Department: "Sales", Office: "Shanghai"},
		{Email: "alice2@example.com", Name: "Alice Wang", Title: "Account Executive", Department: "Sales", Office: "Beijing"},
		{Email: "bob@example.com", Name: "Bob Li", Title: "Account Executive", Department: "Sales", Office: "Shanghai", Manager: "Alice Wang"},
	})

	bob := s.Snapshot().ByEmail["bob@example.com"]
	if bob.ManagerEmail != "alice1@example.com" {
		t.Errorf("Expected first-ingested manager kept, got %q", bob.ManagerEmail)
	}
}

func TestResolveFact_RegionalManagerPrecedence(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "alice@example.com", Status: model.StatusAbsent},
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusAbsent},
	})
	s.ApplyRegionalManagerBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "alice@example.com", Status: model.StatusPresent},
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent},
	})

	data := s.Snapshot()

	// 区域经理以专属源为准
	fact, ok := data.ResolveFact("2026-08-03", "alice@example.com")
	if !ok || fact.Status != model.StatusPresent {
		t.Errorf("Expected regional source Present for alice, got %v %v", fact.Status, ok)
	}

	// 非区域经理忽略专属源
	fact, ok = data.ResolveFact("2026-08-03", "bob@example.com")
	if !ok || fact.Status != model.StatusAbsent {
		t.Errorf("Expected general source Absent for bob, got %v %v", fact.Status, ok)
	}
}

func TestResolveFact_RegionalFallsBackToGeneral(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "alice@example.com", Status: model.StatusPartial},
	})

	fact, ok := s.Snapshot().ResolveFact("2026-08-03", "alice@example.com")
	if !ok || fact.Status != model.StatusPartial {
		t.Errorf("Expected fallback to general source, got %v %v", fact.Status, ok)
	}
}

func TestApplyAttendanceBatch_EnrichesFromDirectory(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent},
		{Date: "2026-08-03", Email: "stranger@example.com", Status: model.StatusPresent},
	})

	data := s.Snapshot()
	bob := data.General["2026-08-03"]["bob@example.com"]
	if bob.Name != "Bob Li" || bob.Location != "Shanghai" {
		t.Errorf("Expected directory enrichment, got name=%q location=%q", bob.Name, bob.Location)
	}

	// 目录缺失时退回邮箱与 Unknown
	stranger := data.General["2026-08-03"]["stranger@example.com"]
	if stranger.Name != "stranger@example.com" || stranger.Location != "Unknown" {
		t.Errorf("Expected fallback identity, got name=%q location=%q", stranger.Name, stranger.Location)
	}
}

func TestMergeStructured_FillsDefaults(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())

	updated := s.MergeStructured(map[string]model.DateFacts{
		"2026-08-03": {
			"bob@example.com":      {Status: model.StatusPresent},
			"stranger@example.com": {Status: model.StatusAbsent},
		},
	}, model.SourceGeneral)
	if updated != 1 {
		t.Errorf("Expected 1 date updated, got %d", updated)
	}

	data := s.Snapshot()
	bob := data.General["2026-08-03"]["bob@example.com"]
	if bob.Name != "Bob Li" {
		t.Errorf("Expected name from directory, got %q", bob.Name)
	}
	stranger := data.General["2026-08-03"]["stranger@example.com"]
	if stranger.Name != "stranger@example.com" || stranger.Location != "Unknown" {
		t.Errorf("Expected defaults filled, got name=%q location=%q", stranger.Name, stranger.Location)
	}
}

func TestSnapshot_DeepCopy(t *testing.T) {
	s := New()
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent},
	})

	snap := s.Snapshot()
	snap.General["2026-08-03"]["bob@example.com"] = model.AttendanceFact{Status: model.StatusAbsent}

	fact, _ := s.Snapshot().ResolveFact("2026-08-03", "bob@example.com")
	if fact.Status != model.StatusPresent {
		t.Error("Mutating a snapshot must not affect the store")
	}
}

func TestTrackedDates(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "alice@example.com", Status: model.StatusPresent},
	})
	s.ApplyRegionalManagerBatch([]model.AttendanceRow{
		{Date: "2026-08-10", Email: "alice@example.com", Status: model.StatusPresent},
		{Date: "2026-08-10", Email: "bob@example.com", Status: model.StatusPresent},
	})

	data := s.Snapshot()

	aliceDates := data.TrackedDates("alice@example.com")
	if len(aliceDates) != 2 {
		t.Errorf("Expected 2 tracked dates for regional manager, got %d", len(aliceDates))
	}

	// 非区域经理不并入专属源日期
	bobDates := data.TrackedDates("bob@example.com")
	if len(bobDates) != 0 {
		t.Errorf("Expected 0 tracked dates for bob, got %d", len(bobDates))
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.ApplyDirectoryBatch(directoryFixture())
	s.ApplyAttendanceBatch([]model.AttendanceRow{
		{Date: "2026-08-03", Email: "bob@example.com", Status: model.StatusPresent},
	})

	s.Reset()

	if s.DateCount() != 0 {
		t.Errorf("Expected empty store after reset, got %d dates", s.DateCount())
	}
	if len(s.Snapshot().Employees) != 0 {
		t.Error("Expected empty directory after reset")
	}
}
