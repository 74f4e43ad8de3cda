package service

import (
	"errors"
	"testing"
	"time"

	"spellquiz/internal/models"
)

func newTestExportService(sessions []*models.QuizSession) *ExportService {
	svc := NewExportService(NewAnalyticsService(&stubSource{sessions: sessions}))
	svc.now = func() time.Time { return time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestExportUnknownType(t *testing.T) {
	svc := newTestExportService(nil)
	_, err := svc.Export(ExportType("spreadsheet"), SessionFilters{})
	if !errors.Is(err, ErrUnknownExportType) {
		t.Fatalf("Export() error = %v, want ErrUnknownExportType", err)
	}
}

func TestExportTableNamesCarryDate(t *testing.T) {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	sessions := []*models.QuizSession{
		sessionWith("Amelia", start, outcomeWith("cat", attemptSpec{"cat", true})),
	}
	svc := newTestExportService(sessions)

	tests := []struct {
		exportType ExportType
		wantName   string
	}{
		{ExportWordDifficulty, "word-difficulty-analysis_2026-04-10"},
		{ExportStudentProgress, "student-progress-report_2026-04-10"},
		{ExportClassReport, "class-performance-report_2026-04-10"},
		{ExportTeachingFocus, "teaching-focus-words_2026-04-10"},
		{ExportComprehensive, "comprehensive-analytics_2026-04-10"},
	}

	for _, tt := range tests {
		t.Run(string(tt.exportType), func(t *testing.T) {
			table, err := svc.Export(tt.exportType, SessionFilters{})
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if table.Name != tt.wantName {
				t.Errorf("table name = %q, want %q", table.Name, tt.wantName)
			}
		})
	}
}

func TestExportWordDifficultyRows(t *testing.T) {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	sessions := []*models.QuizSession{
		sessionWith("Amelia", start, outcomeWith("knight", attemptSpec{"night", false}, attemptSpec{"knight", true})),
		sessionWith("Ben", start, outcomeWith("knight", attemptSpec{"night", false}, attemptSpec{"nite", false})),
	}
	svc := newTestExportService(sessions)

	table, err := svc.Export(ExportWordDifficulty, SessionFilters{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(table.Headers) != 8 {
		t.Fatalf("got %d headers, want 8", len(table.Headers))
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}

	row := table.Rows[0]
	if row[0] != "knight" {
		t.Errorf("word = %q, want knight", row[0])
	}
	// one correct out of two students, 50% success
	if row[2] != "50" {
		t.Errorf("successRate = %q, want 50", row[2])
	}
	if row[7] != "night" {
		t.Errorf("topMistake = %q, want night", row[7])
	}
}

func TestExportStudentProgressGroupsByStudent(t *testing.T) {
	day1 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	sessions := []*models.QuizSession{
		sessionWith("Amelia", day1, outcomeWith("cat", attemptSpec{"cat", true})),
		sessionWith("Ben", day1, outcomeWith("cat", attemptSpec{"kat", false}, attemptSpec{"cot", false})),
		sessionWith("Amelia", day2, outcomeWith("dog", attemptSpec{"dog", true})),
	}
	svc := newTestExportService(sessions)

	table, err := svc.Export(ExportStudentProgress, SessionFilters{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(table.Rows))
	}

	// Amelia's two quizzes are adjacent even though Ben's sits between
	// them chronologically
	gotOrder := []string{table.Rows[0][0], table.Rows[1][0], table.Rows[2][0]}
	wantOrder := []string{"Amelia", "Amelia", "Ben"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("row order = %v, want %v", gotOrder, wantOrder)
		}
	}
	if table.Rows[0][1] != "2026-04-01" {
		t.Errorf("date = %q, want 2026-04-01", table.Rows[0][1])
	}
	if table.Rows[0][4] != "100" {
		t.Errorf("percentage = %q, want 100", table.Rows[0][4])
	}
}

func TestExportClassReportEmptyCorpus(t *testing.T) {
	svc := newTestExportService(nil)

	table, err := svc.Export(ExportClassReport, SessionFilters{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("empty corpus produced %d rows, want header-only table", len(table.Rows))
	}
	if len(table.Headers) == 0 {
		t.Error("header-only table should still carry headers")
	}
}

func TestExportClassReportRow(t *testing.T) {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	sessions := []*models.QuizSession{
		sessionWith("Amelia", start, outcomeWith("cat", attemptSpec{"cat", true})),
		sessionWith("Ben", start, outcomeWith("cat", attemptSpec{"kat", false}, attemptSpec{"cot", false})),
	}
	svc := newTestExportService(sessions)

	table, err := svc.Export(ExportClassReport, SessionFilters{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}

	row := table.Rows[0]
	if row[0] != "2026-04-10" {
		t.Errorf("reportDate = %q, want 2026-04-10", row[0])
	}
	if row[1] != "2" {
		t.Errorf("totalStudents = %q, want 2", row[1])
	}
	if row[7] != "Amelia" {
		t.Errorf("topPerformer = %q, want Amelia", row[7])
	}
}

func TestExportComprehensiveRows(t *testing.T) {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	session := sessionWith("", start, outcomeWith("cat", attemptSpec{"cat", true}))
	svc := newTestExportService([]*models.QuizSession{session})

	table, err := svc.Export(ExportComprehensive, SessionFilters{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}

	row := table.Rows[0]
	if row[0] != "Anonymous" {
		t.Errorf("blank student exported as %q, want Anonymous", row[0])
	}
	if row[8] != "Unknown" {
		t.Errorf("missing paragraph title exported as %q, want Unknown", row[8])
	}
}
