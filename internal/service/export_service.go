package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spellquiz/internal/models"
)

// ExportType selects which analytics projection to export
type ExportType string

const (
	ExportWordDifficulty  ExportType = "word-difficulty"
	ExportStudentProgress ExportType = "student-progress"
	ExportClassReport     ExportType = "class-report"
	ExportTeachingFocus   ExportType = "teaching-focus"
	ExportComprehensive   ExportType = "comprehensive"
)

var ErrUnknownExportType = errors.New("unknown export type")

// Table is a flat tabular projection ready for a CSV or JSON writer.
// Rows are ordered and every row has one value per header.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// ExportService flattens analytics results into tables. Encoding to bytes
// is left to the caller.
type ExportService struct {
	analytics *AnalyticsService
	now       func() time.Time
}

func NewExportService(analytics *AnalyticsService) *ExportService {
	return &ExportService{analytics: analytics, now: time.Now}
}

// Export builds the projection named by exportType over the filtered
// corpus. The table name carries the export date for use as a filename
// stem.
func (s *ExportService) Export(exportType ExportType, filters SessionFilters) (*Table, error) {
	switch exportType {
	case ExportWordDifficulty:
		return s.wordDifficultyTable(filters)
	case ExportStudentProgress:
		return s.studentProgressTable(filters)
	case ExportClassReport:
		return s.classReportTable(filters)
	case ExportTeachingFocus:
		return s.teachingFocusTable(filters)
	case ExportComprehensive:
		return s.comprehensiveTable(filters)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExportType, exportType)
	}
}

func (s *ExportService) tableName(stem string) string {
	return fmt.Sprintf("%s_%s", stem, s.now().Format("2006-01-02"))
}

func (s *ExportService) wordDifficultyTable(filters SessionFilters) (*Table, error) {
	stats, err := s.analytics.WordDifficulty(filters)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Name:    s.tableName("word-difficulty-analysis"),
		Headers: []string{"word", "difficultyScore", "successRate", "totalAttempts", "totalStudents", "teachingPriority", "categories", "topMistake"},
	}
	for _, stat := range stats {
		topMistake := "None"
		if len(stat.CommonMistakes) > 0 {
			topMistake = stat.CommonMistakes[0].Mistake
		}
		table.Rows = append(table.Rows, []string{
			stat.Word,
			strconv.Itoa(stat.DifficultyScore),
			formatRate(stat.SuccessRate),
			strconv.Itoa(stat.TotalAttempts),
			strconv.Itoa(stat.TotalStudents),
			strconv.Itoa(stat.TeachingPriority),
			strings.Join(stat.Categories, "; "),
			topMistake,
		})
	}
	return table, nil
}

func (s *ExportService) studentProgressTable(filters SessionFilters) (*Table, error) {
	sessions, err := s.analytics.FilteredSessions(filters)
	if err != nil {
		return nil, err
	}

	// Group rows per student, preserving first-seen student order
	grouped := make(map[string][]*models.QuizSession)
	var order []string
	for _, session := range sessions {
		name := studentKey(session.StudentName)
		if _, ok := grouped[name]; !ok {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], session)
	}

	table := &Table{
		Name:    s.tableName("student-progress-report"),
		Headers: []string{"studentName", "date", "score", "totalWords", "percentage", "timeSpent"},
	}
	for _, name := range order {
		for _, session := range grouped[name] {
			table.Rows = append(table.Rows, []string{
				name,
				session.StartTime.Format("2006-01-02"),
				strconv.Itoa(session.TotalCorrect),
				strconv.Itoa(session.TotalQuestions),
				strconv.Itoa(session.Percentage()),
				strconv.Itoa(session.TotalTimeSeconds),
			})
		}
	}
	return table, nil
}

func (s *ExportService) classReportTable(filters SessionFilters) (*Table, error) {
	report, err := s.analytics.ClassReport(filters)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Name:    s.tableName("class-performance-report"),
		Headers: []string{"reportDate", "totalStudents", "totalQuizzes", "averageScore", "averagePercentage", "averageTimeSpent", "topDifficultWord", "topPerformer", "mainRecommendation"},
	}
	if report == nil {
		return table, nil
	}

	topWord, topPerformer, mainRecommendation := "N/A", "N/A", "N/A"
	if len(report.WordAnalysis) > 0 {
		topWord = report.WordAnalysis[0].Word
	}
	if len(report.StudentPerformance) > 0 {
		topPerformer = report.StudentPerformance[0].Name
	}
	if len(report.Recommendations) > 0 {
		mainRecommendation = report.Recommendations[0].Message
	}

	table.Rows = append(table.Rows, []string{
		s.now().Format("2006-01-02"),
		strconv.Itoa(report.Summary.TotalStudents),
		strconv.Itoa(report.Summary.TotalQuizzes),
		strconv.FormatFloat(report.Summary.AverageScore, 'f', -1, 64),
		strconv.Itoa(report.Summary.AveragePercentage),
		strconv.Itoa(report.Summary.AverageTimeSpent),
		topWord,
		topPerformer,
		mainRecommendation,
	})
	return table, nil
}

func (s *ExportService) teachingFocusTable(filters SessionFilters) (*Table, error) {
	words, err := s.analytics.TeachingFocusWords(filters, 20)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Name:    s.tableName("teaching-focus-words"),
		Headers: []string{"word", "difficultyScore", "successRate", "totalAttempts", "totalStudents", "teachingPriority", "recommendedApproach"},
	}
	for _, word := range words {
		table.Rows = append(table.Rows, []string{
			word.Word,
			strconv.Itoa(word.DifficultyScore),
			formatRate(word.SuccessRate),
			strconv.Itoa(word.TotalAttempts),
			strconv.Itoa(word.TotalStudents),
			strconv.Itoa(word.TeachingPriority),
			strings.Join(word.Approaches, "; "),
		})
	}
	return table, nil
}

func (s *ExportService) comprehensiveTable(filters SessionFilters) (*Table, error) {
	sessions, err := s.analytics.FilteredSessions(filters)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Name:    s.tableName("comprehensive-analytics"),
		Headers: []string{"studentName", "date", "score", "totalWords", "percentage", "timeSpent", "firstAttemptCorrect", "secondAttemptCorrect", "paragraphTitle"},
	}
	for _, session := range sessions {
		title := session.ParagraphTitle
		if title == "" {
			title = "Unknown"
		}
		table.Rows = append(table.Rows, []string{
			studentKey(session.StudentName),
			session.StartTime.Format("2006-01-02"),
			strconv.Itoa(session.TotalCorrect),
			strconv.Itoa(session.TotalQuestions),
			strconv.Itoa(session.Percentage()),
			strconv.Itoa(session.TotalTimeSeconds),
			strconv.Itoa(session.FirstAttemptCorrect),
			strconv.Itoa(session.SecondAttemptCorrect),
			title,
		})
	}
	return table, nil
}

// formatRate renders a 0..1 success rate as a whole percentage
func formatRate(rate float64) string {
	return strconv.Itoa(int(rate*100 + 0.5))
}
