package models

import "time"

// MistakeCount is one normalized wrong answer and how often it was seen
type MistakeCount struct {
	Mistake    string
	Count      int
	Percentage float64 // of total attempts for the word
}

// WordDifficultyStat aggregates how a single word performed across the
// session corpus. Derived on demand, never persisted.
type WordDifficultyStat struct {
	Word             string // display form from first occurrence
	TotalAttempts    int    // number of outcomes, one per session the word appeared in
	TotalStudents    int    // distinct students who attempted the word
	CorrectFirstTry  int
	CorrectSecondTry int
	Incorrect        int
	SuccessRate      float64        // (first + second try) / total attempts
	DifficultyScore  int            // round((1 - successRate) * 100)
	CommonMistakes   []MistakeCount // top 5 by frequency
	Categories       []string       // spelling-pattern tags
	TeachingPriority int            // 0-5
}

// WordPerformance is a per-word success summary scoped to one student
type WordPerformance struct {
	Word          string
	SuccessRate   int // rounded percentage
	TotalAttempts int
}

// ProgressTrend compares the first quartile of a student's sessions
// against the last quartile
type ProgressTrend struct {
	Improvement           float64
	ImprovementPercentage float64
	Trend                 string // "improving", "declining" or "stable"
}

// ScorePoint is one session in a student's score history
type ScorePoint struct {
	QuizNumber int
	Date       time.Time
	Score      int
	TotalWords int
	Percentage int
	TimeSpent  int
}

// Recommendation is a rule-generated teaching suggestion
type Recommendation struct {
	Type     string // "positive", "concern", "focus", "strength", "success"
	Message  string
	Priority string // "low", "medium", "high"
}

// StudentProgress is the per-student progress report
type StudentProgress struct {
	StudentName     string
	TotalQuizzes    int
	FirstQuizAt     time.Time
	LastQuizAt      time.Time
	OverallProgress *ProgressTrend // nil when fewer than 2 sessions
	ScoreProgress   []ScorePoint
	Strengths       []WordPerformance // success rate > 80%, at least 2 attempts
	Weaknesses      []WordPerformance // success rate < 60%, at least 2 attempts
	Recommendations []Recommendation
}

// StudentSummary is one row of the class performance ranking
type StudentSummary struct {
	Name              string
	TotalQuizzes      int
	AveragePercentage int
	Improvement       int // last session percentage minus first, 0 with one session
	LastQuizAt        time.Time
}

// WeeklyTrend is a Sunday-start weekly bucket of class results
type WeeklyTrend struct {
	WeekStart      time.Time
	TotalQuizzes   int
	UniqueStudents int
	AverageScore   int // mean percentage for the week, rounded
}

// ClassSummary holds corpus-wide aggregate numbers
type ClassSummary struct {
	TotalStudents     int
	TotalQuizzes      int
	AverageScore      float64
	AveragePercentage int
	AverageTimeSpent  int // seconds
	From              time.Time
	To                time.Time
}

// ClassReport combines every class-level aggregate into one result
type ClassReport struct {
	Summary            ClassSummary
	StudentPerformance []StudentSummary
	WordAnalysis       []WordDifficultyStat
	Trends             []WeeklyTrend
	Recommendations    []Recommendation
}

// TeachingFocusWord is a high-priority word with its suggested approach
type TeachingFocusWord struct {
	Word             string
	DifficultyScore  int
	SuccessRate      float64
	TotalAttempts    int
	TotalStudents    int
	CommonMistakes   []MistakeCount
	Categories       []string
	TeachingPriority int
	Approaches       []string
}
