package models

import (
	"fmt"
	"time"
)

// WordAttemptRecord is a single submitted answer for one word.
// Records are immutable once created.
type WordAttemptRecord struct {
	ID           int64
	OutcomeID    int64
	Word         string
	AttemptIndex int // 1 or 2
	RawInput     string
	IsCorrect    bool
	AttemptedAt  time.Time
}

// WordOutcome is the per-word result of a quiz session, capturing up to
// two attempts and the final correctness. It is mutated only by the quiz
// engine while the session is in progress.
type WordOutcome struct {
	ID                   int64
	SessionID            string
	Word                 string
	Position             int
	Attempts             []WordAttemptRecord
	Correct              bool
	FirstAttemptCorrect  bool
	SecondAttemptCorrect bool
	Completed            bool
	TimeSpentSeconds     float64
}

// QuizSession is one complete run of the quiz by one student. EndTime is
// set exactly once at completion; the session is immutable thereafter.
type QuizSession struct {
	ID                   string
	StudentName          string
	StartTime            time.Time
	EndTime              *time.Time
	TotalQuestions       int
	SelectedWords        []string
	WordOutcomes         []WordOutcome
	ParagraphID          int
	ParagraphTitle       string
	Difficulty           string
	TotalCorrect         int
	FirstAttemptCorrect  int
	SecondAttemptCorrect int
	TotalTimeSeconds     int
}

// Score returns the number of words answered correctly within two tries
func (s *QuizSession) Score() int {
	return s.TotalCorrect
}

// Percentage returns the score as a rounded percentage of total questions
func (s *QuizSession) Percentage() int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return int(float64(s.TotalCorrect)/float64(s.TotalQuestions)*100 + 0.5)
}

// QuizStatistics summarizes a completed session
type QuizStatistics struct {
	FirstAttemptCorrect  int
	SecondAttemptCorrect int
	TotalScore           int
	TotalQuestions       int
	Accuracy             int    // rounded percentage
	TimeTaken            string // mm:ss
	TimeTakenSeconds     int
	AverageTimePerWord   int // seconds, rounded
	PerformanceMessage   string
}

// OutcomeDelta reports what changed for one word after a submit
type OutcomeDelta struct {
	Position     int
	Word         string
	AttemptIndex int
	IsCorrect    bool
	Completed    bool
	SecondChance bool // incorrect first attempt, another try available
}

// FormatTime renders a duration in whole seconds as mm:ss
func FormatTime(seconds int) string {
	minutes := seconds / 60
	remaining := seconds % 60
	return fmt.Sprintf("%d:%02d", minutes, remaining)
}
