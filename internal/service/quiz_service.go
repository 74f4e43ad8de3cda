package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"spellquiz/internal/models"
	"spellquiz/internal/wordbank"
)

// Configuration errors raised before any session state is created
var (
	ErrEmptyWordPool        = errors.New("word pool is empty")
	ErrNoParagraph          = errors.New("no paragraph template can hold the requested number of words")
	ErrInvalidQuestionCount = errors.New("question count must be positive")
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrSessionActive    = errors.New("session not yet completed")
)

// SessionStore persists completed quiz sessions
type SessionStore interface {
	SaveSession(session *models.QuizSession) error
}

// activeSession is the in-flight state of one quiz run
type activeSession struct {
	session   *models.QuizSession
	paragraph wordbank.Paragraph
	settings  models.QuizSettings
	wordStart []time.Time
	stats     *models.QuizStatistics
	saveErr   error
}

// QuizService drives assessment sessions from word selection through
// two-chance answer checking to final statistics.
type QuizService struct {
	pool       []string
	paragraphs []wordbank.Paragraph
	store      SessionStore
	validator  *Validator

	mu     sync.Mutex
	active map[string]*activeSession
}

// NewQuizService creates a quiz service over the given word pool and
// paragraph templates. The store may be nil, in which case completed
// sessions are kept in memory only.
func NewQuizService(pool []string, paragraphs []wordbank.Paragraph, store SessionStore, validator *Validator) *QuizService {
	return &QuizService{
		pool:       pool,
		paragraphs: paragraphs,
		store:      store,
		validator:  validator,
		active:     make(map[string]*activeSession),
	}
}

// Validator exposes the answer validator, e.g. for registering extra
// spelling equivalences.
func (s *QuizService) Validator() *Validator {
	return s.validator
}

// StartSession selects words and a paragraph according to the settings and
// creates a new in-progress session. Configuration problems (empty pools,
// non-positive question count) fail before any session exists.
func (s *QuizService) StartSession(studentName string, settings models.QuizSettings) (*models.QuizSession, error) {
	if settings.NumberOfWords <= 0 {
		return nil, ErrInvalidQuestionCount
	}

	words, err := s.selectWords(settings)
	if err != nil {
		return nil, err
	}

	paragraph, err := s.selectParagraph(len(words), settings.SelectedThemes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.QuizSession{
		ID:             uuid.New().String(),
		StudentName:    studentName,
		StartTime:      now,
		TotalQuestions: len(words),
		SelectedWords:  words,
		ParagraphID:    paragraph.ID,
		ParagraphTitle: paragraph.Title,
		Difficulty:     string(settings.DifficultyLevel),
	}

	session.WordOutcomes = make([]models.WordOutcome, len(words))
	wordStart := make([]time.Time, len(words))
	for i, word := range words {
		session.WordOutcomes[i] = models.WordOutcome{
			SessionID: session.ID,
			Word:      word,
			Position:  i,
		}
		wordStart[i] = now
	}

	s.mu.Lock()
	s.active[session.ID] = &activeSession{
		session:   session,
		paragraph: paragraph,
		settings:  settings,
		wordStart: wordStart,
	}
	s.mu.Unlock()

	return session, nil
}

// selectWords picks the quiz words without replacement. Teacher-selected
// words take precedence; otherwise words are drawn at random from the pool
// filtered by theme and difficulty. The question count is capped at the
// number of available words.
func (s *QuizService) selectWords(settings models.QuizSettings) ([]string, error) {
	var candidates []string

	if len(settings.SelectedWords) > 0 {
		candidates = dedupe(settings.SelectedWords)
	} else {
		pool := s.pool
		if len(settings.SelectedThemes) > 0 {
			pool = wordbank.WordsForThemes(settings.SelectedThemes)
		}
		pool = wordbank.WordsForDifficulty(pool, string(settings.DifficultyLevel))
		candidates = dedupe(pool)
	}

	if len(candidates) == 0 {
		return nil, ErrEmptyWordPool
	}

	count := settings.NumberOfWords
	if count > len(candidates) {
		count = len(candidates)
	}

	words := make([]string, len(candidates))
	copy(words, candidates)

	if len(settings.SelectedWords) == 0 || settings.RandomizeWordOrder {
		rand.Shuffle(len(words), func(i, j int) {
			words[i], words[j] = words[j], words[i]
		})
	}

	return words[:count], nil
}

// selectParagraph picks a random template with enough placeholders
func (s *QuizService) selectParagraph(wordCount int, themes []string) (wordbank.Paragraph, error) {
	pool := s.paragraphs
	if len(themes) > 0 {
		if themed := wordbank.ParagraphsForThemes(themes); len(themed) > 0 {
			pool = themed
		}
	}

	var candidates []wordbank.Paragraph
	for _, p := range pool {
		if p.PlaceholderCount() >= wordCount {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 0 {
		return wordbank.Paragraph{}, ErrNoParagraph
	}

	return candidates[rand.Intn(len(candidates))], nil
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, word := range words {
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, word)
	}
	return out
}

// SubmitResult reports the outcome of one submit action
type SubmitResult struct {
	Deltas    []models.OutcomeDelta
	Completed bool
	// Saved and SaveErr report the persistence outcome once the session
	// completes. A failed save never hides the results.
	Saved   bool
	SaveErr error
}

// SubmitAnswers checks the supplied answers against every word that is not
// yet completed. A correct answer completes the word; an incorrect first
// attempt grants a second chance (when enabled); an incorrect second
// attempt completes the word as a failure. Answers for already-completed
// positions are ignored. When every word is complete the session is
// finalized and handed to the store.
func (s *QuizService) SubmitAnswers(sessionID string, answers map[int]string) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.active[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if state.session.EndTime != nil {
		return nil, ErrSessionCompleted
	}

	maxAttempts := 2
	if !state.settings.EnableSecondChances {
		maxAttempts = 1
	}

	now := time.Now()
	result := &SubmitResult{}

	for i := range state.session.WordOutcomes {
		outcome := &state.session.WordOutcomes[i]
		if outcome.Completed {
			continue
		}

		answer, ok := answers[i]
		if !ok {
			continue
		}

		attemptIndex := len(outcome.Attempts) + 1
		isCorrect := s.validator.Validate(answer, outcome.Word)

		outcome.Attempts = append(outcome.Attempts, models.WordAttemptRecord{
			Word:         outcome.Word,
			AttemptIndex: attemptIndex,
			RawInput:     answer,
			IsCorrect:    isCorrect,
			AttemptedAt:  now,
		})
		outcome.TimeSpentSeconds = now.Sub(state.wordStart[i]).Seconds()

		delta := models.OutcomeDelta{
			Position:     i,
			Word:         outcome.Word,
			AttemptIndex: attemptIndex,
			IsCorrect:    isCorrect,
		}

		if isCorrect {
			outcome.Correct = true
			outcome.Completed = true
			if attemptIndex == 1 {
				outcome.FirstAttemptCorrect = true
			} else {
				outcome.SecondAttemptCorrect = true
			}
		} else if attemptIndex >= maxAttempts {
			outcome.Completed = true
		} else {
			delta.SecondChance = true
		}

		delta.Completed = outcome.Completed
		result.Deltas = append(result.Deltas, delta)
	}

	if allCompleted(state.session) {
		s.finalize(state)
		result.Completed = true
		result.Saved = state.saveErr == nil
		result.SaveErr = state.saveErr
	}

	return result, nil
}

// ForceComplete closes out a running session, typically when an external
// time limit expires. Every incomplete word is treated as a second-attempt
// failure.
func (s *QuizService) ForceComplete(sessionID string) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.active[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if state.session.EndTime != nil {
		return nil, ErrSessionCompleted
	}

	now := time.Now()
	result := &SubmitResult{Completed: true}

	for i := range state.session.WordOutcomes {
		outcome := &state.session.WordOutcomes[i]
		if outcome.Completed {
			continue
		}
		outcome.Completed = true
		outcome.TimeSpentSeconds = now.Sub(state.wordStart[i]).Seconds()
		result.Deltas = append(result.Deltas, models.OutcomeDelta{
			Position:     i,
			Word:         outcome.Word,
			AttemptIndex: len(outcome.Attempts),
			Completed:    true,
		})
	}

	s.finalize(state)
	result.Saved = state.saveErr == nil
	result.SaveErr = state.saveErr
	return result, nil
}

func allCompleted(session *models.QuizSession) bool {
	for i := range session.WordOutcomes {
		if !session.WordOutcomes[i].Completed {
			return false
		}
	}
	return true
}

// finalize stamps the end time, computes totals and statistics, and hands
// the session to the store. Must be called with the lock held, exactly
// once per session.
func (s *QuizService) finalize(state *activeSession) {
	now := time.Now()
	session := state.session
	session.EndTime = &now

	for i := range session.WordOutcomes {
		outcome := &session.WordOutcomes[i]
		if outcome.Correct {
			session.TotalCorrect++
		}
		if outcome.FirstAttemptCorrect {
			session.FirstAttemptCorrect++
		}
		if outcome.SecondAttemptCorrect {
			session.SecondAttemptCorrect++
		}
	}
	session.TotalTimeSeconds = int(now.Sub(session.StartTime).Round(time.Second).Seconds())

	state.stats = computeStatistics(session)

	if s.store != nil {
		if err := s.store.SaveSession(session); err != nil {
			// Results stay available in memory even when the save fails
			log.Printf("Failed to save quiz session %s: %v", session.ID, err)
			state.saveErr = fmt.Errorf("save session: %w", err)
		}
	}
}

func computeStatistics(session *models.QuizSession) *models.QuizStatistics {
	accuracy := 0
	averagePerWord := 0
	if session.TotalQuestions > 0 {
		accuracy = session.Percentage()
		averagePerWord = (session.TotalTimeSeconds + session.TotalQuestions/2) / session.TotalQuestions
	}

	return &models.QuizStatistics{
		FirstAttemptCorrect:  session.FirstAttemptCorrect,
		SecondAttemptCorrect: session.SecondAttemptCorrect,
		TotalScore:           session.TotalCorrect,
		TotalQuestions:       session.TotalQuestions,
		Accuracy:             accuracy,
		TimeTaken:            models.FormatTime(session.TotalTimeSeconds),
		TimeTakenSeconds:     session.TotalTimeSeconds,
		AverageTimePerWord:   averagePerWord,
		PerformanceMessage:   performanceMessage(accuracy),
	}
}

// performanceMessage maps accuracy to an encouragement band
func performanceMessage(accuracy int) string {
	switch {
	case accuracy >= 90:
		return "Outstanding! You're an excellent speller!"
	case accuracy >= 75:
		return "Great job! Keep practicing those tricky words."
	case accuracy >= 60:
		return "Good effort! Regular practice will help you improve."
	default:
		return "Keep trying! Spelling takes practice - you're getting better!"
	}
}

// GetSession returns a session by ID, active or recently completed
func (s *QuizService) GetSession(sessionID string) (*models.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.active[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state.session, nil
}

// Paragraph returns the paragraph template chosen for a session
func (s *QuizService) Paragraph(sessionID string) (wordbank.Paragraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.active[sessionID]
	if !ok {
		return wordbank.Paragraph{}, ErrSessionNotFound
	}
	return state.paragraph, nil
}

// GetStatistics returns the final statistics for a completed session
func (s *QuizService) GetStatistics(sessionID string) (*models.QuizStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.active[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if state.stats == nil {
		return nil, ErrSessionActive
	}
	return state.stats, nil
}

// ReleaseSession drops a completed session from memory once the caller has
// shown the results
func (s *QuizService) ReleaseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, sessionID)
}
