package service

import (
	"errors"
	"testing"

	"spellquiz/internal/models"
	"spellquiz/internal/wordbank"
)

type stubStore struct {
	saved []*models.QuizSession
	err   error
}

func (s *stubStore) SaveSession(session *models.QuizSession) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, session)
	return nil
}

func testParagraphs() []wordbank.Paragraph {
	return []wordbank.Paragraph{{
		ID:       1,
		Title:    "Test Paragraph",
		Theme:    "school",
		Template: "One {0} two {1} three {2} four {3} five {4}.",
	}}
}

func fixedSettings(words ...string) models.QuizSettings {
	return models.QuizSettings{
		SelectedWords:       words,
		DifficultyLevel:     models.DifficultyCustom,
		NumberOfWords:       len(words),
		EnableSecondChances: true,
	}
}

func TestStartSessionSelectedWords(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	session, err := svc.StartSession("Amelia", fixedSettings("cat", "dog", "bird"))
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if session.ID == "" {
		t.Error("session ID should not be empty")
	}
	if session.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", session.TotalQuestions)
	}
	if len(session.WordOutcomes) != 3 {
		t.Fatalf("WordOutcomes length = %d, want 3", len(session.WordOutcomes))
	}
	for i, want := range []string{"cat", "dog", "bird"} {
		outcome := session.WordOutcomes[i]
		if outcome.Word != want {
			t.Errorf("outcome %d word = %q, want %q", i, outcome.Word, want)
		}
		if outcome.Position != i {
			t.Errorf("outcome %d position = %d, want %d", i, outcome.Position, i)
		}
		if outcome.Completed {
			t.Errorf("outcome %d should start incomplete", i)
		}
	}
}

func TestStartSessionDeduplicatesWords(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	settings := fixedSettings("cat", "dog", "cat", "dog", "bird")
	session, err := svc.StartSession("Amelia", settings)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	seen := make(map[string]bool)
	for _, word := range session.SelectedWords {
		if seen[word] {
			t.Errorf("word %q selected twice", word)
		}
		seen[word] = true
	}
	if len(session.SelectedWords) != 3 {
		t.Errorf("selected %d words, want 3", len(session.SelectedWords))
	}
}

func TestStartSessionCapsQuestionCount(t *testing.T) {
	svc := NewQuizService([]string{"one", "two", "three"}, testParagraphs(), nil, NewValidator())

	settings := models.QuizSettings{
		DifficultyLevel: models.DifficultyMixed,
		NumberOfWords:   15,
	}
	session, err := svc.StartSession("Ben", settings)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if session.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3 (capped at pool size)", session.TotalQuestions)
	}
}

func TestStartSessionConfigurationErrors(t *testing.T) {
	tests := []struct {
		name       string
		pool       []string
		paragraphs []wordbank.Paragraph
		settings   models.QuizSettings
		wantErr    error
	}{
		{
			name:       "empty word pool",
			pool:       nil,
			paragraphs: testParagraphs(),
			settings:   models.QuizSettings{DifficultyLevel: models.DifficultyMixed, NumberOfWords: 5},
			wantErr:    ErrEmptyWordPool,
		},
		{
			name:       "zero question count",
			pool:       []string{"cat"},
			paragraphs: testParagraphs(),
			settings:   models.QuizSettings{DifficultyLevel: models.DifficultyMixed, NumberOfWords: 0},
			wantErr:    ErrInvalidQuestionCount,
		},
		{
			name:       "negative question count",
			pool:       []string{"cat"},
			paragraphs: testParagraphs(),
			settings:   models.QuizSettings{DifficultyLevel: models.DifficultyMixed, NumberOfWords: -1},
			wantErr:    ErrInvalidQuestionCount,
		},
		{
			name: "no paragraph large enough",
			pool: []string{"a", "b", "c", "d", "e", "f", "g"},
			paragraphs: []wordbank.Paragraph{{
				ID:       9,
				Template: "Just {0} and {1}.",
			}},
			settings: models.QuizSettings{DifficultyLevel: models.DifficultyMixed, NumberOfWords: 7},
			wantErr:  ErrNoParagraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQuizService(tt.pool, tt.paragraphs, nil, NewValidator())
			_, err := svc.StartSession("Ben", tt.settings)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("StartSession() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitAnswersTwoAttemptFlow(t *testing.T) {
	store := &stubStore{}
	svc := NewQuizService(nil, testParagraphs(), store, NewValidator())

	session, err := svc.StartSession("Amelia", fixedSettings("cat", "dog"))
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	// First attempt: one right, one wrong
	result, err := svc.SubmitAnswers(session.ID, map[int]string{0: "cat", 1: "wolf"})
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if result.Completed {
		t.Fatal("session should not be completed with a second chance pending")
	}
	if len(result.Deltas) != 2 {
		t.Fatalf("got %d deltas, want 2", len(result.Deltas))
	}

	byPosition := make(map[int]models.OutcomeDelta)
	for _, delta := range result.Deltas {
		byPosition[delta.Position] = delta
	}
	if !byPosition[0].IsCorrect || !byPosition[0].Completed {
		t.Errorf("position 0 delta = %+v, want correct and completed", byPosition[0])
	}
	if byPosition[1].IsCorrect || byPosition[1].Completed || !byPosition[1].SecondChance {
		t.Errorf("position 1 delta = %+v, want incorrect with second chance", byPosition[1])
	}

	// Second attempt on the remaining word
	result, err = svc.SubmitAnswers(session.ID, map[int]string{1: "dog"})
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if !result.Completed {
		t.Fatal("session should be completed")
	}
	if !result.Saved || result.SaveErr != nil {
		t.Errorf("Saved = %v, SaveErr = %v, want clean save", result.Saved, result.SaveErr)
	}
	if len(store.saved) != 1 {
		t.Fatalf("store has %d sessions, want 1", len(store.saved))
	}

	saved := store.saved[0]
	if saved.TotalCorrect != 2 {
		t.Errorf("TotalCorrect = %d, want 2", saved.TotalCorrect)
	}
	if saved.FirstAttemptCorrect != 1 {
		t.Errorf("FirstAttemptCorrect = %d, want 1", saved.FirstAttemptCorrect)
	}
	if saved.SecondAttemptCorrect != 1 {
		t.Errorf("SecondAttemptCorrect = %d, want 1", saved.SecondAttemptCorrect)
	}
	if saved.EndTime == nil {
		t.Error("EndTime should be set on completion")
	}
}

func TestSubmitAnswersIgnoresCompletedPositions(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	session, _ := svc.StartSession("Amelia", fixedSettings("cat", "dog"))

	if _, err := svc.SubmitAnswers(session.ID, map[int]string{0: "cat"}); err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}

	// Re-answering a completed position must not add attempts
	result, err := svc.SubmitAnswers(session.ID, map[int]string{0: "wrong"})
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if len(result.Deltas) != 0 {
		t.Errorf("got %d deltas for a completed position, want 0", len(result.Deltas))
	}

	stored, _ := svc.GetSession(session.ID)
	if got := len(stored.WordOutcomes[0].Attempts); got != 1 {
		t.Errorf("outcome has %d attempts, want 1", got)
	}
}

func TestSubmitAnswersSecondFailureCompletesWord(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	session, _ := svc.StartSession("Amelia", fixedSettings("elephant"))

	svc.SubmitAnswers(session.ID, map[int]string{0: "wrong"})
	result, err := svc.SubmitAnswers(session.ID, map[int]string{0: "also wrong"})
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if !result.Completed {
		t.Fatal("session should complete after the second failure")
	}

	stats, err := svc.GetStatistics(session.ID)
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}
	if stats.TotalScore != 0 {
		t.Errorf("TotalScore = %d, want 0", stats.TotalScore)
	}
	if stats.Accuracy != 0 {
		t.Errorf("Accuracy = %d, want 0", stats.Accuracy)
	}
}

func TestSubmitAnswersSingleAttemptMode(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	settings := fixedSettings("cat")
	settings.EnableSecondChances = false
	session, _ := svc.StartSession("Amelia", settings)

	result, err := svc.SubmitAnswers(session.ID, map[int]string{0: "dog"})
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if !result.Completed {
		t.Error("one wrong attempt should complete the word without second chances")
	}
	if len(result.Deltas) != 1 || result.Deltas[0].SecondChance {
		t.Errorf("delta = %+v, want no second chance", result.Deltas)
	}
}

func TestSubmitAnswersSessionErrors(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	if _, err := svc.SubmitAnswers("missing", map[int]string{0: "x"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}

	session, _ := svc.StartSession("Amelia", fixedSettings("cat"))
	svc.SubmitAnswers(session.ID, map[int]string{0: "cat"})

	if _, err := svc.SubmitAnswers(session.ID, map[int]string{0: "cat"}); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("error = %v, want ErrSessionCompleted", err)
	}
}

func TestGetStatisticsBeforeCompletion(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	session, _ := svc.StartSession("Amelia", fixedSettings("cat"))
	if _, err := svc.GetStatistics(session.ID); !errors.Is(err, ErrSessionActive) {
		t.Errorf("error = %v, want ErrSessionActive", err)
	}
}

func TestForceCompleteMarksRemainingAsFailures(t *testing.T) {
	store := &stubStore{}
	svc := NewQuizService(nil, testParagraphs(), store, NewValidator())

	session, _ := svc.StartSession("Amelia", fixedSettings("cat", "dog", "bird"))
	svc.SubmitAnswers(session.ID, map[int]string{0: "cat"})

	result, err := svc.ForceComplete(session.ID)
	if err != nil {
		t.Fatalf("ForceComplete() error = %v", err)
	}
	if !result.Completed {
		t.Fatal("ForceComplete should complete the session")
	}
	if len(result.Deltas) != 2 {
		t.Errorf("got %d deltas, want 2 for the unanswered words", len(result.Deltas))
	}

	stats, err := svc.GetStatistics(session.ID)
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}
	if stats.TotalScore != 1 {
		t.Errorf("TotalScore = %d, want 1", stats.TotalScore)
	}
	if len(store.saved) != 1 {
		t.Errorf("store has %d sessions, want 1", len(store.saved))
	}
}

func TestSaveFailureDoesNotHideResults(t *testing.T) {
	store := &stubStore{err: errors.New("disk full")}
	svc := NewQuizService(nil, testParagraphs(), store, NewValidator())

	session, _ := svc.StartSession("Amelia", fixedSettings("cat"))
	result, err := svc.SubmitAnswers(session.ID, map[int]string{0: "cat"})
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if !result.Completed {
		t.Fatal("session should still complete")
	}
	if result.Saved {
		t.Error("Saved should be false when the store fails")
	}
	if result.SaveErr == nil {
		t.Error("SaveErr should report the store failure")
	}

	stats, err := svc.GetStatistics(session.ID)
	if err != nil {
		t.Fatalf("GetStatistics() error = %v, results must survive a failed save", err)
	}
	if stats.TotalScore != 1 {
		t.Errorf("TotalScore = %d, want 1", stats.TotalScore)
	}
}

func TestStatisticsValues(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	session, _ := svc.StartSession("Amelia", fixedSettings("cat", "dog", "bird", "fish"))
	svc.SubmitAnswers(session.ID, map[int]string{0: "cat", 1: "dog", 2: "bird", 3: "wrong"})
	svc.SubmitAnswers(session.ID, map[int]string{3: "fish"})

	stats, err := svc.GetStatistics(session.ID)
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}
	if stats.TotalScore != 4 {
		t.Errorf("TotalScore = %d, want 4", stats.TotalScore)
	}
	if stats.TotalQuestions != 4 {
		t.Errorf("TotalQuestions = %d, want 4", stats.TotalQuestions)
	}
	if stats.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100", stats.Accuracy)
	}
	if stats.FirstAttemptCorrect != 3 {
		t.Errorf("FirstAttemptCorrect = %d, want 3", stats.FirstAttemptCorrect)
	}
	if stats.SecondAttemptCorrect != 1 {
		t.Errorf("SecondAttemptCorrect = %d, want 1", stats.SecondAttemptCorrect)
	}
	if stats.PerformanceMessage != "Outstanding! You're an excellent speller!" {
		t.Errorf("PerformanceMessage = %q", stats.PerformanceMessage)
	}
}

func TestPerformanceMessageBands(t *testing.T) {
	tests := []struct {
		accuracy int
		want     string
	}{
		{100, "Outstanding! You're an excellent speller!"},
		{90, "Outstanding! You're an excellent speller!"},
		{89, "Great job! Keep practicing those tricky words."},
		{75, "Great job! Keep practicing those tricky words."},
		{74, "Good effort! Regular practice will help you improve."},
		{60, "Good effort! Regular practice will help you improve."},
		{59, "Keep trying! Spelling takes practice - you're getting better!"},
		{0, "Keep trying! Spelling takes practice - you're getting better!"},
	}

	for _, tt := range tests {
		if got := performanceMessage(tt.accuracy); got != tt.want {
			t.Errorf("performanceMessage(%d) = %q, want %q", tt.accuracy, got, tt.want)
		}
	}
}

func TestReleaseSession(t *testing.T) {
	svc := NewQuizService(nil, testParagraphs(), nil, NewValidator())

	session, _ := svc.StartSession("Amelia", fixedSettings("cat"))
	svc.SubmitAnswers(session.ID, map[int]string{0: "cat"})
	svc.ReleaseSession(session.ID)

	if _, err := svc.GetSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound after release", err)
	}
}
