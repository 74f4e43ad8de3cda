package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"spellquiz/internal/models"
	"spellquiz/internal/repository"
	"spellquiz/internal/service"
	"spellquiz/internal/wordbank"
)

// QuizHandler serves the student-facing quiz API
type QuizHandler struct {
	quizService  *service.QuizService
	settingsRepo *repository.SettingsRepository
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService *service.QuizService, settingsRepo *repository.SettingsRepository) *QuizHandler {
	return &QuizHandler{
		quizService:  quizService,
		settingsRepo: settingsRepo,
	}
}

// ListThemes returns the word bank themes with their words
func (h *QuizHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, wordbank.Themes())
}

// ListWords returns the word pool, optionally filtered by theme and
// difficulty
func (h *QuizHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	words := wordbank.Words()
	if themes := r.URL.Query().Get("themes"); themes != "" {
		words = wordbank.WordsForThemes(strings.Split(themes, ","))
	}
	if difficulty := r.URL.Query().Get("difficulty"); difficulty != "" {
		words = wordbank.WordsForDifficulty(words, difficulty)
	}
	respondWithJSON(w, http.StatusOK, words)
}

type startQuizRequest struct {
	StudentName string               `json:"studentName"`
	Settings    *models.QuizSettings `json:"settings,omitempty"`
}

type startQuizResponse struct {
	SessionID      string   `json:"sessionId"`
	StudentName    string   `json:"studentName"`
	Words          []string `json:"words"`
	ParagraphID    int      `json:"paragraphId"`
	ParagraphTitle string   `json:"paragraphTitle"`
	Paragraph      string   `json:"paragraph"`
	TotalQuestions int      `json:"totalQuestions"`
}

// StartQuiz creates a new quiz session. Without explicit settings in the
// request the stored quiz configuration is used.
func (h *QuizHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings := models.DefaultQuizSettings()
	if req.Settings != nil {
		settings = *req.Settings
	} else if h.settingsRepo != nil {
		stored, err := h.settingsRepo.GetQuizSettings()
		if err == nil {
			settings = stored
		}
	}

	session, err := h.quizService.StartSession(req.StudentName, settings)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyWordPool),
			errors.Is(err, service.ErrNoParagraph),
			errors.Is(err, service.ErrInvalidQuestionCount):
			respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to start quiz", err)
		}
		return
	}

	paragraph, err := h.quizService.Paragraph(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to start quiz", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, startQuizResponse{
		SessionID:      session.ID,
		StudentName:    session.StudentName,
		Words:          session.SelectedWords,
		ParagraphID:    paragraph.ID,
		ParagraphTitle: paragraph.Title,
		Paragraph:      paragraph.RenderWithBlanks(session.SelectedWords),
		TotalQuestions: session.TotalQuestions,
	})
}

type submitRequest struct {
	Answers map[string]string `json:"answers"`
}

type submitResponse struct {
	Deltas    []models.OutcomeDelta  `json:"deltas"`
	Completed bool                   `json:"completed"`
	Saved     bool                   `json:"saved"`
	Stats     *models.QuizStatistics `json:"stats,omitempty"`
}

// SubmitAnswers checks a batch of answers keyed by word position
func (h *QuizHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	answers := make(map[int]string, len(req.Answers))
	for key, answer := range req.Answers {
		position, err := strconv.Atoi(key)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Answer keys must be word positions", err)
			return
		}
		answers[position] = answer
	}

	result, err := h.quizService.SubmitAnswers(sessionID, answers)
	if err != nil {
		h.respondSessionError(w, err, "Failed to submit answers")
		return
	}

	h.respondSubmitResult(w, sessionID, result)
}

// CompleteQuiz force-completes a session, e.g. when the time limit runs
// out. Incomplete words count as failures.
func (h *QuizHandler) CompleteQuiz(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	result, err := h.quizService.ForceComplete(sessionID)
	if err != nil {
		h.respondSessionError(w, err, "Failed to complete quiz")
		return
	}

	h.respondSubmitResult(w, sessionID, result)
}

func (h *QuizHandler) respondSubmitResult(w http.ResponseWriter, sessionID string, result *service.SubmitResult) {
	resp := submitResponse{
		Deltas:    result.Deltas,
		Completed: result.Completed,
		Saved:     result.Saved,
	}
	if result.Completed {
		if stats, err := h.quizService.GetStatistics(sessionID); err == nil {
			resp.Stats = stats
		}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// GetStatistics returns the final statistics for a completed session
func (h *QuizHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quizService.GetStatistics(r.PathValue("id"))
	if err != nil {
		h.respondSessionError(w, err, "Failed to load statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *QuizHandler) respondSessionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondWithError(w, http.StatusNotFound, "Session not found", nil)
	case errors.Is(err, service.ErrSessionCompleted):
		respondWithError(w, http.StatusConflict, "Session already completed", nil)
	case errors.Is(err, service.ErrSessionActive):
		respondWithError(w, http.StatusConflict, "Session not yet completed", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, fallback, err)
	}
}

// GetQuizSettings returns the stored quiz configuration
func (h *QuizHandler) GetQuizSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsRepo.GetQuizSettings()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// SaveQuizSettings stores the quiz configuration
func (h *QuizHandler) SaveQuizSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.QuizSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !settings.DifficultyLevel.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid difficulty level", nil)
		return
	}
	if settings.NumberOfWords <= 0 {
		respondWithError(w, http.StatusBadRequest, "Number of words must be positive", nil)
		return
	}

	if err := h.settingsRepo.SaveQuizSettings(settings); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}
