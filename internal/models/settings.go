package models

// DifficultyLevel selects which slice of the word bank a quiz draws from
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
	DifficultyMixed  DifficultyLevel = "mixed"
	DifficultyCustom DifficultyLevel = "custom"
)

// Valid reports whether the level is one of the known values
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed, DifficultyCustom:
		return true
	}
	return false
}

// QuizSettings are the teacher-configured quiz parameters
type QuizSettings struct {
	SelectedWords       []string        `json:"selectedWords"` // empty means random selection
	DifficultyLevel     DifficultyLevel `json:"difficultyLevel"`
	NumberOfWords       int             `json:"numberOfWords"`
	SelectedThemes      []string        `json:"selectedThemes"` // empty means all themes
	TimeLimitMinutes    *int            `json:"timeLimitMinutes"`
	EnableSecondChances bool            `json:"enableSecondChances"`
	RandomizeWordOrder  bool            `json:"randomizeWordOrder"`
}

// DefaultQuizSettings returns the settings used when a teacher has not
// configured anything
func DefaultQuizSettings() QuizSettings {
	return QuizSettings{
		SelectedWords:       nil,
		DifficultyLevel:     DifficultyMixed,
		NumberOfWords:       15,
		SelectedThemes:      nil,
		TimeLimitMinutes:    nil,
		EnableSecondChances: true,
		RandomizeWordOrder:  true,
	}
}
