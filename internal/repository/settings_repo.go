package repository

import (
	"encoding/json"
	"fmt"

	"spellquiz/internal/database"
	"spellquiz/internal/models"
)

const quizSettingsKey = "quiz_settings"

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key
func (r *SettingsRepository) GetSetting(key string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	query := r.db.Dialect.UpsertSettings()
	_, err := r.db.Exec(query, key, value)
	return err
}

// GetQuizSettings loads the stored quiz configuration, falling back to
// defaults when nothing has been saved yet
func (r *SettingsRepository) GetQuizSettings() (models.QuizSettings, error) {
	value, err := r.GetSetting(quizSettingsKey)
	if err != nil {
		return models.DefaultQuizSettings(), nil
	}

	var settings models.QuizSettings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return models.DefaultQuizSettings(), fmt.Errorf("decode quiz settings: %w", err)
	}
	return settings, nil
}

// SaveQuizSettings persists the quiz configuration as JSON
func (r *SettingsRepository) SaveQuizSettings(settings models.QuizSettings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode quiz settings: %w", err)
	}
	return r.SetSetting(quizSettingsKey, string(encoded))
}
