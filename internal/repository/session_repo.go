package repository

import (
	"database/sql"
	"fmt"

	"spellquiz/internal/database"
	"spellquiz/internal/models"
)

// SessionRepository handles quiz session database operations
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// SaveSession persists a completed session with its word outcomes and
// attempts in a single transaction
func (r *SessionRepository) SaveSession(session *models.QuizSession) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO quiz_sessions (id, student_name, start_time, end_time, total_questions,
		       paragraph_id, paragraph_title, difficulty, total_correct,
		       first_attempt_correct, second_attempt_correct, total_time_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		session.ID, session.StudentName, session.StartTime, session.EndTime,
		session.TotalQuestions, session.ParagraphID, session.ParagraphTitle,
		session.Difficulty, session.TotalCorrect, session.FirstAttemptCorrect,
		session.SecondAttemptCorrect, session.TotalTimeSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i := range session.WordOutcomes {
		outcome := &session.WordOutcomes[i]
		outcomeID, err := tx.ExecReturningID(`
			INSERT INTO word_outcomes (session_id, word, position, correct,
			       first_attempt_correct, second_attempt_correct, completed, time_spent_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			session.ID, outcome.Word, outcome.Position, outcome.Correct,
			outcome.FirstAttemptCorrect, outcome.SecondAttemptCorrect,
			outcome.Completed, outcome.TimeSpentSeconds,
		)
		if err != nil {
			return fmt.Errorf("insert word outcome: %w", err)
		}
		outcome.ID = outcomeID

		for j := range outcome.Attempts {
			attempt := &outcome.Attempts[j]
			attemptID, err := tx.ExecReturningID(`
				INSERT INTO word_attempts (outcome_id, word, attempt_index, raw_input, is_correct, attempted_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`,
				outcomeID, attempt.Word, attempt.AttemptIndex,
				attempt.RawInput, attempt.IsCorrect, attempt.AttemptedAt,
			)
			if err != nil {
				return fmt.Errorf("insert word attempt: %w", err)
			}
			attempt.ID = attemptID
			attempt.OutcomeID = outcomeID
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// LoadSessions retrieves every stored session with its outcomes and
// attempts, ordered by start time
func (r *SessionRepository) LoadSessions() ([]*models.QuizSession, error) {
	rows, err := r.db.Query(`
		SELECT id, student_name, start_time, end_time, total_questions,
		       paragraph_id, paragraph_title, difficulty, total_correct,
		       first_attempt_correct, second_attempt_correct, total_time_seconds
		FROM quiz_sessions
		ORDER BY start_time
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.QuizSession
	index := make(map[string]*models.QuizSession)

	for rows.Next() {
		session := &models.QuizSession{}
		var endTime sql.NullTime
		err := rows.Scan(
			&session.ID, &session.StudentName, &session.StartTime, &endTime,
			&session.TotalQuestions, &session.ParagraphID, &session.ParagraphTitle,
			&session.Difficulty, &session.TotalCorrect, &session.FirstAttemptCorrect,
			&session.SecondAttemptCorrect, &session.TotalTimeSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if endTime.Valid {
			session.EndTime = &endTime.Time
		}
		sessions = append(sessions, session)
		index[session.ID] = session
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadOutcomes(index); err != nil {
		return nil, err
	}

	for _, session := range sessions {
		session.SelectedWords = make([]string, 0, len(session.WordOutcomes))
		for i := range session.WordOutcomes {
			session.SelectedWords = append(session.SelectedWords, session.WordOutcomes[i].Word)
		}
	}
	return sessions, nil
}

func (r *SessionRepository) loadOutcomes(index map[string]*models.QuizSession) error {
	if len(index) == 0 {
		return nil
	}

	rows, err := r.db.Query(`
		SELECT id, session_id, word, position, correct,
		       first_attempt_correct, second_attempt_correct, completed, time_spent_seconds
		FROM word_outcomes
		ORDER BY session_id, position
	`)
	if err != nil {
		return fmt.Errorf("query word outcomes: %w", err)
	}
	defer rows.Close()

	outcomeIndex := make(map[int64]*outcomeRef)
	for rows.Next() {
		outcome := models.WordOutcome{}
		err := rows.Scan(
			&outcome.ID, &outcome.SessionID, &outcome.Word, &outcome.Position,
			&outcome.Correct, &outcome.FirstAttemptCorrect, &outcome.SecondAttemptCorrect,
			&outcome.Completed, &outcome.TimeSpentSeconds,
		)
		if err != nil {
			return fmt.Errorf("scan word outcome: %w", err)
		}

		session, ok := index[outcome.SessionID]
		if !ok {
			continue
		}
		session.WordOutcomes = append(session.WordOutcomes, outcome)
		outcomeIndex[outcome.ID] = &outcomeRef{
			session:  session,
			position: len(session.WordOutcomes) - 1,
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return r.loadAttempts(outcomeIndex)
}

// outcomeRef addresses an outcome inside its session's slice, since
// appending may have moved it
type outcomeRef struct {
	session  *models.QuizSession
	position int
}

func (r *SessionRepository) loadAttempts(outcomeIndex map[int64]*outcomeRef) error {
	if len(outcomeIndex) == 0 {
		return nil
	}

	rows, err := r.db.Query(`
		SELECT id, outcome_id, word, attempt_index, raw_input, is_correct, attempted_at
		FROM word_attempts
		ORDER BY outcome_id, attempt_index
	`)
	if err != nil {
		return fmt.Errorf("query word attempts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		attempt := models.WordAttemptRecord{}
		err := rows.Scan(
			&attempt.ID, &attempt.OutcomeID, &attempt.Word, &attempt.AttemptIndex,
			&attempt.RawInput, &attempt.IsCorrect, &attempt.AttemptedAt,
		)
		if err != nil {
			return fmt.Errorf("scan word attempt: %w", err)
		}

		ref, ok := outcomeIndex[attempt.OutcomeID]
		if !ok {
			continue
		}
		outcome := &ref.session.WordOutcomes[ref.position]
		outcome.Attempts = append(outcome.Attempts, attempt)
	}
	return rows.Err()
}

// DeleteSession removes a session and its child rows
func (r *SessionRepository) DeleteSession(sessionID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM word_attempts
		WHERE outcome_id IN (SELECT id FROM word_outcomes WHERE session_id = ?)
	`, sessionID)
	if err != nil {
		return fmt.Errorf("delete word attempts: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM word_outcomes WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete word outcomes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM quiz_sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return tx.Commit()
}
