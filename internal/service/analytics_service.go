package service

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"spellquiz/internal/models"
)

// SessionFilters narrows the session corpus before aggregation. DateTo is
// expanded to the end of its day; StudentName is a case-insensitive
// substring match; score bounds are inclusive on the raw score.
type SessionFilters struct {
	DateFrom    *time.Time `json:"dateFrom,omitempty"`
	DateTo      *time.Time `json:"dateTo,omitempty"`
	StudentName string     `json:"studentName,omitempty"`
	MinScore    *int       `json:"minScore,omitempty"`
	MaxScore    *int       `json:"maxScore,omitempty"`
}

// SessionSource supplies the completed-session corpus
type SessionSource interface {
	LoadSessions() ([]*models.QuizSession, error)
}

// AnalyticsService turns the session corpus into difficulty, progress and
// class-level reports. Every query is pure with respect to its inputs;
// results are memoized for five minutes per (operation, filters) pair.
type AnalyticsService struct {
	source SessionSource
	cache  *queryCache
}

func NewAnalyticsService(source SessionSource) *AnalyticsService {
	return &AnalyticsService{
		source: source,
		cache:  newQueryCache(),
	}
}

// ClearCache drops every memoized result immediately
func (s *AnalyticsService) ClearCache() {
	s.cache.clear()
}

// FilteredSessions loads the corpus and applies the filters, returning a
// new slice without mutating the stored sessions.
func (s *AnalyticsService) FilteredSessions(filters SessionFilters) ([]*models.QuizSession, error) {
	key := cacheKey("allResults", filters)
	if cached, ok := s.cache.get(key); ok {
		return cached.([]*models.QuizSession), nil
	}

	sessions, err := s.source.LoadSessions()
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	filtered := filterSessions(sessions, filters)
	s.cache.set(key, filtered)
	return filtered, nil
}

func filterSessions(sessions []*models.QuizSession, filters SessionFilters) []*models.QuizSession {
	out := make([]*models.QuizSession, 0, len(sessions))
	searchName := strings.ToLower(filters.StudentName)

	var dayEnd time.Time
	if filters.DateTo != nil {
		y, m, d := filters.DateTo.Date()
		dayEnd = time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), filters.DateTo.Location())
	}

	for _, session := range sessions {
		if filters.DateFrom != nil && session.StartTime.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && session.StartTime.After(dayEnd) {
			continue
		}
		if searchName != "" && !strings.Contains(strings.ToLower(session.StudentName), searchName) {
			continue
		}
		if filters.MinScore != nil && session.TotalCorrect < *filters.MinScore {
			continue
		}
		if filters.MaxScore != nil && session.TotalCorrect > *filters.MaxScore {
			continue
		}
		out = append(out, session)
	}
	return out
}

// wordAccumulator gathers per-word tallies during a difficulty pass
type wordAccumulator struct {
	display          string
	totalAttempts    int
	correctFirstTry  int
	correctSecondTry int
	incorrect        int
	students         map[string]bool
	mistakeCounts    map[string]int
	mistakeOrder     []string
	categories       []string
}

// WordDifficulty aggregates every word outcome in the filtered corpus into
// per-word difficulty statistics, hardest first.
func (s *AnalyticsService) WordDifficulty(filters SessionFilters) ([]models.WordDifficultyStat, error) {
	key := cacheKey("wordDifficulty", filters)
	if cached, ok := s.cache.get(key); ok {
		return cached.([]models.WordDifficultyStat), nil
	}

	sessions, err := s.FilteredSessions(filters)
	if err != nil {
		return nil, err
	}

	stats := computeWordDifficulty(sessions)
	s.cache.set(key, stats)
	return stats, nil
}

func computeWordDifficulty(sessions []*models.QuizSession) []models.WordDifficultyStat {
	accumulators := make(map[string]*wordAccumulator)
	var order []string

	for _, session := range sessions {
		for i := range session.WordOutcomes {
			outcome := &session.WordOutcomes[i]
			lower := strings.ToLower(outcome.Word)

			acc, ok := accumulators[lower]
			if !ok {
				acc = &wordAccumulator{
					display:       outcome.Word,
					students:      make(map[string]bool),
					mistakeCounts: make(map[string]int),
					categories:    categorizeWord(outcome.Word),
				}
				accumulators[lower] = acc
				order = append(order, lower)
			}

			acc.totalAttempts++
			acc.students[studentKey(session.StudentName)] = true
			recordOutcome(acc, outcome)
		}
	}

	stats := make([]models.WordDifficultyStat, 0, len(order))
	for _, lower := range order {
		acc := accumulators[lower]
		successRate := float64(acc.correctFirstTry+acc.correctSecondTry) / float64(acc.totalAttempts)

		stat := models.WordDifficultyStat{
			Word:             acc.display,
			TotalAttempts:    acc.totalAttempts,
			TotalStudents:    len(acc.students),
			CorrectFirstTry:  acc.correctFirstTry,
			CorrectSecondTry: acc.correctSecondTry,
			Incorrect:        acc.incorrect,
			SuccessRate:      successRate,
			DifficultyScore:  int(math.Round((1 - successRate) * 100)),
			CommonMistakes:   topMistakes(acc, 5),
			Categories:       acc.categories,
		}
		stat.TeachingPriority = teachingPriority(stat, len(acc.mistakeCounts))
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].DifficultyScore > stats[j].DifficultyScore
	})
	return stats
}

// recordOutcome counts the outcome and captures the wrong answers worth
// reporting. A word solved on the second try contributes only its first
// wrong answer; a word never solved contributes every wrong answer.
func recordOutcome(acc *wordAccumulator, outcome *models.WordOutcome) {
	if len(outcome.Attempts) == 0 {
		acc.incorrect++
		return
	}

	switch {
	case outcome.Attempts[0].IsCorrect:
		acc.correctFirstTry++
	case len(outcome.Attempts) > 1 && outcome.Attempts[1].IsCorrect:
		acc.correctSecondTry++
		addMistake(acc, outcome.Attempts[0].RawInput)
	default:
		acc.incorrect++
		for _, attempt := range outcome.Attempts {
			if !attempt.IsCorrect {
				addMistake(acc, attempt.RawInput)
			}
		}
	}
}

func addMistake(acc *wordAccumulator, raw string) {
	mistake := strings.ToLower(strings.TrimSpace(raw))
	if _, seen := acc.mistakeCounts[mistake]; !seen {
		acc.mistakeOrder = append(acc.mistakeOrder, mistake)
	}
	acc.mistakeCounts[mistake]++
}

// topMistakes ranks recorded mistakes by frequency, first-seen order
// breaking ties
func topMistakes(acc *wordAccumulator, limit int) []models.MistakeCount {
	mistakes := make([]models.MistakeCount, 0, len(acc.mistakeOrder))
	for _, mistake := range acc.mistakeOrder {
		count := acc.mistakeCounts[mistake]
		mistakes = append(mistakes, models.MistakeCount{
			Mistake:    mistake,
			Count:      count,
			Percentage: float64(count) / float64(acc.totalAttempts) * 100,
		})
	}
	sort.SliceStable(mistakes, func(i, j int) bool {
		return mistakes[i].Count > mistakes[j].Count
	})
	if len(mistakes) > limit {
		mistakes = mistakes[:limit]
	}
	return mistakes
}

// teachingPriority scores how urgently a word needs classroom attention,
// from 0 (fine) to 5 (teach now).
func teachingPriority(stat models.WordDifficultyStat, distinctMistakes int) int {
	priority := 0

	switch {
	case stat.TotalStudents >= 5 && stat.SuccessRate < 0.6:
		priority += 3
	case stat.TotalStudents >= 3 && stat.SuccessRate < 0.7:
		priority += 2
	case stat.SuccessRate < 0.8:
		priority++
	}

	if stat.TotalAttempts >= 10 {
		priority++
	}
	if distinctMistakes >= 3 {
		priority++
	}

	if priority > 5 {
		priority = 5
	}
	return priority
}

var (
	tionEndingRe   = regexp.MustCompile(`tion$`)
	sionEndingRe   = regexp.MustCompile(`sion$`)
	doubleLetterRe = regexp.MustCompile(`([a-z])\1`)
	vowelPairRe    = regexp.MustCompile(`[aeiou][aeiou]`)
	silentEndRe    = regexp.MustCompile(`[lmn]b$`)
)

// categorizeWord tags a word with the spelling patterns it exhibits
func categorizeWord(word string) []string {
	lower := strings.ToLower(word)
	var categories []string

	if tionEndingRe.MatchString(lower) {
		categories = append(categories, "tion-endings")
	}
	if sionEndingRe.MatchString(lower) {
		categories = append(categories, "sion-endings")
	}
	if strings.Contains(lower, "ough") {
		categories = append(categories, "ough-pattern")
	}
	if strings.Contains(lower, "eigh") {
		categories = append(categories, "eigh-pattern")
	}
	if doubleLetterRe.MatchString(lower) {
		categories = append(categories, "double-letters")
	}
	if vowelPairRe.MatchString(lower) {
		categories = append(categories, "vowel-pairs")
	}
	if strings.Contains(lower, "ph") {
		categories = append(categories, "ph-sound")
	}
	if silentEndRe.MatchString(lower) || strings.HasPrefix(lower, "kn") {
		categories = append(categories, "silent-letters")
	}
	return categories
}

func studentKey(name string) string {
	if name == "" {
		return "Anonymous"
	}
	return name
}

// StudentProgress builds a progress report for one student. Returns nil
// when the student has no sessions in scope.
func (s *AnalyticsService) StudentProgress(studentName string, filters SessionFilters) (*models.StudentProgress, error) {
	key := cacheKey("studentProgress_"+studentName, filters)
	if cached, ok := s.cache.get(key); ok {
		return cached.(*models.StudentProgress), nil
	}

	scoped := filters
	scoped.StudentName = studentName
	sessions, err := s.FilteredSessions(scoped)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	ordered := make([]*models.QuizSession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	progress := &models.StudentProgress{
		StudentName:     studentName,
		TotalQuizzes:    len(ordered),
		FirstQuizAt:     ordered[0].StartTime,
		LastQuizAt:      ordered[len(ordered)-1].StartTime,
		OverallProgress: overallProgress(ordered),
		ScoreProgress:   scoreProgress(ordered),
	}
	progress.Strengths, progress.Weaknesses = strengthsAndWeaknesses(ordered)
	progress.Recommendations = studentRecommendations(progress)

	s.cache.set(key, progress)
	return progress, nil
}

// overallProgress compares the mean raw score of the first quartile of
// sessions against the last quartile. Needs at least two sessions.
func overallProgress(ordered []*models.QuizSession) *models.ProgressTrend {
	if len(ordered) < 2 {
		return nil
	}

	quarter := (len(ordered) + 3) / 4
	firstAvg := meanScore(ordered[:quarter])
	lastAvg := meanScore(ordered[len(ordered)-quarter:])

	trend := "stable"
	if lastAvg > firstAvg {
		trend = "improving"
	} else if lastAvg < firstAvg {
		trend = "declining"
	}

	improvementPct := 0.0
	if firstAvg != 0 {
		improvementPct = (lastAvg - firstAvg) / firstAvg * 100
	}

	return &models.ProgressTrend{
		Improvement:           lastAvg - firstAvg,
		ImprovementPercentage: improvementPct,
		Trend:                 trend,
	}
}

func meanScore(sessions []*models.QuizSession) float64 {
	sum := 0
	for _, session := range sessions {
		sum += session.TotalCorrect
	}
	return float64(sum) / float64(len(sessions))
}

func scoreProgress(ordered []*models.QuizSession) []models.ScorePoint {
	points := make([]models.ScorePoint, len(ordered))
	for i, session := range ordered {
		points[i] = models.ScorePoint{
			QuizNumber: i + 1,
			Date:       session.StartTime,
			Score:      session.TotalCorrect,
			TotalWords: session.TotalQuestions,
			Percentage: session.Percentage(),
			TimeSpent:  session.TotalTimeSeconds,
		}
	}
	return points
}

// strengthsAndWeaknesses classifies the student's words by success rate.
// Both lists require at least two attempts per word.
func strengthsAndWeaknesses(sessions []*models.QuizSession) (strengths, weaknesses []models.WordPerformance) {
	type tally struct {
		display string
		correct int
		total   int
	}
	tallies := make(map[string]*tally)
	var order []string

	for _, session := range sessions {
		for i := range session.WordOutcomes {
			outcome := &session.WordOutcomes[i]
			lower := strings.ToLower(outcome.Word)
			t, ok := tallies[lower]
			if !ok {
				t = &tally{display: outcome.Word}
				tallies[lower] = t
				order = append(order, lower)
			}
			t.total++
			if outcome.Correct {
				t.correct++
			}
		}
	}

	for _, lower := range order {
		t := tallies[lower]
		if t.total < 2 {
			continue
		}
		rate := float64(t.correct) / float64(t.total)
		perf := models.WordPerformance{
			Word:          t.display,
			SuccessRate:   int(math.Round(rate * 100)),
			TotalAttempts: t.total,
		}
		if rate > 0.8 {
			strengths = append(strengths, perf)
		} else if rate < 0.6 {
			weaknesses = append(weaknesses, perf)
		}
	}

	sort.SliceStable(strengths, func(i, j int) bool {
		return strengths[i].SuccessRate > strengths[j].SuccessRate
	})
	sort.SliceStable(weaknesses, func(i, j int) bool {
		return weaknesses[i].SuccessRate < weaknesses[j].SuccessRate
	})
	return strengths, weaknesses
}

func studentRecommendations(progress *models.StudentProgress) []models.Recommendation {
	var recommendations []models.Recommendation

	if progress.OverallProgress != nil {
		switch progress.OverallProgress.Trend {
		case "improving":
			recommendations = append(recommendations, models.Recommendation{
				Type:     "positive",
				Message:  "Great progress! Continue with current learning strategies.",
				Priority: "low",
			})
		case "declining":
			recommendations = append(recommendations, models.Recommendation{
				Type:     "concern",
				Message:  "Consider reviewing fundamental spelling patterns and providing additional support.",
				Priority: "high",
			})
		}
	}

	if len(progress.Weaknesses) > 5 {
		focus := make([]string, 0, 3)
		for _, w := range progress.Weaknesses[:3] {
			focus = append(focus, w.Word)
		}
		recommendations = append(recommendations, models.Recommendation{
			Type:     "focus",
			Message:  "Focus on practicing these challenging words: " + strings.Join(focus, ", "),
			Priority: "medium",
		})
	}

	if len(progress.Strengths) > 5 {
		recommendations = append(recommendations, models.Recommendation{
			Type:     "strength",
			Message:  "Strong performance on complex words. Ready for more challenging vocabulary.",
			Priority: "low",
		})
	}

	return recommendations
}

// ClassReport combines summary, per-student ranking, word analysis, weekly
// trends and recommendations for the filtered corpus. Returns nil when no
// sessions match.
func (s *AnalyticsService) ClassReport(filters SessionFilters) (*models.ClassReport, error) {
	key := cacheKey("classReport", filters)
	if cached, ok := s.cache.get(key); ok {
		return cached.(*models.ClassReport), nil
	}

	sessions, err := s.FilteredSessions(filters)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	wordAnalysis, err := s.WordDifficulty(filters)
	if err != nil {
		return nil, err
	}

	report := &models.ClassReport{
		Summary:            classSummary(sessions),
		StudentPerformance: classStudentPerformance(sessions),
		WordAnalysis:       wordAnalysis,
		Trends:             weeklyTrends(sessions),
		Recommendations:    classRecommendations(sessions, wordAnalysis),
	}

	s.cache.set(key, report)
	return report, nil
}

func classSummary(sessions []*models.QuizSession) models.ClassSummary {
	students := make(map[string]bool)
	scoreSum, pctSum, timeSum := 0, 0, 0
	from, to := sessions[0].StartTime, sessions[0].StartTime

	for _, session := range sessions {
		students[studentKey(session.StudentName)] = true
		scoreSum += session.TotalCorrect
		pctSum += session.Percentage()
		timeSum += session.TotalTimeSeconds
		if session.StartTime.Before(from) {
			from = session.StartTime
		}
		if session.StartTime.After(to) {
			to = session.StartTime
		}
	}

	n := float64(len(sessions))
	return models.ClassSummary{
		TotalStudents:     len(students),
		TotalQuizzes:      len(sessions),
		AverageScore:      math.Round(float64(scoreSum)/n*100) / 100,
		AveragePercentage: int(math.Round(float64(pctSum) / n)),
		AverageTimeSpent:  int(math.Round(float64(timeSum) / n)),
		From:              from,
		To:                to,
	}
}

func classStudentPerformance(sessions []*models.QuizSession) []models.StudentSummary {
	type record struct {
		name     string
		sessions []*models.QuizSession
	}
	records := make(map[string]*record)
	var order []string

	for _, session := range sessions {
		name := studentKey(session.StudentName)
		r, ok := records[name]
		if !ok {
			r = &record{name: name}
			records[name] = r
			order = append(order, name)
		}
		r.sessions = append(r.sessions, session)
	}

	summaries := make([]models.StudentSummary, 0, len(order))
	for _, name := range order {
		r := records[name]
		sort.SliceStable(r.sessions, func(i, j int) bool {
			return r.sessions[i].StartTime.Before(r.sessions[j].StartTime)
		})

		pctSum := 0
		for _, session := range r.sessions {
			pctSum += session.Percentage()
		}

		summary := models.StudentSummary{
			Name:              name,
			TotalQuizzes:      len(r.sessions),
			AveragePercentage: int(math.Round(float64(pctSum) / float64(len(r.sessions)))),
			LastQuizAt:        r.sessions[len(r.sessions)-1].StartTime,
		}
		if len(r.sessions) >= 2 {
			summary.Improvement = r.sessions[len(r.sessions)-1].Percentage() - r.sessions[0].Percentage()
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].AveragePercentage > summaries[j].AveragePercentage
	})
	return summaries
}

// weeklyTrends buckets sessions into Sunday-start weeks
func weeklyTrends(sessions []*models.QuizSession) []models.WeeklyTrend {
	type bucket struct {
		start    time.Time
		ratioSum float64
		quizzes  int
		students map[string]bool
	}
	buckets := make(map[string]*bucket)

	for _, session := range sessions {
		y, m, d := session.StartTime.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, session.StartTime.Location())
		weekStart := day.AddDate(0, 0, -int(day.Weekday()))
		key := weekStart.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: weekStart, students: make(map[string]bool)}
			buckets[key] = b
		}
		b.quizzes++
		b.students[studentKey(session.StudentName)] = true
		if session.TotalQuestions > 0 {
			b.ratioSum += float64(session.TotalCorrect) / float64(session.TotalQuestions)
		}
	}

	trends := make([]models.WeeklyTrend, 0, len(buckets))
	for _, b := range buckets {
		trends = append(trends, models.WeeklyTrend{
			WeekStart:      b.start,
			TotalQuizzes:   b.quizzes,
			UniqueStudents: len(b.students),
			AverageScore:   int(math.Round(b.ratioSum / float64(b.quizzes) * 100)),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].WeekStart.Before(trends[j].WeekStart)
	})
	return trends
}

func classRecommendations(sessions []*models.QuizSession, wordAnalysis []models.WordDifficultyStat) []models.Recommendation {
	var recommendations []models.Recommendation

	ratioSum := 0.0
	for _, session := range sessions {
		if session.TotalQuestions > 0 {
			ratioSum += float64(session.TotalCorrect) / float64(session.TotalQuestions)
		}
	}
	classAverage := ratioSum / float64(len(sessions))

	if classAverage < 0.7 {
		recommendations = append(recommendations, models.Recommendation{
			Type:     "concern",
			Message:  "Class average below 70%. Consider reviewing fundamental spelling strategies.",
			Priority: "high",
		})
	} else if classAverage > 0.85 {
		recommendations = append(recommendations, models.Recommendation{
			Type:     "success",
			Message:  "Excellent class performance! Ready for more challenging vocabulary.",
			Priority: "low",
		})
	}

	var difficult []string
	for _, stat := range wordAnalysis {
		if stat.DifficultyScore > 60 {
			difficult = append(difficult, stat.Word)
			if len(difficult) == 5 {
				break
			}
		}
	}
	if len(difficult) > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:     "focus",
			Message:  "Focus on these challenging words: " + strings.Join(difficult, ", "),
			Priority: "medium",
		})
	}

	return recommendations
}

// TeachingFocusWords returns the highest-priority words (priority 3 and
// up) with suggested classroom approaches, capped at limit.
func (s *AnalyticsService) TeachingFocusWords(filters SessionFilters, limit int) ([]models.TeachingFocusWord, error) {
	stats, err := s.WordDifficulty(filters)
	if err != nil {
		return nil, err
	}

	var focus []models.TeachingFocusWord
	for _, stat := range stats {
		if stat.TeachingPriority < 3 {
			continue
		}
		focus = append(focus, models.TeachingFocusWord{
			Word:             stat.Word,
			DifficultyScore:  stat.DifficultyScore,
			SuccessRate:      stat.SuccessRate,
			TotalAttempts:    stat.TotalAttempts,
			TotalStudents:    stat.TotalStudents,
			CommonMistakes:   stat.CommonMistakes,
			Categories:       stat.Categories,
			TeachingPriority: stat.TeachingPriority,
			Approaches:       teachingApproaches(stat),
		})
	}

	sort.SliceStable(focus, func(i, j int) bool {
		return focus[i].TeachingPriority > focus[j].TeachingPriority
	})
	if limit > 0 && len(focus) > limit {
		focus = focus[:limit]
	}
	return focus, nil
}

func teachingApproaches(stat models.WordDifficultyStat) []string {
	var approaches []string
	has := func(category string) bool {
		for _, c := range stat.Categories {
			if c == category {
				return true
			}
		}
		return false
	}

	if has("silent-letters") {
		approaches = append(approaches, "Focus on visual memory and word structure")
	}
	if has("double-letters") {
		approaches = append(approaches, "Practice identifying double letter patterns")
	}
	if has("tion-endings") || has("sion-endings") {
		approaches = append(approaches, "Teach suffix rules and word families")
	}
	if len(stat.CommonMistakes) > 0 {
		approaches = append(approaches, fmt.Sprintf("Address common mistake: %q", stat.CommonMistakes[0].Mistake))
	}

	if len(approaches) == 0 {
		approaches = []string{"Practice with context and repetition"}
	}
	return approaches
}
