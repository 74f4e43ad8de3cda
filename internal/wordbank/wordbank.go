// Package wordbank holds the Year 5/6 spelling curriculum word pool and the
// paragraph templates quizzes are built from.
package wordbank

import "strings"

// Theme groups words by their spelling pattern
type Theme struct {
	ID    string
	Name  string
	Words []string
}

// Themes lists every word category in curriculum order
func Themes() []Theme {
	return []Theme{
		{ID: "silent-letters", Name: "Silent letters", Words: []string{
			"island", "castle", "listen", "fasten", "whistle",
			"muscle", "knight", "write", "knee", "lamb",
			"thumb", "comb", "debt", "doubt", "climb",
		}},
		{ID: "cious-tious", Name: "Words ending -cious or -tious", Words: []string{
			"vicious", "precious", "conscious", "delicious", "spacious",
			"gracious", "cautious", "ambitious", "nutritious", "infectious",
			"suspicious", "fictitious", "superstitious",
		}},
		{ID: "cial-tial", Name: "Words ending -cial or -tial", Words: []string{
			"official", "special", "social", "crucial", "commercial",
			"essential", "potential", "partial", "initial", "martial",
			"spatial", "substantial", "residential",
		}},
		{ID: "ei-after-c", Name: "ei after c", Words: []string{
			"receive", "deceive", "conceive", "perceive", "ceiling",
			"receipt", "deceit", "conceit",
		}},
		{ID: "ant-ent", Name: "Words ending -ant, -ent and their noun forms", Words: []string{
			"relevant", "tolerant", "observant", "expectant", "hesitant",
			"confident", "incident", "accident", "excellent", "frequent",
			"independence", "correspondence", "existence", "persistence",
			"assistance", "resistance", "acceptance", "appearance",
			"performance", "ignorance", "significance", "tolerance",
			"audience", "evidence", "violence", "silence",
		}},
		{ID: "able-ible", Name: "Words ending -able and -ible", Words: []string{
			"adorable", "applicable", "considerable", "tolerable", "changeable",
			"noticeable", "forcible", "legible", "credible", "incredible",
			"edible", "visible", "terrible", "horrible", "possible",
			"responsible", "sensible", "defensible",
		}},
		{ID: "ably-ibly", Name: "Words ending -ably and -ibly", Words: []string{
			"probably", "adorably", "considerably", "changeably", "noticeably",
			"forcibly", "legibly", "incredibly", "possibly", "terribly",
			"horribly", "sensibly", "responsibly",
		}},
		{ID: "fer", Name: "Suffixes after -fer", Words: []string{
			"referring", "referred", "referral", "preferring", "preferred",
			"transferring", "transferred", "reference", "preference",
			"transference", "conference", "interference",
		}},
		{ID: "hyphenated", Name: "Hyphenated words", Words: []string{
			"co-ordinate", "re-enter", "re-examine", "co-operate",
			"co-own", "ex-teacher", "ex-president",
		}},
		{ID: "dictation", Name: "Statutory dictation words", Words: []string{
			"achieve", "aggressive", "amateur", "ancient", "apparent",
			"appreciate", "attached", "available", "average", "awkward",
			"bargain", "bruise", "category", "cemetery", "committee",
			"communicate", "community", "competition", "conscience", "conscious",
			"controversy", "convenience", "correspond", "criticise", "curiosity",
			"definite", "desperate", "determined", "develop", "dictionary",
			"disastrous", "embarrass", "environment", "equip", "especially",
			"exaggerate", "excellent", "existence", "explanation", "familiar",
			"foreign", "forty", "frequently", "government", "guarantee",
			"harass", "hindrance", "identity", "immediately", "individual",
			"interfere", "interrupt", "language", "leisure", "lightning",
			"marvellous", "mischievous", "muscle", "necessary", "neighbour",
			"nuisance", "occupy", "occur", "opportunity", "parliament",
			"persuade", "physical", "prejudice", "privilege", "profession",
			"programme", "pronunciation", "queue", "recognise", "recommend",
			"relevant", "restaurant", "rhyme", "rhythm", "sacrifice",
			"secretary", "shoulder", "signature", "sincere", "soldier",
			"stomach", "sufficient", "suggest", "symbol", "system",
			"temperature", "thorough", "twelfth", "variety", "vegetable",
			"vehicle", "yacht",
		}},
	}
}

// Words returns the deduplicated flat word pool, preserving the order in
// which each word first appears across the themes.
func Words() []string {
	return wordsForThemes(nil)
}

// WordsForThemes returns the deduplicated word pool limited to the given
// theme IDs. An empty slice means all themes.
func WordsForThemes(themeIDs []string) []string {
	return wordsForThemes(themeIDs)
}

func wordsForThemes(themeIDs []string) []string {
	include := func(string) bool { return true }
	if len(themeIDs) > 0 {
		wanted := make(map[string]bool, len(themeIDs))
		for _, id := range themeIDs {
			wanted[strings.ToLower(id)] = true
		}
		include = func(id string) bool { return wanted[id] }
	}

	seen := make(map[string]bool)
	var words []string
	for _, theme := range Themes() {
		if !include(theme.ID) {
			continue
		}
		for _, word := range theme.Words {
			if seen[word] {
				continue
			}
			seen[word] = true
			words = append(words, word)
		}
	}
	return words
}

// Complexity scores a word's spelling difficulty. Longer words, silent
// letter patterns, double letters, complex endings and irregular digraphs
// all add to the score.
func Complexity(word string) int {
	w := strings.ToLower(word)
	score := 0

	if len(w) >= 8 {
		score += 2
	} else if len(w) >= 6 {
		score++
	}

	for _, pattern := range []string{"ght", "kn", "wr", "mb", "st", "lk"} {
		if strings.Contains(w, pattern) {
			score += 2
			break
		}
	}

	for i := 1; i < len(w); i++ {
		if w[i] == w[i-1] {
			score++
			break
		}
	}

	for _, ending := range []string{"tion", "sion", "ough", "augh", "eigh"} {
		if strings.HasSuffix(w, ending) {
			score += 2
			break
		}
	}

	for _, pattern := range []string{"ph", "gh", "ch", "sh", "th", "qu"} {
		if strings.Contains(w, pattern) {
			score++
		}
	}

	return score
}

// Difficulty classifies a word as "easy", "medium" or "hard"
func Difficulty(word string) string {
	score := Complexity(word)
	switch {
	case score >= 4:
		return "hard"
	case score >= 2:
		return "medium"
	default:
		return "easy"
	}
}

// WordsForDifficulty filters the pool down to one difficulty band.
// "mixed" (or an unknown band) returns the whole pool.
func WordsForDifficulty(pool []string, level string) []string {
	switch level {
	case "easy", "medium", "hard":
	default:
		return pool
	}

	var words []string
	for _, word := range pool {
		if Difficulty(word) == level {
			words = append(words, word)
		}
	}
	return words
}
