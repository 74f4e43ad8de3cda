package service

import "strings"

// Validator checks a student's spelling attempt against the target word.
// Matching is case-insensitive and whitespace-trimmed, accepts registered
// alternative spellings, and tolerates a single-character slip on longer
// words.
type Validator struct {
	// alternatives maps a normalized word to the set of spellings accepted
	// in its place. Pairs are registered symmetrically.
	alternatives map[string]map[string]bool
}

// defaultSpellingPairs are the British/American variants accepted out of
// the box.
var defaultSpellingPairs = [][2]string{
	{"grey", "gray"},
	{"centre", "center"},
	{"colour", "color"},
	{"favour", "favor"},
	{"honour", "honor"},
}

// NewValidator creates a validator with the default alternative-spelling
// equivalences registered.
func NewValidator() *Validator {
	v := &Validator{alternatives: make(map[string]map[string]bool)}
	for _, pair := range defaultSpellingPairs {
		v.AddEquivalence(pair[0], pair[1])
	}
	return v
}

// AddEquivalence registers two spellings as interchangeable, in both
// directions.
func (v *Validator) AddEquivalence(a, b string) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" || a == b {
		return
	}
	v.register(a, b)
	v.register(b, a)
}

func (v *Validator) register(key, accepted string) {
	if v.alternatives[key] == nil {
		v.alternatives[key] = make(map[string]bool)
	}
	v.alternatives[key][accepted] = true
}

// Validate reports whether userAnswer is an acceptable spelling of
// correctWord. Three layers apply in order: exact match after
// normalization, alternative-spelling equivalence, then a positional
// one-character tolerance for words of five or more letters whose lengths
// differ by at most one.
//
// The tolerance is a positional comparison, not edit distance: a
// transposition counts as two mismatched positions, and an insertion or
// deletion shifts every following letter, so both fail even though their
// true edit distance is small. Only a single substitution (or a trailing
// extra/missing letter) passes.
func (v *Validator) Validate(userAnswer, correctWord string) bool {
	cleanUser := strings.ToLower(strings.TrimSpace(userAnswer))
	cleanCorrect := strings.ToLower(strings.TrimSpace(correctWord))

	if cleanUser == "" {
		return false
	}

	if cleanUser == cleanCorrect {
		return true
	}

	if v.alternatives[cleanCorrect][cleanUser] {
		return true
	}

	return nearMiss(cleanUser, cleanCorrect)
}

// nearMiss applies the single-character tolerance rule on aligned
// positions, treating out-of-range positions as mismatches.
func nearMiss(user, correct string) bool {
	u := []rune(user)
	c := []rune(correct)

	if abs(len(u)-len(c)) > 1 || len(c) < 5 {
		return false
	}

	maxLen := len(u)
	if len(c) > maxLen {
		maxLen = len(c)
	}

	differences := 0
	for i := 0; i < maxLen; i++ {
		var ur, cr rune
		if i < len(u) {
			ur = u[i]
		}
		if i < len(c) {
			cr = c[i]
		}
		if ur != cr {
			differences++
		}
	}

	return differences <= 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
