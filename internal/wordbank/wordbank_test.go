package wordbank

import "testing"

func TestWordsAreDeduplicatedAndNonEmpty(t *testing.T) {
	words := Words()
	if len(words) == 0 {
		t.Fatal("word pool should not be empty")
	}

	seen := make(map[string]bool)
	for _, word := range words {
		if word == "" {
			t.Error("word pool contains an empty string")
		}
		if seen[word] {
			t.Errorf("word %q appears twice", word)
		}
		seen[word] = true
	}
}

func TestWordsForThemes(t *testing.T) {
	all := Words()
	silent := WordsForThemes([]string{"silent-letters"})

	if len(silent) == 0 {
		t.Fatal("silent-letters theme should have words")
	}
	if len(silent) >= len(all) {
		t.Errorf("theme pool (%d) should be smaller than full pool (%d)", len(silent), len(all))
	}

	if got := WordsForThemes([]string{"no-such-theme"}); len(got) != 0 {
		t.Errorf("unknown theme returned %d words, want 0", len(got))
	}

	if got := WordsForThemes(nil); len(got) != len(all) {
		t.Errorf("nil themes returned %d words, want all %d", len(got), len(all))
	}
}

func TestComplexity(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		// 3 letters, no patterns
		{"cat", 0},
		// 6 letters +1, ght pattern +2, gh digraph +1
		{"knight", 4},
		// 9 letters +2, tion ending +2
		{"education", 4},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Complexity(tt.word); got != tt.want {
				t.Errorf("Complexity(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}

func TestDifficultyBands(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"cat", "easy"},
		{"knight", "hard"},
	}

	for _, tt := range tests {
		if got := Difficulty(tt.word); got != tt.want {
			t.Errorf("Difficulty(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestWordsForDifficulty(t *testing.T) {
	pool := []string{"cat", "knight", "dog"}

	easy := WordsForDifficulty(pool, "easy")
	for _, word := range easy {
		if Difficulty(word) != "easy" {
			t.Errorf("easy pool contains %q with difficulty %q", word, Difficulty(word))
		}
	}

	if got := WordsForDifficulty(pool, "mixed"); len(got) != len(pool) {
		t.Errorf("mixed returned %d words, want the full pool of %d", len(got), len(pool))
	}
}
