package service

import "testing"

func TestValidateExactAndNormalized(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		answer  string
		correct string
		want    bool
	}{
		{"exact match", "beautiful", "beautiful", true},
		{"case insensitive", "BeAuTiFuL", "beautiful", true},
		{"surrounding whitespace", "  beautiful  ", "beautiful", true},
		{"empty answer", "", "beautiful", false},
		{"whitespace only", "   ", "beautiful", false},
		{"different word", "wonderful", "beautiful", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Validate(tt.answer, tt.correct); got != tt.want {
				t.Errorf("Validate(%q, %q) = %v, want %v", tt.answer, tt.correct, got, tt.want)
			}
		})
	}
}

func TestValidateAlternativeSpellings(t *testing.T) {
	v := NewValidator()

	pairs := [][2]string{
		{"grey", "gray"},
		{"centre", "center"},
		{"colour", "color"},
		{"favour", "favor"},
		{"honour", "honor"},
	}

	for _, pair := range pairs {
		if !v.Validate(pair[0], pair[1]) {
			t.Errorf("Validate(%q, %q) = false, want true", pair[0], pair[1])
		}
		if !v.Validate(pair[1], pair[0]) {
			t.Errorf("Validate(%q, %q) = false, want true", pair[1], pair[0])
		}
	}
}

func TestValidateAddEquivalence(t *testing.T) {
	v := NewValidator()

	if v.Validate("theatre", "theater") {
		t.Fatal("expected theatre/theater to be unknown before registration")
	}

	v.AddEquivalence("theatre", "theater")

	if !v.Validate("theatre", "theater") {
		t.Error("Validate(theatre, theater) = false after AddEquivalence")
	}
	if !v.Validate("theater", "theatre") {
		t.Error("equivalence should apply in both directions")
	}
}

func TestValidateNearMiss(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		correct string
		want    bool
	}{
		{"single substitution", "beautivul", "beautiful", true},
		{"substitution at first position", "xeautiful", "beautiful", true},
		{"substitution at last position", "beautifux", "beautiful", true},
		{"two substitutions", "beautivux", "beautiful", false},
		{"trailing extra letter", "beautifull", "beautiful", true},
		{"trailing missing letter", "beautifu", "beautiful", true},
		{"length differs by two", "beautifulll", "beautiful", false},
		{"short word no tolerance", "cet", "cat", false},
		{"four letters no tolerance", "wird", "word", false},
		{"five letters gets tolerance", "hporse", "horse", false},
		{"five letter substitution", "horze", "horse", true},
		// A transposition is two positional mismatches, not one edit
		{"transposition fails", "recieve", "receive", false},
		// kn shifts every letter, so each position mismatches
		{"missing silent letter fails", "night", "knight", false},
		{"completely wrong", "elephant", "beautiful", false},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Validate(tt.answer, tt.correct); got != tt.want {
				t.Errorf("Validate(%q, %q) = %v, want %v", tt.answer, tt.correct, got, tt.want)
			}
		})
	}
}

func TestValidateEverySubstitutionPosition(t *testing.T) {
	v := NewValidator()
	correct := "spelling"

	for i := 0; i < len(correct); i++ {
		answer := []byte(correct)
		answer[i] = '#'
		if !v.Validate(string(answer), correct) {
			t.Errorf("Validate(%q, %q) = false, want true", answer, correct)
		}
	}
}
