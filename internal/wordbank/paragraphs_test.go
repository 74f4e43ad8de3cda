package wordbank

import (
	"strings"
	"testing"
)

func TestPlaceholderCount(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     int
	}{
		{"no placeholders", "plain text", 0},
		{"single", "the {0} word", 1},
		{"sequential", "{0} and {1} and {2}", 3},
		{"repeated index", "{0} then {0} again, plus {1}", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paragraph{Template: tt.template}
			if got := p.PlaceholderCount(); got != tt.want {
				t.Errorf("PlaceholderCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPoolParagraphsHaveFifteenPlaceholders(t *testing.T) {
	for _, p := range Paragraphs() {
		if got := p.PlaceholderCount(); got != 15 {
			t.Errorf("paragraph %d (%s) has %d placeholders, want 15", p.ID, p.Title, got)
		}
	}
}

func TestRenderWithBlanks(t *testing.T) {
	p := Paragraph{Template: "A {0} day for a {1} walk."}
	got := p.RenderWithBlanks([]string{"sunny", "long"})
	want := "A [1] _____ day for a [2] ____ walk."
	if got != want {
		t.Errorf("RenderWithBlanks() = %q, want %q", got, want)
	}
}

func TestRenderComplete(t *testing.T) {
	p := Paragraph{Template: "A {0} day for a {1} walk."}
	got := p.RenderComplete([]string{"sunny", "long"})
	want := "A sunny day for a long walk."
	if got != want {
		t.Errorf("RenderComplete() = %q, want %q", got, want)
	}
	if strings.Contains(got, "{") {
		t.Errorf("rendered text still contains a placeholder: %q", got)
	}
}

func TestParagraphsForThemes(t *testing.T) {
	school := ParagraphsForThemes([]string{"school"})
	if len(school) != 1 || school[0].Theme != "school" {
		t.Fatalf("ParagraphsForThemes(school) = %v, want one school paragraph", school)
	}

	if got := ParagraphsForThemes(nil); len(got) != len(Paragraphs()) {
		t.Errorf("nil themes returned %d paragraphs, want all %d", len(got), len(Paragraphs()))
	}

	if got := ParagraphsForThemes([]string{"no-such-theme"}); len(got) != 0 {
		t.Errorf("unknown theme returned %d paragraphs, want 0", len(got))
	}
}
