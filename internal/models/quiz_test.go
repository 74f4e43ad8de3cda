package models

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name           string
		correct, total int
		want           int
	}{
		{"perfect", 15, 15, 100},
		{"zero questions", 0, 0, 0},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := QuizSession{TotalCorrect: tt.correct, TotalQuestions: tt.total}
			if got := s.Percentage(); got != tt.want {
				t.Errorf("Percentage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{3605, "60:05"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
