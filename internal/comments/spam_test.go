package comments

import (
	"math"
	"testing"
)

func TestClassifierScore(t *testing.T) {
	classifier := NewClassifierWithKeywords([]string{"free money", "casino", "promo code"})

	tests := []struct {
		name     string
		content  string
		expected float64
	}{
		{"clean content", "what a goal from the skipper last night", 0},
		{"one keyword", "check out this casino", 0.2},
		{"case insensitive", "FREE MONEY for everyone", 0.2},
		{"two keywords", "free money at the casino", 0.4},
		{"all keywords", "free money casino promo code", 0.6},
		{"keyword inside word boundary", "promo codes here", 0.2},
		{"empty content", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Score(tt.content)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Score(%q) = %v, want %v", tt.content, got, tt.expected)
			}
		})
	}
}

func TestClassifierScoreCanExceedOne(t *testing.T) {
	keywords := []string{"a1", "b2", "c3", "d4", "e5", "f6"}
	classifier := NewClassifierWithKeywords(keywords)

	// Six matches push the score past 1.0; that is read as very high
	// confidence, not clamped.
	got := classifier.Score("a1 b2 c3 d4 e5 f6")
	if got < 1.0 {
		t.Errorf("Score() = %v, want > 1.0", got)
	}
	if math.Abs(got-1.2) > 1e-9 {
		t.Errorf("Score() = %v, want 1.2", got)
	}
}

func TestClassifierDeterministic(t *testing.T) {
	classifier := NewClassifier()
	content := "free money, click here, buy now"
	first := classifier.Score(content)
	for i := 0; i < 10; i++ {
		if got := classifier.Score(content); got != first {
			t.Fatalf("Score() not deterministic: %v != %v", got, first)
		}
	}
}
