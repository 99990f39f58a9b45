package comments

import (
	"strings"
)

// scoreIncrement is added to the spam score for every matched keyword.
// Five or more matches push the score past 1.0; that is read as very
// high confidence, not an error.
const scoreIncrement = 0.2

// defaultSpamKeywords are the promotional and scam phrases the
// classifier looks for. Matching is case-insensitive substring.
var defaultSpamKeywords = []string{
	"free money",
	"click here",
	"buy now",
	"promo code",
	"crypto giveaway",
	"guaranteed win",
	"betting tips",
	"100% profit",
	"casino",
	"lottery winner",
	"work from home",
	"dm me",
	"t.me/",
	"wa.me/",
}

// Classifier assigns a deterministic heuristic spam score to content.
type Classifier struct {
	keywords []string
}

// NewClassifier creates a classifier with the default keyword set.
func NewClassifier() *Classifier {
	return NewClassifierWithKeywords(defaultSpamKeywords)
}

// NewClassifierWithKeywords creates a classifier with a custom keyword
// set. Keywords are matched lowercased.
func NewClassifierWithKeywords(keywords []string) *Classifier {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &Classifier{keywords: lowered}
}

// Score returns the spam score for content. Each keyword found as a
// substring adds a fixed increment; the result is not clamped.
func (c *Classifier) Score(content string) float64 {
	lowered := strings.ToLower(content)
	score := 0.0
	for _, kw := range c.keywords {
		if strings.Contains(lowered, kw) {
			score += scoreIncrement
		}
	}
	return score
}
