package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	sentimentStep = decimal.RequireFromString("0.1")
	sentimentMax  = decimal.NewFromInt(1)
	sentimentMin  = decimal.NewFromInt(-1)
)

// KeywordScorer scores a headline by counting positive and negative keywords.
type KeywordScorer struct {
	positive []string
	negative []string
}

// NewKeywordScorer creates a scorer for the given word lists. Empty words are ignored.
func NewKeywordScorer(positive, negative []string) *KeywordScorer {
	return &KeywordScorer{
		positive: compact(positive),
		negative: compact(negative),
	}
}

// Score returns 0.1 per distinct positive word contained in text, minus 0.1
// per distinct negative word, clamped to [-1, 1].
func (s *KeywordScorer) Score(text string) float64 {
	score := decimal.Zero
	for _, word := range s.positive {
		if strings.Contains(text, word) {
			score = score.Add(sentimentStep)
		}
	}
	for _, word := range s.negative {
		if strings.Contains(text, word) {
			score = score.Sub(sentimentStep)
		}
	}

	if score.GreaterThan(sentimentMax) {
		score = sentimentMax
	}
	if score.LessThan(sentimentMin) {
		score = sentimentMin
	}
	return score.InexactFloat64()
}

// Mean averages scores, 0 for an empty slice.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range scores {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Div(decimal.NewFromInt(int64(len(scores)))).InexactFloat64()
}

func compact(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
