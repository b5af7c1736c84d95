// Package news scores headlines with a polarity lexicon and aggregates
// them into a per-asset sentiment reading.
package news

import (
	"strings"
)

// Label classifies an aggregate or single-headline score
type Label string

const (
	LabelBullish Label = "bullish"
	LabelBearish Label = "bearish"
	LabelNeutral Label = "neutral"
)

// HeadlineScore is the classification of one headline
type HeadlineScore struct {
	Score      float64 `json:"score"` // -100..100
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"` // 0..1
}

// Polarity phrase lists. Strong phrases contribute +-30, moderate +-10.
var (
	strongBullish = []string{
		"surge", "soar", "all-time high", "record high", "breakout",
		"rally", "adoption", "etf approval", "institutional buying",
	}
	moderateBullish = []string{
		"gain", "rise", "up", "bullish", "recover", "support holds",
		"accumulation", "upgrade", "partnership",
	}
	strongBearish = []string{
		"crash", "plunge", "collapse", "hack", "exploit", "ban",
		"lawsuit", "bankruptcy", "liquidation", "sec charges",
	}
	moderateBearish = []string{
		"fall", "drop", "down", "bearish", "decline", "sell-off",
		"resistance", "downgrade", "outflow",
	}
	negations = []string{
		"not", "no", "never", "won't", "wont", "denies", "denied",
		"fails to", "without",
	}
	uncertainty = []string{"may", "might", "could", "possibly", "rumor"}
)

const (
	strongWeight   = 30.0
	moderateWeight = 10.0
	// A phrase is negated when a negation word appears within this many
	// characters before it
	negationWindow = 15
	// Trailing question marks dampen the whole score
	questionDamp = 0.4
)

// ScoreHeadline classifies a single headline. Negation words occurring
// just before a polarity phrase flip its contribution; a trailing
// question mark dampens the final score.
func ScoreHeadline(headline string) HeadlineScore {
	text := strings.ToLower(strings.TrimSpace(headline))
	if text == "" {
		return HeadlineScore{Label: LabelNeutral}
	}

	score := 0.0
	matches := 0

	score += scanPhrases(text, strongBullish, strongWeight, &matches)
	score += scanPhrases(text, moderateBullish, moderateWeight, &matches)
	score += scanPhrases(text, strongBearish, -strongWeight, &matches)
	score += scanPhrases(text, moderateBearish, -moderateWeight, &matches)

	for _, u := range uncertainty {
		if containsWord(text, u) {
			score *= 0.7
			break
		}
	}

	if strings.HasSuffix(text, "?") {
		score *= questionDamp
	}

	if score > 100 {
		score = 100
	} else if score < -100 {
		score = -100
	}

	confidence := float64(matches) * 0.25
	if confidence > 1 {
		confidence = 1
	}

	return HeadlineScore{Score: score, Label: labelFor(score, 15), Confidence: confidence}
}

// AggregateScore averages headline scores; labeling uses the given
// threshold (callers use 15 or 20 depending on how contrarian the use
// site is).
func AggregateScore(headlines []string, threshold float64) HeadlineScore {
	if len(headlines) == 0 {
		return HeadlineScore{Label: LabelNeutral}
	}

	sum := 0.0
	confidence := 0.0
	for _, h := range headlines {
		s := ScoreHeadline(h)
		sum += s.Score
		confidence += s.Confidence
	}

	mean := sum / float64(len(headlines))
	return HeadlineScore{
		Score:      mean,
		Label:      labelFor(mean, threshold),
		Confidence: confidence / float64(len(headlines)),
	}
}

// scanPhrases adds weight for each list phrase found, flipping the
// contribution when a negation immediately precedes the phrase
func scanPhrases(text string, phrases []string, weight float64, matches *int) float64 {
	total := 0.0
	for _, phrase := range phrases {
		idx := strings.Index(text, phrase)
		if idx < 0 {
			continue
		}
		*matches++

		w := weight
		if negatedBefore(text, idx) {
			w = -w
		}
		total += w
	}
	return total
}

// negatedBefore reports whether a negation word ends within the window
// before position idx
func negatedBefore(text string, idx int) bool {
	start := idx - negationWindow
	if start < 0 {
		start = 0
	}
	prefix := text[start:idx]
	for _, n := range negations {
		if strings.Contains(prefix, n) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, ".,!?:;") == word {
			return true
		}
	}
	return false
}

func labelFor(score, threshold float64) Label {
	if score >= threshold {
		return LabelBullish
	}
	if score <= -threshold {
		return LabelBearish
	}
	return LabelNeutral
}
