// Package verdict turns sub-scores into a final score, a label and an explanation.
package verdict

import (
	"NewsVerifier/internal/domain"
)

// DefaultTopN is how many canonical articles are surfaced by default.
const DefaultTopN = 5

// Weights are the relative contribution of each sub-score.
type Weights struct {
	SourceCredibility      float64
	CrossSourceConsistency float64
	FactChecking           float64
	ContentQuality         float64
}

// EqualWeights gives every dimension 25%.
func EqualWeights() Weights {
	return Weights{
		SourceCredibility:      0.25,
		CrossSourceConsistency: 0.25,
		FactChecking:           0.25,
		ContentQuality:         0.25,
	}
}

// Config tunes the synthesizer.
type Config struct {
	Weights Weights
	// TopN caps the surfaced article list.
	TopN int
	// ContradictionSpread is the gap between the best and worst sub-score at
	// which the signal is treated as contradictory.
	ContradictionSpread float64
}

// DefaultConfig returns equal weights, top 5 and a 60 point contradiction spread.
func DefaultConfig() Config {
	return Config{
		Weights:             EqualWeights(),
		TopN:                DefaultTopN,
		ContradictionSpread: 60,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Weights == (Weights{}) {
		c.Weights = d.Weights
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	if c.ContradictionSpread <= 0 {
		c.ContradictionSpread = d.ContradictionSpread
	}
	return c
}

type threshold struct {
	min   float64
	label domain.VerdictLabel
}

// thresholds are evaluated top-down; the first inclusive lower bound wins.
var thresholds = []threshold{
	{min: 85, label: domain.VerdictTrue},
	{min: 70, label: domain.VerdictLikelyTrue},
	{min: 50, label: domain.VerdictUncertain},
	{min: 30, label: domain.VerdictLikelyFalse},
}

// Band is one verdict range: scores at or above Min, below the previous band.
type Band struct {
	Min   float64
	Label domain.VerdictLabel
}

// Bands lists the scored verdict ranges from highest to lowest. Scores below
// the last band are FALSE.
func Bands() []Band {
	out := make([]Band, 0, len(thresholds))
	for _, t := range thresholds {
		out = append(out, Band{Min: t.min, Label: t.label})
	}
	return out
}

// Label maps a final score to its verdict. An undefined score is UNVERIFIED.
func Label(final domain.Score) domain.VerdictLabel {
	if !final.Valid {
		return domain.VerdictUnverified
	}
	for _, t := range thresholds {
		if final.Value >= t.min {
			return t.label
		}
	}
	return domain.VerdictFalse
}

type dimension struct {
	name   string
	score  domain.Score
	weight float64
}

func dimensions(s domain.SubScores, w Weights) []dimension {
	return []dimension{
		{name: "source credibility", score: s.SourceCredibility, weight: w.SourceCredibility},
		{name: "cross-source consistency", score: s.CrossSourceConsistency.Score, weight: w.CrossSourceConsistency},
		{name: "fact-checking", score: s.FactChecking, weight: w.FactChecking},
		{name: "content quality", score: s.ContentQuality, weight: w.ContentQuality},
	}
}

// FinalScore is the weighted mean of the valid sub-scores; weights of
// insufficient sub-scores are redistributed proportionally.
func FinalScore(s domain.SubScores, w Weights) domain.Score {
	var sum, weight float64
	for _, d := range dimensions(s, w) {
		if !d.score.Valid || d.weight <= 0 {
			continue
		}
		sum += d.score.Value * d.weight
		weight += d.weight
	}
	if weight == 0 {
		return domain.Insufficient
	}
	return domain.Known(sum / weight)
}

// Confidence grades trust in the verdict from adapter health and evidence size.
func Confidence(s domain.SubScores, canonical int, outcomes []domain.AdapterOutcome, spread float64) domain.ConfidenceLabel {
	succeeded := domain.SucceededCount(outcomes)

	switch {
	case succeeded == 0 || canonical == 0:
		return domain.ConfidenceLow
	case spreadOf(s) >= spread:
		return domain.ConfidenceLow
	case succeeded == len(outcomes) && canonical >= 3:
		return domain.ConfidenceHigh
	default:
		return domain.ConfidenceMedium
	}
}

func spreadOf(s domain.SubScores) float64 {
	var lo, hi float64
	first := true
	for _, d := range dimensions(s, Weights{}) {
		if !d.score.Valid {
			continue
		}
		if first {
			lo, hi = d.score.Value, d.score.Value
			first = false
			continue
		}
		lo = min(lo, d.score.Value)
		hi = max(hi, d.score.Value)
	}
	return hi - lo
}

// Synthesize builds the VerdictResult. It never fails: an empty canonical set
// or an all-failed outcome set yields UNVERIFIED.
func Synthesize(s domain.SubScores, canonical []domain.Article, outcomes []domain.AdapterOutcome, cfg Config) domain.VerdictResult {
	cfg = cfg.normalized()

	final := FinalScore(s, cfg.Weights)
	label := Label(final)
	if len(canonical) == 0 {
		final = domain.Insufficient
		label = domain.VerdictUnverified
	}

	statuses := make([]domain.AdapterStatus, 0, len(outcomes))
	for _, o := range outcomes {
		statuses = append(statuses, o.Status())
	}

	top := canonical
	if len(top) > cfg.TopN {
		top = top[:cfg.TopN]
	}
	topSources := make([]domain.Article, len(top))
	copy(topSources, top)

	return domain.VerdictResult{
		SubScores:    s,
		FinalScore:   final,
		Verdict:      label,
		Confidence:   Confidence(s, len(canonical), outcomes, cfg.ContradictionSpread),
		Explanation:  Explain(label, final, s, len(canonical), outcomes, cfg.Weights),
		TopSources:   topSources,
		ArticleCount: len(canonical),
		Adapters:     statuses,
	}
}
