// Package scoring holds the four sub-scorers. Every scorer is a pure function
// over the canonical article set and returns domain.Insufficient for an empty set.
package scoring

import (
	"strings"

	"NewsVerifier/internal/domain"
)

// Params tunes the sub-scorers.
type Params struct {
	// CredibleThreshold is the inclusive credibility at which an outlet counts as vetted.
	CredibleThreshold int
	// TargetDiversity is the distinct-source count that earns full consistency.
	TargetDiversity int
	// SingleSourceScore is the consistency score of single-source coverage.
	SingleSourceScore float64
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		CredibleThreshold: 70,
		TargetDiversity:   5,
		SingleSourceScore: 20,
	}
}

func (p Params) normalized() Params {
	d := DefaultParams()
	if p.CredibleThreshold <= 0 {
		p.CredibleThreshold = d.CredibleThreshold
	}
	if p.TargetDiversity < 2 {
		p.TargetDiversity = d.TargetDiversity
	}
	if p.SingleSourceScore <= 0 {
		p.SingleSourceScore = d.SingleSourceScore
	}
	return p
}

// Compute runs all four scorers.
func Compute(articles []domain.Article, p Params) domain.SubScores {
	return domain.SubScores{
		SourceCredibility:      SourceCredibility(articles),
		CrossSourceConsistency: CrossSourceConsistency(articles, p),
		FactChecking:           FactChecking(articles, p),
		ContentQuality:         ContentQuality(articles),
	}
}

// SourceCredibility is the mean credibility of the canonical set.
func SourceCredibility(articles []domain.Article) domain.Score {
	if len(articles) == 0 {
		return domain.Insufficient
	}

	total := 0
	for _, a := range articles {
		total += a.Credibility
	}
	return domain.Known(float64(total) / float64(len(articles)))
}

// DistinctSources counts unique publications, compared case-insensitively.
func DistinctSources(articles []domain.Article) int {
	seen := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		seen[strings.ToLower(strings.TrimSpace(a.SourceName))] = struct{}{}
	}
	return len(seen)
}

// CrossSourceConsistency scales the distinct-source count linearly from
// SingleSourceScore at one source to 100 at TargetDiversity sources.
func CrossSourceConsistency(articles []domain.Article, p Params) domain.Consistency {
	p = p.normalized()

	n := DistinctSources(articles)
	switch {
	case n == 0:
		return domain.Consistency{Score: domain.Insufficient}
	case n >= p.TargetDiversity:
		return domain.Consistency{Score: domain.Known(100), DistinctSourceCount: n}
	}

	step := (100 - p.SingleSourceScore) / float64(p.TargetDiversity-1)
	score := p.SingleSourceScore + float64(n-1)*step
	return domain.Consistency{Score: domain.Known(score), DistinctSourceCount: n}
}

// FactChecking is the share of articles from vetted outlets, scaled to 0–100.
func FactChecking(articles []domain.Article, p Params) domain.Score {
	if len(articles) == 0 {
		return domain.Insufficient
	}
	p = p.normalized()

	vetted := 0
	for _, a := range articles {
		if a.Credibility >= p.CredibleThreshold {
			vetted++
		}
	}
	return domain.Known(100 * float64(vetted) / float64(len(articles)))
}

// ContentQuality averages the headline heuristic over the canonical set.
func ContentQuality(articles []domain.Article) domain.Score {
	if len(articles) == 0 {
		return domain.Insufficient
	}

	total := 0.0
	for _, a := range articles {
		total += TitleQuality(a.Title)
	}
	return domain.Known(total / float64(len(articles)))
}
