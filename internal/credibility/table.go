// Package credibility maps publication names to 0–100 trust scores.
package credibility

import (
	"errors"
	"fmt"
	"strings"
)

// Fallback is the score of any publication missing from the table.
const Fallback = 40

// ErrEmptyTable is a configuration fault raised at startup.
var ErrEmptyTable = errors.New("credibility table is empty")

// Table is an immutable, case-insensitive lookup of publication trust scores.
type Table struct {
	scores   map[string]int
	fallback int
}

// NewTable copies entries into a normalized table. Scores outside [0,100] and
// an empty entry set are rejected.
func NewTable(entries map[string]int, fallback int) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	if fallback < 0 || fallback > 100 {
		return nil, fmt.Errorf("fallback score %d out of range", fallback)
	}

	scores := make(map[string]int, len(entries))
	for name, score := range entries {
		// names equal after case folding must agree
		if prev, dup := scores[normalize(name)]; dup && prev != score {
			return nil, fmt.Errorf("source %q listed twice with different scores", name)
		}
		key := normalize(name)
		if key == "" {
			return nil, fmt.Errorf("empty source name in credibility table")
		}
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("source %q: score %d out of range", name, score)
		}
		scores[key] = score
	}

	return &Table{scores: scores, fallback: fallback}, nil
}

// Default returns the built-in tier table.
func Default() *Table {
	t, _ := NewTable(DefaultEntries(), Fallback)
	return t
}

// WithOverrides returns a new table with extra or replacing entries.
// Override names that collide after case folding must carry the same score.
func (t *Table) WithOverrides(entries map[string]int, fallback int) (*Table, error) {
	merged := make(map[string]int, len(t.scores)+len(entries))
	for k, v := range t.scores {
		merged[k] = v
	}
	if len(entries) > 0 {
		overrides, err := NewTable(entries, fallback)
		if err != nil {
			return nil, fmt.Errorf("overrides: %w", err)
		}
		for k, v := range overrides.scores {
			merged[k] = v
		}
	}
	return NewTable(merged, fallback)
}

// Lookup returns the score for sourceName; unmatched names get the fallback.
func (t *Table) Lookup(sourceName string) int {
	if t == nil {
		return Fallback
	}
	if score, ok := t.scores[normalize(sourceName)]; ok {
		return score
	}
	return t.fallback
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.scores)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultEntries lists the reference tiers, including common aliases.
func DefaultEntries() map[string]int {
	return map[string]int{
		// 90–100
		"Reuters":          95,
		"AP":               94,
		"Associated Press": 94,
		"AP News":          94,
		"BBC":              93,
		"BBC News":         93,
		"NPR":              92,
		// 80–89
		"NYT":                     88,
		"New York Times":          88,
		"The New York Times":      88,
		"Washington Post":         86,
		"The Washington Post":     86,
		"WSJ":                     85,
		"Wall Street Journal":     85,
		"The Wall Street Journal": 85,
		// 70–79
		"USA Today": 77,
		"CNN":       75,
		"ABC News":  72,
		// 60–69
		"Guardian":        66,
		"The Guardian":    66,
		"Independent":     62,
		"The Independent": 62,
		// 50–59
		"Forbes":           56,
		"Business Insider": 52,
	}
}
