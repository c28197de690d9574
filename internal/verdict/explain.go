package verdict

import (
	"fmt"
	"strings"

	"NewsVerifier/internal/domain"
)

// Explain renders the human-readable rationale for a verdict.
func Explain(label domain.VerdictLabel, final domain.Score, s domain.SubScores, canonical int, outcomes []domain.AdapterOutcome, w Weights) string {
	succeeded := domain.SucceededCount(outcomes)
	failed := failedAdapters(outcomes)

	if succeeded == 0 {
		if len(outcomes) == 0 {
			return fmt.Sprintf("%s: no sources reachable; no adapters are configured.", domain.VerdictUnverified)
		}
		return fmt.Sprintf("%s: no sources reachable; all %d adapters failed (%s).",
			domain.VerdictUnverified, len(outcomes), strings.Join(failed, "; "))
	}

	if canonical == 0 {
		return fmt.Sprintf("%s: no matching coverage found in any reachable source (%d of %d adapters responded).",
			domain.VerdictUnverified, succeeded, len(outcomes))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (score %s/100): %d %s from %d distinct %s.",
		label, final, canonical, plural(canonical, "article", "articles"),
		s.CrossSourceConsistency.DistinctSourceCount,
		plural(s.CrossSourceConsistency.DistinctSourceCount, "source", "sources"))

	if weakest, ok := weakestDimension(s, w); ok && final.Valid && weakest.score.Value < final.Value {
		fmt.Fprintf(&b, " Weakest dimension: %s at %s pulled the verdict down.", weakest.name, weakest.score)
	} else {
		b.WriteString(" All scored dimensions support the result.")
	}

	if len(failed) > 0 {
		fmt.Fprintf(&b, " %d of %d adapters unreachable (%s).", len(failed), len(outcomes), strings.Join(failed, "; "))
	}

	return b.String()
}

func weakestDimension(s domain.SubScores, w Weights) (dimension, bool) {
	var (
		weakest dimension
		found   bool
	)
	for _, d := range dimensions(s, w) {
		if !d.score.Valid || d.weight <= 0 {
			continue
		}
		if !found || d.score.Value < weakest.score.Value {
			weakest = d
			found = true
		}
	}
	return weakest, found
}

func failedAdapters(outcomes []domain.AdapterOutcome) []string {
	var failed []string
	for _, o := range outcomes {
		if o.Failed() {
			failed = append(failed, fmt.Sprintf("%s: %s", o.Adapter, o.Reason()))
		}
	}
	return failed
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
