package main

import (
	"fmt"
	"io"
	"strings"

	"NewsVerifier/internal/usecase"
)

func printReport(out io.Writer, report usecase.Report) {
	res := report.Result

	fmt.Fprintf(out, "\nClaim:      %s\n", report.Claim)
	fmt.Fprintf(out, "Verdict:    %s\n", res.Verdict)
	fmt.Fprintf(out, "Score:      %s\n", res.FinalScore)
	fmt.Fprintf(out, "Confidence: %s\n", res.Confidence)
	fmt.Fprintf(out, "Articles:   %d\n", res.ArticleCount)

	fmt.Fprintln(out, "\nSub-scores:")
	fmt.Fprintf(out, "  source credibility   %s\n", res.SubScores.SourceCredibility)
	fmt.Fprintf(out, "  cross-source         %s (%d sources)\n", res.SubScores.CrossSourceConsistency.Score, res.SubScores.CrossSourceConsistency.DistinctSourceCount)
	fmt.Fprintf(out, "  fact checking        %s\n", res.SubScores.FactChecking)
	fmt.Fprintf(out, "  content quality      %s\n", res.SubScores.ContentQuality)

	if len(res.TopSources) > 0 {
		fmt.Fprintln(out, "\nTop sources:")
		for i, a := range res.TopSources {
			fmt.Fprintf(out, "  %d. [%d] %s: %s\n", i+1, a.Credibility, a.SourceName, a.Title)
			if a.URL != "" {
				fmt.Fprintf(out, "     %s\n", a.URL)
			}
		}
	}

	fmt.Fprintln(out, "\nAdapters:")
	for _, st := range res.Adapters {
		if st.OK {
			fmt.Fprintf(out, "  %-16s ok, %d articles\n", st.Name, st.Articles)
			continue
		}
		fmt.Fprintf(out, "  %-16s failed: %s\n", st.Name, st.Reason)
	}

	s := report.Signals
	flags := make([]string, 0, 6)
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.HasNumbers, "numbers"},
		{s.HasDates, "dates"},
		{s.HasNames, "names"},
		{s.HasQuotes, "quotes"},
		{s.HasAttribution, "attribution"},
		{s.HasVerifiableClaims, "verifiable"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	if len(flags) == 0 {
		flags = append(flags, "none")
	}
	fmt.Fprintf(out, "\nClaim signals: %s; emotional %d, exaggeration %d, red flags %d\n",
		strings.Join(flags, ", "), s.EmotionalWords, s.ExaggerationWords, s.RedFlags)

	if p := report.Prediction; p != nil {
		fmt.Fprintf(out, "Classifier:    %s (%.0f%%)\n", p.Label, p.Confidence*100)
	}

	fmt.Fprintf(out, "\n%s\n\n", res.Explanation)
}
