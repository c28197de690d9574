package main

import (
	"fmt"
	"io"
	"sort"

	"NewsVerifier/internal/credibility"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/verdict"
)

const commandsHelp = "commands: sources, verdicts, help, quit"

var verdictMeaning = map[domain.VerdictLabel]string{
	domain.VerdictTrue:        "multiple credible sources confirm with consistent information",
	domain.VerdictLikelyTrue:  "several sources support, some details may need verification",
	domain.VerdictUncertain:   "mixed signals, credibility or consistency questionable",
	domain.VerdictLikelyFalse: "multiple red flags suggest inaccuracy",
	domain.VerdictFalse:       "little or no credible support",
	domain.VerdictUnverified:  "no sources found, cannot determine truth",
}

func printSourceGuide(out io.Writer) {
	entries := credibility.DefaultEntries()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if entries[names[i]] != entries[names[j]] {
			return entries[names[i]] > entries[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Fprintln(out, "\nSource credibility:")
	for _, name := range names {
		fmt.Fprintf(out, "  %3d  %s\n", entries[name], name)
	}
	fmt.Fprintf(out, "  %3d  any other source\n", credibility.Fallback)
}

func printVerdictGuide(out io.Writer) {
	fmt.Fprintln(out, "\nVerdicts:")
	upper := 100.0
	bands := verdict.Bands()
	for i, b := range bands {
		rng := fmt.Sprintf("%g-%g", b.Min, upper)
		if i > 0 {
			rng = fmt.Sprintf("%g-<%g", b.Min, upper)
		}
		fmt.Fprintf(out, "  %-13s %-9s %s\n", b.Label, rng, verdictMeaning[b.Label])
		upper = b.Min
	}
	fmt.Fprintf(out, "  %-13s %-9s %s\n", domain.VerdictFalse, fmt.Sprintf("<%g", upper), verdictMeaning[domain.VerdictFalse])
	fmt.Fprintf(out, "  %-13s %-9s %s\n", domain.VerdictUnverified, "n/a", verdictMeaning[domain.VerdictUnverified])
}
