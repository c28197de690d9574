// Package dedupe merges coverage of the same headline found by different adapters.
package dedupe

import (
	"sort"
	"strings"
	"unicode"

	"NewsVerifier/internal/domain"
)

// NormalizeTitle builds the dedup key: lowercase, punctuation removed,
// whitespace collapsed.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingSpace := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			continue
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Dedupe keeps one article per normalized title: the most credible member,
// or the first seen on ties. The result is ordered by descending credibility,
// stable on the group's first-seen position.
func Dedupe(articles []domain.Article) []domain.Article {
	if len(articles) == 0 {
		return []domain.Article{}
	}

	canonical := make([]domain.Article, 0, len(articles))
	slot := make(map[string]int, len(articles))

	for _, article := range articles {
		key := NormalizeTitle(article.Title)
		idx, seen := slot[key]
		if !seen {
			slot[key] = len(canonical)
			canonical = append(canonical, article)
			continue
		}
		if article.Credibility > canonical[idx].Credibility {
			canonical[idx] = article
		}
	}

	sort.SliceStable(canonical, func(i, j int) bool {
		return canonical[i].Credibility > canonical[j].Credibility
	})

	return canonical
}
