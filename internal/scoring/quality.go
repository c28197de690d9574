package scoring

import (
	"regexp"
	"strings"
	"unicode"

	"NewsVerifier/internal/domain"
)

const baseTitleQuality = 60.0

var (
	properNameExpr  = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	attributionExpr = regexp.MustCompile(`(?i)\b(says|said|according to|reports?|reported|confirms?|confirmed|announces?|announced)\b`)
	sensationalExpr = regexp.MustCompile(`(?i)\b(shocking|amazing|incredible|unbelievable|outrageous|horrible|insane|you won't believe|must see|miracle)\b`)
	digitExpr       = regexp.MustCompile(`\d`)
)

// TitleQuality scores a single headline. It rewards specificity (numbers,
// names, attribution) and penalizes shouting, punctuation runs, sensational
// vocabulary and very short titles. Credibility is never consulted.
func TitleQuality(title string) float64 {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0
	}

	score := baseTitleQuality
	words := strings.Fields(title)

	switch n := len(words); {
	case n < 4:
		score -= 25
	case n < 6:
		score -= 10
	case n >= 8:
		score += 10
	}

	if isShouting(title) {
		score -= 30
	} else if shoutedWordShare(words) > 0.5 {
		score -= 15
	}

	if marks := strings.Count(title, "!") + strings.Count(title, "?"); marks > 1 {
		score -= 15
	} else if marks == 1 && strings.Contains(title, "!") {
		score -= 5
	}

	if digitExpr.MatchString(title) {
		score += 10
	}
	if properNameExpr.MatchString(title) {
		score += 10
	}
	if attributionExpr.MatchString(title) {
		score += 10
	}

	sensational := len(sensationalExpr.FindAllString(title, -1))
	if sensational > 3 {
		sensational = 3
	}
	score -= 10 * float64(sensational)

	return domain.Clamp(score)
}

// isShouting reports an ALL-CAPS headline with enough letters to judge.
func isShouting(title string) bool {
	letters, upper := 0, 0
	for _, r := range title {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return letters >= 6 && upper == letters
}

func shoutedWordShare(words []string) float64 {
	considered, shouted := 0, 0
	for _, w := range words {
		letters := strings.IndexFunc(w, unicode.IsLetter) >= 0
		if !letters || len([]rune(w)) < 3 {
			continue
		}
		considered++
		if strings.ToUpper(w) == w {
			shouted++
		}
	}
	if considered == 0 {
		return 0
	}
	return float64(shouted) / float64(considered)
}
