package scoring

import (
	"regexp"
	"strings"
)

var (
	numberExpr       = regexp.MustCompile(`\d+`)
	dateExpr         = regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	emotionalExpr    = regexp.MustCompile(`(?i)\b(amazing|incredible|shocking|terrible|wonderful|horrible|fantastic|awful)\b`)
	exaggerationExpr = regexp.MustCompile(`(?i)\b(always|never|everyone|nobody|completely|absolutely|totally|entirely)\b`)
	verifiableExpr   = regexp.MustCompile(`(?i)\b\d+%|\b\d+\s+(million|billion|thousand)\b`)
	timeOfDayExpr    = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(\s*(am|pm))?\b`)

	redFlagExprs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(conspiracy|cover-up|secret|hidden|suppressed)\b`),
		regexp.MustCompile(`(?i)(\b100%|\b(guaranteed|definitely|absolutely)\b)`),
		regexp.MustCompile(`(?i)\b(urgent|breaking|exclusive|shocking)\b`),
		regexp.MustCompile(`(?i)(they don't want you to know|mainstream media won't report)`),
		regexp.MustCompile(`(?i)\b(click here|subscribe now|limited time)\b`),
	}
)

// ClaimSignals describes textual indicators in the submitted claim itself.
// They are reported next to the verdict and never feed the final score.
type ClaimSignals struct {
	Length              int  `json:"length"`
	HasNumbers          bool `json:"hasNumbers"`
	HasDates            bool `json:"hasDates"`
	HasNames            bool `json:"hasNames"`
	HasQuotes           bool `json:"hasQuotes"`
	HasAttribution      bool `json:"hasAttribution"`
	HasVerifiableClaims bool `json:"hasVerifiableClaims"`
	HasTimeDetails      bool `json:"hasTimeDetails"`
	EmotionalWords      int  `json:"emotionalWords"`
	ExaggerationWords   int  `json:"exaggerationWords"`
	RedFlags            int  `json:"redFlags"`
}

// AnalyzeClaim extracts ClaimSignals from free text.
func AnalyzeClaim(text string) ClaimSignals {
	signals := ClaimSignals{
		Length:              len([]rune(text)),
		HasNumbers:          numberExpr.MatchString(text),
		HasDates:            dateExpr.MatchString(text),
		HasNames:            properNameExpr.MatchString(text),
		HasQuotes:           strings.Count(text, `"`) >= 2,
		HasAttribution:      attributionExpr.MatchString(text),
		HasVerifiableClaims: verifiableExpr.MatchString(text),
		HasTimeDetails:      timeOfDayExpr.MatchString(text),
		EmotionalWords:      len(emotionalExpr.FindAllString(text, -1)),
		ExaggerationWords:   len(exaggerationExpr.FindAllString(text, -1)),
	}

	for _, expr := range redFlagExprs {
		if expr.MatchString(text) {
			signals.RedFlags++
		}
	}

	return signals
}
