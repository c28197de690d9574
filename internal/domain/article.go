package domain

import (
	"strings"
	"time"
)

// UnknownSource is stamped on records whose adapter could not name a publication.
const UnknownSource = "Unknown"

// Article is one discovered piece of coverage, normalized by an adapter.
type Article struct {
	Title       string     `json:"title"`
	SourceName  string     `json:"sourceName"`
	AdapterName string     `json:"adapterName"`
	URL         string     `json:"url,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Credibility int        `json:"credibility"`
}

// AdapterOutcome is the result of a single adapter call: either articles or a failure.
type AdapterOutcome struct {
	Adapter  string
	Articles []Article
	Err      error
}

// Failed reports whether the adapter call ended in a failure.
func (o AdapterOutcome) Failed() bool {
	return o.Err != nil
}

// Reason returns the failure text, or an empty string on success.
func (o AdapterOutcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return strings.TrimSpace(o.Err.Error())
}

// Status condenses the outcome for the presentation layer.
func (o AdapterOutcome) Status() AdapterStatus {
	return AdapterStatus{
		Name:     o.Adapter,
		OK:       !o.Failed(),
		Reason:   o.Reason(),
		Articles: len(o.Articles),
	}
}

// AdapterStatus is the serializable view of an AdapterOutcome.
type AdapterStatus struct {
	Name     string `json:"name"`
	OK       bool   `json:"ok"`
	Reason   string `json:"reason,omitempty"`
	Articles int    `json:"articles"`
}

// SucceededCount returns how many outcomes did not fail.
func SucceededCount(outcomes []AdapterOutcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Failed() {
			n++
		}
	}
	return n
}

// Prediction is the opaque real/fake classification of a piece of text.
type Prediction struct {
	Label           string  `json:"prediction"`
	Confidence      float64 `json:"confidence"`
	ProbabilityReal float64 `json:"probabilityReal"`
	ProbabilityFake float64 `json:"probabilityFake"`
}

// Headline is a live top-story item with an optional classifier opinion.
type Headline struct {
	Title       string      `json:"title"`
	SourceName  string      `json:"sourceName"`
	URL         string      `json:"url,omitempty"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`
	Prediction  *Prediction `json:"mlPrediction,omitempty"`
}

// VerificationRecord is persisted for history and audit.
type VerificationRecord struct {
	ID          string          `json:"id"`
	Claim       string          `json:"claim"`
	Verdict     VerdictLabel    `json:"verdictLabel"`
	Confidence  ConfidenceLabel `json:"confidenceLabel"`
	FinalScore  Score           `json:"finalScore"`
	SourceCount int             `json:"sourceCount"`
	Explanation string          `json:"explanation"`
	CreatedAt   time.Time       `json:"createdAt"`
}
