package domain

// VerdictLabel is the closed set of verdicts the engine can produce.
type VerdictLabel string

const (
	VerdictTrue        VerdictLabel = "TRUE"
	VerdictLikelyTrue  VerdictLabel = "LIKELY TRUE"
	VerdictUncertain   VerdictLabel = "UNCERTAIN"
	VerdictLikelyFalse VerdictLabel = "LIKELY FALSE"
	VerdictFalse       VerdictLabel = "FALSE"
	VerdictUnverified  VerdictLabel = "UNVERIFIED"
)

// Valid reports whether l is one of the enumerated labels.
func (l VerdictLabel) Valid() bool {
	switch l {
	case VerdictTrue, VerdictLikelyTrue, VerdictUncertain, VerdictLikelyFalse, VerdictFalse, VerdictUnverified:
		return true
	}
	return false
}

// ConfidenceLabel qualifies how much the verdict should be trusted.
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "HIGH"
	ConfidenceMedium ConfidenceLabel = "MEDIUM"
	ConfidenceLow    ConfidenceLabel = "LOW"
)

// Consistency carries the cross-source score together with its raw input.
type Consistency struct {
	Score               Score `json:"score"`
	DistinctSourceCount int   `json:"distinctSourceCount"`
}

// SubScores are the four independent dimensions feeding the final score.
type SubScores struct {
	SourceCredibility      Score       `json:"sourceCredibility"`
	CrossSourceConsistency Consistency `json:"crossSourceConsistency"`
	FactChecking           Score       `json:"factChecking"`
	ContentQuality         Score       `json:"contentQuality"`
}

// VerdictResult is the only object the presentation layer renders.
type VerdictResult struct {
	SubScores    SubScores       `json:"subScores"`
	FinalScore   Score           `json:"finalScore"`
	Verdict      VerdictLabel    `json:"verdictLabel"`
	Confidence   ConfidenceLabel `json:"confidenceLabel"`
	Explanation  string          `json:"explanation"`
	TopSources   []Article       `json:"topSources"`
	ArticleCount int             `json:"articleCount"`
	Adapters     []AdapterStatus `json:"adapters"`
}
