package domain

import (
	"encoding/json"
	"testing"
)

func TestScoreRenderingTruncates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score    Score
		wantJSON string
		wantText string
	}{
		{Known(84.96), "84.9", "84.9"},
		{Known(85), "85", "85.0"},
		{Known(69.99), "69.9", "69.9"},
		{Known(29.999), "29.9", "29.9"},
		{Known(100), "100", "100.0"},
		{Insufficient, "null", "insufficient data"},
	}

	for _, tc := range cases {
		raw, err := json.Marshal(tc.score)
		if err != nil {
			t.Fatalf("marshal %v: %v", tc.score.Value, err)
		}
		if string(raw) != tc.wantJSON {
			t.Fatalf("json for %v = %s, want %s", tc.score.Value, raw, tc.wantJSON)
		}
		if got := tc.score.String(); got != tc.wantText {
			t.Fatalf("text for %v = %q, want %q", tc.score.Value, got, tc.wantText)
		}
	}
}

func TestVerdictResultScoreBelowThreshold(t *testing.T) {
	t.Parallel()

	res := VerdictResult{FinalScore: Known(84.96), Verdict: VerdictLikelyTrue}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		FinalScore float64 `json:"finalScore"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.FinalScore >= 85 {
		t.Fatalf("rendered score %v crosses the TRUE threshold for a LIKELY TRUE verdict", decoded.FinalScore)
	}
}
