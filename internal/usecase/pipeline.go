package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsVerifier/internal/ports"
)

// PipelineDeps wires the watch digest workflow.
type PipelineDeps struct {
	Verifier   *Verifier
	Claims     []string
	Summarizer ports.DigestSummarizer
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// WatchPipeline re-verifies a fixed list of claims and publishes a digest.
type WatchPipeline struct {
	verifier   *Verifier
	claims     []string
	summarizer ports.DigestSummarizer
	notifier   ports.Notifier
	logger     *slog.Logger
}

// digestEntry is one claim line; Err is set when verification failed.
type digestEntry struct {
	Claim  string
	Report Report
	Err    error
}

// NewWatchPipeline constructs the orchestration component.
func NewWatchPipeline(deps PipelineDeps) *WatchPipeline {
	claims := make([]string, 0, len(deps.Claims))
	for _, c := range deps.Claims {
		if c = strings.TrimSpace(c); c != "" {
			claims = append(claims, c)
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &WatchPipeline{
		verifier:   deps.Verifier,
		claims:     claims,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

// Run verifies every watched claim and publishes the digest. A failing claim
// is reported in the digest rather than aborting the run.
func (p *WatchPipeline) Run(ctx context.Context, trigger time.Time) error {
	if p.verifier == nil || len(p.claims) == 0 {
		return nil
	}

	entries := make([]digestEntry, 0, len(p.claims))
	for _, claim := range p.claims {
		report, err := p.verifier.VerifyOnline(ctx, claim)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			p.logger.Warn("watch claim failed", "claim", claim, "error", err)
		}
		entries = append(entries, digestEntry{Claim: claim, Report: report, Err: err})
	}

	message := buildDigestMessage(trigger, entries)

	if p.summarizer != nil {
		payload, err := buildDigestJSON(entries)
		if err != nil {
			return fmt.Errorf("build digest payload: %w", err)
		}
		summary, err := p.summarizer.Summarize(ctx, payload)
		switch {
		case err != nil:
			p.logger.Warn("digest summarizer failed, sending raw digest", "error", err)
		case strings.TrimSpace(summary) != "":
			message = strings.TrimSpace(summary)
		}
	}

	if p.notifier == nil {
		p.logger.Info("watch digest built", "claims", len(entries))
		return nil
	}

	if err := p.notifier.PublishDigest(ctx, message); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}
	return nil
}

func buildDigestMessage(trigger time.Time, entries []digestEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Watch digest %s\n\n", trigger.UTC().Format("2006-01-02 15:04 MST"))

	for _, e := range entries {
		fmt.Fprintf(&b, "- %s\n", e.Claim)
		if e.Err != nil {
			fmt.Fprintf(&b, "  check failed: %v\n\n", e.Err)
			continue
		}

		res := e.Report.Result
		fmt.Fprintf(&b, "  %s, score %s, confidence %s\n", res.Verdict, res.FinalScore, res.Confidence)
		if len(res.TopSources) > 0 {
			top := res.TopSources[0]
			fmt.Fprintf(&b, "  top source: %s (%d)", top.SourceName, top.Credibility)
			if top.URL != "" {
				fmt.Fprintf(&b, " %s", top.URL)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func buildDigestJSON(entries []digestEntry) ([]byte, error) {
	type item struct {
		Claim       string `json:"claim"`
		Verdict     string `json:"verdict,omitempty"`
		Score       string `json:"score,omitempty"`
		Confidence  string `json:"confidence,omitempty"`
		Explanation string `json:"explanation,omitempty"`
		Error       string `json:"error,omitempty"`
	}

	payload := make([]item, 0, len(entries))
	for _, e := range entries {
		if e.Err != nil {
			payload = append(payload, item{Claim: e.Claim, Error: e.Err.Error()})
			continue
		}
		res := e.Report.Result
		payload = append(payload, item{
			Claim:       e.Claim,
			Verdict:     string(res.Verdict),
			Score:       res.FinalScore.String(),
			Confidence:  string(res.Confidence),
			Explanation: res.Explanation,
		})
	}

	return json.Marshal(payload)
}
