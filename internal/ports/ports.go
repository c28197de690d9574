package ports

import (
	"context"
	"time"

	"NewsVerifier/internal/domain"
)

// Classifier scores a piece of text as real or fake with an external model.
type Classifier interface {
	Predict(ctx context.Context, text string) (domain.Prediction, error)
}

// HeadlineSource pulls current top stories for the live-news feed.
type HeadlineSource interface {
	TopStories(ctx context.Context, limit int) ([]domain.Headline, error)
}

// VerificationRepository persists completed verifications for history.
type VerificationRepository interface {
	SaveVerification(ctx context.Context, record domain.VerificationRecord) error
	RecentVerifications(ctx context.Context, limit int) ([]domain.VerificationRecord, error)
}

// Notifier streams watch digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// DigestSummarizer condenses a structured digest with an LLM (e.g., ChatGPT).
type DigestSummarizer interface {
	Summarize(ctx context.Context, payload []byte) (string, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
