package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const verificationsTable = "verifications"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS verifications (
		id TEXT PRIMARY KEY,
		claim TEXT NOT NULL,
		verdict TEXT NOT NULL,
		confidence TEXT NOT NULL,
		final_score DOUBLE PRECISION NULL,
		source_count INTEGER NOT NULL,
		explanation TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_verifications_created_at ON verifications(created_at)`,
}

// SQLRepository persists verification history through database/sql.
type SQLRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.VerificationRepository = (*SQLRepository)(nil)

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// NewSQLRepository wires a sql.DB with the placeholder style of driver.
func NewSQLRepository(db *sql.DB, driver string) *SQLRepository {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	return &SQLRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder).RunWith(db),
	}
}

// Migrate creates the history table if needed.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// SaveVerification inserts one verification record.
func (r *SQLRepository) SaveVerification(ctx context.Context, record domain.VerificationRecord) error {
	if r.db == nil {
		return nil
	}

	score := sql.NullFloat64{Float64: record.FinalScore.Value, Valid: record.FinalScore.Valid}
	_, err := r.builder.Insert(verificationsTable).
		Columns("id", "claim", "verdict", "confidence", "final_score", "source_count", "explanation", "created_at").
		Values(
			record.ID,
			record.Claim,
			string(record.Verdict),
			string(record.Confidence),
			score,
			record.SourceCount,
			record.Explanation,
			record.CreatedAt.UTC(),
		).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}

	return nil
}

// RecentVerifications returns up to limit records, newest first.
func (r *SQLRepository) RecentVerifications(ctx context.Context, limit int) ([]domain.VerificationRecord, error) {
	if r.db == nil {
		return []domain.VerificationRecord{}, nil
	}

	query := r.builder.
		Select("id", "claim", "verdict", "confidence", "final_score", "source_count", "explanation", "created_at").
		From(verificationsTable).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query verifications: %w", err)
	}

	records := make([]domain.VerificationRecord, 0)
	for rows.Next() {
		var (
			rec        domain.VerificationRecord
			verdict    string
			confidence string
			score      sql.NullFloat64
			createdAt  time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.Claim, &verdict, &confidence, &score, &rec.SourceCount, &rec.Explanation, &createdAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		rec.Verdict = domain.VerdictLabel(verdict)
		rec.Confidence = domain.ConfidenceLabel(confidence)
		if score.Valid {
			rec.FinalScore = domain.Known(score.Float64)
		}
		rec.CreatedAt = createdAt.UTC()
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return records, nil
}
