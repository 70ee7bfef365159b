package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/harness"
	"github.com/roach88/swiftcheck/internal/settle"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID           string               `json:"id"`
	Catalog      string               `json:"catalog"`
	Target       string               `json:"target"`
	NegativeMode harness.NegativeMode `json:"negative_mode"`
	StartedAt    time.Time            `json:"started_at"`
	FinishedAt   time.Time            `json:"finished_at"`
	Canceled     bool                 `json:"canceled,omitempty"`
	Passed       int                  `json:"passed"`
	Failed       int                  `json:"failed"`
}

// CaseRecord is a case's verdict in one run.
type CaseRecord struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Verdict   harness.Verdict `json:"verdict"`
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, catalog, target, negative_mode, started_at, finished_at, canceled, passed, failed
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		run, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun loads a run with its verdicts in run order.
func (s *Store) GetRun(ctx context.Context, id string) (*harness.RunResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, catalog, target, negative_mode, started_at, finished_at, canceled, passed, failed
		FROM runs
		WHERE id = ?
	`, id)
	summary, err := scanRunSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	result := &harness.RunResult{
		RunID:        summary.ID,
		Catalog:      summary.Catalog,
		Target:       summary.Target,
		NegativeMode: summary.NegativeMode,
		StartedAt:    summary.StartedAt,
		FinishedAt:   summary.FinishedAt,
		Canceled:     summary.Canceled,
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT case_id, name, category, status, kind, input, expected, want, actual,
		       intermediate, diff, hint, message, phase, duration_ns
		FROM verdicts
		WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	result.Verdicts = []harness.Verdict{}
	for rows.Next() {
		v, err := scanVerdict(rows)
		if err != nil {
			return nil, err
		}
		result.Verdicts = append(result.Verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return result, nil
}

// CaseHistory returns up to limit verdicts of one case across runs, newest
// first. A limit of zero or less returns every record.
func (s *Store) CaseHistory(ctx context.Context, caseID string, limit int) ([]CaseRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at,
		       v.case_id, v.name, v.category, v.status, v.kind, v.input, v.expected, v.want, v.actual,
		       v.intermediate, v.diff, v.hint, v.message, v.phase, v.duration_ns
		FROM verdicts v
		JOIN runs r ON r.id = v.run_id
		WHERE v.case_id = ?
		ORDER BY r.started_at DESC, r.id COLLATE BINARY DESC
		LIMIT ?
	`, caseID, limit)
	if err != nil {
		return nil, fmt.Errorf("query case history: %w", err)
	}
	defer rows.Close()

	records := []CaseRecord{}
	for rows.Next() {
		var (
			rec     CaseRecord
			started string
		)
		v, err := scanVerdict(rows, &rec.RunID, &started)
		if err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		rec.Verdict = v
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case history: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRunSummary(row scanner) (RunSummary, error) {
	var (
		run              RunSummary
		mode             string
		started, finished string
	)
	err := row.Scan(&run.ID, &run.Catalog, &run.Target, &mode, &started, &finished,
		&run.Canceled, &run.Passed, &run.Failed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scan run: %w", err)
	}
	run.NegativeMode = harness.NegativeMode(mode)
	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return run, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return run, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}

// scanVerdict scans the verdict columns, preceded by any extra destinations.
func scanVerdict(row scanner, prefix ...any) (harness.Verdict, error) {
	var (
		v                      harness.Verdict
		category, status, kind string
		phase                  string
		durationNS             int64
	)
	dest := append(prefix,
		&v.ID, &v.Name, &category, &status, &kind, &v.Input, &v.Expected, &v.Want, &v.Actual,
		&v.Intermediate, &v.Diff, &v.Hint, &v.Message, &phase, &durationNS)
	if err := row.Scan(dest...); err != nil {
		return v, fmt.Errorf("scan verdict: %w", err)
	}

	v.Category = fixture.Category(category)
	v.Status = harness.Status(status)
	v.Kind = harness.FailureKind(kind)
	v.Duration = time.Duration(durationNS)
	p, err := settle.ParsePhase(phase)
	if err != nil {
		return v, fmt.Errorf("verdict %s: %w", v.ID, err)
	}
	v.Phase = p
	return v, nil
}
