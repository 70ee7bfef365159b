package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/swiftcheck/internal/harness"
)

// ErrDuplicateRun is returned when a run id is saved twice.
var ErrDuplicateRun = errors.New("run already saved")

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SaveRun stores r and its verdicts in one transaction.
func (s *Store) SaveRun(ctx context.Context, r *harness.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	failed := len(r.Failures())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, catalog, target, negative_mode, started_at, finished_at, canceled, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.RunID,
		r.Catalog,
		r.Target,
		string(r.NegativeMode),
		r.StartedAt.UTC().Format(timeLayout),
		r.FinishedAt.UTC().Format(timeLayout),
		r.Canceled,
		len(r.Verdicts)-failed,
		failed,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("save run %s: %w", r.RunID, ErrDuplicateRun)
		}
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO verdicts
		(run_id, seq, case_id, name, category, status, kind, input, expected, want, actual,
		 intermediate, diff, hint, message, phase, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	defer stmt.Close()

	for i, v := range r.Verdicts {
		_, err := stmt.ExecContext(ctx,
			r.RunID,
			i,
			v.ID,
			v.Name,
			string(v.Category),
			string(v.Status),
			string(v.Kind),
			v.Input,
			v.Expected,
			v.Want,
			v.Actual,
			v.Intermediate,
			v.Diff,
			v.Hint,
			v.Message,
			v.Phase.String(),
			int64(v.Duration),
		)
		if err != nil {
			return fmt.Errorf("save verdict %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	return nil
}

// DeleteRun removes a run and its verdicts. Deleting a missing run is not an
// error.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}
