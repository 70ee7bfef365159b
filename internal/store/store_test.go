package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swiftcheck/internal/fixture"
	"github.com/roach88/swiftcheck/internal/harness"
	"github.com/roach88/swiftcheck/internal/settle"
	"github.com/roach88/swiftcheck/internal/testutil"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestRun(id string, started time.Time) *harness.RunResult {
	return &harness.RunResult{
		RunID:        id,
		Catalog:      "swifttranslator",
		Target:       "https://www.swifttranslator.com/",
		NegativeMode: harness.NegativeDefect,
		StartedAt:    started,
		FinishedAt:   started.Add(20 * time.Second),
		Verdicts: []harness.Verdict{
			{
				ID: "Pos_Fun_0001", Name: "greeting", Category: fixture.CategoryPositive,
				Status: harness.StatusPassed, Input: "oyaata kohomadha?", Expected: "ඔයාට කොහොමද?",
				Want: "ඔයාට කොහොමද?", Actual: "ඔයාට කොහොමද?",
				Phase: settle.PhaseVerdict, Duration: 6500 * time.Millisecond,
			},
			{
				ID: "Neg_Fun_0010", Name: "line breaks", Category: fixture.CategoryNegative,
				Status: harness.StatusFailed, Kind: harness.FailureMismatch,
				Input: "a\nb", Expected: "අ\nබ", Want: "අ\nබ", Actual: "අ බ",
				Diff: "-want +got", Hint: "texts differ only in whitespace or line breaks",
				Message: "expected", Phase: settle.PhaseRead, Duration: 7 * time.Second,
			},
			{
				ID: "Pos_UI_0001", Name: "live", Category: fixture.CategoryUI,
				Status: harness.StatusPassed, Input: "mama", Expected: "මම", Want: "මම", Actual: "මම",
				Intermediate: "ම", Phase: settle.PhaseVerdict, Duration: 9 * time.Second,
			},
		},
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveRun(context.Background(), createTestRun("run-1", testutil.Epoch)))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveRun(context.Background(), createTestRun("run-1", testutil.Epoch)))
}

func TestSaveRun_GetRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun("run-1", testutil.Epoch)

	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, run.RunID, got.RunID)
	assert.Equal(t, run.Catalog, got.Catalog)
	assert.Equal(t, run.Target, got.Target)
	assert.Equal(t, run.NegativeMode, got.NegativeMode)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.True(t, run.FinishedAt.Equal(got.FinishedAt))
	assert.False(t, got.Canceled)
	assert.Equal(t, run.Verdicts, got.Verdicts)
}

func TestSaveRun_Duplicate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1", testutil.Epoch)))
	err := s.SaveRun(ctx, createTestRun("run-1", testutil.Epoch))
	assert.True(t, errors.Is(err, ErrDuplicateRun), "got %v", err)
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-a", testutil.Epoch)))
	require.NoError(t, s.SaveRun(ctx, createTestRun("run-c", testutil.Epoch.Add(2*time.Hour))))
	require.NoError(t, s.SaveRun(ctx, createTestRun("run-b", testutil.Epoch.Add(time.Hour))))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
	assert.Equal(t, "run-a", runs[2].ID)
	assert.Equal(t, 2, runs[0].Passed)
	assert.Equal(t, 1, runs[0].Failed)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestSaveRun_Canceled(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun("run-1", testutil.Epoch)
	run.Canceled = true
	run.Verdicts = run.Verdicts[:1]

	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, got.Canceled)
	assert.Len(t, got.Verdicts, 1)
}

func TestCaseHistory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestRun("run-1", testutil.Epoch)
	second := createTestRun("run-2", testutil.Epoch.Add(time.Hour))
	second.Verdicts[1].Status = harness.StatusPassed
	second.Verdicts[1].Kind = harness.FailureNone

	require.NoError(t, s.SaveRun(ctx, first))
	require.NoError(t, s.SaveRun(ctx, second))

	records, err := s.CaseHistory(ctx, "Neg_Fun_0010", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-2", records[0].RunID)
	assert.True(t, records[0].Verdict.Passed())
	assert.Equal(t, "run-1", records[1].RunID)
	assert.Equal(t, harness.FailureMismatch, records[1].Verdict.Kind)
	assert.True(t, testutil.Epoch.Equal(records[1].StartedAt))

	none, err := s.CaseHistory(ctx, "Nope", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRun_Cascades(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, createTestRun("run-1", testutil.Epoch)))
	require.NoError(t, s.DeleteRun(ctx, "run-1"))
	require.NoError(t, s.DeleteRun(ctx, "run-1"))

	records, err := s.CaseHistory(ctx, "Pos_Fun_0001", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
