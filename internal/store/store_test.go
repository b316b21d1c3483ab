package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/disputelens/credit-analyzer/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history", "runs.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &AnalysisRun{
		ID:          "run-1",
		Bureau:      models.BureauExperian,
		RoundNumber: 2,
		Accounts: []models.Account{
			{CreditorNormalized: "CAPITAL ONE", AccountNumber: "XX7805", Status: models.StatusLate},
		},
		Negative: []models.Account{
			{CreditorNormalized: "CAPITAL ONE", AccountNumber: "XX7805", Status: models.StatusLate, Disposition: models.DispositionCorrection},
		},
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("saving run: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("getting run: %v", err)
	}
	if got == nil {
		t.Fatal("expected run, got nil")
	}
	if got.Bureau != models.BureauExperian || got.RoundNumber != 2 {
		t.Errorf("metadata: got %q/%d, want experian/2", got.Bureau, got.RoundNumber)
	}
	if len(got.Accounts) != 1 || got.Accounts[0].AccountNumber != "XX7805" {
		t.Errorf("accounts roundtrip: got %+v", got.Accounts)
	}
	if len(got.Negative) != 1 || got.Negative[0].Disposition != models.DispositionCorrection {
		t.Errorf("negative roundtrip: got %+v", got.Negative)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be stamped")
	}
}

func TestGetRun_Absent(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent run, got %+v", got)
	}
}

func TestSaveRun_RequiresID(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveRun(context.Background(), &AnalysisRun{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := &AnalysisRun{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatalf("saving %s: %v", id, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d, want 2", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("order: got %s, %s; want run-c, run-b", runs[0].ID, runs[1].ID)
	}
}

func TestSaveRun_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &AnalysisRun{ID: "run-1"}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("saving run: %v", err)
	}
	if err := s.SaveRun(ctx, &AnalysisRun{ID: "run-1"}); err == nil {
		t.Fatal("expected primary-key violation on duplicate id")
	}
}
