package game

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/napolitain/nation-builder/internal/actions"
	"github.com/napolitain/nation-builder/internal/metrics"
	"github.com/napolitain/nation-builder/internal/models"
	"github.com/napolitain/nation-builder/internal/persistence"
)

var fixedNow = func() time.Time { return time.UnixMilli(1_700_000_000_000) }

func newTestGame(t *testing.T, saveEvery float64) (*Game, *persistence.MemoryBackend) {
	t.Helper()
	b := models.DefaultBalance()
	backend := persistence.NewMemory()
	g := New(Options{
		Balance:   b,
		Saves:     persistence.NewSaves(backend, "", b, nil),
		Metrics:   metrics.New(),
		Now:       fixedNow,
		Quantum:   0.5,
		SaveEvery: saveEvery,
	})
	return g, backend
}

func TestNewGame(t *testing.T) {
	g := New(Options{})

	s := g.Snapshot()
	if s.Resources != (models.Resources{}) {
		t.Errorf("Expected zero resources, got %+v", s.Resources)
	}
	if g.Tutorial().Step != 0 || g.Tutorial().Done {
		t.Errorf("Expected tutorial at step 0, got %+v", g.Tutorial())
	}
	if g.Balance() == nil {
		t.Error("Expected the default balance")
	}
	if len(g.Offers()) != len(actions.Catalogue()) {
		t.Errorf("Expected %d offers, got %d", len(actions.Catalogue()), len(g.Offers()))
	}
}

func TestAdvanceAndBuy(t *testing.T) {
	g, _ := newTestGame(t, -1)

	if n := g.Advance(15); n != 30 {
		t.Fatalf("Expected 30 ticks, got %d", n)
	}
	s := g.Snapshot()
	if s.Resources.Pop != 15 {
		t.Errorf("Expected pop 15, got %f", s.Resources.Pop)
	}
	if s.Resources.DP < 10 {
		t.Fatalf("Expected at least 10 DP after 15 seconds, got %f", s.Resources.DP)
	}
	if r := g.Rates(); math.Abs(r.DP-1.5) > 1e-9 {
		t.Errorf("Expected DP rate 1.5, got %f", r.DP)
	}

	res := g.Do(actions.BuyParliament{})
	if res.Err != nil {
		t.Fatalf("Failed to buy parliament: %v", res.Err)
	}
	after := g.Snapshot()
	if after.Institutions.Parliament != 1 || after.Resources.Pop != 20 {
		t.Errorf("Unexpected state after purchase: %+v %+v", after.Institutions, after.Resources)
	}
	if math.Abs(after.Resources.DP-(s.Resources.DP-10)) > 1e-9 {
		t.Errorf("Expected 10 DP debited, got %f -> %f", s.Resources.DP, after.Resources.DP)
	}
	if got := testutil.ToFloat64(g.metrics.Actions.WithLabelValues(actions.NameParliament, "applied")); got != 1 {
		t.Errorf("Expected 1 applied action in metrics, got %f", got)
	}
	if got := testutil.ToFloat64(g.metrics.Ticks); got != 30 {
		t.Errorf("Expected 30 ticks in metrics, got %f", got)
	}
}

func TestRejectedActionKeepsState(t *testing.T) {
	g, _ := newTestGame(t, -1)
	before := g.Snapshot()

	res := g.Do(actions.AmendConstitution{})
	if !errors.Is(res.Err, actions.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", res.Err)
	}
	if after := g.Snapshot(); after.Resources != before.Resources || len(after.Events) != 0 {
		t.Errorf("Expected unchanged state, got %+v", after)
	}
	if got := testutil.ToFloat64(g.metrics.Actions.WithLabelValues(actions.NameConstitutionalAmend, "insufficient_funds")); got != 1 {
		t.Errorf("Expected 1 rejected action in metrics, got %f", got)
	}
}

func TestAutosave(t *testing.T) {
	g, backend := newTestGame(t, 2)
	ctx := context.Background()

	g.Advance(1.5)
	if _, err := backend.Get(ctx, persistence.DefaultKey); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected no save before 2 seconds, got %v", err)
	}

	g.Advance(0.5)
	data, err := backend.Get(ctx, persistence.DefaultKey)
	if err != nil {
		t.Fatalf("Expected an autosave at 2 seconds: %v", err)
	}
	saved, err := persistence.Decode(data, g.Balance())
	if err != nil {
		t.Fatalf("Failed to decode autosave: %v", err)
	}
	if saved.Resources.Pop != 2 {
		t.Errorf("Expected saved pop 2, got %f", saved.Resources.Pop)
	}
	if got := testutil.ToFloat64(g.metrics.Saves.WithLabelValues("ok")); got != 1 {
		t.Errorf("Expected 1 save in metrics, got %f", got)
	}
}

func TestAutosaveDisabled(t *testing.T) {
	g, backend := newTestGame(t, -1)

	g.Advance(60)
	if _, err := backend.Get(context.Background(), persistence.DefaultKey); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("Expected no autosave, got %v", err)
	}
}

func TestLoadAndReset(t *testing.T) {
	g, backend := newTestGame(t, -1)
	ctx := context.Background()

	if g.Load(ctx) {
		t.Error("Expected no save to load")
	}

	g.Advance(30)
	g.Do(actions.BuyParliament{})
	if err := g.Save(ctx); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	want := g.Snapshot()

	b := g.Balance()
	restored := New(Options{Balance: b, Saves: persistence.NewSaves(backend, "", b, nil), Now: fixedNow})
	if !restored.Load(ctx) {
		t.Fatal("Expected the save to load")
	}
	got := restored.Snapshot()
	if got.Resources != want.Resources || got.Institutions != want.Institutions || len(got.Events) != len(want.Events) {
		t.Errorf("Loaded state mismatch:\nwant %+v\ngot  %+v", want, got)
	}

	if err := restored.Reset(ctx); err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}
	if s := restored.Snapshot(); s.Resources != (models.Resources{}) || s.Institutions.Parliament != 0 {
		t.Errorf("Expected a fresh state after reset, got %+v", s)
	}
	if _, err := backend.Get(ctx, persistence.DefaultKey); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("Expected the save deleted, got %v", err)
	}
}

func TestWithoutSaves(t *testing.T) {
	g := New(Options{Now: fixedNow})
	ctx := context.Background()

	if g.Load(ctx) {
		t.Error("Expected Load to report nothing without a save slot")
	}
	if err := g.Save(ctx); err != nil {
		t.Errorf("Expected Save to be a no-op, got %v", err)
	}
	if err := g.Reset(ctx); err != nil {
		t.Errorf("Expected Reset without saves to succeed, got %v", err)
	}
}

func TestTutorialThroughGame(t *testing.T) {
	g, _ := newTestGame(t, -1)

	g.TutorialNext()
	status := g.TutorialNext()
	if status.Step != 2 || status.Done {
		t.Fatalf("Expected step 2, got %+v", status)
	}

	g.Advance(30)
	if res := g.Do(actions.PassSimpleLaw{}); res.Err != nil {
		t.Fatalf("Failed to pass law: %v", res.Err)
	}
	if !g.Tutorial().Done {
		t.Error("Expected the law to finish the tutorial")
	}

	g2, _ := newTestGame(t, -1)
	if status := g2.TutorialSkip(); !status.Done || status.Step != 0 {
		t.Errorf("Expected skipped tutorial at step 0, got %+v", status)
	}
}

func TestForceElectionAndBulk(t *testing.T) {
	g, _ := newTestGame(t, -1)

	res := g.ForceElection()
	if res.Err != nil {
		t.Fatalf("Unexpected error: %v", res.Err)
	}
	if !g.Snapshot().Elections.Active {
		t.Error("Expected an active election")
	}

	g.Advance(40)
	res = g.Bulk(actions.BuyParliament{}, actions.BulkMax)
	if res.Err != nil || res.Count < 1 {
		t.Fatalf("Expected at least one level bought, got %+v", res)
	}

	results := g.BuyGreedy(0, true)
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("Expected only applied results, got %v", r.Err)
		}
	}
}

func TestSubscribe(t *testing.T) {
	g, _ := newTestGame(t, -1)

	var calls atomic.Int64
	unsubscribe := g.Subscribe(func(*models.GameState) { calls.Add(1) })

	g.Advance(1)
	g.Do(actions.BuyParliament{}) // rejected, no notification
	unsubscribe()
	g.Advance(1)

	if calls.Load() != 1 {
		t.Errorf("Expected 1 notification, got %d", calls.Load())
	}
}

func TestConcurrentUse(t *testing.T) {
	g, _ := newTestGame(t, 1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.Advance(0.5)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.BuyGreedy(1, false)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = g.Snapshot()
				_ = g.Rates()
			}
		}()
	}
	wg.Wait()

	s := g.Snapshot()
	if s.Resources.DP < 0 {
		t.Errorf("Expected non-negative DP, got %f", s.Resources.DP)
	}
	// 4 goroutines x 50 x 0.5 seconds
	if s.Resources.Pop < 100 {
		t.Errorf("Expected every advance applied, got pop %f", s.Resources.Pop)
	}
}
