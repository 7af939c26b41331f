// Package game wires the store, engine, resolver and save slot behind one handle.
// Every state transition goes through Game, which serializes them with a mutex and
// replaces the stored snapshot atomically.
package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/napolitain/nation-builder/internal/actions"
	"github.com/napolitain/nation-builder/internal/economy"
	"github.com/napolitain/nation-builder/internal/engine"
	"github.com/napolitain/nation-builder/internal/metrics"
	"github.com/napolitain/nation-builder/internal/models"
	"github.com/napolitain/nation-builder/internal/persistence"
	"github.com/napolitain/nation-builder/internal/store"
	"github.com/napolitain/nation-builder/internal/tutorial"
)

// saveTimeout bounds one autosave
const saveTimeout = 10 * time.Second

// Options configure a Game. Only Balance is required.
type Options struct {
	Balance   *models.Balance
	Saves     *persistence.Saves // nil disables persistence
	Metrics   *metrics.Metrics   // nil disables metrics
	Logger    *slog.Logger
	Now       func() time.Time
	Quantum   float64 // simulated seconds per tick, default engine.DefaultQuantum
	SaveEvery float64 // simulated seconds between autosaves, default engine.DefaultSaveEvery, < 0 disables
}

// Game is the single owner of the game state
type Game struct {
	mu       sync.Mutex
	balance  *models.Balance
	store    *store.Store
	engine   *engine.Engine
	resolver *actions.Resolver
	loop     *engine.Loop
	saves    *persistence.Saves
	metrics  *metrics.Metrics
	logger   *slog.Logger

	working *models.GameState // copy being advanced by the loop, only set inside Advance
	saveDue bool
}

// New creates a game holding a fresh state
func New(opts Options) *Game {
	if opts.Balance == nil {
		opts.Balance = models.DefaultBalance()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	eng := engine.NewEngine(opts.Balance)
	eng.Now = opts.Now
	eng.Logger = opts.Logger

	resolver := actions.NewResolver(opts.Balance, eng)
	resolver.Now = opts.Now
	resolver.Observe(tutorial.Observe)

	g := &Game{
		balance:  opts.Balance,
		engine:   eng,
		resolver: resolver,
		saves:    opts.Saves,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}

	g.loop = engine.NewLoop(g.tick, func() { g.saveDue = true })
	if opts.Quantum > 0 {
		g.loop.Quantum = opts.Quantum
	}
	switch {
	case opts.SaveEvery > 0:
		g.loop.SaveEvery = opts.SaveEvery
	case opts.SaveEvery < 0:
		g.loop.SaveEvery = 0
	}

	initial := models.NewGameState(opts.Balance)
	tutorial.Init(initial)
	g.store = store.New(initial)
	return g
}

// Balance returns the balance table in use
func (g *Game) Balance() *models.Balance {
	return g.balance
}

// Snapshot returns a copy of the current state
func (g *Game) Snapshot() *models.GameState {
	return g.store.Snapshot()
}

// Subscribe registers a listener called after every state change
func (g *Game) Subscribe(fn store.Listener) func() {
	return g.store.Subscribe(fn)
}

// Rates returns the instantaneous per-second rate of every resource
func (g *Game) Rates() models.Resources {
	return economy.Rates(g.store.Snapshot(), g.balance)
}

// Offers lists the next purchase of every action
func (g *Game) Offers() []actions.Offer {
	return actions.Offers(g.store.Snapshot(), g.balance)
}

// Tutorial returns the tutorial step and done flag
func (g *Game) Tutorial() tutorial.Status {
	return tutorial.Get(g.store.Snapshot())
}

func (g *Game) tick(dt float64) {
	g.engine.Step(g.working, dt)
}

// Advance feeds elapsed simulated seconds to the fixed-step loop and returns the ticks run.
// An autosave that falls due is written after the lock is released.
func (g *Game) Advance(seconds float64) int {
	g.mu.Lock()
	g.working = g.store.Snapshot()
	n := g.loop.Advance(seconds)
	next := g.working
	g.working = nil
	if n > 0 {
		g.store.Replace(next)
	}
	saveDue := g.saveDue
	g.saveDue = false
	g.mu.Unlock()

	if n > 0 {
		g.metrics.AddTicks(n)
		g.metrics.ObserveState(next)
	}
	if saveDue {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		// Autosave failures are logged by Save and never stop the simulation.
		_ = g.Save(ctx)
	}
	return n
}

// apply runs fn on a copy of the state and replaces the store if the result applied
func (g *Game) apply(fn func(s *models.GameState) actions.Result) actions.Result {
	g.mu.Lock()
	s := g.store.Snapshot()
	res := fn(s)
	if res.Err == nil {
		g.store.Replace(s)
	}
	g.mu.Unlock()

	g.metrics.ObserveAction(res.Action, outcome(res.Err), len(res.Unlocked))
	return res
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, actions.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, actions.ErrUnavailable):
		return "unavailable"
	}
	return "rejected"
}

// Do buys one tier of an action
func (g *Game) Do(a actions.Action) actions.Result {
	return g.apply(func(s *models.GameState) actions.Result {
		return g.resolver.Do(s, a)
	})
}

// Bulk buys up to n levels of an institution, or as many as possible when n is actions.BulkMax
func (g *Game) Bulk(a actions.Action, n int) actions.Result {
	return g.apply(func(s *models.GameState) actions.Result {
		return g.resolver.Bulk(s, a, n)
	})
}

// ForceElection starts an election now
func (g *Game) ForceElection() actions.Result {
	return g.apply(g.resolver.ForceElection)
}

// BuyGreedy buys the cheapest affordable actions until none is left or limit is reached
func (g *Game) BuyGreedy(limit int, skipRepeatable bool) []actions.Result {
	g.mu.Lock()
	s := g.store.Snapshot()
	results := g.resolver.BuyGreedy(s, limit, skipRepeatable)
	if len(results) > 0 {
		g.store.Replace(s)
	}
	g.mu.Unlock()

	for _, res := range results {
		g.metrics.ObserveAction(res.Action, outcome(res.Err), len(res.Unlocked))
	}
	return results
}

// TutorialNext advances the tutorial one step
func (g *Game) TutorialNext() tutorial.Status {
	return g.updateTutorial(tutorial.Next)
}

// TutorialSkip closes the tutorial
func (g *Game) TutorialSkip() tutorial.Status {
	return g.updateTutorial(tutorial.Skip)
}

func (g *Game) updateTutorial(fn func(s *models.GameState) bool) tutorial.Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.store.Snapshot()
	if fn(s) {
		g.store.Replace(s)
	}
	return tutorial.Get(s)
}

// Load replaces the state with the saved one. It reports whether a save was found;
// a missing or malformed save leaves a fresh state.
func (g *Game) Load(ctx context.Context) bool {
	if g.saves == nil {
		return false
	}
	s, found := g.saves.Load(ctx)
	tutorial.Init(s)

	g.mu.Lock()
	g.store.Replace(s)
	g.mu.Unlock()

	g.metrics.ObserveState(s)
	return found
}

// Save writes the current state to the save slot
func (g *Game) Save(ctx context.Context) error {
	if g.saves == nil {
		return nil
	}
	err := g.saves.Save(ctx, g.store.Snapshot())
	g.metrics.ObserveSave(err)
	return err
}

// Reset replaces the state with a fresh one and deletes the save
func (g *Game) Reset(ctx context.Context) error {
	fresh := models.NewGameState(g.balance)
	tutorial.Init(fresh)

	g.mu.Lock()
	g.store.Replace(fresh)
	g.mu.Unlock()

	g.logger.Info("game reset")
	if g.saves == nil {
		return nil
	}
	return g.saves.Reset(ctx)
}
