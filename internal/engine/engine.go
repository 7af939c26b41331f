// Package engine provides the fixed-step simulation: per-tick accrual,
// the election sub-cycle and the accumulator loop that drives them.
package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/napolitain/nation-builder/internal/economy"
	"github.com/napolitain/nation-builder/internal/models"
)

// DefaultQuantum is the simulated duration of one tick in seconds
const DefaultQuantum = 1.0 / 60.0

// timerEpsilon absorbs float drift when a countdown is drained in many quanta
const timerEpsilon = 1e-9

// Engine advances a game state by fixed time steps
type Engine struct {
	Balance *models.Balance
	Now     func() time.Time // Clock used for event timestamps
	Logger  *slog.Logger
}

// NewEngine creates an engine for a balance table
func NewEngine(b *models.Balance) *Engine {
	return &Engine{
		Balance: b,
		Now:     time.Now,
		Logger:  slog.Default(),
	}
}

// Step advances the state by dt seconds. Resources accrue in a fixed order:
// pop first, so DP and PR use this tick's population; elections last.
func (e *Engine) Step(s *models.GameState, dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	b := e.Balance
	r := &s.Resources

	r.Pop += economy.PopRate(s, b) * dt
	r.DP += economy.DPRate(s, b) * dt
	r.ST += economy.STRate(s, b) * dt
	r.PR += economy.PRRate(s, b) * dt
	r.II += economy.IIRate(s, b) * dt

	e.stepElections(s, dt)
}

func (e *Engine) timestamp() int64 {
	if e.Now == nil {
		return time.Now().UnixMilli()
	}
	return e.Now().UnixMilli()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// countdown subtracts dt and clamps to zero
func countdown(v, dt float64) float64 {
	v -= dt
	if v < timerEpsilon {
		return 0
	}
	return v
}
