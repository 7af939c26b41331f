package engine

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSaveEvery is the simulated time between autosaves in seconds
const DefaultSaveEvery = 5.0

// Loop drains elapsed time into whole quanta and triggers periodic saves.
// Leftover time below one quantum carries over to the next Advance.
type Loop struct {
	Quantum   float64 // Simulated seconds per tick
	SaveEvery float64 // Simulated seconds between saves, 0 disables
	Ticks     uint64  // Ticks run so far (monotonic)

	OnTick func(dt float64) // Called once per quantum
	OnSave func()           // Called when SaveEvery seconds have accumulated

	acc     float64
	saveAcc float64
}

// NewLoop creates a loop with the default quantum and save cadence
func NewLoop(onTick func(dt float64), onSave func()) *Loop {
	return &Loop{
		Quantum:   DefaultQuantum,
		SaveEvery: DefaultSaveEvery,
		OnTick:    onTick,
		OnSave:    onSave,
	}
}

// Advance adds elapsed seconds to the accumulator and runs every whole quantum it holds.
// It returns the number of ticks run.
func (l *Loop) Advance(elapsed float64) int {
	if !(elapsed > 0) || l.Quantum <= 0 {
		return 0
	}
	l.acc += elapsed

	n := 0
	for l.acc >= l.Quantum {
		if l.OnTick != nil {
			l.OnTick(l.Quantum)
		}
		l.acc -= l.Quantum
		l.saveAcc += l.Quantum
		l.Ticks++
		n++
	}

	if l.SaveEvery > 0 && l.saveAcc >= l.SaveEvery {
		if l.OnSave != nil {
			l.OnSave()
		}
		l.saveAcc = 0
	}
	return n
}

// Pending returns the carried-over time not yet simulated
func (l *Loop) Pending() float64 {
	return l.acc
}

// Runner feeds real elapsed time into an advance function at a fixed frame interval
type Runner struct {
	Interval time.Duration         // Frame interval
	Speed    float64               // Multiplier: 1.0 = real-time, 0 = paused
	Advance  func(seconds float64) // Receives scaled elapsed seconds each frame
	Logger   *slog.Logger
}

// NewRunner creates a real-time runner at roughly 60 frames per second
func NewRunner(advance func(seconds float64)) *Runner {
	return &Runner{
		Interval: 16 * time.Millisecond,
		Speed:    1.0,
		Advance:  advance,
		Logger:   slog.Default(),
	}
}

// Run blocks until ctx is cancelled
func (r *Runner) Run(ctx context.Context) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := r.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}

	logger.Info("simulation loop started", "interval", interval, "speed", r.Speed)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			logger.Info("simulation loop stopped")
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if r.Speed <= 0 || r.Advance == nil {
				continue
			}
			r.Advance(elapsed.Seconds() * r.Speed)
		}
	}
}
