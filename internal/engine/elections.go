package engine

import (
	"fmt"
	"math"

	"github.com/napolitain/nation-builder/internal/achievements"
	"github.com/napolitain/nation-builder/internal/models"
)

// Turnout returns the turnout an election would have right now
func Turnout(s *models.GameState, b *models.Balance) float64 {
	t := b.Elections.BaseTurnout + s.Resources.ST*b.Elections.TurnoutStabilityFactor
	return math.Min(1, math.Max(0, t))
}

// stepElections runs at most one transition per tick.
// A cycle of zero seconds disables scheduled elections; forced ones still end.
func (e *Engine) stepElections(s *models.GameState, dt float64) {
	el := &s.Elections
	if !el.Active {
		if e.Balance.Elections.CycleSeconds <= 0 {
			return
		}
		el.NextIn = countdown(el.NextIn, dt)
		if el.NextIn == 0 {
			e.StartElection(s)
		}
		return
	}

	el.TimeLeft = countdown(el.TimeLeft, dt)
	if el.TimeLeft == 0 {
		e.endElection(s)
	}
}

// StartElection opens an election now, applying the turnout tier's one-time stability delta.
// It returns the turnout.
func (e *Engine) StartElection(s *models.GameState) float64 {
	cfg := e.Balance.Elections
	turnout := Turnout(s, e.Balance)

	tier := cfg.Low
	buff := models.BuffLow
	if turnout >= cfg.HighTurnoutThreshold {
		tier = cfg.High
		buff = models.BuffHigh
	}

	s.Elections = models.Elections{
		Active:   true,
		TimeLeft: cfg.DurationSeconds,
		NextIn:   0,
		Buff:     buff,
	}
	s.Resources.ST = math.Max(0, s.Resources.ST+tier.STDelta)

	now := e.timestamp()
	percent := int(math.Round(turnout * 100))
	s.Log(now, fmt.Sprintf("Elections started: %s turnout (%d%%)", buff, percent))
	e.logger().Info("election started", "buff", string(buff), "turnout", percent)

	if buff == models.BuffHigh {
		achievements.Check(s, e.Balance, now)
	}
	return turnout
}

func (e *Engine) endElection(s *models.GameState) {
	s.Elections = models.Elections{
		Active:   false,
		TimeLeft: 0,
		NextIn:   e.Balance.Elections.CycleSeconds,
		Buff:     models.BuffNone,
	}
	s.Log(e.timestamp(), "Elections ended")
	e.logger().Info("election ended")
}
