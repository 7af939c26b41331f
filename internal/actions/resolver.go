// Package actions validates and applies player purchases as atomic state transitions.
package actions

import (
	"errors"
	"fmt"
	"time"

	"github.com/napolitain/nation-builder/internal/achievements"
	"github.com/napolitain/nation-builder/internal/engine"
	"github.com/napolitain/nation-builder/internal/models"
)

var (
	// ErrUnavailable means there is no next tier: max level, already owned or not configured
	ErrUnavailable = errors.New("action unavailable")
	// ErrInsufficientFunds means the state holds less DP than the cost
	ErrInsufficientFunds = errors.New("insufficient DP")
	// ErrUnknownAction means the action name does not exist
	ErrUnknownAction = errors.New("unknown action")
	// ErrNotBulk means the action cannot be bought in bulk
	ErrNotBulk = errors.New("action does not support bulk buying")
)

// BulkMax asks Bulk to buy as many levels as possible
const BulkMax = 0

// Result describes the outcome of a resolver call.
// A non-nil Err means the state was not modified.
type Result struct {
	Action   string   `json:"action"`
	Count    int      `json:"count"`
	Cost     float64  `json:"cost"`
	Unlocked []string `json:"unlocked,omitempty"`
	Err      error    `json:"-"`
}

// Applied reports whether the action changed the state
func (r Result) Applied() bool {
	return r.Err == nil && r.Count > 0
}

// Observer is notified after every applied action, on the same working copy
type Observer func(s *models.GameState, res Result)

// Resolver applies actions against a balance table
type Resolver struct {
	Balance   *models.Balance
	Engine    *engine.Engine
	Now       func() time.Time
	observers []Observer
}

// NewResolver creates a resolver. The engine runs forced elections.
func NewResolver(b *models.Balance, eng *engine.Engine) *Resolver {
	return &Resolver{
		Balance: b,
		Engine:  eng,
		Now:     time.Now,
	}
}

// Observe registers an observer of applied actions
func (r *Resolver) Observe(o Observer) {
	r.observers = append(r.observers, o)
}

func (r *Resolver) timestamp() int64 {
	if r.Now == nil {
		return time.Now().UnixMilli()
	}
	return r.Now().UnixMilli()
}

// buy debits and applies one tier without logging
func (r *Resolver) buy(s *models.GameState, a Action) (float64, string, error) {
	tier := a.Next(s, r.Balance)
	if tier == nil {
		return 0, "", ErrUnavailable
	}
	if s.Resources.DP < tier.CostDP {
		return 0, "", ErrInsufficientFunds
	}
	s.Resources.DP -= tier.CostDP
	msg := a.Apply(s, r.Balance, tier)
	return tier.CostDP, msg, nil
}

// Do buys one tier of an action. Rejected actions leave the state untouched and log nothing.
func (r *Resolver) Do(s *models.GameState, a Action) Result {
	res := Result{Action: a.Name()}
	cost, msg, err := r.buy(s, a)
	if err != nil {
		res.Err = err
		return res
	}

	now := r.timestamp()
	s.Log(now, msg)
	res.Count = 1
	res.Cost = cost
	res.Unlocked = achievements.Check(s, r.Balance, now)
	r.notify(s, res)
	return res
}

// Bulk buys up to n levels of an institution, or as many as affordable when n is BulkMax.
// It logs one summary event, and only if at least one level was bought.
func (r *Resolver) Bulk(s *models.GameState, a Action, n int) Result {
	res := Result{Action: a.Name()}
	la, ok := a.(LevelAction)
	if !ok {
		res.Err = ErrNotBulk
		return res
	}

	var firstErr error
	for n <= BulkMax || res.Count < n {
		cost, _, err := r.buy(s, la)
		if err != nil {
			firstErr = err
			break
		}
		res.Count++
		res.Cost += cost
	}

	if res.Count == 0 {
		res.Err = firstErr
		return res
	}

	now := r.timestamp()
	level := s.Institutions.Get(la.Institution())
	s.Log(now, fmt.Sprintf("%s upgraded %d times (now level %d)", la.Institution().Title(), res.Count, level))
	res.Unlocked = achievements.Check(s, r.Balance, now)
	r.notify(s, res)
	return res
}

// ForceElection starts an election immediately. It has no precondition and no cost.
func (r *Resolver) ForceElection(s *models.GameState) Result {
	r.Engine.StartElection(s)
	res := Result{Action: NameForceElection, Count: 1}
	res.Unlocked = achievements.Check(s, r.Balance, r.timestamp())
	r.notify(s, res)
	return res
}

func (r *Resolver) notify(s *models.GameState, res Result) {
	for _, o := range r.observers {
		o(s, res)
	}
}

// Offer describes the next purchase of an action
type Offer struct {
	Action     string  `json:"action"`
	Cost       float64 `json:"cost"`
	Available  bool    `json:"available"`
	Affordable bool    `json:"affordable"`
}

// NextCost returns the DP cost of the next purchase, or false if none is available
func NextCost(s *models.GameState, b *models.Balance, a Action) (float64, bool) {
	tier := a.Next(s, b)
	if tier == nil {
		return 0, false
	}
	return tier.CostDP, true
}

// CanAfford reports whether the next purchase exists and is affordable
func CanAfford(s *models.GameState, b *models.Balance, a Action) bool {
	cost, ok := NextCost(s, b, a)
	return ok && s.Resources.DP >= cost
}

// Offers lists the next purchase of every action in catalogue order
func Offers(s *models.GameState, b *models.Balance) []Offer {
	catalogue := Catalogue()
	offers := make([]Offer, 0, len(catalogue))
	for _, a := range catalogue {
		cost, ok := NextCost(s, b, a)
		offers = append(offers, Offer{
			Action:     a.Name(),
			Cost:       cost,
			Available:  ok,
			Affordable: ok && s.Resources.DP >= cost,
		})
	}
	return offers
}
