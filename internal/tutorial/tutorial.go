// Package tutorial tracks onboarding progress. Steps 0..LastStep are shown in order;
// passing a simple law while on LastStep completes the tutorial.
package tutorial

import (
	"github.com/napolitain/nation-builder/internal/actions"
	"github.com/napolitain/nation-builder/internal/models"
)

// LastStep is the final interactive step. It asks the player to pass a simple law.
const LastStep = 2

// Status is the tutorial part of a snapshot
type Status struct {
	Step int  `json:"step"`
	Done bool `json:"done"`
}

// Get returns the tutorial status of a state
func Get(s *models.GameState) Status {
	return Status{Step: s.Meta.TutorialStep, Done: s.Meta.TutorialDone}
}

// Init clamps a missing or negative step to 0. Finished tutorials are left alone.
func Init(s *models.GameState) {
	if s.Meta.TutorialDone {
		return
	}
	if s.Meta.TutorialStep < 0 {
		s.Meta.TutorialStep = 0
	}
}

// Next advances one step; stepping past LastStep finishes the tutorial.
// It reports whether the state changed.
func Next(s *models.GameState) bool {
	if s.Meta.TutorialDone {
		return false
	}
	s.Meta.TutorialStep++
	if s.Meta.TutorialStep > LastStep {
		s.Meta.TutorialDone = true
	}
	return true
}

// Skip closes the tutorial without changing the step
func Skip(s *models.GameState) bool {
	if s.Meta.TutorialDone {
		return false
	}
	s.Meta.TutorialDone = true
	return true
}

// Observe is a resolver observer: a simple law passed on LastStep completes the tutorial
func Observe(s *models.GameState, res actions.Result) {
	if s.Meta.TutorialDone || res.Action != actions.NameSimpleLaw {
		return
	}
	if s.Meta.TutorialStep == LastStep {
		s.Meta.TutorialStep = LastStep + 1
		s.Meta.TutorialDone = true
	}
}
