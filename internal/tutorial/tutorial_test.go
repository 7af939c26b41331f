package tutorial

import (
	"testing"

	"github.com/napolitain/nation-builder/internal/actions"
	"github.com/napolitain/nation-builder/internal/engine"
	"github.com/napolitain/nation-builder/internal/models"
)

func TestInit(t *testing.T) {
	s := models.NewGameState(nil)
	s.Meta.TutorialStep = -3
	Init(s)
	if got := Get(s); got != (Status{Step: 0, Done: false}) {
		t.Errorf("Expected step 0, got %+v", got)
	}

	s.Meta.TutorialStep = 2
	s.Meta.TutorialDone = true
	Init(s)
	if got := Get(s); got != (Status{Step: 2, Done: true}) {
		t.Errorf("Expected finished tutorial untouched, got %+v", got)
	}
}

func TestNextFinishesAfterLastStep(t *testing.T) {
	s := models.NewGameState(nil)

	for step := 1; step <= LastStep; step++ {
		if !Next(s) {
			t.Fatalf("Expected step %d to change the state", step)
		}
		if got := Get(s); got.Step != step || got.Done {
			t.Fatalf("Expected step %d, got %+v", step, got)
		}
	}

	Next(s)
	if !Get(s).Done {
		t.Error("Expected tutorial done after the last step")
	}
	if Next(s) {
		t.Error("Expected Next to be a no-op once done")
	}
}

func TestSkip(t *testing.T) {
	s := models.NewGameState(nil)
	s.Meta.TutorialStep = 1

	if !Skip(s) {
		t.Fatal("Expected Skip to change the state")
	}
	if got := Get(s); got != (Status{Step: 1, Done: true}) {
		t.Errorf("Expected step kept and done, got %+v", got)
	}
	if Skip(s) {
		t.Error("Expected second Skip to be a no-op")
	}
}

func TestSimpleLawCompletesLastStep(t *testing.T) {
	b := models.DefaultBalance()
	r := actions.NewResolver(b, engine.NewEngine(b))
	r.Observe(Observe)

	s := models.NewGameState(b)
	s.Resources.DP = 100

	r.Do(s, actions.PassSimpleLaw{})
	if Get(s).Done {
		t.Fatal("Expected a law before the last step not to finish the tutorial")
	}

	s.Meta.TutorialStep = LastStep
	r.Do(s, actions.BuyParliament{})
	if Get(s).Done {
		t.Fatal("Expected other actions not to finish the tutorial")
	}

	r.Do(s, actions.PassSimpleLaw{})
	if got := Get(s); got != (Status{Step: LastStep + 1, Done: true}) {
		t.Errorf("Expected tutorial finished, got %+v", got)
	}
}
