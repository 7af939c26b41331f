package actions

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/napolitain/nation-builder/internal/engine"
	"github.com/napolitain/nation-builder/internal/models"
)

func newTestResolver() *Resolver {
	b := models.DefaultBalance()
	eng := engine.NewEngine(b)
	now := func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	eng.Now = now
	r := NewResolver(b, eng)
	r.Now = now
	return r
}

func TestBuyParliament(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 10

	res := r.Do(s, BuyParliament{})
	if res.Err != nil {
		t.Fatalf("Failed to buy parliament: %v", res.Err)
	}
	if !res.Applied() || res.Count != 1 || res.Cost != 10 {
		t.Errorf("Unexpected result: %+v", res)
	}
	if s.Resources.DP != 0 {
		t.Errorf("Expected DP 0, got %f", s.Resources.DP)
	}
	if s.Resources.Pop != 5 {
		t.Errorf("Expected pop 5, got %f", s.Resources.Pop)
	}
	if s.Institutions.Parliament != 1 {
		t.Errorf("Expected parliament level 1, got %d", s.Institutions.Parliament)
	}
	if !reflect.DeepEqual(res.Unlocked, []string{"first_parliament"}) {
		t.Errorf("Expected first_parliament unlock, got %v", res.Unlocked)
	}
	if len(s.Events) != 2 {
		t.Fatalf("Expected purchase and achievement events, got %+v", s.Events)
	}
	if s.Events[1].Message != "Parliament upgraded to level 1" {
		t.Errorf("Expected purchase event, got %s", s.Events[1].Message)
	}
	if s.Events[0].Message != "Achievement unlocked: First Parliament" {
		t.Errorf("Expected achievement event, got %s", s.Events[0].Message)
	}
	if s.Events[0].Timestamp != 1_700_000_000_000 {
		t.Errorf("Expected injected timestamp, got %d", s.Events[0].Timestamp)
	}
}

func TestRejectedActionLeavesStateUntouched(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name   string
		action Action
		setup  func(s *models.GameState)
		err    error
	}{
		{"insufficient funds", BuyParliament{}, func(s *models.GameState) { s.Resources.DP = 9.99 }, ErrInsufficientFunds},
		{"parliament at max", BuyParliament{}, func(s *models.GameState) {
			s.Institutions.Parliament = 5
			s.Resources.DP = 1e9
		}, ErrUnavailable},
		{"presidency founded", BuyPresidency{}, func(s *models.GameState) {
			s.Institutions.Presidency = 1
			s.Resources.DP = 1e9
		}, ErrUnavailable},
		{"courts at max", BuyCourts{}, func(s *models.GameState) {
			s.Institutions.Courts = 3
			s.Resources.DP = 1e9
		}, ErrUnavailable},
		{"right adopted", AdoptRight{Right: models.FreedomOfPress}, func(s *models.GameState) {
			s.Policies.Rights = append(s.Policies.Rights, models.FreedomOfPress)
			s.Resources.DP = 1e9
		}, ErrUnavailable},
		{"ministry founded", FoundMinistry{Ministry: models.MinistryOfEducation}, func(s *models.GameState) {
			s.Policies.Ministries = append(s.Policies.Ministries, models.MinistryOfEducation)
			s.Resources.DP = 1e9
		}, ErrUnavailable},
		{"amendment passed", AmendConstitution{}, func(s *models.GameState) {
			s.Meta.ConstAmend = 1
			s.Resources.DP = 1e9
		}, ErrUnavailable},
		{"unconfigured right", AdoptRight{Right: "assembly_of_gods"}, func(s *models.GameState) {
			s.Resources.DP = 1e9
		}, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewGameState(r.Balance)
			tt.setup(s)
			before := s.Clone()

			res := r.Do(s, tt.action)
			if !errors.Is(res.Err, tt.err) {
				t.Fatalf("Expected %v, got %v", tt.err, res.Err)
			}
			if res.Applied() {
				t.Error("Expected a rejected result")
			}
			if !reflect.DeepEqual(s, before) {
				t.Errorf("Expected state untouched, got %+v", s)
			}
		})
	}
}

func TestPresidencyAndCourts(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 100 + 80 + 250

	if res := r.Do(s, BuyPresidency{}); res.Err != nil {
		t.Fatalf("Failed to buy presidency: %v", res.Err)
	}
	if res := r.Do(s, BuyCourts{}); res.Err != nil {
		t.Fatalf("Failed to buy courts: %v", res.Err)
	}
	if res := r.Do(s, BuyCourts{}); res.Err != nil {
		t.Fatalf("Failed to buy courts level 2: %v", res.Err)
	}

	if s.Resources.ST != 5+3+5 {
		t.Errorf("Expected stability 13, got %f", s.Resources.ST)
	}
	if s.Institutions.Presidency != 1 || s.Institutions.Courts != 2 {
		t.Errorf("Unexpected institutions: %+v", s.Institutions)
	}
	if s.Resources.DP != 0 {
		t.Errorf("Expected DP 0, got %f", s.Resources.DP)
	}
}

func TestAdoptAllRights(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 60 + 90 + 120 + 150 + 300

	var unlocked []string
	for _, id := range models.AllRights() {
		res := r.Do(s, AdoptRight{Right: id})
		if res.Err != nil {
			t.Fatalf("Failed to adopt %s: %v", id, res.Err)
		}
		unlocked = append(unlocked, res.Unlocked...)
	}

	if !reflect.DeepEqual(s.Policies.Rights, models.AllRights()) {
		t.Errorf("Expected rights in adoption order, got %v", s.Policies.Rights)
	}
	if !reflect.DeepEqual(unlocked, []string{"all_rights"}) {
		t.Errorf("Expected all_rights exactly once, got %v", unlocked)
	}
}

func TestLaws(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 10*3 + 500 + 200

	for i := 0; i < 3; i++ {
		if res := r.Do(s, PassSimpleLaw{}); res.Err != nil {
			t.Fatalf("Failed to pass simple law: %v", res.Err)
		}
	}
	if s.Meta.SimpleLaws != 3 || s.Resources.ST != 3 {
		t.Errorf("Expected 3 laws and stability 3, got %d and %f", s.Meta.SimpleLaws, s.Resources.ST)
	}
	if s.Events[0].Message != "Simple law passed (3 total)" {
		t.Errorf("Expected law event, got %s", s.Events[0].Message)
	}

	res := r.Do(s, AmendConstitution{})
	if res.Err != nil {
		t.Fatalf("Failed to amend constitution: %v", res.Err)
	}
	if s.Meta.ConstAmend != 1 || s.Resources.ST != 13 {
		t.Errorf("Expected amendment and stability 13, got %d and %f", s.Meta.ConstAmend, s.Resources.ST)
	}
	if !reflect.DeepEqual(res.Unlocked, []string{"constitution"}) {
		t.Errorf("Expected constitution unlock, got %v", res.Unlocked)
	}
	if res := r.Do(s, AmendConstitution{}); !errors.Is(res.Err, ErrUnavailable) {
		t.Errorf("Expected second amendment to be unavailable, got %v", res.Err)
	}

	if res := r.Do(s, SignTreaty{}); res.Err != nil {
		t.Fatalf("Failed to sign treaty: %v", res.Err)
	}
	if s.Meta.IntlTreaties != 1 {
		t.Errorf("Expected 1 treaty, got %d", s.Meta.IntlTreaties)
	}
}

func TestBulk(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 10 + 50 + 200 + 5

	res := r.Bulk(s, BuyParliament{}, BulkMax)
	if res.Err != nil {
		t.Fatalf("Failed to bulk buy: %v", res.Err)
	}
	if res.Count != 3 || res.Cost != 260 {
		t.Errorf("Expected 3 levels for 260 DP, got %d for %f", res.Count, res.Cost)
	}
	if s.Institutions.Parliament != 3 || s.Resources.DP != 5 || s.Resources.Pop != 60 {
		t.Errorf("Unexpected state after bulk: %+v %+v", s.Institutions, s.Resources)
	}

	summaries := 0
	for _, e := range s.Events {
		if e.Message == "Parliament upgraded 3 times (now level 3)" {
			summaries++
		}
		if e.Message == "Parliament upgraded to level 1" {
			t.Error("Expected no per-level events during bulk")
		}
	}
	if summaries != 1 {
		t.Errorf("Expected one summary event, got %+v", s.Events)
	}
}

func TestBulkCount(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 1e6

	res := r.Bulk(s, BuyCourts{}, 2)
	if res.Count != 2 || s.Institutions.Courts != 2 {
		t.Errorf("Expected 2 levels, got %d (level %d)", res.Count, s.Institutions.Courts)
	}

	res = r.Bulk(s, BuyCourts{}, 5)
	if res.Err != nil || res.Count != 1 {
		t.Errorf("Expected to stop at max level after 1, got %d (%v)", res.Count, res.Err)
	}

	res = r.Bulk(s, BuyCourts{}, 1)
	if !errors.Is(res.Err, ErrUnavailable) {
		t.Errorf("Expected unavailable at max level, got %v", res.Err)
	}
}

func TestBulkRejectsNonInstitutions(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 1000

	res := r.Bulk(s, PassSimpleLaw{}, 3)
	if !errors.Is(res.Err, ErrNotBulk) {
		t.Errorf("Expected ErrNotBulk, got %v", res.Err)
	}
	if s.Resources.DP != 1000 {
		t.Errorf("Expected DP untouched, got %f", s.Resources.DP)
	}
}

func TestBulkInsufficientFunds(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 5

	res := r.Bulk(s, BuyParliament{}, BulkMax)
	if !errors.Is(res.Err, ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", res.Err)
	}
	if len(s.Events) != 0 {
		t.Errorf("Expected no events, got %+v", s.Events)
	}
}

func TestForceElection(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.ST = 20

	res := r.ForceElection(s)
	if res.Err != nil || res.Count != 1 {
		t.Fatalf("Unexpected result: %+v", res)
	}
	if !s.Elections.Active || s.Elections.Buff != models.BuffHigh {
		t.Errorf("Expected high turnout election, got %+v", s.Elections)
	}
	if !s.HasAchievement("high_turnout") {
		t.Error("Expected high_turnout achievement")
	}

	// Forcing again restarts the election
	s.Elections.TimeLeft = 3
	r.ForceElection(s)
	if s.Elections.TimeLeft != 30 {
		t.Errorf("Expected restarted election, got %+v", s.Elections)
	}
}

func TestObserversSeeAppliedActions(t *testing.T) {
	r := newTestResolver()
	var seen []string
	r.Observe(func(s *models.GameState, res Result) {
		seen = append(seen, res.Action)
	})

	s := models.NewGameState(r.Balance)
	s.Resources.DP = 10
	r.Do(s, PassSimpleLaw{})
	r.Do(s, PassSimpleLaw{})

	if !reflect.DeepEqual(seen, []string{NameSimpleLaw}) {
		t.Errorf("Expected only the applied law to be observed, got %v", seen)
	}
}

func TestParse(t *testing.T) {
	for _, a := range Catalogue() {
		parsed, err := Parse(a.Name())
		if err != nil {
			t.Fatalf("Failed to parse %s: %v", a.Name(), err)
		}
		if parsed.Name() != a.Name() {
			t.Errorf("Expected %s, got %s", a.Name(), parsed.Name())
		}
	}

	if _, err := Parse("right:speech"); err != nil {
		t.Errorf("Expected right:speech to parse, got %v", err)
	}
	if _, err := Parse("monarchy"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Expected ErrUnknownAction, got %v", err)
	}
}

func TestOffers(t *testing.T) {
	r := newTestResolver()
	s := models.NewGameState(r.Balance)
	s.Resources.DP = 100
	s.Meta.ConstAmend = 1

	offers := Offers(s, r.Balance)
	if len(offers) != len(Catalogue()) {
		t.Fatalf("Expected %d offers, got %d", len(Catalogue()), len(offers))
	}

	byName := make(map[string]Offer)
	for _, o := range offers {
		byName[o.Action] = o
	}
	if o := byName[NameParliament]; !o.Available || !o.Affordable || o.Cost != 10 {
		t.Errorf("Unexpected parliament offer: %+v", o)
	}
	if o := byName[NameCourts]; !o.Affordable {
		t.Errorf("Expected courts affordable at 80, got %+v", o)
	}
	if o := byName["right:suffrage"]; !o.Available || o.Affordable {
		t.Errorf("Expected suffrage available but unaffordable, got %+v", o)
	}
	if o := byName[NameConstitutionalAmend]; o.Available {
		t.Errorf("Expected amendment unavailable, got %+v", o)
	}
}
