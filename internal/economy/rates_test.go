package economy

import (
	"math"
	"testing"

	"github.com/napolitain/nation-builder/internal/models"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestRatesFreshState(t *testing.T) {
	b := models.DefaultBalance()
	s := models.NewGameState(b)

	r := Rates(s, b)
	if r.Pop != 1 {
		t.Errorf("Expected pop rate 1, got %f", r.Pop)
	}
	if r.DP != 0 || r.ST != 0 || r.PR != 0 || r.II != 0 {
		t.Errorf("Expected zero rates without population or institutions, got %+v", r)
	}
}

func TestMultipliers(t *testing.T) {
	b := models.DefaultBalance()

	tests := []struct {
		name  string
		setup func(s *models.GameState)
		want  Multipliers
	}{
		{"base", func(s *models.GameState) {}, Multipliers{DP: 1, ST: 1, PR: 1}},
		{"education", func(s *models.GameState) {
			s.Policies.Ministries = append(s.Policies.Ministries, models.MinistryOfEducation)
		}, Multipliers{DP: 1.25, ST: 1, PR: 1}},
		{"amendment", func(s *models.GameState) {
			s.Meta.ConstAmend = 1
		}, Multipliers{DP: 1.5, ST: 1, PR: 1}},
		{"high turnout election", func(s *models.GameState) {
			s.Elections = models.Elections{Active: true, TimeLeft: 10, Buff: models.BuffHigh}
		}, Multipliers{DP: 1.2, ST: 1, PR: 1}},
		{"low turnout election", func(s *models.GameState) {
			s.Elections = models.Elections{Active: true, TimeLeft: 10, Buff: models.BuffLow}
		}, Multipliers{DP: 1, ST: 1, PR: 1}},
		{"speech and suffrage", func(s *models.GameState) {
			s.Policies.Rights = append(s.Policies.Rights, models.FreedomOfSpeech, models.UniversalSuffrage)
		}, Multipliers{DP: 1, ST: 1.15, PR: 1.35}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewGameState(b)
			tt.setup(s)
			got := GetMultipliers(s, b)
			if !approxEqual(got.DP, tt.want.DP) || !approxEqual(got.ST, tt.want.ST) || !approxEqual(got.PR, tt.want.PR) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDPRateIncludesParliamentFlat(t *testing.T) {
	b := models.DefaultBalance()
	s := models.NewGameState(b)
	s.Resources.Pop = 100
	s.Institutions.Parliament = 3

	// 0.1 * 100 * 1 + 0.3
	if got := DPRate(s, b); !approxEqual(got, 10.3) {
		t.Errorf("Expected 10.3, got %f", got)
	}

	s.Policies.Ministries = append(s.Policies.Ministries, models.MinistryOfEducation)
	// The flat bonus is not multiplied
	if got := DPRate(s, b); !approxEqual(got, 12.8) {
		t.Errorf("Expected 12.8, got %f", got)
	}
}

func TestSTRate(t *testing.T) {
	b := models.DefaultBalance()
	s := models.NewGameState(b)
	s.Institutions = models.Institutions{Parliament: 1, Presidency: 1, Courts: 2}

	// 0.05 * 3 + 0.05 from courts level 2
	if got := STRate(s, b); !approxEqual(got, 0.2) {
		t.Errorf("Expected 0.2, got %f", got)
	}

	s.Policies.Rights = append(s.Policies.Rights, models.FreedomOfReligion)
	// 0.05 * 3 * 1.1 + 0.05
	if got := STRate(s, b); !approxEqual(got, 0.215) {
		t.Errorf("Expected 0.215, got %f", got)
	}
}

func TestPRRate(t *testing.T) {
	b := models.DefaultBalance()
	s := models.NewGameState(b)
	s.Resources.Pop = 50
	s.Policies.Rights = append(s.Policies.Rights, models.FreedomOfPress)

	// 0.1 * 50 * 1.15
	if got := PRRate(s, b); !approxEqual(got, 5.75) {
		t.Errorf("Expected 5.75, got %f", got)
	}
}

func TestIIRate(t *testing.T) {
	b := models.DefaultBalance()
	s := models.NewGameState(b)
	s.Meta.IntlTreaties = 3

	if got := IIRate(s, b); !approxEqual(got, 0.03) {
		t.Errorf("Expected 0.03, got %f", got)
	}
}

func TestRatesArePure(t *testing.T) {
	b := models.DefaultBalance()
	s := models.NewGameState(b)
	s.Resources.Pop = 20
	s.Institutions.Parliament = 2
	before := *s.Clone()

	first := Rates(s, b)
	second := Rates(s, b)

	if first != second {
		t.Errorf("Expected identical rates, got %+v and %+v", first, second)
	}
	if s.Resources != before.Resources || s.Institutions != before.Institutions {
		t.Error("Expected Rates to leave the state untouched")
	}
}
