package achievements

import (
	"fmt"

	"github.com/napolitain/nation-builder/internal/economy"
	"github.com/napolitain/nation-builder/internal/models"
)

// Achievement ids
const (
	FirstParliament = "first_parliament"
	AllInstitutions = "all_institutions"
	AllRights       = "all_rights"
	DPRate10        = "dp_rate_10"
	DP1000          = "dp_1000"
	FirstLaw        = "first_law"
	Constitution    = "constitution"
	Diplomat        = "diplomat"
	HighTurnout     = "high_turnout"
)

// Definition pairs an achievement id with its unlock predicate
type Definition struct {
	ID       string
	Unlocked func(s *models.GameState, b *models.Balance) bool
}

// Definitions lists every achievement in evaluation order
var Definitions = []Definition{
	{FirstParliament, func(s *models.GameState, b *models.Balance) bool {
		return s.Institutions.Parliament >= 1
	}},
	{AllInstitutions, func(s *models.GameState, b *models.Balance) bool {
		return s.Institutions.Founded() == len(models.AllInstitutions())
	}},
	{AllRights, func(s *models.GameState, b *models.Balance) bool {
		for _, id := range models.AllRights() {
			if !s.Policies.HasRight(id) {
				return false
			}
		}
		return true
	}},
	{DPRate10, func(s *models.GameState, b *models.Balance) bool {
		return economy.DPRate(s, b) >= 10
	}},
	{DP1000, func(s *models.GameState, b *models.Balance) bool {
		return s.Resources.DP >= 1000
	}},
	{FirstLaw, func(s *models.GameState, b *models.Balance) bool {
		return s.Meta.SimpleLaws >= 1
	}},
	{Constitution, func(s *models.GameState, b *models.Balance) bool {
		return s.Meta.ConstAmend >= 1
	}},
	{Diplomat, func(s *models.GameState, b *models.Balance) bool {
		return s.Meta.IntlTreaties >= 5
	}},
	{HighTurnout, func(s *models.GameState, b *models.Balance) bool {
		return s.Elections.Active && s.Elections.Buff == models.BuffHigh
	}},
}

// Evaluate returns the ids whose predicate holds but which are not yet unlocked.
// It does not modify the state.
func Evaluate(s *models.GameState, b *models.Balance) []string {
	var unlocked []string
	for _, def := range Definitions {
		if s.HasAchievement(def.ID) {
			continue
		}
		if def.Unlocked(s, b) {
			unlocked = append(unlocked, def.ID)
		}
	}
	return unlocked
}

// Record adds ids to the unlocked set and logs one event per new unlock
func Record(s *models.GameState, b *models.Balance, ids []string, timestamp int64) {
	for _, id := range ids {
		if s.HasAchievement(id) {
			continue
		}
		s.Achievements = append(s.Achievements, id)
		s.Log(timestamp, fmt.Sprintf("Achievement unlocked: %s", b.AchievementTitle(id)))
	}
}

// Check evaluates and records in one step, returning the newly unlocked ids
func Check(s *models.GameState, b *models.Balance, timestamp int64) []string {
	ids := Evaluate(s, b)
	Record(s, b, ids, timestamp)
	return ids
}
