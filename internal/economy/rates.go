// Package economy computes multipliers and per-second resource rates from a game state.
// Everything here is a pure function of (state, balance).
package economy

import "github.com/napolitain/nation-builder/internal/models"

// Multipliers are the combined modifiers applied to base accrual
type Multipliers struct {
	DP float64
	ST float64
	PR float64
}

// GetMultipliers returns the current DP, ST and PR multipliers
func GetMultipliers(s *models.GameState, b *models.Balance) Multipliers {
	m := Multipliers{DP: 1, ST: 1, PR: 1}

	for _, id := range s.Policies.Ministries {
		if tier := b.GetMinistry(id); tier != nil {
			m.DP += tier.Effects.DPMultiplier
		}
	}
	if s.Meta.ConstAmend > 0 && b.ConstitutionalAmend != nil {
		m.DP += b.ConstitutionalAmend.Effects.DPMultiplier
	}
	if s.Elections.Active && s.Elections.Buff == models.BuffHigh {
		m.DP += b.Elections.High.DPMultiplier
	}

	for _, id := range s.Policies.Rights {
		if tier := b.GetRight(id); tier != nil {
			m.PR += tier.Effects.PRMultiplier
			m.ST += tier.Effects.STMultiplier
		}
	}

	return m
}

// PopRate returns population growth per second
func PopRate(s *models.GameState, b *models.Balance) float64 {
	return b.BaseRates.PopPerSec
}

// DPRate returns DP per second: population-driven accrual plus the parliament's flat bonus
func DPRate(s *models.GameState, b *models.Balance) float64 {
	m := GetMultipliers(s, b)
	rate := b.BaseRates.DPPerPop * s.Resources.Pop * m.DP
	if tier := b.GetLevelData(models.Parliament, s.Institutions.Parliament); tier != nil {
		rate += tier.Effects.DPPerSecFlat
	}
	return rate
}

// STRate returns stability per second from founded institutions and the current courts level
func STRate(s *models.GameState, b *models.Balance) float64 {
	m := GetMultipliers(s, b)
	rate := b.BaseRates.STPerInstitution * float64(s.Institutions.Founded()) * m.ST
	if tier := b.GetLevelData(models.Courts, s.Institutions.Courts); tier != nil {
		rate += tier.Effects.STPerSec
	}
	return rate
}

// PRRate returns public reputation per second
func PRRate(s *models.GameState, b *models.Balance) float64 {
	m := GetMultipliers(s, b)
	return b.BaseRates.PRPerPop * s.Resources.Pop * m.PR
}

// IIRate returns international influence per second
func IIRate(s *models.GameState, b *models.Balance) float64 {
	return float64(s.Meta.IntlTreaties) * b.TreatyIIPerSec()
}

// Rates returns the instantaneous per-second rate of every resource
func Rates(s *models.GameState, b *models.Balance) models.Resources {
	return models.Resources{
		DP:  DPRate(s, b),
		ST:  STRate(s, b),
		PR:  PRRate(s, b),
		II:  IIRate(s, b),
		Pop: PopRate(s, b),
	}
}
