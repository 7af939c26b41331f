package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/napolitain/nation-builder/internal/models"
)

// BalanceFile is the balance table file name inside the data directory
const BalanceFile = "balance.json"

// BalanceJSON represents the JSON structure of the balance table
type BalanceJSON struct {
	BaseRates    BaseRatesJSON              `json:"baseRates"`
	Institutions InstitutionsJSON           `json:"institutions"`
	Executive    ExecutiveJSON              `json:"executive"`
	Judicial     JudicialJSON               `json:"judicial"`
	Rights       map[string]TierJSON        `json:"rights"`
	Laws         LawsJSON                   `json:"laws"`
	Events       EventsJSON                 `json:"events"`
	Achievements map[string]AchievementJSON `json:"achievements"`
}

// BaseRatesJSON represents the per-second accrual coefficients
type BaseRatesJSON struct {
	PopPerSec        float64 `json:"popPerSec"`
	DPPerPop         float64 `json:"dpPerPop"`
	STPerInstitution float64 `json:"stPerInstitution"`
	PRPerPop         float64 `json:"prPerPop"`
	IIPerAgreement   float64 `json:"iiPerAgreement"`
}

// LevelsJSON represents a multi-level purchasable keyed by level number
type LevelsJSON struct {
	Levels map[string]TierJSON `json:"levels"`
}

// TierJSON represents one purchasable entry
type TierJSON struct {
	CostDP  float64     `json:"costDP"`
	Effects EffectsJSON `json:"effects"`
}

// EffectsJSON represents the effect keys of a tier
type EffectsJSON struct {
	Pop          float64 `json:"pop"`
	ST           float64 `json:"st"`
	STPerSec     float64 `json:"stPerSec"`
	DPPerSecFlat float64 `json:"dpPerSecFlat"`
	DPMultiplier float64 `json:"dpMultiplier"`
	PRMultiplier float64 `json:"prMultiplier"`
	STMultiplier float64 `json:"stMultiplier"`
	IIPerSec     float64 `json:"iiPerSec"`
}

type InstitutionsJSON struct {
	Parliament LevelsJSON `json:"parliament"`
}

type ExecutiveJSON struct {
	Presidency LevelsJSON          `json:"presidency"`
	Ministries map[string]TierJSON `json:"ministries"`
}

type JudicialJSON struct {
	Courts LevelsJSON `json:"courts"`
}

// LawsJSON uses pointers so an absent law stays unavailable
type LawsJSON struct {
	Simple                  *TierJSON `json:"simple"`
	ConstitutionalAmendment *TierJSON `json:"constitutionalAmendment"`
	InternationalTreaty     *TierJSON `json:"internationalTreaty"`
}

// EventsJSON keeps elections as a pointer so an absent block means the built-in cycle
type EventsJSON struct {
	Elections *ElectionsJSON `json:"elections"`
}

// ElectionsJSON represents the election cycle settings
type ElectionsJSON struct {
	CycleSeconds           float64 `json:"cycleSeconds"`
	DurationSeconds        float64 `json:"durationSeconds"`
	BaseTurnout            float64 `json:"baseTurnout"`
	TurnoutStabilityFactor float64 `json:"turnoutStabilityFactor"`
	HighTurnoutThreshold   float64 `json:"highTurnoutThreshold"`
	Effects                struct {
		High ElectionTierJSON `json:"high"`
		Low  ElectionTierJSON `json:"low"`
	} `json:"effects"`
}

type ElectionTierJSON struct {
	STDelta      float64 `json:"stDelta"`
	DPMultiplier float64 `json:"dpMultiplier"`
}

type AchievementJSON struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// LoadBalance loads the balance table from the data directory
func LoadBalance(dataDir string) (*models.Balance, error) {
	filePath := filepath.Join(dataDir, BalanceFile)
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", BalanceFile, err)
	}
	return ParseBalance(data)
}

// LoadBalanceOrDefault loads the balance table, falling back to the built-in defaults
func LoadBalanceOrDefault(dataDir string, logger *slog.Logger) *models.Balance {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := LoadBalance(dataDir)
	if err != nil {
		logger.Warn("using built-in balance table", "error", err)
		return models.DefaultBalance()
	}
	return b
}

// ParseBalance parses and validates a balance table. Absent keys are zero.
func ParseBalance(data []byte) (*models.Balance, error) {
	var raw BalanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", BalanceFile, err)
	}

	b := &models.Balance{
		BaseRates: models.BaseRates{
			PopPerSec:        rate(raw.BaseRates.PopPerSec),
			DPPerPop:         rate(raw.BaseRates.DPPerPop),
			STPerInstitution: rate(raw.BaseRates.STPerInstitution),
			PRPerPop:         rate(raw.BaseRates.PRPerPop),
			IIPerAgreement:   rate(raw.BaseRates.IIPerAgreement),
		},
		Parliament:   convertLevels(raw.Institutions.Parliament.Levels),
		Presidency:   convertLevels(raw.Executive.Presidency.Levels),
		Courts:       convertLevels(raw.Judicial.Courts.Levels),
		Ministries:   make(map[models.MinistryID]models.Tier),
		Rights:       make(map[models.RightID]models.Tier),
		Achievements: make(map[string]models.AchievementInfo),
	}

	// Presidency is a single office
	for level := range b.Presidency {
		if level != 1 {
			delete(b.Presidency, level)
		}
	}

	for id, t := range raw.Executive.Ministries {
		b.Ministries[models.MinistryID(id)] = convertTier(t)
	}
	for id, t := range raw.Rights {
		b.Rights[models.RightID(id)] = convertTier(t)
	}

	b.SimpleLaw = convertOptionalTier(raw.Laws.Simple)
	if b.SimpleLaw == nil {
		b.SimpleLaw = &models.Tier{CostDP: models.DefaultSimpleLawCost}
	}
	b.ConstitutionalAmend = convertOptionalTier(raw.Laws.ConstitutionalAmendment)
	b.InternationalTreaty = convertOptionalTier(raw.Laws.InternationalTreaty)

	b.Elections = models.DefaultBalance().Elections
	if e := raw.Events.Elections; e != nil {
		b.Elections = models.ElectionConfig{
			CycleSeconds:           rate(e.CycleSeconds),
			DurationSeconds:        rate(e.DurationSeconds),
			BaseTurnout:            rate(e.BaseTurnout),
			TurnoutStabilityFactor: rate(e.TurnoutStabilityFactor),
			HighTurnoutThreshold:   rate(e.HighTurnoutThreshold),
			High:                   models.ElectionTier{STDelta: finite(e.Effects.High.STDelta), DPMultiplier: rate(e.Effects.High.DPMultiplier)},
			Low:                    models.ElectionTier{STDelta: finite(e.Effects.Low.STDelta), DPMultiplier: rate(e.Effects.Low.DPMultiplier)},
		}
	}

	for id, a := range raw.Achievements {
		b.Achievements[id] = models.AchievementInfo{Title: a.Title, Desc: a.Desc}
	}

	return b, nil
}

func convertLevels(raw map[string]TierJSON) map[int]models.Tier {
	levels := make(map[int]models.Tier)
	for levelStr, t := range raw {
		level, err := strconv.Atoi(levelStr)
		if err != nil || level < 1 {
			continue
		}
		levels[level] = convertTier(t)
	}
	return levels
}

func convertOptionalTier(t *TierJSON) *models.Tier {
	if t == nil {
		return nil
	}
	tier := convertTier(*t)
	return &tier
}

func convertTier(t TierJSON) models.Tier {
	return models.Tier{
		CostDP: rate(t.CostDP),
		Effects: models.Effects{
			Pop:          rate(t.Effects.Pop),
			ST:           rate(t.Effects.ST),
			STPerSec:     rate(t.Effects.STPerSec),
			DPPerSecFlat: rate(t.Effects.DPPerSecFlat),
			DPMultiplier: rate(t.Effects.DPMultiplier),
			PRMultiplier: rate(t.Effects.PRMultiplier),
			STMultiplier: rate(t.Effects.STMultiplier),
			IIPerSec:     rate(t.Effects.IIPerSec),
		},
	}
}

// rate clamps a value that must be a finite non-negative number
func rate(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
