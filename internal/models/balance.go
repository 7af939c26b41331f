package models

// DefaultSimpleLawCost is the DP cost of a simple law when the balance table has none
const DefaultSimpleLawCost = 10

// Effects is the union of every effect key a balance entry may carry.
// Absent keys are zero, which means "no effect".
type Effects struct {
	Pop          float64 // one-time population bonus
	ST           float64 // one-time stability bonus
	STPerSec     float64 // flat stability per second while the tier is current
	DPPerSecFlat float64 // flat DP per second while the tier is current
	DPMultiplier float64 // additive DP multiplier bonus
	PRMultiplier float64 // additive PR multiplier bonus
	STMultiplier float64 // additive multiplier on institutional stability
	IIPerSec     float64 // influence per second per unit
}

// Tier is one purchasable entry: a level, a right, a ministry or a law
type Tier struct {
	CostDP  float64
	Effects Effects
}

// BaseRates are the per-second accrual coefficients
type BaseRates struct {
	PopPerSec        float64
	DPPerPop         float64
	STPerInstitution float64
	PRPerPop         float64
	IIPerAgreement   float64
}

// ElectionTier holds the effects applied for a high or low turnout election
type ElectionTier struct {
	STDelta      float64
	DPMultiplier float64
}

// ElectionConfig drives the election sub-cycle
type ElectionConfig struct {
	CycleSeconds           float64
	DurationSeconds        float64
	BaseTurnout            float64
	TurnoutStabilityFactor float64
	HighTurnoutThreshold   float64
	High                   ElectionTier
	Low                    ElectionTier
}

// AchievementInfo is the display text of an achievement
type AchievementInfo struct {
	Title string
	Desc  string
}

// Balance is the validated, immutable balance table
type Balance struct {
	BaseRates           BaseRates
	Parliament          map[int]Tier
	Presidency          map[int]Tier
	Courts              map[int]Tier
	Ministries          map[MinistryID]Tier
	Rights              map[RightID]Tier
	SimpleLaw           *Tier
	ConstitutionalAmend *Tier
	InternationalTreaty *Tier
	Elections           ElectionConfig
	Achievements        map[string]AchievementInfo
}

// GetLevelData returns the tier for an institution level, or nil if it doesn't exist
func (b *Balance) GetLevelData(it InstitutionType, level int) *Tier {
	var levels map[int]Tier
	switch it {
	case Parliament:
		levels = b.Parliament
	case Presidency:
		levels = b.Presidency
	case Courts:
		levels = b.Courts
	}
	if t, ok := levels[level]; ok {
		return &t
	}
	return nil
}

// MaxLevel returns the highest configured level of an institution
func (b *Balance) MaxLevel(it InstitutionType) int {
	maxLevel := 0
	for level := 1; b.GetLevelData(it, level) != nil; level++ {
		maxLevel = level
	}
	return maxLevel
}

// GetRight returns the tier for a right, or nil if it is not configured
func (b *Balance) GetRight(id RightID) *Tier {
	if t, ok := b.Rights[id]; ok {
		return &t
	}
	return nil
}

// GetMinistry returns the tier for a ministry, or nil if it is not configured
func (b *Balance) GetMinistry(id MinistryID) *Tier {
	if t, ok := b.Ministries[id]; ok {
		return &t
	}
	return nil
}

// TreatyIIPerSec returns the influence each treaty yields per second
func (b *Balance) TreatyIIPerSec() float64 {
	if b.InternationalTreaty != nil && b.InternationalTreaty.Effects.IIPerSec > 0 {
		return b.InternationalTreaty.Effects.IIPerSec
	}
	return b.BaseRates.IIPerAgreement
}

// AchievementTitle returns the display title of an achievement, falling back to its id
func (b *Balance) AchievementTitle(id string) string {
	if info, ok := b.Achievements[id]; ok && info.Title != "" {
		return info.Title
	}
	return id
}

// DefaultBalance returns the built-in balance table used when no file can be loaded
func DefaultBalance() *Balance {
	return &Balance{
		BaseRates: BaseRates{
			PopPerSec:        1,
			DPPerPop:         0.1,
			STPerInstitution: 0.05,
			PRPerPop:         0.1,
			IIPerAgreement:   0.01,
		},
		Parliament: map[int]Tier{
			1: {CostDP: 10, Effects: Effects{Pop: 5}},
			2: {CostDP: 50, Effects: Effects{Pop: 15, DPPerSecFlat: 0.1}},
			3: {CostDP: 200, Effects: Effects{Pop: 40, DPPerSecFlat: 0.3}},
			4: {CostDP: 800, Effects: Effects{Pop: 100, DPPerSecFlat: 1}},
			5: {CostDP: 3000, Effects: Effects{Pop: 250, DPPerSecFlat: 3}},
		},
		Presidency: map[int]Tier{
			1: {CostDP: 100, Effects: Effects{ST: 5}},
		},
		Courts: map[int]Tier{
			1: {CostDP: 80, Effects: Effects{ST: 3, STPerSec: 0.02}},
			2: {CostDP: 250, Effects: Effects{ST: 5, STPerSec: 0.05}},
			3: {CostDP: 900, Effects: Effects{ST: 8, STPerSec: 0.1}},
		},
		Ministries: map[MinistryID]Tier{
			MinistryOfEducation: {CostDP: 150, Effects: Effects{DPMultiplier: 0.25}},
		},
		Rights: map[RightID]Tier{
			FreedomOfSpeech:   {CostDP: 60, Effects: Effects{PRMultiplier: 0.1, STMultiplier: 0.05}},
			FreedomOfAssembly: {CostDP: 90, Effects: Effects{PRMultiplier: 0.1, STMultiplier: 0.05}},
			FreedomOfPress:    {CostDP: 120, Effects: Effects{PRMultiplier: 0.15, STMultiplier: 0.05}},
			FreedomOfReligion: {CostDP: 150, Effects: Effects{PRMultiplier: 0.1, STMultiplier: 0.1}},
			UniversalSuffrage: {CostDP: 300, Effects: Effects{PRMultiplier: 0.25, STMultiplier: 0.1}},
		},
		SimpleLaw:           &Tier{CostDP: DefaultSimpleLawCost, Effects: Effects{ST: 1}},
		ConstitutionalAmend: &Tier{CostDP: 500, Effects: Effects{ST: 10, DPMultiplier: 0.5}},
		InternationalTreaty: &Tier{CostDP: 200, Effects: Effects{IIPerSec: 0.01}},
		Elections: ElectionConfig{
			CycleSeconds:           120,
			DurationSeconds:        30,
			BaseTurnout:            0.5,
			TurnoutStabilityFactor: 0.01,
			HighTurnoutThreshold:   0.6,
			High:                   ElectionTier{STDelta: 5, DPMultiplier: 0.2},
			Low:                    ElectionTier{STDelta: -2},
		},
		Achievements: map[string]AchievementInfo{
			"first_parliament": {Title: "First Parliament", Desc: "Convene the first parliament"},
			"all_institutions": {Title: "Separation of Powers", Desc: "Found parliament, presidency and courts"},
			"all_rights":       {Title: "Bill of Rights", Desc: "Adopt all five rights"},
			"dp_rate_10":       {Title: "Thriving Democracy", Desc: "Earn 10 DP per second"},
			"dp_1000":          {Title: "Treasury", Desc: "Hold 1000 DP"},
			"first_law":        {Title: "Lawmaker", Desc: "Pass the first simple law"},
			"constitution":     {Title: "Constitutionalist", Desc: "Pass a constitutional amendment"},
			"diplomat":         {Title: "Diplomat", Desc: "Sign five international treaties"},
			"high_turnout":     {Title: "Civic Duty", Desc: "Hold an election with high turnout"},
		},
	}
}
