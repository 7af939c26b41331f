package models

// ResourceType represents the different resource types in the game
type ResourceType string

const (
	DP  ResourceType = "dp"  // democracy points, the spendable currency
	ST  ResourceType = "st"  // stability
	PR  ResourceType = "pr"  // public reputation
	II  ResourceType = "ii"  // international influence
	Pop ResourceType = "pop" // population
)

// AllResourceTypes returns all resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{DP, ST, PR, II, Pop}
}

// Resources is a deterministic struct for resource stocks (replaces map[ResourceType]float64)
type Resources struct {
	DP  float64 `json:"dp"`
	ST  float64 `json:"st"`
	PR  float64 `json:"pr"`
	II  float64 `json:"ii"`
	Pop float64 `json:"pop"`
}

// Get returns the amount for a resource type
func (r *Resources) Get(rt ResourceType) float64 {
	switch rt {
	case DP:
		return r.DP
	case ST:
		return r.ST
	case PR:
		return r.PR
	case II:
		return r.II
	case Pop:
		return r.Pop
	}
	return 0
}

// Set sets the amount for a resource type
func (r *Resources) Set(rt ResourceType, amount float64) {
	switch rt {
	case DP:
		r.DP = amount
	case ST:
		r.ST = amount
	case PR:
		r.PR = amount
	case II:
		r.II = amount
	case Pop:
		r.Pop = amount
	}
}

// Each iterates over all resources in deterministic order
func (r *Resources) Each(fn func(ResourceType, float64)) {
	fn(DP, r.DP)
	fn(ST, r.ST)
	fn(PR, r.PR)
	fn(II, r.II)
	fn(Pop, r.Pop)
}

// InstitutionType represents the three branches of government
type InstitutionType string

const (
	Parliament InstitutionType = "parliament"
	Presidency InstitutionType = "presidency"
	Courts     InstitutionType = "courts"
)

// AllInstitutions returns all institutions in deterministic order
func AllInstitutions() []InstitutionType {
	return []InstitutionType{Parliament, Presidency, Courts}
}

// Title returns the display name of an institution
func (it InstitutionType) Title() string {
	switch it {
	case Parliament:
		return "Parliament"
	case Presidency:
		return "Presidency"
	case Courts:
		return "Courts"
	}
	return string(it)
}

// Institutions holds the level of each institution. 0 means not founded.
type Institutions struct {
	Parliament int `json:"parliament"`
	Presidency int `json:"presidency"`
	Courts     int `json:"courts"`
}

// Get returns the level for an institution
func (in *Institutions) Get(it InstitutionType) int {
	switch it {
	case Parliament:
		return in.Parliament
	case Presidency:
		return in.Presidency
	case Courts:
		return in.Courts
	}
	return 0
}

// Set sets the level for an institution
func (in *Institutions) Set(it InstitutionType, level int) {
	switch it {
	case Parliament:
		in.Parliament = level
	case Presidency:
		in.Presidency = level
	case Courts:
		in.Courts = level
	}
}

// Founded counts institutions with a level above zero
func (in *Institutions) Founded() int {
	n := 0
	for _, it := range AllInstitutions() {
		if in.Get(it) > 0 {
			n++
		}
	}
	return n
}

// RightID identifies an adoptable civil right
type RightID string

const (
	FreedomOfSpeech   RightID = "speech"
	FreedomOfAssembly RightID = "assembly"
	FreedomOfPress    RightID = "press"
	FreedomOfReligion RightID = "religion"
	UniversalSuffrage RightID = "suffrage"
)

// AllRights returns the fixed set of rights in deterministic order
func AllRights() []RightID {
	return []RightID{FreedomOfSpeech, FreedomOfAssembly, FreedomOfPress, FreedomOfReligion, UniversalSuffrage}
}

// MinistryID identifies a ministry that can be founded once
type MinistryID string

const (
	MinistryOfEducation MinistryID = "education"
)

// AllMinistries returns all ministries in deterministic order
func AllMinistries() []MinistryID {
	return []MinistryID{MinistryOfEducation}
}

// Policies holds the adopted sets. Order is adoption order.
type Policies struct {
	Parties    []string     `json:"parties"`
	Rights     []RightID    `json:"rights"`
	Ministries []MinistryID `json:"ministries"`
}

// HasRight reports whether a right has been adopted
func (p *Policies) HasRight(id RightID) bool {
	for _, r := range p.Rights {
		if r == id {
			return true
		}
	}
	return false
}

// HasMinistry reports whether a ministry has been founded
func (p *Policies) HasMinistry(id MinistryID) bool {
	for _, m := range p.Ministries {
		if m == id {
			return true
		}
	}
	return false
}
