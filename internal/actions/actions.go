package actions

import (
	"fmt"

	"github.com/napolitain/nation-builder/internal/models"
)

// Action names used by the API and the CLI
const (
	NameParliament          = "parliament"
	NamePresidency          = "presidency"
	NameCourts              = "courts"
	NameSimpleLaw           = "simple_law"
	NameConstitutionalAmend = "constitutional_amendment"
	NameInternationalTreaty = "international_treaty"
	NameForceElection       = "force_election"

	ministryPrefix = "ministry:"
	rightPrefix    = "right:"
)

// Action is the interface for all purchasable player actions
type Action interface {
	// Name is the stable identifier of the action
	Name() string
	// Next returns the tier the next purchase would buy, or nil if none is available
	Next(s *models.GameState, b *models.Balance) *models.Tier
	// Apply performs the effect of a purchased tier and returns the log message.
	// The cost has already been debited.
	Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string
}

// LevelAction is an action that raises an institution level and supports bulk buying
type LevelAction interface {
	Action
	Institution() models.InstitutionType
}

// BuyParliament raises the parliament one level
type BuyParliament struct{}

func (BuyParliament) Name() string { return NameParliament }

func (BuyParliament) Institution() models.InstitutionType { return models.Parliament }

func (BuyParliament) Next(s *models.GameState, b *models.Balance) *models.Tier {
	return b.GetLevelData(models.Parliament, s.Institutions.Parliament+1)
}

func (BuyParliament) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Institutions.Parliament++
	s.Resources.Pop += tier.Effects.Pop
	return fmt.Sprintf("Parliament upgraded to level %d", s.Institutions.Parliament)
}

// BuyPresidency founds the presidency
type BuyPresidency struct{}

func (BuyPresidency) Name() string { return NamePresidency }

func (BuyPresidency) Institution() models.InstitutionType { return models.Presidency }

func (BuyPresidency) Next(s *models.GameState, b *models.Balance) *models.Tier {
	if s.Institutions.Presidency > 0 {
		return nil
	}
	return b.GetLevelData(models.Presidency, 1)
}

func (BuyPresidency) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Institutions.Presidency = 1
	s.Resources.ST += tier.Effects.ST
	return "Presidency established"
}

// BuyCourts raises the courts one level
type BuyCourts struct{}

func (BuyCourts) Name() string { return NameCourts }

func (BuyCourts) Institution() models.InstitutionType { return models.Courts }

func (BuyCourts) Next(s *models.GameState, b *models.Balance) *models.Tier {
	return b.GetLevelData(models.Courts, s.Institutions.Courts+1)
}

func (BuyCourts) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Institutions.Courts++
	s.Resources.ST += tier.Effects.ST
	return fmt.Sprintf("Courts upgraded to level %d", s.Institutions.Courts)
}

// FoundMinistry founds a ministry once
type FoundMinistry struct {
	Ministry models.MinistryID
}

func (a FoundMinistry) Name() string { return ministryPrefix + string(a.Ministry) }

func (a FoundMinistry) Next(s *models.GameState, b *models.Balance) *models.Tier {
	if s.Policies.HasMinistry(a.Ministry) {
		return nil
	}
	return b.GetMinistry(a.Ministry)
}

func (a FoundMinistry) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Policies.Ministries = append(s.Policies.Ministries, a.Ministry)
	return fmt.Sprintf("Ministry of %s founded", a.Ministry)
}

// AdoptRight adopts a right once
type AdoptRight struct {
	Right models.RightID
}

func (a AdoptRight) Name() string { return rightPrefix + string(a.Right) }

func (a AdoptRight) Next(s *models.GameState, b *models.Balance) *models.Tier {
	if s.Policies.HasRight(a.Right) {
		return nil
	}
	return b.GetRight(a.Right)
}

func (a AdoptRight) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Policies.Rights = append(s.Policies.Rights, a.Right)
	return fmt.Sprintf("Right adopted: %s", a.Right)
}

// PassSimpleLaw passes an ordinary law; repeatable
type PassSimpleLaw struct{}

func (PassSimpleLaw) Name() string { return NameSimpleLaw }

func (PassSimpleLaw) Next(s *models.GameState, b *models.Balance) *models.Tier {
	return b.SimpleLaw
}

func (PassSimpleLaw) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Meta.SimpleLaws++
	s.Resources.ST += tier.Effects.ST
	return fmt.Sprintf("Simple law passed (%d total)", s.Meta.SimpleLaws)
}

// AmendConstitution passes the one-time constitutional amendment
type AmendConstitution struct{}

func (AmendConstitution) Name() string { return NameConstitutionalAmend }

func (AmendConstitution) Next(s *models.GameState, b *models.Balance) *models.Tier {
	if s.Meta.ConstAmend > 0 {
		return nil
	}
	return b.ConstitutionalAmend
}

func (AmendConstitution) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Meta.ConstAmend = 1
	s.Resources.ST += tier.Effects.ST
	return "Constitutional amendment passed"
}

// SignTreaty signs an international treaty; repeatable
type SignTreaty struct{}

func (SignTreaty) Name() string { return NameInternationalTreaty }

func (SignTreaty) Next(s *models.GameState, b *models.Balance) *models.Tier {
	return b.InternationalTreaty
}

func (SignTreaty) Apply(s *models.GameState, b *models.Balance, tier *models.Tier) string {
	s.Meta.IntlTreaties++
	return fmt.Sprintf("International treaty signed (%d total)", s.Meta.IntlTreaties)
}

// Catalogue returns every purchasable action in deterministic order
func Catalogue() []Action {
	catalogue := []Action{BuyParliament{}, BuyPresidency{}, BuyCourts{}}
	for _, id := range models.AllMinistries() {
		catalogue = append(catalogue, FoundMinistry{Ministry: id})
	}
	for _, id := range models.AllRights() {
		catalogue = append(catalogue, AdoptRight{Right: id})
	}
	return append(catalogue, PassSimpleLaw{}, AmendConstitution{}, SignTreaty{})
}

// Parse returns the action with the given name
func Parse(name string) (Action, error) {
	for _, a := range Catalogue() {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
