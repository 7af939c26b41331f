package models

import (
	"encoding/json"
	"math"
)

// SchemaVersion is the save-format version written by this build
const SchemaVersion = 1

// MaxEvents caps the event log; older entries are dropped
const MaxEvents = 50

// Buff is the outcome of an election start. The zero value means no buff.
type Buff string

const (
	BuffNone Buff = ""
	BuffHigh Buff = "high"
	BuffLow  Buff = "low"
)

// MarshalJSON encodes BuffNone as null
func (b Buff) MarshalJSON() ([]byte, error) {
	if b == BuffNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

// UnmarshalJSON accepts null, "high" and "low". Anything else decodes to BuffNone.
func (b *Buff) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = BuffNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Buff(s) {
	case BuffHigh, BuffLow:
		*b = Buff(s)
	default:
		*b = BuffNone
	}
	return nil
}

// Elections is the timed election sub-cycle.
// Idle: Active=false and NextIn counts down. Active: TimeLeft counts down and Buff is set.
type Elections struct {
	Active   bool    `json:"active"`
	TimeLeft float64 `json:"timeLeft"`
	NextIn   float64 `json:"nextIn"`
	Buff     Buff    `json:"buff"`
}

// Meta holds counters and tutorial progress
type Meta struct {
	Version      int  `json:"version"`
	SimpleLaws   int  `json:"simpleLaws"`
	ConstAmend   int  `json:"constAmend"`
	IntlTreaties int  `json:"intlTreaties"`
	TutorialStep int  `json:"tutorialStep"`
	TutorialDone bool `json:"tutorialDone"`
}

// Event is one entry of the player-facing log
type Event struct {
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Message   string `json:"message"`
}

// GameState is the single aggregate owned by the store
type GameState struct {
	Resources    Resources    `json:"resources"`
	Institutions Institutions `json:"institutions"`
	Policies     Policies     `json:"policies"`
	AdminSystem  string       `json:"adminSystem"`
	Era          string       `json:"era"`
	Meta         Meta         `json:"meta"`
	Elections    Elections    `json:"elections"`
	Achievements []string     `json:"achievements"`
	Events       []Event      `json:"events"`
}

// NewGameState creates a fresh state. The first election is scheduled one full cycle away.
func NewGameState(b *Balance) *GameState {
	s := &GameState{
		Policies: Policies{
			Parties:    []string{},
			Rights:     []RightID{},
			Ministries: []MinistryID{},
		},
		AdminSystem:  "centralized",
		Era:          "archaic",
		Meta:         Meta{Version: SchemaVersion},
		Achievements: []string{},
		Events:       []Event{},
	}
	if b != nil {
		s.Elections.NextIn = b.Elections.CycleSeconds
	}
	return s
}

// Clone creates a deep copy of the state
func (s *GameState) Clone() *GameState {
	c := *s
	c.Policies.Parties = append([]string{}, s.Policies.Parties...)
	c.Policies.Rights = append([]RightID{}, s.Policies.Rights...)
	c.Policies.Ministries = append([]MinistryID{}, s.Policies.Ministries...)
	c.Achievements = append([]string{}, s.Achievements...)
	c.Events = append([]Event{}, s.Events...)
	return &c
}

// Log prepends an event and trims the log to MaxEvents
func (s *GameState) Log(timestamp int64, message string) {
	events := make([]Event, 0, min(len(s.Events)+1, MaxEvents))
	events = append(events, Event{Timestamp: timestamp, Message: message})
	for _, e := range s.Events {
		if len(events) == MaxEvents {
			break
		}
		events = append(events, e)
	}
	s.Events = events
}

// HasAchievement reports whether an achievement id is unlocked
func (s *GameState) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Normalize repairs a state that came from an older or hand-edited save:
// nil sets become empty, counters and stocks are clamped to their valid range,
// and the log is trimmed to MaxEvents.
func (s *GameState) Normalize() {
	if s.Policies.Parties == nil {
		s.Policies.Parties = []string{}
	}
	if s.Policies.Rights == nil {
		s.Policies.Rights = []RightID{}
	}
	if s.Policies.Ministries == nil {
		s.Policies.Ministries = []MinistryID{}
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	if len(s.Events) > MaxEvents {
		s.Events = s.Events[:MaxEvents]
	}

	for _, rt := range AllResourceTypes() {
		v := s.Resources.Get(rt)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			s.Resources.Set(rt, 0)
		}
	}
	for _, it := range AllInstitutions() {
		if s.Institutions.Get(it) < 0 {
			s.Institutions.Set(it, 0)
		}
	}
	if s.Institutions.Presidency > 1 {
		s.Institutions.Presidency = 1
	}
	s.Meta.SimpleLaws = max(s.Meta.SimpleLaws, 0)
	s.Meta.IntlTreaties = max(s.Meta.IntlTreaties, 0)
	s.Meta.ConstAmend = min(max(s.Meta.ConstAmend, 0), 1)
	s.Meta.TutorialStep = max(s.Meta.TutorialStep, 0)

	e := &s.Elections
	e.TimeLeft = math.Max(e.TimeLeft, 0)
	e.NextIn = math.Max(e.NextIn, 0)
	if !e.Active {
		e.Buff = BuffNone
		e.TimeLeft = 0
	}
}
