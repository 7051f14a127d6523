package staff

import (
	"sort"
	"strings"
	"time"
)

// Kind is the discriminator stored with every staff row and file record.
type Kind string

const (
	KindPlayer Kind = "Jugador"
	KindCoach  Kind = "Entrenador"
)

func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "jugador":
		return KindPlayer, true
	case "entrenador":
		return KindCoach, true
	default:
		return "", false
	}
}

// Position represents the pitch role of a player.
type Position string

const (
	PositionGoalkeeper Position = "PORTERO"
	PositionDefender   Position = "DEFENSA"
	PositionMidfielder Position = "CENTROCAMPISTA"
	PositionForward    Position = "DELANTERO"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

func ParsePosition(raw string) (Position, bool) {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := AllPositions[p]; !ok {
		return "", false
	}
	return p, true
}

type Specialization string

const (
	SpecializationHead        Specialization = "ENTRENADOR_PRINCIPAL"
	SpecializationAssistant   Specialization = "ENTRENADOR_ASISTENTE"
	SpecializationGoalkeeping Specialization = "ENTRENADOR_PORTEROS"
)

var AllSpecializations = map[Specialization]struct{}{
	SpecializationHead:        {},
	SpecializationAssistant:   {},
	SpecializationGoalkeeping: {},
}

// ParseSpecialization resolves a stored or imported token. An empty token
// resolves to SpecializationHead; any other unknown token is rejected.
func ParseSpecialization(raw string) (Specialization, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SpecializationHead, true
	}
	s := Specialization(strings.ToUpper(raw))
	if _, ok := AllSpecializations[s]; !ok {
		return "", false
	}
	return s, true
}

// Base holds the fields shared by players and coaches.
type Base struct {
	ID            int64
	FirstName     string
	LastName      string
	BirthDate     time.Time
	JoinDate      time.Time
	Salary        float64
	OriginCountry string
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b Base) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Member is a staff record: exactly one of Player or Coach.
type Member interface {
	Common() Base
	Kind() Kind
	withBase(Base) Member
}

// WithBase returns a copy of m carrying b as its shared fields.
func WithBase(m Member, b Base) Member {
	return m.withBase(b)
}

type Player struct {
	Base
	Position      Position
	SquadNumber   int
	Height        float64
	Weight        float64
	Goals         int
	MatchesPlayed int
}

func (p Player) Common() Base { return p.Base }

func (p Player) Kind() Kind { return KindPlayer }

func (p Player) withBase(b Base) Member {
	p.Base = b
	return p
}

type Coach struct {
	Base
	Specialization Specialization
}

func (c Coach) Common() Base { return c.Base }

func (c Coach) Kind() Kind { return KindCoach }

func (c Coach) withBase(b Base) Member {
	c.Base = b
	return c
}

// Players keeps only the players of members, preserving order.
func Players(members []Member) []Player {
	out := make([]Player, 0, len(members))
	for _, m := range members {
		if p, ok := m.(Player); ok {
			out = append(out, p)
		}
	}
	return out
}

// SortByID orders members by ascending id in place.
func SortByID(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Common().ID < members[j].Common().ID
	})
}
