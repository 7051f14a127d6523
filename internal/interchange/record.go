package interchange

import (
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/platform/dates"
)

// Wire field names shared by every format.
const (
	fieldKind           = "rol"
	fieldID             = "id"
	fieldFirstName      = "nombre"
	fieldLastName       = "apellidos"
	fieldBirthDate      = "fechaNacimiento"
	fieldJoinDate       = "fechaIncorporacion"
	fieldSalary         = "salario"
	fieldOriginCountry  = "paisOrigen"
	fieldImageURL       = "rutaImagen"
	fieldCreatedAt      = "createdAt"
	fieldUpdatedAt      = "updatedAt"
	fieldPosition       = "posicion"
	fieldSquadNumber    = "dorsal"
	fieldHeight         = "altura"
	fieldWeight         = "peso"
	fieldGoals          = "goles"
	fieldMatchesPlayed  = "partidosJugados"
	fieldSpecialization = "especializacion"
)

// baseFields are written for every member, in this order.
var baseFields = []string{
	fieldID,
	fieldFirstName,
	fieldLastName,
	fieldBirthDate,
	fieldJoinDate,
	fieldSalary,
	fieldOriginCountry,
	fieldImageURL,
	fieldCreatedAt,
	fieldUpdatedAt,
}

var playerFields = []string{
	fieldPosition,
	fieldSquadNumber,
	fieldHeight,
	fieldWeight,
	fieldGoals,
	fieldMatchesPlayed,
}

var coachFields = []string{fieldSpecialization}

// record is a member flattened to wire strings.
type record map[string]string

func fieldsFor(kind staff.Kind) []string {
	out := append([]string(nil), baseFields...)
	if kind == staff.KindCoach {
		return append(out, coachFields...)
	}
	return append(out, playerFields...)
}

func toRecord(m staff.Member) record {
	b := m.Common()
	rec := record{
		fieldKind:          string(m.Kind()),
		fieldID:            strconv.FormatInt(b.ID, 10),
		fieldFirstName:     b.FirstName,
		fieldLastName:      b.LastName,
		fieldBirthDate:     dates.Format(b.BirthDate),
		fieldJoinDate:      dates.Format(b.JoinDate),
		fieldSalary:        formatFloat(b.Salary),
		fieldOriginCountry: b.OriginCountry,
		fieldImageURL:      b.ImageURL,
		fieldCreatedAt:     formatStamp(b.CreatedAt),
		fieldUpdatedAt:     formatStamp(b.UpdatedAt),
	}

	switch v := m.(type) {
	case staff.Player:
		rec[fieldPosition] = string(v.Position)
		rec[fieldSquadNumber] = strconv.Itoa(v.SquadNumber)
		rec[fieldHeight] = formatFloat(v.Height)
		rec[fieldWeight] = formatFloat(v.Weight)
		rec[fieldGoals] = strconv.Itoa(v.Goals)
		rec[fieldMatchesPlayed] = strconv.Itoa(v.MatchesPlayed)
	case staff.Coach:
		rec[fieldSpecialization] = string(v.Specialization)
	}
	return rec
}

// fromRecord builds a member. Empty numeric and date fields decode to zero;
// anything unparsable fails with a FieldError naming the wire field.
func fromRecord(rec record) (staff.Member, error) {
	rawKind := rec[fieldKind]
	kind, ok := staff.ParseKind(rawKind)
	if !ok {
		return nil, apperr.Field(fieldKind, rawKind, "unknown staff kind")
	}

	p := parser{rec: rec}
	base := staff.Base{
		ID:            p.parseInt64(fieldID),
		FirstName:     strings.TrimSpace(rec[fieldFirstName]),
		LastName:      strings.TrimSpace(rec[fieldLastName]),
		BirthDate:     p.parseDate(fieldBirthDate),
		JoinDate:      p.parseDate(fieldJoinDate),
		Salary:        p.parseFloat(fieldSalary),
		OriginCountry: rec[fieldOriginCountry],
		ImageURL:      rec[fieldImageURL],
		CreatedAt:     p.parseStamp(fieldCreatedAt),
		UpdatedAt:     p.parseStamp(fieldUpdatedAt),
	}

	var member staff.Member
	switch kind {
	case staff.KindPlayer:
		rawPosition := rec[fieldPosition]
		position, ok := staff.ParsePosition(rawPosition)
		if !ok && p.err == nil {
			p.err = apperr.Field(fieldPosition, rawPosition, "unknown position")
		}
		member = staff.Player{
			Base:          base,
			Position:      position,
			SquadNumber:   p.parseInt(fieldSquadNumber),
			Height:        p.parseFloat(fieldHeight),
			Weight:        p.parseFloat(fieldWeight),
			Goals:         p.parseInt(fieldGoals),
			MatchesPlayed: p.parseInt(fieldMatchesPlayed),
		}
	default:
		rawSpecialization := rec[fieldSpecialization]
		specialization, ok := staff.ParseSpecialization(rawSpecialization)
		if !ok && p.err == nil {
			p.err = apperr.Field(fieldSpecialization, rawSpecialization, "unknown specialization")
		}
		member = staff.Coach{Base: base, Specialization: specialization}
	}

	if p.err != nil {
		return nil, p.err
	}
	return member, nil
}

// parser keeps the first conversion error so field reads can be chained.
type parser struct {
	rec record
	err error
}

func (p *parser) raw(field string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v := strings.TrimSpace(p.rec[field])
	return v, v != ""
}

func (p *parser) parseInt64(field string) int64 {
	v, ok := p.raw(field)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.err = apperr.Field(field, v, "not an integer")
	}
	return n
}

func (p *parser) parseInt(field string) int {
	v, ok := p.raw(field)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = apperr.Field(field, v, "not an integer")
	}
	return n
}

func (p *parser) parseFloat(field string) float64 {
	v, ok := p.raw(field)
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = apperr.Field(field, v, "not a number")
	}
	return n
}

func (p *parser) parseDate(field string) time.Time {
	v, ok := p.raw(field)
	if !ok {
		return time.Time{}
	}
	t, err := dates.Parse(v)
	if err != nil {
		p.err = apperr.Field(field, v, "not a YYYY-MM-DD date")
	}
	return t
}

func (p *parser) parseStamp(field string) time.Time {
	v, ok := p.raw(field)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		p.err = apperr.Field(field, v, "not an RFC 3339 timestamp")
	}
	return dates.Stamp(t)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// atRecord prefixes a decode error with its 1-based record number.
func atRecord(err error, n int) error {
	return crerr.Wrapf(err, "record %d", n)
}
