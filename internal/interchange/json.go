package interchange

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

var jsonAPI = sonic.Config{UseNumber: true}.Froze()

// jsonMember fixes the key order of encoded objects. Variant fields are
// pointers so the other variant's keys are omitted.
type jsonMember struct {
	Kind           string   `json:"rol"`
	ID             int64    `json:"id"`
	FirstName      string   `json:"nombre"`
	LastName       string   `json:"apellidos"`
	BirthDate      string   `json:"fechaNacimiento"`
	JoinDate       string   `json:"fechaIncorporacion"`
	Salary         float64  `json:"salario"`
	OriginCountry  string   `json:"paisOrigen"`
	ImageURL       string   `json:"rutaImagen"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
	Position       *string  `json:"posicion,omitempty"`
	SquadNumber    *int     `json:"dorsal,omitempty"`
	Height         *float64 `json:"altura,omitempty"`
	Weight         *float64 `json:"peso,omitempty"`
	Goals          *int     `json:"goles,omitempty"`
	MatchesPlayed  *int     `json:"partidosJugados,omitempty"`
	Specialization *string  `json:"especializacion,omitempty"`
}

// JSONCodec writes an array of objects with native numbers and ISO dates.
type JSONCodec struct{}

func (JSONCodec) Encode(w io.Writer, members []staff.Member) error {
	out := make([]jsonMember, 0, len(members))
	for _, m := range members {
		out = append(out, toJSONMember(m))
	}

	raw, err := jsonAPI.MarshalIndent(out, "", "  ")
	if err != nil {
		return apperr.Storage(err, "encode json")
	}
	raw = append(raw, '\n')
	if _, err := w.Write(raw); err != nil {
		return apperr.Storage(err, "write json")
	}
	return nil
}

// Decode accepts an array of objects or a single object.
func (JSONCodec) Decode(r io.Reader) ([]staff.Member, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.Storage(err, "read json")
	}

	var objects []map[string]any
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var single map[string]any
		if err := jsonAPI.UnmarshalFromString(trimmed, &single); err != nil {
			return nil, apperr.Storage(err, "parse json object")
		}
		objects = append(objects, single)
	} else if err := jsonAPI.UnmarshalFromString(trimmed, &objects); err != nil {
		return nil, apperr.Storage(err, "parse json array")
	}

	out := make([]staff.Member, 0, len(objects))
	for i, obj := range objects {
		rec, err := jsonRecord(obj)
		if err != nil {
			return nil, atRecord(err, i+1)
		}
		member, err := fromRecord(rec)
		if err != nil {
			return nil, atRecord(err, i+1)
		}
		out = append(out, member)
	}
	return out, nil
}

func toJSONMember(m staff.Member) jsonMember {
	b := m.Common()
	rec := toRecord(m)
	out := jsonMember{
		Kind:          string(m.Kind()),
		ID:            b.ID,
		FirstName:     b.FirstName,
		LastName:      b.LastName,
		BirthDate:     rec[fieldBirthDate],
		JoinDate:      rec[fieldJoinDate],
		Salary:        b.Salary,
		OriginCountry: b.OriginCountry,
		ImageURL:      b.ImageURL,
		CreatedAt:     rec[fieldCreatedAt],
		UpdatedAt:     rec[fieldUpdatedAt],
	}

	switch v := m.(type) {
	case staff.Player:
		position := string(v.Position)
		out.Position = &position
		out.SquadNumber = &v.SquadNumber
		out.Height = &v.Height
		out.Weight = &v.Weight
		out.Goals = &v.Goals
		out.MatchesPlayed = &v.MatchesPlayed
	case staff.Coach:
		specialization := string(v.Specialization)
		out.Specialization = &specialization
	}
	return out
}

// jsonRecord flattens decoded values to wire strings. Nested values and
// booleans have no field to land in and are rejected.
func jsonRecord(obj map[string]any) (record, error) {
	rec := make(record, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case nil:
			rec[key] = ""
		case string:
			rec[key] = v
		case json.Number:
			rec[key] = v.String()
		case float64:
			rec[key] = formatFloat(v)
		case bool:
			return nil, apperr.Field(key, formatBool(v), "unexpected boolean")
		default:
			return nil, apperr.Field(key, "", "unexpected nested value")
		}
	}
	return rec, nil
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
