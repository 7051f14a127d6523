package interchange

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

func samplePlayer() staff.Player {
	return staff.Player{
		Base: staff.Base{
			ID:            7,
			FirstName:     "Vinícius",
			LastName:      "Júnior, \"Vini\"",
			BirthDate:     time.Date(2000, 7, 12, 0, 0, 0, 0, time.UTC),
			JoinDate:      time.Date(2018, 7, 1, 0, 0, 0, 0, time.UTC),
			Salary:        1500000.75,
			OriginCountry: "Brasil",
			ImageURL:      "img/vini.png",
			CreatedAt:     time.Date(2026, 10, 1, 8, 30, 15, 123456000, time.UTC),
			UpdatedAt:     time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC),
		},
		Position:      staff.PositionForward,
		SquadNumber:   7,
		Height:        1.76,
		Weight:        73.5,
		Goals:         21,
		MatchesPlayed: 48,
	}
}

func sampleCoach() staff.Coach {
	return staff.Coach{
		Base: staff.Base{
			ID:            2,
			FirstName:     "Carlo",
			LastName:      "Ancelotti",
			BirthDate:     time.Date(1959, 6, 10, 0, 0, 0, 0, time.UTC),
			JoinDate:      time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			Salary:        11000000,
			OriginCountry: "Italia",
			CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Specialization: staff.SpecializationAssistant,
	}
}

// sparsePlayer leaves every optional field empty.
func sparsePlayer() staff.Player {
	return staff.Player{
		Base:        staff.Base{FirstName: "Nuevo", LastName: "Fichaje"},
		Position:    staff.PositionGoalkeeper,
		SquadNumber: 13,
		Height:      1.9,
		Weight:      85,
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	members := []staff.Member{samplePlayer(), sampleCoach(), sparsePlayer()}

	for _, format := range AllFormats {
		t.Run(string(format), func(t *testing.T) {
			codec, err := CodecFor(format)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, codec.Encode(&buf, members))

			decoded, err := codec.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, members, decoded)
		})
	}
}

func TestCodecs_EmptyList(t *testing.T) {
	for _, format := range AllFormats {
		t.Run(string(format), func(t *testing.T) {
			raw, err := Encode(format, nil)
			require.NoError(t, err)

			decoded, err := Decode(format, raw)
			require.NoError(t, err)
			assert.Empty(t, decoded)
		})
	}
}

func TestXMLCodec_Layout(t *testing.T) {
	raw, err := Encode(FormatXML, []staff.Member{sampleCoach()})
	require.NoError(t, err)

	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, `<miembro tipo="Entrenador">`)
	assert.Contains(t, text, "<especializacion>ENTRENADOR_ASISTENTE</especializacion>")
	assert.NotContains(t, text, "<dorsal>")
}

func TestJSONCodec_NativeNumbers(t *testing.T) {
	raw, err := Encode(FormatJSON, []staff.Member{samplePlayer()})
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, `"rol": "Jugador"`)
	assert.Contains(t, text, `"dorsal": 7`)
	assert.Contains(t, text, `"fechaNacimiento": "2000-07-12"`)
	assert.NotContains(t, text, "especializacion")
}

func TestCSVCodec_Header(t *testing.T) {
	raw, err := Encode(FormatCSV, []staff.Member{sampleCoach()})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(csvColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Entrenador,2,Carlo,Ancelotti,1959-06-10,"))
}

func TestDecode_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		field  string
		value  string
	}{
		{
			name:   "xml invalid position element",
			format: FormatXML,
			input:  `<personal><miembro tipo="Jugador"><nombre>A</nombre><apellidos>B</apellidos><posicion>INVALID</posicion><dorsal>9</dorsal></miembro></personal>`,
			field:  "posicion",
			value:  "INVALID",
		},
		{
			name:   "xml invalid position attribute",
			format: FormatXML,
			input:  `<personal><miembro tipo="Jugador" posicion="INVALID"><nombre>A</nombre></miembro></personal>`,
			field:  "posicion",
			value:  "INVALID",
		},
		{
			name:   "xml unknown kind",
			format: FormatXML,
			input:  `<personal><miembro tipo="Utillero"><nombre>A</nombre></miembro></personal>`,
			field:  "rol",
			value:  "Utillero",
		},
		{
			name:   "csv non numeric squad number",
			format: FormatCSV,
			input:  "rol,nombre,apellidos,posicion,dorsal\nJugador,A,B,DEFENSA,diez\n",
			field:  "dorsal",
			value:  "diez",
		},
		{
			name:   "csv bad date",
			format: FormatCSV,
			input:  "rol,nombre,apellidos,fechaNacimiento,posicion\nJugador,A,B,12/07/2000,DEFENSA\n",
			field:  "fechaNacimiento",
			value:  "12/07/2000",
		},
		{
			name:   "csv unknown specialization",
			format: FormatCSV,
			input:  "rol,nombre,apellidos,especializacion\nEntrenador,A,B,ENTRENADOR_FISICO\n",
			field:  "especializacion",
			value:  "ENTRENADOR_FISICO",
		},
		{
			name:   "json string where number expected",
			format: FormatJSON,
			input:  `[{"rol":"Jugador","nombre":"A","apellidos":"B","posicion":"PORTERO","altura":"alto"}]`,
			field:  "altura",
			value:  "alto",
		},
		{
			name:   "json boolean field",
			format: FormatJSON,
			input:  `{"rol":"Entrenador","nombre":"A","apellidos":"B","salario":true}`,
			field:  "salario",
			value:  "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := Decode(tt.format, []byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, members)
			assert.True(t, apperr.IsStorage(err))

			fe, ok := apperr.AsField(err)
			require.True(t, ok, "expected a field error, got %v", err)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.value, fe.Value)
			assert.Contains(t, err.Error(), "record 1")
		})
	}
}

func TestDecode_EmptySpecializationDefaultsToHead(t *testing.T) {
	members, err := Decode(FormatCSV, []byte("rol,nombre,apellidos,especializacion\nEntrenador,A,B,\n"))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, staff.SpecializationHead, members[0].(staff.Coach).Specialization)
}

func TestDecode_XMLKindAsChildElement(t *testing.T) {
	input := `<personal><miembro><tipo>Entrenador</tipo><nombre>Pep</nombre><apellidos>G</apellidos></miembro></personal>`
	members, err := Decode(FormatXML, []byte(input))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, staff.KindCoach, members[0].Kind())
}

func TestCSVCodec_MissingDiscriminatorColumn(t *testing.T) {
	_, err := Decode(FormatCSV, []byte("nombre,apellidos\nA,B\n"))
	require.Error(t, err)
	fe, ok := apperr.AsField(err)
	require.True(t, ok)
	assert.Equal(t, "header", fe.Field)
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"backup/personal.csv": FormatCSV,
		"PERSONAL.JSON":       FormatJSON,
		"a.b.xml":             FormatXML,
	}
	for path, want := range tests {
		got, err := FormatForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got)
	}

	_, err := FormatForPath("personal.txt")
	require.Error(t, err)
	assert.True(t, apperr.IsIllegalArgument(err))
}
