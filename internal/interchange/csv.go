package interchange

import (
	"encoding/csv"
	"io"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

// csvColumns is the fixed column order. Columns that do not apply to a
// member's kind are written empty.
var csvColumns = func() []string {
	out := []string{fieldKind}
	out = append(out, baseFields...)
	out = append(out, playerFields...)
	return append(out, coachFields...)
}()

// CSVCodec writes one header row followed by one row per member.
type CSVCodec struct{}

func (CSVCodec) Encode(w io.Writer, members []staff.Member) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return apperr.Storage(err, "write csv header")
	}

	row := make([]string, len(csvColumns))
	for _, m := range members {
		rec := toRecord(m)
		for i, col := range csvColumns {
			row[i] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return apperr.Storage(err, "write csv row")
		}
	}

	cw.Flush()
	return apperr.Storage(cw.Error(), "flush csv")
}

// Decode maps cells by header name, so extra or reordered columns are tolerated.
func (CSVCodec) Decode(r io.Reader) ([]staff.Member, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperr.Storagef("csv has no header row")
	}
	if err != nil {
		return nil, apperr.Storage(err, "read csv header")
	}
	if !containsColumn(header, fieldKind) {
		return nil, apperr.Field("header", fieldKind, "csv header lacks the discriminator column")
	}

	var out []staff.Member
	for n := 1; ; n++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Storage(err, "read csv row")
		}

		rec := make(record, len(header))
		for i, col := range header {
			rec[col] = row[i]
		}
		member, err := fromRecord(rec)
		if err != nil {
			return nil, atRecord(err, n)
		}
		out = append(out, member)
	}

	return out, nil
}

func containsColumn(header []string, name string) bool {
	for _, col := range header {
		if col == name {
			return true
		}
	}
	return false
}
