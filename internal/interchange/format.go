// Package interchange converts staff members to and from flat files
// (CSV, JSON, XML) and bundles them into zip archives for backup.
package interchange

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// AllFormats lists the supported formats in their canonical order.
var AllFormats = []Format{FormatCSV, FormatJSON, FormatXML}

func (f Format) Extension() string {
	return "." + string(f)
}

func ParseFormat(raw string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")))
	switch f {
	case FormatCSV, FormatJSON, FormatXML:
		return f, true
	default:
		return "", false
	}
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	f, ok := ParseFormat(ext)
	if !ok {
		return "", apperr.IllegalArgumentf("unsupported file extension %q", ext)
	}
	return f, nil
}

// Codec encodes and decodes a whole file of staff members.
type Codec interface {
	Encode(w io.Writer, members []staff.Member) error
	Decode(r io.Reader) ([]staff.Member, error)
}

func CodecFor(f Format) (Codec, error) {
	switch f {
	case FormatCSV:
		return CSVCodec{}, nil
	case FormatJSON:
		return JSONCodec{}, nil
	case FormatXML:
		return XMLCodec{}, nil
	default:
		return nil, apperr.IllegalArgumentf("unsupported format %q", string(f))
	}
}
