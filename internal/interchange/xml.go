package interchange

import (
	"encoding/xml"
	"io"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

const (
	xmlRoot     = "personal"
	xmlKindAttr = "tipo"
)

type xmlDocument struct {
	XMLName xml.Name    `xml:"personal"`
	Members []xmlMember `xml:"miembro"`
}

// xmlMember carries the kind in the tipo attribute and every other field as
// a child text element. Extra attributes are read as fields too.
type xmlMember struct {
	Kind   string     `xml:"tipo,attr"`
	Attrs  []xml.Attr `xml:",any,attr"`
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// XMLCodec writes <personal><miembro tipo="...">...</miembro></personal>.
type XMLCodec struct{}

func (XMLCodec) Encode(w io.Writer, members []staff.Member) error {
	doc := xmlDocument{Members: make([]xmlMember, 0, len(members))}
	for _, m := range members {
		rec := toRecord(m)
		fields := fieldsFor(m.Kind())
		xm := xmlMember{Kind: rec[fieldKind], Fields: make([]xmlField, 0, len(fields))}
		for _, name := range fields {
			xm.Fields = append(xm.Fields, xmlField{XMLName: xml.Name{Local: name}, Value: rec[name]})
		}
		doc.Members = append(doc.Members, xm)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return apperr.Storage(err, "write xml header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return apperr.Storage(err, "encode xml")
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return apperr.Storage(err, "write xml")
	}
	return nil
}

func (XMLCodec) Decode(r io.Reader) ([]staff.Member, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperr.Storage(err, "parse xml")
	}

	out := make([]staff.Member, 0, len(doc.Members))
	for i, xm := range doc.Members {
		rec := make(record, len(xm.Fields)+len(xm.Attrs)+1)
		for _, attr := range xm.Attrs {
			rec[attr.Name.Local] = attr.Value
		}
		for _, f := range xm.Fields {
			rec[f.XMLName.Local] = f.Value
		}
		// The kind may also arrive as a <tipo> child element.
		rec[fieldKind] = xm.Kind
		if xm.Kind == "" {
			rec[fieldKind] = rec[xmlKindAttr]
		}

		member, err := fromRecord(rec)
		if err != nil {
			return nil, atRecord(err, i+1)
		}
		out = append(out, member)
	}
	return out, nil
}
