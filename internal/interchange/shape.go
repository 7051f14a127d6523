package interchange

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
)

// ShapeError reports a file rejected before decoding.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid file %s: %s", e.Path, e.Reason)
}

func shapeError(path, format string, args ...any) error {
	return crerr.Mark(&ShapeError{Path: path, Reason: fmt.Sprintf(format, args...)}, apperr.ErrStorage)
}

// AsShape extracts the ShapeError carried by err, if any.
func AsShape(err error) (*ShapeError, bool) {
	var se *ShapeError
	if crerr.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ValidateFile checks that path names a readable, non-empty file with a
// supported extension whose content is well-formed for that format.
func ValidateFile(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", shapeError(path, "does not exist")
		}
		return "", shapeError(path, "cannot be inspected: %v", err)
	}
	if info.IsDir() {
		return "", shapeError(path, "is a directory")
	}
	if info.Size() == 0 {
		return "", shapeError(path, "is empty")
	}

	format, err := FormatForPath(path)
	if err != nil {
		return "", shapeError(path, "unsupported extension, expected one of .csv, .json, .xml")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", shapeError(path, "is not readable: %v", err)
	}
	if reason := checkShape(format, raw); reason != "" {
		return "", shapeError(path, "%s", reason)
	}
	return format, nil
}

// checkShape returns the reason raw is malformed for format, or "".
func checkShape(format Format, raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "contains only whitespace"
	}
	switch format {
	case FormatCSV:
		return checkCSVShape(raw)
	case FormatJSON:
		return checkJSONShape(raw)
	case FormatXML:
		return checkXMLShape(raw)
	default:
		return "unsupported format"
	}
}

func checkCSVShape(raw []byte) string {
	first, _, _ := bufio.NewReader(bytes.NewReader(raw)).ReadLine()
	if len(bytes.TrimSpace(first)) == 0 {
		return "first line is blank"
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = 0
	for {
		_, err := cr.Read()
		if err == io.EOF {
			return ""
		}
		if err != nil {
			var parseErr *csv.ParseError
			if crerr.As(err, &parseErr) && crerr.Is(parseErr.Err, csv.ErrFieldCount) {
				return fmt.Sprintf("line %d has an inconsistent column count", parseErr.Line)
			}
			return fmt.Sprintf("malformed csv: %v", err)
		}
	}
}

// checkJSONShape balances braces and brackets outside string literals.
func checkJSONShape(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] != '[' && trimmed[0] != '{' {
		return "does not start with an array or object"
	}

	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i, c := range trimmed {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			open := byte('{')
			if c == ']' {
				open = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return fmt.Sprintf("unbalanced %q at offset %d", c, i)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 && len(bytes.TrimSpace(trimmed[i+1:])) > 0 {
				return fmt.Sprintf("trailing content after offset %d", i)
			}
		}
	}

	if inString {
		return "unterminated string"
	}
	if len(stack) > 0 {
		return fmt.Sprintf("%d unclosed bracket(s)", len(stack))
	}
	return ""
}

// checkXMLShape matches start and end tags without building a document.
func checkXMLShape(raw []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var (
		stack []string
		roots int
	)
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Sprintf("malformed xml: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				roots++
				if roots == 1 && t.Name.Local != xmlRoot {
					return fmt.Sprintf("root element is <%s>, expected <%s>", t.Name.Local, xmlRoot)
				}
			}
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) == 0 || stack[len(stack)-1] != t.Name.Local {
				return fmt.Sprintf("unexpected closing tag </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		}
	}

	switch {
	case roots == 0:
		return "no root element"
	case roots > 1:
		return "more than one root element"
	case len(stack) > 0:
		return fmt.Sprintf("unclosed tag <%s>", stack[len(stack)-1])
	}
	return ""
}
