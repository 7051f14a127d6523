package interchange

import (
	"bytes"
	"os"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

// ReadFile shape-checks path, then decodes it with the codec its extension selects.
func ReadFile(path string) ([]staff.Member, error) {
	format, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Storage(err, "read "+path)
	}
	members, err := Decode(format, raw)
	if err != nil {
		return nil, apperr.Storage(err, "decode "+path)
	}
	return members, nil
}

// WriteFile encodes members with the codec the extension of path selects.
func WriteFile(path string, members []staff.Member) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	raw, err := Encode(format, members)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return apperr.Storage(err, "write "+path)
	}
	return nil
}

func Encode(format Format, members []staff.Member) ([]byte, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := codec.Encode(buf, members); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func Decode(format Format, raw []byte) ([]staff.Member, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	return codec.Decode(bytes.NewReader(raw))
}
