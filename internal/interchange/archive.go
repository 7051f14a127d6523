package interchange

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
)

// ArchiveEntryBase is the file name stem of each format inside a backup.
const ArchiveEntryBase = "personal"

// ArchiveEntry is one file inside a backup archive.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// EntryName is the archive file name used for format.
func EntryName(format Format) string {
	return ArchiveEntryBase + format.Extension()
}

// WriteArchive writes entries to a new zip file at path, sorted by name.
func WriteArchive(path string, entries []ArchiveEntry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return apperr.Storage(err, "create archive")
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = apperr.Storage(closeErr, "close archive")
		}
	}()

	sorted := append([]ArchiveEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	zw := zip.NewWriter(f)
	for _, entry := range sorted {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return apperr.Storage(err, "add archive entry "+entry.Name)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return apperr.Storage(err, "write archive entry "+entry.Name)
		}
	}
	return apperr.Storage(zw.Close(), "finish archive")
}

// Extraction lists the files ExtractArchive wrote and the entries it left out.
type Extraction struct {
	Paths    []string
	Rejected []RejectedEntry
}

// RejectedEntry is an archive entry that was not extracted.
type RejectedEntry struct {
	Name string
	Err  error
}

// ExtractArchive copies every regular file of the zip at path into dir, in
// archive order. Entry names are flattened to their base name so nothing is
// written outside dir; an entry whose base name is already taken is rejected
// and the others are still extracted.
func ExtractArchive(path, dir string) (Extraction, error) {
	zr, err := zip.OpenReader(path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return Extraction{}, apperr.Storage(err, "open archive "+path)
	}
	defer zr.Close()

	out := Extraction{Paths: make([]string, 0, len(zr.File))}
	seen := make(map[string]string, len(zr.File))
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(filepath.FromSlash(strings.ReplaceAll(zf.Name, `\`, "/")))
		if name == "." || name == ".." || name == string(filepath.Separator) {
			continue
		}
		if first, dup := seen[name]; dup {
			out.Rejected = append(out.Rejected, RejectedEntry{
				Name: zf.Name,
				Err:  apperr.Storagef("entry %s has the same file name as %s", zf.Name, first),
			})
			continue
		}
		seen[name] = zf.Name

		target := filepath.Join(dir, name)
		if err := extractEntry(zf, target); err != nil {
			return Extraction{}, err
		}
		out.Paths = append(out.Paths, target)
	}
	return out, nil
}

func extractEntry(zf *zip.File, target string) error {
	src, err := zf.Open()
	if err != nil {
		return apperr.Storage(err, "open archive entry "+zf.Name)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return apperr.Storage(err, "create "+target)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return apperr.Storage(err, "extract archive entry "+zf.Name)
	}
	return apperr.Storage(dst.Close(), "close "+target)
}
