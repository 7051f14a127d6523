package interchange

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
)

func TestArchive_WriteThenExtract(t *testing.T) {
	members := []staff.Member{samplePlayer(), sampleCoach()}

	entries := make([]ArchiveEntry, 0, len(AllFormats))
	for _, format := range AllFormats {
		raw, err := Encode(format, members)
		require.NoError(t, err)
		entries = append(entries, ArchiveEntry{Name: EntryName(format), Data: raw})
	}

	dir := t.TempDir()
	archive := filepath.Join(dir, "backup.zip")
	require.NoError(t, WriteArchive(archive, entries))

	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o700))
	extracted, err := ExtractArchive(archive, out)
	require.NoError(t, err)
	assert.Empty(t, extracted.Rejected)
	paths := extracted.Paths
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(out, "personal.csv"), paths[0])
	assert.Equal(t, filepath.Join(out, "personal.json"), paths[1])
	assert.Equal(t, filepath.Join(out, "personal.xml"), paths[2])

	for _, path := range paths {
		decoded, err := ReadFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, members, decoded)
	}
}

func TestExtractArchive_FlattensEntryPaths(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("../../escape.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("rol\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o700))
	extracted, err := ExtractArchive(archive, out)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "escape.csv")}, extracted.Paths)

	_, err = os.Stat(filepath.Join(dir, "escape.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractArchive_RejectsClashingNames(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "nested.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{"a/personal.csv": "rol\n", "b/personal.csv": "rol,nombre\n"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	w, err := zw.Create("personal.json")
	require.NoError(t, err)
	_, err = w.Write([]byte("[]"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o700))
	extracted, err := ExtractArchive(archive, out)
	require.NoError(t, err)

	require.Len(t, extracted.Paths, 2)
	assert.Contains(t, extracted.Paths, filepath.Join(out, "personal.csv"))
	assert.Contains(t, extracted.Paths, filepath.Join(out, "personal.json"))
	require.Len(t, extracted.Rejected, 1)
	assert.Contains(t, []string{"a/personal.csv", "b/personal.csv"}, extracted.Rejected[0].Name)
	assert.True(t, apperr.IsStorage(extracted.Rejected[0].Err))
}

func TestExtractArchive_NotAZip(t *testing.T) {
	path := writeTemp(t, "plain.zip", "not a zip")
	_, err := ExtractArchive(path, t.TempDir())
	require.Error(t, err)
}
