package usecase

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/squad-roster/internal/domain/apperr"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/interchange"
	accountmock "github.com/riskibarqy/squad-roster/internal/mocks/domain/account"
	staffmock "github.com/riskibarqy/squad-roster/internal/mocks/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
)

func rosterPlayer(id int64, first string, number int) staff.Player {
	return staff.Player{
		Base: staff.Base{
			ID:            id,
			FirstName:     first,
			LastName:      "Tester",
			BirthDate:     time.Date(1998, 3, 4, 0, 0, 0, 0, time.UTC),
			JoinDate:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			Salary:        250000,
			OriginCountry: "España",
		},
		Position:    staff.PositionMidfielder,
		SquadNumber: number,
		Height:      1.8,
		Weight:      75,
	}
}

func rosterCoach(id int64, first string) staff.Coach {
	return staff.Coach{
		Base: staff.Base{
			ID:        id,
			FirstName: first,
			LastName:  "Mister",
			Salary:    900000,
		},
		Specialization: staff.SpecializationHead,
	}
}

func newTestInterchangeService(t *testing.T, repo *staffmock.Repository) *InterchangeService {
	t.Helper()
	return NewInterchangeService(repo, nil, InterchangeConfig{Workers: 2, ScratchDir: t.TempDir()}, logging.NewNop())
}

func writeMembers(t *testing.T, name string, members ...staff.Member) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := interchange.WriteFile(path, members); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestInterchangeService_ImportFile_UpsertsByID(t *testing.T) {
	ctx := context.Background()
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	existing := rosterPlayer(7, "Existing", 8)
	stale := rosterCoach(2, "Stale")
	fresh := rosterPlayer(0, "Fresh", 14)
	path := writeMembers(t, "personal.csv", existing, stale, fresh)

	repo.
		On("Update", mock.Anything, int64(7), mock.MatchedBy(func(m staff.Member) bool {
			return m.Common().FirstName == "Existing"
		})).
		Return(existing, true, nil).
		Once()
	repo.
		On("Update", mock.Anything, int64(2), mock.Anything).
		Return(nil, false, nil).
		Once()
	repo.
		On("Restore", mock.Anything, mock.MatchedBy(func(m staff.Member) bool {
			return m.Kind() == staff.KindCoach && m.Common().ID == 2
		})).
		Return(stale, nil).
		Once()
	repo.
		On("Save", mock.Anything, mock.MatchedBy(func(m staff.Member) bool {
			return m.Common().FirstName == "Fresh"
		})).
		Return(rosterPlayer(32, "Fresh", 14), nil).
		Once()

	result, err := service.ImportFile(ctx, path)
	if err != nil {
		t.Fatalf("import file: %v", err)
	}
	assert.Equal(t, ImportResult{Files: 1, Imported: 3, Created: 2, Updated: 1}, result)
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestInterchangeService_ImportFile_InvalidMemberWritesNothing(t *testing.T) {
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	bad := rosterPlayer(0, "Bad", 0)
	path := writeMembers(t, "personal.json", rosterPlayer(0, "Good", 5), bad)

	_, err := service.ImportFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperr.IsStorage(err))

	fieldErr, ok := apperr.AsField(err)
	require.True(t, ok)
	assert.Equal(t, "squad_number", fieldErr.Field)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInterchangeService_ImportFile_MalformedFileIsShapeError(t *testing.T) {
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	path := filepath.Join(t.TempDir(), "personal.xml")
	require.NoError(t, os.WriteFile(path, []byte("<personal><miembro tipo=\"Jugador\">"), 0o600))

	_, err := service.ImportFile(context.Background(), path)
	require.Error(t, err)
	_, isShape := interchange.AsShape(err)
	assert.True(t, isShape)
}

func TestInterchangeService_ImportFile_StorageFailureStops(t *testing.T) {
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	path := writeMembers(t, "personal.csv", rosterPlayer(0, "First", 3), rosterPlayer(0, "Second", 4))
	boom := errors.New("disk full")
	repo.On("Save", mock.Anything, mock.Anything).Return(nil, boom).Once()

	result, err := service.ImportFile(context.Background(), path)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, result.Imported)
}

func TestInterchangeService_RequiresPath(t *testing.T) {
	service := newTestInterchangeService(t, staffmock.NewRepository(t))
	ctx := context.Background()

	_, err := service.ImportFile(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, service.ExportFile(ctx, ""), ErrInvalidInput)
	assert.ErrorIs(t, service.ExportArchive(ctx, ""), ErrInvalidInput)
	_, err = service.ImportArchive(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInterchangeService_ExportFile(t *testing.T) {
	ctx := context.Background()
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	members := []staff.Member{rosterCoach(1, "Luis"), rosterPlayer(2, "Pedri", 8)}
	repo.On("List", mock.Anything).Return(members, nil).Once()

	path := filepath.Join(t.TempDir(), "out.xml")
	if err := service.ExportFile(ctx, path); err != nil {
		t.Fatalf("export file: %v", err)
	}

	got, err := interchange.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, staff.KindCoach, got[0].Kind())
	assert.Equal(t, "Pedri", got[1].Common().FirstName)
}

func TestInterchangeService_ExportFile_ListFailure(t *testing.T) {
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	boom := errors.New("connection reset")
	repo.On("List", mock.Anything).Return(nil, boom).Once()

	path := filepath.Join(t.TempDir(), "out.csv")
	assert.ErrorIs(t, service.ExportFile(context.Background(), path), boom)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestInterchangeService_ExportArchive(t *testing.T) {
	members := []staff.Member{rosterPlayer(4, "Gavi", 6)}

	t.Run("all formats by default", func(t *testing.T) {
		repo := staffmock.NewRepository(t)
		service := newTestInterchangeService(t, repo)
		repo.On("List", mock.Anything).Return(members, nil).Once()

		path := filepath.Join(t.TempDir(), "backup.zip")
		require.NoError(t, service.ExportArchive(context.Background(), path))
		assert.Equal(t, []string{"personal.csv", "personal.json", "personal.xml"}, archiveNames(t, path))
	})

	t.Run("repeated formats collapse", func(t *testing.T) {
		repo := staffmock.NewRepository(t)
		service := newTestInterchangeService(t, repo)
		repo.On("List", mock.Anything).Return(members, nil).Once()

		path := filepath.Join(t.TempDir(), "backup.zip")
		require.NoError(t, service.ExportArchive(context.Background(), path, interchange.FormatJSON, interchange.FormatJSON))
		assert.Equal(t, []string{"personal.json"}, archiveNames(t, path))
	})
}

func TestInterchangeService_ImportArchive_PartialSuccess(t *testing.T) {
	ctx := context.Background()
	repo := staffmock.NewRepository(t)
	session := accountmock.NewSession(t)
	service := NewInterchangeService(repo, session, InterchangeConfig{Workers: 2, ScratchDir: t.TempDir()}, logging.NewNop())

	good, err := interchange.Encode(interchange.FormatCSV, []staff.Member{
		rosterPlayer(0, "Lamine", 19),
		rosterCoach(0, "Hansi"),
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "restore.zip")
	require.NoError(t, interchange.WriteArchive(path, []interchange.ArchiveEntry{
		{Name: "personal.csv", Data: good},
		{Name: "broken.csv", Data: []byte("rol,nombre,apellidos\nJugador,Solo\n")},
	}))

	repo.
		On("Save", mock.Anything, mock.Anything).
		Return(func(_ context.Context, m staff.Member) (staff.Member, error) { return m, nil }).
		Twice()
	session.On("CurrentUser", mock.Anything).Return(int64(1), true).Once()

	result, err := service.ImportArchive(ctx, path)
	if err != nil {
		t.Fatalf("import archive: %v", err)
	}
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "broken.csv", result.Skipped[0].Name)
	assert.Contains(t, result.Skipped[0].Reason, "inconsistent column count")
}

func TestInterchangeService_ImportArchive_StorageFailureSkipsEntry(t *testing.T) {
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	first, err := interchange.Encode(interchange.FormatJSON, []staff.Member{rosterCoach(0, "Xavi")})
	require.NoError(t, err)
	second, err := interchange.Encode(interchange.FormatXML, []staff.Member{rosterPlayer(0, "Raphinha", 11)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "restore.zip")
	require.NoError(t, interchange.WriteArchive(path, []interchange.ArchiveEntry{
		{Name: "personal.json", Data: first},
		{Name: "personal.xml", Data: second},
	}))

	repo.
		On("Save", mock.Anything, mock.MatchedBy(func(m staff.Member) bool { return m.Kind() == staff.KindCoach })).
		Return(nil, errors.New("constraint violated")).
		Once()
	repo.
		On("Save", mock.Anything, mock.MatchedBy(func(m staff.Member) bool { return m.Kind() == staff.KindPlayer })).
		Return(rosterPlayer(9, "Raphinha", 11), nil).
		Once()

	result, err := service.ImportArchive(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "personal.json", result.Skipped[0].Name)
}

func TestInterchangeService_ImportArchive_UnreadableArchive(t *testing.T) {
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	path := filepath.Join(t.TempDir(), "restore.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))

	_, err := service.ImportArchive(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperr.IsStorage(err))
}

func TestInterchangeService_ImportArchive_RemovesScratchDir(t *testing.T) {
	repo := staffmock.NewRepository(t)
	scratch := t.TempDir()
	service := NewInterchangeService(repo, nil, InterchangeConfig{ScratchDir: scratch}, nil)

	path := filepath.Join(t.TempDir(), "empty.zip")
	require.NoError(t, interchange.WriteArchive(path, nil))

	result, err := service.ImportArchive(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, result.Files)

	left, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestInterchangeService_ImportArchive_ClashingNamesSkipOneEntry(t *testing.T) {
	repo := staffmock.NewRepository(t)
	service := newTestInterchangeService(t, repo)

	data, err := interchange.Encode(interchange.FormatCSV, []staff.Member{rosterPlayer(0, "Pedri", 8)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"first/personal.csv", "second/personal.csv"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	repo.
		On("Save", mock.Anything, mock.Anything).
		Return(rosterPlayer(4, "Pedri", 8), nil).
		Once()

	result, err := service.ImportArchive(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "second/personal.csv", result.Skipped[0].Name)
	assert.Contains(t, result.Skipped[0].Reason, "same file name")
}
