package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/interchange"
	"github.com/riskibarqy/squad-roster/internal/platform/id"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
	"github.com/riskibarqy/squad-roster/internal/validation"
)

const defaultImportWorkers = 4

type InterchangeConfig struct {
	// Workers bounds how many archive entries are decoded at once.
	Workers int
	// ScratchDir holds extracted archive entries; empty means os.TempDir().
	ScratchDir string
}

// ImportResult summarizes an import. Skipped lists files that were not
// imported in full.
type ImportResult struct {
	Files    int
	Imported int
	Created  int
	Updated  int
	Skipped  []SkippedFile
}

type SkippedFile struct {
	Name   string
	Reason string
}

// InterchangeService moves staff between storage and flat files.
type InterchangeService struct {
	staffRepo staff.Repository
	session   account.Session
	cfg       InterchangeConfig
	ids       id.Generator
	logger    *logging.Logger
}

func NewInterchangeService(
	staffRepo staff.Repository,
	session account.Session,
	cfg InterchangeConfig,
	logger *logging.Logger,
) *InterchangeService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultImportWorkers
	}
	if strings.TrimSpace(cfg.ScratchDir) == "" {
		cfg.ScratchDir = os.TempDir()
	}
	return &InterchangeService{
		staffRepo: staffRepo,
		session:   session,
		cfg:       cfg,
		ids:       id.NewRandomGenerator(0),
		logger:    logger,
	}
}

// ImportFile decodes one file and upserts its members: a member whose id
// exists is updated, one carrying an unknown id is inserted under that id,
// and one without an id is saved as new. Every member is validated before
// the first write.
func (s *InterchangeService) ImportFile(ctx context.Context, path string) (_ ImportResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterchangeService.ImportFile", attribute.String("file.name", filepath.Base(path)))
	defer func() { endUsecaseSpan(span, err) }()

	if strings.TrimSpace(path) == "" {
		return ImportResult{}, fmt.Errorf("%w: import path is required", ErrInvalidInput)
	}

	members, err := readMembers(path)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Files: 1}
	if err := s.upsert(ctx, members, &result); err != nil {
		return result, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}

	s.logger.InfoContext(ctx, "staff file imported", s.actor(ctx,
		"file", filepath.Base(path),
		"created", result.Created,
		"updated", result.Updated,
	)...)
	return result, nil
}

// ExportFile writes every staff member with the codec picked by the extension.
func (s *InterchangeService) ExportFile(ctx context.Context, path string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterchangeService.ExportFile", attribute.String("file.name", filepath.Base(path)))
	defer func() { endUsecaseSpan(span, err) }()

	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: export path is required", ErrInvalidInput)
	}

	members, err := s.staffRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list staff: %w", err)
	}
	if err := interchange.WriteFile(path, members); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "staff file exported", s.actor(ctx, "file", filepath.Base(path), "members", len(members))...)
	return nil
}

// ExportArchive writes a zip holding personal.<ext> for each format; no
// formats means all of them.
func (s *InterchangeService) ExportArchive(ctx context.Context, path string, formats ...interchange.Format) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterchangeService.ExportArchive", attribute.String("file.name", filepath.Base(path)))
	defer func() { endUsecaseSpan(span, err) }()

	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: archive path is required", ErrInvalidInput)
	}
	formats = uniqueFormats(formats)

	members, err := s.staffRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list staff: %w", err)
	}

	entries, err := iter.MapErr(formats, func(f *interchange.Format) (interchange.ArchiveEntry, error) {
		raw, err := interchange.Encode(*f, members)
		if err != nil {
			return interchange.ArchiveEntry{}, fmt.Errorf("encode %s: %w", *f, err)
		}
		return interchange.ArchiveEntry{Name: interchange.EntryName(*f), Data: raw}, nil
	})
	if err != nil {
		return err
	}
	if err := interchange.WriteArchive(path, entries); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "staff archive exported", s.actor(ctx,
		"file", filepath.Base(path),
		"entries", len(entries),
		"members", len(members),
	)...)
	return nil
}

// ImportArchive restores every entry of a backup archive. Entries that clash
// on file name or fail the shape check, decoding or validation are skipped
// and reported; the call fails only when the archive itself cannot be read.
// Members keep their ids, so a backup holding the same members in several
// formats restores each of them once.
func (s *InterchangeService) ImportArchive(ctx context.Context, path string) (_ ImportResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InterchangeService.ImportArchive", attribute.String("file.name", filepath.Base(path)))
	defer func() { endUsecaseSpan(span, err) }()

	if strings.TrimSpace(path) == "" {
		return ImportResult{}, fmt.Errorf("%w: archive path is required", ErrInvalidInput)
	}

	token, err := s.ids.NewID()
	if err != nil {
		return ImportResult{}, fmt.Errorf("generate scratch name: %w", err)
	}
	scratch := filepath.Join(s.cfg.ScratchDir, "roster-restore-"+token)
	if err := os.MkdirAll(scratch, 0o700); err != nil {
		return ImportResult{}, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			s.logger.WarnContext(ctx, "remove scratch dir failed", "dir", scratch, "error", err)
		}
	}()

	extracted, err := interchange.ExtractArchive(path, scratch)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read archive %s: %w", filepath.Base(path), err)
	}

	decoded, err := s.decodeAll(extracted.Paths)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Files: len(extracted.Paths) + len(extracted.Rejected)}
	for _, rejected := range extracted.Rejected {
		s.skip(ctx, &result, rejected.Name, rejected.Err)
	}
	for _, entry := range decoded {
		if entry.err != nil {
			s.skip(ctx, &result, entry.name, entry.err)
			continue
		}

		var fileResult ImportResult
		upsertErr := s.upsert(ctx, entry.members, &fileResult)
		result.Created += fileResult.Created
		result.Updated += fileResult.Updated
		result.Imported += fileResult.Imported
		if upsertErr != nil {
			s.logger.ErrorContext(ctx, "archive entry import stopped", "entry", entry.name, "imported", fileResult.Imported, "error", upsertErr)
			s.skip(ctx, &result, entry.name, upsertErr)
		}
	}

	s.logger.InfoContext(ctx, "staff archive imported", s.actor(ctx,
		"file", filepath.Base(path),
		"entries", result.Files,
		"skipped", len(result.Skipped),
		"created", result.Created,
		"updated", result.Updated,
	)...)
	return result, nil
}

type decodedEntry struct {
	name    string
	members []staff.Member
	err     error
}

// decodeAll shape-checks, decodes and validates every file on a worker
// pool. Results keep the order of paths.
func (s *InterchangeService) decodeAll(paths []string) ([]decodedEntry, error) {
	out := make([]decodedEntry, len(paths))
	if len(paths) == 0 {
		return out, nil
	}

	workers := s.cfg.Workers
	if workers > len(paths) {
		workers = len(paths)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			members, err := readMembers(path)
			out[i] = decodedEntry{name: filepath.Base(path), members: members, err: err}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit decode task to worker pool: %w", err)
		}
	}
	wg.Wait()

	return out, nil
}

func (s *InterchangeService) upsert(ctx context.Context, members []staff.Member, result *ImportResult) error {
	for i, m := range members {
		if id := m.Common().ID; id > 0 {
			_, found, err := s.staffRepo.Update(ctx, id, m)
			if err != nil {
				return fmt.Errorf("update member %d (record %d): %w", id, i+1, err)
			}
			if found {
				result.Updated++
				result.Imported++
				continue
			}
			if _, err := s.staffRepo.Restore(ctx, m); err != nil {
				return fmt.Errorf("restore member %d (record %d): %w", id, i+1, err)
			}
			result.Created++
			result.Imported++
			continue
		}

		if _, err := s.staffRepo.Save(ctx, m); err != nil {
			return fmt.Errorf("save member (record %d): %w", i+1, err)
		}
		result.Created++
		result.Imported++
	}
	return nil
}

func (s *InterchangeService) skip(ctx context.Context, result *ImportResult, name string, err error) {
	result.Skipped = append(result.Skipped, SkippedFile{Name: name, Reason: err.Error()})
	s.logger.WarnContext(ctx, "archive entry skipped", "entry", name, "error", err)
}

// actor appends the acting account, when known, to log fields.
func (s *InterchangeService) actor(ctx context.Context, args ...any) []any {
	if s.session == nil {
		return args
	}
	if userID, ok := s.session.CurrentUser(ctx); ok {
		return append(args, "account_id", userID)
	}
	return args
}

// readMembers reads a file and validates each member, so a file is either
// importable as a whole or rejected before any write.
func readMembers(path string) ([]staff.Member, error) {
	members, err := interchange.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for i, m := range members {
		if err := validation.Validate(m); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return members, nil
}

func uniqueFormats(formats []interchange.Format) []interchange.Format {
	if len(formats) == 0 {
		return append([]interchange.Format(nil), interchange.AllFormats...)
	}
	seen := make(map[interchange.Format]struct{}, len(formats))
	out := make([]interchange.Format, 0, len(formats))
	for _, f := range formats {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
