package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/riskibarqy/squad-roster/internal/app"
	"github.com/riskibarqy/squad-roster/internal/config"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
)

var errUsage = errors.New("usage")

func main() {
	logger := logging.NewConsole(logging.LevelInfo)
	defer func() { _ = logger.Sync() }()

	err := run(os.Args[1:], os.Stdout, logger)
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	step, err := parseStep(cmd, args[1:])
	if err != nil {
		return err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m, err := app.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			logger.Warn("close migration db", "error", dbErr)
		}
	}()

	switch cmd {
	case "up":
		return report(logger, m.Up(), "migrations applied", "driver", cfg.DBDriver)
	case "down":
		return report(logger, m.Steps(-int(step)), "migrations rolled back", "steps", step)
	case "force":
		if err := m.Force(int(step)); err != nil {
			return fmt.Errorf("force version %d: %w", step, err)
		}
		logger.Info("version forced", "version", step)
		return nil
	case "goto", "migrate":
		return report(logger, m.Migrate(step), "migrated", "version", step)
	default:
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(stdout, "version: none")
			fmt.Fprintln(stdout, "dirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Fprintf(stdout, "version: %d\n", version)
		fmt.Fprintf(stdout, "dirty: %t\n", dirty)
		return nil
	}
}

// parseStep validates the argument of cmd: a step count for down, a version
// for force and goto, nothing for up and version.
func parseStep(cmd string, args []string) (uint, error) {
	switch cmd {
	case "up", "version":
		if len(args) != 0 {
			return 0, errUsage
		}
		return 0, nil
	case "down":
		if len(args) == 0 {
			return 1, nil
		}
		steps, err := parseUint(args[0], "down steps")
		if err != nil {
			return 0, err
		}
		if steps == 0 {
			return 0, fmt.Errorf("down steps must be > 0")
		}
		return steps, nil
	case "force", "goto", "migrate":
		if len(args) != 1 {
			return 0, fmt.Errorf("%s requires a version argument", cmd)
		}
		return parseUint(args[0], "version")
	default:
		return 0, errUsage
	}
}

func parseUint(raw, what string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, raw, err)
	}
	if value > uint64(^uint(0)>>1) {
		return 0, fmt.Errorf("%s is too large for this platform", what)
	}
	return uint(value), nil
}

// report treats ErrNoChange as success.
func report(logger *logging.Logger, err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <up|down|version|force|goto> [args]\n", name)
	fmt.Fprintln(w, "DB_DRIVER (postgres|sqlite3) and DB_URL select the database.")
	fmt.Fprintln(w, "examples:")
	for _, example := range []string{"up", "down 1", "version", "force 1771900100", "goto 1771900100"} {
		fmt.Fprintf(w, "  %s %s\n", name, example)
	}
}
