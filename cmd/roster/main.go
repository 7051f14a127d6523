package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/squad-roster/internal/app"
	"github.com/riskibarqy/squad-roster/internal/config"
	"github.com/riskibarqy/squad-roster/internal/domain/account"
	"github.com/riskibarqy/squad-roster/internal/domain/squad"
	"github.com/riskibarqy/squad-roster/internal/domain/staff"
	"github.com/riskibarqy/squad-roster/internal/interchange"
	"github.com/riskibarqy/squad-roster/internal/observability"
	"github.com/riskibarqy/squad-roster/internal/platform/logging"
	"github.com/riskibarqy/squad-roster/internal/usecase"
)

var errUsage = errors.New("usage")

type options struct {
	envFile  string
	username string
	password string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("roster", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts options
	fs.StringVar(&opts.envFile, "env", ".env", "dotenv file loaded before reading the environment")
	fs.StringVar(&opts.username, "user", "", "account to act as (default $ROSTER_USER)")
	fs.StringVar(&opts.password, "password", "", "password of -user (default $ROSTER_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cmd, cmdArgs, err := parseCommand(fs.Args())
	if err != nil {
		return err
	}

	if err := loadDotEnv(opts.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces failed", "error", err)
		}
	}()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close database failed", "error", err)
		}
	}()

	if err := a.Seed(ctx); err != nil {
		return err
	}

	session, err := login(ctx, a, opts)
	if err != nil {
		return err
	}
	svc := a.Interchange(session)

	switch cmd {
	case "import":
		result, err := svc.ImportFile(ctx, cmdArgs[0])
		if err != nil {
			return err
		}
		printImportResult(stdout, result)
	case "export":
		if err := svc.ExportFile(ctx, cmdArgs[0]); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "exported staff to %s\n", cmdArgs[0])
	case "backup":
		formats, err := parseFormats(cmdArgs[1:])
		if err != nil {
			return err
		}
		if err := svc.ExportArchive(ctx, cmdArgs[0], formats...); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "backup written to %s\n", cmdArgs[0])
	case "restore":
		result, err := svc.ImportArchive(ctx, cmdArgs[0])
		if err != nil {
			return err
		}
		printImportResult(stdout, result)
	case "seed":
		fmt.Fprintln(stdout, "defaults seeded")
	case "list":
		switch listTarget(cmdArgs) {
		case "coaches":
			return listCoaches(ctx, stdout, a.Staff)
		case "calls":
			return listCalls(ctx, stdout, a.Squads)
		default:
			return listStaff(ctx, stdout, a.Staff)
		}
	}
	return nil
}

// parseCommand checks the subcommand and its positional arguments before
// anything touches the database.
func parseCommand(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, errUsage
	}

	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	rest := args[1:]
	switch cmd {
	case "import", "export", "restore":
		if len(rest) != 1 {
			return "", nil, errUsage
		}
	case "backup":
		if len(rest) < 1 || len(rest) > 2 {
			return "", nil, errUsage
		}
	case "seed":
		if len(rest) != 0 {
			return "", nil, errUsage
		}
	case "list":
		if len(rest) > 1 {
			return "", nil, errUsage
		}
		switch listTarget(rest) {
		case "staff", "coaches", "calls":
		default:
			return "", nil, errUsage
		}
	default:
		return "", nil, errUsage
	}
	return cmd, rest, nil
}

// parseFormats reads an optional comma separated format list.
func parseFormats(args []string) ([]interchange.Format, error) {
	if len(args) == 0 {
		return nil, nil
	}

	var out []interchange.Format
	for _, raw := range strings.Split(args[0], ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		f, ok := interchange.ParseFormat(raw)
		if !ok {
			return nil, fmt.Errorf("unknown format %q: valid values are csv, json, xml", raw)
		}
		out = append(out, f)
	}
	return out, nil
}

func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func newLogger(cfg config.Config) *logging.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return logging.NewJSON(cfg.LogLevel).Named(cfg.ServiceName)
	}
	return logging.NewConsole(cfg.LogLevel)
}

func login(ctx context.Context, a *app.App, opts options) (account.Session, error) {
	username := firstNonEmpty(opts.username, os.Getenv("ROSTER_USER"))
	if username == "" {
		return nil, nil
	}
	session, err := a.Login(ctx, username, firstNonEmpty(opts.password, os.Getenv("ROSTER_PASSWORD")))
	if err != nil {
		return nil, err
	}
	return session, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func printImportResult(w io.Writer, result usecase.ImportResult) {
	fmt.Fprintf(w, "files: %d  imported: %d (new %d, updated %d)\n",
		result.Files, result.Imported, result.Created, result.Updated)
	for _, skipped := range result.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", skipped.Name, skipped.Reason)
	}
}

func listStaff(ctx context.Context, w io.Writer, repo staff.Repository) error {
	members, err := repo.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tNAME\tDETAIL")
	for _, m := range members {
		b := m.Common()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, m.Kind(), b.FullName(), memberDetail(m))
	}
	return tw.Flush()
}

func listTarget(args []string) string {
	if len(args) == 0 {
		return "staff"
	}
	return strings.ToLower(strings.TrimSpace(args[0]))
}

func listCoaches(ctx context.Context, w io.Writer, repo staff.Repository) error {
	coaches, err := repo.ListCoaches(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALIZATION")
	for _, c := range coaches {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.FullName(), c.Specialization)
	}
	return tw.Flush()
}

// listCalls prints each call with its starters and substitutes.
func listCalls(ctx context.Context, w io.Writer, repo squad.Repository) error {
	calls, err := repo.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tSTARTERS\tSUBSTITUTES\tVALID")
	for _, call := range calls {
		starters, err := repo.Starters(ctx, call)
		if err != nil {
			return err
		}
		subs, err := repo.Substitutes(ctx, call)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n",
			call.ID, call.Date.Format(time.DateOnly), call.Description,
			playerNames(starters), playerNames(subs), repo.ValidateCall(ctx, call))
	}
	return tw.Flush()
}

func playerNames(players []staff.Player) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.LastName)
	}
	return strings.Join(names, ", ")
}

func memberDetail(m staff.Member) string {
	switch v := m.(type) {
	case staff.Player:
		return fmt.Sprintf("#%d %s", v.SquadNumber, v.Position)
	case staff.Coach:
		return string(v.Specialization)
	default:
		return ""
	}
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s [-env file] [-user name -password secret] <command> [args]\n", name)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintf(w, "  %s import personal.csv\n", name)
	fmt.Fprintf(w, "  %s export personal.json\n", name)
	fmt.Fprintf(w, "  %s backup backup.zip [csv,json,xml]\n", name)
	fmt.Fprintf(w, "  %s restore backup.zip\n", name)
	fmt.Fprintf(w, "  %s seed\n", name)
	fmt.Fprintf(w, "  %s list [staff|coaches|calls]\n", name)
}
