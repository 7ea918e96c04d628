// Command mobgen generates Minecraft datapack functions from a Google
// Sheets export: one bank file per creature or item row.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/mobgen/internal/config"
	"github.com/JonMunkholm/mobgen/internal/core"
	_ "github.com/JonMunkholm/mobgen/internal/core/generators" // Register all generators
	"github.com/JonMunkholm/mobgen/internal/logging"
	"github.com/JonMunkholm/mobgen/internal/report"
	"github.com/JonMunkholm/mobgen/internal/sheet"
	"github.com/JonMunkholm/mobgen/internal/web"
	"github.com/joho/godotenv"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

const usage = `usage: mobgen [flags] [command]

commands:
  mobs      generate mob bank files (default)
  items     generate item bank files
  peek      print the first rows of a sheet: peek [mob|item]
  manifest  run every job listed in a YAML manifest
  serve     start the preview HTTP server

flags:
`

// commandGenerators maps generate commands to generator keys.
var commandGenerators = map[string]string{
	"mobs":  "mob",
	"items": "item",
}

// fetcherFactory builds the sheet fetcher for a configuration.
type fetcherFactory func(cfg config.Config) core.Fetcher

func httpFetcher(cfg config.Config) core.Fetcher {
	return sheet.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes)
}

func main() {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, httpFetcher)
	stop()
	os.Exit(code)
}

type options struct {
	dryRun   bool
	out      string
	sheetGID string
	rows     int
	file     string
	noSpawn  bool
}

func newFlagSet(stderr io.Writer, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("mobgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.BoolVar(&opts.dryRun, "dry-run", false, "render everything but write no files")
	fs.StringVar(&opts.out, "out", "", "datapack directory (overrides MOBGEN_DATAPACK_DIR)")
	fs.StringVar(&opts.sheetGID, "sheet", "", "sheet gid to read (overrides the configured gid)")
	fs.IntVar(&opts.rows, "rows", 3, "rows to print with peek")
	fs.StringVar(&opts.file, "file", config.DefaultManifestFile, "manifest path for the manifest command")
	fs.BoolVar(&opts.noSpawn, "no-spawn", false, "skip spawn_map and spawn wrapper files for mobs")
	return fs
}

// parseArgs accepts flags both before and after the command.
func parseArgs(fs *flag.FlagSet, args []string) (string, []string, error) {
	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return "mobs", nil, nil
	}
	cmd := rest[0]
	if err := fs.Parse(rest[1:]); err != nil {
		return "", nil, err
	}
	return cmd, fs.Args(), nil
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, newFetcher fetcherFactory) int {
	var opts options
	fs := newFlagSet(stderr, &opts)
	cmd, cmdArgs, err := parseArgs(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFatal
	}
	slog.SetDefault(logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format))

	if opts.out != "" {
		cfg.Output.DatapackDir = opts.out
	}
	if opts.noSpawn {
		cfg.Output.SpawnFunctions = false
	}

	slog.Debug("configuration loaded", "config", cfg.String())

	switch cmd {
	case "mobs", "items":
		key := commandGenerators[cmd]
		if opts.sheetGID != "" {
			setGID(cfg, key, opts.sheetGID)
		}
		return generate(ctx, stdout, stderr, core.NewService(newFetcher(*cfg), *cfg), key, opts.dryRun)

	case "peek":
		key := "mob"
		if len(cmdArgs) > 0 {
			key = strings.TrimSuffix(cmdArgs[0], "s")
		}
		if _, ok := core.Get(key); !ok {
			fmt.Fprintf(stderr, "unknown generator %q\n", key)
			return exitUsage
		}
		if opts.sheetGID != "" {
			setGID(cfg, key, opts.sheetGID)
		}
		return peek(ctx, stdout, stderr, newFetcher(*cfg), *cfg, key, opts.rows)

	case "manifest":
		return runManifest(ctx, stdout, stderr, *cfg, newFetcher, opts)

	case "serve":
		return serve(ctx, stderr, core.NewService(newFetcher(*cfg), *cfg), cfg.Server)

	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

func setGID(cfg *config.Config, key, gid string) {
	if key == "item" {
		cfg.Sheet.ItemGID = gid
	} else {
		cfg.Sheet.MobGID = gid
	}
}

func generate(ctx context.Context, stdout, stderr io.Writer, svc *core.Service, key string, dryRun bool) int {
	res, err := svc.Generate(ctx, key, dryRun)
	if err != nil {
		printError(stderr, err)
		return exitFatal
	}
	if err := report.WriteSummary(stdout, res); err != nil {
		slog.Error("write summary", "error", err)
	}
	return exitOK
}

func peek(ctx context.Context, stdout, stderr io.Writer, fetcher core.Fetcher, cfg config.Config, key string, rows int) int {
	url := sheet.ExportURL(cfg.Sheet.BaseURL, cfg.Sheet.SpreadsheetID, cfg.Sheet.SheetGID(key))
	text, err := fetcher.Fetch(ctx, url)
	if err != nil {
		printError(stderr, err)
		return exitFatal
	}

	all, err := sheet.ReadRows(text)
	if err != nil {
		printError(stderr, err)
		return exitFatal
	}
	for i, row := range all {
		if i == rows {
			break
		}
		fmt.Fprintf(stdout, "Row %d: %q\n", i, row)
	}
	return exitOK
}

func runManifest(ctx context.Context, stdout, stderr io.Writer, base config.Config, newFetcher fetcherFactory, opts options) int {
	m, err := config.LoadManifest(opts.file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFatal
	}

	code := exitOK
	for i, job := range m.Jobs {
		cfg := job.Apply(base)
		if _, ok := core.Get(job.Generator); !ok {
			fmt.Fprintf(stderr, "job %d: unknown generator %q\n", i+1, job.Generator)
			code = exitFatal
			continue
		}
		slog.Info("manifest job", "job", i+1, "generator", job.Generator, "output", cfg.Output.DatapackDir)
		if c := generate(ctx, stdout, stderr, core.NewService(newFetcher(cfg), cfg), job.Generator, opts.dryRun); c != exitOK {
			code = c
		}
	}
	return code
}

func serve(ctx context.Context, stderr io.Writer, svc *core.Service, cfg config.ServerConfig) int {
	server := web.NewServer(svc, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFatal
		}
		return exitOK
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return exitFatal
	}
	slog.Info("server stopped")
	return exitOK
}

// printError prints the user-facing form of err, followed by the raw error
// when no specific message applies.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		fmt.Fprintf(w, "  %v\n", err)
	}
}
