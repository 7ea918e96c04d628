package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/mobgen/internal/config"
	"github.com/JonMunkholm/mobgen/internal/logging"
	"github.com/JonMunkholm/mobgen/internal/sheet"
	"github.com/google/uuid"
)

// ErrUnknownGenerator is returned for a generator key that is not registered.
var ErrUnknownGenerator = errors.New("unknown generator")

// Fetcher downloads the CSV text behind a URL.
// Satisfied by *sheet.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Service runs generators: fetch, parse, resolve, render and write.
type Service struct {
	fetcher Fetcher
	limiter *FetchLimiter
	cfg     config.Config
}

// NewService creates a Service reading sheets with fetcher and writing
// according to cfg.
func NewService(fetcher Fetcher, cfg config.Config) *Service {
	return &Service{
		fetcher: fetcher,
		limiter: NewFetchLimiter(cfg.Fetch.MaxConcurrent, cfg.Fetch.MaxWait),
		cfg:     cfg,
	}
}

// ListGenerators returns information about all registered generators.
func (s *Service) ListGenerators() []GeneratorInfo {
	defs := All()
	infos := make([]GeneratorInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// SheetURL returns the export URL a generator reads from.
func (s *Service) SheetURL(key string) (string, error) {
	def, ok := Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownGenerator, key)
	}
	return sheet.ExportURL(s.cfg.Sheet.BaseURL, s.cfg.Sheet.SpreadsheetID, s.cfg.Sheet.SheetGID(def.Info.Sheet)), nil
}

// Plan is what a run would write, before any file is touched.
type Plan struct {
	Generator  string      `json:"generator"`
	TotalRows  int         `json:"total_rows"`
	Entries    []Entry     `json:"entries"`
	Skipped    []RowIssue  `json:"skipped"`
	Warnings   []RowIssue  `json:"warnings"`
	Duplicates []Duplicate `json:"duplicates"`
}

// Entry returns the last entry with the given id. With duplicate ids the
// last row is the one whose files end up on disk.
func (p *Plan) Entry(id string) (Entry, bool) {
	for i := len(p.Entries) - 1; i >= 0; i-- {
		if p.Entries[i].ID == id {
			return p.Entries[i], true
		}
	}
	return Entry{}, false
}

// Plan fetches the generator's sheet and renders every usable row.
// Fetch and parse failures are returned; row problems are recorded in the plan.
func (s *Service) Plan(ctx context.Context, key string) (*Plan, error) {
	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, key)
	}

	url, _ := s.SheetURL(key)
	logging.FromContext(ctx).Info("fetching sheet", "generator", key, "url", url)

	text, err := s.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s sheet: %w", key, err)
	}

	return BuildPlan(ctx, def, text, s.options(), s.cfg.Sheet.HeaderScanRows)
}

func (s *Service) fetch(ctx context.Context, url string) (string, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.limiter.Release()
	return s.fetcher.Fetch(ctx, url)
}

// BuildPlan parses text and renders every usable row with def.
func BuildPlan(ctx context.Context, def Definition, text string, opts Options, headerScanRows int) (*Plan, error) {
	logger := logging.FromContext(ctx)

	table, err := sheet.Parse(text, def.RequiredColumns(), headerScanRows)
	if err != nil {
		return nil, fmt.Errorf("parse %s sheet: %w", def.Info.Key, err)
	}

	plan := &Plan{
		Generator: def.Info.Key,
		TotalRows: len(table.Records),
	}

	validator := NewRowValidator(def.FieldSpecs, table.Index)
	seen := make(map[string][]int)
	var order []string

	for _, rec := range table.Records {
		values, errs := validator.Resolve(rec)

		if HasFatal(errs) {
			reason := fatalReason(errs)
			logger.Warn("row skipped", "line", rec.Line, "reason", reason)
			plan.Skipped = append(plan.Skipped, RowIssue{Line: rec.Line, Reason: reason})
			continue
		}

		entry, err := def.Build(Row{Line: rec.Line, Seq: rec.Ordinal, Values: values}, opts)
		if err != nil {
			logger.Warn("row skipped", "line", rec.Line, "reason", err.Error())
			plan.Skipped = append(plan.Skipped, RowIssue{Line: rec.Line, Reason: err.Error()})
			continue
		}
		entry.Line = rec.Line

		for _, e := range errs {
			logger.Warn("invalid value", "line", rec.Line, "id", entry.ID, "reason", e.Error())
			plan.Warnings = append(plan.Warnings, RowIssue{Line: rec.Line, ID: entry.ID, Reason: e.Error()})
		}

		if _, dup := seen[entry.ID]; !dup {
			order = append(order, entry.ID)
		}
		seen[entry.ID] = append(seen[entry.ID], rec.Line)
		plan.Entries = append(plan.Entries, entry)
	}

	for _, id := range order {
		if lines := seen[id]; len(lines) > 1 {
			logger.Warn("duplicate id, last row wins", "id", id, "lines", lines)
			plan.Duplicates = append(plan.Duplicates, Duplicate{ID: id, Lines: lines})
		}
	}

	return plan, nil
}

// Result summarizes a generation run.
type Result struct {
	RunID      string        `json:"run_id"`
	Generator  string        `json:"generator"`
	OutputDir  string        `json:"output_dir"`
	DryRun     bool          `json:"dry_run"`
	TotalRows  int           `json:"total_rows"`
	Entries    int           `json:"entries"`
	Written    []string      `json:"written"`
	Skipped    []RowIssue    `json:"skipped"`
	Warnings   []RowIssue    `json:"warnings"`
	Failed     []RowIssue    `json:"failed"`
	Duplicates []Duplicate   `json:"duplicates"`
	Duration   time.Duration `json:"duration"`
}

// Generate plans a run and writes every entry below the datapack directory.
// A write failure is recorded for its row and the remaining rows continue.
func (s *Service) Generate(ctx context.Context, key string, dryRun bool) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	logger.Info("generation started", "generator", key, "output", s.cfg.Output.DatapackDir, "dry_run", dryRun)

	plan, err := s.Plan(ctx, key)
	if err != nil {
		logger.Error("generation failed", "generator", key, "error", err)
		return nil, err
	}

	writer := NewWriter(s.cfg.Output.DatapackDir, dryRun)
	result := &Result{
		RunID:      runID,
		Generator:  key,
		OutputDir:  writer.Root(),
		DryRun:     dryRun,
		TotalRows:  plan.TotalRows,
		Skipped:    plan.Skipped,
		Warnings:   plan.Warnings,
		Duplicates: plan.Duplicates,
	}

	for _, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		ok := true
		for _, f := range entry.Files {
			target, err := writer.Write(f)
			if err != nil {
				logging.WithFields(ctx, "line", entry.Line, "id", entry.ID).Warn("write failed", "path", f.Path, "error", err)
				result.Failed = append(result.Failed, RowIssue{Line: entry.Line, ID: entry.ID, Path: f.Path, Reason: err.Error()})
				ok = false
				break
			}
			logger.Debug("file written", "id", entry.ID, "path", target)
			result.Written = append(result.Written, target)
		}
		if ok {
			result.Entries++
		}
	}

	result.Duration = time.Since(start)
	logger.Info("generation finished",
		"generator", key,
		"entries", result.Entries,
		"files", len(result.Written),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
		"duration", result.Duration)

	return result, nil
}

func (s *Service) options() Options {
	return Options{SpawnFunctions: s.cfg.Output.SpawnFunctions}
}

func fatalReason(errs []ValidationError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if !e.Fatal {
			continue
		}
		msgs = append(msgs, e.Error())
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
