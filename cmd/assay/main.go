// Command assay runs an exploratory-analysis pass over a pair of
// partitioned tabular archives: a targets dataset (per-client-month rows
// with binary target columns) and a client-split dataset (client-to-fold
// assignments). It loads both, then writes schema, volumetry, prevalence,
// baseline, and fold-leakage reports plus a provenance manifest.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/justapithecus/assay/assay"
	"github.com/justapithecus/assay/assay/report"
	s3fetch "github.com/justapithecus/assay/assay/s3"
	"github.com/justapithecus/assay/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath    = pflag.String("config", "", "path to YAML config file")
		targets    = pflag.String("targets", "", "targets archive (path or s3:// URL)")
		split      = pflag.String("split", "", "client-split archive (path or s3:// URL)")
		reportsDir = pflag.String("reports-dir", "", "output directory for reports")
		maxParts   = pflag.Int("max-parts", 0, "cap parquet members read per archive (0 = all)")
		folds      = pflag.Int64Slice("folds", nil, "restrict to these fold partitions")
		xlsx       = pflag.Bool("xlsx", false, "also export prevalence/baseline as xlsx")
		logLevel   = pflag.String("log-level", "", "debug, info, warn, or error")
	)
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	// Flags win over the config file.
	if *targets != "" {
		cfg.TargetsArchive = *targets
	}
	if *split != "" {
		cfg.SplitArchive = *split
	}
	if *reportsDir != "" {
		cfg.ReportsDir = *reportsDir
	}
	if *maxParts > 0 {
		cfg.MaxParts = *maxParts
	}
	if len(*folds) > 0 {
		cfg.Folds = *folds
	}
	if *xlsx {
		cfg.Xlsx = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.TargetsArchive == "" || cfg.SplitArchive == "" {
		pflag.Usage()
		return fmt.Errorf("both --targets and --split are required")
	}

	ctx := context.Background()
	targetsPath, err := localize(ctx, cfg, cfg.TargetsArchive, logger)
	if err != nil {
		return err
	}
	splitPath, err := localize(ctx, cfg, cfg.SplitArchive, logger)
	if err != nil {
		return err
	}

	var readOpts []assay.ReadOption
	readOpts = append(readOpts, assay.WithLogger(logger))
	if cfg.MaxParts > 0 {
		readOpts = append(readOpts, assay.WithMaxParts(cfg.MaxParts))
	}
	if len(cfg.Folds) > 0 {
		allowed := make([]any, len(cfg.Folds))
		for i, f := range cfg.Folds {
			allowed[i] = f
		}
		readOpts = append(readOpts, assay.WithAllowedPartitions(assay.Filter{"fold": allowed}))
	}

	targetsTable, _, err := assay.ReadPartitions(targetsPath, cfg.TargetsPrefix, []string{"fold"}, readOpts...)
	if err != nil {
		return err
	}
	splitTable, _, err := assay.ReadPartitions(splitPath, cfg.SplitPrefix, []string{"fold"}, readOpts...)
	if err != nil {
		return err
	}

	if coerced, ok := assay.NormalizeMonth(targetsTable, report.ColMonth); !ok {
		logger.Info("month column absent, skipping normalization", slog.String("column", report.ColMonth))
	} else if coerced > 0 {
		logger.Warn("month values lost during normalization",
			slog.String("column", report.ColMonth), slog.Int("coerced_to_null", coerced))
	}

	return writeReports(cfg, targetsPath, splitPath, targetsTable, splitTable, logger)
}

func writeReports(cfg *config.Config, targetsPath, splitPath string, targetsTable, splitTable *assay.Table, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.ReportsDir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	produced := make(map[string]string)

	for name, t := range map[string]*assay.Table{"targets": targetsTable, "client_split": splitTable} {
		rep := report.Describe(t, name)
		path, err := rep.Write(cfg.ReportsDir)
		if err != nil {
			return err
		}
		produced["schema_"+name] = filepath.Base(path)
		logger.Info("schema report written", slog.String("table", name),
			slog.Int("rows", rep.NRows), slog.Int("cols", rep.NCols), slog.String("mem", rep.MemHuman))
	}

	vol := report.Volumetry(targetsTable, splitTable)
	volPath, err := vol.Write(cfg.ReportsDir)
	if err != nil {
		return err
	}
	produced["volumetry"] = filepath.Base(volPath)

	prev := report.Prevalence(targetsTable)
	if prev.NumRows() == 0 {
		logger.Warn("no recognized target columns, prevalence report empty")
	}
	if err := exportTable(cfg, prev, "prevalence", produced); err != nil {
		return err
	}

	base := report.Baseline(prev)
	if err := exportTable(cfg, base, "baseline_auprc", produced); err != nil {
		return err
	}

	leaks := report.FindLeaks(splitTable)
	if leaks.NumRows() > 0 {
		logger.Warn("clients assigned to more than one fold", slog.Int("clients", leaks.NumRows()))
		if err := exportTable(cfg, leaks, "fold_leakage", produced); err != nil {
			return err
		}
	}

	manifest := report.BuildManifest(targetsPath, splitPath, produced, targetsTable, splitTable)
	if _, err := manifest.Write(cfg.ReportsDir); err != nil {
		return err
	}
	logger.Info("manifest written", slog.String("dir", cfg.ReportsDir), slog.Int("reports", len(produced)))
	return nil
}

// exportTable writes a table as CSV, and optionally xlsx, under the
// reports dir, recording the produced file names.
func exportTable(cfg *config.Config, t *assay.Table, name string, produced map[string]string) error {
	csvName := name + ".csv"
	if err := report.WriteCSV(t, filepath.Join(cfg.ReportsDir, csvName)); err != nil {
		return err
	}
	produced[name] = csvName
	if cfg.Xlsx {
		xlsxName := name + ".xlsx"
		if err := report.WriteXLSX(t, filepath.Join(cfg.ReportsDir, xlsxName)); err != nil {
			return err
		}
		produced[name+"_xlsx"] = xlsxName
	}
	return nil
}

// localize returns a local path for an archive reference, downloading
// s3:// URLs to a temporary file first.
func localize(ctx context.Context, cfg *config.Config, ref string, logger *slog.Logger) (string, error) {
	if !strings.HasPrefix(ref, "s3://") {
		return ref, nil
	}
	bucket, key, err := s3fetch.ParseURL(ref)
	if err != nil {
		return "", err
	}
	client, err := s3fetch.NewClient(ctx, s3fetch.ClientConfig{
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		UsePathStyle:    cfg.S3.UsePathStyle,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return "", err
	}
	dest := filepath.Join(os.TempDir(), filepath.Base(key))
	logger.Info("downloading archive", slog.String("url", ref), slog.String("dest", dest))
	if err := s3fetch.Fetch(ctx, client, bucket, key, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
