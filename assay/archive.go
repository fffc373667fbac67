package assay

import (
	"archive/tar"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// parquetExt is the member suffix that marks columnar data files inside an
// archive. Matching is case-insensitive.
const parquetExt = ".parquet"

// -----------------------------------------------------------------------------
// Options
// -----------------------------------------------------------------------------

// ReadStats reports what a ReadPartitions call actually consumed. It is
// diagnostic output, not part of the data contract.
type ReadStats struct {
	// EntriesRead is the number of archive members decoded.
	EntriesRead int

	// RecoveredKeys lists the expected partition keys that ended up as
	// columns of the result, in the order they were requested.
	RecoveredKeys []string
}

// ReadOption configures a ReadPartitions call.
type ReadOption func(*readConfig)

type readConfig struct {
	allowed  Filter
	columns  []string
	maxParts int
	logger   *slog.Logger
}

// WithAllowedPartitions keeps only members whose partition descriptor
// passes the filter. See Filter for the open-world matching rules.
func WithAllowedPartitions(f Filter) ReadOption {
	return func(c *readConfig) { c.allowed = f }
}

// WithColumns decodes only the named columns from each member.
func WithColumns(columns ...string) ReadOption {
	return func(c *readConfig) { c.columns = columns }
}

// WithMaxParts caps the number of members decoded, applied after prefix and
// partition filtering, preserving archive order. Useful for fast sampling;
// the truncated result is not statistically representative.
func WithMaxParts(n int) ReadOption {
	return func(c *readConfig) { c.maxParts = n }
}

// WithLogger sets the logger for progress diagnostics. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) ReadOption {
	return func(c *readConfig) { c.logger = l }
}

// -----------------------------------------------------------------------------
// ReadPartitions
// -----------------------------------------------------------------------------

// ReadPartitions reads every Parquet member under prefix inside a .tar.gz
// archive, reconstructs partition columns (for example "fold") from
// key=value segments of each member path, and concatenates the decoded
// members into a single Table.
//
// Members are processed strictly one at a time in the archive's own order:
// each member's bytes are spooled to a temporary file, decoded, and the
// temporary file is removed before the next member is touched, so transient
// disk usage stays bounded to one member. Partition keys recovered from the
// path are injected as constant columns unless the decoded data already has
// them. Concatenation uses outer-union column semantics with null fill.
//
// Errors: a missing archive wraps ErrNotFound; zero surviving members wraps
// ErrNoMatch; any undecodable member wraps ErrDecode and aborts the whole
// read. There are no partial results and no retries.
func ReadPartitions(archivePath, prefix string, expectedKeys []string, opts ...ReadOption) (*Table, ReadStats, error) {
	cfg := readConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var stats ReadStats

	if _, err := os.Stat(archivePath); err != nil {
		return nil, stats, fmt.Errorf("assay: archive %s: %w", archivePath, ErrNotFound)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, stats, fmt.Errorf("assay: open archive %s: %w", archivePath, err)
	}
	defer closer(f)()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, stats, fmt.Errorf("assay: archive %s is not gzip data: %w", archivePath, err)
	}
	defer closer(gz)()

	lowerPrefix := strings.ToLower(prefix)
	unified := NewTable()
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("assay: read archive %s: %w", archivePath, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		lower := strings.ToLower(hdr.Name)
		if !strings.HasPrefix(lower, lowerPrefix) || !strings.HasSuffix(lower, parquetExt) {
			continue
		}

		desc := ParseDescriptor(hdr.Name, expectedKeys)
		if cfg.allowed != nil && !cfg.allowed.Allows(desc) {
			continue
		}

		part, err := decodeMember(tr, cfg.columns)
		if err != nil {
			return nil, stats, fmt.Errorf("assay: member %s: %w", hdr.Name, err)
		}
		for k, v := range desc {
			part.SetConstant(k, v)
		}
		unified.AppendTable(part)
		stats.EntriesRead++

		cfg.logger.Debug("decoded archive member",
			slog.String("member", hdr.Name),
			slog.Int("rows", part.NumRows()),
			slog.Any("partition", map[string]any(desc)))

		if cfg.maxParts > 0 && stats.EntriesRead >= cfg.maxParts {
			break
		}
	}

	if stats.EntriesRead == 0 {
		return nil, stats, fmt.Errorf("assay: no parquet members under %q in %s: %w",
			prefix, filepath.Base(archivePath), ErrNoMatch)
	}

	for _, k := range expectedKeys {
		if unified.HasColumn(k) {
			stats.RecoveredKeys = append(stats.RecoveredKeys, k)
		}
	}

	cfg.logger.Info("archive read complete",
		slog.String("archive", filepath.Base(archivePath)),
		slog.String("prefix", prefix),
		slog.Int("members", stats.EntriesRead),
		slog.Int("rows", unified.NumRows()),
		slog.Any("recovered_keys", stats.RecoveredKeys))

	return unified, stats, nil
}

// decodeMember spools one member's byte stream to a temporary file, decodes
// it, and removes the file whether or not decoding succeeded. Parquet needs
// random access, which the sequential tar stream cannot provide directly.
func decodeMember(r io.Reader, columns []string) (*Table, error) {
	tmp, err := os.CreateTemp("", "assay-*.parquet")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return nil, fmt.Errorf("spool member: %w", err)
	}
	return DecodeTable(tmp, size, columns)
}

// -----------------------------------------------------------------------------
// ListArchive
// -----------------------------------------------------------------------------

// ListArchive returns the names of regular-file members in a .tar.gz
// archive, in archive order, capped at limit when limit > 0. Quick debug
// aid for inspecting internal member names.
func ListArchive(archivePath string, limit int) ([]string, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return nil, fmt.Errorf("assay: archive %s: %w", archivePath, ErrNotFound)
	}
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("assay: open archive %s: %w", archivePath, err)
	}
	defer closer(f)()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("assay: archive %s is not gzip data: %w", archivePath, err)
	}
	defer closer(gz)()

	var names []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("assay: read archive %s: %w", archivePath, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		names = append(names, hdr.Name)
		if limit > 0 && len(names) >= limit {
			break
		}
	}
	return names, nil
}
