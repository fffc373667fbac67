package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/justapithecus/assay/assay"
)

// ArchiveIdentity records the provenance of one input archive. A missing
// archive leaves size and hashes zeroed rather than failing manifest
// construction.
type ArchiveIdentity struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	MD5       string `json:"md5,omitempty"`
	SHA256    string `json:"sha256,omitempty"`
}

// ManifestNotes carries quick observations about the loaded tables.
type ManifestNotes struct {
	MonDtype     string   `json:"mon_dtype,omitempty"`
	TargetCols   []string `json:"target_cols"`
	NRowsTargets int      `json:"n_rows_targets"`
	NRowsSplit   int      `json:"n_rows_client_split"`
}

// Manifest records what an analysis run consumed and produced: input
// archive identities (path, size, two digests), relative paths to every
// generated report, and summary notes.
type Manifest struct {
	CreatedAt  time.Time         `json:"created_at"`
	TargetsTar ArchiveIdentity   `json:"targets_tar"`
	SplitTar   ArchiveIdentity   `json:"client_split_tar"`
	Reports    map[string]string `json:"reports"`
	Notes      ManifestNotes     `json:"notes"`
}

// BuildManifest assembles the manifest for one analysis run. The reports
// map associates report names with their paths relative to the reports
// directory.
func BuildManifest(targetsPath, splitPath string, reports map[string]string, targets, split *assay.Table) *Manifest {
	m := &Manifest{
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		TargetsTar: identify(targetsPath),
		SplitTar:   identify(splitPath),
		Reports:    reports,
		Notes: ManifestNotes{
			TargetCols:   TargetColumns(targets),
			NRowsTargets: targets.NumRows(),
			NRowsSplit:   split.NumRows(),
		},
	}
	if m.Notes.TargetCols == nil {
		m.Notes.TargetCols = []string{}
	}
	if c, ok := targets.Column(ColMonth); ok {
		m.Notes.MonDtype = c.Kind().String()
	}
	return m
}

// identify captures path, size, and digests of an archive. Hash failures
// are tolerated: the manifest is provenance metadata, not a gate.
func identify(path string) ArchiveIdentity {
	id := ArchiveIdentity{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return id
	}
	id.SizeBytes = info.Size()
	if sum, err := assay.HashFile(path, "md5"); err == nil {
		id.MD5 = sum
	}
	if sum, err := assay.HashFile(path, "sha256"); err == nil {
		id.SHA256 = sum
	}
	return id
}

// Write persists the manifest as manifest.json under reportsDir.
func (m *Manifest) Write(reportsDir string) (string, error) {
	path := filepath.Join(reportsDir, "manifest.json")
	if err := writeJSON(m, path); err != nil {
		return "", fmt.Errorf("report: write manifest: %w", err)
	}
	return path, nil
}
