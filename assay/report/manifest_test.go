package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/justapithecus/assay/assay"
)

func TestBuildManifest(t *testing.T) {
	dir := t.TempDir()
	targetsTar := filepath.Join(dir, "targets.tar.gz")
	splitTar := filepath.Join(dir, "split.tar.gz")
	if err := os.WriteFile(targetsTar, []byte("targets-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(splitTar, []byte("split-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	targets := assay.NewTable()
	mustAdd(t, targets, "target_1", assay.KindInt, []any{int64(1), int64(0)})
	mustAdd(t, targets, ColMonth, assay.KindString, []any{"2024-01", "2024-02"})
	split := assay.NewTable()
	mustAdd(t, split, ColClientID, assay.KindInt, []any{int64(1)})

	m := BuildManifest(targetsTar, splitTar,
		map[string]string{"volumetry": "volumetry.json"}, targets, split)

	if m.TargetsTar.SizeBytes != int64(len("targets-bytes")) {
		t.Errorf("targets size = %d", m.TargetsTar.SizeBytes)
	}
	if len(m.TargetsTar.MD5) != 32 || len(m.TargetsTar.SHA256) != 64 {
		t.Errorf("digests = %q / %q, want 32- and 64-char hex", m.TargetsTar.MD5, m.TargetsTar.SHA256)
	}
	if m.Notes.NRowsTargets != 2 || m.Notes.NRowsSplit != 1 {
		t.Errorf("notes rows = %d/%d", m.Notes.NRowsTargets, m.Notes.NRowsSplit)
	}
	if len(m.Notes.TargetCols) != 1 || m.Notes.TargetCols[0] != "target_1" {
		t.Errorf("target cols = %v", m.Notes.TargetCols)
	}
	if m.Notes.MonDtype != "string" {
		t.Errorf("mon dtype = %q, want string", m.Notes.MonDtype)
	}
	if m.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestBuildManifest_MissingArchiveTolerated(t *testing.T) {
	targets := assay.NewTable()
	split := assay.NewTable()

	m := BuildManifest("/does/not/exist.tar.gz", "/also/missing.tar.gz", nil, targets, split)
	if m.TargetsTar.Path == "" {
		t.Error("path should be recorded even when the archive is missing")
	}
	if m.TargetsTar.MD5 != "" || m.TargetsTar.SizeBytes != 0 {
		t.Error("identity fields should stay zeroed for a missing archive")
	}
	// No mon column, no targets: notes degrade but exist.
	if m.Notes.MonDtype != "" || len(m.Notes.TargetCols) != 0 {
		t.Errorf("notes = %+v, want degraded", m.Notes)
	}
}

func TestManifest_Write(t *testing.T) {
	dir := t.TempDir()
	targets := assay.NewTable()
	split := assay.NewTable()
	m := BuildManifest("x", "y", map[string]string{}, targets, split)

	path, err := m.Write(dir)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed Manifest
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if !parsed.CreatedAt.Equal(m.CreatedAt) {
		t.Errorf("created_at = %v, want %v", parsed.CreatedAt, m.CreatedAt)
	}
}
