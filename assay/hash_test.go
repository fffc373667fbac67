package assay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHashFile_MD5(t *testing.T) {
	path := writeTempFile(t, "abc")
	got, err := HashFile(path, "md5")
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if want := "900150983cd24fb0d6963f7d28e17f72"; got != want {
		t.Errorf("md5 = %s, want %s", got, want)
	}
}

func TestHashFile_SHA256(t *testing.T) {
	path := writeTempFile(t, "abc")
	got, err := HashFile(path, "sha256")
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"; got != want {
		t.Errorf("sha256 = %s, want %s", got, want)
	}
}

func TestHashFile_UnknownAlgorithm(t *testing.T) {
	path := writeTempFile(t, "abc")
	_, err := HashFile(path, "crc32")
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got: %v", err)
	}
}

func TestHashFile_Missing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "nope"), "md5")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestHashFile_LargerThanChunk(t *testing.T) {
	// Exercise the chunked read path with a file bigger than one chunk.
	data := make([]byte, hashChunkSize+512)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "big.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := HashFile(path, "sha256")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashFile(path, "sha256")
	if err != nil {
		t.Fatal(err)
	}
	if first != second || len(first) != 64 {
		t.Errorf("digests = %s / %s, want equal 64-char hex", first, second)
	}
}
