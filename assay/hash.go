package assay

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// hashChunkSize bounds per-read memory while hashing, regardless of file size.
const hashChunkSize = 1 << 20 // 1 MiB

// HashFile computes the hex digest of a file using the named algorithm
// ("md5" or "sha256"), reading in fixed-size chunks. Useful for manifests.
func HashFile(path, algo string) (string, error) {
	var h hash.Hash
	switch algo {
	case "md5":
		h = md5.New()
	case "sha256":
		h = sha256.New()
	default:
		return "", fmt.Errorf("assay: %q: %w", algo, ErrUnknownAlgorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("assay: hash %s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("assay: hash %s: %w", path, err)
	}
	defer closer(f)()

	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("assay: hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
