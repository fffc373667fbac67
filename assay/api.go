// Package assay provides exploratory analysis of partitioned tabular
// datasets shipped as compressed tar archives.
//
// Assay focuses on loading: it opens a .tar.gz archive, discovers Parquet
// members under a path prefix, reconstructs Hive-style key=value partition
// metadata from member paths, and concatenates the decoded partitions into a
// single in-memory Table. Descriptive reporting over the loaded table lives
// in the report subpackage.
package assay

import "errors"

// -----------------------------------------------------------------------------
// Kinds
// -----------------------------------------------------------------------------

// Kind enumerates the cell types a Table column can declare.
type Kind int

// Column kinds. KindInvalid marks a column whose type could not be
// determined (for example a column that holds only nulls).
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindTime
	kindMax // sentinel for validation
)

// String returns the dtype-style name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "timestamp"
	default:
		return "invalid"
	}
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// Error sentinel values for common conditions.
var (
	// ErrNotFound indicates a required input path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoMatch indicates no archive member survived prefix, extension,
	// and partition-filter narrowing.
	ErrNoMatch = errors.New("no matching members")

	// ErrDecode indicates an archive member is not valid columnar data.
	ErrDecode = errors.New("decode failed")

	// ErrUnknownAlgorithm indicates an unsupported hash algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

	// ErrColumnExists indicates an attempt to add a column that is
	// already present in the table.
	ErrColumnExists = errors.New("column exists")

	// ErrLengthMismatch indicates a column whose cell count differs from
	// the table's row count.
	ErrLengthMismatch = errors.New("column length mismatch")
)
