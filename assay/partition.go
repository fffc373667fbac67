package assay

import (
	"regexp"
	"strconv"
	"strings"
)

// canonicalInt matches values promoted from string to int64 during
// descriptor recovery. Leading zeros ("007") and signed values do not
// match and stay strings: a pure-digit test cannot round-trip them, so
// they are deliberately not guessed at.
var canonicalInt = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// Descriptor maps partition-key names to scalar values recovered from an
// archive member path. Values are int64 when the path segment held a
// canonical base-10 integer, otherwise string.
type Descriptor map[string]any

// ParseDescriptor extracts key=value path segments from an archive member
// path, keeping only keys listed in expectedKeys. A path like
// "targets/fold=3/part-0.parquet" with expectedKeys ("fold") yields
// {fold: int64(3)}.
func ParseDescriptor(memberPath string, expectedKeys []string) Descriptor {
	expected := make(map[string]struct{}, len(expectedKeys))
	for _, k := range expectedKeys {
		expected[k] = struct{}{}
	}

	d := make(Descriptor)
	for _, seg := range strings.Split(memberPath, "/") {
		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		if _, want := expected[k]; !want {
			continue
		}
		if canonicalInt.MatchString(v) {
			n, err := strconv.ParseInt(v, 10, 64)
			if err == nil {
				d[k] = n
				continue
			}
		}
		d[k] = v
	}
	return d
}

// Filter restricts which partitions are read: for every key present in both
// a member's Descriptor and the filter, the descriptor value must be one of
// the allowed values. Keys absent from a descriptor never exclude the
// member (open-world semantics).
type Filter map[string][]any

// Allows reports whether the descriptor passes the filter.
func (f Filter) Allows(d Descriptor) bool {
	for k, allowed := range f {
		got, ok := d[k]
		if !ok {
			continue
		}
		if !containsScalar(allowed, got) {
			return false
		}
	}
	return true
}

// containsScalar tests set membership after normalizing integer widths, so
// a filter written with untyped int literals matches int64 descriptor values.
func containsScalar(set []any, v any) bool {
	nv := normalizeScalar(v)
	for _, a := range set {
		if normalizeScalar(a) == nv {
			return true
		}
	}
	return false
}

func normalizeScalar(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	default:
		return v
	}
}
