// Package report builds descriptive reports over assay Tables: schema
// summaries, volumetric breakdowns, class-prevalence tables, a trivial
// ranking baseline, and a cross-validation leakage check.
//
// Reports degrade gracefully: a sub-metric whose required columns are
// absent is omitted rather than failing the run. Missing columns are a
// data-quality observation, not a programming error.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/justapithecus/assay/assay"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Well-known column names in the targets and client-split datasets.
const (
	ColClientID = "client_id"
	ColFold     = "fold"
	ColMonth    = "mon"
)

// groupKey produces the grouping identity of a cell. Grouping happens on
// printed form so that, for example, int64 folds group with themselves
// regardless of how a partition encoded them.
func groupKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format("2006-01")
	default:
		return fmt.Sprint(x)
	}
}

// groupRows maps each distinct non-null value of a column to the row
// indexes holding it. The second return lists the group keys sorted.
func groupRows(c *assay.Column) (map[string][]int, []string) {
	groups := make(map[string][]int)
	for i := 0; i < c.Len(); i++ {
		v := c.Value(i)
		if v == nil {
			continue
		}
		k := groupKey(v)
		groups[k] = append(groups[k], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys
}

// writeJSON marshals v with indentation to path, creating parent
// directories as needed.
func writeJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
