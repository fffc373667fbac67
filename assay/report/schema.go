package report

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/justapithecus/assay/assay"
)

// SchemaReport summarizes the shape of a loaded table: row and column
// counts, per-column declared types, null counts, distinct-value counts,
// and a rough deep memory estimate.
type SchemaReport struct {
	Name     string            `json:"name"`
	NRows    int               `json:"n_rows"`
	NCols    int               `json:"n_cols"`
	Dtypes   map[string]string `json:"dtypes"`
	Nulls    map[string]int    `json:"nulls"`
	NUnique  map[string]int    `json:"nunique"`
	MemBytes int64             `json:"mem_bytes"`
	MemHuman string            `json:"mem_human"`
}

// Describe builds a SchemaReport for the table under the given name.
func Describe(t *assay.Table, name string) SchemaReport {
	rep := SchemaReport{
		Name:    name,
		NRows:   t.NumRows(),
		NCols:   t.NumCols(),
		Dtypes:  make(map[string]string, t.NumCols()),
		Nulls:   make(map[string]int, t.NumCols()),
		NUnique: make(map[string]int, t.NumCols()),
	}
	for _, colName := range t.ColumnNames() {
		c, _ := t.Column(colName)
		rep.Dtypes[colName] = c.Kind().String()
		rep.Nulls[colName] = c.NullCount()
		rep.NUnique[colName] = c.DistinctCount()
	}
	rep.MemBytes = t.MemoryEstimate()
	rep.MemHuman = humanize.IBytes(uint64(rep.MemBytes))
	return rep
}

// Write persists the report as schema_<name>.json under reportsDir and
// returns the written path.
func (r SchemaReport) Write(reportsDir string) (string, error) {
	path := filepath.Join(reportsDir, fmt.Sprintf("schema_%s.json", r.Name))
	if err := writeJSON(r, path); err != nil {
		return "", fmt.Errorf("report: write schema %s: %w", r.Name, err)
	}
	return path, nil
}
