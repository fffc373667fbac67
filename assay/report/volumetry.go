package report

import (
	"path/filepath"

	"github.com/justapithecus/assay/assay"
)

// VolumetryReport consolidates row-count breakdowns across the targets and
// client-split tables. Every sub-metric is optional: when its required
// columns are absent from the input it is omitted, not failed.
type VolumetryReport struct {
	// NClientsTotal is the distinct client count in the split table.
	// Requires client_id.
	NClientsTotal *int `json:"n_clients_total,omitempty"`

	// ClientsPerFold maps fold to distinct client count.
	// Requires client_id and fold.
	ClientsPerFold map[string]int `json:"clients_per_fold,omitempty"`

	// NRowsTargets is the total row count of the targets table.
	NRowsTargets int `json:"n_rows_targets"`

	// RowsPerMonth maps month to targets row count. Requires mon.
	RowsPerMonth map[string]int `json:"rows_per_month,omitempty"`

	// RowsPerMonthFold maps "month|fold" to targets row count.
	// Requires mon and fold.
	RowsPerMonthFold map[string]int `json:"rows_per_month_fold,omitempty"`
}

// Volumetry computes the consolidated volumetric report.
func Volumetry(targets, split *assay.Table) VolumetryReport {
	var rep VolumetryReport

	if clientCol, ok := split.Column(ColClientID); ok {
		n := clientCol.DistinctCount()
		rep.NClientsTotal = &n

		if foldCol, ok := split.Column(ColFold); ok {
			rep.ClientsPerFold = distinctPerGroup(foldCol, clientCol)
		}
	}

	rep.NRowsTargets = targets.NumRows()

	monCol, hasMon := targets.Column(ColMonth)
	if hasMon {
		groups, _ := groupRows(monCol)
		rep.RowsPerMonth = make(map[string]int, len(groups))
		for k, rows := range groups {
			rep.RowsPerMonth[k] = len(rows)
		}
	}

	if foldCol, hasFold := targets.Column(ColFold); hasMon && hasFold {
		rep.RowsPerMonthFold = make(map[string]int)
		for i := 0; i < targets.NumRows(); i++ {
			m, f := monCol.Value(i), foldCol.Value(i)
			if m == nil || f == nil {
				continue
			}
			rep.RowsPerMonthFold[groupKey(m)+"|"+groupKey(f)]++
		}
	}

	return rep
}

// distinctPerGroup counts distinct values of the counted column within each
// group of the grouping column.
func distinctPerGroup(groupCol, counted *assay.Column) map[string]int {
	groups, _ := groupRows(groupCol)
	out := make(map[string]int, len(groups))
	for k, rows := range groups {
		seen := make(map[string]struct{})
		for _, i := range rows {
			if v := counted.Value(i); v != nil {
				seen[groupKey(v)] = struct{}{}
			}
		}
		out[k] = len(seen)
	}
	return out
}

// Write persists the report as volumetry.json under reportsDir.
func (r VolumetryReport) Write(reportsDir string) (string, error) {
	path := filepath.Join(reportsDir, "volumetry.json")
	if err := writeJSON(r, path); err != nil {
		return "", err
	}
	return path, nil
}
