package report

import (
	"strings"

	"github.com/justapithecus/assay/assay"
)

// targetPrefix marks binary target indicator columns in the targets table.
const targetPrefix = "target_"

// TargetColumns returns the recognized target indicator columns of a
// table, in table order.
func TargetColumns(t *assay.Table) []string {
	var cols []string
	for _, name := range t.ColumnNames() {
		if strings.HasPrefix(name, targetPrefix) {
			cols = append(cols, name)
		}
	}
	return cols
}

// Prevalence computes the positive-class fraction of every recognized
// target column, globally ("ALL"), per month ("mon=<m>") and per fold
// ("fold=<f>"). The result has one row per group, a leading "group"
// column, and one float column per target. Month and fold breakdowns are
// omitted when their columns are absent. Returns an empty table when the
// input has no recognized target columns.
func Prevalence(targets *assay.Table) *assay.Table {
	targetCols := TargetColumns(targets)
	if len(targetCols) == 0 {
		return assay.NewTable()
	}

	allRows := make([]int, targets.NumRows())
	for i := range allRows {
		allRows[i] = i
	}

	labels := []string{"ALL"}
	rowSets := [][]int{allRows}

	if monCol, ok := targets.Column(ColMonth); ok {
		groups, keys := groupRows(monCol)
		for _, k := range keys {
			labels = append(labels, "mon="+k)
			rowSets = append(rowSets, groups[k])
		}
	}
	if foldCol, ok := targets.Column(ColFold); ok {
		groups, keys := groupRows(foldCol)
		for _, k := range keys {
			labels = append(labels, "fold="+k)
			rowSets = append(rowSets, groups[k])
		}
	}

	out := assay.NewTable()
	groupCells := make([]any, len(labels))
	for i, l := range labels {
		groupCells[i] = l
	}
	_ = out.AddColumn("group", assay.KindString, groupCells)

	for _, target := range targetCols {
		c, _ := targets.Column(target)
		cells := make([]any, len(rowSets))
		for i, rows := range rowSets {
			cells[i] = positiveFraction(c, rows)
		}
		_ = out.AddColumn(target, assay.KindFloat, cells)
	}
	return out
}

// positiveFraction is the mean of a binary indicator over the given rows,
// skipping nulls. Returns nil when every cell in the group is null.
func positiveFraction(c *assay.Column, rows []int) any {
	positives, total := 0, 0
	for _, i := range rows {
		v := c.Value(i)
		if v == nil {
			continue
		}
		total++
		if isPositive(v) {
			positives++
		}
	}
	if total == 0 {
		return nil
	}
	return float64(positives) / float64(total)
}

func isPositive(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return false
	}
}
