package assay

import "time"

// monthLayouts are the accepted input forms for date-like month columns,
// tried in order.
var monthLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NormalizeMonth rewrites a date-like column to "YYYY-MM" strings, the
// canonical month-period form used by the volumetry and prevalence reports.
// time.Time cells format directly; string cells are parsed against a small
// set of layouts. Cells that cannot be interpreted become nulls.
//
// Returns the number of previously non-null cells that became null, so
// callers can warn about lossy conversions, and false if the column is
// absent (the table is left untouched).
func NormalizeMonth(t *Table, col string) (coerced int, ok bool) {
	c, found := t.Column(col)
	if !found {
		return 0, false
	}

	for i, v := range c.cells {
		switch x := v.(type) {
		case nil:
			// already null
		case time.Time:
			c.cells[i] = x.UTC().Format("2006-01")
		case string:
			if m, err := parseMonth(x); err == nil {
				c.cells[i] = m
			} else {
				c.cells[i] = nil
				coerced++
			}
		default:
			c.cells[i] = nil
			coerced++
		}
	}
	c.kind = KindString
	return coerced, true
}

func parseMonth(s string) (string, error) {
	var lastErr error
	for _, layout := range monthLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format("2006-01"), nil
		}
		lastErr = err
	}
	return "", lastErr
}
