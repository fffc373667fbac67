package report

import "github.com/justapithecus/assay/assay"

// FindLeaks returns the clients assigned to more than one distinct fold in
// a client-split table. A proper cross-validation split assigns each client
// to exactly one fold, so every returned row is a data-quality violation.
//
// The result has columns client_id and n_folds, sorted by client. Returns
// an empty table when client_id or fold is absent, or when no client leaks.
func FindLeaks(split *assay.Table) *assay.Table {
	clientCol, okClient := split.Column(ColClientID)
	foldCol, okFold := split.Column(ColFold)
	if !okClient || !okFold {
		return assay.NewTable()
	}

	groups, keys := groupRows(clientCol)

	var clients []any
	var foldCounts []any
	for _, k := range keys {
		rows := groups[k]
		folds := make(map[string]struct{})
		for _, i := range rows {
			if f := foldCol.Value(i); f != nil {
				folds[groupKey(f)] = struct{}{}
			}
		}
		if len(folds) > 1 {
			// Report the client's original cell value, not its group key.
			clients = append(clients, clientCol.Value(rows[0]))
			foldCounts = append(foldCounts, int64(len(folds)))
		}
	}

	out := assay.NewTable()
	if len(clients) == 0 {
		return out
	}
	_ = out.AddColumn(ColClientID, clientCol.Kind(), clients)
	_ = out.AddColumn("n_folds", assay.KindInt, foldCounts)
	return out
}
