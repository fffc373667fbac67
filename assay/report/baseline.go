package report

import "github.com/justapithecus/assay/assay"

// Baseline derives the random-ranking AUPRC baseline from a prevalence
// table. For a random ranking the expected AUPRC of a binary target equals
// the prevalence of its positive class, so the baseline is an identity copy.
// A nil or empty prevalence table yields an empty baseline.
func Baseline(prevalence *assay.Table) *assay.Table {
	if prevalence == nil || prevalence.NumRows() == 0 {
		return assay.NewTable()
	}
	return prevalence.Clone()
}
