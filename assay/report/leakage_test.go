package report

import (
	"testing"

	"github.com/justapithecus/assay/assay"
)

func TestFindLeaks_ClientInTwoFolds(t *testing.T) {
	split := assay.NewTable()
	mustAdd(t, split, ColClientID, assay.KindInt, []any{int64(1), int64(1), int64(2)})
	mustAdd(t, split, ColFold, assay.KindInt, []any{int64(0), int64(1), int64(0)})

	leaks := FindLeaks(split)
	if leaks.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1", leaks.NumRows())
	}
	if got := leaks.Value(0, ColClientID); got != int64(1) {
		t.Errorf("client_id = %v, want 1", got)
	}
	if got := leaks.Value(0, "n_folds"); got != int64(2) {
		t.Errorf("n_folds = %v, want 2", got)
	}
}

func TestFindLeaks_CleanSplit(t *testing.T) {
	split := assay.NewTable()
	mustAdd(t, split, ColClientID, assay.KindInt, []any{int64(1), int64(1), int64(2)})
	mustAdd(t, split, ColFold, assay.KindInt, []any{int64(0), int64(0), int64(1)})

	leaks := FindLeaks(split)
	if leaks.NumRows() != 0 {
		t.Errorf("rows = %d, want 0 for a clean split", leaks.NumRows())
	}
}

func TestFindLeaks_MissingColumnsDegrade(t *testing.T) {
	split := assay.NewTable()
	mustAdd(t, split, ColClientID, assay.KindInt, []any{int64(1)})

	leaks := FindLeaks(split)
	if leaks.NumRows() != 0 {
		t.Errorf("rows = %d, want 0 when fold column is absent", leaks.NumRows())
	}
}

func TestFindLeaks_NullFoldsIgnored(t *testing.T) {
	split := assay.NewTable()
	mustAdd(t, split, ColClientID, assay.KindInt, []any{int64(1), int64(1)})
	mustAdd(t, split, ColFold, assay.KindInt, []any{int64(0), nil})

	leaks := FindLeaks(split)
	if leaks.NumRows() != 0 {
		t.Errorf("rows = %d, want 0 (null fold is not a second assignment)", leaks.NumRows())
	}
}

func TestFindLeaks_SortedByClient(t *testing.T) {
	split := assay.NewTable()
	mustAdd(t, split, ColClientID, assay.KindString, []any{"b", "b", "a", "a"})
	mustAdd(t, split, ColFold, assay.KindInt, []any{int64(0), int64(1), int64(0), int64(2)})

	leaks := FindLeaks(split)
	if leaks.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", leaks.NumRows())
	}
	if leaks.Value(0, ColClientID) != "a" || leaks.Value(1, ColClientID) != "b" {
		t.Errorf("clients = %v, %v; want a, b",
			leaks.Value(0, ColClientID), leaks.Value(1, ColClientID))
	}
}
