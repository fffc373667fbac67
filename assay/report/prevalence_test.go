package report

import (
	"testing"

	"github.com/justapithecus/assay/assay"
)

func mustAdd(t *testing.T, tbl *assay.Table, name string, kind assay.Kind, cells []any) {
	t.Helper()
	if err := tbl.AddColumn(name, kind, cells); err != nil {
		t.Fatal(err)
	}
}

func TestPrevalence_AllGroup(t *testing.T) {
	targets := assay.NewTable()
	mustAdd(t, targets, "target_1", assay.KindInt, []any{int64(1), int64(0), int64(1), int64(0)})

	prev := Prevalence(targets)
	if prev.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1 (ALL only)", prev.NumRows())
	}
	if got := prev.Value(0, "group"); got != "ALL" {
		t.Errorf("group[0] = %v, want ALL", got)
	}
	if got := prev.Value(0, "target_1"); got != 0.5 {
		t.Errorf("target_1[ALL] = %v, want 0.5", got)
	}
}

func TestPrevalence_MonthAndFoldGroups(t *testing.T) {
	targets := assay.NewTable()
	mustAdd(t, targets, "target_1", assay.KindInt, []any{int64(1), int64(0), int64(1), int64(1)})
	mustAdd(t, targets, "mon", assay.KindString, []any{"2024-01", "2024-01", "2024-02", "2024-02"})
	mustAdd(t, targets, "fold", assay.KindInt, []any{int64(0), int64(0), int64(1), int64(1)})

	prev := Prevalence(targets)
	// ALL + 2 months + 2 folds.
	if prev.NumRows() != 5 {
		t.Fatalf("rows = %d, want 5", prev.NumRows())
	}

	byGroup := make(map[string]any)
	for i := 0; i < prev.NumRows(); i++ {
		byGroup[prev.Value(i, "group").(string)] = prev.Value(i, "target_1")
	}
	if byGroup["ALL"] != 0.75 {
		t.Errorf("ALL = %v, want 0.75", byGroup["ALL"])
	}
	if byGroup["mon=2024-01"] != 0.5 {
		t.Errorf("mon=2024-01 = %v, want 0.5", byGroup["mon=2024-01"])
	}
	if byGroup["mon=2024-02"] != 1.0 {
		t.Errorf("mon=2024-02 = %v, want 1.0", byGroup["mon=2024-02"])
	}
	if byGroup["fold=0"] != 0.5 {
		t.Errorf("fold=0 = %v, want 0.5", byGroup["fold=0"])
	}
	if byGroup["fold=1"] != 1.0 {
		t.Errorf("fold=1 = %v, want 1.0", byGroup["fold=1"])
	}
}

func TestPrevalence_SkipsNulls(t *testing.T) {
	targets := assay.NewTable()
	mustAdd(t, targets, "target_2", assay.KindInt, []any{int64(1), nil, int64(0), nil})

	prev := Prevalence(targets)
	if got := prev.Value(0, "target_2"); got != 0.5 {
		t.Errorf("target_2[ALL] = %v, want 0.5 over non-null cells", got)
	}
}

func TestPrevalence_NoTargetColumns(t *testing.T) {
	targets := assay.NewTable()
	mustAdd(t, targets, "x", assay.KindInt, []any{int64(1)})

	prev := Prevalence(targets)
	if prev.NumRows() != 0 || prev.NumCols() != 0 {
		t.Errorf("got %d rows, %d cols, want empty table", prev.NumRows(), prev.NumCols())
	}
}

func TestPrevalence_MultipleTargets(t *testing.T) {
	targets := assay.NewTable()
	mustAdd(t, targets, "target_1", assay.KindInt, []any{int64(1), int64(1)})
	mustAdd(t, targets, "target_2", assay.KindInt, []any{int64(0), int64(1)})

	prev := Prevalence(targets)
	if prev.Value(0, "target_1") != 1.0 {
		t.Errorf("target_1 = %v, want 1.0", prev.Value(0, "target_1"))
	}
	if prev.Value(0, "target_2") != 0.5 {
		t.Errorf("target_2 = %v, want 0.5", prev.Value(0, "target_2"))
	}
}

func TestBaseline_CopiesPrevalence(t *testing.T) {
	targets := assay.NewTable()
	mustAdd(t, targets, "target_1", assay.KindInt, []any{int64(1), int64(0)})
	prev := Prevalence(targets)

	base := Baseline(prev)
	if base.NumRows() != prev.NumRows() {
		t.Fatalf("rows = %d, want %d", base.NumRows(), prev.NumRows())
	}
	if base.Value(0, "target_1") != prev.Value(0, "target_1") {
		t.Error("baseline should equal prevalence")
	}
}

func TestBaseline_EmptyAndNil(t *testing.T) {
	if got := Baseline(nil); got.NumRows() != 0 {
		t.Errorf("Baseline(nil) rows = %d, want 0", got.NumRows())
	}
	if got := Baseline(assay.NewTable()); got.NumRows() != 0 {
		t.Errorf("Baseline(empty) rows = %d, want 0", got.NumRows())
	}
}
