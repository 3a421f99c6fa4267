package entity

import "testing"

// TestReconcileInvariant checks that inspected == passed + failed holds
// after any single-field edit and nothing goes negative
func TestReconcileInvariant(t *testing.T) {
	fields := []QuantityField{QuantityInspected, QuantityPassed, QuantityFailed}
	states := []Quantities{
		{},
		{Inspected: 100, Passed: 100, Failed: 0},
		{Inspected: 50, Passed: 30, Failed: 20},
		{Inspected: 10, Passed: 0, Failed: 10},
	}
	values := []float64{-5, 0, 3, 10, 50, 99, 100, 250}

	for _, state := range states {
		for _, field := range fields {
			for _, value := range values {
				next := ReconcileQuantities(state, field, value)
				if next.Inspected != next.Passed+next.Failed {
					t.Fatalf("invariant broken: edit %s=%v on %+v gave %+v", field, value, state, next)
				}
				if next.Inspected < 0 || next.Passed < 0 || next.Failed < 0 {
					t.Fatalf("negative quantity: edit %s=%v on %+v gave %+v", field, value, state, next)
				}
			}
		}
	}
}

func TestReconcileEditFailed(t *testing.T) {
	q := Quantities{Inspected: 100, Passed: 100, Failed: 0}
	next := ReconcileQuantities(q, QuantityFailed, 10)
	if next.Passed != 90 {
		t.Fatalf("expected passed 90, got %v", next.Passed)
	}
	if next.Inspected != 100 || next.Failed != 10 {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestReconcileEditInspected(t *testing.T) {
	q := Quantities{Inspected: 50, Passed: 30, Failed: 20}
	next := ReconcileQuantities(q, QuantityInspected, 25)
	// failed held constant, passed recomputed
	if next.Passed != 5 || next.Failed != 20 {
		t.Fatalf("unexpected state %+v", next)
	}

	// shrinking below failed clamps passed at zero
	next = ReconcileQuantities(q, QuantityInspected, 10)
	if next.Passed != 0 || next.Failed != 10 {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestReconcileEditPassed(t *testing.T) {
	q := Quantities{Inspected: 100, Passed: 0, Failed: 100}
	next := ReconcileQuantities(q, QuantityPassed, 40)
	if next.Failed != 60 || next.Passed != 40 {
		t.Fatalf("unexpected state %+v", next)
	}

	// passed above inspected is pulled back by the invariant
	next = ReconcileQuantities(q, QuantityPassed, 150)
	if next.Inspected != next.Passed+next.Failed {
		t.Fatalf("invariant broken %+v", next)
	}
}

func TestReconcileNegativeValueClamped(t *testing.T) {
	q := Quantities{Inspected: 10, Passed: 10}
	next := ReconcileQuantities(q, QuantityFailed, -3)
	if next.Failed != 0 || next.Passed != 10 {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestRates(t *testing.T) {
	q := Quantities{Inspected: 3, Passed: 2, Failed: 1}
	if got := q.PassRate(); got != 66.7 {
		t.Fatalf("expected pass rate 66.7, got %v", got)
	}
	if got := q.DefectRate(); got != 33.3 {
		t.Fatalf("expected defect rate 33.3, got %v", got)
	}

	empty := Quantities{}
	if empty.PassRate() != 0 || empty.DefectRate() != 0 {
		t.Fatal("expected zero rates when nothing inspected")
	}
}

func TestStageItems(t *testing.T) {
	items := []CheckItem{
		{ID: "a", Stage: "Lắp Ráp Mộc"},
		{ID: "b", Stage: "Sơn"},
		{ID: "c", Stage: ""},
	}
	kept := StageItems(items, "Lắp Ráp Mộc")
	if len(kept) != 2 {
		t.Fatalf("expected 2 items, got %d", len(kept))
	}
	if kept[0].ID != "a" || kept[1].ID != "c" {
		t.Fatalf("unexpected items %+v", kept)
	}
}

func TestHasIssues(t *testing.T) {
	allPass := []CheckItem{{Status: CheckStatusPass}, {Status: CheckStatusPending}}
	if HasIssues(allPass) {
		t.Fatal("expected no issues")
	}
	if !HasIssues([]CheckItem{{Status: CheckStatusPass}, {Status: CheckStatusFail}}) {
		t.Fatal("expected FAIL to count as issue")
	}
	if !HasIssues([]CheckItem{{Status: CheckStatusConditional}}) {
		t.Fatal("expected CONDITIONAL to count as issue")
	}
}

func TestComputeScore(t *testing.T) {
	// quantities take precedence
	got := ComputeScore(Quantities{Inspected: 100, Passed: 90, Failed: 10}, nil)
	if got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}

	// fall back to item share
	items := []CheckItem{
		{Status: CheckStatusPass},
		{Status: CheckStatusPass},
		{Status: CheckStatusFail},
		{Status: CheckStatusPending},
	}
	got = ComputeScore(Quantities{}, items)
	if got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}

	if ComputeScore(Quantities{}, nil) != 0 {
		t.Fatal("expected 0 with no data")
	}
}
