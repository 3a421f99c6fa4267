package entity

import "testing"

func TestInstantiateChecklist(t *testing.T) {
	tpl := []ChecklistTemplateItem{
		{ID: "tpl-1", Stage: "Lắp Ráp Mộc", Category: "Khung", Label: "Kiểm tra mối ghép", Standard: "Không hở"},
		{ID: "tpl-2", Stage: "Sơn", Category: "Bề mặt", Label: "Kiểm tra màu sơn"},
		{ID: "tpl-3", Stage: "", Category: "Chung", Label: "Kiểm tra tem nhãn"},
	}

	items := InstantiateChecklist(tpl, "Lắp Ráp Mộc")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	for _, item := range items {
		// fresh working-copy ids, never the template ids
		if item.ID == "tpl-1" || item.ID == "tpl-2" || item.ID == "tpl-3" || item.ID == "" {
			t.Fatalf("expected a minted id, got %q", item.ID)
		}
		if item.Status != CheckStatusPending {
			t.Fatalf("expected PENDING, got %s", item.Status)
		}
		if item.Notes != "" {
			t.Fatalf("expected empty notes, got %q", item.Notes)
		}
		if item.Images == nil || len(item.Images) != 0 {
			t.Fatalf("expected empty image list, got %v", item.Images)
		}
	}

	if items[0].Label != "Kiểm tra mối ghép" || items[0].Standard != "Không hở" {
		t.Fatalf("template fields not copied: %+v", items[0])
	}
	// stage-less template rows apply to every stage
	if items[1].Label != "Kiểm tra tem nhãn" {
		t.Fatalf("expected the stage-less item, got %+v", items[1])
	}
}

func TestInstantiateChecklistEmptyTemplate(t *testing.T) {
	items := InstantiateChecklist(nil, "Sơn")
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty checklist, got %v", items)
	}
}

func TestNCRTransitions(t *testing.T) {
	cases := []struct {
		from, to NCRStatus
		ok       bool
	}{
		{NCRStatusOpen, NCRStatusInProgress, true},
		{NCRStatusInProgress, NCRStatusResolved, true},
		{NCRStatusResolved, NCRStatusClosed, true},
		{NCRStatusOpen, NCRStatusClosed, false},
		{NCRStatusOpen, NCRStatusResolved, false},
		{NCRStatusClosed, NCRStatusOpen, false},
		{NCRStatusResolved, NCRStatusInProgress, false},
	}
	for _, c := range cases {
		if got := CanTransitionNCR(c.from, c.to); got != c.ok {
			t.Fatalf("transition %s -> %s: expected %v, got %v", c.from, c.to, c.ok, got)
		}
	}
}
