package extract

import "testing"

func TestReconcileCarryForward(t *testing.T) {
	stored := map[string]any{"company_name": "Acme Corp"}
	candidate := map[string]any{"company_name": "N/A"}

	snapshot := Reconcile(candidate, stored)

	if candidate["company_name"] != "Acme Corp" {
		t.Errorf("got %v, want carried-forward Acme Corp", candidate["company_name"])
	}
	if snapshot["company_name"] != "Acme Corp" {
		t.Errorf("snapshot got %v, want Acme Corp", snapshot["company_name"])
	}
}

func TestReconcileOverridePrecedence(t *testing.T) {
	stored := map[string]any{"company_name": "Acme Corp"}
	candidate := map[string]any{"company_name": "NewCo"}

	snapshot := Reconcile(candidate, stored)

	if candidate["company_name"] != "NewCo" {
		t.Errorf("got %v, want NewCo", candidate["company_name"])
	}
	if snapshot["company_name"] != "NewCo" {
		t.Errorf("snapshot got %v, want NewCo", snapshot["company_name"])
	}
}

func TestReconcileMonotonicNonRegression(t *testing.T) {
	// A field once known survives any sequence of turns that don't supply a
	// new known value for it: absent, blank, and sentinel candidates all
	// carry the stored value forward.
	stored := map[string]any{"business_domain": "fintech"}

	for _, candidate := range []map[string]any{
		{},
		{"business_domain": ""},
		{"business_domain": "   "},
		{"business_domain": "N/A"},
		{"business_domain": " n/a "},
	} {
		snapshot := Reconcile(candidate, stored)
		if candidate["business_domain"] != "fintech" {
			t.Errorf("candidate %v: got %v, want fintech carried forward", candidate, candidate["business_domain"])
		}
		if snapshot["business_domain"] != "fintech" {
			t.Errorf("snapshot regressed to %v", snapshot["business_domain"])
		}
		stored = snapshot
	}

	// The only way a known field changes is an explicit new known value.
	candidate := map[string]any{"business_domain": "insurtech"}
	snapshot := Reconcile(candidate, stored)
	if snapshot["business_domain"] != "insurtech" {
		t.Errorf("got %v, want explicit override to insurtech", snapshot["business_domain"])
	}
}

func TestReconcileListValues(t *testing.T) {
	stored := map[string]any{"urls": []any{"https://acme.example"}}
	candidate := map[string]any{"urls": []any{}}

	Reconcile(candidate, stored)

	urls, ok := candidate["urls"].([]any)
	if !ok || len(urls) != 1 || urls[0] != "https://acme.example" {
		t.Errorf("got %v, want carried-forward url list", candidate["urls"])
	}
}

func TestReconcileExtraFieldsNotSnapshotted(t *testing.T) {
	candidate := map[string]any{
		"company_name": "Acme Corp",
		"CEO":          "Jane Doe",
	}

	snapshot := Reconcile(candidate, map[string]any{})

	if _, ok := snapshot["CEO"]; ok {
		t.Error("non-schema field must not be persisted in the snapshot")
	}
	if candidate["CEO"] != "Jane Doe" {
		t.Error("non-schema field must survive in this turn's candidate")
	}
}

func TestReconcileEmptyStored(t *testing.T) {
	candidate := map[string]any{
		"company_name":     "N/A",
		"business_domain":  "fintech",
		"region_or_market": "Morocco",
	}

	snapshot := Reconcile(candidate, map[string]any{})

	if candidate["company_name"] != "N/A" {
		t.Errorf("unknown value with no stored fallback must stay as-is, got %v", candidate["company_name"])
	}
	if snapshot["business_domain"] != "fintech" {
		t.Errorf("snapshot got %v, want fintech", snapshot["business_domain"])
	}
	if _, ok := snapshot["company_name"]; ok {
		t.Error("unknown values must not enter the snapshot")
	}
}
