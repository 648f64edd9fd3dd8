package extraction

import "testing"

func TestParseFieldResultPlainObject(t *testing.T) {
	result, err := ParseFieldResult(`{"Jurisdiction":"Texas"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["Jurisdiction"] != "Texas" {
		t.Fatalf("expected Texas, got %q", result["Jurisdiction"])
	}
}

func TestParseFieldResultStripsFences(t *testing.T) {
	for _, raw := range []string{
		"```json\n{\"Contract Type\":\"Lease\"}\n```",
		"```\n{\"Contract Type\":\"Lease\"}\n```",
		"```JSON\n{\"Contract Type\":\"Lease\"}```",
	} {
		result, err := ParseFieldResult(raw)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", raw, err)
		}
		if result["Contract Type"] != "Lease" {
			t.Fatalf("input %q: expected Lease, got %q", raw, result["Contract Type"])
		}
	}
}

func TestParseFieldResultExtractsFromProse(t *testing.T) {
	result, err := ParseFieldResult(`Here is the result: {"Contract Value":"5000"} as requested.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["Contract Value"] != "5000" {
		t.Fatalf("expected 5000, got %q", result["Contract Value"])
	}
}

func TestParseFieldResultScalarCoercion(t *testing.T) {
	result, err := ParseFieldResult(`{"flag": true, "Contract Value": 5000, "Renewal Date": null, "Score": 2.5}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["flag"] != "true" {
		t.Fatalf("expected bool true as string, got %q", result["flag"])
	}
	if result["Contract Value"] != "5000" {
		t.Fatalf("expected 5000, got %q", result["Contract Value"])
	}
	if result["Renewal Date"] != "null" {
		t.Fatalf("expected JSON null mapped to \"null\", got %q", result["Renewal Date"])
	}
	if result["Score"] != "2.5" {
		t.Fatalf("expected 2.5, got %q", result["Score"])
	}
}

func TestParseFieldResultRejectsGarbage(t *testing.T) {
	for _, raw := range []string{
		"no json here",
		`["a","b"]`,
		`{"nested": {"x": 1}}`,
	} {
		if _, err := ParseFieldResult(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
