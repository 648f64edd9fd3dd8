package extraction

import "testing"

func TestNewMetadataDocumentDefaults(t *testing.T) {
	doc := NewMetadataDocument()
	if len(doc.Dates) != 7 {
		t.Fatalf("expected 7 date fields, got %d", len(doc.Dates))
	}
	if len(doc.Others) != 11 {
		t.Fatalf("expected 11 other fields, got %d", len(doc.Others))
	}
	for _, f := range doc.Dates {
		if f.Value != nil {
			t.Fatalf("date field %q should default to nil", f.Title)
		}
	}
	for _, f := range doc.Others {
		if f.Title == "File Type" {
			if f.Value == nil || *f.Value != "Contract" {
				t.Fatalf("File Type should default to Contract")
			}
			continue
		}
		if f.Value != nil {
			t.Fatalf("field %q should default to nil", f.Title)
		}
	}
}

func TestFieldLookupIsCaseInsensitive(t *testing.T) {
	doc := NewMetadataDocument()
	for _, title := range []string{"effective date", "EFFECTIVE DATE", "  Effective Date  "} {
		if doc.Field(title) == nil {
			t.Fatalf("lookup failed for %q", title)
		}
	}
	if doc.Field("Not A Field") != nil {
		t.Fatalf("expected nil for unknown title")
	}
}

func TestNormalizeValue(t *testing.T) {
	for _, raw := range []string{"", "null", "NULL", " Null ", "  "} {
		if v := normalizeValue(raw); v != nil {
			t.Fatalf("expected nil for %q, got %q", raw, *v)
		}
	}
	if v := normalizeValue(" 2024-01-01 "); v == nil || *v != "2024-01-01" {
		t.Fatalf("expected trimmed value, got %v", v)
	}
}
