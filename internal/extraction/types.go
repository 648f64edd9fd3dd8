package extraction

import "strings"

// MetadataField is one leaf metadata attribute. A nil Value means
// "not found / not confidently extractable". Values are always plain
// strings, even for numeric fields.
type MetadataField struct {
	Title string  `json:"title"`
	Value *string `json:"value"`
}

// MetadataDocument is the fixed-schema output of one extraction run.
// The field sets are closed: both slices always carry exactly the
// default titles, in order.
type MetadataDocument struct {
	Dates  []MetadataField `json:"dates"`
	Others []MetadataField `json:"others"`
}

// QuestionSpec pairs a natural-language question with its instruction
// prompt and names the metadata key the answer populates.
type QuestionSpec struct {
	Key         string
	Question    string
	Instruction string
	FirstPage   bool // restrict retrieval to page 1 (title/parties style)
}

// FieldResult is the flattened outcome of one extraction task: the
// key/value pairs parsed from one LLM response. An empty map marks a
// failed or empty task.
type FieldResult map[string]string

// Fixed date field titles, in schema order.
var defaultDateTitles = []string{
	"Effective Date",
	"Term Date",
	"Payment Due Date",
	"Delivery Date",
	"Termination Date",
	"Renewal Date",
	"Expiration Date",
}

// Fixed non-date field titles, in schema order.
var defaultOtherTitles = []string{
	"Title of the Contract",
	"Scope of Work",
	"Parties Involved",
	"Contract Type",
	"File Type",
	"Jurisdiction",
	"Version Control",
	"Contract Duration",
	"Contract Value",
	"Risk Mitigation Score",
	"Has Recurring Payment",
}

const fileTypeContract = "Contract"

// NewMetadataDocument returns a fresh document with every field at its
// default: nil everywhere except the constant File Type.
func NewMetadataDocument() MetadataDocument {
	dates := make([]MetadataField, len(defaultDateTitles))
	for i, t := range defaultDateTitles {
		dates[i] = MetadataField{Title: t}
	}
	others := make([]MetadataField, len(defaultOtherTitles))
	for i, t := range defaultOtherTitles {
		others[i] = MetadataField{Title: t}
		if t == "File Type" {
			v := fileTypeContract
			others[i].Value = &v
		}
	}
	return MetadataDocument{Dates: dates, Others: others}
}

// Field returns a pointer to the named field in the document, matching
// titles case-insensitively after trimming, or nil if the key is not
// part of the schema.
func (d *MetadataDocument) Field(title string) *MetadataField {
	want := strings.ToLower(strings.TrimSpace(title))
	for i := range d.Dates {
		if strings.ToLower(strings.TrimSpace(d.Dates[i].Title)) == want {
			return &d.Dates[i]
		}
	}
	for i := range d.Others {
		if strings.ToLower(strings.TrimSpace(d.Others[i].Title)) == want {
			return &d.Others[i]
		}
	}
	return nil
}

// normalizeValue maps the literal string "null" (any case, surrounding
// whitespace ignored) and empty strings to nil at the LLM boundary.
func normalizeValue(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}
