package extraction

import "regexp"

// PatternClass selects one of the regex pre-filters applied to candidate
// sentences before LLM extraction.
type PatternClass int

const (
	PatternDate PatternClass = iota
	PatternJurisdiction
	PatternValue
)

func (p PatternClass) String() string {
	switch p {
	case PatternDate:
		return "date"
	case PatternJurisdiction:
		return "jurisdiction"
	case PatternValue:
		return "contract_value"
	default:
		return "unknown"
	}
}

// The pattern literals below are configuration data. They pre-filter
// sentences; precision comes from the LLM pass, so the patterns favour
// recall over exactness.

const monthNames = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var datePattern = regexp.MustCompile(`(?i)\b(` +
	// field-labelled dates: "effective date: ...", "terminates on ..."
	`(?:effective|termination|expiration|term|renewal|delivery|payment\s+due)\s+date\s*[:;]?|` +
	`(?:expires|terminates)\s+(?:on|at|after|before|by)|` +
	`effective\s+(?:as\s+of|on|from)|` +
	// ISO and numeric dates
	`\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|` +
	`\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|` +
	// Month DD, YYYY / DD Month YYYY / Month YYYY
	`(?:\d{1,2}(?:st|nd|rd|th)?[\s,]*)?` + monthNames + `[\s,]*\d{1,2}(?:st|nd|rd|th)?[\s,]*\d{2,4}|` +
	monthNames + `[\s./-]+\d{4}|` +
	// quarters, fiscal years, year ranges
	`Q[1-4]\s+\d{4}|FY\s*\d{2,4}|Fiscal\s+Year\s+\d{4}|` +
	`\d{4}\s*(?:-|to|through|until)\s*\d{4}|` +
	// relative durations: "15 years after the effective date"
	`\d{1,3}\s+(?:day|week|month|year)s?\s+(?:ago|after|before|from|following)|` +
	// recurrence keywords feed the payment-due-date pass
	`(?:daily|weekly|monthly|quarterly|yearly|annually|bi-weekly|bi-monthly|semi-annually)|` +
	// bare 4-digit year
	`\d{4}` +
	`)\b`)

var jurisdictionPattern = regexp.MustCompile(`(?i)\b(` +
	`governed\s+by\s+the\s+laws?\s+of|` +
	`governing\s+law|` +
	`shall\s+be\s+governed\s+by|` +
	`construed\s+(?:and\s+enforced\s+)?(?:in\s+accordance\s+)?with\s+the\s+laws?\s+of|` +
	`interpreted\s+(?:in\s+accordance\s+)?(?:with|under)\s+the\s+laws?\s+of|` +
	`subject\s+to\s+(?:the\s+)?jurisdiction\s+of|` +
	`(?:exclusive|non[-\s]?exclusive|sole)\s+jurisdiction\s+of|` +
	`venue\s+shall\s+be\s+in|` +
	`courts?\s+of\s+competent\s+jurisdiction|` +
	`choice\s+of\s+law|conflict\s+of\s+laws?|` +
	`forum\s+(?:selection|clause)|` +
	`consents?\s+to\s+the\s+jurisdiction\s+of|` +
	`submits?\s+(?:themselves|itself)\s+to\s+the\s+jurisdiction\s+of|` +
	`(?:seat|place)\s+of\s+(?:arbitration|jurisdiction)|` +
	`arbitration\s+(?:shall|will)\s+be\s+conducted\s+in|` +
	`(?:federal|state|district|circuit|supreme|high|superior|county)\s+courts?\s+(?:sitting|located)\s+in|` +
	`(?:courts?|laws?|tribunals?)\s+of\s+[A-Z][a-zA-Z'.-]*(?:\s+[A-Z][a-zA-Z'.-]*)*|` +
	`under\s+[A-Z][a-zA-Z'.-]*(?:\s+[A-Z][a-zA-Z'.-]*)*\s+law` +
	`)\b`)

var contractValuePattern = regexp.MustCompile(`(?i)(` +
	// symbol/code-prefixed amounts: "$1,200,000", "USD 3 million"
	`(?:[$€£¥₹]|AED|USD|INR|GBP|EUR|CNY|RMB|JPY|SAR)\s?` +
	`(?:\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?\s*(?:million|billion|crore|lakh|thousand)?)` +
	`|` +
	// name-based amounts: "five hundred thousand dollars"
	`(?:(?:one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety|hundred|thousand|million|billion|crore|lakh)\s+)+` +
	`(?:dollars?|pounds?|euros?|rupees?|dirhams?|yuan|yen)` +
	`)`)

// windowSpec parameterizes the span windowing per pattern class.
type windowSpec struct {
	pattern      *regexp.Regexp
	radiusBefore int
	radiusAfter  int
	wordCap      int
}

var windowSpecs = map[PatternClass]windowSpec{
	PatternDate:         {pattern: datePattern, radiusBefore: 2, radiusAfter: 2, wordCap: 45},
	PatternJurisdiction: {pattern: jurisdictionPattern, radiusBefore: 1, radiusAfter: 1, wordCap: 30},
	PatternValue:        {pattern: contractValuePattern, radiusBefore: 2, radiusAfter: 1, wordCap: 50},
}
