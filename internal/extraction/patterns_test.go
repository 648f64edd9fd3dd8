package extraction

import "testing"

func TestDatePattern(t *testing.T) {
	matching := []string{
		"This agreement is effective as of January 1, 2024",
		"The contract expires on 15 March 2027",
		"terminates on delivery of the final report",
		"payments are due monthly thereafter",
		"renewal for FY 2025",
		"a term of 15 years after the effective date",
		"valid from 2024 through 2029",
	}
	for _, s := range matching {
		if !datePattern.MatchString(s) {
			t.Fatalf("expected date pattern to match %q", s)
		}
	}
	nonMatching := []string{
		"the parties agree to cooperate in good faith",
		"all notices must be in writing",
	}
	for _, s := range nonMatching {
		if datePattern.MatchString(s) {
			t.Fatalf("expected date pattern not to match %q", s)
		}
	}
}

func TestJurisdictionPattern(t *testing.T) {
	matching := []string{
		"This Agreement shall be governed by the laws of the State of New York",
		"venue shall be in Wilmington, Delaware",
		"the parties consent to the jurisdiction of the courts of Singapore",
		"construed in accordance with the laws of England",
		"the seat of arbitration shall be Geneva",
		"valid under Ontario law",
	}
	for _, s := range matching {
		if !jurisdictionPattern.MatchString(s) {
			t.Fatalf("expected jurisdiction pattern to match %q", s)
		}
	}
	nonMatching := []string{
		"the parties agree to cooperate in good faith",
		"payment terms are set out in Schedule A",
	}
	for _, s := range nonMatching {
		if jurisdictionPattern.MatchString(s) {
			t.Fatalf("expected jurisdiction pattern not to match %q", s)
		}
	}
}

func TestContractValuePattern(t *testing.T) {
	matching := []string{
		"a total fee of $1,250,000 payable in instalments",
		"the budget shall not exceed USD 3 million",
		"consideration of five hundred thousand dollars",
		"an annual rent of AED 95,000",
		"a royalty of €2.5 million per year",
	}
	for _, s := range matching {
		if !contractValuePattern.MatchString(s) {
			t.Fatalf("expected value pattern to match %q", s)
		}
	}
	nonMatching := []string{
		"the consideration is confidential",
		"fees to be negotiated in good faith",
	}
	for _, s := range nonMatching {
		if contractValuePattern.MatchString(s) {
			t.Fatalf("expected value pattern not to match %q", s)
		}
	}
}
