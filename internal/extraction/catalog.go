package extraction

import "fmt"

// The prompt catalog. Instruction text is treated as data; tuning it
// changes extraction quality, not control flow.

const dateExtractionInstructions = `
Extract the following date fields from a contract or agreement document with enhanced accuracy.
All extracted dates must be returned strictly in the format: "YYYY-MM-DD" (4-digit year, 2-digit month, 2-digit day).
If a date is not present or cannot be confidently extracted, return the string "null".

1. Effective Date:
   - Identify the date when the agreement begins, becomes active, or is deemed to take effect.
   - Common keywords/phrases: "effective date", "this agreement is made effective as of", "commencement date",
     "start date", "as of the date", "executed on", "entered into on", "dated as of".
   - This date often appears in the opening paragraphs of an agreement.

2. Termination Date:
   - Identify the date when the agreement may be terminated before its natural expiration.
   - Look for keywords: "termination date", "this agreement shall terminate on", "early termination",
     "right to terminate on", "may be terminated on", "terminate prior to expiration".
   - IMPORTANT: Distinguish from expiration date. Termination typically refers to an early or conditional ending.

3. Renewal Date:
   - Identify the date when the agreement automatically renews or is extended.
   - Keywords: "renewal date", "renewed on", "extension period begins", "contract shall automatically renew on",
     "renewal term commences", "option to renew on", "renewal period starting".

4. Expiration Date:
   - Identify the final date after which the agreement naturally ends at the conclusion of its term.
   - Keywords: "expiration date", "this agreement expires on", "contract ends on", "end of term",
     "shall expire on", "valid until", "in effect through", "shall continue until".
   - IMPORTANT: Distinct from termination date. Expiration refers to the natural end of the contract term.

5. Delivery Date:
   - Identify the date when goods/services are scheduled to be or were actually delivered.
   - Keywords: "delivery date", "delivery shall be made on", "completion date", "scheduled delivery",
     "delivered on", "due date", "shipment date", "to be provided by".

6. Term Date:
   - Identify the date the contractual term begins (often similar to effective date).
   - Keywords: "term begins", "term of this agreement shall commence on", "start date of the term",
     "term commencement", "initial term begins", "contract term starts".

CRITICAL - Handle Reference-Based Dates:
- For dates described relatively (e.g., "15 years after the effective date", "30 days following delivery"):
  1. Identify the reference date (e.g., effective date, delivery date)
  2. Identify the time period (e.g., 15 years, 30 days)
  3. Calculate the actual date if possible, otherwise return "calculated:{reference}+{period}"
  4. Example: If effective date is "2020-01-01" and expiration is "15 years after effective date",
     return "2035-01-01" for expiration date

Context Awareness:
- Check for amended dates that may supersede earlier mentions
- For multiple possible dates, prioritize the most specific and contextually appropriate one
- Differentiate between "may terminate after X date" (termination right) versus actual termination date

Output Format (as JSON string):
{
  "Effective Date": "",
  "Termination Date": "",
  "Renewal Date": "",
  "Expiration Date": "",
  "Delivery Date": "",
  "Term Date": ""
}

Formatting Rules:
- All dates must follow the "YYYY-MM-DD" format (e.g., "2025-04-11")
- If a date is not clearly mentioned or cannot be confidently determined, return "null" as a string
- For calculated dates, if specific calculation cannot be performed but reference is clear,
  return in format "calculated:{reference}+{period}" (e.g., "calculated:effective_date+15_years")
`

const jurisdictionInstructions = `
**Task**: Extract **jurisdiction(s)** from the contract text.
- A contract may specify **multiple jurisdictions** for different purposes (e.g., "governed by California laws" and "disputes resolved in Delaware courts").
- Return **all valid jurisdictions** as a **single string**, joined by "and" (e.g., "California and Delaware").
- Include jurisdictions **only if explicitly stated** (e.g., "laws of [Location]", "courts of [Location]").
- Return "null" if:
  - No jurisdiction is mentioned.
  - Jurisdiction is vague (e.g., "applicable laws", "competent courts" without specifics).
  - Ambiguous or inferred jurisdictions.

**Output Format**:
Return a JSON object with the key "Jurisdiction".
-**Strictly do not include "` + "```" + `" or "json" or any markers in your response.**
Examples:
{"Jurisdiction": "Texas"}
{"Jurisdiction": "Singapore and UK"}
{"Jurisdiction": "null"}
`

const contractValueInstructions = `
**Task**: Calculate and extract the **total contract value** from the text.
- Contract value refers to the financial worth of the agreement, including totals, installments, or budgets.
- **Return only the numerical value** as an integer (remove commas/currency symbols).
- **Handle complex cases**:
  - If multiple amounts are stated (e.g., "$500,000 upfront and $300,000 annually"), **sum them** and return the total.
  - If a **total value** is explicitly mentioned, use it instead of partial amounts.
- Return "null" if:
  - No value is mentioned.
  - Values are ambiguous (e.g., "subject to funding", "confidential").
  - Non-numeric descriptions (e.g., "to be negotiated").

**Output Format**:
-**Strictly do not include "` + "```" + `" or "json" or any markers in your response.**
{"Contract Value": "<integer_total_or_null>"}
`

// hybridQuestions are the per-field retrieval-backed fallbacks used to
// fill keys the span-window pass left null. Keyed by schema title.
var hybridQuestions = []QuestionSpec{
	{
		Key:      "Effective Date",
		Question: "What is the effective date of the contract?",
		Instruction: `Instructions:
        ### Find the date the agreement starts or becomes active. Look for phrases like "effective date," "start date," or "commencement date."
        ### Return the date in "YYYY-MM-DD" format.
        ### If no date is found or it's unclear, return "null" as a string.
        ### Expected Output:
        {"Effective Date":""}`,
	},
	{
		Key:      "Termination Date",
		Question: "What is the termination date of the contract?",
		Instruction: `Instructions:
        ### Find the date the agreement ends or is terminated. Look for phrases like "termination date," "end date," or "expiration of term."
        ### Return the date in "YYYY-MM-DD" format.
        ### If no date is found or it's unclear, return "null" as a string.
        ### Expected Output:
        {"Termination Date":""}`,
	},
	{
		Key:      "Renewal Date",
		Question: "What is the renewal date of the contract?",
		Instruction: `Instructions:
        ### Find the date the agreement renews or extends. Look for phrases like "renewal date" or "extension date."
        ### Return the date in "YYYY-MM-DD" format.
        ### If no date is found or it's unclear, return "null" as a string.
        ### Expected Output:
        {"Renewal Date":""}`,
	},
	{
		Key:      "Expiration Date",
		Question: "What is the expiration date of the contract?",
		Instruction: `Instructions:
        ### Find the date the agreement expires. Look for phrases like "expiration date," "contract ends on," or "end of term."
        ### Return the date in "YYYY-MM-DD" format.
        ### If no date is found or it's unclear, return "null" as a string.
        ### Expected Output:
        {"Expiration Date":""}`,
	},
	{
		Key:      "Delivery Date",
		Question: "What is the delivery date of the contract?",
		Instruction: `Instructions:
        ### Find the date when delivery is scheduled or completed. Look for phrases like "delivery date," "completion date," or "scheduled delivery."
        ### Return the date in "YYYY-MM-DD" format.
        ### If no date is found or it's unclear, return "null" as a string.
        ### Expected Output:
        {"Delivery Date":""}`,
	},
	{
		Key:      "Term Date",
		Question: "What is the term date of the agreement?",
		Instruction: `Instructions:
        ### Look for the "start date" of the agreement and return it in "YYYY-MM-DD" format if found.
        ### If the "start date" is not available or unclear, return "null" as a string.
        ### Expected Output:
        {"Term Date":""}`,
	},
	{
		Key:      "Jurisdiction",
		Question: "What is the jurisdiction?",
		Instruction: `Instructions:
        ###Description: "The legal authority or location under which the contract is governed. This specifies the applicable laws and courts that will handle any disputes related to the agreement."
        ###Extract the jurisdiction from the text.
        If the contract contains a "governed by" clause, use that.
        Otherwise, if it refers to being valid, permissible, or enforceable "under <Place> law", treat <Place> as the jurisdiction.
        Return only the jurisdiction name, or "null" if there is no location at all.
        ###Expected Output:
        {"Jurisdiction":""}`,
	},
	{
		Key:      "Contract Value",
		Question: "What is the contract value?",
		Instruction: `Instructions:
        ###Description": "The financial worth of the contract, typically expressed as a monetary amount. This might include the total payment, installment amounts, or overall budget agreed upon."
        ###Extract the contract value from the text, returning only the value as integer or "null" as string if it is not mentioned, cannot be inferred, or is too vague, with no extra text or formatting.
        ###Strictly don't include any currency symbols or words.
        ###Expected Output:
        {"Contract Value":""}`,
	},
}

// generalQuestions are the always-run battery covering the non-date
// schema fields. Title and parties restrict retrieval to the first
// page, where contracts state both.
var generalQuestions = []QuestionSpec{
	{
		Key:      "Scope of Work",
		Question: "What is this contract is about, the scope of work, the purpose of this contract",
		Instruction: `Instructions:
        ###Description": "A 1-2 line summary of the context provided "
        ###The scope of work in a contract defines the specific tasks, deliverables, and timelines associated with the project or service being performed, with no extra text or formatting.
        ###Expected Output:
        {"Scope of Work":""}`,
	},
	{
		Key:       "Title of the Contract",
		Question:  "What is the title of the contract?",
		FirstPage: true,
		Instruction: `Instructions:
        ###Description": "The official title or name of the contract, often found at the top of the document or in the introductory clauses. This is typically a concise label summarizing the purpose of the agreement (e.g., 'Service Agreement' or 'Purchase Contract')."
        ###Extract the title of the contract from the text, returning only the title or "null" as string if it is not mentioned, cannot be inferred, or is too vague, with no extra text or formatting.
        ###Expected Output:
        {"Title of the Contract":""}`,
	},
	{
		Key:      "Risk Mitigation Score",
		Question: "What is risk mitigation score?",
		Instruction: `Instructions:
        ###Description": "A numerical or descriptive evaluation of potential risks and their mitigation strategies within the contract."
        ###Extract the risk mitigation score from the text, returning only the score or "null" as string if it is not mentioned, cannot be inferred, or is too vague, with no extra text or formatting.
        ###Expected Output:
        {"Risk Mitigation Score":""}`,
	},
	{
		Key:       "Parties Involved",
		Question:  "what are the parties involved?",
		FirstPage: true,
		Instruction: `Instructions:
        ### Description: Extract the actual names or unique identifiers of the parties bound by the contract, as explicitly mentioned in the provided text (e.g., "John Smith", "ABC Corp."). These may be full names, company names, or other explicit identifiers.
        ### If NO actual names or identifiers are present, but aliases/roles (such as 'Seller', 'Buyer', 'Purchaser', etc.) are mentioned, return the aliases as they appear, comma-separated.
        ### If NEITHER actual names/identifiers nor aliases/roles are present, return "null".
        ### Return only the parties or "null" as a string in the following JSON format, without extra text or formatting.
        ### Examples:
        #   Input: "This contract is made between John A. Smith (the Seller) and XYZ Corp (the Purchaser)."
        #   Output: {"Parties Involved":"John A. Smith, XYZ Corp"}
        #   Input: "This agreement is between the Seller and the Purchaser."
        #   Output: {"Parties Involved":"Seller, Purchaser"}
        #   Input: "This agreement is made this day."
        #   Output: {"Parties Involved":"null"}
        ### Expected Output:
        {"Parties Involved":""}`,
	},
	{
		Key:      "Contract Type",
		Question: "what is the contract Type?",
		Instruction: `Instructions:
        Accurately classify contract-related inputs based on their context and purpose. Match them to one of the predefined contract types when applicable, but also accommodate new, clearly defined categories beyond the list when necessary.

        ### Guidelines for Classification:
            - Contextual Analysis: Analyze the input thoroughly to understand the intent, content, and purpose of the contract.
            - Flexible Classification: Start by comparing the input against the predefined contract types, but if no match is apparent, identify and return a new, logically appropriate classification.
            - Consistency Across Runs: Implement deterministic methods so that identical inputs always yield consistent results.
            - No Forced Matching: If the input does not fit any logical category, predefined or newly identified, return "null"

        ### Contract Type List:
        1. Business Contracts: Partnership, Employment, Non-Disclosure Agreement (NDA), Sales, Service, Marketing, Supply, Franchise
        2. Real Estate Contracts: Lease, Purchase, Mortgage, Rental
        3. Financial Contracts: Loan, Credit, Investment
        4. Intellectual Property Contracts: Licensing, Assignment
        5. Construction Contracts: Construction, Subcontractor
        6. Technology and IT Contracts: Software License, Service Level Agreement (SLA)
        7. Government Contracts: Procurement, Grants and Funding
        8. Personal Contracts: Prenuptial, Separation, Settlement
        9. Sales and Purchase Contracts: Bill of Sale, Purchase Orders
        10. Employment and Labor Contracts: Collective Bargaining, Independent Contractor
        11. Healthcare Contracts: Physician Employment, Hospital Service
        12. Insurance Contracts: Policy, Reinsurance

        # Notes
        - Case-insensitive matching is allowed, but the exact terminology should always be reflected in the output.
        - Do not guess or force classifications; return "null" when input is ambiguous or lacks sufficient detail.

        ### Expected Output:
        {"Contract Type":"<exact_match_from_list>"} or {"Contract Type":""}`,
	},
	{
		Key:      "Contract Duration",
		Question: "what is the contract duration?",
		Instruction: `Instructions:
        ###Description": "The total time span for which the contract is valid. This may include start and end dates or a specific date"
        ###Extract the contract duration from the text, returning only the duration or "null" as string if it is not mentioned, cannot be inferred, or is too vague, with no extra text or formatting.
        ###Expected Output:
        {"Contract Duration":""}`,
	},
	{
		Key:      "Version Control",
		Question: "What is the version of this agreement?",
		Instruction: `Instructions:
        ###Description": "The version ID, contract number, or revision number of the agreement, used to track updates, amendments, or changes. This helps identify the specific iteration of the document."
        ###Extract the version ID, contract number, or any related identifier from the text, returning only the version or contract number or "null" as a string if it is not mentioned, cannot be inferred, or is too vague, with no extra text or formatting.
        ###Expected Output:
        {"Version Control":""}`,
	},
}

// recurringPaymentQuestion builds the compound recurring-payment /
// payment-due-date prompt. currentDate and expiryDate are interpolated
// into the instruction so the model can apply the cutoff rules itself;
// the validator re-checks them afterwards.
func recurringPaymentQuestion(currentDate, expiryDate string) QuestionSpec {
	return QuestionSpec{
		Key:      "Payment Due Date",
		Question: "What is the payment due date?",
		Instruction: fmt.Sprintf(`Instructions:
    Two parts, part A and part B:
    Part A:
        Determine if the contract supports recurring payments based on the given text.

        Criteria:
        1. Identify if the contract mentions payments on a recurring basis using keywords such as 'monthly', 'quarterly', 'annually' or phrases like:
        - 'Payments due on the [specific date] of each month.'
        - 'Quarterly payments due on [specific months].'
        - 'Annual payment due on [specific date] every year.'
        2. Extract the contract expiry date.
        3. Extract the payment due dates.
        4. If the payment due dates extend beyond the contract expiry date, return 'false'.
        5. If the contract explicitly states recurring payments and they fall within the contract period, return 'true'.
        6. If no recurring payment terms are found, return 'false'.

        Return only a single word: 'true' or 'false'.

    Part B:
        Given the following relevant contract information, determine the next immediate payment due date based on the present date that is: %[1]s.

        Consider the following scenarios:
        1. **Fixed Payment Due Date:** If the contract specifies a one-time or fixed payment due date, return that date if it is in the future or have passed.
        2. **Recurring Payment Due Dates:** If the contract specifies recurring payments (e.g., monthly, quarterly, annually), identify the next immediate due date considering the present date. The recurrence pattern can be in formats such as:
        - "Payments due on the 15th of each month"
        - "Quarterly payments due on the first of January, April, July, and October"
        - "Annual payment due on June 30 every year"

        **Instructions:**
        - If no payment due date is found or it's unclear, return 'null' as a string.
        - The output should be a JSON-style object with the following structure:
        {"Payment Due Date": "YYYY-MM-DD"}

    OUTPUT:
    {
    "flag": true/false,
    "Payment Due Date": "YYYY-MM-DD"
    }
    ###If Expiry date(%[2]s) < 'Payment Due Date', then return 'flag' = false and 'Payment Due Date' = 'null'
    ###If Expiry date(%[2]s) < "Current Date (%[1]s)", then return "flag" = false and "Payment Due Date" = "null"
    Now, analyze the following contract text and return the next immediate payment due date in the required format.
`, currentDate, expiryDate),
	}
}

// hybridQuestionsFor filters the fallback catalog down to the given
// null keys, preserving catalog order.
func hybridQuestionsFor(nullKeys []string) []QuestionSpec {
	want := make(map[string]struct{}, len(nullKeys))
	for _, k := range nullKeys {
		want[k] = struct{}{}
	}
	var specs []QuestionSpec
	for _, q := range hybridQuestions {
		if _, ok := want[q.Key]; ok {
			specs = append(specs, q)
		}
	}
	return specs
}
