package extraction

import (
	"context"
	"log"
	"strings"
	"time"
)

// ProgressFunc receives percentage checkpoints as a run advances.
type ProgressFunc func(ctx context.Context, percent int)

// Reconciler drives the extraction phases for one document and merges
// their outputs into the final metadata document:
//
//  1. targeted span-window extraction (dates, jurisdiction, contract value)
//  2. retrieval-backed null-fill for keys phase 1 left empty
//  3. the general question battery
//  4. expiry date scan over everything extracted so far
//  5. recurring-payment extraction plus due-date validation
type Reconciler struct {
	windows *SpanWindowExtractor
	llm     *LLMExtractionClient
	fields  *ParallelFieldExtractor
	logger  *log.Logger
}

func NewReconciler(windows *SpanWindowExtractor, llm *LLMExtractionClient, fields *ParallelFieldExtractor, logger *log.Logger) *Reconciler {
	if windows == nil {
		windows = NewSpanWindowExtractor()
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[RECON] ", log.LstdFlags)
	}
	return &Reconciler{
		windows: windows,
		llm:     llm,
		fields:  fields,
		logger:  logger,
	}
}

// Extract runs all phases against the document chunks and returns the
// populated metadata document. It degrades instead of failing: fields
// whose extraction path broke come back null.
func (r *Reconciler) Extract(ctx context.Context, fileID string, chunks []string, now time.Time, onProgress ProgressFunc) *MetadataDocument {
	if onProgress == nil {
		onProgress = func(context.Context, int) {}
	}
	currentDate := now.Format("2006-01-02")
	sentences := SegmentSentences(chunks)
	r.logger.Printf("file %s segmented into %d sentences", fileID, len(sentences))

	// Phase 1: regex pre-filter plus targeted extraction.
	dateSpans := r.windows.Extract(sentences, PatternDate)
	jurisdictionSpans := r.windows.Extract(sentences, PatternJurisdiction)
	valueSpans := r.windows.Extract(sentences, PatternValue)
	r.logger.Printf("file %s spans: dates=%d jurisdiction=%d value=%d", fileID, len(dateSpans), len(jurisdictionSpans), len(valueSpans))

	targetedStart := time.Now()
	dates := r.llm.ExtractDates(ctx, dateSpans)
	if dates == nil {
		dates = FieldResult{}
	}
	jurisdiction := r.llm.ExtractJurisdiction(ctx, jurisdictionSpans)
	contractValue := r.llm.ExtractContractValue(ctx, valueSpans)
	targetedDur := time.Since(targetedStart)
	onProgress(ctx, 25)

	// Phase 2: fill keys phase 1 could not resolve via retrieval.
	hybridStart := time.Now()
	nullKeys := r.collectNullKeys(dates, jurisdiction, contractValue)
	if len(nullKeys) > 0 {
		r.logger.Printf("file %s null keys after targeted pass: %v", fileID, nullKeys)
		for _, filled := range r.fields.Run(ctx, fileID, hybridQuestionsFor(nullKeys)) {
			for key, value := range filled {
				switch {
				case isDateTitle(key):
					dates[key] = value
				case strings.EqualFold(key, "Jurisdiction"):
					if jurisdiction == nil {
						jurisdiction = FieldResult{}
					}
					jurisdiction["Jurisdiction"] = value
				case strings.EqualFold(key, "Contract Value"):
					if contractValue == nil {
						contractValue = FieldResult{}
					}
					contractValue["Contract Value"] = value
				}
			}
		}
	}
	hybridDur := time.Since(hybridStart)
	r.logger.Printf("file %s final date extraction: %v", fileID, dates)

	// Phase 3: the general battery.
	batteryStart := time.Now()
	results := r.fields.Run(ctx, fileID, generalQuestions)
	results = append(results, dates, jurisdiction, contractValue)

	// Phase 4: single expiry scan over everything extracted so far.
	expiry := findExpiry(results)

	// Phase 5: recurring payment plus validation.
	flag, dueDate := r.recurringPayment(ctx, fileID, currentDate, expiry)
	results = append(results,
		FieldResult{"Payment Due Date": dueDate},
		FieldResult{"Has Recurring Payment": flag},
	)
	batteryDur := time.Since(batteryStart)
	onProgress(ctx, 50)

	r.logger.Printf("file %s stage durations: targeted=%s null_fill=%s battery=%s",
		fileID, targetedDur.Round(time.Millisecond), hybridDur.Round(time.Millisecond), batteryDur.Round(time.Millisecond))

	doc := NewMetadataDocument()
	mapResults(results, &doc)
	updateContractDuration(&doc)
	onProgress(ctx, 75)
	return &doc
}

func (r *Reconciler) collectNullKeys(dates, jurisdiction, contractValue FieldResult) []string {
	var nullKeys []string
	for _, key := range []string{"Effective Date", "Termination Date", "Renewal Date", "Expiration Date", "Delivery Date", "Term Date"} {
		if isNullValue(dates[key]) {
			nullKeys = append(nullKeys, key)
		}
	}
	if jurisdiction == nil || isNullValue(jurisdiction["Jurisdiction"]) {
		nullKeys = append(nullKeys, "Jurisdiction")
	}
	if contractValue == nil || isNullValue(contractValue["Contract Value"]) {
		nullKeys = append(nullKeys, "Contract Value")
	}
	return nullKeys
}

func (r *Reconciler) recurringPayment(ctx context.Context, fileID, currentDate, expiry string) (flag string, dueDate string) {
	question := recurringPaymentQuestion(currentDate, expiry)
	responses := r.fields.Run(ctx, fileID, []QuestionSpec{question})
	if len(responses) == 0 {
		// outright failure leaves both fields undetermined, not "No"
		r.logger.Printf("file %s recurring payment extraction failed", fileID)
		return "null", "null"
	}
	response := responses[0]
	r.logger.Printf("file %s recurring payment extraction: %v", fileID, response)

	var due *string
	if v, ok := response["Payment Due Date"]; ok && !isNullValue(v) {
		due = &v
	}
	flag = "No"
	if strings.EqualFold(response["flag"], "true") {
		flag = "Yes"
	}
	var expiryPtr *string
	if !isNullValue(expiry) {
		expiryPtr = &expiry
	}
	flag, due = ValidatePaymentDueDate(flag, due, expiryPtr, currentDate)
	if due == nil {
		return flag, "null"
	}
	return flag, *due
}

// ValidatePaymentDueDate re-checks the model's recurring-payment answer
// against the contract expiry and the present date. Dates compare
// lexically in YYYY-MM-DD form. The function is total: every input
// yields a definite verdict.
func ValidatePaymentDueDate(isRecurring string, dueDate, expiryDate *string, currentDate string) (string, *string) {
	if expiryDate == nil || dueDate == nil {
		return "No", nil
	}
	if currentDate > *expiryDate {
		// contract already expired
		return "No", nil
	}
	return "Yes", dueDate
}

func findExpiry(results []FieldResult) string {
	for _, result := range results {
		if result == nil {
			continue
		}
		if v, ok := result["Expiration Date"]; ok {
			return v
		}
	}
	return "null"
}

// mapResults folds every extracted key/value pair into the schema
// document. Keys match titles case-insensitively; "null" strings become
// nil values. Unknown keys are dropped.
func mapResults(results []FieldResult, doc *MetadataDocument) {
	for _, result := range results {
		for key, value := range result {
			if field := doc.Field(key); field != nil {
				field.Value = normalizeValue(value)
			}
		}
	}
}

// updateContractDuration derives Contract Duration from the extracted
// dates when the battery itself came up empty. Expiration wins over
// termination as the end bound.
func updateContractDuration(doc *MetadataDocument) {
	duration := doc.Field("Contract Duration")
	if duration == nil || duration.Value != nil {
		return
	}
	effective := doc.Field("Effective Date")
	if effective == nil || effective.Value == nil {
		return
	}
	var end *string
	if f := doc.Field("Expiration Date"); f != nil && f.Value != nil {
		end = f.Value
	} else if f := doc.Field("Termination Date"); f != nil && f.Value != nil {
		end = f.Value
	}
	if end == nil {
		return
	}
	derived := "from " + *effective.Value + " to " + *end
	duration.Value = &derived
}

func isNullValue(v string) bool {
	return v == "" || strings.EqualFold(strings.TrimSpace(v), "null")
}

func isDateTitle(key string) bool {
	for _, title := range []string{"Effective Date", "Termination Date", "Renewal Date", "Expiration Date", "Delivery Date", "Term Date"} {
		if strings.EqualFold(key, title) {
			return true
		}
	}
	return false
}
