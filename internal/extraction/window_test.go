package extraction

import (
	"fmt"
	"strings"
	"testing"
)

func wordSentence(prefix string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(words, " ")
}

func TestWindowIncludesContextAroundMatch(t *testing.T) {
	sentences := []string{
		"Intro clause one",
		"Intro clause two",
		"The agreement is effective as of January 5, 2024",
		"Following clause",
		"Another clause",
		"Nothing temporal whatsoever",
	}
	spans := NewSpanWindowExtractor().Extract(sentences, PatternDate)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d: %v", len(spans), spans)
	}
	want := strings.Join(sentences[0:5], " ")
	if spans[0] != want {
		t.Fatalf("expected %q, got %q", want, spans[0])
	}
}

func TestWindowDeduplicatesIdenticalSpans(t *testing.T) {
	sentences := []string{
		"filler",
		"governed by the laws of Texas",
		"filler",
		"governed by the laws of Texas",
		"filler",
	}
	spans := NewSpanWindowExtractor().Extract(sentences, PatternJurisdiction)
	if len(spans) != 1 {
		t.Fatalf("expected identical windows to collapse to 1 span, got %d: %v", len(spans), spans)
	}
}

func TestWindowTrimsBoundariesButNotMatch(t *testing.T) {
	before := wordSentence("w", 60)
	after := wordSentence("v", 60)
	matched := "shall be governed by the laws of Delaware " + wordSentence("m", 40)
	sentences := []string{before, matched, after}

	spans := NewSpanWindowExtractor().Extract(sentences, PatternJurisdiction)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	words := strings.Fields(spans[0])
	// 30-word cap on each boundary, the matched sentence intact (48 words)
	if len(words) != 30+48+30 {
		t.Fatalf("expected %d words, got %d", 30+48+30, len(words))
	}
	if !strings.Contains(spans[0], matched) {
		t.Fatalf("matched sentence was trimmed: %q", spans[0])
	}
	if !strings.HasPrefix(spans[0], "w30 ") {
		t.Fatalf("leading boundary not trimmed to last 30 words: %q", spans[0])
	}
	if !strings.HasSuffix(spans[0], " v29") {
		t.Fatalf("trailing boundary not trimmed to first 30 words: %q", spans[0])
	}
}

func TestWindowNeverRepeatsASentenceAcrossSpans(t *testing.T) {
	sentences := []string{
		"governed by the laws of Texas",
		"shared filler sentence",
		"governed by the laws of Nevada",
		"tail clause",
	}
	spans := NewSpanWindowExtractor().Extract(sentences, PatternJurisdiction)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}
	for _, sentence := range sentences {
		count := 0
		for _, span := range spans {
			count += strings.Count(span, sentence)
		}
		if count > 1 {
			t.Fatalf("sentence %q appears %d times across spans %v", sentence, count, spans)
		}
	}
	// the shared sentence belongs to the first window only
	if !strings.Contains(spans[0], "shared filler sentence") {
		t.Fatalf("first span should carry the shared sentence: %q", spans[0])
	}
	if strings.Contains(spans[1], "shared filler sentence") {
		t.Fatalf("second span repeats the shared sentence: %q", spans[1])
	}
}

func TestWindowScanIsGreedy(t *testing.T) {
	sentences := []string{
		"fee of $100 due",
		"fee of $200 due",
		"tail clause",
	}
	spans := NewSpanWindowExtractor().Extract(sentences, PatternValue)
	// the second match falls inside the first window, so the scan skips it
	if len(spans) != 1 {
		t.Fatalf("expected 1 span from adjacent matches, got %d: %v", len(spans), spans)
	}
}

func TestWindowClassParameters(t *testing.T) {
	// seven sentences with a match dead centre; radii differ per class
	mk := func(match string) []string {
		return []string{"s0", "s1", "s2", match, "s4", "s5", "s6"}
	}

	dateSpans := NewSpanWindowExtractor().Extract(mk("dated March 3, 2025"), PatternDate)
	if want := "s1 s2 dated March 3, 2025 s4 s5"; len(dateSpans) != 1 || dateSpans[0] != want {
		t.Fatalf("date window: expected %q, got %v", want, dateSpans)
	}

	jurSpans := NewSpanWindowExtractor().Extract(mk("subject to jurisdiction of Kenya"), PatternJurisdiction)
	if want := "s2 subject to jurisdiction of Kenya s4"; len(jurSpans) != 1 || jurSpans[0] != want {
		t.Fatalf("jurisdiction window: expected %q, got %v", want, jurSpans)
	}

	valueSpans := NewSpanWindowExtractor().Extract(mk("a price of EUR 9,500 total"), PatternValue)
	if want := "s1 s2 a price of EUR 9,500 total s4"; len(valueSpans) != 1 || valueSpans[0] != want {
		t.Fatalf("value window: expected %q, got %v", want, valueSpans)
	}
}

func TestWindowNoMatchesYieldsNoSpans(t *testing.T) {
	sentences := []string{"plain clause", "another plain clause"}
	for _, class := range []PatternClass{PatternDate, PatternJurisdiction, PatternValue} {
		if spans := NewSpanWindowExtractor().Extract(sentences, class); len(spans) != 0 {
			t.Fatalf("class %s: expected no spans, got %v", class, spans)
		}
	}
}
