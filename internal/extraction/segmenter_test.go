package extraction

import (
	"reflect"
	"testing"
)

func TestSegmentSentencesSplitsAcrossChunks(t *testing.T) {
	chunks := []string{"First sentence. Second sentence.", "Third sentence."}
	got := SegmentSentences(chunks)
	want := []string{"First sentence", "Second sentence", "Third sentence"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSegmentSentencesStripsMarkdown(t *testing.T) {
	chunks := []string{"See ![diagram](img.png) the [terms](http://example.com) here."}
	got := SegmentSentences(chunks)
	want := []string{"See the here"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSegmentSentencesNeverReturnsBlanks(t *testing.T) {
	for _, chunks := range [][]string{
		nil,
		{""},
		{"   ", "\t\n"},
		{"...", ". . ."},
		{"** ** || ##"},
	} {
		for _, s := range SegmentSentences(chunks) {
			if s == "" {
				t.Fatalf("blank sentence from input %q", chunks)
			}
		}
	}
}

func TestSegmentSentencesCollapsesWhitespace(t *testing.T) {
	got := SegmentSentences([]string{"Spread   over\n\nlines.   Done."})
	want := []string{"Spread over lines", "Done"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
