package extraction

import "strings"

// SpanWindowExtractor turns a flat sentence list into a small set of
// context windows around pattern hits. Windows are greedy and
// non-overlapping: after emitting a window the scan resumes past its
// last sentence, so a dense cluster of hits yields one window, not one
// per hit.
type SpanWindowExtractor struct{}

func NewSpanWindowExtractor() *SpanWindowExtractor { return &SpanWindowExtractor{} }

// Extract returns the windows for the given class, in document order.
// Sentence texts deduplicate globally across windows: a sentence that
// already appeared in an earlier window is dropped from later ones, so
// overlapping matches never repeat context. The matched sentence is
// always included whole; boundary sentences are trimmed to the class
// word cap so a runaway sentence cannot blow up the prompt.
func (e *SpanWindowExtractor) Extract(sentences []string, class PatternClass) []string {
	spec, ok := windowSpecs[class]
	if !ok {
		return nil
	}
	var spans []string
	seen := make(map[string]struct{})
	for i := 0; i < len(sentences); {
		if !spec.pattern.MatchString(sentences[i]) {
			i++
			continue
		}
		start := i - spec.radiusBefore
		if start < 0 {
			start = 0
		}
		end := i + spec.radiusAfter
		if end > len(sentences)-1 {
			end = len(sentences) - 1
		}
		var window []string
		for j := start; j <= end; j++ {
			if _, dup := seen[sentences[j]]; dup {
				continue
			}
			seen[sentences[j]] = struct{}{}
			switch {
			case j == start && start < i:
				window = append(window, lastWords(sentences[j], spec.wordCap))
			case j == end && end > i:
				window = append(window, firstWords(sentences[j], spec.wordCap))
			default:
				window = append(window, sentences[j])
			}
		}
		if len(window) > 0 {
			spans = append(spans, strings.Join(window, " "))
		}
		i = end + 1
	}
	return spans
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ")
}

func lastWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[len(words)-n:], " ")
}
