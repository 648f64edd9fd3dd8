package extraction

import (
	"regexp"
	"strings"
)

var (
	markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	markdownLinkRe  = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	markdownSymsRe  = regexp.MustCompile(`[*_~` + "`" + `#+\-=|>\[\](){}!\\/<>]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	sentenceSplitRe = regexp.MustCompile(`\.(?:\s|\||\*|,)*`)
)

// SegmentSentences joins the raw chunks, strips markdown syntax, collapses
// whitespace and splits the result into sentences. It never fails: empty
// input yields an empty slice, and no returned sentence is blank.
func SegmentSentences(chunks []string) []string {
	text := strings.Join(chunks, "\n")
	text = markdownImageRe.ReplaceAllString(text, "")
	text = markdownLinkRe.ReplaceAllString(text, "")
	text = markdownSymsRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	parts := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
