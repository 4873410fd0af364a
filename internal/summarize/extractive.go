package summarize

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"scribe/internal/db"
)

// Summarizer turns a transcript into summary text for a given template.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, templateName string) (string, error)
}

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "to": {}, "for": {},
	"of": {}, "in": {}, "on": {}, "with": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "be": {}, "it": {}, "that": {}, "this": {}, "we": {},
	"they": {}, "you": {}, "i": {},
}

var wordPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

var actionMarkers = []string{"action", "todo", "next step", "will "}

// Extractive is the no-model fallback: it ranks sentences by average word
// frequency and returns the top ones in document order, plus any lines
// that look like action items.
type Extractive struct {
	// MaxSentences caps the summary body. Zero means 6.
	MaxSentences int
}

func (e Extractive) Summarize(ctx context.Context, transcript, templateName string) (string, error) {
	if _, err := LoadTemplate(templateName, ""); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	max := e.MaxSentences
	if max <= 0 {
		max = 6
	}
	return extractiveSummary(transcript, max), nil
}

func extractiveSummary(transcript string, maxSentences int) string {
	sentences := splitSentences(transcript)
	if len(sentences) == 0 {
		return "No transcript content was available."
	}

	freq := map[string]int{}
	for _, token := range tokenize(transcript) {
		if _, stop := stopwords[token]; stop || len(token) < 3 {
			continue
		}
		freq[token]++
	}

	type scored struct {
		score float64
		index int
	}
	var ranked []scored
	for i, sentence := range sentences {
		tokens := tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		var sum int
		for _, token := range tokens {
			sum += freq[token]
		}
		ranked = append(ranked, scored{score: float64(sum) / float64(len(tokens)), index: i})
	}

	var picked []int
	if len(ranked) == 0 {
		for i := 0; i < len(sentences) && i < maxSentences; i++ {
			picked = append(picked, i)
		}
	} else {
		sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
		if len(ranked) > maxSentences {
			ranked = ranked[:maxSentences]
		}
		for _, r := range ranked {
			picked = append(picked, r.index)
		}
		sort.Ints(picked)
	}

	var actions []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, marker := range actionMarkers {
			if strings.Contains(lower, marker) {
				actions = append(actions, sentence)
				break
			}
		}
		if len(actions) == 4 {
			break
		}
	}

	var b strings.Builder
	b.WriteString("Summary (extractive):\n\n")
	for _, i := range picked {
		fmt.Fprintf(&b, "- %s\n", sentences[i])
	}
	if len(actions) > 0 {
		b.WriteString("\nLikely action items:\n")
		for _, sentence := range actions {
			fmt.Fprintf(&b, "- %s\n", sentence)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// splitSentences breaks text after ., ! or ? followed by whitespace or
// end of input.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func tokenize(text string) []string {
	words := wordPattern.FindAllString(text, -1)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

// SegmentsText flattens stored segments into the transcript text fed to
// a summarizer.
func SegmentsText(segments []db.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("[%.2f-%.2f] %s", seg.Start, seg.End, seg.Text))
	}
	return strings.Join(lines, "\n")
}
