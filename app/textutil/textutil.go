package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// Ellipsis marks text that was cut to fit a length budget.
const Ellipsis = "…"

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Truncate cuts s to at most limit runes. A cut never splits a word: the
// result is trimmed back to the last space before the boundary when one
// exists, and ends with the ellipsis marker. Short input is returned as is.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := runes[:limit-1]
	if idx := lastSpace(cut); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

// Sentences splits s into sentences on terminator runes (.!?…) followed by
// whitespace. Newlines are treated as plain whitespace. The terminators stay
// attached to their sentence.
func Sentences(s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil
	}

	var sentences []string
	runes := []rune(s)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// Consume a run of terminators ("?!", "...")
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
		}
		if i+1 < len(runes) && runes[i+1] == ' ' {
			sentences = append(sentences, string(runes[start:i+1]))
			start = i + 2
			i++
		}
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	return sentences
}

// AccumulateSentences joins leading sentences while the running length stays
// within limit. It stops before the first sentence that would exceed it.
func AccumulateSentences(sentences []string, limit int) string {
	var out strings.Builder
	length := 0

	for _, s := range sentences {
		need := len([]rune(s))
		if length > 0 {
			need++
		}
		if length+need > limit {
			break
		}
		if length > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(s)
		length += need
	}

	return out.String()
}

// Chunk splits text into ordered pieces of at most maxLen runes, preferring
// sentence boundaries and falling back to word boundaries for any sentence
// longer than maxLen.
func Chunk(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len([]rune(text)) <= maxLen {
		return []string{text}
	}

	var chunks []string
	current := ""

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	appendPiece := func(piece string) {
		need := len([]rune(piece))
		if current != "" {
			need += len([]rune(current)) + 1
		}
		if need > maxLen {
			flush()
			current = piece
			return
		}
		if current != "" {
			current += " "
		}
		current += piece
	}

	for _, sentence := range Sentences(text) {
		if len([]rune(sentence)) <= maxLen {
			appendPiece(sentence)
			continue
		}
		// Sentence itself exceeds the budget: split by words, hard-slicing
		// any single word longer than the budget (a long URL, say)
		for _, word := range strings.Fields(sentence) {
			for len([]rune(word)) > maxLen {
				runes := []rune(word)
				appendPiece(string(runes[:maxLen]))
				word = string(runes[maxLen:])
			}
			appendPiece(word)
		}
	}
	flush()

	return chunks
}

// FirstURL returns the first http(s) URL in s, or "" when there is none.
func FirstURL(s string) string {
	return urlPattern.FindString(s)
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}
