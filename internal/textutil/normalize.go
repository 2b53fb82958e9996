package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// blockTagPattern matches block-level tags that separate words visually.
var blockTagPattern = regexp.MustCompile(`(?i)</?\s*(?:br|p|li|h[1-6]|blockquote|table|thead|tbody|tfoot|tr|td|th|caption|figure|figcaption)\b[^>]*>`)

// tagPattern matches any remaining complete tag.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// maxFoldPasses bounds the fold loop; real input settles in one or two.
const maxFoldPasses = 4

// Normalize reduces raw, possibly HTML-bearing text to lowercase words
// separated by single spaces. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	text := blockTagPattern.ReplaceAllString(raw, " ")
	text = tagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)

	// Dropping punctuation can bring combining runes (Hangul jamo, accents)
	// next to each other, so folding repeats until the text is stable.
	for range maxFoldPasses {
		folded := fold(text)
		if folded == text {
			break
		}
		text = folded
	}
	return text
}

// fold applies NFKC and lowercasing, then keeps letters, digits and single
// spaces between words.
func fold(text string) string {
	text = strings.ToLower(norm.NFKC.String(text))

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// Words splits normalized text on whitespace.
func Words(normalized string) []string {
	return strings.Fields(normalized)
}

// Document is a normalized body together with its word list.
type Document struct {
	Text  string
	Words []string
}

// Prepare normalizes raw and tokenizes the result.
func Prepare(raw string) Document {
	text := Normalize(raw)
	return Document{Text: text, Words: Words(text)}
}

// WordCount returns the number of words in raw after normalization.
func WordCount(raw string) int {
	return len(Words(Normalize(raw)))
}
