// Package fallback turns arbitrary plain text into word, punctuation and
// whitespace tokens without any alignment metadata. It is used when a model
// reply cannot be validated as structured tokens.
//
// The output always reconstructs the input: concatenating Token.Text() of the
// returned tokens yields the original string byte for byte.
package fallback

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
)

// GenerateTokens splits text on whitespace runs and tokenizes each remaining
// segment into a leading word core followed by one punctuation token per
// trailing character. Segments without a word core become punctuation only.
func GenerateTokens(text string) []domain.Token {
	if text == "" {
		return []domain.Token{}
	}

	// A Caser keeps state between calls, so each invocation gets its own.
	lower := cases.Lower(language.Und)
	tokens := make([]domain.Token, 0, len(text)/3+1)

	for _, seg := range splitWhitespace(text) {
		if seg.space {
			tokens = append(tokens, &domain.WhitespaceToken{Value: seg.text})
			continue
		}

		rest := seg.text
		if n := wordCoreLen(rest); n > 0 {
			core := rest[:n]
			tokens = append(tokens, &domain.WordToken{
				ToWord:  core,
				ToLemma: lower.String(core),
			})
			rest = rest[n:]
		}
		tokens = appendPunctuation(tokens, rest)
	}

	return tokens
}

// Text concatenates the surface text of tokens in order.
func Text(tokens []domain.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text())
	}
	return b.String()
}

// ValidateReconstruction reports whether tokens reproduce original exactly.
func ValidateReconstruction(original string, tokens []domain.Token) bool {
	return Text(tokens) == original
}

type segment struct {
	text  string
	space bool
}

// splitWhitespace cuts text into alternating whitespace and non-whitespace
// segments. Segment boundaries are byte offsets into text, so invalid UTF-8
// is carried through untouched.
func splitWhitespace(text string) []segment {
	var segs []segment
	start := 0
	inSpace := false

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		sp := isSpace(r, size)
		if i == 0 {
			inSpace = sp
		} else if sp != inSpace {
			segs = append(segs, segment{text: text[start:i], space: inSpace})
			start = i
			inSpace = sp
		}
		i += size
	}
	if start < len(text) {
		segs = append(segs, segment{text: text[start:], space: inSpace})
	}
	return segs
}

// wordCoreLen returns the byte length of the leading run of word characters.
func wordCoreLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !isWordRune(r, size) {
			break
		}
		n += size
	}
	return n
}

func appendPunctuation(tokens []domain.Token, s string) []domain.Token {
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		tokens = append(tokens, &domain.PunctuationToken{Value: s[i : i+size]})
		i += size
	}
	return tokens
}

func isSpace(r rune, size int) bool {
	if r == utf8.RuneError && size == 1 {
		return false
	}
	return r == '\uFEFF' || unicode.IsSpace(r)
}

func isWordRune(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	switch r {
	case '\'', '’':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.M, r)
}
