package domain

import "encoding/json"

// Token is one reconstructible unit of translated text: a word, a punctuation
// mark, or a whitespace run. The set of implementations is closed; switch over
// *WordToken, *PunctuationToken and *WhitespaceToken.
type Token interface {
	Type() TokenType
	// Text is the surface text the token contributes to the rendered output.
	Text() string

	isToken()
}

// WordToken is an interactive word with its alignment to the source text.
// Metadata pointers are nil when the model gave no usable value.
type WordToken struct {
	ToWord         string
	ToLemma        string
	FromWord       string
	FromLemma      string
	POS            *PartOfSpeech
	Difficulty     *CEFRLevel
	FromDefinition *string
}

// PunctuationToken is an inert mark, usually a single character.
type PunctuationToken struct {
	Value string
}

// WhitespaceToken is a verbatim run of whitespace.
type WhitespaceToken struct {
	Value string
}

func (*WordToken) Type() TokenType        { return TokenTypeWord }
func (*PunctuationToken) Type() TokenType { return TokenTypePunctuation }
func (*WhitespaceToken) Type() TokenType  { return TokenTypeWhitespace }

func (t *WordToken) Text() string        { return t.ToWord }
func (t *PunctuationToken) Text() string { return t.Value }
func (t *WhitespaceToken) Text() string  { return t.Value }

func (*WordToken) isToken()        {}
func (*PunctuationToken) isToken() {}
func (*WhitespaceToken) isToken()  {}

type wordTokenJSON struct {
	Type           TokenType     `json:"type"`
	ToWord         string        `json:"to_word"`
	ToLemma        string        `json:"to_lemma"`
	FromWord       string        `json:"from_word"`
	FromLemma      string        `json:"from_lemma"`
	POS            *PartOfSpeech `json:"pos"`
	Difficulty     *CEFRLevel    `json:"difficulty"`
	FromDefinition *string       `json:"from_definition"`
}

type valueTokenJSON struct {
	Type  TokenType `json:"type"`
	Value string    `json:"value"`
}

// MarshalJSON always emits the nullable metadata keys so structured and
// fallback results have the same shape.
func (t *WordToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(wordTokenJSON{
		Type:           TokenTypeWord,
		ToWord:         t.ToWord,
		ToLemma:        t.ToLemma,
		FromWord:       t.FromWord,
		FromLemma:      t.FromLemma,
		POS:            t.POS,
		Difficulty:     t.Difficulty,
		FromDefinition: t.FromDefinition,
	})
}

func (t *PunctuationToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueTokenJSON{Type: TokenTypePunctuation, Value: t.Value})
}

func (t *WhitespaceToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueTokenJSON{Type: TokenTypeWhitespace, Value: t.Value})
}

// CountWords returns the number of word tokens in tokens.
func CountWords(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if _, ok := t.(*WordToken); ok {
			n++
		}
	}
	return n
}
