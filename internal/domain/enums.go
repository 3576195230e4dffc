package domain

import "strings"

// PartOfSpeech is the grammatical category the model assigns to a word token.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "noun"
	PartOfSpeechVerb         PartOfSpeech = "verb"
	PartOfSpeechAdjective    PartOfSpeech = "adjective"
	PartOfSpeechAdverb       PartOfSpeech = "adverb"
	PartOfSpeechPronoun      PartOfSpeech = "pronoun"
	PartOfSpeechPreposition  PartOfSpeech = "preposition"
	PartOfSpeechConjunction  PartOfSpeech = "conjunction"
	PartOfSpeechInterjection PartOfSpeech = "interjection"
	PartOfSpeechArticle      PartOfSpeech = "article"
	PartOfSpeechDeterminer   PartOfSpeech = "determiner"
	PartOfSpeechOther        PartOfSpeech = "other"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
		PartOfSpeechInterjection, PartOfSpeechArticle, PartOfSpeechDeterminer, PartOfSpeechOther:
		return true
	}
	return false
}

// ParsePartOfSpeech matches s case-insensitively against the known parts of speech.
func ParsePartOfSpeech(s string) (PartOfSpeech, bool) {
	p := PartOfSpeech(strings.ToLower(s))
	return p, p.IsValid()
}

// CEFRLevel is a Common European Framework of Reference proficiency level.
type CEFRLevel string

const (
	CEFRLevelA1 CEFRLevel = "a1"
	CEFRLevelA2 CEFRLevel = "a2"
	CEFRLevelB1 CEFRLevel = "b1"
	CEFRLevelB2 CEFRLevel = "b2"
	CEFRLevelC1 CEFRLevel = "c1"
	CEFRLevelC2 CEFRLevel = "c2"
)

func (l CEFRLevel) String() string { return string(l) }

func (l CEFRLevel) IsValid() bool {
	switch l {
	case CEFRLevelA1, CEFRLevelA2, CEFRLevelB1, CEFRLevelB2, CEFRLevelC1, CEFRLevelC2:
		return true
	}
	return false
}

// ParseCEFRLevel matches s case-insensitively against the CEFR codes.
func ParseCEFRLevel(s string) (CEFRLevel, bool) {
	l := CEFRLevel(strings.ToLower(s))
	return l, l.IsValid()
}

// TokenType is the JSON discriminant of a token.
type TokenType string

const (
	TokenTypeWord        TokenType = "word"
	TokenTypePunctuation TokenType = "punctuation"
	TokenTypeWhitespace  TokenType = "whitespace"
)

func (t TokenType) String() string { return string(t) }

func (t TokenType) IsValid() bool {
	switch t {
	case TokenTypeWord, TokenTypePunctuation, TokenTypeWhitespace:
		return true
	}
	return false
}
