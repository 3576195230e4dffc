// Package validator checks a raw model reply against the structured token
// schema. Structural problems reject the whole reply; problems in optional
// word metadata only null the field and add a warning.
package validator

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
)

// Data is the validated payload of a structured reply.
type Data struct {
	Translation string
	Tokens      []domain.Token
}

// Result is the outcome of Validate. Exactly one of Data and Fatal is set.
// Warnings may be non-empty in both cases.
type Result struct {
	Data     *Data
	Fatal    *domain.ValidationError
	Warnings []string
}

// IsValid reports whether the reply can be rendered as structured tokens.
func (r Result) IsValid() bool { return r.Fatal == nil && r.Data != nil }

// Err returns the fatal validation error, or nil.
func (r Result) Err() error {
	if r.Fatal == nil {
		return nil
	}
	return r.Fatal
}

// Errors returns the fatal error messages; empty when valid.
func (r Result) Errors() []string {
	if r.Fatal == nil {
		return []string{}
	}
	return r.Fatal.Messages()
}

var requiredWordFields = [...]string{"to_word", "to_lemma", "from_word", "from_lemma"}

// Validate parses raw as JSON and checks it against the token schema.
// It never panics and never returns a partial token list.
func Validate(raw string) Result {
	if !gjson.Valid(raw) {
		return reject("", "response is not valid JSON")
	}

	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return reject("", "response is not a JSON object")
	}

	translation := doc.Get("translation")
	if translation.Type != gjson.String || translation.Str == "" {
		return reject("translation", "must be a non-empty string")
	}

	rawTokens := doc.Get("tokens")
	if !rawTokens.IsArray() {
		return reject("tokens", "must be an array")
	}

	elems := rawTokens.Array()
	tokens := make([]domain.Token, 0, len(elems))
	warnings := []string{}

	for i, el := range elems {
		tok, warns, fe := parseToken(i, el)
		warnings = append(warnings, warns...)
		if fe != nil {
			return Result{
				Fatal:    domain.NewValidationError(fe.Field, fe.Message),
				Warnings: warnings,
			}
		}
		tokens = append(tokens, tok)
	}

	return Result{
		Data:     &Data{Translation: translation.Str, Tokens: tokens},
		Warnings: warnings,
	}
}

func reject(field, message string) Result {
	return Result{
		Fatal:    domain.NewValidationError(field, message),
		Warnings: []string{},
	}
}

func parseToken(i int, el gjson.Result) (domain.Token, []string, *domain.FieldError) {
	field := fmt.Sprintf("tokens[%d]", i)

	if !el.IsObject() {
		return nil, nil, &domain.FieldError{Field: field, Message: "token must be an object"}
	}

	typ := el.Get("type")
	if typ.Type != gjson.String {
		return nil, nil, &domain.FieldError{Field: field, Message: "token is missing a string type"}
	}

	switch domain.TokenType(typ.Str) {
	case domain.TokenTypeWord:
		return parseWord(field, el)
	case domain.TokenTypePunctuation:
		v, fe := valueField(field, el)
		if fe != nil {
			return nil, nil, fe
		}
		return &domain.PunctuationToken{Value: v}, nil, nil
	case domain.TokenTypeWhitespace:
		v, fe := valueField(field, el)
		if fe != nil {
			return nil, nil, fe
		}
		return &domain.WhitespaceToken{Value: v}, nil, nil
	default:
		return nil, nil, &domain.FieldError{Field: field, Message: fmt.Sprintf("unknown token type %q", typ.Str)}
	}
}

func valueField(field string, el gjson.Result) (string, *domain.FieldError) {
	v := el.Get("value")
	if v.Type != gjson.String {
		return "", &domain.FieldError{Field: field, Message: "value must be a string"}
	}
	return v.Str, nil
}

// parseWord applies the two tiers: the four alignment fields are required,
// the metadata fields degrade to nil with one warning each.
func parseWord(field string, el gjson.Result) (domain.Token, []string, *domain.FieldError) {
	var req [len(requiredWordFields)]string
	for i, name := range requiredWordFields {
		v := el.Get(name)
		if v.Type != gjson.String || v.Str == "" {
			return nil, nil, &domain.FieldError{
				Field:   field,
				Message: fmt.Sprintf("word token field %q must be a non-empty string", name),
			}
		}
		req[i] = v.Str
	}

	tok := &domain.WordToken{
		ToWord:    req[0],
		ToLemma:   req[1],
		FromWord:  req[2],
		FromLemma: req[3],
	}

	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, field+": "+fmt.Sprintf(format, args...))
	}

	// pos is expected on every word, so absence is reported too.
	switch pos := el.Get("pos"); {
	case !pos.Exists() || pos.Type == gjson.Null:
		warn("missing pos")
	case pos.Type != gjson.String:
		warn("pos must be a string")
	default:
		if p, ok := domain.ParsePartOfSpeech(pos.Str); ok {
			tok.POS = &p
		} else {
			warn("invalid pos %q", pos.Str)
		}
	}

	switch diff := el.Get("difficulty"); {
	case !diff.Exists() || diff.Type == gjson.Null:
	case diff.Type != gjson.String:
		warn("difficulty must be a string")
	default:
		if l, ok := domain.ParseCEFRLevel(diff.Str); ok {
			tok.Difficulty = &l
		} else {
			warn("invalid difficulty %q", diff.Str)
		}
	}

	switch def := el.Get("from_definition"); {
	case !def.Exists() || def.Type == gjson.Null:
	case def.Type != gjson.String || def.Str == "":
		warn("from_definition must be a non-empty string")
	default:
		s := def.Str
		tok.FromDefinition = &s
	}

	return tok, warnings, nil
}
