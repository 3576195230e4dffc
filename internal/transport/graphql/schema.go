package graphql

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/tokens/fallback"
)

//go:embed schema.graphqls
var schemaSource string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSource})

// Implementor lists used by CollectFields to resolve fragments on each type.
var (
	queryImplementors                 = []string{"Query"}
	mutationImplementors              = []string{"Mutation"}
	translationWithTokensImplementors = []string{"TranslationWithTokens"}
	translationMetadataImplementors   = []string{"TranslationMetadata"}
	wordTokenImplementors             = []string{"WordToken", "Token"}
	punctuationTokenImplementors      = []string{"PunctuationToken", "Token"}
	whitespaceTokenImplementors       = []string{"WhitespaceToken", "Token"}
)

// executableSchema resolves the schema in schema.graphqls against a Resolver,
// one method per object type. Output goes through gqlgen's FieldSet and
// scalar marshalers, so field order follows the selection.
type executableSchema struct {
	resolver *Resolver
}

// NewExecutableSchema returns the gqlgen executable schema for r.
func NewExecutableSchema(r *Resolver) graphql.ExecutableSchema {
	return &executableSchema{resolver: r}
}

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (e *executableSchema) Complexity(ctx context.Context, typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ec := &executionContext{opCtx: opCtx, resolver: e.resolver}

	var root func(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler
	switch opCtx.Operation.Operation {
	case ast.Query:
		root = ec.query
	case ast.Mutation:
		root = ec.mutation
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}

	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		data := root(ctx, opCtx.Operation.SelectionSet)

		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

type executionContext struct {
	opCtx    *graphql.OperationContext
	resolver *Resolver
}

// fieldError records err against the root field f.
func (ec *executionContext) fieldError(ctx context.Context, f graphql.CollectedField, err error) {
	graphql.AddError(ctx, &gqlerror.Error{
		Err:     err,
		Message: err.Error(),
		Path:    ast.Path{ast.PathName(f.Alias)},
	})
}

// introspectionDisabled matches what gqlgen reports when the handler has no
// introspection extension.
func (ec *executionContext) introspectionDisabled(ctx context.Context, f graphql.CollectedField) graphql.Marshaler {
	graphql.AddError(ctx, &gqlerror.Error{
		Message: "introspection disabled",
		Path:    ast.Path{ast.PathName(f.Alias)},
	})
	return graphql.Null
}

func (ec *executionContext) query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, queryImplementors)
	out := graphql.NewFieldSet(fields)
	invalid := false
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Query")
		case "__schema", "__type":
			out.Values[i] = ec.introspectionDisabled(ctx, f)
		case "provider":
			out.Values[i] = graphql.MarshalString(ec.resolver.Provider())
		case "tokenizeReply":
			reply, ok := f.ArgumentMap(ec.opCtx.Variables)["reply"].(string)
			if !ok {
				ec.fieldError(ctx, f, errors.New("argument reply: expected String!"))
				out.Values[i] = graphql.Null
				invalid = true
				continue
			}
			result := ec.resolver.TokenizeReply(ctx, reply)
			out.Values[i] = ec.translationWithTokens(result, f.Selections)
		default:
			out.Values[i] = graphql.Null
		}
	}
	// tokenizeReply is non-null, so its failure nulls the whole result.
	if invalid {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) mutation(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, mutationImplementors)
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Mutation")
		case "translate":
			input, ok := f.ArgumentMap(ec.opCtx.Variables)["input"].(map[string]any)
			if !ok {
				ec.fieldError(ctx, f, errors.New("argument input: expected TranslateInput!"))
				out.Values[i] = graphql.Null
				continue
			}
			result, err := ec.resolver.Translate(ctx, input)
			if err != nil {
				ec.fieldError(ctx, f, err)
				out.Values[i] = graphql.Null
				continue
			}
			out.Values[i] = ec.translationWithTokens(*result, f.Selections)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) translationWithTokens(t domain.TranslationWithTokens, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, translationWithTokensImplementors)
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("TranslationWithTokens")
		case "translation":
			out.Values[i] = graphql.MarshalString(t.Translation)
		case "tokens":
			list := make(graphql.Array, len(t.Tokens))
			for j, tok := range t.Tokens {
				list[j] = ec.token(tok, f.Selections)
			}
			out.Values[i] = list
		case "metadata":
			out.Values[i] = ec.translationMetadata(t.Metadata, f.Selections)
		case "text":
			out.Values[i] = graphql.MarshalString(fallback.Text(t.Tokens))
		case "wordCount":
			out.Values[i] = graphql.MarshalInt(domain.CountWords(t.Tokens))
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) translationMetadata(m domain.TranslationMetadata, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, translationMetadataImplementors)
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("TranslationMetadata")
		case "hasWarnings":
			out.Values[i] = graphql.MarshalBoolean(m.HasWarnings)
		case "warnings":
			list := make(graphql.Array, len(m.Warnings))
			for j, w := range m.Warnings {
				list[j] = graphql.MarshalString(w)
			}
			out.Values[i] = list
		case "usedFallback":
			out.Values[i] = graphql.MarshalBoolean(m.UsedFallback)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

// token resolves one member of the Token union.
func (ec *executionContext) token(t domain.Token, sel ast.SelectionSet) graphql.Marshaler {
	switch t := t.(type) {
	case *domain.WordToken:
		return ec.wordToken(t, sel)
	case *domain.PunctuationToken:
		return ec.valueToken("PunctuationToken", punctuationTokenImplementors, t.Value, sel)
	case *domain.WhitespaceToken:
		return ec.valueToken("WhitespaceToken", whitespaceTokenImplementors, t.Value, sel)
	default:
		return graphql.Null
	}
}

func (ec *executionContext) wordToken(t *domain.WordToken, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, wordTokenImplementors)
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("WordToken")
		case "toWord":
			out.Values[i] = graphql.MarshalString(t.ToWord)
		case "toLemma":
			out.Values[i] = graphql.MarshalString(t.ToLemma)
		case "fromWord":
			out.Values[i] = graphql.MarshalString(t.FromWord)
		case "fromLemma":
			out.Values[i] = graphql.MarshalString(t.FromLemma)
		case "pos":
			out.Values[i] = marshalEnum(t.POS)
		case "difficulty":
			out.Values[i] = marshalEnum(t.Difficulty)
		case "fromDefinition":
			if t.FromDefinition == nil {
				out.Values[i] = graphql.Null
			} else {
				out.Values[i] = graphql.MarshalString(*t.FromDefinition)
			}
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) valueToken(typeName string, implementors []string, value string, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, implementors)
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString(typeName)
		case "value":
			out.Values[i] = graphql.MarshalString(value)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

// marshalEnum maps a lower-case domain enum to its GraphQL name, or null.
func marshalEnum[T ~string](v *T) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return graphql.MarshalString(strings.ToUpper(string(*v)))
}
