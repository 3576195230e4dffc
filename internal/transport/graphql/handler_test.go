package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

// --- helpers ---

type mockService struct {
	generateFn func(ctx context.Context, req translation.Request) (domain.TranslationWithTokens, error)
	tokenizeFn func(ctx context.Context, reply string) domain.TranslationWithTokens
}

func (m *mockService) GenerateTranslationWithTokens(ctx context.Context, req translation.Request) (domain.TranslationWithTokens, error) {
	return m.generateFn(ctx, req)
}

func (m *mockService) TokenizeReply(ctx context.Context, reply string) domain.TranslationWithTokens {
	return m.tokenizeFn(ctx, reply)
}

func (m *mockService) ProviderName() string { return "stub" }

func fixedResult() domain.TranslationWithTokens {
	pos := domain.PartOfSpeechInterjection
	level := domain.CEFRLevelA1
	return domain.TranslationWithTokens{
		Translation: "Hi!",
		Tokens: []domain.Token{
			&domain.WordToken{ToWord: "Hi", ToLemma: "hi", FromWord: "Hola", FromLemma: "hola", POS: &pos, Difficulty: &level},
			&domain.PunctuationToken{Value: "!"},
		},
		Metadata: domain.TranslationMetadata{Warnings: []string{}},
	}
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Path       []any          `json:"path"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

func doQuery(t *testing.T, svc *mockService, query string, variables map[string]any) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).ServeHTTP(rec, req)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

// --- tests ---

func TestTranslate_SelectsUnionMembers(t *testing.T) {
	var got translation.Request
	svc := &mockService{
		generateFn: func(_ context.Context, req translation.Request) (domain.TranslationWithTokens, error) {
			got = req
			return fixedResult(), nil
		},
	}

	resp := doQuery(t, svc, `mutation($in: TranslateInput!) {
		translate(input: $in) {
			translation
			wordCount
			tokens {
				__typename
				... on WordToken { toWord fromLemma pos difficulty fromDefinition }
				... on PunctuationToken { value }
			}
			metadata { hasWarnings warnings usedFallback }
		}
	}`, map[string]any{"in": map[string]any{"prompt": "Hola!", "maxTokens": 64, "temperature": 0.5}})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"translation": "Hi!",
		"wordCount": 1,
		"tokens": [
			{"__typename":"WordToken","toWord":"Hi","fromLemma":"hola","pos":"INTERJECTION","difficulty":"A1","fromDefinition":null},
			{"__typename":"PunctuationToken","value":"!"}
		],
		"metadata": {"hasWarnings": false, "warnings": [], "usedFallback": false}
	}`, string(resp.Data["translate"]))

	assert.Equal(t, "Hola!", got.Prompt)
	require.NotNil(t, got.MaxTokens)
	assert.Equal(t, 64, *got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.5, *got.Temperature, 1e-9)
}

func TestTranslate_InlineArguments(t *testing.T) {
	var got translation.Request
	svc := &mockService{
		generateFn: func(_ context.Context, req translation.Request) (domain.TranslationWithTokens, error) {
			got = req
			return fixedResult(), nil
		},
	}

	resp := doQuery(t, svc, `mutation { translate(input: {prompt: "x", maxTokens: 10, temperature: 1}) { translation } }`, nil)

	require.Empty(t, resp.Errors)
	require.NotNil(t, got.MaxTokens)
	assert.Equal(t, 10, *got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 1.0, *got.Temperature, 1e-9)
}

func TestTranslate_ProviderError(t *testing.T) {
	svc := &mockService{
		generateFn: func(context.Context, translation.Request) (domain.TranslationWithTokens, error) {
			return domain.TranslationWithTokens{}, fmt.Errorf("anthropic: %w", domain.ErrProvider)
		},
	}

	resp := doQuery(t, svc, `mutation { translate(input: {prompt: "x"}) { translation } }`, nil)

	assert.JSONEq(t, `null`, string(resp.Data["translate"]))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "translation provider failed", resp.Errors[0].Message)
	assert.Equal(t, "PROVIDER", resp.Errors[0].Extensions["code"])
	assert.Equal(t, []any{"translate"}, resp.Errors[0].Path)
}

func TestTranslate_ValidationError(t *testing.T) {
	svc := &mockService{
		generateFn: func(_ context.Context, req translation.Request) (domain.TranslationWithTokens, error) {
			if err := req.Validate(); err != nil {
				return domain.TranslationWithTokens{}, err
			}
			return fixedResult(), nil
		},
	}

	resp := doQuery(t, svc, `mutation { translate(input: {prompt: " ", maxTokens: 0}) { translation } }`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "VALIDATION", resp.Errors[0].Extensions["code"])
	assert.Equal(t, []any{"prompt: required", "maxTokens: must be positive"}, resp.Errors[0].Extensions["fields"])
}

func TestTokenizeReply_FallbackText(t *testing.T) {
	svc := &mockService{
		tokenizeFn: func(_ context.Context, reply string) domain.TranslationWithTokens {
			return translation.TokenizeReply(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), reply)
		},
	}

	resp := doQuery(t, svc, `query($r: String!) {
		tokenizeReply(reply: $r) {
			text
			tokens { ... on WhitespaceToken { ws: value } ... on WordToken { toWord toLemma } }
			metadata { usedFallback }
		}
	}`, map[string]any{"r": "Good  Morning"})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"text": "Good  Morning",
		"tokens": [
			{"toWord":"Good","toLemma":"good"},
			{"ws":"  "},
			{"toWord":"Morning","toLemma":"morning"}
		],
		"metadata": {"usedFallback": true}
	}`, string(resp.Data["tokenizeReply"]))
}

func TestProvider(t *testing.T) {
	resp := doQuery(t, &mockService{}, `{ provider __typename }`, nil)

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `"stub"`, string(resp.Data["provider"]))
	assert.JSONEq(t, `"Query"`, string(resp.Data["__typename"]))
}

func TestQueryValidationErrorIsNotMasked(t *testing.T) {
	resp := doQuery(t, &mockService{}, `{ nope }`, nil)

	require.NotEmpty(t, resp.Errors)
	assert.NotEqual(t, "internal error", resp.Errors[0].Message)
	assert.Contains(t, resp.Errors[0].Message, "nope")
}

func TestIntrospectionIsReportedAsDisabled(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"schema", `{ __schema { queryType { name } } }`, "__schema"},
		{"type", `{ __type(name: "Token") { name } }`, "__type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doQuery(t, &mockService{}, tt.query, nil)

			require.Len(t, resp.Errors, 1)
			assert.Equal(t, "introspection disabled", resp.Errors[0].Message)
			assert.Equal(t, []any{tt.field}, resp.Errors[0].Path)
			assert.JSONEq(t, `null`, string(resp.Data[tt.field]))
		})
	}
}

func TestTokenizeReply_NilWarningsEncodeAsEmptyList(t *testing.T) {
	svc := &mockService{
		tokenizeFn: func(context.Context, string) domain.TranslationWithTokens {
			return domain.TranslationWithTokens{Translation: "x", Tokens: []domain.Token{&domain.WordToken{ToWord: "x", ToLemma: "x"}}}
		},
	}

	resp := doQuery(t, svc, `{ tokenizeReply(reply: "x") { metadata { warnings } } }`, nil)

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"metadata":{"warnings":[]}}`, string(resp.Data["tokenizeReply"]))
}
