package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/myenglish-reader/internal/tokens/fallback"
)

// joinYAMLTokens decodes a YAML token list and concatenates the visible text.
func joinYAMLTokens(t *testing.T, out []byte) string {
	t.Helper()

	var toks []map[string]any
	require.NoError(t, yaml.Unmarshal(out, &toks))
	return joinTokens(t, toks)
}

func joinTokens(t *testing.T, toks []map[string]any) string {
	t.Helper()

	var b strings.Builder
	for _, tok := range toks {
		if w, ok := tok["to_word"].(string); ok {
			b.WriteString(w)
			continue
		}
		v, ok := tok["value"].(string)
		require.True(t, ok, "token without text: %v", tok)
		b.WriteString(v)
	}
	return b.String()
}

func TestWriteResult_YAMLKeepsLineBreaks(t *testing.T) {
	t.Parallel()

	tests := []string{
		"Line one.\nLine two.",
		"Para one.\n\nPara two.\n",
		"a\r\nb",
		"tab\there  and   spaces",
		"\n",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, writeResult(&buf, formatYAML, false, fallback.GenerateTokens(text)))

			assert.Equal(t, text, joinYAMLTokens(t, buf.Bytes()), "yaml:\n%s", buf.String())
		})
	}
}

func TestWriteResult_YAMLLeavesPlainWordsUnquoted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatYAML, false, fallback.GenerateTokens("Hello world")))

	assert.Contains(t, buf.String(), "to_word: Hello")
	assert.Contains(t, buf.String(), `value: " "`)
}

func TestTokenize_YAMLReconstructsMultilineReply(t *testing.T) {
	text := "Line one.\nLine two."
	out, _, err := runCLI(t, text, "tokenize", "--format", "yaml")
	require.NoError(t, err)

	var res struct {
		Translation string           `yaml:"translation"`
		Tokens      []map[string]any `yaml:"tokens"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, text, res.Translation)
	assert.Equal(t, text, joinTokens(t, res.Tokens))
}
