package fallback

import (
	"testing"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
)

type tok struct {
	typ  domain.TokenType
	text string
}

func flatten(tokens []domain.Token) []tok {
	out := make([]tok, len(tokens))
	for i, t := range tokens {
		out[i] = tok{typ: t.Type(), text: t.Text()}
	}
	return out
}

func word(s string) tok  { return tok{domain.TokenTypeWord, s} }
func punct(s string) tok { return tok{domain.TokenTypePunctuation, s} }
func space(s string) tok { return tok{domain.TokenTypeWhitespace, s} }

func TestGenerateTokens_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []tok
	}{
		{"hello world", "hello, world!", []tok{word("hello"), punct(","), space(" "), word("world"), punct("!")}},
		{"apostrophe", "don't stop", []tok{word("don't"), space(" "), word("stop")}},
		{"typographic apostrophe", "l’homme", []tok{word("l’homme")}},
		{"leading symbol", "(hi)", []tok{punct("("), punct("h"), punct("i"), punct(")")}},
		{"multiple trailing marks", "what?!", []tok{word("what"), punct("?"), punct("!")}},
		{"whitespace runs", "  a \t\n b  ", []tok{space("  "), word("a"), space(" \t\n "), word("b"), space("  ")}},
		{"digits", "route 66.", []tok{word("route"), space(" "), word("66"), punct(".")}},
		{"non-breaking space", "a\u00a0b", []tok{word("a"), space("\u00a0"), word("b")}},
		{"emoji", "ok 👍", []tok{word("ok"), space(" "), punct("👍")}},
		{"cyrillic", "Привет, мир", []tok{word("Привет"), punct(","), space(" "), word("мир")}},
		{"cjk", "你好。", []tok{word("你好"), punct("。")}},
		{"combining mark", "cafe\u0301!", []tok{word("cafe\u0301"), punct("!")}},
		{"only whitespace", " \n", []tok{space(" \n")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := flatten(GenerateTokens(tt.in))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateTokens_WordTokenShape(t *testing.T) {
	t.Parallel()

	tokens := GenerateTokens("Hello \u00c9COLE")

	first, ok := tokens[0].(*domain.WordToken)
	if !ok {
		t.Fatalf("first token is %T", tokens[0])
	}
	if first.ToWord != "Hello" || first.ToLemma != "hello" {
		t.Errorf("got to_word=%q to_lemma=%q", first.ToWord, first.ToLemma)
	}
	if first.FromWord != "" || first.FromLemma != "" {
		t.Errorf("fallback words carry no source alignment, got %q/%q", first.FromWord, first.FromLemma)
	}
	if first.POS != nil || first.Difficulty != nil || first.FromDefinition != nil {
		t.Error("fallback words carry no metadata")
	}

	last := tokens[2].(*domain.WordToken)
	if last.ToWord != "\u00c9COLE" || last.ToLemma != "\u00e9cole" {
		t.Errorf("got to_word=%q to_lemma=%q", last.ToWord, last.ToLemma)
	}
}

func TestGenerateTokens_Empty(t *testing.T) {
	t.Parallel()

	got := GenerateTokens("")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if !ValidateReconstruction("", got) {
		t.Fatal("empty input must reconstruct")
	}
}

func TestGenerateTokens_InvalidUTF8Reconstructs(t *testing.T) {
	t.Parallel()

	in := "a\xffb \xc3"
	tokens := GenerateTokens(in)
	if !ValidateReconstruction(in, tokens) {
		t.Fatalf("reconstruction failed: %q != %q", Text(tokens), in)
	}

	got := flatten(tokens)
	want := []tok{word("a"), punct("\xff"), punct("b"), space(" "), punct("\xc3")}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestValidateReconstruction_DetectsMismatch(t *testing.T) {
	t.Parallel()

	tokens := []domain.Token{
		&domain.WordToken{ToWord: "hello", ToLemma: "hello"},
		&domain.PunctuationToken{Value: "!"},
	}
	if !ValidateReconstruction("hello!", tokens) {
		t.Error("expected match")
	}
	if ValidateReconstruction("Hello!", tokens) {
		t.Error("casing differences must fail")
	}
	if ValidateReconstruction("hello! ", tokens) {
		t.Error("missing whitespace must fail")
	}
}

func TestGenerateTokens_Deterministic(t *testing.T) {
	t.Parallel()

	in := "It's 5 o'clock — time for tea!"
	a := flatten(GenerateTokens(in))
	b := flatten(GenerateTokens(in))
	if len(a) != len(b) {
		t.Fatal("token counts differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("token %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func FuzzGenerateTokens_Reconstruction(f *testing.F) {
	seeds := []string{
		"",
		"hello, world!",
		"  leading and trailing  ",
		"tabs\tand\nnewlines\r\n",
		"emoji 👩‍👩‍👧 family",
		"Ελληνικά ΚΕΙΜΕΝΟ.",
		"mixed nbsp　ideographic",
		"\xff\xfe invalid",
		"'''",
		"á̂b",
		"日本語のテキスト、句読点。",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, in string) {
		tokens := GenerateTokens(in)
		if !ValidateReconstruction(in, tokens) {
			t.Fatalf("reconstruction failed for %q: got %q", in, Text(tokens))
		}
		for i, tk := range tokens {
			if tk.Text() == "" {
				t.Fatalf("token %d of %q is empty", i, in)
			}
		}
	})
}
