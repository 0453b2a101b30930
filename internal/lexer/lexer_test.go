package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/diagnostic"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	diags := diagnostic.NewList()
	l := New("t.gul", src, diags)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	require.False(t, diags.HasErrors(), "unexpected lex errors: %s", diags.Format())
	return toks
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "struct Foo func bar")
	kinds := []Kind{KwStruct, Ident, KwFunc, Ident, EOF}
	require.Len(t, toks, len(kinds))
	for i, k := range kinds {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestRightShiftSplittingToggle(t *testing.T) {
	diags := diagnostic.NewList()
	l := New("t.gul", "a >> b", diags)
	tok := l.Next()
	require.Equal(t, Ident, tok.Kind)
	tok = l.Next()
	assert.Equal(t, Shr, tok.Kind, "without splitting, >> combines")

	l2 := New("t.gul", "List<List<T>>", diags)
	l2.Next() // Ident "List"
	l2.Next() // Less
	l2.PushRightShiftSplitting()
	l2.Next() // Ident "List"
	l2.Next() // Less
	l2.PushRightShiftSplitting()
	l2.Next() // Ident "T"
	tok1 := l2.Next()
	assert.Equal(t, TemplateEnd, tok1.Kind, "first > of >> splits")
	l2.PopRightShiftSplitting()
	tok2 := l2.Next()
	assert.Equal(t, TemplateEnd, tok2.Kind, "second > of >> also splits")
	l2.PopRightShiftSplitting()
}

func TestCheckpointRewind(t *testing.T) {
	diags := diagnostic.NewList()
	l := New("t.gul", "foo bar baz", diags)
	l.Next() // foo
	l.Checkpoint()
	l.Next() // bar
	l.Rewind()
	tok := l.Next()
	assert.Equal(t, "bar", tok.Text, "rewind should replay bar")
}

func TestNumericLiteralSuffix(t *testing.T) {
	toks := scanAll(t, "42px 3.14f32")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, IntLiteral, toks[0].Kind)
	num, suffix := SuffixOf(toks[0].Text)
	assert.Equal(t, "42", num)
	assert.Equal(t, "px", suffix)

	assert.Equal(t, FloatLiteral, toks[1].Kind)
	num2, suffix2 := SuffixOf(toks[1].Text)
	assert.Equal(t, "3.14", num2)
	assert.Equal(t, "f32", suffix2)
}

func TestFloatVsMemberAccessDisambiguation(t *testing.T) {
	toks := scanAll(t, "1.toString()")
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, IntLiteral, toks[0].Kind)
	assert.Equal(t, "1", toks[0].Text)
	assert.Equal(t, Dot, toks[1].Kind)
	assert.Equal(t, Ident, toks[2].Kind)
	assert.Equal(t, "toString", toks[2].Text)
}

func TestUnterminatedStringReportsDiagnostic(t *testing.T) {
	diags := diagnostic.NewList()
	l := New("t.gul", `"unterminated`, diags)
	l.Next()
	assert.True(t, diags.HasErrors())
	assert.Equal(t, diagnostic.CodeUnterminatedString, diags.Items()[0].Code)
}
