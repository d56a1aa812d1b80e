package gramfile

import (
	"strings"
	"testing"

	"github.com/orithia/lalrgen/errs"
	"github.com/stretchr/testify/require"
)

const exprDoc = `
name: expr
start: e
whitespace:
  - "[ \t\n]+"
terminals:
  - name: plus
    kind: literal
    pattern: "+"
  - name: star
    kind: literal
    pattern: "*"
  - name: id
    kind: regex
    pattern: "[0-9]+"
precedence:
  - assoc: left
    symbols: [plus]
  - assoc: left
    symbols: [star]
productions:
  - lhs: e
    alternatives:
      - rhs: [e, plus, e]
      - rhs: [e, star, e]
      - rhs: [id]
`

func TestLoad_expr(t *testing.T) {
	doc, err := Load(strings.NewReader(exprDoc))
	require.NoError(t, err)
	require.Equal(t, "expr", doc.Name)
	require.Equal(t, "e", doc.Start)
	require.Len(t, doc.Productions, 1)
	require.Len(t, doc.Productions[0].Alternatives, 3)
	require.Greater(t, doc.Productions[0].line, 0)
}

func TestDocument_Build(t *testing.T) {
	doc, err := Load(strings.NewReader(exprDoc))
	require.NoError(t, err)

	sink := errs.NewCollector()
	g, err := doc.Build(sink)
	require.NoError(t, err)
	require.Empty(t, sink.Errors())
	require.Equal(t, "expr", g.Name())
	require.Equal(t, []string{"[ \t\n]+"}, g.Whitespace())
}

func TestDocument_Build_undefinedNonTerminal(t *testing.T) {
	const src = `
name: broken
start: s
productions:
  - lhs: s
    alternatives:
      - rhs: [never_defined]
`
	doc, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	sink := errs.NewCollector()
	_, err = doc.Build(sink)
	require.Error(t, err)

	var found bool
	for _, e := range sink.Errors() {
		if e.Code == errs.CodeUndefinedSymbol {
			found = true
		}
	}
	require.True(t, found, "expected UNDEFINED_SYMBOL, got: %v", sink.Errors())
}

func TestDocument_Build_undeclaredPrecedenceSymbol(t *testing.T) {
	const src = `
name: broken
start: s
precedence:
  - assoc: left
    symbols: [ghost]
productions:
  - lhs: s
    alternatives:
      - rhs: [id]
terminals:
  - name: id
    kind: regex
    pattern: "[0-9]+"
`
	doc, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	sink := errs.NewCollector()
	_, err = doc.Build(sink)
	require.Error(t, err)

	var found bool
	for _, e := range sink.Errors() {
		if e.Code == errs.CodeUndefinedSymbol {
			found = true
		}
	}
	require.True(t, found, "expected an undeclared-terminal diagnostic, got: %v", sink.Errors())
}
