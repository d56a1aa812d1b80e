package grammar

import (
	"testing"

	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/grammar/symbol"
)

// buildTestGrammar drives a GrammarBuilder through fn and fails the test if
// the result has any reported errors, the way the source's test fixtures
// parsed a literal grammar source string and failed on a parse error.
func buildTestGrammar(t *testing.T, fn func(b *GrammarBuilder)) *Grammar {
	t.Helper()

	sink := errs.NewCollector()
	b := NewGrammarBuilder(sink)
	fn(b)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build grammar: %v; errors: %v", err, sink.Errors())
	}
	return g
}

// exprGrammar is the classic left-recursive expression grammar used
// throughout the FIRST-set and item-set builder tests:
//
//	expr   : expr add term | term ;
//	term   : term mul factor | factor ;
//	factor : l_paren expr r_paren | id ;
func exprGrammar(b *GrammarBuilder) {
	add := b.LiteralRef("+")
	mul := b.LiteralRef("*")
	lParen := b.LiteralRef("(")
	rParen := b.LiteralRef(")")
	id := b.RegexRef("[A-Za-z_][0-9A-Za-z_]*")

	b.BeginProduction("expr", 1)
	b.AddRHSSymbol(b.IdentifierRef("expr"), 1)
	b.AddRHSSymbol(add, 1)
	b.AddRHSSymbol(b.IdentifierRef("term"), 1)
	b.EndAlternative()
	b.AddRHSSymbol(b.IdentifierRef("term"), 1)
	b.EndAlternative()
	b.EndProduction()

	b.BeginProduction("term", 2)
	b.AddRHSSymbol(b.IdentifierRef("term"), 2)
	b.AddRHSSymbol(mul, 2)
	b.AddRHSSymbol(b.IdentifierRef("factor"), 2)
	b.EndAlternative()
	b.AddRHSSymbol(b.IdentifierRef("factor"), 2)
	b.EndAlternative()
	b.EndProduction()

	b.BeginProduction("factor", 3)
	b.AddRHSSymbol(lParen, 3)
	b.AddRHSSymbol(b.IdentifierRef("expr"), 3)
	b.AddRHSSymbol(rParen, 3)
	b.EndAlternative()
	b.AddRHSSymbol(id, 3)
	b.EndAlternative()
	b.EndProduction()
}

// epsilonGrammar is the bracket-matching grammar with an empty alternative:
//
//	s : a s b | ;
func epsilonGrammar(b *GrammarBuilder) {
	a := b.LiteralRef("a")
	bb := b.LiteralRef("b")

	b.BeginProduction("s", 1)
	b.AddRHSSymbol(a, 1)
	b.AddRHSSymbol(b.IdentifierRef("s"), 1)
	b.AddRHSSymbol(bb, 1)
	b.EndAlternative()
	b.EndAlternative() // empty alternative
	b.EndProduction()
}

func mustSymbol(t *testing.T, g *Grammar, text string) symbol.Symbol {
	t.Helper()
	sym, ok := g.SymbolTable().ToSymbol(text)
	if !ok {
		t.Fatalf("symbol not found: %v", text)
	}
	return sym
}
