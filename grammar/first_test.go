package grammar

import "testing"

func TestComputeFirsts_expr(t *testing.T) {
	g := buildTestGrammar(t, exprGrammar)

	fst, err := computeFirsts(g.prods, g.symTab.Writer())
	if err != nil {
		t.Fatal(err)
	}

	lParen := mustSymbol(t, g, "(")
	id := mustSymbol(t, g, "[A-Za-z_][0-9A-Za-z_]*")

	for _, name := range []string{"expr", "term", "factor"} {
		sym := mustSymbol(t, g, name)
		entry := fst.findBySymbol(sym)
		if entry == nil {
			t.Fatalf("no FIRST entry for %v", name)
		}
		if entry.empty {
			t.Errorf("%v must not be nullable", name)
		}
		if !entry.symbols.contains(lParen) || !entry.symbols.contains(id) {
			t.Errorf("FIRST(%v) must contain '(' and id; got: %v", name, entry.symbols.slice())
		}
		if entry.symbols.len() != 2 {
			t.Errorf("FIRST(%v) must contain exactly 2 symbols; got: %v", name, entry.symbols.slice())
		}
	}

	if g.SymbolTable().IsNullable(mustSymbol(t, g, "expr")) {
		t.Errorf("expr must not be nullable")
	}
}

func TestComputeFirsts_epsilon(t *testing.T) {
	g := buildTestGrammar(t, epsilonGrammar)

	fst, err := computeFirsts(g.prods, g.symTab.Writer())
	if err != nil {
		t.Fatal(err)
	}

	s := mustSymbol(t, g, "s")
	a := mustSymbol(t, g, "a")

	entry := fst.findBySymbol(s)
	if entry == nil {
		t.Fatal("no FIRST entry for s")
	}
	if !entry.empty {
		t.Errorf("s must be nullable")
	}
	if !entry.symbols.contains(a) {
		t.Errorf("FIRST(s) must contain 'a'; got: %v", entry.symbols.slice())
	}

	if !g.SymbolTable().IsNullable(s) {
		t.Errorf("the nullable flag on s must be set after computeFirsts runs")
	}
}
