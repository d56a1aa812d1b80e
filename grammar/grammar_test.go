package grammar

import (
	"testing"

	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/grammar/symbol"
)

func TestCompile_expr(t *testing.T) {
	g := buildTestGrammar(t, exprGrammar)

	cg, err := Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	if cg.Table.StateCount() == 0 {
		t.Fatal("compiled table has no states")
	}
}

// TestCompile_precedenceResolvesAmbiguity builds the classic
//
//	e : e '+' e | e '*' e | id ;
//
// grammar, which is ambiguous as written, and checks that declaring '+'
// and '*' left-associative with '*' binding tighter collapses every
// shift/reduce conflict without leaving one unresolved.
func TestCompile_precedenceResolvesAmbiguity(t *testing.T) {
	sink := errs.NewCollector()
	b := NewGrammarBuilder(sink)

	plus := b.LiteralRef("+")
	star := b.LiteralRef("*")
	id := b.RegexRef("[0-9]+")

	b.DeclarePrecedenceClass(symbol.AssocLeft, plus)
	b.DeclarePrecedenceClass(symbol.AssocLeft, star)

	b.BeginProduction("e", 1)
	b.AddRHSSymbol(b.IdentifierRef("e"), 1)
	b.AddRHSSymbol(plus, 1)
	b.AddRHSSymbol(b.IdentifierRef("e"), 1)
	b.EndAlternative()
	b.AddRHSSymbol(b.IdentifierRef("e"), 1)
	b.AddRHSSymbol(star, 1)
	b.AddRHSSymbol(b.IdentifierRef("e"), 1)
	b.EndAlternative()
	b.AddRHSSymbol(id, 1)
	b.EndAlternative()
	b.EndProduction()

	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v; errors: %v", err, sink.Errors())
	}

	tableSink := errs.NewCollector()
	_, err = Compile(g, WithErrorSink(tableSink))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range tableSink.Errors() {
		t.Errorf("unexpected diagnostic: %v", e)
	}
}

// TestCompile_reduceReduceChoosesEarlierProduction exercises the
// reduce/reduce fallback of §4.5: when two productions with no precedence
// to compare both reduce on the same lookahead, the one declared earlier
// wins.
func TestCompile_reduceReduceChoosesEarlierProduction(t *testing.T) {
	sink := errs.NewCollector()
	b := NewGrammarBuilder(sink)

	x := b.LiteralRef("x")

	b.BeginProduction("s", 1)
	b.AddRHSSymbol(b.IdentifierRef("a"), 1)
	b.EndAlternative()
	b.AddRHSSymbol(b.IdentifierRef("bb"), 1)
	b.EndAlternative()
	b.EndProduction()

	b.BeginProduction("a", 2)
	b.AddRHSSymbol(x, 2)
	b.EndAlternative()
	b.EndProduction()

	b.BeginProduction("bb", 3)
	b.AddRHSSymbol(x, 3)
	b.EndAlternative()
	b.EndProduction()

	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v; errors: %v", err, sink.Errors())
	}

	tableSink := errs.NewCollector()
	cg, err := Compile(g, WithErrorSink(tableSink))
	if err != nil {
		t.Fatal(err)
	}

	aProds, _ := g.prods.findByLHS(mustSymbol(t, g, "a"))
	for _, c := range cg.conflicts {
		rr, ok := c.(*reduceReduceConflict)
		if !ok {
			continue
		}
		ty, _, p := cg.Table.GetAction(rr.state, rr.sym.Num())
		if ty != ActionTypeReduce || p != aProds[0].num {
			t.Errorf("reduce/reduce conflict on %v must adopt a's production %v; got: %v %v", rr.sym, aProds[0].num, ty, p)
		}
	}

	found := false
	for _, e := range tableSink.Errors() {
		if e.Code == errs.CodeParseTableConflict {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a reduce/reduce conflict to be reported")
	}
}

func TestBuild_emptyGrammar(t *testing.T) {
	sink := errs.NewCollector()
	b := NewGrammarBuilder(sink)
	if _, err := b.Build(); err == nil {
		t.Fatal("expected an error for an empty grammar")
	}
	assertHasCode(t, sink, errs.CodeEmptyGrammar)
}

func TestBuild_undefinedSymbol(t *testing.T) {
	sink := errs.NewCollector()
	b := NewGrammarBuilder(sink)

	b.BeginProduction("s", 1)
	b.AddRHSSymbol(b.IdentifierRef("never_defined"), 1)
	b.EndAlternative()
	b.EndProduction()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected an error for an undefined non-terminal")
	}
	assertHasCode(t, sink, errs.CodeUndefinedSymbol)
}

func TestBuild_duplicateProduction(t *testing.T) {
	sink := errs.NewCollector()
	b := NewGrammarBuilder(sink)

	a := b.LiteralRef("a")
	b.BeginProduction("s", 1)
	b.AddRHSSymbol(a, 1)
	b.EndAlternative()
	b.AddRHSSymbol(a, 1)
	b.EndAlternative()
	b.EndProduction()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected an error for a duplicate production")
	}
	assertHasCode(t, sink, errs.CodeDuplicateProduction)
}

func TestBuild_symbolKindConflict(t *testing.T) {
	sink := errs.NewCollector()
	b := NewGrammarBuilder(sink)

	b.LiteralRef("x")
	b.BeginProduction("s", 1)
	b.AddRHSSymbol(b.IdentifierRef("x"), 1)
	b.EndAlternative()
	b.EndProduction()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected an error for a symbol used as both a terminal and a non-terminal")
	}
	assertHasCode(t, sink, errs.CodeSymbolKindConflict)
}

func assertHasCode(t *testing.T, sink *errs.Collector, code errs.Code) {
	t.Helper()
	for _, e := range sink.Errors() {
		if e.Code == code {
			return
		}
	}
	t.Fatalf("expected an error with code %v; got: %v", code, sink.Errors())
}
