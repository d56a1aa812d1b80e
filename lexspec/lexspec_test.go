package lexspec

import (
	"testing"

	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/grammar"
)

func TestFromGrammar(t *testing.T) {
	sink := errs.NewCollector()
	b := grammar.NewGrammarBuilder(sink)
	b.SetIdentity("expr")
	b.DeclareWhitespace(`[ \t\n]+`)

	plus := b.LiteralRef("+")
	id := b.RegexRef("[0-9]+")

	b.BeginProduction("e", 1)
	b.AddRHSSymbol(b.IdentifierRef("e"), 1)
	b.AddRHSSymbol(plus, 1)
	b.AddRHSSymbol(b.IdentifierRef("e"), 1)
	b.EndAlternative()
	b.AddRHSSymbol(id, 1)
	b.EndAlternative()
	b.EndProduction()

	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v; errors: %v", err, sink.Errors())
	}

	spec := FromGrammar(g)
	if spec.Name != "expr" {
		t.Errorf("Name = %q, want %q", spec.Name, "expr")
	}

	// "+" and the regex terminal, plus one synthetic whitespace entry.
	if len(spec.Entries) != 3 {
		t.Fatalf("got %v entries, want 3: %+v", len(spec.Entries), spec.Entries)
	}

	kinds := WhitespaceKinds(g)
	if len(kinds) != 1 {
		t.Fatalf("got %v whitespace kinds, want 1", len(kinds))
	}

	var sawWhitespaceEntry bool
	for _, e := range spec.Entries {
		if e.Kind == kinds[0] {
			sawWhitespaceEntry = true
		}
	}
	if !sawWhitespaceEntry {
		t.Error("no lex entry found for the declared whitespace pattern")
	}
}
