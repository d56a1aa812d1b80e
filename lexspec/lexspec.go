// Package lexspec translates a compiled Grammar's terminal alphabet
// into the maleeni lexer-builder's input format — the "outbound to
// lexer builder" interface (§6): the set of terminal-literal and
// terminal-regex symbols, plus whitespace patterns to skip. It never
// runs maleeni's DFA compiler; that belongs to whichever caller
// actually needs a runnable lexer, consistent with lexical DFA
// construction being out of this module's scope.
package lexspec

import (
	"fmt"

	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/orithia/lalrgen/grammar"
	"github.com/orithia/lalrgen/grammar/symbol"
)

// FromGrammar builds a *mlspec.LexSpec with one LexEntry per
// terminal-literal or terminal-regex symbol in g, named after the
// symbol's own text, plus one synthetic entry per declared whitespace
// pattern so a caller can mark those kinds as skippable.
func FromGrammar(g *grammar.Grammar) *mlspec.LexSpec {
	symTab := g.SymbolTable()

	terms := symTab.TerminalSymbols()
	entries := make([]*mlspec.LexEntry, 0, len(terms)+len(g.Whitespace()))
	for _, sym := range terms {
		if sym.IsError() {
			continue
		}
		kind := symTab.TerminalKind(sym)
		if kind == symbol.TerminalKindNone {
			continue
		}

		name, _ := symTab.ToText(sym)
		pattern := symTab.Pattern(sym)
		if kind == symbol.TerminalKindLiteral {
			pattern = mlspec.EscapePattern(pattern)
		}
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(name),
			Pattern: mlspec.LexPattern(pattern),
		})
	}

	for i, ws := range g.Whitespace() {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(fmt.Sprintf("__ws%d", i)),
			Pattern: mlspec.LexPattern(ws),
		})
	}

	return &mlspec.LexSpec{
		Name:    g.Name(),
		Entries: entries,
	}
}

// WhitespaceKinds returns the LexKindName of every synthetic
// whitespace entry FromGrammar generated, so a caller building a
// driver can mark exactly those kinds as skip-on-read.
func WhitespaceKinds(g *grammar.Grammar) []mlspec.LexKindName {
	kinds := make([]mlspec.LexKindName, len(g.Whitespace()))
	for i := range g.Whitespace() {
		kinds[i] = mlspec.LexKindName(fmt.Sprintf("__ws%d", i))
	}
	return kinds
}
