// Package grammar implements the table-construction pipeline: a grammar is
// assembled through GrammarBuilder (§4.1), then Compile runs it through the
// FIRST-set analyzer, the LR(0) item-set builder, the LALR(1) lookahead
// propagator and the table generator to produce a ParsingTable plus any
// conflicts the conflict reporter collected along the way.
package grammar

import (
	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/grammar/symbol"
)

// Grammar is the frozen Data Model (§3): a symbol table, a production
// arena, the designated start symbol and its augmentation, any declared
// whitespace patterns (handed to the lexer-builder collaborator, never
// consumed here), and the precedence/associativity side table.
type Grammar struct {
	name string

	symTab *symbol.SymbolTable
	prods  *productionSet

	startSym     symbol.Symbol
	augmentedSym symbol.Symbol

	whitespace []string

	precAndAssoc *precAndAssoc
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symTab.Reader()
}

func (g *Grammar) Whitespace() []string {
	return g.whitespace
}

// CompiledGrammar is the outbound artifact (§6): everything a parse-table
// consumer needs and nothing it doesn't — it never exposes the mutable
// productionSet or SymbolTable types directly, only read-only views.
type CompiledGrammar struct {
	Grammar *Grammar
	Table   *ParsingTable

	automaton *lr0Automaton
	conflicts []conflict
}

type compileConfig struct {
	sink errs.Sink
}

type CompileOption func(*compileConfig)

// WithErrorSink routes every diagnostic the compiler's stages produce
// (conflicts included) through sink instead of the default collector
// Compile creates for its own bookkeeping.
func WithErrorSink(sink errs.Sink) CompileOption {
	return func(c *compileConfig) {
		c.sink = sink
	}
}

// Compile runs the full pipeline described in §4: FIRST-set analysis,
// LR(0) canonical collection, LALR(1) lookahead propagation, and table
// generation with conflict resolution.
func Compile(g *Grammar, opts ...CompileOption) (*CompiledGrammar, error) {
	cfg := &compileConfig{sink: errs.NewCollector()}
	for _, opt := range opts {
		opt(cfg)
	}

	symTabWriter := g.symTab.Writer()
	first, err := computeFirsts(g.prods, symTabWriter)
	if err != nil {
		return nil, err
	}

	lr0, err := genLR0Automaton(g.prods, g.augmentedSym, symbol.SymbolError)
	if err != nil {
		return nil, err
	}

	lalr1, err := genLALR1Automaton(lr0, g.prods, first)
	if err != nil {
		return nil, err
	}

	termCount := 0
	for _, sym := range g.symTab.Reader().TerminalSymbols() {
		if sym.Num().Int() > termCount {
			termCount = sym.Num().Int()
		}
	}
	nonTermCount := 0
	for _, sym := range g.symTab.Reader().NonTerminalSymbols() {
		if sym.Num().Int() > nonTermCount {
			nonTermCount = sym.Num().Int()
		}
	}

	builder := &lrTableBuilder{
		automaton:    lalr1.lr0Automaton,
		prods:        g.prods,
		termCount:    termCount + 1,
		nonTermCount: nonTermCount + 1,
		symTab:       g.symTab.Reader(),
		precAndAssoc: g.precAndAssoc,
		sink:         cfg.sink,
	}
	table, err := builder.build()
	if err != nil {
		return nil, err
	}

	return &CompiledGrammar{
		Grammar:   g,
		Table:     table,
		automaton: lalr1.lr0Automaton,
		conflicts: builder.conflicts,
	}, nil
}
