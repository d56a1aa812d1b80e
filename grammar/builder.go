package grammar

import (
	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/grammar/symbol"
)

// symbolRefKind tags what kind of reference a symbolRef is — the same
// distinction the grammar makes between a quoted literal, a regular
// expression, an identifier (always a non-terminal reference), and the
// error pseudo-terminal.
type symbolRefKind int

const (
	refLiteral symbolRefKind = iota
	refRegex
	refIdentifier
	refError
)

// SymbolRef is the handle the four *Ref constructors hand back to the
// caller and that AddRHSSymbol/SetProductionPrecedence consume. Literal,
// regex, and error refs resolve to a symbol immediately; an identifier ref
// resolves to a non-terminal placeholder that may or may not ever gain a
// production of its own — Build reports it as UNDEFINED_SYMBOL if not.
type SymbolRef struct {
	kind symbolRefKind
	text string
	sym  symbol.Symbol
}

type pendingAlt struct {
	rhs        []symbol.Symbol
	precRef    *SymbolRef
	action     string
	actionLine int
	line       int
}

// GrammarBuilder is the sole ingestion API for the Data Model (§4.1): a
// grammar is assembled by a sequence of Declare/Begin/Add/Set/End calls,
// never by parsing grammar source text — that belongs to a collaborator
// upstream of this package, not to the table-construction pipeline itself.
type GrammarBuilder struct {
	symTab *symbol.SymbolTable
	prods  *productionSet
	sink   errs.Sink

	name       string
	whitespace []string

	precLevel    int
	explicitPrec *precAndAssoc

	definedLHS map[symbol.Symbol]bool

	startSym symbol.Symbol

	curLHS  symbol.Symbol
	curLine int
	cur     *pendingAlt
}

func NewGrammarBuilder(sink errs.Sink) *GrammarBuilder {
	return &GrammarBuilder{
		symTab:       symbol.NewSymbolTable(),
		prods:        newProductionSet(),
		sink:         sink,
		explicitPrec: newPrecAndAssoc(),
		definedLHS:   map[symbol.Symbol]bool{},
	}
}

func (b *GrammarBuilder) SetIdentity(name string) {
	b.name = name
}

// DeclareWhitespace records a pattern the lexer builder should skip between
// tokens. It never interns a symbol: whitespace has no place in the
// production grammar, only in the lexical specification handed to the
// lexer-generator collaborator (§6).
func (b *GrammarBuilder) DeclareWhitespace(pattern string) {
	b.whitespace = append(b.whitespace, pattern)
}

// DeclarePrecedenceClass assigns the next precedence level, in declaration
// order, to every terminal symbol named by refs, with the given
// associativity. Levels start at 1; level 0 (precNil) means "undeclared".
func (b *GrammarBuilder) DeclarePrecedenceClass(assoc symbol.Assoc, refs ...SymbolRef) int {
	b.precLevel++
	level := b.precLevel
	w := b.symTab.Writer()
	for _, ref := range refs {
		if ref.sym.IsNil() {
			continue
		}
		w.SetPrecedence(ref.sym, level, assoc)
	}
	return level
}

// BeginProduction opens the LHS context for one or more alternatives. The
// first BeginProduction call in a builder's lifetime fixes the grammar's
// start symbol, the way the source grammar's first rule does.
func (b *GrammarBuilder) BeginProduction(lhs string, line int) {
	b.checkKind(lhs, line)
	sym, _ := b.symTab.Writer().RegisterNonTerminalSymbol(lhs, line)
	b.definedLHS[sym] = true
	if b.startSym.IsNil() {
		b.startSym = sym
	}
	b.curLHS = sym
	b.curLine = line
	b.cur = &pendingAlt{line: line}
}

// AddRHSSymbol appends a symbol reference to the alternative under
// construction. An identifier ref that names a non-terminal seen for the
// first time is registered as a placeholder here; if it never becomes the
// LHS of any production, Build reports UNDEFINED_SYMBOL for it.
func (b *GrammarBuilder) AddRHSSymbol(ref SymbolRef, line int) {
	if b.cur == nil {
		return
	}
	sym := b.resolveRef(ref, line)
	if sym.IsNil() {
		return
	}
	b.cur.rhs = append(b.cur.rhs, sym)
}

func (b *GrammarBuilder) resolveRef(ref SymbolRef, line int) symbol.Symbol {
	if ref.kind == refIdentifier {
		b.checkKind(ref.text, line)
		sym, _ := b.symTab.Writer().RegisterNonTerminalSymbol(ref.text, line)
		return sym
	}
	return ref.sym
}

// checkKind reports SYMBOL_KIND_CONFLICT when text already names a symbol
// of the other kind — a grammar where the same identifier is used as both
// a non-terminal and a terminal name is ambiguous and rejected outright
// rather than silently picking one.
func (b *GrammarBuilder) checkKind(text string, line int) {
	sym, ok := b.symTab.Reader().ToSymbol(text)
	if !ok {
		return
	}
	if sym.IsTerminal() {
		b.sink.ReportCause(errs.CodeSymbolKindConflict, line, 0, semErrDuplicateName, "%v is already declared as a terminal", text)
	}
}

// SetProductionPrecedence overrides the alternative's effective precedence
// with that of an already precedence-classed terminal, taking priority
// over the default (the RHS's rightmost terminal) computed in Build.
func (b *GrammarBuilder) SetProductionPrecedence(ref SymbolRef) {
	if b.cur == nil {
		return
	}
	r := ref
	b.cur.precRef = &r
}

func (b *GrammarBuilder) SetAction(name string, line int) {
	if b.cur == nil {
		return
	}
	b.cur.action = name
	b.cur.actionLine = line
}

// EndAlternative finalizes the alternative under construction into a
// production and appends it to the arena, then resets the scratch state so
// the next alternative of the same LHS can be built.
func (b *GrammarBuilder) EndAlternative() {
	if b.cur == nil {
		return
	}
	alt := b.cur
	b.cur = &pendingAlt{line: b.curLine}

	prod, err := newProduction(b.curLHS, alt.rhs)
	if err != nil {
		b.sink.Report(errs.CodeSyntax, alt.line, 0, "%v", err)
		return
	}
	prod.action = alt.action
	prod.line = alt.line

	if !b.prods.append(prod) {
		b.sink.ReportCause(errs.CodeDuplicateProduction, alt.line, 0, semErrDuplicateProduction, "duplicate production for %v", b.curLHS)
		return
	}

	if alt.precRef != nil {
		r := *alt.precRef
		symTab := b.symTab.Reader()
		level := symTab.Precedence(r.sym)
		assoc := symTab.Associativity(r.sym)
		b.explicitPrec.setProductionPrecedence(prod.num, level, assoc)
	}
}

func (b *GrammarBuilder) EndProduction() {
	b.curLHS = symbol.SymbolNil
	b.cur = nil
}

func (b *GrammarBuilder) LiteralRef(text string) SymbolRef {
	b.checkKindReverse(text, 0)
	sym, _ := b.symTab.Writer().RegisterTerminalSymbol(text, symbol.TerminalKindLiteral, text, 0)
	return SymbolRef{kind: refLiteral, text: text, sym: sym}
}

func (b *GrammarBuilder) RegexRef(text string) SymbolRef {
	b.checkKindReverse(text, 0)
	sym, _ := b.symTab.Writer().RegisterTerminalSymbol(text, symbol.TerminalKindRegex, text, 0)
	return SymbolRef{kind: refRegex, text: text, sym: sym}
}

// checkKindReverse is checkKind's mirror image: it reports
// SYMBOL_KIND_CONFLICT when text already names a non-terminal and a
// caller is about to register it as a terminal. checkKind alone only
// catches an identifier ref naming an existing terminal; without this,
// registering a terminal over an existing non-terminal name would
// silently hand back the non-terminal symbol instead of rejecting it.
func (b *GrammarBuilder) checkKindReverse(text string, line int) {
	sym, ok := b.symTab.Reader().ToSymbol(text)
	if !ok {
		return
	}
	if sym.IsNonTerminal() {
		b.sink.ReportCause(errs.CodeSymbolKindConflict, line, 0, semErrDuplicateName, "%v is already declared as a non-terminal", text)
	}
}

func (b *GrammarBuilder) IdentifierRef(text string) SymbolRef {
	if sym, ok := b.symTab.Reader().ToSymbol(text); ok {
		return SymbolRef{kind: refIdentifier, text: text, sym: sym}
	}
	return SymbolRef{kind: refIdentifier, text: text}
}

func (b *GrammarBuilder) ErrorRef() SymbolRef {
	return SymbolRef{kind: refError, text: "<error>", sym: symbol.SymbolError}
}

// Build freezes the builder into a Grammar: it synthesizes the augmented
// start production, checks the structural invariants every later stage
// relies on (no undefined non-terminals, at least one production, no
// symbol declared as both a terminal and a non-terminal), derives each
// production's effective precedence, and reports an UNUSED_SYMBOL warning
// for every declared terminal that no production ever references (the
// end-marker and the error pseudo-terminal are never reported). Non-terminals
// that are unreachable from the start symbol are not reported.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.startSym.IsNil() {
		b.sink.ReportCause(errs.CodeEmptyGrammar, 0, 0, semErrNoProduction, "a grammar needs at least one production")
		return nil, errs.ErrBuildFailed
	}

	startName, _ := b.symTab.Reader().ToText(b.startSym)
	startSym, err := b.symTab.Writer().RegisterStartSymbol(startName + "'")
	if err != nil {
		b.sink.Report(errs.CodeSyntax, 0, 0, "%v", err)
		return nil, errs.ErrBuildFailed
	}
	augmented, err := newProduction(startSym, []symbol.Symbol{b.startSym})
	if err != nil {
		return nil, err
	}
	b.prods.append(augmented)

	for _, sym := range b.symTab.Reader().NonTerminalSymbols() {
		if sym == b.startSym {
			continue
		}
		if _, ok := b.prods.findByLHS(sym); !ok {
			text, _ := b.symTab.Reader().ToText(sym)
			b.sink.ReportCause(errs.CodeUndefinedSymbol, b.symTab.Reader().Line(sym), 0, semErrUndefinedSym, "undefined non-terminal: %v", text)
		}
	}

	used := map[symbol.Symbol]bool{}
	for _, prod := range b.prods.all() {
		for _, sym := range prod.rhs {
			used[sym] = true
		}
	}
	for _, sym := range b.symTab.Reader().TerminalSymbols() {
		if sym.IsError() || sym.IsEOF() {
			continue
		}
		if !used[sym] {
			text, _ := b.symTab.Reader().ToText(sym)
			b.sink.ReportCause(errs.CodeUnusedSymbol, b.symTab.Reader().Line(sym), 0, semErrUnusedTerminal, "unused terminal: %v", text)
		}
	}

	if b.sink.HasErrors() {
		return nil, errs.ErrBuildFailed
	}

	precAndAssoc := genProdPrecAndAssoc(b.prods, b.symTab.Reader(), b.explicitPrec)

	return &Grammar{
		name:         b.name,
		symTab:       b.symTab,
		prods:        b.prods,
		startSym:     b.startSym,
		augmentedSym: startSym,
		whitespace:   b.whitespace,
		precAndAssoc: precAndAssoc,
	}, nil
}
