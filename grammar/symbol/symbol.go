// Package symbol implements the grammar's symbol alphabet: a dense,
// bit-packed identity for every terminal and non-terminal together with
// the side tables (names, precedence, associativity, source line) that
// the rest of the pipeline attaches to a symbol once it is interned.
package symbol

import (
	"fmt"
	"sort"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

// TerminalKind distinguishes how a terminal is recognized by the lexer
// builder: a fixed literal string or a regular expression pattern.
type TerminalKind int

const (
	TerminalKindNone TerminalKind = iota
	TerminalKindLiteral
	TerminalKindRegex
)

// Assoc is the associativity of a precedence class.
type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol is a dense integer index into the symbol arena, packed so that
// its kind can be read back without a table lookup. The high bit marks
// terminal/non-terminal, the next bit marks a reserved symbol (the start
// symbol among non-terminals; the end-marker and the error pseudo-terminal
// among terminals), and the low 14 bits are the symbol's number within its
// kind.
type Symbol uint16

func (s Symbol) String() string {
	kind, isStart, isEOF, num := s.describe()
	var prefix string
	switch {
	case isStart:
		prefix = "s"
	case isEOF:
		prefix = "e"
	case kind == symbolKindNonTerminal:
		prefix = "n"
	case kind == symbolKindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000)
	maskTerminal    = uint16(0x8000)

	maskSubKindPart    = uint16(0x4000) // 0100 0000 0000 0000
	maskNonStartAndEOF = uint16(0x0000)
	maskStartOrEOF     = uint16(0x4000)

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	symbolNumStart = uint16(0x0001)
	symbolNumEOF   = uint16(0x0001)
	symbolNumError = uint16(0x0002) // Reserved terminal number for the error pseudo-terminal.

	SymbolNil   = Symbol(0)
	symbolStart = Symbol(maskNonTerminal | maskStartOrEOF | symbolNumStart)
	SymbolEOF   = Symbol(maskTerminal | maskStartOrEOF | symbolNumEOF)
	SymbolError = Symbol(maskTerminal | maskStartOrEOF | symbolNumError)

	// Symbol names contain `<` and `>` so they cannot collide with a
	// user-defined identifier.
	symbolNameEOF   = "<eof>"
	symbolNameError = "<error>"

	nonTerminalNumMin = SymbolNum(2) // 1 is reserved for the start symbol.
	terminalNumMin    = SymbolNum(3) // 1 is EOF, 2 is the error pseudo-terminal.
	symbolNumMax      = SymbolNum(0xffff) >> 2
)

func newSymbol(kind symbolKind, isStart bool, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	if kind == symbolKindTerminal && isStart {
		return SymbolNil, fmt.Errorf("a start symbol must be a non-terminal symbol")
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	startMask := maskNonStartAndEOF
	if isStart {
		startMask = maskStartOrEOF
	}
	return Symbol(kindMask | startMask | uint16(num)), nil
}

func (s Symbol) Num() SymbolNum {
	_, _, _, num := s.describe()
	return num
}

func (s Symbol) IsNil() bool {
	_, _, _, num := s.describe()
	return num == 0
}

func (s Symbol) IsStart() bool {
	if s.IsNil() {
		return false
	}
	_, isStart, _, _ := s.describe()
	return isStart
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

func (s Symbol) IsError() bool {
	return s == SymbolError
}

func (s Symbol) isNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	kind, _, _, _ := s.describe()
	return kind == symbolKindNonTerminal
}

func (s Symbol) IsNonTerminal() bool {
	return s.isNonTerminal()
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.isNonTerminal()
}

func (s Symbol) describe() (symbolKind, bool, bool, SymbolNum) {
	kind := symbolKindNonTerminal
	if uint16(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	isStart := false
	isEOF := false
	if uint16(s)&maskSubKindPart > 0 {
		if kind == symbolKindNonTerminal {
			isStart = true
		} else {
			isEOF = true
		}
	}
	num := SymbolNum(uint16(s) & maskNumberPart)
	return kind, isStart, isEOF, num
}

// attrs holds the mutable-until-frozen facts the data model attaches to
// a symbol: its source line, precedence class, associativity, how a
// terminal is matched, and (populated later by the FIRST-set analyzer)
// whether it is nullable.
type attrs struct {
	line         int
	precedence   int
	assoc        Assoc
	termKind     TerminalKind
	pattern      string // literal text or regex source, for terminals only
	nullable     bool
	firstIsFinal bool // not written anywhere; the FIRST-set analyzer records only nullable
}

// SymbolTable is the arena of interned symbols: a bidirectional mapping
// between a symbol's textual name and its dense index, plus the
// per-symbol attribute table. It is built by a SymbolTableWriter during
// the grammar-builder phase and consulted afterwards through a
// SymbolTableReader.
type SymbolTable struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	sym2Attrs    map[Symbol]*attrs
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{
			symbolNameEOF:   SymbolEOF,
			symbolNameError: SymbolError,
		},
		sym2Text: map[Symbol]string{
			SymbolEOF:   symbolNameEOF,
			SymbolError: symbolNameError,
		},
		sym2Attrs: map[Symbol]*attrs{
			SymbolEOF:   {},
			SymbolError: {},
		},
		termTexts: []string{
			"",              // Nil
			symbolNameEOF,   // EOF
			symbolNameError, // error pseudo-terminal
		},
		nonTermTexts: []string{
			"", // Nil
			"", // Start symbol
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{SymbolTable: t}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{SymbolTable: t}
}

func (w *SymbolTableWriter) RegisterStartSymbol(text string) (Symbol, error) {
	w.text2Sym[text] = symbolStart
	w.sym2Text[symbolStart] = text
	w.sym2Attrs[symbolStart] = &attrs{}
	w.nonTermTexts[symbolStart.Num().Int()] = text
	return symbolStart, nil
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string, line int) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, false, w.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	w.nonTermNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.sym2Attrs[sym] = &attrs{line: line}
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, nil
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string, kind TerminalKind, pattern string, line int) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, false, w.termNum)
	if err != nil {
		return SymbolNil, err
	}
	w.termNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.sym2Attrs[sym] = &attrs{line: line, termKind: kind, pattern: pattern}
	w.termTexts = append(w.termTexts, text)
	return sym, nil
}

// SetPrecedence assigns a precedence class to a terminal symbol. The
// effective precedence of productions is not stored here; the grammar
// package tracks it separately.
func (w *SymbolTableWriter) SetPrecedence(sym Symbol, level int, assoc Assoc) {
	a, ok := w.sym2Attrs[sym]
	if !ok {
		a = &attrs{}
		w.sym2Attrs[sym] = a
	}
	a.precedence = level
	a.assoc = assoc
}

func (w *SymbolTableWriter) SetNullable(sym Symbol, nullable bool) {
	a, ok := w.sym2Attrs[sym]
	if !ok {
		a = &attrs{}
		w.sym2Attrs[sym] = a
	}
	a.nullable = nullable
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	sym, ok := r.text2Sym[text]
	return sym, ok
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

func (r *SymbolTableReader) Line(sym Symbol) int {
	a, ok := r.sym2Attrs[sym]
	if !ok {
		return 0
	}
	return a.line
}

func (r *SymbolTableReader) Precedence(sym Symbol) int {
	a, ok := r.sym2Attrs[sym]
	if !ok {
		return 0
	}
	return a.precedence
}

func (r *SymbolTableReader) Associativity(sym Symbol) Assoc {
	a, ok := r.sym2Attrs[sym]
	if !ok {
		return AssocNone
	}
	return a.assoc
}

func (r *SymbolTableReader) TerminalKind(sym Symbol) TerminalKind {
	a, ok := r.sym2Attrs[sym]
	if !ok {
		return TerminalKindNone
	}
	return a.termKind
}

func (r *SymbolTableReader) Pattern(sym Symbol) string {
	a, ok := r.sym2Attrs[sym]
	if !ok {
		return ""
	}
	return a.pattern
}

func (r *SymbolTableReader) IsNullable(sym Symbol) bool {
	a, ok := r.sym2Attrs[sym]
	if !ok {
		return false
	}
	return a.nullable
}

func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.termNum.Int()-terminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsTerminal() || sym.IsNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) TerminalTexts() ([]string, error) {
	if r.termNum == terminalNumMin {
		return nil, fmt.Errorf("symbol table has no user-defined terminals")
	}
	return r.termTexts, nil
}

func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTermNum.Int()-nonTerminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.isNonTerminal() || sym.IsNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) NonTerminalTexts() ([]string, error) {
	if r.nonTermNum == nonTerminalNumMin || r.nonTermTexts[symbolStart.Num().Int()] == "" {
		return nil, fmt.Errorf("symbol table has no non-terminals or no start symbol")
	}
	return r.nonTermTexts, nil
}
