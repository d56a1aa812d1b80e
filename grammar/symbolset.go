package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/orithia/lalrgen/grammar/symbol"
)

func symbolComparator(a, b interface{}) int {
	sa, sb := a.(symbol.Symbol), b.(symbol.Symbol)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

// symbolSet is a set of terminal symbols kept in ascending symbol-index
// order at all times. FIRST sets, FOLLOW-free LALR lookahead sets, and
// table-generation working sets all need the same property: iterating
// them must never leak the insertion order or a hash map's iteration
// order into generated output (§5, Determinism). A sorted tree set gives
// that for free instead of requiring every call site to sort.Slice its
// own snapshot.
type symbolSet struct {
	t *treeset.Set
}

func newSymbolSet() *symbolSet {
	return &symbolSet{t: treeset.NewWith(symbolComparator)}
}

// add reports whether sym was not already present.
func (s *symbolSet) add(sym symbol.Symbol) bool {
	if s.t.Contains(sym) {
		return false
	}
	s.t.Add(sym)
	return true
}

func (s *symbolSet) addAll(other *symbolSet) bool {
	changed := false
	for _, v := range other.slice() {
		if s.add(v) {
			changed = true
		}
	}
	return changed
}

func (s *symbolSet) contains(sym symbol.Symbol) bool {
	return s.t.Contains(sym)
}

func (s *symbolSet) len() int {
	return s.t.Size()
}

// slice returns the set's members in ascending symbol-index order.
func (s *symbolSet) slice() []symbol.Symbol {
	vs := s.t.Values()
	syms := make([]symbol.Symbol, len(vs))
	for i, v := range vs {
		syms[i] = v.(symbol.Symbol)
	}
	return syms
}
