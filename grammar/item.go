package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orithia/lalrgen/grammar/symbol"
)

// itemKey is the LR(0) core of an item: a production together with a dot
// position. It is a plain comparable struct, not a hash digest — two items
// are the same item iff their (production, dot) pair is equal, so the
// struct itself is already a fit map key.
type itemKey struct {
	prod productionID
	dot  int
}

// lrItem is an LR(0) item annotated with the bookkeeping the rest of the
// pipeline needs: whether it is a kernel item, whether it is reducible (dot
// at the end of the RHS), the symbol immediately after the dot (for
// transitions), and — once the lookahead propagator has run — its LALR(1)
// lookahead set.
type lrItem struct {
	key itemKey

	prod *production
	dot  int

	dottedSymbol symbol.Symbol // SymbolNil when the dot is at the end
	initial      bool          // dot == 0
	reducible    bool          // dot == prod.rhsLen
	kernel       bool          // dot != 0, or the augmented start production's item

	lookAhead *symbolSet
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot position is out of range; RHS length: %v, dot: %v", prod.rhsLen, dot)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	return &lrItem{
		key:          itemKey{prod: prod.id, dot: dot},
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      dot == 0,
		reducible:    dot == prod.rhsLen,
		kernel:       dot != 0 || prod.lhs.IsStart(),
		lookAhead:    newSymbolSet(),
	}, nil
}

func (it *lrItem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", it.prod.lhs)
	for i, sym := range it.prod.rhs {
		if i == it.dot {
			b.WriteString(" •")
		}
		fmt.Fprintf(&b, " %v", sym)
	}
	if it.dot == it.prod.rhsLen {
		b.WriteString(" •")
	}
	return b.String()
}

// kernel is the canonicalized set of LR(0) items that defines an automaton
// state: the items that were present before the closure was taken (i.e.
// the items carried across a transition, plus the initial item of the
// augmented start state). Two states are the same state iff their kernels
// are equal, so kernel carries a canonical string key built from its
// sorted item keys; that key is what the item-set builder uses to dedup
// newly discovered states against ones already queued or built.
type kernel struct {
	items []*lrItem
	key   string
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel must have at least one item")
	}

	dedup := make(map[itemKey]*lrItem, len(items))
	for _, it := range items {
		dedup[it.key] = it
	}

	uniq := make([]*lrItem, 0, len(dedup))
	for _, it := range dedup {
		uniq = append(uniq, it)
	}
	sort.Slice(uniq, func(i, j int) bool {
		if uniq[i].key.prod != uniq[j].key.prod {
			return uniq[i].key.prod < uniq[j].key.prod
		}
		return uniq[i].key.dot < uniq[j].key.dot
	})

	var b strings.Builder
	for _, it := range uniq {
		fmt.Fprintf(&b, "%v.%v|", it.key.prod, it.key.dot)
	}

	return &kernel{items: uniq, key: b.String()}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return fmt.Sprintf("%v", int(n))
}

func (n stateNum) next() stateNum {
	return n + 1
}

// lrState is a kernel promoted to a numbered automaton state, together with
// its outgoing transitions (keyed by symbol, each naming the kernel key of
// the destination state, which callers look up in the automaton) and the
// productions it can reduce by. emptyProdItems holds the reducible items
// for empty (epsilon) productions: because such an item's dot is already at
// position 0, it is never a kernel item — kernels start at dot 0 only for
// the augmented start production — so it would otherwise be silently
// dropped by the closure-then-kernel-extraction step that builds every
// other state's items.
type lrState struct {
	*kernel
	num       stateNum
	next      map[symbol.Symbol]string
	reducible map[productionID]struct{}

	emptyProdItems []*lrItem
	isErrorTrapper bool
}

func newLRState(k *kernel, num stateNum) *lrState {
	return &lrState{
		kernel:    k,
		num:       num,
		next:      map[symbol.Symbol]string{},
		reducible: map[productionID]struct{}{},
	}
}

// allReducibleItems returns every item in this state whose dot is at the
// end of its production, kernel and closure-only (empty-production) items
// combined. It is the set the LALR(1) pass seeds lookahead on and the
// table generator reads reduce actions from.
func (s *lrState) allReducibleItems() []*lrItem {
	items := make([]*lrItem, 0, len(s.emptyProdItems))
	for _, it := range s.kernel.items {
		if it.reducible {
			items = append(items, it)
		}
	}
	items = append(items, s.emptyProdItems...)
	return items
}
