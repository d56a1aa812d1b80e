package grammar

import (
	"fmt"
	"strings"

	"github.com/orithia/lalrgen/grammar/symbol"
)

// productionID is a dense, stable index into the production arena. It
// replaces the source's pointer/hash identity (a SHA-256 digest over the
// LHS and RHS symbols) with a plain array index: productions are never
// removed once appended, so the index is as stable as a hash and far
// cheaper to compare, sort, and use as a map key.
type productionID int

const productionIDNil = productionID(-1)

type productionNum uint16

const (
	productionNumNil   = productionNum(0)
	productionNumStart = productionNum(1)
	productionNumMin   = productionNum(2)
)

func (n productionNum) Int() int {
	return int(n)
}

// production is an ordered tuple (LHS non-terminal, RHS symbol sequence,
// optional semantic action). Its precedence and assoc fields are not
// filled in: the effective precedence and associativity (those of the
// rightmost terminal in the RHS, unless the builder recorded an explicit
// production-precedence directive) live in the grammar's precAndAssoc
// table, keyed by production number.
type production struct {
	id     productionID
	num    productionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int

	action string
	line   int

	precedence int
	assoc      symbol.Assoc
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		id:     productionIDNil,
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

// key is the canonical signature used to detect duplicate productions:
// two productions are equal iff they share an LHS and an RHS sequence.
func (p *production) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:", uint16(p.lhs))
	for _, s := range p.rhs {
		fmt.Fprintf(&b, "%v,", uint16(s))
	}
	return b.String()
}

// productionSet is the production arena. Productions are appended in
// declaration order — the order that later breaks reduce/reduce
// conflicts, §4.5 — and addressed by their dense productionID
// thereafter.
type productionSet struct {
	prods   []*production
	key2ID  map[string]productionID
	lhs2IDs map[symbol.Symbol][]productionID
	num     productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		key2ID:  map[string]productionID{},
		lhs2IDs: map[symbol.Symbol][]productionID{},
		num:     productionNumMin,
	}
}

// append adds prod to the arena, assigning it a dense ID and, unless it
// is the synthesized start production, the next production number. It
// reports false when an equal production (same LHS and RHS) was already
// present; the grammar builder surfaces that as a duplicate-production
// error.
func (ps *productionSet) append(prod *production) bool {
	k := prod.key()
	if _, ok := ps.key2ID[k]; ok {
		return false
	}

	id := productionID(len(ps.prods))
	prod.id = id

	if prod.lhs.IsStart() {
		prod.num = productionNumStart
	} else {
		prod.num = ps.num
		ps.num++
	}

	ps.prods = append(ps.prods, prod)
	ps.key2ID[k] = id
	ps.lhs2IDs[prod.lhs] = append(ps.lhs2IDs[prod.lhs], id)

	return true
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	if id < 0 || int(id) >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[id], true
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}
	ids, ok := ps.lhs2IDs[lhs]
	if !ok {
		return nil, false
	}
	prods := make([]*production, len(ids))
	for i, id := range ids {
		prods[i] = ps.prods[id]
	}
	return prods, true
}

// all returns every production in declaration order.
func (ps *productionSet) all() []*production {
	return ps.prods
}
