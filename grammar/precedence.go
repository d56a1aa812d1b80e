package grammar

import "github.com/orithia/lalrgen/grammar/symbol"

// precNil marks the absence of a precedence class. Precedence levels are
// assigned starting at 1, in the order the builder declares precedence
// classes in, so level 0 can double as "no precedence" without a separate
// boolean everywhere it is read.
const precNil = 0

// precAndAssoc is the precedence/associativity side table for productions.
// Terminal precedence and associativity already live on the symbol itself
// (symbol.SymbolTable's attrs, set by DeclarePrecedenceClass) — this type
// exists only for the one thing that does not fit there: the *effective*
// precedence of a production, which defaults to its rightmost terminal's
// class but can be overridden by an explicit %prec-style directive, so it
// needs its own map keyed by production number rather than symbol.
type precAndAssoc struct {
	prodPrec  map[productionNum]int
	prodAssoc map[productionNum]symbol.Assoc
}

func newPrecAndAssoc() *precAndAssoc {
	return &precAndAssoc{
		prodPrec:  map[productionNum]int{},
		prodAssoc: map[productionNum]symbol.Assoc{},
	}
}

func (pa *precAndAssoc) setProductionPrecedence(num productionNum, level int, assoc symbol.Assoc) {
	pa.prodPrec[num] = level
	pa.prodAssoc[num] = assoc
}

func (pa *precAndAssoc) terminalPrecedence(symTab *symbol.SymbolTableReader, sym symbol.Symbol) int {
	return symTab.Precedence(sym)
}

func (pa *precAndAssoc) terminalAssociativity(symTab *symbol.SymbolTableReader, sym symbol.Symbol) symbol.Assoc {
	return symTab.Associativity(sym)
}

func (pa *precAndAssoc) productionPrecedence(num productionNum) int {
	return pa.prodPrec[num]
}

func (pa *precAndAssoc) productionAssociativity(num productionNum) symbol.Assoc {
	return pa.prodAssoc[num]
}

// genProdPrecAndAssoc derives the effective precedence of every production
// that was not given an explicit production-precedence directive: the
// precedence and associativity of the rightmost terminal in its RHS, or
// precNil/AssocNone when the RHS has no terminal at all.
func genProdPrecAndAssoc(prods *productionSet, symTab *symbol.SymbolTableReader, explicit *precAndAssoc) *precAndAssoc {
	pa := newPrecAndAssoc()
	for num, level := range explicit.prodPrec {
		pa.prodPrec[num] = level
		pa.prodAssoc[num] = explicit.prodAssoc[num]
	}

	for _, prod := range prods.all() {
		if _, ok := pa.prodPrec[prod.num]; ok {
			continue
		}

		for i := len(prod.rhs) - 1; i >= 0; i-- {
			sym := prod.rhs[i]
			if !sym.IsTerminal() {
				continue
			}
			if p := symTab.Precedence(sym); p != precNil {
				pa.prodPrec[prod.num] = p
				pa.prodAssoc[prod.num] = symTab.Associativity(sym)
			}
			break
		}
	}

	return pa
}
