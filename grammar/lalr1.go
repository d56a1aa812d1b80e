package grammar

import (
	"fmt"

	"github.com/orithia/lalrgen/grammar/symbol"
)

// probeSymbol is ◇ (§4.4): a reserved value outside the range any real
// symbol can ever be interned at (see symbol.Symbol's bit layout — it is a
// terminal with the reserved-symbol bit set and the all-ones number 0x3fff
// in the lower 14 bits, a combination only the end-marker and the error
// pseudo-terminal otherwise use, with numbers 1 and 2). It is never registered in a
// symbol.SymbolTable; it exists purely as a sentinel threaded through a
// closure computation so that, afterwards, any item whose lookahead
// contains it is known to have gotten that entry by propagation from the
// kernel item the closure started from, rather than by spontaneous
// generation from a FIRST set. Conflating the two — for example by
// seeding the probe computation with the real end-marker $ — would make
// every terminal that happens to equal $ look like a propagation target.
const probeSymbol = symbol.Symbol(0xffff)

// stateItem addresses a single LR item inside a specific automaton state.
type stateItem struct {
	state string
	item  itemKey
}

// propagation is one edge of the lookahead-propagation graph: whenever src
// gains a lookahead symbol, every item in dest must gain it too.
type propagation struct {
	src  stateItem
	dest []stateItem
}

type lalr1Automaton struct {
	*lr0Automaton
}

// genLALR1Automaton runs the lookahead propagator (§4.4) over an already
// built LR(0) automaton: it seeds the augmented start item with {$}, probes
// every kernel item's closure with ◇ to separate spontaneously generated
// lookaheads from propagated ones, and then runs the propagation edges to a
// fixed point.
func genLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet) (*lalr1Automaton, error) {
	iniState := lr0.states[lr0.initialState]
	iniState.kernel.items[0].lookAhead.add(symbol.SymbolEOF)

	var props []*propagation
	for _, state := range lr0.orderedStates() {
		for _, kItem := range state.kernel.items {
			probed, err := newLR0Item(kItem.prod, kItem.dot)
			if err != nil {
				return nil, err
			}
			probed.lookAhead = newSymbolSet()
			probed.lookAhead.add(probeSymbol)

			items, err := genLALR1Closure(probed, prods, first)
			if err != nil {
				return nil, err
			}

			var propDests []stateItem
			for _, item := range items {
				var destItem *lrItem
				var destState string
				if item.reducible {
					p, ok := prods.findByID(item.prod.id)
					if !ok {
						return nil, fmt.Errorf("production not found: %v", item.prod.id)
					}
					if !p.isEmpty() {
						continue
					}
					destItem = findItemInState(state, item.key)
					destState = state.key
				} else {
					nextKey, ok := state.next[item.dottedSymbol]
					if !ok {
						return nil, fmt.Errorf("no transition for %v from state %v", item.dottedSymbol, state.num)
					}
					nextState, ok := lr0.states[nextKey]
					if !ok {
						return nil, fmt.Errorf("state not found: %v", nextKey)
					}
					p, ok := prods.findByID(item.prod.id)
					if !ok {
						return nil, fmt.Errorf("production not found: %v", item.prod.id)
					}
					advanced, err := newLR0Item(p, item.dot+1)
					if err != nil {
						return nil, err
					}
					destItem = findItemInState(nextState, advanced.key)
					destState = nextKey
				}
				if destItem == nil {
					return nil, fmt.Errorf("destination item not found for %v", item.key)
				}

				hasProbe := false
				for _, a := range item.lookAhead.slice() {
					if a == probeSymbol {
						hasProbe = true
						continue
					}
					destItem.lookAhead.add(a)
				}
				if hasProbe {
					propDests = append(propDests, stateItem{state: destState, item: destItem.key})
				}
			}

			if len(propDests) > 0 {
				props = append(props, &propagation{
					src:  stateItem{state: state.key, item: kItem.key},
					dest: propDests,
				})
			}
		}
	}

	if err := propagateLookAhead(lr0, props); err != nil {
		return nil, fmt.Errorf("failed to propagate lookahead symbols: %w", err)
	}

	return &lalr1Automaton{lr0Automaton: lr0}, nil
}

func findItemInState(state *lrState, key itemKey) *lrItem {
	for _, it := range state.kernel.items {
		if it.key == key {
			return it
		}
	}
	for _, it := range state.emptyProdItems {
		if it.key == key {
			return it
		}
	}
	return nil
}

// genLALR1Closure expands srcItem (whose lookahead is either the probe ◇
// or a concrete set) into every item reachable by repeatedly taking the
// closure of non-terminal-headed items, carrying forward FIRST-derived
// lookaheads and, through nullable tails, srcItem's own lookahead —
// probe included, since the probe is just another element of the set as
// far as this computation is concerned.
func genLALR1Closure(srcItem *lrItem, prods *productionSet, first *firstSet) ([]*lrItem, error) {
	items := []*lrItem{srcItem}
	knownItems := map[itemKey]*lrItem{srcItem.key: srcItem}
	uncheckedItems := []*lrItem{srcItem}

	for len(uncheckedItems) > 0 {
		var nextUnchecked []*lrItem
		for _, item := range uncheckedItems {
			if item.dottedSymbol.IsNil() || item.dottedSymbol.IsTerminal() {
				continue
			}

			p := item.prod
			fst, err := first.firstOfSequence(p, item.dot+1)
			if err != nil {
				return nil, err
			}

			ps, _ := prods.findByLHS(item.dottedSymbol)
			for _, prod := range ps {
				newItem, err := newLR0Item(prod, 0)
				if err != nil {
					return nil, err
				}
				existing, ok := knownItems[newItem.key]
				if ok {
					newItem = existing
				} else {
					newItem.lookAhead = newSymbolSet()
					knownItems[newItem.key] = newItem
					items = append(items, newItem)
				}

				changed := newItem.lookAhead.addAll(fst.symbols)
				if fst.empty {
					if newItem.lookAhead.addAll(item.lookAhead) {
						changed = true
					}
				}
				if changed || !ok {
					nextUnchecked = append(nextUnchecked, newItem)
				}
			}
		}
		uncheckedItems = nextUnchecked
	}

	return items, nil
}

// propagateLookAhead runs the propagation edges collected by
// genLALR1Automaton to a fixed point: a round adds nothing new exactly
// when every item's lookahead set has stopped growing.
func propagateLookAhead(lr0 *lr0Automaton, props []*propagation) error {
	for {
		changed := false
		for _, prop := range props {
			srcState, ok := lr0.states[prop.src.state]
			if !ok {
				return fmt.Errorf("source state not found: %v", prop.src.state)
			}
			srcItem := findItemInState(srcState, prop.src.item)
			if srcItem == nil {
				return fmt.Errorf("source item not found: %v", prop.src.item)
			}

			for _, dest := range prop.dest {
				destState, ok := lr0.states[dest.state]
				if !ok {
					return fmt.Errorf("destination state not found: %v", dest.state)
				}
				destItem := findItemInState(destState, dest.item)
				if destItem == nil {
					return fmt.Errorf("destination item not found: %v", dest.item)
				}

				if destItem.lookAhead.addAll(srcItem.lookAhead) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return nil
}
