package grammar

import (
	"fmt"
	"sort"

	"github.com/orithia/lalrgen/grammar/symbol"
)

// lr0Automaton is the canonical collection of LR(0) states (§4.3): every
// kernel reachable from the initial state by repeatedly taking closures and
// following transitions, deduplicated by kernel key so that states already
// discovered are never rebuilt or rediscovered as new ones.
type lr0Automaton struct {
	initialState string // kernel key of the initial state
	states       map[string]*lrState
}

func (a *lr0Automaton) orderedStates() []*lrState {
	states := make([]*lrState, 0, len(a.states))
	for _, s := range a.states {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].num < states[j].num
	})
	return states
}

// genLR0Automaton builds the canonical LR(0) collection for prods, starting
// from the augmented production for startSym. errSym marks the states that
// can shift the error pseudo-terminal so the table generator can flag them
// as error trappers.
func genLR0Automaton(prods *productionSet, startSym symbol.Symbol, errSym symbol.Symbol) (*lr0Automaton, error) {
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol")
	}

	automaton := &lr0Automaton{
		states: map[string]*lrState{},
	}

	currentState := stateNumInitial
	knownKernels := map[string]struct{}{}
	uncheckedKernels := []*kernel{}

	{
		startProds, ok := prods.findByLHS(startSym)
		if !ok || len(startProds) == 0 {
			return nil, fmt.Errorf("no production found for the start symbol")
		}
		initialItem, err := newLR0Item(startProds[0], 0)
		if err != nil {
			return nil, err
		}

		k, err := newKernel([]*lrItem{initialItem})
		if err != nil {
			return nil, err
		}

		automaton.initialState = k.key
		knownKernels[k.key] = struct{}{}
		uncheckedKernels = append(uncheckedKernels, k)
	}

	for len(uncheckedKernels) > 0 {
		nextUncheckedKernels := []*kernel{}
		for _, k := range uncheckedKernels {
			state, neighbours, err := genStateAndNeighbourKernels(k, prods, errSym)
			if err != nil {
				return nil, err
			}
			state.num = currentState
			currentState = currentState.next()

			automaton.states[state.key] = state

			for _, nk := range neighbours {
				if _, known := knownKernels[nk.key]; known {
					continue
				}
				knownKernels[nk.key] = struct{}{}
				nextUncheckedKernels = append(nextUncheckedKernels, nk)
			}
		}
		uncheckedKernels = nextUncheckedKernels
	}

	return automaton, nil
}

func genStateAndNeighbourKernels(k *kernel, prods *productionSet, errSym symbol.Symbol) (*lrState, []*kernel, error) {
	items, err := genLR0Closure(k, prods)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := genNeighbourKernels(items, prods)
	if err != nil {
		return nil, nil, err
	}

	next := map[symbol.Symbol]string{}
	kernels := []*kernel{}
	for _, n := range neighbours {
		next[n.symbol] = n.kernel.key
		kernels = append(kernels, n.kernel)
	}

	state := newLRState(k, stateNumInitial)
	state.next = next

	for _, item := range items {
		if item.dottedSymbol == errSym {
			state.isErrorTrapper = true
		}

		if item.reducible {
			state.reducible[item.prod.id] = struct{}{}
			if item.prod.isEmpty() {
				state.emptyProdItems = append(state.emptyProdItems, item)
			}
		}
	}

	return state, kernels, nil
}

// genLR0Closure expands a kernel into every item reachable by repeatedly
// adding, for each item whose dotted symbol is a non-terminal, the dot-0
// item of every production of that non-terminal.
func genLR0Closure(k *kernel, prods *productionSet) ([]*lrItem, error) {
	items := []*lrItem{}
	knownItems := map[itemKey]struct{}{}
	uncheckedItems := []*lrItem{}
	for _, item := range k.items {
		items = append(items, item)
		knownItems[item.key] = struct{}{}
		uncheckedItems = append(uncheckedItems, item)
	}
	for len(uncheckedItems) > 0 {
		nextUncheckedItems := []*lrItem{}
		for _, item := range uncheckedItems {
			if item.dottedSymbol.IsNil() || item.dottedSymbol.IsTerminal() {
				continue
			}

			ps, _ := prods.findByLHS(item.dottedSymbol)
			for _, prod := range ps {
				newItem, err := newLR0Item(prod, 0)
				if err != nil {
					return nil, err
				}
				if _, exist := knownItems[newItem.key]; exist {
					continue
				}
				items = append(items, newItem)
				knownItems[newItem.key] = struct{}{}
				nextUncheckedItems = append(nextUncheckedItems, newItem)
			}
		}
		uncheckedItems = nextUncheckedItems
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel *kernel
}

// genNeighbourKernels groups the closure items by their dotted symbol,
// advances the dot past that symbol, and returns one candidate kernel per
// symbol in ascending symbol-index order — the deterministic ordering
// required of generated output (§5).
func genNeighbourKernels(items []*lrItem, prods *productionSet) ([]*neighbourKernel, error) {
	kItemMap := map[symbol.Symbol][]*lrItem{}
	for _, item := range items {
		if item.dottedSymbol.IsNil() {
			continue
		}
		prod, ok := prods.findByID(item.prod.id)
		if !ok {
			return nil, fmt.Errorf("a production was not found: %v", item.prod.id)
		}
		kItem, err := newLR0Item(prod, item.dot+1)
		if err != nil {
			return nil, err
		}
		kItemMap[item.dottedSymbol] = append(kItemMap[item.dottedSymbol], kItem)
	}

	nextSyms := []symbol.Symbol{}
	for sym := range kItemMap {
		nextSyms = append(nextSyms, sym)
	}
	sort.Slice(nextSyms, func(i, j int) bool {
		return nextSyms[i] < nextSyms[j]
	})

	kernels := []*neighbourKernel{}
	for _, sym := range nextSyms {
		k, err := newKernel(kItemMap[sym])
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, &neighbourKernel{
			symbol: sym,
			kernel: k,
		})
	}

	return kernels, nil
}
