package grammar

import (
	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/grammar/symbol"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

// actionEntry packs an ACTION-table cell into a single int: negative means
// shift to the state numbered by its absolute value, positive means reduce
// by the production numbered by its value, and zero means no action is
// defined. One signed int per cell is a third the size of a (type, state,
// production) struct and needs no branch beyond a sign check to decode.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

// ParsingTable is the frozen ACTION/GOTO table produced by the table
// generator (§4.5): two flat, row-major arrays indexed by state and
// terminal/non-terminal number.
type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	// errorTrapperStates[s] is 1 when state s has an item of the form
	// A → α・error β (α, β possibly empty).
	errorTrapperStates []int

	InitialState stateNum
}

func (t *ParsingTable) StateCount() int       { return t.stateCount }
func (t *ParsingTable) TerminalCount() int    { return t.terminalCount }
func (t *ParsingTable) NonTerminalCount() int { return t.nonTerminalCount }

func (t *ParsingTable) GetAction(state stateNum, sym symbol.SymbolNum) (ActionType, stateNum, productionNum) {
	pos := state.Int()*t.terminalCount + sym.Int()
	return t.actionTable[pos].describe()
}

func (t *ParsingTable) GetGoTo(state stateNum, sym symbol.SymbolNum) (GoToType, stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Int()
	return t.goToTable[pos].describe()
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol.Symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Num().Int()
	t.goToTable[pos] = newGoToEntry(nextState)
}

// lrTableBuilder is the table generator (§4.5): it walks the LALR(1)
// automaton writing shift/goto actions from transitions and reduce actions
// from each state's reducible items' lookahead sets, resolving every
// shift/reduce and reduce/reduce conflict it meets along the way. It records
// only the conflicts settled by a default rule (shift when precedence is
// missing, earlier production on reduce/reduce) and, when a sink is set,
// forwards each recorded one to the conflict reporter (§4.6); contentions
// settled by precedence or associativity are neither recorded nor reported.
type lrTableBuilder struct {
	automaton    *lr0Automaton
	prods        *productionSet
	termCount    int
	nonTermCount int
	symTab       *symbol.SymbolTableReader
	precAndAssoc *precAndAssoc
	sink         errs.Sink

	conflicts []conflict
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	states := b.automaton.orderedStates()

	ptab := &ParsingTable{
		actionTable:        make([]actionEntry, len(states)*b.termCount),
		goToTable:          make([]goToEntry, len(states)*b.nonTermCount),
		stateCount:         len(states),
		terminalCount:      b.termCount,
		nonTerminalCount:   b.nonTermCount,
		errorTrapperStates: make([]int, len(states)),
		InitialState:       b.automaton.states[b.automaton.initialState].num,
	}

	for _, state := range states {
		if state.isErrorTrapper {
			ptab.errorTrapperStates[state.num] = 1
		}

		for sym, nextKey := range state.next {
			nextState := b.automaton.states[nextKey]
			if sym.IsTerminal() {
				b.writeShiftAction(ptab, state.num, sym, nextState.num)
			} else {
				ptab.writeGoTo(state.num, sym, nextState.num)
			}
		}

		for _, item := range state.allReducibleItems() {
			reducibleProd := item.prod
			for _, a := range item.lookAhead.slice() {
				b.writeReduceAction(ptab, state.num, a, reducibleProd.num)
			}
		}
	}

	if b.sink != nil {
		for _, c := range b.conflicts {
			switch v := c.(type) {
			case *shiftReduceConflict:
				b.sink.Report(errs.CodeParseTableConflict, 0, 0,
					"shift/reduce conflict in state %v on %v, resolved by %v", v.state, v.sym, v.resolvedBy)
			case *reduceReduceConflict:
				b.sink.Report(errs.CodeParseTableConflict, 0, 0,
					"reduce/reduce conflict in state %v on %v between productions %v and %v, resolved by %v",
					v.state, v.sym, v.prodNum1, v.prodNum2, v.resolvedBy)
			}
		}
	}

	return ptab, nil
}

// writeShiftAction writes a shift action. On a shift/reduce conflict the
// shift wins unless resolveSRConflict says otherwise.
func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, nextState stateNum) {
	act := tab.readAction(state.Int(), sym.Num().Int())
	if !act.isEmpty() {
		ty, _, p := act.describe()
		if ty == ActionTypeReduce {
			resolved, method := b.resolveSRConflict(sym, p)
			if method == ResolvedByShift {
				b.conflicts = append(b.conflicts, &shiftReduceConflict{
					state:      state,
					sym:        sym,
					nextState:  nextState,
					prodNum:    p,
					resolvedBy: method,
				})
			}
			if resolved == ActionTypeShift {
				tab.writeAction(state.Int(), sym.Num().Int(), newShiftActionEntry(nextState))
			}
			return
		}
	}
	tab.writeAction(state.Int(), sym.Num().Int(), newShiftActionEntry(nextState))
}

// writeReduceAction writes a reduce action. On a shift/reduce conflict the
// shift wins unless resolveSRConflict says otherwise; on a reduce/reduce
// conflict the production declared earlier in the grammar wins (§4.5).
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, prod productionNum) {
	act := tab.readAction(state.Int(), sym.Num().Int())
	if !act.isEmpty() {
		ty, s, p := act.describe()
		switch ty {
		case ActionTypeReduce:
			if p == prod {
				return
			}

			b.conflicts = append(b.conflicts, &reduceReduceConflict{
				state:      state,
				sym:        sym,
				prodNum1:   p,
				prodNum2:   prod,
				resolvedBy: ResolvedByProdOrder,
			})
			if p < prod {
				tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(p))
			} else {
				tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(prod))
			}
		case ActionTypeShift:
			resolved, method := b.resolveSRConflict(sym, prod)
			if method == ResolvedByShift {
				b.conflicts = append(b.conflicts, &shiftReduceConflict{
					state:      state,
					sym:        sym,
					nextState:  s,
					prodNum:    prod,
					resolvedBy: method,
				})
			}
			if resolved == ActionTypeReduce {
				tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(prod))
			}
		}
		return
	}
	tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(prod))
}

// resolveSRConflict implements §4.5's table exactly: equal precedence
// defers to associativity (left associates to reduce, right or none to
// shift); unequal precedence lets the higher class win; either side
// lacking a precedence class at all defaults to shift.
func (b *lrTableBuilder) resolveSRConflict(sym symbol.Symbol, prod productionNum) (ActionType, conflictResolutionMethod) {
	symPrec := b.precAndAssoc.terminalPrecedence(b.symTab, sym)
	prodPrec := b.precAndAssoc.productionPrecedence(prod)
	if symPrec == precNil || prodPrec == precNil {
		return ActionTypeShift, ResolvedByShift
	}
	if symPrec == prodPrec {
		assoc := b.precAndAssoc.productionAssociativity(prod)
		if assoc != symbol.AssocLeft {
			return ActionTypeShift, ResolvedByAssoc
		}
		return ActionTypeReduce, ResolvedByAssoc
	}
	if symPrec > prodPrec {
		return ActionTypeShift, ResolvedByPrec
	}
	return ActionTypeReduce, ResolvedByPrec
}
