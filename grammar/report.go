package grammar

import (
	"fmt"
	"sort"

	"github.com/orithia/lalrgen/grammar/symbol"
	"github.com/orithia/lalrgen/report"
)

// GenerateReport renders a CompiledGrammar into the outbound report (§6):
// terminals and non-terminals with their precedence, every production,
// and every state's kernel, shift/reduce/goto actions, and the conflicts
// the table generator resolved by a default rule while building it
// (contentions settled by precedence or associativity are not listed).
func (cg *CompiledGrammar) GenerateReport() (*report.Report, error) {
	g := cg.Grammar
	symTab := g.symTab.Reader()
	tab := cg.Table

	var terms []*report.Terminal
	{
		termSyms := symTab.TerminalSymbols()
		terms = make([]*report.Terminal, 0, len(termSyms))
		for _, sym := range termSyms {
			name, ok := symTab.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("terminal symbol not found: %v", sym)
			}
			t := &report.Terminal{Number: sym.Num().Int(), Name: name}
			if prec := symTab.Precedence(sym); prec != precNil {
				t.Precedence = prec
			}
			switch symTab.Associativity(sym) {
			case symbol.AssocLeft:
				t.Associativity = "l"
			case symbol.AssocRight:
				t.Associativity = "r"
			}
			terms = append(terms, t)
		}
	}

	var nonTerms []*report.NonTerminal
	{
		nonTermSyms := symTab.NonTerminalSymbols()
		nonTerms = make([]*report.NonTerminal, 0, len(nonTermSyms))
		for _, sym := range nonTermSyms {
			name, ok := symTab.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("non-terminal symbol not found: %v", sym)
			}
			nonTerms = append(nonTerms, &report.NonTerminal{Number: sym.Num().Int(), Name: name})
		}
	}

	var prods []*report.Production
	{
		for _, p := range g.prods.all() {
			rhs := make([]int, len(p.rhs))
			for i, e := range p.rhs {
				if e.IsTerminal() {
					rhs[i] = e.Num().Int()
				} else {
					rhs[i] = e.Num().Int() * -1
				}
			}
			prod := &report.Production{Number: p.num.Int(), LHS: p.lhs.Num().Int(), RHS: rhs}
			if prec := g.precAndAssoc.productionPrecedence(p.num); prec != precNil {
				prod.Precedence = prec
			}
			switch g.precAndAssoc.productionAssociativity(p.num) {
			case symbol.AssocLeft:
				prod.Associativity = "l"
			case symbol.AssocRight:
				prod.Associativity = "r"
			}
			prods = append(prods, prod)
		}
	}

	srConflicts := map[stateNum][]*shiftReduceConflict{}
	rrConflicts := map[stateNum][]*reduceReduceConflict{}
	for _, c := range cg.conflicts {
		switch v := c.(type) {
		case *shiftReduceConflict:
			srConflicts[v.state] = append(srConflicts[v.state], v)
		case *reduceReduceConflict:
			rrConflicts[v.state] = append(rrConflicts[v.state], v)
		}
	}

	states := make([]*report.State, len(cg.automaton.states))
	for _, s := range cg.automaton.orderedStates() {
		kernel := make([]*report.Item, len(s.kernel.items))
		for i, item := range s.kernel.items {
			kernel[i] = &report.Item{Production: item.prod.num.Int(), Dot: item.dot}
		}
		sort.Slice(kernel, func(i, j int) bool {
			if kernel[i].Production != kernel[j].Production {
				return kernel[i].Production < kernel[j].Production
			}
			return kernel[i].Dot < kernel[j].Dot
		})

		var shift []*report.Transition
		var reduce []*report.Reduce
		var goTo []*report.Transition
	TERMINALS_LOOP:
		for _, t := range symTab.TerminalSymbols() {
			act, next, prodNum := tab.GetAction(s.num, t.Num())
			switch act {
			case ActionTypeShift:
				shift = append(shift, &report.Transition{Symbol: t.Num().Int(), State: next.Int()})
			case ActionTypeReduce:
				for _, r := range reduce {
					if r.Production == prodNum.Int() {
						r.LookAhead = append(r.LookAhead, t.Num().Int())
						continue TERMINALS_LOOP
					}
				}
				reduce = append(reduce, &report.Reduce{LookAhead: []int{t.Num().Int()}, Production: prodNum.Int()})
			}
		}
		for _, n := range symTab.NonTerminalSymbols() {
			ty, next := tab.GetGoTo(s.num, n.Num())
			if ty == GoToTypeRegistered {
				goTo = append(goTo, &report.Transition{Symbol: n.Num().Int(), State: next.Int()})
			}
		}
		sort.Slice(shift, func(i, j int) bool { return shift[i].State < shift[j].State })
		sort.Slice(reduce, func(i, j int) bool { return reduce[i].Production < reduce[j].Production })
		sort.Slice(goTo, func(i, j int) bool { return goTo[i].State < goTo[j].State })

		var sr []*report.SRConflict
		for _, c := range srConflicts[s.num] {
			rc := &report.SRConflict{
				Symbol:     c.sym.Num().Int(),
				State:      c.nextState.Int(),
				Production: c.prodNum.Int(),
				ResolvedBy: c.resolvedBy.Int(),
			}
			ty, next, prodNum := tab.GetAction(s.num, c.sym.Num())
			switch ty {
			case ActionTypeShift:
				n := next.Int()
				rc.AdoptedState = &n
			case ActionTypeReduce:
				n := prodNum.Int()
				rc.AdoptedProduction = &n
			}
			sr = append(sr, rc)
		}
		sort.Slice(sr, func(i, j int) bool { return sr[i].Symbol < sr[j].Symbol })

		var rr []*report.RRConflict
		for _, c := range rrConflicts[s.num] {
			_, _, prodNum := tab.GetAction(s.num, c.sym.Num())
			rr = append(rr, &report.RRConflict{
				Symbol:            c.sym.Num().Int(),
				Production1:       c.prodNum1.Int(),
				Production2:       c.prodNum2.Int(),
				ResolvedBy:        c.resolvedBy.Int(),
				AdoptedProduction: prodNum.Int(),
			})
		}
		sort.Slice(rr, func(i, j int) bool { return rr[i].Symbol < rr[j].Symbol })

		states[s.num.Int()] = &report.State{
			Number:     s.num.Int(),
			Kernel:     kernel,
			Shift:      shift,
			Reduce:     reduce,
			GoTo:       goTo,
			SRConflict: sr,
			RRConflict: rr,
		}
	}

	return &report.Report{
		Name:         g.name,
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}
