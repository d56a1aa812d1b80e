package grammar

import "github.com/orithia/lalrgen/grammar/symbol"

// conflictResolutionMethod records which rule of §4.5's resolution table
// settled a conflict, so a report can explain a decision instead of just
// stating it.
type conflictResolutionMethod int

func (m conflictResolutionMethod) Int() int {
	return int(m)
}

const (
	ResolvedByPrec      conflictResolutionMethod = 1
	ResolvedByAssoc     conflictResolutionMethod = 2
	ResolvedByShift     conflictResolutionMethod = 3
	ResolvedByProdOrder conflictResolutionMethod = 4
)

// conflict is either a shiftReduceConflict or a reduceReduceConflict,
// collected by the table builder as it writes actions and handed to the
// conflict reporter (§4.6) once the table is complete.
type conflict interface {
	conflict()
	State() stateNum
}

type shiftReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	nextState  stateNum
	prodNum    productionNum
	resolvedBy conflictResolutionMethod
}

func (c *shiftReduceConflict) conflict()        {}
func (c *shiftReduceConflict) State() stateNum { return c.state }

type reduceReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	prodNum1   productionNum
	prodNum2   productionNum
	resolvedBy conflictResolutionMethod
}

func (c *reduceReduceConflict) conflict()        {}
func (c *reduceReduceConflict) State() stateNum { return c.state }

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)
