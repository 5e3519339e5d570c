package sat

import (
	"fmt"

	"github.com/kr/pretty"
)

// DebugDump prints the database's decision level, trail and per-variable
// states (not its clauses), gated on Options.Verbose the same way the teacher
// package gates its own verbose tracing on a package-level flag.
func (d *Database) DebugDump() {
	if !d.Options.Verbose {
		return
	}
	fmt.Printf("sat: decision level %d, trail %v\n", d.DecisionLevel(), d.trail)
	pretty.Println(d.vars)
}

// DebugDumpClause prints the literals and header of a single arena clause,
// for use when chasing a specific offset through a simplification round. It
// is not gated on Options.Verbose.
func (a *ClauseArena) DebugDumpClause(off ClauseOffset) {
	pretty.Println(struct {
		Offset ClauseOffset
		Lits   []Literal
		Stats  ClauseStats
	}{off, a.Literals(off), a.Stats(off)})
}
