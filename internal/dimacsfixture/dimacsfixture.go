// Package dimacsfixture loads DIMACS CNF files into a sat.Database, for use
// by tests and the demo CLI. It is not part of the simplification core
// itself (§1 lists CNF parsing as an external collaborator) — this package
// exists only to exercise the core with real formulas.
package dimacsfixture

import (
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/hollowreef/corevet/internal/sat"
)

// Load parses the DIMACS CNF file at path and adds its variables and
// clauses to db via AddClauseInt, attaching every clause. It returns the
// number of variables declared by the problem line.
func Load(path string, db *sat.Database) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("dimacsfixture: open %q: %w", path, err)
	}
	defer f.Close()
	return LoadReader(f, db)
}

// LoadReader is Load, reading from an already-open stream.
func LoadReader(r io.Reader, db *sat.Database) (int, error) {
	b := &builder{db: db}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return 0, fmt.Errorf("dimacsfixture: parse: %w", err)
	}
	return b.numVars, nil
}

// builder wraps a sat.Database to implement dimacs.Builder, mirroring the
// teacher's own parsers.builder.
type builder struct {
	db      *sat.Database
	numVars int
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem: %q", problem)
	}
	for i := 0; i < nVars; i++ {
		b.db.NewVar()
	}
	b.numVars = nVars
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	lits := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			lits[i] = sat.NegativeLiteral(-l - 1)
		} else {
			lits[i] = sat.PositiveLiteral(l - 1)
		}
	}
	b.db.AddClauseInt(lits, false, true)
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil
}
