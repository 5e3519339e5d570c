package sat

import "sort"

// OrGate records a discovered gate e ≡ l1 ∨ ... ∨ lk (§3 "OR-gate record",
// §4.4). Lhs is kept sorted so two gates with the same left-hand side sort
// adjacent when gates are ordered for equivalence discovery.
type OrGate struct {
	Lhs           []Literal
	Rhs           Literal
	FromRedundant bool
	Removed       bool

	def ClauseOffset // the clause that defines this gate
}

func newOrGate(lhs []Literal, rhs Literal, fromRedundant bool, def ClauseOffset) *OrGate {
	g := &OrGate{Lhs: append([]Literal(nil), lhs...), Rhs: rhs, FromRedundant: fromRedundant, def: def}
	sort.Slice(g.Lhs, func(i, j int) bool { return g.Lhs[i] < g.Lhs[j] })
	return g
}

// GateFinder discovers OR-gates among irredundant long clauses and uses
// them to shorten other clauses and to surface variable equivalences
// (§4.4).
type GateFinder struct {
	db     *Database
	budget *stepBudget

	maxGateSize int

	gates []*OrGate

	// occEq[e] indexes gates whose Rhs is e; occ[l] indexes gates that
	// mention l somewhere in their Lhs.
	occEq map[Literal][]*OrGate
	occ   map[Literal][]*OrGate
}

// NewGateFinder returns a gate finder bound to db.
func NewGateFinder(db *Database, opts Options) *GateFinder {
	return &GateFinder{
		db:          db,
		budget:      newStepBudget(opts.Budget.MaxGateFinder),
		maxGateSize: opts.MaxGateSize,
		occEq:       map[Literal][]*OrGate{},
		occ:         map[Literal][]*OrGate{},
	}
}

// FindGates scans the given irredundant long-clause offsets for OR-gate
// definitions (§4.4 "OR-gate discovery").
func (g *GateFinder) FindGates(offsets []ClauseOffset) {
	for _, off := range offsets {
		if g.budget.exhausted() {
			return
		}
		if g.db.arena.IsFreed(off) || g.db.arena.IsRemoved(off) {
			continue
		}
		lits := g.db.arena.Literals(off)
		if len(lits) > g.maxGateSize {
			continue
		}
		g.budget.spend(len(lits))
		g.tryClauseAsGate(off, lits)
	}
}

// tryClauseAsGate tests every literal x of the clause as the negated gate
// output (the gate's e is ¬x, so C = ¬e ∨ l1 ∨ ... ∨ lk), since the
// driver does not know a priori which literal plays that role. A single
// clause can define more than one gate (one per literal that satisfies the
// binary-presence test), so every literal is tried — there is no early exit
// on the first match (§4.4 "OR-gate discovery").
func (g *GateFinder) tryClauseAsGate(off ClauseOffset, lits []Literal) {
	for i, e := range lits {
		rest := make([]Literal, 0, len(lits)-1)
		rest = append(rest, lits[:i]...)
		rest = append(rest, lits[i+1:]...)

		// e is the literal as it appears in the clause, i.e. the clause
		// reads (¬gateRhs ∨ rest...) with gateRhs = e.Opposite(). The
		// required binaries are (gateRhs ∨ ¬li), so the lookup is on
		// e.Opposite(), not e itself (§4.4 "OR-gate discovery").
		fromRedundant := g.db.arena.IsRedundant(off)
		allPresent := true
		for _, li := range rest {
			if !g.hasBinary(e.Opposite(), li.Opposite()) {
				allPresent = false
				break
			}
			if g.binaryIsRedundant(e.Opposite(), li.Opposite()) {
				fromRedundant = true
			}
		}
		if !allPresent {
			continue
		}

		gate := newOrGate(rest, e.Opposite(), fromRedundant, off)
		g.db.arena.SetOrGateDefinition(off, true)
		g.gates = append(g.gates, gate)
		g.occEq[gate.Rhs] = append(g.occEq[gate.Rhs], gate)
		for _, li := range gate.Lhs {
			g.occ[li] = append(g.occ[li], gate)
		}
	}
}

// hasBinary reports whether the binary clause (a, b) exists in the watch
// lists.
func (g *GateFinder) hasBinary(a, b Literal) bool {
	for _, w := range g.db.watches.List(a.Opposite()) {
		if w.Kind == WatchBinary && w.Other == b {
			return true
		}
	}
	return false
}

func (g *GateFinder) binaryIsRedundant(a, b Literal) bool {
	for _, w := range g.db.watches.List(a.Opposite()) {
		if w.Kind == WatchBinary && w.Other == b {
			return w.Redundant
		}
	}
	return false
}

// ShortenWithGates applies every discovered gate's clause-shortening rule
// (§4.4 "Gate-based clause shortening") to the given candidate clauses.
func (g *GateFinder) ShortenWithGates(offsets []ClauseOffset) {
	for _, gate := range g.gates {
		if gate.Removed {
			continue
		}
		g.shortenWithGate(gate, offsets)
	}
}

func (g *GateFinder) shortenWithGate(gate *OrGate, offsets []ClauseOffset) {
	for _, off := range offsets {
		if g.db.arena.IsFreed(off) || g.db.arena.IsRemoved(off) {
			continue
		}
		if off == gate.def {
			continue
		}
		// A gate only discovered through a redundant clause may not drive an
		// irredundant simplification, and a clause that is itself some other
		// gate's definition must never be mutated or removed here — doing so
		// would destroy the information that other gate is grounded on
		// (§5 "gates discovered through a redundant clause...").
		if gate.FromRedundant && !g.db.arena.IsRedundant(off) {
			continue
		}
		if g.db.arena.IsOrGateDefinition(off) {
			continue
		}
		lits := g.db.arena.Literals(off)
		if !containsAll(lits, gate.Lhs) {
			continue
		}
		switch {
		case containsLit(lits, gate.Rhs):
			// Tautological under the gate's forward implication; leave as-is.
		case containsLit(lits, gate.Rhs.Opposite()):
			g.db.unlinkOccur(off)
			g.db.FreeLong(off)
		default:
			g.rewriteWithGate(off, gate)
		}
	}
}

func (g *GateFinder) rewriteWithGate(off ClauseOffset, gate *OrGate) {
	old := g.db.arena.Literals(off)
	newLits := make([]Literal, 0, len(old)-len(gate.Lhs)+1)
	newLits = append(newLits, gate.Rhs)
	for _, l := range old {
		if !containsLit(gate.Lhs, l) {
			newLits = append(newLits, l)
		}
	}
	sortClauseLiterals(newLits)

	redundant := g.db.arena.IsRedundant(off)
	g.db.unlinkOccur(off)
	g.db.FreeLong(off)

	switch len(newLits) {
	case 1:
		if g.db.Enqueue(newLits[0], NoReason) {
			if _, conflict := g.db.Propagate(); conflict {
				g.db.ok = false
			}
		} else {
			g.db.ok = false
		}
	case 2:
		g.db.attachBinary(newLits[0], newLits[1], redundant)
	case 3:
		g.db.attachTernary(newLits[0], newLits[1], newLits[2], redundant)
	default:
		newOff, err := g.db.arena.Alloc(newLits, redundant, g.db.conflictNumber)
		if err == nil {
			g.db.linkOccur(newOff)
		}
	}
}

// ContractAndGates implements the dual AND-gate contraction for binary
// gates e ≡ a ∨ b (§4.4 "AND-gate (dual) contraction"): every pair of
// clauses (X ∨ ¬a) and (X ∨ ¬b) with identical X is replaced by (X ∨ ¬e).
func (g *GateFinder) ContractAndGates(offsets []ClauseOffset) {
	for _, gate := range g.gates {
		if gate.Removed || len(gate.Lhs) != 2 {
			continue
		}
		g.contractOne(gate, offsets)
	}
}

func (g *GateFinder) contractOne(gate *OrGate, offsets []ClauseOffset) {
	a, b := gate.Lhs[0], gate.Lhs[1]
	byRestOnA := map[string]ClauseOffset{}

	for _, off := range offsets {
		if g.db.arena.IsFreed(off) || g.db.arena.IsRemoved(off) {
			continue
		}
		if g.db.arena.IsOrGateDefinition(off) {
			continue
		}
		lits := g.db.arena.Literals(off)
		if !containsLit(lits, a.Opposite()) {
			continue
		}
		key := restKey(lits, a.Opposite())
		byRestOnA[key] = off
	}

	for _, off := range offsets {
		if g.db.arena.IsFreed(off) || g.db.arena.IsRemoved(off) {
			continue
		}
		if g.db.arena.IsOrGateDefinition(off) {
			continue
		}
		lits := g.db.arena.Literals(off)
		if !containsLit(lits, b.Opposite()) {
			continue
		}
		key := restKey(lits, b.Opposite())
		matchOff, ok := byRestOnA[key]
		if !ok || matchOff == off {
			continue
		}
		// A gate only discovered through a redundant clause may not drive an
		// irredundant simplification (§5).
		if gate.FromRedundant && !(g.db.arena.IsRedundant(off) && g.db.arena.IsRedundant(matchOff)) {
			continue
		}

		rest := make([]Literal, 0, len(lits))
		for _, l := range lits {
			if l != b.Opposite() {
				rest = append(rest, l)
			}
		}
		rest = append(rest, gate.Rhs.Opposite())
		sortClauseLiterals(rest)

		redundant := g.db.arena.IsRedundant(off) && g.db.arena.IsRedundant(matchOff)
		g.db.unlinkOccur(off)
		g.db.FreeLong(off)
		g.db.unlinkOccur(matchOff)
		g.db.FreeLong(matchOff)

		newOff, err := g.db.arena.Alloc(rest, redundant, g.db.conflictNumber)
		if err == nil {
			g.db.linkOccur(newOff)
		}
	}
}

func restKey(lits []Literal, exclude Literal) string {
	b := make([]byte, 0, len(lits)*4)
	for _, l := range lits {
		if l == exclude {
			continue
		}
		b = append(b, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
	}
	return string(b)
}

// FindEquivalences sorts gates by LHS and emits an XOR equivalence for every
// pair of consecutive gates that share an LHS but differ in RHS variable
// (§4.4 "Equivalence-from-gates"). The equivalences themselves are handed
// to eq, the external equivalence-replacer.
func (g *GateFinder) FindEquivalences(eq func(a, b Literal)) {
	sorted := append([]*OrGate(nil), g.gates...)
	sort.Slice(sorted, func(i, j int) bool { return lhsLess(sorted[i].Lhs, sorted[j].Lhs) })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Removed || cur.Removed {
			continue
		}
		if !lhsEqual(prev.Lhs, cur.Lhs) {
			continue
		}
		if prev.Rhs.VarID() == cur.Rhs.VarID() {
			continue
		}
		eq(prev.Rhs, cur.Rhs)
	}
}

func lhsLess(a, b []Literal) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func lhsEqual(a, b []Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsLit(lits []Literal, l Literal) bool {
	for _, x := range lits {
		if x == l {
			return true
		}
	}
	return false
}

func containsAll(lits, subset []Literal) bool {
	for _, l := range subset {
		if !containsLit(lits, l) {
			return false
		}
	}
	return true
}
