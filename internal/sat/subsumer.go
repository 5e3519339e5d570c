package sat

import "sort"

// subsumeResult is the verdict subset1 returns for a candidate/other pair
// (§4.3).
type subsumeResult uint8

const (
	subsumeNone subsumeResult = iota
	subsumeSubsume
	subsumeStrengthen
)

// Subsumer implements backward subsumption and self-subsuming resolution
// over the database's long clauses while it is occur-linked (§4.2, §4.3).
// It must only run in occur mode.
type Subsumer struct {
	db *Database

	budget0 *stepBudget
	budget1 *stepBudget

	numSubsumed    int
	numStrengthened int
}

// NewSubsumer returns a subsumer bound to db, with fresh step budgets drawn
// from opts.
func NewSubsumer(db *Database, opts BudgetOptions) *Subsumer {
	return &Subsumer{
		db:      db,
		budget0: newStepBudget(opts.MaxSubsume0),
		budget1: newStepBudget(opts.MaxSubsume1),
	}
}

// Subsume0 runs backward subsumption over the given candidate offsets,
// removing any clause each candidate subsumes (§4.3 "subsume0"). Clauses
// must be occur-linked and sorted ascending by literal value.
func (s *Subsumer) Subsume0(candidates []ClauseOffset) {
	for _, c := range candidates {
		if s.budget0.exhausted() {
			return
		}
		if s.db.arena.IsFreed(c) || s.db.arena.IsRemoved(c) {
			continue
		}
		s.subsume0One(c)
	}
}

func (s *Subsumer) subsume0One(c ClauseOffset) {
	lits := s.db.arena.Literals(c)
	aC := s.db.arena.Abstraction(c)

	pivot := smallestWatchListLiteral(s.db, lits)
	list := s.db.watches.List(pivot.Opposite())
	s.budget0.spend(len(list))

	for _, w := range list {
		if w.Kind != WatchLong || w.Offset == c {
			continue
		}
		d := w.Offset
		if s.db.arena.IsFreed(d) || s.db.arena.IsRemoved(d) {
			continue
		}
		if aC&^w.Abst != 0 {
			continue
		}
		if s.db.arena.Size(c) > s.db.arena.Size(d) {
			continue
		}
		s.budget0.spend(s.db.arena.Size(d))
		if isSortedSubset(lits, s.db.arena.Literals(d)) {
			s.removeSubsumed(c, d)
		}
	}
}

// Subsume1 runs self-subsuming resolution (strengthening) over the given
// candidate offsets (§4.3 "subsume1").
func (s *Subsumer) Subsume1(candidates []ClauseOffset) {
	for _, c := range candidates {
		if s.budget1.exhausted() {
			return
		}
		if s.db.arena.IsFreed(c) || s.db.arena.IsRemoved(c) {
			continue
		}
		if !s.subsume1One(c) {
			return // ok went false; caller must check
		}
	}
}

func (s *Subsumer) subsume1One(c ClauseOffset) bool {
	lits := append([]Literal(nil), s.db.arena.Literals(c)...)
	aC := clauseAbstraction(lits)

	pivot := smallestWatchListLiteral(s.db, lits)

	// Candidates sharing the pivot's exact polarity can be subsumed or
	// strengthened on one of their OTHER literals; candidates containing the
	// pivot's negation can only be strengthened, specifically by dropping
	// their occurrence of ¬pivot. Both lists must be scanned or a flip
	// landing on the minimal-list literal itself would never be found
	// (§4.3).
	same := append([]Watch(nil), s.db.watches.List(pivot.Opposite())...)
	flipped := append([]Watch(nil), s.db.watches.List(pivot)...)
	s.budget1.spend(len(same) + len(flipped))

	if !s.subsume1Scan(c, lits, aC, same) {
		return false
	}
	if !s.db.arena.IsFreed(c) && !s.db.arena.IsRemoved(c) {
		if !s.subsume1Scan(c, lits, aC, flipped) {
			return false
		}
	}
	return true
}

func (s *Subsumer) subsume1Scan(c ClauseOffset, lits []Literal, aC uint32, list []Watch) bool {
	for _, w := range list {
		if w.Kind != WatchLong || w.Offset == c {
			continue
		}
		d := w.Offset
		if s.db.arena.IsFreed(d) || s.db.arena.IsRemoved(d) {
			continue
		}
		if aC&^w.Abst != 0 {
			continue
		}
		s.budget1.spend(s.db.arena.Size(d))

		switch res, strLit := s.subset1(lits, s.db.arena.Literals(d)); res {
		case subsumeSubsume:
			s.removeSubsumed(c, d)
		case subsumeStrengthen:
			if !s.strengthen(d, strLit) {
				return false
			}
		}
	}
	return true
}

// subset1 walks the ascending-sorted merge of c and d's literals. If every
// literal of c appears identically in d except exactly one which appears
// with opposite sign, it returns Strengthen on that literal (in d's
// polarity). If every literal appears identically, it returns Subsume.
// Otherwise None (§4.3).
func (s *Subsumer) subset1(c, d []Literal) (subsumeResult, Literal) {
	i, j := 0, 0
	flipped := LitUndef
	for i < len(c) {
		if j >= len(d) {
			return subsumeNone, LitUndef
		}
		switch {
		case c[i] == d[j]:
			i++
			j++
		case c[i].Opposite() == d[j]:
			if flipped != LitUndef {
				return subsumeNone, LitUndef
			}
			flipped = d[j]
			i++
			j++
		case c[i] > d[j]:
			j++
		default:
			return subsumeNone, LitUndef
		}
	}
	if flipped != LitUndef {
		return subsumeStrengthen, flipped
	}
	return subsumeSubsume, LitUndef
}

// strengthen removes lit from clause d, drops d from lit's watch list,
// recomputes d's abstraction, and recursively cleans the shortened clause:
// drops it if satisfied, enqueues+propagates if it became a unit, and
// demotes it to binary/ternary (freeing the long form) if it shrank to
// length 2 or 3 (§4.3).
func (s *Subsumer) strengthen(d ClauseOffset, lit Literal) bool {
	s.db.unlinkOccur(d)
	lits := s.db.arena.Literals(d)
	j := 0
	for _, l := range lits {
		if l != lit {
			lits[j] = l
			j++
		}
	}
	s.db.arena.setSize(d, j)
	lits = lits[:j]
	s.db.arena.RecomputeAbstraction(d)
	s.db.arena.setStrengthened(d, true)
	s.numStrengthened++

	s.db.arena.Free(d) // old long form no longer valid; commit replacement below

	for _, l := range lits {
		if s.db.LitValue(l) == True {
			return true // satisfied: dropped
		}
	}

	redundant := s.db.arena.IsRedundant(d)
	switch len(lits) {
	case 0:
		s.db.ok = false
		return false
	case 1:
		ok := s.db.Enqueue(lits[0], NoReason)
		if !ok {
			s.db.ok = false
			return false
		}
		if _, conflict := s.db.Propagate(); conflict {
			s.db.ok = false
			return false
		}
	case 2:
		s.db.attachBinary(lits[0], lits[1], redundant)
	case 3:
		s.db.attachTernary(lits[0], lits[1], lits[2], redundant)
	default:
		off, err := s.db.arena.Alloc(lits, redundant, s.db.conflictNumber)
		if err != nil {
			return false
		}
		s.db.linkOccur(off)
	}
	return true
}

// removeSubsumed unlinks and frees d, promoting c to irredundant first if d
// was irredundant and c was redundant (§4.3 "Redundancy promotion").
func (s *Subsumer) removeSubsumed(c, d ClauseOffset) {
	if s.db.arena.IsRedundant(c) && !s.db.arena.IsRedundant(d) {
		s.db.arena.SetRedundant(c, false)
	}
	s.db.unlinkOccur(d)
	s.db.FreeLong(d)
	s.numSubsumed++
}

func smallestWatchListLiteral(db *Database, lits []Literal) Literal {
	best := lits[0]
	bestLen := len(db.watches.List(best.Opposite()))
	for _, l := range lits[1:] {
		if n := len(db.watches.List(l.Opposite())); n < bestLen {
			best, bestLen = l, n
		}
	}
	return best
}

// isSortedSubset reports whether every literal of a appears in b, assuming
// both are sorted ascending.
func isSortedSubset(a, b []Literal) bool {
	j := 0
	for _, l := range a {
		for j < len(b) && b[j] < l {
			j++
		}
		if j >= len(b) || b[j] != l {
			return false
		}
	}
	return true
}

// sortClauseLiterals restores ascending order after a mutation, the order
// subsume0/subsume1's merge-walk requires (§4.3).
func sortClauseLiterals(lits []Literal) {
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })
}
