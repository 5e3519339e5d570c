package sat

import "log"

// Simplifier sequences one in-processing round over a Database: gate
// finding, subsumption, strengthening, blocked-clause elimination,
// propagation, and variable elimination, all while the long clauses are
// occur-linked (§4.7). It is the component an external CDCL search loop
// calls between conflicts to shrink and clean up the clause set.
type Simplifier struct {
	DB       *Database
	Extender *Extender

	opts Options

	longIrred []ClauseOffset
	longRed   []ClauseOffset

	Stats SimplifyStats
}

// SimplifyStats accumulates counters across rounds (§4.7 step 14), surfaced
// to the caller for logging.
type SimplifyStats struct {
	Rounds        int
	Subsumed      int
	Strengthened  int
	GatesFound    int
	Eliminated    int
}

// NewSimplifier returns a simplifier bound to db.
func NewSimplifier(db *Database, opts Options) *Simplifier {
	return &Simplifier{
		DB:       db,
		Extender: NewExtender(db),
		opts:     opts,
	}
}

// Run executes one simplification round (§4.7). It reports whether the
// database remains satisfiable-looking (ok); the caller should stop calling
// Run once it returns false.
func (s *Simplifier) Run() bool {
	if !s.DB.Ok() {
		return false
	}
	if s.DB.DecisionLevel() != 0 {
		log.Fatalf("sat: Simplify called above decision level 0")
	}

	s.dropSatisfied()

	s.DB.DetachAllLongs()
	s.collectLongOffsets()

	if !s.linkIrred() {
		s.DB.ReattachAllLongs(s.allLongOffsets())
		return s.DB.Ok()
	}
	s.linkRed()
	s.DB.SetOccurMode(true)

	gf := NewGateFinder(s.DB, s.opts)
	gf.FindGates(s.longIrred)
	s.Stats.GatesFound += len(gf.gates)
	gf.ShortenWithGates(s.allLongOffsets())
	gf.ContractAndGates(s.allLongOffsets())
	gf.FindEquivalences(func(a, b Literal) {
		// Handing equivalences to an external equivalence-replacer is out of
		// scope (§1); recording them here would require that collaborator.
		_ = a
		_ = b
	})

	sub := NewSubsumer(s.DB, s.opts.Budget)
	sub.Subsume0(sampledPrefix(s.allLongOffsets(), s.opts.Seed))
	if s.DB.Ok() {
		sub.Subsume1(sampledPrefix(s.allLongOffsets(), s.opts.Seed+1))
	}
	s.Stats.Subsumed += sub.numSubsumed
	s.Stats.Strengthened += sub.numStrengthened

	if s.DB.Ok() {
		s.blockedClauseElimination()
	}

	if s.DB.Ok() {
		if _, conflict := s.DB.Propagate(); conflict {
			s.DB.ok = false
		}
	}

	if s.DB.Ok() {
		elim := NewEliminator(s.DB, s.opts, s.Extender)
		elim.ScoreAll()
		elim.RunAll()
		s.Stats.Eliminated += elim.eliminated
	}

	s.unlinkAll()
	s.DB.ReattachAllLongs(s.allLongOffsets())

	if _, conflict := s.DB.Propagate(); conflict {
		s.DB.ok = false
	}

	s.Stats.Rounds++
	return s.DB.Ok()
}

func (s *Simplifier) dropSatisfied() {
	// Clause-cleaning (dropping root-satisfied clauses, shrinking clauses
	// with root-falsified literals) is the external clause-cleaner's job per
	// §4.7 step 1; the core's contribution is making sure propagation is
	// settled first.
	if _, conflict := s.DB.Propagate(); conflict {
		s.DB.ok = false
	}
}

func (s *Simplifier) collectLongOffsets() {
	s.longIrred = s.longIrred[:0]
	s.longRed = s.longRed[:0]
	a := s.DB.arena
	off := ClauseOffset(0)
	for _, size := range a.origClauseSizes {
		if !a.IsFreed(off) && !a.IsRemoved(off) {
			if a.IsRedundant(off) {
				s.longRed = append(s.longRed, off)
			} else {
				s.longIrred = append(s.longIrred, off)
			}
		}
		off += ClauseOffset(size)
	}
}

func (s *Simplifier) allLongOffsets() []ClauseOffset {
	out := make([]ClauseOffset, 0, len(s.longIrred)+len(s.longRed))
	out = append(out, s.longIrred...)
	out = append(out, s.longRed...)
	return out
}

// linkIrred occur-links every irredundant long clause, subject to the
// memory cap (§4.7 step 3). Irredundant linking is mandatory: if the cap is
// exceeded, it reports false and leaves the database in propagation mode.
func (s *Simplifier) linkIrred() bool {
	estimate := estimateOccurMB(s.DB, s.longIrred)
	if estimate > s.opts.MaxOccurIrredMB {
		return false
	}
	for _, off := range s.longIrred {
		s.DB.linkOccur(off)
	}
	return true
}

// linkRed occur-links redundant long clauses subject to its own memory cap
// and a per-clause size cap; clauses that don't fit stay un-linked and
// therefore invisible to the subsumer/eliminator for this round (§4.7 step
// 4).
func (s *Simplifier) linkRed() {
	budgetMB := s.opts.MaxOccurRedMB
	linked := make([]ClauseOffset, 0, len(s.longRed))
	for _, off := range s.longRed {
		if s.DB.arena.Size(off) > s.opts.MaxRedLinkInSize {
			continue
		}
		if estimateOccurMB(s.DB, []ClauseOffset{off}) > budgetMB {
			continue
		}
		budgetMB -= estimateOccurMB(s.DB, []ClauseOffset{off})
		s.DB.linkOccur(off)
		linked = append(linked, off)
	}
	s.longRed = linked
}

func (s *Simplifier) unlinkAll() {
	for _, off := range s.allLongOffsets() {
		if s.DB.arena.IsFreed(off) || s.DB.arena.IsRemoved(off) {
			continue
		}
		s.DB.unlinkOccur(off)
	}
}

// blockedClauseElimination removes long clauses where some literal L has
// the property that every resolvent on L (against clauses containing ¬L)
// is tautological: such a clause can never be the reason a satisfying
// assignment needs it, so it is logged and dropped (§4.7 step 9).
func (s *Simplifier) blockedClauseElimination() {
	budget := newStepBudget(s.opts.Budget.MaxClRemWithGates)
	for _, off := range s.allLongOffsets() {
		if budget.exhausted() {
			return
		}
		if s.DB.arena.IsFreed(off) || s.DB.arena.IsRemoved(off) {
			continue
		}
		lits := s.DB.arena.Literals(off)
		budget.spend(len(lits))
		for _, l := range lits {
			if s.isBlockedOn(off, lits, l) {
				s.Extender.Log(l, lits)
				s.DB.unlinkOccur(off)
				s.DB.FreeLong(off)
				break
			}
		}
	}
}

func (s *Simplifier) isBlockedOn(off ClauseOffset, lits []Literal, l Literal) bool {
	// List(l) holds the clauses containing l.Opposite(), of every kind.
	for _, w := range s.DB.watches.List(l) {
		other := []Literal{l.Opposite(), w.Other, w.Other2}
		switch w.Kind {
		case WatchBinary:
			other = other[:2]
		case WatchLong:
			if w.Offset == off {
				continue
			}
			other = s.DB.arena.Literals(w.Offset)
		}
		_, tautology := merge(lits, other, l.VarID(), false)
		if !tautology {
			return false
		}
	}
	return true
}

func estimateOccurMB(db *Database, offsets []ClauseOffset) int {
	words := 0
	for _, off := range offsets {
		words += headerWords + db.arena.Size(off)
	}
	bytes := words * 4
	return bytes / (1 << 20)
}

// sampledPrefix returns a copy of all of offsets, shuffled by n + n/2
// deterministic pseudo-random swaps, matching §5's Mersenne-Twister-seeded
// sampling requirement in spirit: given the same seed, the same order is
// produced.
// This implementation uses a small xorshift generator rather than a literal
// Mersenne Twister, since no such collaborator is wired into this module
// (see DESIGN.md).
func sampledPrefix(offsets []ClauseOffset, seed int64) []ClauseOffset {
	n := len(offsets)
	if n == 0 {
		return offsets
	}
	out := append([]ClauseOffset(nil), offsets...)
	state := uint64(seed)*2685821657736338717 + 1
	next := func() uint64 {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		return state
	}
	limit := n + n/2
	for i := 0; i < limit && n > 1; i++ {
		j := int(next() % uint64(n))
		k := int(next() % uint64(n))
		out[j], out[k] = out[k], out[j]
	}
	return out
}
