package sat

import "log"

// Database is the clause-database and propagation core shared by the
// (external) CDCL search loop and the simplifier. It owns the arena, the
// watch/occur lists, the trail, and the per-variable assignment state (§3,
// §6). Everything in this file is in scope of the core per §1: the search
// loop's decision heuristic, restart policy and 1UIP analysis are the only
// external pieces.
type Database struct {
	Options Options

	assigns []LBool // indexed by Literal
	vars    []varData

	trail    []Literal
	trailLim []int // trail index of each decision level's first literal

	propQueue *Queue[Literal]

	watches   *watchLists
	occurMode bool

	arena *ClauseArena

	numIrredBin    int
	numRedBin      int
	numIrredTern   int
	numRedTern     int
	numIrredLong   int
	numRedLong     int

	ok bool

	seen  *TouchSet
	seen2 *TouchSet

	tmpLits   []Literal
	tmpReason []Literal

	conflictNumber uint32
}

// NewDatabase returns an empty database sized for numVars variables.
func NewDatabase(numVars int, opts Options) *Database {
	d := &Database{
		Options:   opts,
		assigns:   make([]LBool, 2*numVars),
		vars:      make([]varData, numVars),
		propQueue: NewQueue[Literal](64),
		watches:   newWatchLists(numVars),
		arena:     NewClauseArena(defaultArenaWords),
		ok:        true,
		seen:      &TouchSet{},
		seen2:     &TouchSet{},
	}
	for i := 0; i < numVars; i++ {
		d.vars[i].level = -1
		d.vars[i].isDecision = true
		d.seen.Expand()
		d.seen.Expand()
		d.seen2.Expand()
		d.seen2.Expand()
	}
	for i := range d.assigns {
		d.assigns[i] = Unknown
	}
	return d
}

// NewVar extends the database by one fresh variable, returning its VarID.
func (d *Database) NewVar() int {
	v := len(d.vars)
	d.vars = append(d.vars, varData{level: -1, isDecision: true})
	d.assigns = append(d.assigns, Unknown, Unknown)
	d.watches.expand()
	d.seen.Expand()
	d.seen.Expand()
	d.seen2.Expand()
	d.seen2.Expand()
	return v
}

func (d *Database) NumVars() int { return len(d.vars) }

// Ok reports whether unsatisfiability has been proved at level 0 (§6). It is
// sticky: once false, it never becomes true again.
func (d *Database) Ok() bool { return d.ok }

// LitValue returns the current truth value of a literal.
func (d *Database) LitValue(l Literal) LBool { return d.assigns[l] }

func (d *Database) VarLevel(v int) int32 { return d.vars[v].level }

func (d *Database) VarReason(v int) PropBy { return d.vars[v].reason }

func (d *Database) decisionLevel() int { return len(d.trailLim) }

// DecisionLevel returns the current decision level, 0 at the root.
func (d *Database) DecisionLevel() int { return d.decisionLevel() }

// Assume pushes a new decision level and enqueues l as a decision (no
// reason). It is a thin convenience used by the external search loop; the
// core itself never decides.
func (d *Database) Assume(l Literal) bool {
	d.trailLim = append(d.trailLim, len(d.trail))
	return d.Enqueue(l, NoReason)
}

// Enqueue sets l true at the current decision level with the given
// antecedent. It reports false on a conflicting assignment, matching the
// reference's enqueue (§6, §9).
func (d *Database) Enqueue(l Literal, reason PropBy) bool {
	switch d.LitValue(l) {
	case False:
		return false
	case True:
		return true
	}

	v := l.VarID()
	d.assigns[l] = True
	d.assigns[l.Opposite()] = False
	d.vars[v].level = int32(d.decisionLevel())
	d.vars[v].reason = reason
	d.trail = append(d.trail, l)
	d.propQueue.Push(l)
	return true
}

// undoOne pops the last literal off the trail, resetting its assignment and
// variable bookkeeping to Undef.
func (d *Database) undoOne() {
	l := d.trail[len(d.trail)-1]
	d.trail = d.trail[:len(d.trail)-1]
	v := l.VarID()
	d.assigns[l] = Unknown
	d.assigns[l.Opposite()] = Unknown
	d.vars[v].level = -1
	d.vars[v].reason = NoReason
	d.vars[v].polarity = l.IsPositive()
}

// CancelUntil undoes all assignments made at decision levels beyond level.
func (d *Database) CancelUntil(level int) {
	for d.decisionLevel() > level {
		lim := d.trailLim[len(d.trailLim)-1]
		for len(d.trail) > lim {
			d.undoOne()
		}
		d.trailLim = d.trailLim[:len(d.trailLim)-1]
	}
	d.propQueue.Clear()
}

// Trail returns the current trail, most recent assignment last.
func (d *Database) Trail() []Literal { return d.trail }

// Propagate drains the propagation queue, enforcing unit, binary, ternary
// and long-clause consequences (§6 "propagate"). It returns the conflicting
// antecedent's PropBy and true, or (NoReason, false) if propagation
// completed without conflict.
func (d *Database) Propagate() (PropBy, bool) {
	for d.propQueue.Size() > 0 {
		l := d.propQueue.Pop()
		conflict, ok := d.propagateLiteral(l)
		if !ok {
			d.propQueue.Clear()
			return conflict, true
		}
	}
	return NoReason, false
}

func (d *Database) propagateLiteral(l Literal) (PropBy, bool) {
	falseLit := l.Opposite()
	list := d.watches.List(l)

	keep := list[:0]
	conflict := NoReason
	hadConflict := false

	for i := 0; i < len(list); i++ {
		w := list[i]

		switch w.Kind {
		case WatchBinary:
			if d.LitValue(w.Other) == True {
				keep = append(keep, w)
				continue
			}
			if !d.Enqueue(w.Other, binaryReason(falseLit)) {
				keep = append(keep, list[i:]...)
				hadConflict = true
				conflict = binaryReason(falseLit)
				goto drain
			}
			keep = append(keep, w)

		case WatchTernary:
			v1, v2 := d.LitValue(w.Other), d.LitValue(w.Other2)
			if v1 == True || v2 == True {
				keep = append(keep, w)
				continue
			}
			if v1 == Unknown && v2 == Unknown {
				keep = append(keep, w)
				continue
			}
			// Exactly one of the two remaining literals is False; the other
			// is the propagation candidate (it may itself already be False,
			// in which case this is a conflict).
			var cand Literal
			if v1 == Unknown {
				cand = w.Other
			} else {
				cand = w.Other2
			}
			if !d.Enqueue(cand, ternaryReason(falseLit, otherOf(w, cand))) {
				keep = append(keep, list[i:]...)
				hadConflict = true
				conflict = ternaryReason(falseLit, otherOf(w, cand))
				goto drain
			}
			keep = append(keep, w)

		case WatchLong:
			lits := d.arena.Literals(w.Offset)
			// Make sure falseLit sits at lits[1]; lits[0] is the candidate to
			// enqueue if every other literal is false (mirrors the
			// reference's two-watch convention, §9).
			if lits[0] == falseLit {
				lits[0], lits[1] = lits[1], lits[0]
			}
			if d.LitValue(lits[0]) == True {
				keep = append(keep, Watch{Kind: WatchLong, Offset: w.Offset, Other: lits[0], Redundant: w.Redundant})
				continue
			}
			found := false
			for j := 2; j < len(lits); j++ {
				if d.LitValue(lits[j]) != False {
					lits[1], lits[j] = lits[j], lits[1]
					d.watches.add(lits[1].Opposite(), Watch{Kind: WatchLong, Offset: w.Offset, Other: lits[0], Redundant: w.Redundant})
					found = true
					break
				}
			}
			if found {
				continue
			}
			if !d.Enqueue(lits[0], longReason(w.Offset)) {
				keep = append(keep, list[i:]...)
				hadConflict = true
				conflict = longReason(w.Offset)
				goto drain
			}
			keep = append(keep, Watch{Kind: WatchLong, Offset: w.Offset, Other: lits[0], Redundant: w.Redundant})
		}
	}

drain:
	d.watches.lists[l] = keep
	return conflict, !hadConflict
}

func otherOf(w Watch, cand Literal) Literal {
	if w.Other == cand {
		return w.Other2
	}
	return w.Other
}

// AddClauseInt is the unified clause-adder described in §6. lits is consumed
// (may be reordered/truncated in place). It dedups, drops clauses satisfied
// at the root, performs immediate propagation on newly-unit clauses,
// promotes binary/ternary clauses to their implicit watch-only form, and
// for length >= 4 allocates in the arena. It returns the clause's offset and
// true if a long clause was created; (0, false) otherwise (including when
// the clause was absorbed as a unit, binary, ternary, or found trivially
// satisfied).
func (d *Database) AddClauseInt(lits []Literal, redundant bool, attach bool) (ClauseOffset, bool) {
	if !d.ok {
		return 0, false
	}

	lits = dedupAndCheckTrivial(lits, d)
	if lits == nil {
		return 0, false // trivially satisfied or contains a var and its negation
	}

	switch len(lits) {
	case 0:
		d.ok = false
		return 0, false
	case 1:
		if !d.Enqueue(lits[0], NoReason) {
			d.ok = false
			return 0, false
		}
		if _, conflict := d.Propagate(); conflict {
			d.ok = false
		}
		return 0, false
	case 2:
		if attach {
			d.attachBinary(lits[0], lits[1], redundant)
		}
		d.countClause(2, redundant, 1)
		return 0, false
	case 3:
		if attach {
			d.attachTernary(lits[0], lits[1], lits[2], redundant)
		}
		d.countClause(3, redundant, 1)
		return 0, false
	default:
		off, err := d.arena.Alloc(lits, redundant, d.conflictNumber)
		if err != nil {
			log.Fatalf("sat: %v", err)
		}
		if attach {
			d.attachLong(off, redundant)
		}
		d.countClause(len(lits), redundant, 1)
		return off, true
	}
}

func (d *Database) countClause(size int, redundant bool, delta int) {
	switch {
	case size == 2 && redundant:
		d.numRedBin += delta
	case size == 2:
		d.numIrredBin += delta
	case size == 3 && redundant:
		d.numRedTern += delta
	case size == 3:
		d.numIrredTern += delta
	case redundant:
		d.numRedLong += delta
	default:
		d.numIrredLong += delta
	}
}

// dedupAndCheckTrivial sorts out duplicate literals and root-false
// literals, reporting nil if the clause is trivially satisfied (tautology
// or a literal already True at level 0).
func dedupAndCheckTrivial(lits []Literal, d *Database) []Literal {
	d.seen.Clear()
	defer d.seen.Clear()

	j := 0
	for _, l := range lits {
		switch d.LitValue(l) {
		case True:
			return nil
		case False:
			continue // drop root-falsified literal
		}
		vid := l.VarID()
		pol := boolToInt(l.IsPositive())
		if d.seen.Contains(2*vid + pol) {
			continue // duplicate, already kept
		}
		if d.seen.Contains(2*vid + 1 - pol) {
			return nil // both polarities present: tautology
		}
		d.seen.Add(2*vid + pol)
		lits[j] = l
		j++
	}
	return lits[:j]
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// attachBinary links a binary clause into both literals' watch lists. It does
// not propagate: a side that is already falsified is not acted on here.
func (d *Database) attachBinary(a, b Literal, redundant bool) {
	d.watches.addBinary(a.Opposite(), b, redundant)
	d.watches.addBinary(b.Opposite(), a, redundant)
}

func (d *Database) detachBinary(a, b Literal) {
	d.watches.removeBinary(a.Opposite(), b)
	d.watches.removeBinary(b.Opposite(), a)
}

func (d *Database) attachTernary(a, b, c Literal, redundant bool) {
	if b > c {
		b, c = c, b
	}
	d.watches.addTernary(a.Opposite(), b, c, redundant)
	if a > c {
		a, c = c, a
	}
	d.watches.addTernary(b.Opposite(), a, c, redundant)
	if a > b {
		a, b = b, a
	}
	d.watches.addTernary(c.Opposite(), a, b, redundant)
}

func (d *Database) detachTernary(a, b, c Literal) {
	d.watches.removeTernary(a.Opposite(), b, c)
	d.watches.removeTernary(b.Opposite(), a, c)
	d.watches.removeTernary(c.Opposite(), a, b)
}

// attachLong links a freshly allocated long clause into propagation watches
// on its first two literals.
func (d *Database) attachLong(off ClauseOffset, redundant bool) {
	lits := d.arena.Literals(off)
	d.watches.addLong(lits[0].Opposite(), off, lits[1], 0, redundant)
	d.watches.addLong(lits[1].Opposite(), off, lits[0], 0, redundant)
}

// detachLong removes a long clause's two propagation watches.
func (d *Database) detachLong(off ClauseOffset) {
	lits := d.arena.Literals(off)
	d.watches.removeLong(lits[0].Opposite(), off)
	d.watches.removeLong(lits[1].Opposite(), off)
}

// FreeLong marks the clause freed in the arena and updates counters. It does
// not touch the watch lists: callers must detach the clause (propagation
// mode) or call unlinkOccur(off) (occur mode) themselves beforehand (§4.2).
func (d *Database) FreeLong(off ClauseOffset) {
	redundant := d.arena.IsRedundant(off)
	size := d.arena.Size(off)
	d.arena.Free(off)
	d.countClause(size, redundant, -1)
}

// DetachAllLongs clears every long-clause propagation watch, the first step
// of switching to occur mode (§4.2, §4.7 step 2).
func (d *Database) DetachAllLongs() {
	for lit := 0; lit < len(d.watches.lists); lit++ {
		d.watches.removeAllLong(Literal(lit))
	}
	d.occurMode = false
}

// linkOccur inserts one occurrence-mode watch per literal of the clause at
// off. Entries are stored at each literal's opposite, the same convention
// propagation-mode watches use (list[x] holds clauses containing x.Opposite()):
// this lets subsumer/eliminator queries for "clauses containing l" use the
// single uniform lookup watches.List(l.Opposite()) regardless of clause
// kind (§4.2).
func (d *Database) linkOccur(off ClauseOffset) {
	lits := d.arena.Literals(off)
	abst := d.arena.Abstraction(off)
	redundant := d.arena.IsRedundant(off)
	for _, l := range lits {
		d.watches.addLong(l.Opposite(), off, LitUndef, abst, redundant)
	}
}

// unlinkOccur removes the occurrence-mode watch for off from every literal
// currently recorded as containing it.
func (d *Database) unlinkOccur(off ClauseOffset) {
	lits := d.arena.Literals(off)
	for _, l := range lits {
		d.watches.removeLong(l.Opposite(), off)
	}
}

// ReattachAllLongs relinks every non-freed, non-removed long clause back
// into propagation-mode watches after a simplification round (§4.7 step
// 12).
func (d *Database) ReattachAllLongs(offsets []ClauseOffset) {
	for _, off := range offsets {
		if d.arena.IsFreed(off) || d.arena.IsRemoved(off) {
			continue
		}
		d.attachLong(off, d.arena.IsRedundant(off))
	}
	d.occurMode = false
}

// Consolidate compacts the arena (if due, or forced) and rewrites every
// PropBy reason and long watch offset via the compactor's remap callback
// (§4.1 step 4, §9). Must only be called at decision level 0.
func (d *Database) Consolidate(force bool) bool {
	remap := func(old, new ClauseOffset) {
		for v := range d.vars {
			if d.vars[v].reason.Kind == PropByLong && d.vars[v].reason.Offset == old {
				d.vars[v].reason.Offset = new
			}
		}
		for lit := 0; lit < len(d.watches.lists); lit++ {
			list := d.watches.lists[lit]
			for i := range list {
				if list[i].Kind == WatchLong && list[i].Offset == old {
					list[i].Offset = new
				}
			}
		}
	}
	return d.arena.Consolidate(force, remap)
}

// Arena exposes the underlying clause arena to the simplifier components,
// which read/write clause headers and literals directly.
func (d *Database) Arena() *ClauseArena { return d.arena }

// Watches exposes the underlying watch/occur lists.
func (d *Database) Watches() *watchLists { return d.watches }

func (d *Database) SetOccurMode(v bool) { d.occurMode = v }
func (d *Database) OccurMode() bool     { return d.occurMode }

func (d *Database) SetConflictNumber(n uint32) { d.conflictNumber = n }
