package sat

import (
	"github.com/rhartert/yagh"
)

// varElimOrder is the priority queue over candidate variables described in
// §4.5, smallest elimination cost popped first. It reuses the same
// yagh.IntMap binary heap the teacher solver uses for decision-variable
// ordering (internal/sat/ordering.go), keyed here by elimination cost
// instead of VSIDS activity.
type varElimOrder struct {
	heap *yagh.IntMap[float64]
}

func newVarElimOrder(numVars int) *varElimOrder {
	h := yagh.New[float64](0)
	h.GrowBy(numVars)
	return &varElimOrder{heap: h}
}

func (o *varElimOrder) expand() { o.heap.GrowBy(1) }

func (o *varElimOrder) update(v int, cost float64) { o.heap.Put(v, cost) }

func (o *varElimOrder) pop() (int, bool) {
	item, ok := o.heap.Pop()
	if !ok {
		return 0, false
	}
	return item.Elem, true
}

func (o *varElimOrder) contains(v int) bool { return o.heap.Contains(v) }

// eliminationCounts tallies a variable's occurrences, split by polarity and
// clause arity, restricted to irredundant clauses (§4.5 "Scoring").
type eliminationCounts struct {
	posBin, negBin   int
	posTern, negTern int
	posLong, negLong int
}

func (c eliminationCounts) posCount() int { return c.posBin + c.posTern + c.posLong }
func (c eliminationCounts) negCount() int { return c.negBin + c.negTern + c.negLong }

// cost implements the strategy-0 heuristic of §4.5.
func (c eliminationCounts) cost() float64 {
	if c.posCount() == 0 || c.negCount() == 0 {
		return -100
	}
	return float64(c.posLong*c.negLong) +
		2*float64(c.posBin*c.negLong) +
		2*float64(c.posLong*c.negBin) +
		3*float64(c.posBin*c.negBin)
}

// Eliminator performs bounded variable elimination (§4.5).
type Eliminator struct {
	db     *Database
	order  *varElimOrder
	budget *stepBudget
	budgetVars *stepBudget

	strategy   int
	aggressive bool

	extender *Extender

	// resolvents accumulated by the most recent test_var_elim call.
	resolvents [][]Literal

	eliminated int
}

// NewEliminator returns an eliminator bound to db, using ext to log blocked
// clauses for later model extension (§4.6).
func NewEliminator(db *Database, opts Options, ext *Extender) *Eliminator {
	e := &Eliminator{
		db:         db,
		order:      newVarElimOrder(db.NumVars()),
		budget:     newStepBudget(opts.Budget.MaxElim),
		budgetVars: newStepBudget(opts.Budget.MaxElimVars),
		strategy:   opts.EliminationStrategy,
		aggressive: opts.Aggressive,
		extender:   ext,
	}
	return e
}

// Expand extends the eliminator's bookkeeping for one freshly added
// variable.
func (e *Eliminator) Expand() { e.order.expand() }

// ScoreAll computes the initial score of every still-live, still-decision
// variable and populates the priority queue (§4.5 "Scoring").
func (e *Eliminator) ScoreAll() {
	for v := 0; v < e.db.NumVars(); v++ {
		if e.db.vars[v].isRemoved() || !e.db.vars[v].isDecision {
			continue
		}
		e.rescore(v)
	}
}

func (e *Eliminator) rescore(v int) {
	counts := e.countOccurrences(v)
	var cost float64
	if e.strategy == 1 {
		c, ok := e.testVarElim(v, counts)
		if !ok {
			cost = 1000
		} else {
			cost = c
		}
	} else {
		cost = counts.cost()
	}
	e.order.update(v, cost)
}

func (e *Eliminator) countOccurrences(v int) eliminationCounts {
	var c eliminationCounts
	pos, neg := PositiveLiteral(v), NegativeLiteral(v)
	for _, w := range e.db.watches.List(pos.Opposite()) {
		if w.Redundant {
			continue
		}
		switch w.Kind {
		case WatchBinary:
			c.posBin++
		case WatchTernary:
			c.posTern++
		case WatchLong:
			c.posLong++
		}
	}
	for _, w := range e.db.watches.List(neg.Opposite()) {
		if w.Redundant {
			continue
		}
		switch w.Kind {
		case WatchBinary:
			c.negBin++
		case WatchTernary:
			c.negTern++
		case WatchLong:
			c.negLong++
		}
	}
	return c
}

// RunAll drains the priority queue, eliminating variables until the queue is
// empty or a budget is exhausted (§4.5, §4.7 step 11).
func (e *Eliminator) RunAll() {
	for {
		if e.budget.exhausted() || e.budgetVars.exhausted() {
			return
		}
		v, ok := e.order.pop()
		if !ok {
			return
		}
		if e.db.vars[v].isRemoved() || !e.db.vars[v].isDecision {
			continue
		}
		if !e.maybeEliminate(v) {
			return // ok went false
		}
	}
}

// testVarElim performs trial resolution over every irredundant clause pair
// mentioning v and ¬v, returning the net cost (after - before) or reporting
// failure (cost 1000, meaning "skip") if the resolvent count would increase
// (§4.5 "Trial resolution").
func (e *Eliminator) testVarElim(v int, counts eliminationCounts) (float64, bool) {
	if counts.posCount() == 0 || counts.negCount() == 0 {
		e.resolvents = e.resolvents[:0]
		return -100, true
	}

	posClauses, _ := e.literalClauses(PositiveLiteral(v))
	negClauses, _ := e.literalClauses(NegativeLiteral(v))

	e.resolvents = e.resolvents[:0]
	before := len(posClauses) + len(negClauses)

	for _, p := range posClauses {
		for _, n := range negClauses {
			resolvent, tautology := merge(p, n, v, e.aggressive)
			if tautology {
				continue
			}
			e.resolvents = append(e.resolvents, resolvent)
		}
	}

	after := len(e.resolvents)
	if after > before {
		return 1000, false
	}
	return float64(after - before), true
}

func (e *Eliminator) literalClauses(l Literal) (lits [][]Literal, hasRedundant bool) {
	for _, w := range e.db.watches.List(l.Opposite()) {
		if w.Redundant {
			hasRedundant = true
			continue
		}
		switch w.Kind {
		case WatchBinary:
			lits = append(lits, []Literal{l, w.Other})
		case WatchTernary:
			lits = append(lits, []Literal{l, w.Other, w.Other2})
		case WatchLong:
			lits = append(lits, append([]Literal(nil), e.db.arena.Literals(w.Offset)...))
		}
	}
	return lits, hasRedundant
}

// merge resolves clauses p and n on pivot, returning the resolvent's
// literals (excluding the pivot) or reporting a tautology (§4.5 "merge").
// aggressive additionally consults external implication/stamp information;
// since those collaborators are out of scope here, aggressive mode never
// finds extra tautologies beyond the direct check.
func merge(p, n []Literal, pivot int, aggressive bool) ([]Literal, bool) {
	seen := map[Literal]bool{}
	out := make([]Literal, 0, len(p)+len(n)-2)

	for _, l := range p {
		if l.VarID() == pivot {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	for _, l := range n {
		if l.VarID() == pivot {
			continue
		}
		if seen[l.Opposite()] {
			return nil, true
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	_ = aggressive
	sortClauseLiterals(out)
	return out, false
}

// maybeEliminate commits the elimination of v if the trial resolution was
// favourable (§4.5 "Commit"). It returns false iff ok became false.
func (e *Eliminator) maybeEliminate(v int) bool {
	counts := e.countOccurrences(v)
	cost, ok := e.testVarElim(v, counts)
	if !ok || cost >= 1000 {
		return true // not eliminated, but not a failure either
	}

	e.budget.spend(counts.posCount() + counts.negCount())

	touched := map[int]bool{}
	e.logAndRemove(PositiveLiteral(v), touched)
	e.logAndRemove(NegativeLiteral(v), touched)

	for _, resolvent := range e.resolvents {
		if len(resolvent) == 0 {
			e.db.ok = false
			return false
		}
		cp := append([]Literal(nil), resolvent...)
		off, isLong := e.db.AddClauseInt(cp, false, true)
		if !e.db.ok {
			return false
		}
		if isLong {
			e.db.linkOccur(off)
		}
		for _, l := range resolvent {
			touched[l.VarID()] = true
		}
	}

	e.db.vars[v].removed = RemovedEliminated
	e.db.vars[v].isDecision = false
	e.eliminated++

	for tv := range touched {
		if !e.db.vars[tv].isRemoved() && e.db.vars[tv].isDecision {
			e.rescore(tv)
		}
	}

	return true
}

// logAndRemove logs every irredundant clause containing l to the blocked
// log (keyed on l in outer numbering) before unlinking and freeing it.
// Redundant clauses on l are simply dropped.
func (e *Eliminator) logAndRemove(l Literal, touched map[int]bool) {
	list := append([]Watch(nil), e.db.watches.List(l.Opposite())...)
	for _, w := range list {
		switch w.Kind {
		case WatchBinary:
			other := w.Other
			if !w.Redundant {
				e.extender.Log(l, []Literal{l, other})
			}
			e.db.detachBinary(l, other)
			e.db.countClause(2, w.Redundant, -1)
			touched[other.VarID()] = true
		case WatchTernary:
			o1, o2 := w.Other, w.Other2
			if !w.Redundant {
				e.extender.Log(l, []Literal{l, o1, o2})
			}
			e.db.detachTernary(l, o1, o2)
			e.db.countClause(3, w.Redundant, -1)
			touched[o1.VarID()] = true
			touched[o2.VarID()] = true
		case WatchLong:
			off := w.Offset
			if e.db.arena.IsFreed(off) {
				continue
			}
			if !w.Redundant {
				e.extender.Log(l, append([]Literal(nil), e.db.arena.Literals(off)...))
			}
			for _, lit := range e.db.arena.Literals(off) {
				touched[lit.VarID()] = true
			}
			e.db.unlinkOccur(off)
			e.db.FreeLong(off)
		}
	}
}
