package sat

// BlockedClauseEntry is one append-only log record written when a clause is
// removed because a variable was eliminated (§3 "Blocked-clause log
// entry"). BlockedOn and Literals are recorded in *outer* variable
// numbering, the numbering the original problem was stated in, so the log
// stays meaningful across any inner renumbering the driver performs.
type BlockedClauseEntry struct {
	BlockedOn Literal
	ToRemove  bool
	Literals  []Literal
}

// Extender replays the blocked-clause log in reverse to turn a partial
// model (one silent on eliminated variables) into a full model, and
// supports un-eliminating a variable on demand (§4.6).
type Extender struct {
	db  *Database
	log []BlockedClauseEntry

	// byVar indexes log entry positions by the VarID they were keyed on,
	// lazily rebuilt whenever an un-elimination invalidates it (§4.6
	// "Un-elimination on demand").
	byVar      map[int][]int
	byVarDirty bool
}

// NewExtender returns an empty extender bound to db.
func NewExtender(db *Database) *Extender {
	return &Extender{db: db, byVar: map[int][]int{}}
}

// Log appends one blocked-clause entry, keyed on blockedOn (outer
// numbering).
func (e *Extender) Log(blockedOn Literal, lits []Literal) {
	e.log = append(e.log, BlockedClauseEntry{
		BlockedOn: blockedOn,
		Literals:  append([]Literal(nil), lits...),
	})
	if !e.byVarDirty {
		v := blockedOn.VarID()
		e.byVar[v] = append(e.byVar[v], len(e.log)-1)
	}
}

// Extend replays the log in reverse to build a full model from partial
// (§4.6 "Replay"). partial must be indexed by outer VarID and may leave
// eliminated variables Unknown; the returned model is complete.
func (e *Extender) Extend(partial []LBool) []LBool {
	full := append([]LBool(nil), partial...)

	for i := len(e.log) - 1; i >= 0; i-- {
		entry := e.log[i]
		if entry.ToRemove {
			continue
		}
		if e.satisfiedUnder(full, entry.Literals) {
			continue
		}

		l := entry.BlockedOn
		v := l.VarID()
		full[v] = Lift(l.IsPositive())
		e.propagateLocally(full, v)
	}

	for v, val := range full {
		if val == Unknown {
			full[v] = True
			e.propagateLocally(full, v)
		}
	}

	return full
}

func (e *Extender) satisfiedUnder(full []LBool, lits []Literal) bool {
	for _, l := range lits {
		v := l.VarID()
		if v >= len(full) {
			continue
		}
		val := full[v]
		if l.IsPositive() && val == True {
			return true
		}
		if !l.IsPositive() && val == False {
			return true
		}
	}
	return false
}

// propagateLocally replays unit consequences of fixing v through the
// original irredundant clauses plus whatever binaries/ternaries remain in
// the watch lists, using a small local queue independent of the main
// propagation queue (§4.6 step 3). A conflict here means the blocked-clause
// log was inconsistent, which is a bug in the simplifier rather than a
// property of the input formula, so it is fatal.
func (e *Extender) propagateLocally(full []LBool, justSet int) {
	queue := []Literal{}
	if full[justSet] == True {
		queue = append(queue, PositiveLiteral(justSet))
	} else if full[justSet] == False {
		queue = append(queue, NegativeLiteral(justSet))
	}

	for len(queue) > 0 {
		l := queue[0]
		queue = queue[1:]

		for _, w := range e.db.watches.List(l) {
			switch w.Kind {
			case WatchBinary:
				if v := litValueIn(full, w.Other); v == Unknown {
					setLit(full, w.Other)
					queue = append(queue, w.Other)
				} else if v == False {
					panic("sat: inconsistent blocked-clause log during extension")
				}
			case WatchTernary:
				v1, v2 := litValueIn(full, w.Other), litValueIn(full, w.Other2)
				if v1 == True || v2 == True {
					continue
				}
				if v1 == Unknown && v2 == Unknown {
					continue
				}
				cand := w.Other
				if v1 != Unknown {
					cand = w.Other2
				}
				if litValueIn(full, cand) == False {
					panic("sat: inconsistent blocked-clause log during extension")
				}
				setLit(full, cand)
				queue = append(queue, cand)

			case WatchLong:
				if e.db.arena.IsFreed(w.Offset) || e.db.arena.IsRemoved(w.Offset) {
					continue
				}
				satisfied := false
				unknownCount := 0
				var cand Literal
				for _, lit := range e.db.arena.Literals(w.Offset) {
					switch litValueIn(full, lit) {
					case True:
						satisfied = true
					case Unknown:
						unknownCount++
						cand = lit
					}
				}
				if satisfied {
					continue
				}
				if unknownCount == 0 {
					panic("sat: inconsistent blocked-clause log during extension")
				}
				if unknownCount == 1 {
					setLit(full, cand)
					queue = append(queue, cand)
				}
			}
		}
	}
}

func litValueIn(full []LBool, l Literal) LBool {
	v := full[l.VarID()]
	if !l.IsPositive() {
		v = v.Opposite()
	}
	return v
}

func setLit(full []LBool, l Literal) {
	full[l.VarID()] = Lift(l.IsPositive())
}

// Uneliminate marks every log entry keyed on v for removal and clears v's
// eliminated status, letting the driver re-add those clauses through its
// normal path (§4.6 "Un-elimination on demand").
func (e *Extender) Uneliminate(v int) []BlockedClauseEntry {
	e.rebuildIndexIfDirty()
	var reintroduced []BlockedClauseEntry
	for _, idx := range e.byVar[v] {
		e.log[idx].ToRemove = true
		reintroduced = append(reintroduced, e.log[idx])
	}
	delete(e.byVar, v)
	e.db.vars[v].removed = RemovedNone
	return reintroduced
}

func (e *Extender) rebuildIndexIfDirty() {
	if !e.byVarDirty {
		return
	}
	e.byVar = map[int][]int{}
	for i, entry := range e.log {
		if entry.ToRemove {
			continue
		}
		v := entry.BlockedOn.VarID()
		e.byVar[v] = append(e.byVar[v], i)
	}
	e.byVarDirty = false
}
