package sat

import "testing"

// litHolds reports whether literal l is true under a full model (§4.6).
func litHolds(full []LBool, l Literal) bool {
	val := full[l.VarID()]
	if l.IsPositive() {
		return val == True
	}
	return val == False
}

func clauseHolds(full []LBool, lits ...Literal) bool {
	for _, l := range lits {
		if litHolds(full, l) {
			return true
		}
	}
	return false
}

// TestSimplifier_Scenario1BothBranchesConflict covers spec scenario 1: the
// four binary clauses over two variables form an unsatisfiable core. Neither
// branch of a case split on var 1 survives propagation, so the instance is
// UNSAT — deciding and searching a full CDCL tree is out of scope (§1), but
// this demonstrates the conflict the core's Propagate is responsible for
// surfacing on each branch.
func TestSimplifier_Scenario1BothBranchesConflict(t *testing.T) {
	db := newTestDatabase(2)

	db.attachBinary(PositiveLiteral(0), PositiveLiteral(1), false) // (1 v 2)
	db.attachBinary(NegativeLiteral(0), PositiveLiteral(1), false) // (!1 v 2)
	db.attachBinary(PositiveLiteral(0), NegativeLiteral(1), false) // (1 v !2)
	db.attachBinary(NegativeLiteral(0), NegativeLiteral(1), false) // (!1 v !2)

	if !db.Assume(PositiveLiteral(0)) {
		t.Fatal("assuming var 1 true should succeed from an empty trail")
	}
	if _, conflict := db.Propagate(); !conflict {
		t.Error("var 1 = true should conflict")
	}
	db.CancelUntil(0)

	if !db.Assume(NegativeLiteral(0)) {
		t.Fatal("assuming var 1 false should succeed after cancelling")
	}
	if _, conflict := db.Propagate(); !conflict {
		t.Error("var 1 = false should also conflict")
	}
}

// TestSimplifier_Scenario2EliminationThenExtension covers spec scenario 2:
// eliminating a variable that appears in every clause of a small ternary
// instance, then reconstructing a full model from a satisfying assignment of
// the residual formula (§4.5, §4.6).
func TestSimplifier_Scenario2EliminationThenExtension(t *testing.T) {
	db := newTestDatabase(3)

	original := [][]Literal{
		{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, // (1 v 2 v 3)
		{NegativeLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, // (!1 v 2 v 3)
		{PositiveLiteral(0), NegativeLiteral(1), PositiveLiteral(2)}, // (1 v !2 v 3)
		{PositiveLiteral(0), PositiveLiteral(1), NegativeLiteral(2)}, // (1 v 2 v !3)
	}
	for _, cl := range original {
		db.attachTernary(cl[0], cl[1], cl[2], false)
	}
	db.SetOccurMode(true)

	ext := NewExtender(db)
	elim := NewEliminator(db, DefaultOptions, ext)

	if !elim.maybeEliminate(0) {
		t.Fatal("variable 1 should be eliminable")
	}
	if !db.vars[0].isRemoved() {
		t.Fatal("variable 1 should be marked removed")
	}

	// The residual formula is satisfiable by setting var 2 true (whatever
	// var 3 is); that's all the partial model the extender needs.
	partial := make([]LBool, 3)
	partial[1] = True

	full := ext.Extend(partial)

	for i, cl := range original {
		if !clauseHolds(full, cl...) {
			t.Errorf("original clause %d (%v) not satisfied by extended model %v", i, cl, full)
		}
	}
}

// TestSimplifier_Scenario4SubsumptionEndToEnd covers spec scenario 4 through
// the full driver: a clause subsuming a longer one should vanish from the
// database over a complete Run (§4.7).
func TestSimplifier_Scenario4SubsumptionEndToEnd(t *testing.T) {
	db := newTestDatabase(8)

	db.AddClauseInt(mkLits(1, 2, 3, 4), false, true)
	off, _ := db.AddClauseInt(mkLits(1, 2, 3, 4, 5), false, true)

	sim := NewSimplifier(db, DefaultOptions)
	if !sim.Run() {
		t.Fatal("database should remain satisfiable-looking")
	}

	if !db.arena.IsFreed(off) && !db.arena.IsRemoved(off) {
		t.Error("the five-literal superset should have been subsumed away")
	}
	if sim.Stats.Subsumed == 0 {
		t.Error("Stats.Subsumed should have advanced")
	}
}

// TestSimplifier_Scenario5StrengtheningEndToEnd covers spec scenario 5
// through the full driver: self-subsuming resolution should shrink a clause
// over a complete Run (§4.7).
func TestSimplifier_Scenario5StrengtheningEndToEnd(t *testing.T) {
	db := newTestDatabase(8)

	db.AddClauseInt(mkLits(1, -2, 3, 4), false, true)
	off, _ := db.AddClauseInt(mkLits(1, 2, 3, 4), false, true)

	sim := NewSimplifier(db, DefaultOptions)
	if !sim.Run() {
		t.Fatal("database should remain satisfiable-looking")
	}

	if sim.Stats.Strengthened == 0 {
		t.Error("Stats.Strengthened should have advanced")
	}
	if !db.arena.IsFreed(off) {
		t.Error("the strengthened clause's old long form should have been freed")
	}
}

// TestSimplifier_GateScenarioStaysSatisfiableAcrossRounds exercises spec
// scenario 3's gate instance through the full driver. The exact net clause
// count after gate-based rewriting interacts with whichever existing clauses
// happen to subsume the rewritten form (§4.4), so this checks the properties
// that must hold regardless of that interaction: the gate is discovered, and
// two successive rounds both leave the database satisfiable-looking.
func TestSimplifier_GateScenarioStaysSatisfiableAcrossRounds(t *testing.T) {
	db := newTestDatabase(5)

	db.AddClauseInt(mkLits(-4, 1, 2, 3), false, true)
	db.attachBinary(PositiveLiteral(3), NegativeLiteral(0), false) // (4 v !1)
	db.attachBinary(PositiveLiteral(3), NegativeLiteral(1), false) // (4 v !2)
	db.attachBinary(PositiveLiteral(3), NegativeLiteral(2), false) // (4 v !3)
	db.AddClauseInt(mkLits(-1, -2, -3, 5), false, true)
	db.attachBinary(NegativeLiteral(3), PositiveLiteral(4), false) // (!4 v 5)

	sim := NewSimplifier(db, DefaultOptions)
	if !sim.Run() {
		t.Fatal("database should remain satisfiable-looking after round 1")
	}
	if sim.Stats.GatesFound == 0 {
		t.Error("expected the gate finder to discover the 4 == (1 v 2 v 3) gate")
	}

	if !sim.Run() {
		t.Fatal("database should remain satisfiable-looking after round 2")
	}
}
