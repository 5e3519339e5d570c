package sat

import "testing"

// TestExtender_ExtendForcesUnsatisfiedBlockedLiteral covers the core replay
// rule of §4.6: a log entry whose clause isn't already satisfied forces its
// BlockedOn literal true.
func TestExtender_ExtendForcesUnsatisfiedBlockedLiteral(t *testing.T) {
	db := newTestDatabase(2)
	ext := NewExtender(db)
	ext.Log(PositiveLiteral(0), []Literal{PositiveLiteral(0)})

	full := ext.Extend(make([]LBool, 2))

	if full[0] != True {
		t.Errorf("full[0] = %v, want True", full[0])
	}
}

// TestExtender_ExtendSkipsAlreadySatisfiedEntry checks that an entry whose
// clause is already satisfied by another literal in partial is left alone,
// so its blocked variable falls through to the final "assign remaining
// Unknown vars True" pass instead of being forced by its own polarity.
func TestExtender_ExtendSkipsAlreadySatisfiedEntry(t *testing.T) {
	db := newTestDatabase(2)
	ext := NewExtender(db)
	// Entry wants var0 forced False (BlockedOn = !x0) unless var1 is True.
	ext.Log(NegativeLiteral(0), []Literal{NegativeLiteral(0), PositiveLiteral(1)})

	partial := make([]LBool, 2)
	partial[1] = True // clause already satisfied via the other literal

	full := ext.Extend(partial)

	if full[0] != True {
		t.Errorf("full[0] = %v, want True (entry skipped, default fill wins)", full[0])
	}
}

// TestExtender_ExtendAppliesBlockedPolarityWhenUnsatisfied is the
// counterpart: when the clause is NOT already satisfied, the blocked
// variable is forced to the entry's recorded polarity.
func TestExtender_ExtendAppliesBlockedPolarityWhenUnsatisfied(t *testing.T) {
	db := newTestDatabase(2)
	ext := NewExtender(db)
	ext.Log(NegativeLiteral(0), []Literal{NegativeLiteral(0), PositiveLiteral(1)})

	partial := make([]LBool, 2)
	partial[1] = False // clause not satisfied by the other literal

	full := ext.Extend(partial)

	if full[0] != False {
		t.Errorf("full[0] = %v, want False (forced by BlockedOn polarity)", full[0])
	}
}

// TestExtender_PropagateLocallyForcesBinaryConsequence checks that forcing a
// blocked literal true/false during replay propagates through whatever
// binary clauses remain attached to the database (§4.6 step 3), using the
// propagation-mode watch convention (list[l], not list[l.Opposite()]).
func TestExtender_PropagateLocallyForcesBinaryConsequence(t *testing.T) {
	db := newTestDatabase(2)
	db.attachBinary(PositiveLiteral(0), PositiveLiteral(1), false) // (x0 v x1)

	ext := NewExtender(db)
	ext.Log(NegativeLiteral(0), []Literal{NegativeLiteral(0)})

	full := ext.Extend(make([]LBool, 2))

	if full[0] != False {
		t.Fatalf("full[0] = %v, want False", full[0])
	}
	if full[1] != True {
		t.Errorf("full[1] = %v, want True (forced by the binary clause)", full[1])
	}
}

// TestExtender_PropagateLocallyForcesLongConsequence checks that forcing a
// blocked literal during replay also propagates through a surviving long
// (arena) clause still in propagation-mode watches, not just binaries and
// ternaries (§4.6 step 3).
func TestExtender_PropagateLocallyForcesLongConsequence(t *testing.T) {
	db := newTestDatabase(4)
	db.AddClauseInt(mkLits(1, 2, 3, 4), false, true) // (x0 v x1 v x2 v x3)

	ext := NewExtender(db)
	ext.Log(NegativeLiteral(0), []Literal{NegativeLiteral(0)})

	partial := make([]LBool, 4)
	partial[1] = False
	partial[2] = False
	// var3 left Unknown; the long clause must force it True once var0, var1
	// and var2 are all False.

	full := ext.Extend(partial)

	if full[0] != False {
		t.Fatalf("full[0] = %v, want False", full[0])
	}
	if full[3] != True {
		t.Errorf("full[3] = %v, want True (forced by the surviving long clause)", full[3])
	}
}

// TestExtender_Uneliminate marks every log entry for a variable as
// to-be-removed and clears its removed status (§4.6 "Un-elimination on
// demand").
func TestExtender_Uneliminate(t *testing.T) {
	db := newTestDatabase(4)
	db.vars[2].removed = RemovedEliminated

	ext := NewExtender(db)
	ext.Log(PositiveLiteral(2), []Literal{PositiveLiteral(2), PositiveLiteral(3)})

	reintroduced := ext.Uneliminate(2)
	if len(reintroduced) != 1 {
		t.Fatalf("len(reintroduced) = %d, want 1", len(reintroduced))
	}
	if !ext.log[0].ToRemove {
		t.Error("log entry should be marked ToRemove")
	}
	if db.vars[2].removed != RemovedNone {
		t.Error("variable status should be cleared")
	}
}
