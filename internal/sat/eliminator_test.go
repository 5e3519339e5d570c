package sat

import "testing"

// TestEliminator_PureLiteralScoresMinusOneHundred covers spec scenario 6:
// a variable appearing only positively scores -100 and is always a
// candidate for immediate, resolvent-free elimination (§4.5 "Scoring").
func TestEliminator_PureLiteralScoresMinusOneHundred(t *testing.T) {
	db := newTestDatabase(8)

	// Variable 7 (index 6) appears only positively, across a binary and a
	// long clause.
	db.attachBinary(PositiveLiteral(6), PositiveLiteral(0), false)
	db.AddClauseInt(mkLits(7, 2, 3, 4), false, true)
	db.DetachAllLongs()
	linkAllLong(db)
	db.SetOccurMode(true)

	ext := NewExtender(db)
	elim := NewEliminator(db, DefaultOptions, ext)

	counts := elim.countOccurrences(6)
	if counts.negCount() != 0 {
		t.Fatalf("negCount() = %d, want 0 (pure positive)", counts.negCount())
	}
	if got := counts.cost(); got != -100 {
		t.Errorf("cost() = %v, want -100", got)
	}
}

// TestEliminator_RunAllEliminatesPureLiteralWithoutResolvents checks that
// RunAll actually removes the pure-literal variable and that its watches
// disappear without emitting any resolvent (since it has no clauses on its
// negative occurrence to resolve against).
func TestEliminator_RunAllEliminatesPureLiteralWithoutResolvents(t *testing.T) {
	db := newTestDatabase(8)

	db.attachBinary(PositiveLiteral(6), PositiveLiteral(0), false)
	db.AddClauseInt(mkLits(7, 2, 3, 4), false, true)
	db.DetachAllLongs()
	linkAllLong(db)
	db.SetOccurMode(true)

	ext := NewExtender(db)
	elim := NewEliminator(db, DefaultOptions, ext)
	elim.ScoreAll()
	elim.RunAll()

	if !db.vars[6].isRemoved() {
		t.Fatal("variable 7 (index 6) should have been eliminated")
	}
	if elim.eliminated == 0 {
		t.Error("eliminated counter should have advanced")
	}
	if len(db.watches.List(PositiveLiteral(6).Opposite())) != 0 {
		t.Error("eliminated variable's positive occurrences should be gone")
	}
}

// TestEliminator_TestVarElimRejectsClauseCountIncrease exercises §4.5 "Trial
// resolution": eliminating a variable whose resolvents would outnumber its
// originating clauses must be rejected (cost 1000, ok=false).
func TestEliminator_TestVarElimRejectsClauseCountIncrease(t *testing.T) {
	db := newTestDatabase(16)

	// Variable 1 (index 0) appears in two positive and three negative long
	// clauses with entirely disjoint non-pivot literals, so every one of the
	// 2*3=6 resolvents is non-tautological — more than the 5 originating
	// clauses.
	db.AddClauseInt(mkLits(1, 2, 3, 4), false, true)
	db.AddClauseInt(mkLits(1, 5, 6, 7), false, true)
	db.AddClauseInt(mkLits(-1, 8, 9, 10), false, true)
	db.AddClauseInt(mkLits(-1, 11, 12, 13), false, true)
	db.AddClauseInt(mkLits(-1, 14, 15, 16), false, true)
	db.DetachAllLongs()
	linkAllLong(db)
	db.SetOccurMode(true)

	ext := NewExtender(db)
	elim := NewEliminator(db, DefaultOptions, ext)
	counts := elim.countOccurrences(0)

	cost, ok := elim.testVarElim(0, counts)
	if ok {
		t.Fatalf("testVarElim should reject this pivot, got cost=%v ok=%v", cost, ok)
	}
	if cost != 1000 {
		t.Errorf("cost = %v, want 1000", cost)
	}
}

// TestEliminator_MergeDetectsTautology covers §4.5 "merge": resolving two
// clauses that share a literal with opposite signs besides the pivot
// produces a tautology.
func TestEliminator_MergeDetectsTautology(t *testing.T) {
	p := mkLits(1, 2, 3)  // pivot var 1, plus 2, 3
	n := mkLits(-1, -2, 4) // pivot var 1 negated, plus !2, 4

	_, tautology := merge(p, n, 0, false)
	if !tautology {
		t.Fatal("expected a tautology (shared var 2 with opposite signs)")
	}
}

// TestEliminator_MergeResolvesCleanly checks the non-tautological case
// produces the expected deduplicated resolvent.
func TestEliminator_MergeResolvesCleanly(t *testing.T) {
	p := mkLits(1, 2, 3)
	n := mkLits(-1, 2, 4)

	resolvent, tautology := merge(p, n, 0, false)
	if tautology {
		t.Fatal("did not expect a tautology")
	}
	want := mkLits(2, 3, 4)
	sortClauseLiterals(want)
	if len(resolvent) != len(want) {
		t.Fatalf("resolvent = %v, want %v", resolvent, want)
	}
	for i := range want {
		if resolvent[i] != want[i] {
			t.Errorf("resolvent[%d] = %v, want %v", i, resolvent[i], want[i])
		}
	}
}
