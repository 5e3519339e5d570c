package sat

import "testing"

// linkAllLong occur-links every currently live long clause, returning their
// offsets in allocation order — a test helper standing in for the driver's
// full link step.
func linkAllLong(db *Database) []ClauseOffset {
	var offsets []ClauseOffset
	off := ClauseOffset(0)
	for _, size := range db.arena.origClauseSizes {
		if !db.arena.IsFreed(off) && !db.arena.IsRemoved(off) {
			db.linkOccur(off)
			offsets = append(offsets, off)
		}
		off += ClauseOffset(size)
	}
	return offsets
}

func TestSubsumer_Subsume0RemovesSupersets(t *testing.T) {
	db := newTestDatabase(8)

	// C = (1 2 3 4), D = (1 2 3 4 5): C subsumes D. Both must be long
	// clauses (size >= 4) since only long clauses get occur-linked Clause
	// watches (§4.2, §4.3) — subsumer candidates are scanned by arena offset.
	db.AddClauseInt(mkLits(1, 2, 3, 4), false, true)
	off, _ := db.AddClauseInt(mkLits(1, 2, 3, 4, 5), false, true)
	db.DetachAllLongs()
	offsets := linkAllLong(db)

	sub := NewSubsumer(db, DefaultOptions.Budget)
	sub.Subsume0(offsets)

	if !db.arena.IsFreed(off) && !db.arena.IsRemoved(off) {
		t.Error("D should have been removed as subsumed")
	}
}

func TestSubsumer_Subsume1Strengthens(t *testing.T) {
	db := newTestDatabase(8)

	// C = (1 !2 3 4), D = (1 2 3 4): self-subsuming resolution on var 2
	// strengthens D to (1 3 4). Both must be long clauses — subsume1Scan
	// only matches WatchLong partners, so a binary or ternary provider is
	// never found as a candidate's strengthening partner (§4.2, §4.3).
	db.AddClauseInt(mkLits(1, -2, 3, 4), false, true)
	off, _ := db.AddClauseInt(mkLits(1, 2, 3, 4), false, true)
	db.DetachAllLongs()
	offsets := linkAllLong(db)

	sub := NewSubsumer(db, DefaultOptions.Budget)
	sub.Subsume1(offsets)

	if sub.numStrengthened == 0 {
		t.Error("expected at least one strengthening step")
	}
	if !db.arena.IsFreed(off) {
		t.Error("D's old long form should have been replaced after strengthening")
	}
}
