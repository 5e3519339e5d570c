package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mkLits(vars ...int) []Literal {
	lits := make([]Literal, len(vars))
	for i, v := range vars {
		if v < 0 {
			lits[i] = NegativeLiteral(-v - 1)
		} else {
			lits[i] = PositiveLiteral(v - 1)
		}
	}
	return lits
}

func TestClauseArena_AllocRoundTrip(t *testing.T) {
	a := NewClauseArena(0)
	lits := mkLits(1, 2, -3, 4)

	off, err := a.Alloc(lits, false, 7)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	if got := a.Size(off); got != len(lits) {
		t.Errorf("Size = %d, want %d", got, len(lits))
	}
	if diff := cmp.Diff(lits, a.Literals(off)); diff != "" {
		t.Errorf("Literals mismatch (-want +got):\n%s", diff)
	}
	if a.IsRedundant(off) {
		t.Error("clause should not be redundant")
	}
	if got, want := a.Abstraction(off), clauseAbstraction(lits); got != want {
		t.Errorf("Abstraction = %x, want %x", got, want)
	}
	stats := a.Stats(off)
	if stats.IntroducedAtConfl != 7 {
		t.Errorf("IntroducedAtConfl = %d, want 7", stats.IntroducedAtConfl)
	}
}

func TestClauseArena_FreeThenConsolidate(t *testing.T) {
	a := NewClauseArena(0)
	lits1 := mkLits(1, 2, 3, 4)
	lits2 := mkLits(5, 6, 7, 8)

	off1, _ := a.Alloc(lits1, false, 0)
	off2, _ := a.Alloc(lits2, true, 0)

	a.Free(off1)
	if !a.IsFreed(off1) {
		t.Fatal("off1 should be marked freed")
	}

	remapped := map[ClauseOffset]ClauseOffset{}
	a.Consolidate(true, func(old, new ClauseOffset) {
		remapped[old] = new
	})

	newOff2, ok := remapped[off2]
	if !ok {
		t.Fatal("off2 should have been remapped")
	}
	if diff := cmp.Diff(lits2, a.Literals(newOff2)); diff != "" {
		t.Errorf("Literals mismatch after consolidate (-want +got):\n%s", diff)
	}
	if a.NumSlots() != 1 {
		t.Errorf("NumSlots() = %d, want 1", a.NumSlots())
	}
}

func TestClauseArena_GrowsPastInitialCapacity(t *testing.T) {
	a := NewClauseArena(16)
	initial := a.Capacity()
	var last ClauseOffset
	for i := 0; i < 500; i++ {
		off, err := a.Alloc(mkLits(1, 2, 3, 4, 5), false, 0)
		if err != nil {
			t.Fatalf("Alloc #%d failed: %v", i, err)
		}
		last = off
	}
	if a.Capacity() <= initial {
		t.Errorf("expected capacity to have grown past %d, got %d", initial, a.Capacity())
	}
	if a.Size(last) != 5 {
		t.Errorf("Size(last) = %d, want 5", a.Size(last))
	}
}

func TestClauseArena_SetStatsBumpActivity(t *testing.T) {
	a := NewClauseArena(0)
	off, _ := a.Alloc(mkLits(1, 2, 3, 4), true, 0)

	a.BumpActivity(off, 1.5)
	a.BumpActivity(off, 0.5)

	got := a.Stats(off).Activity
	if got != 2.0 {
		t.Errorf("Activity = %v, want 2.0", got)
	}
}
