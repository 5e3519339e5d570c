package sat

import "testing"

func newTouchSet(n int) *TouchSet {
	ts := &TouchSet{}
	for i := 0; i < n; i++ {
		ts.Expand()
	}
	return ts
}

func TestTouchSet_AddContainsClear(t *testing.T) {
	ts := newTouchSet(8)

	ts.Add(2)
	ts.Add(5)
	ts.Add(2) // duplicate, must not double-count

	if !ts.Contains(2) || !ts.Contains(5) {
		t.Fatal("expected 2 and 5 to be in the set")
	}
	if ts.Contains(3) {
		t.Fatal("3 should not be in the set")
	}
	if ts.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ts.Len())
	}

	ts.Clear()

	if ts.Contains(2) || ts.Contains(5) {
		t.Fatal("set should be empty after Clear")
	}
	if ts.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", ts.Len())
	}
}

func TestResetSet_ClearIsConstantTime(t *testing.T) {
	rs := &ResetSet{}
	for i := 0; i < 4; i++ {
		rs.Expand()
	}

	rs.Add(1)
	rs.Add(3)

	if !rs.Contains(1) || !rs.Contains(3) {
		t.Fatal("expected 1 and 3 to be in the set")
	}

	rs.Clear()

	if rs.Contains(1) || rs.Contains(3) {
		t.Fatal("set should be empty after Clear")
	}

	rs.Add(1)
	if !rs.Contains(1) {
		t.Fatal("expected 1 to be back in the set after re-adding")
	}
}
