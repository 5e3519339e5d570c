package sat

// TouchSet represents a set of integers in [0, N) that also remembers which
// elements were touched since the last Clear, so that Clear can reset only
// those elements instead of zeroing the whole backing array (the "touched
// list" pattern of §5/§9: every routine that uses a seen/seen2 scratch
// bitset pushes each index it sets onto a vector and clears exactly those on
// exit).
type TouchSet struct {
	in      []bool
	touched []int
}

// Contains returns true if v is in the set.
func (ts *TouchSet) Contains(v int) bool {
	return ts.in[v]
}

// Add adds v to the set, recording it so Clear can undo it cheaply.
func (ts *TouchSet) Add(v int) {
	if ts.in[v] {
		return
	}
	ts.in[v] = true
	ts.touched = append(ts.touched, v)
}

// Clear removes every element added since the last Clear, in time
// proportional to the number of elements touched rather than the set's
// capacity.
func (ts *TouchSet) Clear() {
	for _, v := range ts.touched {
		ts.in[v] = false
	}
	ts.touched = ts.touched[:0]
}

// Touched returns the elements currently in the set, in insertion order.
// Callers must not mutate the returned slice.
func (ts *TouchSet) Touched() []int {
	return ts.touched
}

// Len returns the number of elements currently in the set.
func (ts *TouchSet) Len() int {
	return len(ts.touched)
}

// Expand increases the set's capacity by one slot (called alongside
// Database.NewVar, mirroring ResetSet.Expand in the teacher solver).
func (ts *TouchSet) Expand() {
	ts.in = append(ts.in, false)
}

// ResetSet represents a set of integers from 0 to N-1 where N is the capacity
// of the set, cleared in O(1) via a generation counter, without the
// touched-list bookkeeping of TouchSet. The package itself does not use it.
type ResetSet struct {
	addedAt        []uint32
	addedTimestamp uint32
}

// Contains returns true if v is in the set.
func (rs *ResetSet) Contains(v int) bool {
	return rs.addedAt[v] == rs.addedTimestamp
}

// Add adds v to the set.
func (rs *ResetSet) Add(v int) {
	rs.addedAt[v] = rs.addedTimestamp
}

// Clear removes all the elements in the set in constant time.
func (rs *ResetSet) Clear() {
	rs.addedTimestamp++
	if rs.addedTimestamp == 0 { // overflow
		rs.addedTimestamp = 1
		for i := range rs.addedAt {
			rs.addedAt[i] = 0
		}
	}
}

// Expand increases the capacity of the set.
func (rs *ResetSet) Expand() {
	if rs.addedTimestamp == 0 { // fresh set: slots at 0 must not read as added
		rs.addedTimestamp = 1
	}
	rs.addedAt = append(rs.addedAt, 0)
}
