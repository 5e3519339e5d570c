package sat

// WatchKind tags the shape of a Watch record, mirroring the tagged PropBy
// variant in propby.go: binary and ternary clauses never enter the arena
// (§3), so their watch entries carry their literals directly, while long
// clauses carry only an arena offset.
type WatchKind uint8

const (
	WatchBinary WatchKind = iota
	WatchTernary
	WatchLong
)

// Watch is one entry of a per-literal watch (or, in occur mode, occurrence)
// list. Which literal(s) of the underlying clause are "watched" by a given
// list index is a convention owned by Database, not by Watch itself — this
// type is deliberately as dumb as the reference's watcher struct (§9), only
// wide enough to cover all three clause shapes.
type Watch struct {
	Kind      WatchKind
	Other     Literal      // binary: the clause's other literal, doubling as propagation guard
	Other2    Literal      // ternary: the clause's second other literal
	Redundant bool
	Offset    ClauseOffset // long only
	Abst      uint32       // long, occur mode only: cached clause abstraction
}

// watchLists holds one slice per literal, indexed directly by Literal value
// (2*VarID+sign, §3), just as the reference indexes watchers[Literal].
type watchLists struct {
	lists [][]Watch
}

func newWatchLists(numVars int) *watchLists {
	return &watchLists{lists: make([][]Watch, 2*numVars)}
}

// expand grows the lists to cover one additional variable (two new literal
// slots).
func (w *watchLists) expand() {
	w.lists = append(w.lists, nil, nil)
}

func (w *watchLists) List(lit Literal) []Watch {
	return w.lists[lit]
}

func (w *watchLists) add(lit Literal, watch Watch) {
	w.lists[lit] = append(w.lists[lit], watch)
}

// removeLong swap-erases the first WatchLong entry for offset from lit's
// list. It reports whether an entry was found, and costs O(len(list)) —
// callers on a hot path (propagation) never call this; only
// detach/reattach during (un)linking do (§4.1, §4.7).
func (w *watchLists) removeLong(lit Literal, offset ClauseOffset) bool {
	list := w.lists[lit]
	for i, watch := range list {
		if watch.Kind == WatchLong && watch.Offset == offset {
			last := len(list) - 1
			list[i] = list[last]
			w.lists[lit] = list[:last]
			return true
		}
	}
	return false
}

// removeAllLong drops every WatchLong entry from lit's list, used when
// relinking a literal's entire occurrence list at once.
func (w *watchLists) removeAllLong(lit Literal) {
	list := w.lists[lit]
	j := 0
	for _, watch := range list {
		if watch.Kind == WatchLong {
			continue
		}
		list[j] = watch
		j++
	}
	w.lists[lit] = list[:j]
}

// clearLit drops every entry (of any kind) from lit's list.
func (w *watchLists) clearLit(lit Literal) {
	w.lists[lit] = w.lists[lit][:0]
}

// addBinary appends a binary watch entry. By convention (matching the
// reference, §9) lit is the trigger literal — the opposite of the clause
// literal actually being watched — and other is both the clause's remaining
// literal and the propagation guard.
func (w *watchLists) addBinary(lit, other Literal, redundant bool) {
	w.add(lit, Watch{Kind: WatchBinary, Other: other, Redundant: redundant})
}

// removeBinary swap-erases the first WatchBinary entry matching other from
// lit's list.
func (w *watchLists) removeBinary(lit, other Literal) bool {
	list := w.lists[lit]
	for i, watch := range list {
		if watch.Kind == WatchBinary && watch.Other == other {
			last := len(list) - 1
			list[i] = list[last]
			w.lists[lit] = list[:last]
			return true
		}
	}
	return false
}

// addTernary appends a ternary watch entry triggered by lit, carrying the
// clause's two other literals.
func (w *watchLists) addTernary(lit, other, other2 Literal, redundant bool) {
	w.add(lit, Watch{Kind: WatchTernary, Other: other, Other2: other2, Redundant: redundant})
}

func (w *watchLists) removeTernary(lit, other, other2 Literal) bool {
	list := w.lists[lit]
	for i, watch := range list {
		if watch.Kind == WatchTernary &&
			((watch.Other == other && watch.Other2 == other2) ||
				(watch.Other == other2 && watch.Other2 == other)) {
			last := len(list) - 1
			list[i] = list[last]
			w.lists[lit] = list[:last]
			return true
		}
	}
	return false
}

// addLong appends a long-clause watch entry triggered by lit. In propagation
// mode this is called twice per clause (the two watched literals' opposites,
// §4.1); in occur mode it is called once per literal of the clause, with lit
// equal to that literal's opposite, the same convention (an occurrence list,
// not a propagation trigger list).
func (w *watchLists) addLong(lit Literal, offset ClauseOffset, blocker Literal, abst uint32, redundant bool) {
	w.add(lit, Watch{Kind: WatchLong, Offset: offset, Other: blocker, Abst: abst, Redundant: redundant})
}
