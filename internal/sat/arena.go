package sat

// maxArenaWords is the hard ceiling on arena capacity: 2^30 - 1 words, so
// that a ClauseOffset (a 30-bit handle, §3) can always address any live
// word (§4.1).
const maxArenaWords = 1<<30 - 1

// defaultArenaWords is the initial capacity handed to a freshly constructed
// arena.
const defaultArenaWords = 1 << 12

// ClauseArena packs every long clause (length >= 4) contiguously in a single
// growable buffer of Literal-sized words, each clause preceded by a
// fixed-size header (§4.1). Clauses are identified externally by their
// word-offset, which is stable until the next Consolidate.
type ClauseArena struct {
	words  []Literal
	cursor int // next free word

	// usedWords is a running counter of words occupied by live clauses. It
	// is decremented by each clause's *current* size on Free, which can be
	// less than its originally allocated size after in-place strengthening
	// — so it overestimates true occupancy. Tolerated per §4.1/§9: either
	// triggering consolidation off the true size or this overestimate is
	// acceptable as long as consolidation eventually runs.
	usedWords int

	// origClauseSizes records each slot's word count in allocation order,
	// letting Consolidate walk slots sequentially without needing to know
	// a clause's *current* (possibly shrunk) size to find the next slot.
	origClauseSizes []int32
}

// NewClauseArena returns an empty arena with room for initialCapacityWords
// words (rounded up to the package default if smaller).
func NewClauseArena(initialCapacityWords int) *ClauseArena {
	if initialCapacityWords < defaultArenaWords {
		initialCapacityWords = defaultArenaWords
	}
	return &ClauseArena{
		words: make([]Literal, initialCapacityWords),
	}
}

// Capacity returns the arena's current word capacity.
func (a *ClauseArena) Capacity() int { return len(a.words) }

// UsedWords returns the running (possibly overestimated) count of words
// occupied by live clauses.
func (a *ClauseArena) UsedWords() int { return a.usedWords }

// Occupancy returns UsedWords / Capacity, the ratio the driver compares
// against the 0.7 consolidation threshold (§4.1 step triggers).
func (a *ClauseArena) Occupancy() float64 {
	if len(a.words) == 0 {
		return 1
	}
	return float64(a.usedWords) / float64(len(a.words))
}

// Alloc reserves space for a clause with the given literals and initializes
// its header, returning the clause's offset. conflictNumber is stamped into
// the header as the clause's IntroducedAtConfl stat.
func (a *ClauseArena) Alloc(lits []Literal, redundant bool, conflictNumber uint32) (ClauseOffset, error) {
	need := headerWords + len(lits)
	if a.cursor+need > len(a.words) {
		if err := a.grow(a.cursor + need); err != nil {
			return 0, err
		}
	}

	off := ClauseOffset(a.cursor)
	base := a.cursor

	a.words[base+whSize] = Literal(len(lits))
	a.words[base+whFlags] = 0
	a.words[base+whAbstraction] = Literal(int32(clauseAbstraction(lits)))
	a.words[base+whGlue] = Literal(initialGlue(len(lits)))
	a.words[base+whActivityBits] = 0
	a.words[base+whIntroducedAt] = Literal(int32(conflictNumber))
	a.words[base+whNumProp] = 0
	a.words[base+whNumConfl] = 0
	a.words[base+whNumUsedUIP] = 0
	copy(a.words[base+headerWords:base+need], lits)

	if redundant {
		a.setFlag(off, flagRedundant, true)
	}

	a.cursor += need
	a.usedWords += need
	a.origClauseSizes = append(a.origClauseSizes, int32(need))

	return off, nil
}

func (a *ClauseArena) grow(minWords int) error {
	if minWords > maxArenaWords {
		return ErrArenaExhausted
	}
	newCap := len(a.words)
	if newCap == 0 {
		newCap = defaultArenaWords
	}
	for newCap < minWords {
		newCap *= 2
		if newCap > maxArenaWords {
			newCap = maxArenaWords
			break
		}
	}
	if newCap < minWords {
		return ErrArenaExhausted
	}
	grown := make([]Literal, newCap)
	copy(grown, a.words[:a.cursor])
	a.words = grown
	return nil
}

// Free soft-deletes the clause at off: it marks the header is_freed and
// decrements usedWords by the clause's current word count. The slot itself
// is not reclaimed until the next Consolidate (§4.1).
func (a *ClauseArena) Free(off ClauseOffset) {
	a.usedWords -= headerWords + a.Size(off)
	a.setFlag(off, flagFreed, true)
}

// RemapFunc is called once per surviving clause during Consolidate with its
// old and new offsets. Callers must use it to rewrite every PropBy, watch
// record, and external clause list that referenced the old offset (§4.1
// step 4, §9).
type RemapFunc func(old, new ClauseOffset)

// Consolidate relocates every surviving (non-freed) clause to a contiguous
// prefix of the buffer, shrinking the logical footprint of the arena. It
// must only be called at decision level 0 with no outstanding propagation
// reason pointing into the arena, and with every long clause already
// detached from propagation watches (§4.1 step 1-2) — callers are expected
// to enforce this; Consolidate does not re-derive it.
//
// Unless force is true, Consolidate is a no-op (returns false) when
// occupancy is already at or above 0.7, matching the driver's trigger
// condition (§4.1, §4.7).
func (a *ClauseArena) Consolidate(force bool, remap RemapFunc) bool {
	if !force && a.Occupancy() >= 0.7 {
		return false
	}

	newWords := make([]Literal, len(a.words))
	newSizes := make([]int32, 0, len(a.origClauseSizes))
	newCursor := 0
	pos := 0

	for _, origSize := range a.origClauseSizes {
		off := ClauseOffset(pos)
		if !a.IsFreed(off) {
			curWords := headerWords + a.Size(off)
			copy(newWords[newCursor:newCursor+curWords], a.words[pos:pos+curWords])
			newOff := ClauseOffset(newCursor)
			if remap != nil {
				remap(off, newOff)
			}
			newSizes = append(newSizes, int32(curWords))
			newCursor += curWords
		}
		pos += int(origSize)
	}

	a.words = newWords
	a.cursor = newCursor
	a.usedWords = newCursor
	a.origClauseSizes = newSizes
	return true
}

// NumSlots returns the number of allocation slots (including freed ones)
// tracked since the last Consolidate — exposed for tests that check
// alloc/free/consolidate round-tripping (§8).
func (a *ClauseArena) NumSlots() int { return len(a.origClauseSizes) }
