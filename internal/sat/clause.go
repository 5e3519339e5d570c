package sat

import "math"

// ClauseOffset is a 30-bit handle into the clause arena (§3 "Clause
// offset"). It is valid only until the next Consolidate call: compaction
// invalidates every offset and the compactor's remap callback is the sole
// authority for updating them (§4.1).
type ClauseOffset uint32

// offsetInvalid marks the absence of a clause offset (e.g. a PropBy that
// does not point into the arena).
const offsetInvalid ClauseOffset = 1<<30 - 1

// clauseFlag is a bit in a long clause's header flags word (§3).
type clauseFlag uint32

const (
	flagRedundant    clauseFlag = 1 << iota // is_redundant (learnt)
	flagStrengthened                        // is_strengthened
	flagWasChanged                          // was_changed
	flagRemoved                             // is_removed
	flagFreed                               // is_freed
	flagOrGateDef                           // is_or_gate_definition
)

// Header word layout, one word (one Literal-sized int32) per field, followed
// immediately by the clause's literals (§3 "Clause (long, >= 4 literals)").
const (
	whSize = iota
	whFlags
	whAbstraction
	whGlue
	whActivityBits
	whIntroducedAt
	whNumProp
	whNumConfl
	whNumUsedUIP
	headerWords
)

// ClauseStats mirrors the reference's ClauseStats substructure: bookkeeping
// used to judge a learnt clause's quality and, for the eliminator, the
// history of clauses it resolves over. Stored packed into the arena header
// rather than as a side table so that a clause and its stats move together
// during compaction.
type ClauseStats struct {
	Glue               uint32
	Activity           float32
	IntroducedAtConfl  uint32
	NumProp            uint32
	NumConfl           uint32
	NumUsedUIP         uint32
}

func initialGlue(nLits int) uint32 {
	if nLits > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint32(nLits)
}

// Size returns the number of literals of the clause at off.
func (a *ClauseArena) Size(off ClauseOffset) int {
	return int(a.words[int(off)+whSize])
}

func (a *ClauseArena) setSize(off ClauseOffset, n int) {
	a.words[int(off)+whSize] = Literal(n)
}

// Literals returns a slice view of the clause's literals, aliasing the
// arena's backing storage directly (O(1), no copy). The slice is only valid
// until the next mutating arena operation (Alloc, Free, Consolidate, or any
// strengthening of this clause).
func (a *ClauseArena) Literals(off ClauseOffset) []Literal {
	start := int(off) + headerWords
	return a.words[start : start+a.Size(off)]
}

func (a *ClauseArena) flags(off ClauseOffset) clauseFlag {
	return clauseFlag(a.words[int(off)+whFlags])
}

func (a *ClauseArena) setFlag(off ClauseOffset, f clauseFlag, v bool) {
	cur := a.flags(off)
	if v {
		cur |= f
	} else {
		cur &^= f
	}
	a.words[int(off)+whFlags] = Literal(cur)
}

func (a *ClauseArena) IsRedundant(off ClauseOffset) bool { return a.flags(off)&flagRedundant != 0 }
func (a *ClauseArena) SetRedundant(off ClauseOffset, v bool) { a.setFlag(off, flagRedundant, v) }

func (a *ClauseArena) IsStrengthened(off ClauseOffset) bool {
	return a.flags(off)&flagStrengthened != 0
}
func (a *ClauseArena) setStrengthened(off ClauseOffset, v bool) { a.setFlag(off, flagStrengthened, v) }

func (a *ClauseArena) WasChanged(off ClauseOffset) bool { return a.flags(off)&flagWasChanged != 0 }
func (a *ClauseArena) SetWasChanged(off ClauseOffset, v bool) { a.setFlag(off, flagWasChanged, v) }

func (a *ClauseArena) IsRemoved(off ClauseOffset) bool { return a.flags(off)&flagRemoved != 0 }
func (a *ClauseArena) setRemoved(off ClauseOffset, v bool) { a.setFlag(off, flagRemoved, v) }

func (a *ClauseArena) IsFreed(off ClauseOffset) bool { return a.flags(off)&flagFreed != 0 }

func (a *ClauseArena) IsOrGateDefinition(off ClauseOffset) bool {
	return a.flags(off)&flagOrGateDef != 0
}
func (a *ClauseArena) SetOrGateDefinition(off ClauseOffset, v bool) { a.setFlag(off, flagOrGateDef, v) }

// Abstraction returns the clause's cached subsumption fingerprint.
func (a *ClauseArena) Abstraction(off ClauseOffset) uint32 {
	return uint32(a.words[int(off)+whAbstraction])
}

func (a *ClauseArena) setAbstraction(off ClauseOffset, v uint32) {
	a.words[int(off)+whAbstraction] = Literal(int32(v))
}

// RecomputeAbstraction recomputes and stores the clause's abstraction from
// its current literals. Every routine that changes a clause's literal set
// (strengthen, gate-based shortening) must call this before returning, to
// preserve the invariant of §3/§8.
func (a *ClauseArena) RecomputeAbstraction(off ClauseOffset) {
	a.setAbstraction(off, clauseAbstraction(a.Literals(off)))
}

// Stats returns a copy of the clause's stats substructure.
func (a *ClauseArena) Stats(off ClauseOffset) ClauseStats {
	base := int(off)
	return ClauseStats{
		Glue:              uint32(a.words[base+whGlue]),
		Activity:          math.Float32frombits(uint32(a.words[base+whActivityBits])),
		IntroducedAtConfl: uint32(a.words[base+whIntroducedAt]),
		NumProp:           uint32(a.words[base+whNumProp]),
		NumConfl:          uint32(a.words[base+whNumConfl]),
		NumUsedUIP:        uint32(a.words[base+whNumUsedUIP]),
	}
}

// SetStats overwrites the clause's stats substructure.
func (a *ClauseArena) SetStats(off ClauseOffset, s ClauseStats) {
	base := int(off)
	a.words[base+whGlue] = Literal(int32(s.Glue))
	a.words[base+whActivityBits] = Literal(int32(math.Float32bits(s.Activity)))
	a.words[base+whIntroducedAt] = Literal(int32(s.IntroducedAtConfl))
	a.words[base+whNumProp] = Literal(int32(s.NumProp))
	a.words[base+whNumConfl] = Literal(int32(s.NumConfl))
	a.words[base+whNumUsedUIP] = Literal(int32(s.NumUsedUIP))
}

func (a *ClauseArena) BumpActivity(off ClauseOffset, inc float32) {
	s := a.Stats(off)
	s.Activity += inc
	a.SetStats(off, s)
}
