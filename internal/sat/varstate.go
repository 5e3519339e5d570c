package sat

// RemovedStatus records why a variable is no longer live in the database, if
// at all (§3 "Variable data").
type RemovedStatus uint8

const (
	// RemovedNone is the status of every ordinary, still-live variable.
	RemovedNone RemovedStatus = iota
	// RemovedEliminated means the variable was eliminated by bounded
	// variable elimination (§4.5); its value stays Undef and it appears in
	// no clause still linked to propagation.
	RemovedEliminated
	// RemovedReplaced means the variable was replaced by an equivalent
	// literal discovered by the gate finder (§4.4) and handed to the
	// external equivalence-replacer.
	RemovedReplaced
	// RemovedQueuedReplace means a replacement has been decided but not yet
	// carried out.
	RemovedQueuedReplace
)

// varData holds everything the database tracks about a single variable,
// indexed by VarID (§3 "Variable data").
type varData struct {
	level      int32   // decision level of assignment, -1 if unassigned
	reason     PropBy  // antecedent of the current assignment
	removed    RemovedStatus
	isDecision bool    // whether the search loop may branch on this variable
	polarity   bool    // last/preferred phase, consulted by the (external) decision heuristic
	activity   float64 // VSIDS-style activity, maintained for the (external) decision heuristic
}

// Database.assigns (indexed by Literal, one slot per literal so that
// LitValue is a single array read) holds the current truth value; varData
// above holds everything else.

// isRemoved reports whether the variable has been eliminated or replaced,
// i.e. its status is anything other than RemovedNone.
func (vd *varData) isRemoved() bool {
	return vd.removed != RemovedNone
}
