package sat

// Options configures a simplification run, in the spirit of the reference
// solver's tunables (§4.7, §5) and the teacher's own Options/DefaultOptions
// pattern.
type Options struct {
	// MaxGateSize bounds the clause size the gate finder considers as a
	// candidate OR-gate definition (§4.4).
	MaxGateSize int

	// MaxOccurIrredMB / MaxOccurRedMB cap the estimated memory used to
	// occur-link irredundant / redundant long clauses (§4.7 steps 3-4).
	MaxOccurIrredMB int
	MaxOccurRedMB   int

	// MaxRedLinkInSize caps the size of a redundant clause eligible for
	// occur-linking; larger ones are left unlinked (§4.7 step 4).
	MaxRedLinkInSize int

	// EliminationStrategy selects the variable-elimination cost function:
	// 0 the static heuristic of §4.5, 1 the actual trial-resolution cost.
	EliminationStrategy int

	// Aggressive is passed through to merge (§4.5) but has no effect there:
	// merge performs only the direct tautology check whatever its value, as
	// the stamp/implication-cache collaborators it would consult are not
	// part of this module.
	Aggressive bool

	// Verbose gates the kr/pretty debug dump helpers in debug.go.
	Verbose bool

	// Seed drives the deterministic pseudo-random shuffles of the candidate
	// order handed to Subsume0 (Seed) and Subsume1 (Seed+1). The
	// blocked-clause scan does not use it: it always walks the long clauses
	// in collection order.
	Seed int64

	Budget BudgetOptions
}

// BudgetOptions holds the initial values of the per-phase step counters
// (§4.3 "Budget", §4.4 "Budget", §4.5, §5 "Suspension points"). All are
// expressed in the same informal "bogo-step" unit the reference solver
// uses: roughly one unit per watch-list entry visited or per literal of a
// clause read.
type BudgetOptions struct {
	MaxSubsume0   int64
	MaxSubsume1   int64
	MaxGateFinder int64
	MaxShortenWithGates int64
	MaxClRemWithGates  int64
	MaxElim       int64
	MaxElimVars   int64
}

// DefaultOptions mirrors the reference solver's defaults (§4.3, §4.4),
// using the same step-budget magnitudes; call sites that need other values
// can override via Options.Budget.
var DefaultOptions = Options{
	MaxGateSize:         8,
	MaxOccurIrredMB:     800,
	MaxOccurRedMB:       200,
	MaxRedLinkInSize:    50,
	EliminationStrategy: 0,
	Aggressive:          false,
	Verbose:             false,
	Seed:                1,
	Budget: BudgetOptions{
		MaxSubsume0:         800_000_000,
		MaxSubsume1:         400_000_000,
		MaxGateFinder:       100_000_000,
		MaxShortenWithGates: 100_000_000,
		MaxClRemWithGates:   100_000_000,
		MaxElim:             100_000_000,
		MaxElimVars:         1 << 20,
	},
}

// stepBudget is a simple decrementing counter: components spend it as they
// visit watch-list entries and clause literals, and return early to the
// driver once it goes negative (§5 "Suspension points").
type stepBudget struct {
	remaining int64
}

func newStepBudget(n int64) *stepBudget { return &stepBudget{remaining: n} }

func (b *stepBudget) spend(n int) { b.remaining -= int64(n) }

func (b *stepBudget) exhausted() bool { return b.remaining < 0 }
