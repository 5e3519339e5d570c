package sat

import "errors"

// ErrArenaExhausted is returned when growing the clause arena would exceed
// the hard 2^30-1 word ceiling (§7 "ArenaExhausted"). It is fatal to the
// solver: the caller should abort with a diagnostic, not retry.
var ErrArenaExhausted = errors.New("sat: clause arena exhausted")

// ErrMemoryCapExceeded names the condition where the estimated memory needed
// to link a class of clauses into occurrence lists would exceed its
// configured cap (§7 "MemoryCapExceeded"). It is recoverable: the driver
// skips that link-in pass for the current round. The driver's occur-linking
// step reports this condition as a false return, not as this error.
var ErrMemoryCapExceeded = errors.New("sat: occur-link memory cap exceeded")
