// Command corevet loads a DIMACS CNF file, runs a handful of simplification
// rounds over it, and reports what the simplifier accomplished. It does not
// search for a satisfying assignment: the CDCL search loop itself is an
// external collaborator (§1), out of scope for this module.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/hollowreef/corevet/internal/dimacsfixture"
	"github.com/hollowreef/corevet/internal/sat"
)

var flagRounds = flag.Int(
	"rounds",
	3,
	"number of simplification rounds to run",
)

var flagVerbose = flag.Bool(
	"verbose",
	false,
	"enable verbose debug dumps",
)

func parseConfig() (string, error) {
	flag.Parse()
	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return "", fmt.Errorf("missing instance file")
	}
	return flag.Arg(0), nil
}

func run(instanceFile string) error {
	opts := sat.DefaultOptions
	opts.Verbose = *flagVerbose

	db := sat.NewDatabase(0, opts)
	db.Options = opts

	numVars, err := dimacsfixture.Load(instanceFile, db)
	if err != nil {
		return fmt.Errorf("could not load instance: %s", err)
	}

	fmt.Printf("c variables: %d\n", numVars)
	if !db.Ok() {
		fmt.Println("c status:    unsat (derived at load time)")
		return nil
	}

	simp := sat.NewSimplifier(db, opts)

	t := time.Now()
	for round := 0; round < *flagRounds; round++ {
		if !simp.Run() {
			break
		}
	}
	elapsed := time.Since(t)

	fmt.Printf("c time (sec):   %f\n", elapsed.Seconds())
	fmt.Printf("c rounds run:   %d\n", simp.Stats.Rounds)
	fmt.Printf("c subsumed:     %d\n", simp.Stats.Subsumed)
	fmt.Printf("c strengthened: %d\n", simp.Stats.Strengthened)
	fmt.Printf("c gates found:  %d\n", simp.Stats.GatesFound)
	fmt.Printf("c eliminated:   %d\n", simp.Stats.Eliminated)
	fmt.Printf("c ok:           %v\n", db.Ok())

	return nil
}

func main() {
	instanceFile, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := run(instanceFile); err != nil {
		log.Fatal(err)
	}
}
