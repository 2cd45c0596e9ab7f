package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/go-satsolver/satsolver/internal/dimacs"
	"github.com/go-satsolver/satsolver/internal/sat"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagMaxConflict = flag.Int64(
	"max_conflicts",
	-1,
	"maximum number of conflicts allowed to solve the problem (-1 = no maximum)",
)

var flagTimeout = flag.Duration(
	"timeout",
	-1,
	"wall-clock search timeout (-1 = no timeout)",
)

var flagGCFrac = flag.Float64(
	"gc_frac",
	sat.DefaultOptions.GarbageFrac,
	"fraction of wasted clause-store words that triggers a garbage collection",
)

var flagNoSubsumption = flag.Bool(
	"no_subsumption",
	false,
	"disable the subsumption/self-subsumption simplifier",
)

// exit codes, beyond the usual 0/1 log.Fatal path: 3 marks "could not even
// parse the instance", distinguishing it from a solver-reported result.
const exitParseError = 3

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile:  flag.Arg(0),
		memProfile:    *flagMemProfile,
		cpuProfile:    *flagCPUProfile,
		maxConflicts:  *flagMaxConflict,
		timeout:       *flagTimeout,
		gcFrac:        *flagGCFrac,
		noSubsumption: *flagNoSubsumption,
	}, nil
}

type config struct {
	instanceFile  string
	memProfile    bool
	cpuProfile    bool
	maxConflicts  int64
	timeout       time.Duration
	gcFrac        float64
	noSubsumption bool
}

func solverOptions(cfg *config) sat.Options {
	options := sat.DefaultOptions
	if cfg.maxConflicts >= 0 {
		options.MaxConflicts = cfg.maxConflicts
	}
	options.Timeout = cfg.timeout
	options.GarbageFrac = cfg.gcFrac
	options.NoSubsumption = cfg.noSubsumption
	return options
}

func run(cfg *config) (sat.LBool, error) {
	instance, err := dimacs.ParseDIMACS(cfg.instanceFile)
	if err != nil {
		return sat.Unknown, fmt.Errorf("could not parse instance: %w", err)
	}

	s := sat.NewSolver(solverOptions(cfg))
	if err := dimacs.Instantiate(s, instance); err != nil {
		return sat.Unknown, fmt.Errorf("could not load instance: %w", err)
	}

	fmt.Printf("c variables:  %d\n", instance.Variables)
	fmt.Printf("c clauses:    %d\n", len(instance.Clauses))

	s.PrintSeparator()
	s.PrintSearchHeader()
	s.PrintSeparator()

	status := s.Solve(nil)

	s.PrintSearchStats()
	s.PrintSeparator()

	switch status {
	case sat.True:
		fmt.Println("SAT")
		fmt.Println(modelLine(s))
	case sat.False:
		fmt.Println("UNSAT")
	default:
		fmt.Println("UNKNOWN")
	}

	return status, nil
}

func modelLine(s *sat.Solver) string {
	lits := make([]string, s.NumVariables())
	for v := 0; v < s.NumVariables(); v++ {
		l := sat.PositiveLiteral(sat.Variable(v))
		if s.ModelValue(sat.Variable(v)) != sat.True {
			l = l.Opposite()
		}
		lits[v] = l.String()
	}
	return strings.Join(lits, " ")
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	_, err = run(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitParseError)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	os.Exit(0)
}
