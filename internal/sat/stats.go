package sat

import (
	"fmt"
	"time"
)

// PrintSeparator writes a horizontal rule to stdout, matching the banner
// style search progress is framed with.
func (s *Solver) PrintSeparator() {
	fmt.Println("c ---------------------------------------------------------------------------")
}

// PrintSearchHeader writes the column header for PrintSearchStats.
func (s *Solver) PrintSearchHeader() {
	fmt.Println("c            time      conflicts      decisions      learnts       subsumed")
}

// PrintSearchStats writes one line of search progress.
func (s *Solver) PrintSearchStats() {
	elapsed := time.Duration(0)
	if !s.startTime.IsZero() {
		elapsed = time.Since(s.startTime)
	}
	fmt.Printf("c %14.3fs %14d %14d %14d %14d\n",
		elapsed.Seconds(),
		s.TotalConflicts,
		s.TotalDecisions,
		len(s.learnts),
		s.TotalSubsumed)
}
