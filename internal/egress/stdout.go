package egress

import (
	"fmt"
	"io"
	"sync"
)

// Stdout is a line-oriented Sink, the simplest possible downstream
// consumer. Grounded on the teacher's own taste for fmt.Printf-based
// reporting (main.go, cmd/benchmark/main.go) rather than a structured
// encoder — this is a human-facing default, not the only Sink
// implementation a real deployment would use.
type Stdout struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStdout wraps w as a Sink. Every event is written as one line under a
// single mutex, satisfying the per-event atomicity requirement in
// spec.md §5.
func NewStdout(w io.Writer) *Stdout {
	return &Stdout{out: w}
}

func (s *Stdout) Added(orderID uint32, instrument string, price, count uint32, isSell bool, timestamp uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	side := "buy"
	if isSell {
		side = "sell"
	}
	fmt.Fprintf(s.out, "ADDED %d %s %d %d %s %d\n", orderID, instrument, price, count, side, timestamp)
}

func (s *Stdout) Executed(restingID, aggressorID uint32, restingExecSeq, price, count uint32, timestamp uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "EXECUTED %d %d %d %d %d %d\n", restingID, aggressorID, restingExecSeq, price, count, timestamp)
}

func (s *Stdout) Deleted(orderID uint32, accepted bool, timestamp uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "DELETED %d %t %d\n", orderID, accepted, timestamp)
}
