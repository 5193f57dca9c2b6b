package session

import (
	"errors"
	"io"
	"sync"
	"testing"

	"matchcore/internal/clock"
	"matchcore/internal/egress"
	"matchcore/internal/instrument"
	"matchcore/internal/matching"
)

// fakeConn replays a fixed sequence of (Command, error) pairs, the way a
// scripted Connection test double would, and records whether Close was
// called.
type fakeConn struct {
	mu     sync.Mutex
	script []scriptedRead
	pos    int
	closed bool
}

type scriptedRead struct {
	cmd Command
	err error
}

func (f *fakeConn) ReadCommand() (Command, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pos >= len(f.script) {
		return Command{}, io.EOF
	}
	r := f.script[f.pos]
	f.pos++
	return r.cmd, r.err
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// discardSink implements egress.Sink and keeps no state; Run's dispatch
// behavior is exercised through the session's own order table, not
// through emitted events here.
type discardSink struct{}

func (discardSink) Added(uint32, string, uint32, uint32, bool, uint64)      {}
func (discardSink) Executed(uint32, uint32, uint32, uint32, uint32, uint64) {}
func (discardSink) Deleted(uint32, bool, uint64)                            {}

var _ egress.Sink = discardSink{}

func newTestSession(conn Connection) *Session {
	m := matching.New(instrument.New(), clock.New(), discardSink{})
	return New(conn, m)
}

func TestRunClosesConnectionOnEOF(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn)
	s.Run()

	if !conn.closed {
		t.Fatal("expected Run to close the connection on EOF")
	}
}

func TestRunContinuesPastNonEOFErrors(t *testing.T) {
	conn := &fakeConn{script: []scriptedRead{
		{err: errors.New("malformed frame")},
		{cmd: Command{Type: Buy, OrderID: 1, Instrument: "AAPL", Price: 100, Count: 10}},
	}}
	s := newTestSession(conn)
	s.Run()

	if _, ok := s.orders[1]; !ok {
		t.Fatal("expected the order after the malformed frame to still be dispatched")
	}
	if !conn.closed {
		t.Fatal("expected Run to close the connection once exhausted")
	}
}

func TestDispatchBuyAndSellTrackOrdersLocally(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn)

	s.dispatch(Command{Type: Buy, OrderID: 1, Instrument: "AAPL", Price: 100, Count: 10})
	s.dispatch(Command{Type: Sell, OrderID: 2, Instrument: "AAPL", Price: 200, Count: 5})

	if _, ok := s.orders[1]; !ok {
		t.Fatal("expected buy order to be tracked")
	}
	if _, ok := s.orders[2]; !ok {
		t.Fatal("expected sell order to be tracked")
	}
}

func TestDispatchCancelKnownOrder(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn)

	s.dispatch(Command{Type: Buy, OrderID: 1, Instrument: "AAPL", Price: 100, Count: 10})
	order := s.orders[1]

	s.dispatch(Command{Type: Cancel, OrderID: 1})

	if order.Count != 0 {
		t.Fatalf("expected cancel to zero the order's remaining count, got %d", order.Count)
	}
}

func TestDispatchCancelUnknownOrderDoesNotPanic(t *testing.T) {
	conn := &fakeConn{}
	s := newTestSession(conn)

	s.dispatch(Command{Type: Cancel, OrderID: 999})
}
