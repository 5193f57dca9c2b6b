package session

import (
	"errors"
	"io"
	"log"

	"matchcore/internal/domain"
	"matchcore/internal/matching"
)

// Session owns one client connection for its whole lifetime: a private
// order_id -> *domain.Order table (spec.md §3, "Session-local order
// table") and a strictly sequential read-dispatch loop (spec.md §4.6).
// Cancellations only ever need to consult this table, never the books.
type Session struct {
	conn    Connection
	matcher *matching.Matcher
	orders  map[uint32]*domain.Order
}

// New creates a Session over an already-accepted Connection.
func New(conn Connection, matcher *matching.Matcher) *Session {
	return &Session{
		conn:    conn,
		matcher: matcher,
		orders:  make(map[uint32]*domain.Order),
	}
}

// Run reads commands until io.EOF, dispatching each in turn. It never returns before the connection is exhausted. Per spec.md
// §7, a malformed frame or a recoverable read error is logged and the
// loop continues; only io.EOF ends the session. This deliberately
// implements the spec's stipulated correct behavior rather than
// original_source/engine.cpp's accidental case-fallthrough bug noted in
// spec.md §9.
func (s *Session) Run() {
	defer s.conn.Close()

	for {
		cmd, err := s.conn.ReadCommand()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			log.Printf("session: read error, continuing: %v", err)
			continue
		}
		s.dispatch(cmd)
	}
}

func (s *Session) dispatch(cmd Command) {
	switch cmd.Type {
	case Buy:
		order := domain.NewOrder(cmd.OrderID, cmd.Instrument, domain.Buy, cmd.Price, cmd.Count)
		s.orders[cmd.OrderID] = order
		log.Printf("session: buy order_id=%d instrument=%s price=%d count=%d", cmd.OrderID, cmd.Instrument, cmd.Price, cmd.Count)
		s.matcher.SubmitBuy(order)

	case Sell:
		order := domain.NewOrder(cmd.OrderID, cmd.Instrument, domain.Sell, cmd.Price, cmd.Count)
		s.orders[cmd.OrderID] = order
		log.Printf("session: sell order_id=%d instrument=%s price=%d count=%d", cmd.OrderID, cmd.Instrument, cmd.Price, cmd.Count)
		s.matcher.SubmitSell(order)

	case Cancel:
		log.Printf("session: cancel order_id=%d", cmd.OrderID)
		order, ok := s.orders[cmd.OrderID]
		if !ok {
			// Unknown to this session. spec.md §7 leaves this
			// undefined; we report it as a rejected cancel rather
			// than silently dropping it.
			s.matcher.CancelUnknown(cmd.OrderID)
			return
		}
		s.matcher.Cancel(order)
	}
}
