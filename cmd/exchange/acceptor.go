package main

import (
	"context"
	"errors"
	"log"
	"net"

	"matchcore/internal/ingress"
	"matchcore/internal/matching"
	"matchcore/internal/session"
)

// Acceptor is C8 in spec.md: it accepts connections and spawns one
// independent Session per connection, running concurrently with every
// other session. Sessions never communicate with each other directly —
// only through the shared books and gates a Session's Matcher consults.
type Acceptor struct {
	listener net.Listener
	matcher  *matching.Matcher
}

// NewAcceptor wraps an already-bound listener.
func NewAcceptor(listener net.Listener, matcher *matching.Matcher) *Acceptor {
	return &Acceptor{listener: listener, matcher: matcher}
}

// Run accepts connections until the listener is closed or ctx is
// cancelled, spawning a goroutine per connection. It returns nil on a
// clean shutdown (ctx cancelled, or the listener closed as a result of
// that) and a non-nil error on any other accept failure.
func (a *Acceptor) Run(ctx context.Context) error {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		go func() {
			c := ingress.New(conn)
			log.Printf("exchange: accepted connection %s from %s", c.ID, conn.RemoteAddr())
			session.New(c, a.matcher).Run()
			log.Printf("exchange: connection %s closed", c.ID)
		}()
	}
}
