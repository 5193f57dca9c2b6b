// Package ingress is the one concrete ClientConnection implementation:
// it frames session.Command values off a net.Conn. spec.md §6 treats the
// wire format as an external collaborator's concern ("how frames are
// read from a connection" is explicitly out of scope) — this is a
// deliberately simple fixed-layout binary codec, not a protocol spec.
package ingress

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"

	"matchcore/internal/session"
)

const (
	frameBuy    byte = 0
	frameSell   byte = 1
	frameCancel byte = 2
)

// Conn reads framed session.Commands off a net.Conn. Every accepted
// connection gets its own id, used only for diagnostic logging — never
// on the matching hot path.
type Conn struct {
	ID   string
	conn net.Conn
	r    *bufio.Reader
}

// New wraps an accepted net.Conn as a session.Connection.
func New(c net.Conn) *Conn {
	return &Conn{ID: uuid.NewString(), conn: c, r: bufio.NewReader(c)}
}

var _ session.Connection = (*Conn)(nil)

// ReadCommand decodes the next frame. Frame layout:
//
//	1 byte   command type (0=buy, 1=sell, 2=cancel)
//	4 bytes  order id, big-endian
//	-- buy/sell only --
//	2 bytes  instrument length, big-endian
//	N bytes  instrument (ASCII)
//	4 bytes  price, big-endian
//	4 bytes  count, big-endian
//
// A clean disconnect between frames surfaces as io.EOF; a disconnect or
// bad encoding mid-frame surfaces as a non-EOF error, which Session logs
// and recovers from by reading the next frame (spec.md §7).
func (c *Conn) ReadCommand() (session.Command, error) {
	var header [5]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		return session.Command{}, err
	}

	cmd := session.Command{OrderID: binary.BigEndian.Uint32(header[1:5])}

	switch header[0] {
	case frameBuy, frameSell:
		if header[0] == frameBuy {
			cmd.Type = session.Buy
		} else {
			cmd.Type = session.Sell
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(c.r, lenBuf[:]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return session.Command{}, err
		}
		instrument := make([]byte, binary.BigEndian.Uint16(lenBuf[:]))
		if _, err := io.ReadFull(c.r, instrument); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return session.Command{}, err
		}
		cmd.Instrument = string(instrument)

		var rest [8]byte
		if _, err := io.ReadFull(c.r, rest[:]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return session.Command{}, err
		}
		cmd.Price = binary.BigEndian.Uint32(rest[0:4])
		cmd.Count = binary.BigEndian.Uint32(rest[4:8])

	case frameCancel:
		cmd.Type = session.Cancel

	default:
		return session.Command{}, fmt.Errorf("ingress: unknown frame type %d", header[0])
	}

	return cmd, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}
