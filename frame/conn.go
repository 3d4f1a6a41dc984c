package frame

import (
	"context"
	"fmt"
)

// Transport is the raw byte transport a Conn sits on. *uart.Session and
// *uart.LockedSession satisfy it.
type Transport interface {
	Send(data []byte) (int, error)
	Receive() ([]byte, error)
}

// Conn exchanges whole messages over a Transport
type Conn struct {
	t       Transport
	codec   Codec
	pending [][]byte
	err     error // decode error held back until pending is drained
}

func NewConn(t Transport, codec Codec) *Conn {
	return &Conn{t: t, codec: codec}
}

// WriteMessage encodes msg and sends it in one call
func (c *Conn) WriteMessage(msg []byte) error {
	wire, err := c.codec.Encode(msg)
	if err != nil {
		return err
	}
	if _, err := c.t.Send(wire); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}

// ReadMessage returns the next complete message, receiving until one is
// decoded or ctx is done. Messages that arrive together are queued for later
// calls. A decode error that arrives with complete messages is returned once
// those messages have been read.
func (c *Conn) ReadMessage(ctx context.Context) ([]byte, error) {
	if len(c.pending) == 0 && c.err != nil {
		err := c.err
		c.err = nil
		return nil, err
	}
	for len(c.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := c.t.Receive()
		if err != nil {
			return nil, fmt.Errorf("receive frame: %w", err)
		}
		if len(chunk) == 0 {
			continue
		}
		msgs, err := c.codec.Decode(chunk)
		c.pending = append(c.pending, msgs...)
		if err != nil {
			if len(c.pending) == 0 {
				return nil, err
			}
			c.err = err
		}
	}

	msg := c.pending[0]
	c.pending = c.pending[1:]
	return msg, nil
}

// Request writes msg and waits for the next message
func (c *Conn) Request(ctx context.Context, msg []byte) ([]byte, error) {
	if err := c.WriteMessage(msg); err != nil {
		return nil, err
	}
	return c.ReadMessage(ctx)
}

// Reset drops queued messages and any partial frame
func (c *Conn) Reset() {
	c.pending = nil
	c.err = nil
	c.codec.Reset()
}
