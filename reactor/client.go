package reactor

import (
	"io"
	"net"
)

// --------------------------------------------------------------------------
// Client Connection
// --------------------------------------------------------------------------

// Client is one accepted connection, bound to the worker that accepted it.
// The buffer accumulates request bytes across receive completions until the
// socket drains.
type Client struct {
	id     int
	conn   net.Conn
	buffer []byte

	// lastErr is written by the operation goroutine before it posts the
	// terminal completion; the channel handoff orders it for the reactor.
	lastErr error
}

func newClient(id int, conn net.Conn) *Client {
	return &Client{id: id, conn: conn}
}

// errText renders a terminal outcome for the warn log.
func (c *Client) errText(o Outcome) string {
	if o.Result == 0 {
		return "connection closed"
	}
	if c.lastErr != nil {
		return c.lastErr.Error()
	}
	return "connection error"
}

// receiveOp is the client's multishot receive. Each event reads into a
// provided buffer whose id travels in the completion flags. A full buffer
// signals that the socket likely still holds bytes (FlagSockNonEmpty); a
// short read means the socket drained and the request frame is complete.
func (c *Client) receiveOp(buffers *BufferRing) Operation {
	return func(post func(Outcome)) {
		for {
			id := buffers.acquire()
			buf := buffers.Buffer(id)

			n, err := c.conn.Read(buf)
			if n > 0 {
				flags := FlagMore | bufferFlags(id)
				if n == len(buf) {
					flags |= FlagSockNonEmpty
				}
				post(Outcome{Result: n, Flags: flags})
			} else {
				buffers.release(id)
			}

			if err != nil {
				result := 0
				if err != io.EOF {
					c.lastErr = err
					result = -1
				}
				post(Outcome{Result: result})
				return
			}
		}
	}
}

// sendOp writes one reply. Single-shot.
func (c *Client) sendOp(data []byte) Operation {
	return func(post func(Outcome)) {
		n, err := c.conn.Write(data)
		if err != nil {
			c.lastErr = err
			post(Outcome{Result: -1})
			return
		}
		post(Outcome{Result: n})
	}
}

// closeOp closes the connection. Single-shot.
func (c *Client) closeOp() Operation {
	return func(post func(Outcome)) {
		if err := c.conn.Close(); err != nil {
			c.lastErr = err
			post(Outcome{Result: -1})
			return
		}
		post(Outcome{Result: 0})
	}
}
