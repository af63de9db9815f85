package reactor

import (
	"net"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Server (shared listener)
// --------------------------------------------------------------------------

// Server wraps the listener shared by all workers. Sharing one listener is
// how the rings share their accept work queue; the kernel load-balances
// pending connections across the workers blocked in Accept.
type Server struct {
	listener net.Listener
	once     *sync.Once

	mu      sync.Mutex
	lastErr error
}

// NewServer wraps an existing listener.
func NewServer(listener net.Listener) *Server {
	return &Server{listener: listener, once: &sync.Once{}}
}

// Err returns the error that terminated the accept stream.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Server) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// acceptOp is the multishot accept: one registration yields a completion per
// incoming connection. The accepted conn is parked in pending under a fresh
// client id which travels as the completion result. A completion without
// FlagMore is terminal.
func (s *Server) acceptOp(pending *xsync.MapOf[int, net.Conn], firstID int) Operation {
	return func(post func(Outcome)) {
		id := firstID
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				s.setErr(err)
				post(Outcome{Result: -1})
				return
			}

			pending.Store(id, conn)
			post(Outcome{Result: id, Flags: FlagMore})
			id++
		}
	}
}

// closeOp closes the shared listener. The first close wins; the others still
// post a clean completion.
func (s *Server) closeOp() Operation {
	return func(post func(Outcome)) {
		s.once.Do(func() {
			if err := s.listener.Close(); err != nil {
				s.setErr(err)
			}
		})
		post(Outcome{Result: 0})
	}
}
