package reactor

import (
	"net"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("reactor")

// Handler consumes one framed request and produces the reply bytes. It runs
// synchronously on the worker that received the request.
type Handler func(request []byte) []byte

// Task is one suspended computation awaiting a completion. Exactly one task
// is associated with each outstanding submission via its userData.
type Task func(Outcome)

// Fixed ids for the scheduler-owned resources; clients start above them.
const (
	loggerID = iota
	serverID
	timerID
	firstClientID
)

const defaultTickInterval = time.Second

var (
	connectionsAccepted = metrics.NewCounter("tinyredis_connections_total")
	requestsProcessed   = metrics.NewCounter("tinyredis_requests_total")
	connectionErrors    = metrics.NewCounter("tinyredis_connection_errors_total")
)

// --------------------------------------------------------------------------
// Scheduler
// --------------------------------------------------------------------------

// Scheduler is one worker's reactor: it owns a ring, the table of in-flight
// tasks and the clients accepted on this worker.
//
// Thread-safety: all fields are owned by the worker goroutine running Run.
type Scheduler struct {
	slot    int
	ring    *Ring
	buffers *BufferRing

	tasks   map[uint64]Task
	clients map[int]*Client
	pending *xsync.MapOf[int, net.Conn]

	server *Server
	timer  *Timer
	logger FlushLogger

	handler    Handler
	maxClients int

	currentUserData uint64
	nextUserData    uint64
	active          bool
}

// NewScheduler builds a reactor bound to a free worker slot. It fails when
// more reactors are constructed than the slot table holds.
func NewScheduler(server *Server, handler Handler, queueDepth, bufferCount, bufferSize int) (*Scheduler, error) {
	slot, err := acquireSlot()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		slot:       slot,
		ring:       NewRing(queueDepth),
		buffers:    NewBufferRing(bufferCount, bufferSize),
		tasks:      make(map[uint64]Task),
		clients:    make(map[int]*Client),
		pending:    xsync.NewMapOf[int, net.Conn](),
		server:     server,
		timer:      newTimer(defaultTickInterval),
		logger:     NewLogBuffer(Logger),
		handler:    handler,
		maxClients: fileDescriptorLimit(),
		active:     true,
	}, nil
}

// Run drives the reactor until the process run flag clears or a fatal stream
// termination aborts the loop, then drains everything in an orderly shutdown.
func (s *Scheduler) Run() {
	defer releaseSlot(s.slot)
	pinWorker(s.slot)

	s.submit(s.server.acceptOp(s.pending, firstClientID), s.acceptTask())
	s.submit(s.timer.timingOp(), s.timingTask())

	for switcher.Load() && s.active {
		if s.logger.Writable() {
			s.submit(s.logger.WriteOp(), s.writeTask())
		}

		s.ring.Wait(1)
		s.frame()
	}

	s.shutdown()
}

// frame drains the completion queue, resuming the task behind every
// completion that is not merely a zero-length zero-copy notification, then
// replenishes the buffer ring.
func (s *Scheduler) frame() {
	count := s.ring.Poll(func(c Completion) {
		if c.Outcome.Result == 0 && c.Outcome.Flags&FlagNotification != 0 {
			return
		}

		s.currentUserData = c.UserData
		if task, ok := s.tasks[c.UserData]; ok {
			task(c.Outcome)
		}
	})
	s.ring.Advance(s.buffers, count, s.buffers.AddedBuffers())
}

// submit queues an operation and records its task under a fresh userData.
func (s *Scheduler) submit(op Operation, task Task) {
	s.nextUserData++
	s.tasks[s.nextUserData] = task
	s.ring.Submit(s.nextUserData, op)
}

// eraseCurrentTask removes the task being resumed right now.
func (s *Scheduler) eraseCurrentTask() {
	delete(s.tasks, s.currentUserData)
}

// shutdown submits close tasks for all clients, then timer, server and
// logger, and waits for their completions.
func (s *Scheduler) shutdown() {
	want := len(s.clients) + 3

	for id, client := range s.clients {
		s.submit(client.closeOp(), s.closeTask(id))
	}
	s.submit(s.timer.closeOp(), s.closeTask(timerID))
	s.submit(s.server.closeOp(), s.closeTask(serverID))
	s.submit(s.logger.CloseOp(), s.closeTask(loggerID))

	s.ring.Wait(want)
	s.frame()
}

// --------------------------------------------------------------------------
// Tasks
// --------------------------------------------------------------------------

// acceptTask consumes the multishot accept stream. Every FlagMore completion
// carries a fresh client id; a completion without it terminates the stream
// and - outside of shutdown - is fatal for this reactor.
func (s *Scheduler) acceptTask() Task {
	return func(o Outcome) {
		if o.Result >= 0 && o.Flags&FlagMore != 0 {
			conn, ok := s.pending.LoadAndDelete(o.Result)
			if !ok {
				return
			}

			if len(s.clients) >= s.maxClients {
				s.logger.Push(logger.WARNING, "connection limit reached, rejecting client")
				conn.Close()
				return
			}

			client := newClient(o.Result, conn)
			s.clients[client.id] = client
			connectionsAccepted.Inc()

			s.submit(client.receiveOp(s.buffers), s.receiveTask(client))
			return
		}

		s.eraseCurrentTask()
		if switcher.Load() && s.active {
			Logger.Errorf("accept stream terminated: %v", s.server.Err())
			s.active = false
		}
	}
}

// receiveTask accumulates request bytes for one client. When the socket
// drains, the buffered frame goes to the handler and the reply is submitted
// as a send task.
func (s *Scheduler) receiveTask(c *Client) Task {
	return func(o Outcome) {
		if o.Result > 0 && o.Flags&FlagMore != 0 {
			data := s.buffers.Buffer(o.BufferID())[:o.Result]
			c.buffer = append(c.buffer, data...)
			s.buffers.Put(o.BufferID())

			if o.Flags&FlagSockNonEmpty == 0 {
				requestsProcessed.Inc()
				response := s.handler(c.buffer)
				c.buffer = c.buffer[:0]
				s.submit(c.sendOp(response), s.sendTask(c))
			}
			return
		}

		if o.Result < 0 {
			connectionErrors.Inc()
		}
		s.logger.Push(logger.WARNING, c.errText(o))
		s.submit(c.closeOp(), s.closeTask(c.id))
		s.eraseCurrentTask()
	}
}

// sendTask awaits one send completion.
func (s *Scheduler) sendTask(c *Client) Task {
	return func(o Outcome) {
		if o.Result <= 0 {
			connectionErrors.Inc()
			s.logger.Push(logger.WARNING, c.errText(o))
			s.submit(c.closeOp(), s.closeTask(c.id))
		}
		s.eraseCurrentTask()
	}
}

// timingTask resubmits the timer after every tick. The tick itself is what
// wakes an idle reactor so it can flush logs and notice the run flag.
func (s *Scheduler) timingTask() Task {
	return func(o Outcome) {
		if o.Result == timerTickBytes {
			s.submit(s.timer.timingOp(), s.timingTask())
		} else if switcher.Load() && s.active {
			Logger.Errorf("timer stream terminated")
			s.active = false
		}
		s.eraseCurrentTask()
	}
}

// writeTask awaits one logger flush.
func (s *Scheduler) writeTask() Task {
	return func(o Outcome) {
		if o.Result < 0 {
			Logger.Errorf("log flush failed")
		} else {
			s.logger.Wrote()
		}
		s.eraseCurrentTask()
	}
}

// closeTask awaits the close of one owned resource.
func (s *Scheduler) closeTask(id int) Task {
	return func(o Outcome) {
		if id >= firstClientID {
			delete(s.clients, id)
		}
		if o.Result < 0 {
			s.logger.Push(logger.WARNING, "close failed")
		}
		s.eraseCurrentTask()
	}
}
