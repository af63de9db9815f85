package reactor

import (
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

// --------------------------------------------------------------------------
// Scheduler-facing Logger Interface
// --------------------------------------------------------------------------

// FlushLogger is the narrow interface the scheduler drives. Log records are
// pushed from tasks and flushed as an asynchronous write operation once per
// reactor iteration; the backend doing the actual writing is external.
type FlushLogger interface {
	// Writable reports whether a flush would have work and none is in flight.
	Writable() bool

	// Push enqueues one record.
	Push(level logger.LogLevel, message string)

	// WriteOp flushes the pending batch asynchronously.
	WriteOp() Operation

	// Wrote marks the in-flight batch as written.
	Wrote()

	// CloseOp flushes what is left; the backend itself is not closed.
	CloseOp() Operation
}

// --------------------------------------------------------------------------
// Default Implementation
// --------------------------------------------------------------------------

type logRecord struct {
	level   logger.LogLevel
	message string
}

// logBuffer batches records and hands them to a leveled backend on flush.
type logBuffer struct {
	backend logger.ILogger

	mu       sync.Mutex
	pending  []logRecord
	inflight []logRecord
}

// NewLogBuffer creates a FlushLogger writing to the given backend.
func NewLogBuffer(backend logger.ILogger) FlushLogger {
	return &logBuffer{backend: backend}
}

func (l *logBuffer) Writable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending) > 0 && l.inflight == nil
}

func (l *logBuffer) Push(level logger.LogLevel, message string) {
	l.mu.Lock()
	l.pending = append(l.pending, logRecord{level: level, message: message})
	l.mu.Unlock()
}

func (l *logBuffer) WriteOp() Operation {
	l.mu.Lock()
	l.inflight = l.pending
	l.pending = nil
	batch := l.inflight
	l.mu.Unlock()

	return func(post func(Outcome)) {
		l.write(batch)
		post(Outcome{Result: len(batch)})
	}
}

func (l *logBuffer) Wrote() {
	l.mu.Lock()
	l.inflight = nil
	l.mu.Unlock()
}

func (l *logBuffer) CloseOp() Operation {
	l.mu.Lock()
	batch := append(l.inflight, l.pending...)
	l.inflight = nil
	l.pending = nil
	l.mu.Unlock()

	return func(post func(Outcome)) {
		l.write(batch)
		post(Outcome{Result: 0})
	}
}

// write hands one batch to the backend.
func (l *logBuffer) write(batch []logRecord) {
	for _, record := range batch {
		switch {
		case record.level >= logger.DEBUG:
			l.backend.Debugf("%s", record.message)
		case record.level >= logger.INFO:
			l.backend.Infof("%s", record.message)
		case record.level >= logger.WARNING:
			l.backend.Warningf("%s", record.message)
		default:
			l.backend.Errorf("%s", record.message)
		}
	}
}
