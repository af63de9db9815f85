package reactor

import (
	"sync"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

// captureLogger records everything the buffer flushes.
type captureLogger struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureLogger) record(msg string) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
}

func (c *captureLogger) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *captureLogger) SetLevel(logger.LogLevel)               {}
func (c *captureLogger) Debugf(_ string, args ...interface{})   { c.record(args[0].(string)) }
func (c *captureLogger) Infof(_ string, args ...interface{})    { c.record(args[0].(string)) }
func (c *captureLogger) Warningf(_ string, args ...interface{}) { c.record(args[0].(string)) }
func (c *captureLogger) Errorf(_ string, args ...interface{})   { c.record(args[0].(string)) }
func (c *captureLogger) Panicf(_ string, args ...interface{})   {}

func TestLogBufferFlushCycle(t *testing.T) {
	backend := &captureLogger{}
	buffer := NewLogBuffer(backend)

	if buffer.Writable() {
		t.Error("empty buffer must not be writable")
	}

	buffer.Push(logger.WARNING, "first")
	buffer.Push(logger.INFO, "second")
	if !buffer.Writable() {
		t.Fatal("expected buffer with pending records to be writable")
	}

	done := make(chan Outcome, 1)
	buffer.WriteOp()(func(o Outcome) { done <- o })
	outcome := <-done

	if outcome.Result != 2 {
		t.Errorf("expected 2 records flushed, got %d", outcome.Result)
	}
	if backend.count() != 2 {
		t.Errorf("expected backend to receive 2 records, got %d", backend.count())
	}

	// While the batch is in flight the buffer must not offer another write.
	buffer.Push(logger.WARNING, "third")
	if buffer.Writable() {
		t.Error("buffer must not be writable with a batch in flight")
	}

	buffer.Wrote()
	if !buffer.Writable() {
		t.Error("expected buffer to be writable again after Wrote")
	}
}

func TestLogBufferCloseFlushesRemainder(t *testing.T) {
	backend := &captureLogger{}
	buffer := NewLogBuffer(backend)

	buffer.Push(logger.WARNING, "leftover")

	done := make(chan Outcome, 1)
	buffer.CloseOp()(func(o Outcome) { done <- o })
	<-done

	if backend.count() != 1 {
		t.Errorf("expected close to flush the leftover record, got %d", backend.count())
	}
}
