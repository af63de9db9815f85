package reactor

import (
	"testing"
	"time"
)

func TestRingSubmitWaitPoll(t *testing.T) {
	ring := NewRing(16)

	ring.Submit(7, func(post func(Outcome)) {
		post(Outcome{Result: 42})
	})

	ring.Wait(1)

	var drained []Completion
	count := ring.Poll(func(c Completion) {
		drained = append(drained, c)
	})

	if count != 1 || len(drained) != 1 {
		t.Fatalf("expected 1 completion, got %d", count)
	}
	if drained[0].UserData != 7 {
		t.Errorf("expected userData 7, got %d", drained[0].UserData)
	}
	if drained[0].Outcome.Result != 42 {
		t.Errorf("expected result 42, got %d", drained[0].Outcome.Result)
	}
}

func TestRingMultishot(t *testing.T) {
	ring := NewRing(16)

	// A multishot operation posts several events under one userData.
	ring.Submit(1, func(post func(Outcome)) {
		for i := 1; i <= 3; i++ {
			post(Outcome{Result: i, Flags: FlagMore})
		}
		post(Outcome{Result: 0})
	})

	got := map[int]bool{}
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 4 && time.Now().Before(deadline) {
		ring.Wait(1)
		ring.Poll(func(c Completion) {
			if c.UserData != 1 {
				t.Errorf("unexpected userData %d", c.UserData)
			}
			got[c.Outcome.Result] = true
		})
	}

	for i := 0; i <= 3; i++ {
		if !got[i] {
			t.Errorf("missing completion with result %d", i)
		}
	}
}

func TestRingWaitCollectsMinimum(t *testing.T) {
	ring := NewRing(16)

	for i := 0; i < 5; i++ {
		ring.Submit(uint64(i), func(post func(Outcome)) {
			post(Outcome{Result: 1})
		})
	}

	ring.Wait(5)
	if count := ring.Poll(func(Completion) {}); count < 5 {
		t.Errorf("expected at least 5 completions after Wait(5), got %d", count)
	}
}

func TestBufferRingCycle(t *testing.T) {
	buffers := NewBufferRing(2, 8)

	first := buffers.acquire()
	second := buffers.acquire()
	if first == second {
		t.Fatal("expected distinct buffer ids")
	}

	copy(buffers.Buffer(first), "payload")
	if string(buffers.Buffer(first)[:7]) != "payload" {
		t.Error("buffer content lost")
	}

	// Consumed buffers only return to rotation after an advance.
	buffers.Put(first)
	if buffers.AddedBuffers() != 1 {
		t.Errorf("expected 1 pending buffer, got %d", buffers.AddedBuffers())
	}

	buffers.advance(1)
	if buffers.AddedBuffers() != 0 {
		t.Errorf("expected no pending buffers after advance, got %d", buffers.AddedBuffers())
	}

	// The advanced id must be acquirable again.
	third := buffers.acquire()
	if third != first {
		t.Errorf("expected to re-acquire buffer %d, got %d", first, third)
	}
}

func TestBufferRingRelease(t *testing.T) {
	buffers := NewBufferRing(1, 8)

	id := buffers.acquire()
	buffers.release(id)

	// A released buffer skips the returned list entirely.
	if buffers.AddedBuffers() != 0 {
		t.Error("release must not count as a returned buffer")
	}
	if got := buffers.acquire(); got != id {
		t.Errorf("expected released buffer %d, got %d", id, got)
	}
}

func TestOutcomeBufferID(t *testing.T) {
	o := Outcome{Flags: bufferFlags(13) | FlagMore}
	if o.Flags&FlagBuffer == 0 {
		t.Error("expected FlagBuffer to be set")
	}
	if o.BufferID() != 13 {
		t.Errorf("expected buffer id 13, got %d", o.BufferID())
	}
}
