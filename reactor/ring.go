package reactor

// --------------------------------------------------------------------------
// Submission / Completion Ring
// --------------------------------------------------------------------------

// Operation is one submitted unit of asynchronous work. It runs on its own
// goroutine, performs the blocking calls and posts one Outcome per event.
// Multishot operations post with FlagMore until a terminal event.
type Operation func(post func(Outcome))

// Ring is the per-worker submission/completion queue. Submissions fan out to
// operation goroutines; their completions funnel back through one queue that
// the owning scheduler drains with Wait and Poll.
//
// Thread-safety: Submit, Wait, Poll and Advance must only be called by the
// owning worker. Posting completions is safe from any goroutine.
type Ring struct {
	queue   chan Completion
	backlog []Completion
}

// NewRing creates a ring with the given completion-queue depth.
func NewRing(depth int) *Ring {
	if depth < 1 {
		depth = 1
	}
	return &Ring{queue: make(chan Completion, depth)}
}

// Submit queues the operation under the given userData tag. Every event the
// operation produces is delivered as a Completion echoing that tag.
func (r *Ring) Submit(userData uint64, op Operation) {
	go op(func(o Outcome) {
		r.queue <- Completion{UserData: userData, Outcome: o}
	})
}

// Wait blocks until at least min completions are available.
func (r *Ring) Wait(min int) {
	for len(r.backlog) < min {
		r.backlog = append(r.backlog, <-r.queue)
	}
}

// Poll drains the completion queue, invoking fn for each completion, and
// returns the number of completions drained.
func (r *Ring) Poll(fn func(Completion)) int {
	count := len(r.backlog)
	for _, c := range r.backlog {
		fn(c)
	}
	r.backlog = r.backlog[:0]

	for {
		select {
		case c := <-r.queue:
			fn(c)
			count++
		default:
			return count
		}
	}
}

// Advance hands added buffers back to the buffer ring for reuse. Poll has
// already consumed the completions, so the count argument is unused.
func (r *Ring) Advance(buffers *BufferRing, _, added int) {
	buffers.advance(added)
}
