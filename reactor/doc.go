// Package reactor implements the tinyRedis I/O scheduler: a set of
// per-worker reactors multiplexing many client connections over a
// submission/completion ring abstraction.
//
// Each worker goroutine owns exactly one Ring. Asynchronous operations
// (accept, receive, send, timer, close, log flush) are submitted with a
// unique 64-bit userData tag; their results come back as Completions carrying
// an Outcome (result plus flags). A table of in-flight Tasks - suspended
// computations keyed by userData - is resumed one completion at a time, so
// everything inside a worker runs cooperatively on a single goroutine.
// Receives use a ring of pre-allocated buffers: the completion flags carry
// the chosen buffer id, and the reactor hands the buffer back once the bytes
// are consumed.
//
// The data flow per client is: accept -> receive loop (accumulates bytes
// until the socket drains) -> hand the framed request to the configured
// Handler on this worker -> submit send -> await completion. A client stays
// bound to the worker that accepted it for its whole lifetime, which also
// serializes its requests: replies go out in receive order.
//
// Serve wires the process together: one scheduler per hardware thread, a
// shared listener between the rings, a slot table guarded by one process-wide
// mutex, and a run flag cleared by SIGINT/SIGTERM that triggers the orderly
// shutdown (close tasks for all clients, then timer, server and logger).
package reactor
