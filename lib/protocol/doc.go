// Package protocol defines the wire protocol spoken between the tinyRedis
// server and its clients.
//
// A request travels as a single frame:
//
//	| 1 byte command tag | 8 bytes little-endian database id | statement bytes... |
//
// The statement is UTF-8 text whose layout depends on the command (for
// example "key" for GET, `key "value"` for SET). A frame carries exactly one
// request; the response is sent back as raw display-ready bytes with no
// framing of its own - the client reads what the socket yields.
//
// The package focuses on:
//   - The Command enum with its fixed on-wire ordinals
//   - Frame encoding (client side) and decoding (server side)
//
// The command ordinals are part of the wire contract and must never be
// reordered. Tags beyond GetRange are reserved for future revisions; the
// server rejects them with an error reply.
package protocol
