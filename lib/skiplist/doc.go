// Package skiplist provides the ordered in-memory index backing each
// tinyRedis database.
//
// The index is a probabilistic skiplist: a tower of linked lists where each
// node's height is drawn from a geometric distribution (P(level > k) = 2^-k,
// capped at MaxLevel). Find, Insert and Erase run in O(log n) expected time.
// Keys are compared as raw byte sequences; the bottom level holds every entry
// in strictly ascending key order with no duplicates.
//
// Entries are tagged variants (string, hash, list, set, zset). Only the
// string tag carries a value in the current command set; the remaining tags
// are reserved: Serialize writes them, but Deserialize refuses them.
//
// The package also owns the binary persistence format. Each entry encodes as
//
//	| 1 byte type | 8 bytes LE key length | key | 8 bytes LE value length | value |
//
// and a full skiplist serializes as the concatenation of its entries in
// ascending key order with no outer framing - the buffer length delimits the
// content. Serialize and Deserialize round-trip exactly; malformed input is
// rejected with an error so a corrupt database file fails loudly at startup.
//
// Thread-safety: the skiplist itself is not synchronized. All mutation goes
// through the owning database's writer lock (see lib/database).
package skiplist
