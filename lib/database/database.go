package database

import (
	"strconv"
	"strings"
	"sync"

	"github.com/ValentinKolb/tinyRedis/lib/skiplist"
)

// --------------------------------------------------------------------------
// Database
// --------------------------------------------------------------------------

// Database is one numbered key namespace: a skiplist index guarded by a
// reader-writer lock.
type Database struct {
	id    uint64
	mu    sync.RWMutex
	index *skiplist.SkipList
}

// newDatabase wraps an index under the given id.
func newDatabase(id uint64, index *skiplist.SkipList) *Database {
	return &Database{id: id, index: index}
}

// ID returns the database's registry id.
func (db *Database) ID() uint64 {
	return db.id
}

// Len returns the number of keys.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.index.Len()
}

// --------------------------------------------------------------------------
// Read Commands (shared lock)
// --------------------------------------------------------------------------

// get implements GET: the quoted value for a string-typed key, (nil) for an
// absent key, a WRONGTYPE error otherwise.
func (db *Database) get(key string) []byte {
	db.mu.RLock()
	defer db.mu.RUnlock()

	entry := db.index.Find(key)
	if entry == nil {
		return replyNil
	}
	if entry.Type != skiplist.TypeString {
		return errorReply("WRONGTYPE Operation against a key holding the wrong kind of value")
	}
	return quoted(entry.Value)
}

// getRange implements GETRANGE with signed inclusive indices; negative values
// count from the end (-1 = last byte). An empty range or absent key yields "".
func (db *Database) getRange(statement string) []byte {
	parts := strings.SplitN(statement, " ", 3)
	if len(parts) != 3 {
		return errorSyntax
	}
	start, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return errorSyntax
	}
	end, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return errorSyntax
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	entry := db.index.Find(parts[0])
	if entry == nil || entry.Type != skiplist.TypeString {
		return quoted("")
	}
	return quoted(substring(entry.Value, start, end))
}

// substring resolves the inclusive [start, end] range against value.
func substring(value string, start, end int64) string {
	n := int64(len(value))

	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if end < 0 {
		end += n
	}
	if end >= n {
		end = n - 1
	}
	if start > end || start >= n || end < 0 {
		return ""
	}
	return value[start : end+1]
}

// exists implements EXISTS over one or more keys; duplicates count twice.
func (db *Database) exists(statement string) []byte {
	var count uint64

	db.mu.RLock()
	for _, key := range splitKeys(statement) {
		if db.index.Find(key) != nil {
			count++
		}
	}
	db.mu.RUnlock()

	return integerReply(count)
}

// typeOf implements TYPE: the quoted type name, or "none" for an absent key.
func (db *Database) typeOf(key string) []byte {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if entry := db.index.Find(key); entry != nil {
		return quoted(entry.Type.String())
	}
	return quoted("none")
}

// Dump returns the entry's serialization bytes surrounded by double quotes,
// or (nil) for an absent key. The operation has no v0 wire ordinal yet; it is
// exposed for tooling and a future protocol revision.
func (db *Database) Dump(key string) []byte {
	db.mu.RLock()
	defer db.mu.RUnlock()

	entry := db.index.Find(key)
	if entry == nil {
		return replyNil
	}

	serialization := entry.Serialize()
	buf := make([]byte, 0, len(serialization)+2)
	buf = append(buf, '"')
	buf = append(buf, serialization...)
	return append(buf, '"')
}

// --------------------------------------------------------------------------
// Write Commands (exclusive lock)
// --------------------------------------------------------------------------

// set implements SET. The value must be double-quoted; internal quotes are
// not escaped in v0.
func (db *Database) set(statement string) []byte {
	idx := strings.IndexByte(statement, ' ')
	if idx <= 0 {
		return errorSyntax
	}
	key := statement[:idx]
	raw := statement[idx+1:]
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return errorSyntax
	}
	value := raw[1 : len(raw)-1]

	db.mu.Lock()
	db.index.Insert(skiplist.NewStringEntry(key, value))
	db.mu.Unlock()

	return quotedOK
}

// del implements DEL over one or more keys, replying with the removed count.
func (db *Database) del(statement string) []byte {
	var count uint64

	db.mu.Lock()
	for _, key := range splitKeys(statement) {
		if db.index.Erase(key) {
			count++
		}
	}
	db.mu.Unlock()

	return integerReply(count)
}

// rename implements RENAME: moves the value to newKey, overwriting any
// previous holder.
func (db *Database) rename(statement string) []byte {
	key, newKey, ok := splitPair(statement)
	if !ok {
		return errorSyntax
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	entry := db.index.Find(key)
	if entry == nil {
		return errorReply("no such key")
	}

	db.index.Erase(key)
	db.index.Insert(&skiplist.Entry{Key: newKey, Type: entry.Type, Value: entry.Value})
	return quotedOK
}

// renamenx implements RENAMENX: like rename but a no-op when newKey already
// exists.
func (db *Database) renamenx(statement string) []byte {
	key, newKey, ok := splitPair(statement)
	if !ok {
		return errorSyntax
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	entry := db.index.Find(key)
	if entry == nil || db.index.Find(newKey) != nil {
		return integerReply(0)
	}

	db.index.Erase(key)
	db.index.Insert(&skiplist.Entry{Key: newKey, Type: entry.Type, Value: entry.Value})
	return integerReply(1)
}

// --------------------------------------------------------------------------
// Statement Helpers
// --------------------------------------------------------------------------

// splitKeys splits a space-separated key list, dropping empty tokens.
func splitKeys(statement string) []string {
	return strings.Fields(statement)
}

// splitPair splits "key otherKey" statements.
func splitPair(statement string) (string, string, bool) {
	idx := strings.IndexByte(statement, ' ')
	if idx <= 0 || idx == len(statement)-1 {
		return "", "", false
	}
	return statement[:idx], statement[idx+1:], true
}
