package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ValentinKolb/tinyRedis/lib/skiplist"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("database")

// preallocatedDatabases is the id range that always exists.
const preallocatedDatabases = 16

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry is the process-wide mapping from database id to Database. It is
// initialized once at startup and only ever grows (SELECT adds entries).
type Registry struct {
	dir string
	dbs *xsync.MapOf[uint64, *Database]
}

// Open creates the data directory if missing, loads every database file found
// there and preallocates ids 0..15. A corrupt database file is a fatal
// startup error.
func Open(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	r := &Registry{
		dir: dir,
		dbs: xsync.NewMapOf[uint64, *Database](),
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasSuffix(name, ".db") {
			continue
		}

		id, err := strconv.ParseUint(strings.TrimSuffix(name, ".db"), 10, 64)
		if err != nil {
			Logger.Warningf("ignoring unrecognized file in data directory: %s", name)
			continue
		}

		db, err := r.loadDatabase(id)
		if err != nil {
			return nil, err
		}
		r.dbs.Store(id, db)
	}

	// Ids 0..15 are always present.
	for id := uint64(0); id < preallocatedDatabases; id++ {
		r.dbs.LoadOrStore(id, newDatabase(id, skiplist.New()))
	}

	return r, nil
}

// loadDatabase reads and deserializes one database file.
func (r *Registry) loadDatabase(id uint64) (*Database, error) {
	data, err := os.ReadFile(r.filepath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to open database file for id %d: %w", id, err)
	}

	index, err := skiplist.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load database %d: %w", id, err)
	}

	Logger.Infof("loaded database %d with %d keys", id, index.Len())
	return newDatabase(id, index), nil
}

// Get returns the database for id, if present.
func (r *Registry) Get(id uint64) (*Database, bool) {
	return r.dbs.Load(id)
}

// Select returns the database for id, creating an empty one on first use.
// All on-disk databases were loaded at Open, so a fresh id starts empty.
func (r *Registry) Select(id uint64) *Database {
	db, _ := r.dbs.LoadOrCompute(id, func() *Database {
		return newDatabase(id, skiplist.New())
	})
	return db
}

// Range calls fn for every database until fn returns false.
func (r *Registry) Range(fn func(*Database) bool) {
	r.dbs.Range(func(_ uint64, db *Database) bool {
		return fn(db)
	})
}

// --------------------------------------------------------------------------
// MOVE (cross-database command)
// --------------------------------------------------------------------------

// move implements MOVE: transfer a key from src to the target database.
// Succeeds only when the target exists, src holds the key and the target does
// not. Source and target are locked in id order so opposing concurrent moves
// cannot deadlock.
func (r *Registry) move(src *Database, statement string) []byte {
	key, targetPart, ok := splitPair(statement)
	if !ok {
		return errorSyntax
	}
	targetID, err := strconv.ParseUint(targetPart, 10, 64)
	if err != nil {
		return errorSyntax
	}

	target, ok := r.Get(targetID)
	if !ok {
		return integerReply(0)
	}

	// Moving within one database can never succeed: the key would have to be
	// both present and absent there.
	if target == src {
		return integerReply(0)
	}

	first, second := src, target
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	defer second.mu.Unlock()
	defer first.mu.Unlock()

	entry := src.index.Find(key)
	if entry == nil || target.index.Find(key) != nil {
		return integerReply(0)
	}

	src.index.Erase(key)
	target.index.Insert(entry)
	return integerReply(1)
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// filepath returns the on-disk location for a database id.
func (r *Registry) filepath(id uint64) string {
	return filepath.Join(r.dir, strconv.FormatUint(id, 10)+".db")
}

// Save serializes every database to its file. Each file is written to a
// temporary sibling, synced and renamed so that a crash mid-write never
// leaves a truncated database behind.
func (r *Registry) Save() error {
	var firstErr error

	r.dbs.Range(func(id uint64, db *Database) bool {
		if err := r.saveDatabase(db); err != nil {
			Logger.Errorf("failed to save database %d: %v", id, err)
			if firstErr == nil {
				firstErr = err
			}
		}
		return true
	})

	return firstErr
}

// saveDatabase writes one database atomically.
func (r *Registry) saveDatabase(db *Database) error {
	db.mu.RLock()
	data := db.index.Serialize()
	db.mu.RUnlock()

	path := r.filepath(db.id)
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
