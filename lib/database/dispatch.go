package database

import (
	"fmt"
	"strconv"

	"github.com/ValentinKolb/tinyRedis/lib/protocol"
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Reply Formatting
// --------------------------------------------------------------------------

var (
	replyOK     = []byte("OK")
	quotedOK    = []byte(`"OK"`)
	replyNil    = []byte("(nil)")
	errorSyntax = errorReply("syntax")
)

// quoted wraps s in ASCII double quotes.
func quoted(s string) []byte {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	buf = append(buf, s...)
	return append(buf, '"')
}

// integerReply formats "(integer) N".
func integerReply(n uint64) []byte {
	return strconv.AppendUint([]byte("(integer) "), n, 10)
}

// errorReply formats "(error) msg".
func errorReply(msg string) []byte {
	return []byte("(error) " + msg)
}

// --------------------------------------------------------------------------
// Dispatcher
// --------------------------------------------------------------------------

// Query consumes one request frame and produces the response byte string.
// Domain errors never escape as Go errors; they are mapped to "(error) ..."
// replies.
func (r *Registry) Query(frame []byte) []byte {
	cmd, id, statement, err := protocol.DecodeFrame(frame)
	if err != nil {
		return errorReply(err.Error())
	}
	commandCounter(cmd).Inc()

	// SELECT creates the database on first use; the id field carries the
	// target id and the client tracks it locally.
	if cmd == protocol.CmdSelect {
		r.Select(id)
		return replyOK
	}

	db, ok := r.Get(id)
	if !ok {
		return errorReply("no such database")
	}

	stmt := string(statement)
	switch cmd {
	case protocol.CmdDel:
		return db.del(stmt)
	case protocol.CmdExists:
		return db.exists(stmt)
	case protocol.CmdMove:
		return r.move(db, stmt)
	case protocol.CmdRename:
		return db.rename(stmt)
	case protocol.CmdRenameNX:
		return db.renamenx(stmt)
	case protocol.CmdType:
		return db.typeOf(stmt)
	case protocol.CmdSet:
		return db.set(stmt)
	case protocol.CmdGet:
		return db.get(stmt)
	case protocol.CmdGetRange:
		return db.getRange(stmt)
	default:
		return errorReply("unknown command")
	}
}

// commandCounter returns the per-command request counter.
func commandCounter(cmd protocol.Command) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`tinyredis_commands_total{command=%q}`, cmd))
}
