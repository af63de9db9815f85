package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Command Type Definition
// --------------------------------------------------------------------------

// Command identifies one operation on the wire. The ordinal values are part
// of the protocol: server and client must agree on them exactly.
type Command uint8

const (
	CmdSelect Command = iota
	CmdDel
	CmdExists
	CmdMove
	CmdRename
	CmdRenameNX
	CmdType
	CmdSet
	CmdGet
	CmdGetRange

	// Reserved for future revisions. The server replies with an error for
	// any of these tags.

	CmdMGet
	CmdSetNX
	CmdSetRange
	CmdStrLen
	CmdMSet
	CmdMSetNX
	CmdIncr
	CmdIncrBy
	CmdDecr
	CmdDecrBy
	CmdAppend
	CmdHDel
	CmdHExists
	CmdHGet
	CmdHGetAll
)

// String returns the command's name as typed in the REPL.
func (c Command) String() string {
	switch c {
	case CmdSelect:
		return "SELECT"
	case CmdDel:
		return "DEL"
	case CmdExists:
		return "EXISTS"
	case CmdMove:
		return "MOVE"
	case CmdRename:
		return "RENAME"
	case CmdRenameNX:
		return "RENAMENX"
	case CmdType:
		return "TYPE"
	case CmdSet:
		return "SET"
	case CmdGet:
		return "GET"
	case CmdGetRange:
		return "GETRANGE"
	default:
		return "UNKNOWN"
	}
}

// ParseCommand maps a command name (case-insensitive) to its wire tag.
// The boolean return value indicates whether the name is known.
func ParseCommand(name string) (Command, bool) {
	switch strings.ToUpper(name) {
	case "SELECT":
		return CmdSelect, true
	case "DEL":
		return CmdDel, true
	case "EXISTS":
		return CmdExists, true
	case "MOVE":
		return CmdMove, true
	case "RENAME":
		return CmdRename, true
	case "RENAMENX":
		return CmdRenameNX, true
	case "TYPE":
		return CmdType, true
	case "SET":
		return CmdSet, true
	case "GET":
		return CmdGet, true
	case "GETRANGE":
		return CmdGetRange, true
	default:
		return 0, false
	}
}

// --------------------------------------------------------------------------
// Frame Encoding / Decoding
// --------------------------------------------------------------------------

// headerSize is the fixed prefix of every frame: command tag plus database id.
const headerSize = 1 + 8

// EncodeFrame builds a request frame for the given command, database id and
// statement.
func EncodeFrame(cmd Command, id uint64, statement string) []byte {
	frame := make([]byte, headerSize+len(statement))
	frame[0] = byte(cmd)
	binary.LittleEndian.PutUint64(frame[1:headerSize], id)
	copy(frame[headerSize:], statement)
	return frame
}

// DecodeFrame splits a request frame into its parts. The returned statement
// aliases the input buffer.
func DecodeFrame(frame []byte) (cmd Command, id uint64, statement []byte, err error) {
	if len(frame) < headerSize {
		return 0, 0, nil, fmt.Errorf("frame too short: %d bytes", len(frame))
	}
	cmd = Command(frame[0])
	id = binary.LittleEndian.Uint64(frame[1:headerSize])
	return cmd, id, frame[headerSize:], nil
}
