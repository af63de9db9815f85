package protocol

import (
	"bytes"
	"testing"
)

func TestCommandOrdinals(t *testing.T) {
	// The on-wire values are frozen; a reorder of the const block would
	// silently break every deployed client.
	expected := map[Command]uint8{
		CmdSelect:   0,
		CmdDel:      1,
		CmdExists:   2,
		CmdMove:     3,
		CmdRename:   4,
		CmdRenameNX: 5,
		CmdType:     6,
		CmdSet:      7,
		CmdGet:      8,
		CmdGetRange: 9,
		CmdMGet:     10,
		CmdSetNX:    11,
		CmdSetRange: 12,
		CmdStrLen:   13,
		CmdMSet:     14,
		CmdMSetNX:   15,
		CmdIncr:     16,
		CmdIncrBy:   17,
		CmdDecr:     18,
		CmdDecrBy:   19,
		CmdAppend:   20,
		CmdHDel:     21,
		CmdHExists:  22,
		CmdHGet:     23,
		CmdHGetAll:  24,
	}

	for cmd, ordinal := range expected {
		if uint8(cmd) != ordinal {
			t.Errorf("command %s has ordinal %d, expected %d", cmd, uint8(cmd), ordinal)
		}
	}
}

func TestEncodeFrame(t *testing.T) {
	frame := EncodeFrame(CmdSet, 3, `foo "bar"`)

	if frame[0] != byte(CmdSet) {
		t.Errorf("expected command tag %d, got %d", CmdSet, frame[0])
	}

	// Database id is little-endian
	expectedID := []byte{3, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(frame[1:9], expectedID) {
		t.Errorf("expected id bytes %v, got %v", expectedID, frame[1:9])
	}

	if string(frame[9:]) != `foo "bar"` {
		t.Errorf("unexpected statement bytes: %q", frame[9:])
	}
}

func TestDecodeFrame(t *testing.T) {
	frame := EncodeFrame(CmdGetRange, 42, "key 0 -1")

	cmd, id, statement, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != CmdGetRange {
		t.Errorf("expected command %s, got %s", CmdGetRange, cmd)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
	if string(statement) != "key 0 -1" {
		t.Errorf("unexpected statement: %q", statement)
	}
}

func TestDecodeFrameTooShort(t *testing.T) {
	if _, _, _, err := DecodeFrame([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated frame")
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		ok   bool
	}{
		{"SELECT", CmdSelect, true},
		{"set", CmdSet, true},
		{"GetRange", CmdGetRange, true},
		{"FLUSHALL", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		cmd, ok := ParseCommand(tt.name)
		if ok != tt.ok || (ok && cmd != tt.cmd) {
			t.Errorf("ParseCommand(%q) = (%v, %v), expected (%v, %v)", tt.name, cmd, ok, tt.cmd, tt.ok)
		}
	}
}
