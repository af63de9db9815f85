package repl

import (
	"testing"

	"github.com/ValentinKolb/tinyRedis/lib/protocol"
)

func TestFormatRequest(t *testing.T) {
	var id uint64

	frame, ok := formatRequest(`SET foo "bar"`, &id)
	if !ok {
		t.Fatal("expected SET to be recognized")
	}
	cmd, frameID, statement, err := protocol.DecodeFrame(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != protocol.CmdSet || frameID != 0 || string(statement) != `foo "bar"` {
		t.Errorf("unexpected frame: cmd=%s id=%d statement=%q", cmd, frameID, statement)
	}

	// SELECT updates the tracked id and sends an empty statement.
	frame, ok = formatRequest("SELECT 5", &id)
	if !ok {
		t.Fatal("expected SELECT to be recognized")
	}
	cmd, frameID, statement, _ = protocol.DecodeFrame(frame)
	if cmd != protocol.CmdSelect || frameID != 5 || len(statement) != 0 {
		t.Errorf("unexpected SELECT frame: cmd=%s id=%d statement=%q", cmd, frameID, statement)
	}
	if id != 5 {
		t.Errorf("expected tracked id 5, got %d", id)
	}

	// Later commands ride on the selected id.
	frame, _ = formatRequest("GET foo", &id)
	_, frameID, _, _ = protocol.DecodeFrame(frame)
	if frameID != 5 {
		t.Errorf("expected frame id 5 after SELECT, got %d", frameID)
	}

	if _, ok := formatRequest("FLUSHALL now", &id); ok {
		t.Error("expected unknown command to be rejected")
	}
	if _, ok := formatRequest("SELECT notanumber", &id); ok {
		t.Error("expected malformed SELECT to be rejected")
	}
}

func TestPrompt(t *testing.T) {
	if got := prompt("localhost:6379", 0); got != "tinyRedis localhost:6379> " {
		t.Errorf("unexpected prompt: %q", got)
	}
	if got := prompt("localhost:6379", 3); got != "tinyRedis localhost:6379[3]> " {
		t.Errorf("unexpected prompt: %q", got)
	}
}
