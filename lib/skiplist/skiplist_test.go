package skiplist

import (
	"fmt"
	"sort"
	"testing"
)

func TestInsertFindErase(t *testing.T) {
	s := New()

	if entry := s.Find("missing"); entry != nil {
		t.Errorf("expected nil for missing key, got %v", entry)
	}

	s.Insert(NewStringEntry("foo", "bar"))

	entry := s.Find("foo")
	if entry == nil {
		t.Fatal("expected to find key foo after insert")
	}
	if entry.Value != "bar" {
		t.Errorf("expected value bar, got %s", entry.Value)
	}
	if entry.Type != TypeString {
		t.Errorf("expected string type, got %s", entry.Type)
	}

	if !s.Erase("foo") {
		t.Error("expected Erase to report a removed key")
	}
	if s.Erase("foo") {
		t.Error("expected Erase on absent key to report false")
	}
	if s.Find("foo") != nil {
		t.Error("expected key to be gone after Erase")
	}
}

func TestInsertReplacesExistingKey(t *testing.T) {
	s := New()

	s.Insert(NewStringEntry("key", "first"))
	s.Insert(NewStringEntry("key", "second"))

	if s.Len() != 1 {
		t.Errorf("expected a single entry after duplicate insert, got %d", s.Len())
	}
	if entry := s.Find("key"); entry.Value != "second" {
		t.Errorf("expected replaced value second, got %s", entry.Value)
	}
}

func TestOrderingInvariant(t *testing.T) {
	s := newWithSeed(0x9e3779b97f4a7c15)

	// Insert in scrambled order, some keys twice.
	keys := []string{"delta", "alpha", "echo", "bravo", "charlie", "alpha", "foxtrot", "bravo"}
	for i, key := range keys {
		s.Insert(NewStringEntry(key, fmt.Sprintf("v%d", i)))
	}

	var got []string
	s.Range(func(e *Entry) bool {
		got = append(got, e.Key)
		return true
	})

	if !sort.StringsAreSorted(got) {
		t.Errorf("iteration order is not ascending: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Errorf("duplicate key %s survived insertion", got[i])
		}
	}
	if len(got) != 6 {
		t.Errorf("expected 6 distinct keys, got %d", len(got))
	}
}

func TestLargeInsertEraseMix(t *testing.T) {
	s := newWithSeed(42)
	reference := make(map[string]string)

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%04d", i*7919%1000)
		value := fmt.Sprintf("value-%d", i)
		s.Insert(NewStringEntry(key, value))
		reference[key] = value
	}
	for i := 0; i < 1000; i += 3 {
		key := fmt.Sprintf("key-%04d", i)
		if s.Erase(key) != (reference[key] != "") {
			t.Errorf("Erase(%s) disagrees with reference", key)
		}
		delete(reference, key)
	}

	if s.Len() != len(reference) {
		t.Fatalf("expected %d entries, got %d", len(reference), s.Len())
	}

	for key, value := range reference {
		entry := s.Find(key)
		if entry == nil {
			t.Fatalf("expected to find key %s", key)
		}
		if entry.Value != value {
			t.Errorf("key %s: expected value %s, got %s", key, value, entry.Value)
		}
	}

	// Bottom level must still be fully sorted.
	prev := ""
	s.Range(func(e *Entry) bool {
		if prev != "" && e.Key <= prev {
			t.Errorf("ordering violated: %s after %s", e.Key, prev)
		}
		prev = e.Key
		return true
	})
}

func TestRangeEarlyStop(t *testing.T) {
	s := New()
	for _, key := range []string{"a", "b", "c", "d"} {
		s.Insert(NewStringEntry(key, key))
	}

	var visited int
	s.Range(func(e *Entry) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("expected Range to stop after 2 entries, visited %d", visited)
	}
}

func TestRandomLevelBounds(t *testing.T) {
	s := newWithSeed(1)
	for i := 0; i < 10000; i++ {
		level := s.randomLevel()
		if level < 1 || level > MaxLevel {
			t.Fatalf("level %d out of bounds [1, %d]", level, MaxLevel)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	s := New()
	entries := map[string]string{
		"foo":   "bar",
		"empty": "",
		"big":   string(make([]byte, 4096)),
	}
	for key, value := range entries {
		s.Insert(NewStringEntry(key, value))
	}

	restored, err := Deserialize(s.Serialize())
	if err != nil {
		t.Fatalf("unexpected deserialize error: %v", err)
	}

	if restored.Len() != s.Len() {
		t.Fatalf("expected %d entries after round trip, got %d", s.Len(), restored.Len())
	}
	for key, value := range entries {
		entry := restored.Find(key)
		if entry == nil {
			t.Fatalf("key %s missing after round trip", key)
		}
		if entry.Value != value {
			t.Errorf("key %s: expected value of %d bytes, got %d", key, len(value), len(entry.Value))
		}
	}
}

func TestSerializeEmpty(t *testing.T) {
	if buf := New().Serialize(); len(buf) != 0 {
		t.Errorf("expected empty serialization for empty skiplist, got %d bytes", len(buf))
	}

	s, err := Deserialize(nil)
	if err != nil {
		t.Fatalf("unexpected error deserializing empty buffer: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty skiplist, got %d entries", s.Len())
	}
}

func TestDeserializeRejectsCorruptInput(t *testing.T) {
	valid := NewStringEntry("key", "value").Serialize()

	tests := []struct {
		name string
		buf  []byte
	}{
		{"unknown type tag", append([]byte{0xff}, valid[1:]...)},
		{"reserved type tag", append([]byte{byte(TypeHash)}, valid[1:]...)},
		{"truncated header", valid[:5]},
		{"truncated key", valid[:11]},
		{"truncated value", valid[:len(valid)-2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Deserialize(tt.buf); err == nil {
				t.Error("expected error for corrupt input")
			}
		})
	}
}
