package persist

import (
	"reflect"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	m.Set("recents", []string{"a", "b"})
	var got []string
	if !m.Get("recents", &got) {
		t.Fatal("expected key to exist")
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestMemoryMissingKey(t *testing.T) {
	m := NewMemory()
	var got []string
	if m.Get("nope", &got) {
		t.Fatal("expected miss for unknown key")
	}
}

func TestMemoryDecodeMismatchDegrades(t *testing.T) {
	m := NewMemory()
	m.Set("key", "a string")
	var got []string
	if m.Get("key", &got) {
		t.Fatal("expected decode mismatch to report a miss")
	}
}

func TestDiskRoundTrip(t *testing.T) {
	p := OpenDisk(t.TempDir())
	p.Set("library", "fuzzy")
	var got string
	if !p.Get("library", &got) {
		t.Fatal("expected key to exist")
	}
	if got != "fuzzy" {
		t.Fatalf("expected fuzzy, got %q", got)
	}
	var missing string
	if p.Get("absent", &missing) {
		t.Fatal("expected miss for unknown key")
	}
}

func TestDiskUnwritableBasePathDegrades(t *testing.T) {
	p := OpenDisk("/dev/null/not-a-dir")
	p.Set("key", "value")
	var got string
	if p.Get("key", &got) {
		t.Fatal("expected failed write to read back as a miss")
	}
}
