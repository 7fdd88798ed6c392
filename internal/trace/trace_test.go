package trace

import (
	"strings"
	"testing"
)

func TestReaderParsesValidLines(t *testing.T) {
	input := "400000 0 -1 -1 1\n400004 1 1 -1 2\n\n400008 2 1 2 -1\n"
	r := NewReader(strings.NewReader(input))

	want := []Record{
		{Address: 0x400000, OpCode: 0, Src: [2]int32{-1, -1}, Dest: 1},
		{Address: 0x400004, OpCode: 1, Src: [2]int32{1, -1}, Dest: 2},
		{Address: 0x400008, OpCode: 2, Src: [2]int32{1, 2}, Dest: -1},
	}

	for i, w := range want {
		rec, ok := r.Next()
		if !ok {
			t.Fatalf("record %d: expected ok=true", i)
		}
		if rec != w {
			t.Fatalf("record %d: got %+v, want %+v", i, rec, w)
		}
	}

	if _, ok := r.Next(); ok {
		t.Fatalf("expected end-of-stream after all records consumed")
	}
	if r.Err() != nil {
		t.Fatalf("expected no error on clean end-of-stream, got %v", r.Err())
	}
}

func TestReaderMalformedLineSetsErr(t *testing.T) {
	r := NewReader(strings.NewReader("not-a-valid-line\n"))

	if _, ok := r.Next(); ok {
		t.Fatalf("expected malformed line to yield ok=false")
	}
	if r.Err() == nil {
		t.Fatalf("expected Err() to be set after malformed line")
	}

	// Subsequent calls keep reporting end-of-stream, not a panic or retry.
	if _, ok := r.Next(); ok {
		t.Fatalf("expected Next to keep returning false after an error")
	}
}

func TestReaderWrongFieldCount(t *testing.T) {
	r := NewReader(strings.NewReader("400000 0 -1\n"))
	if _, ok := r.Next(); ok {
		t.Fatalf("expected error on line with too few fields")
	}
	if r.Err() == nil {
		t.Fatalf("expected Err() to be set")
	}
}

func TestSliceSourceOrderAndExhaustion(t *testing.T) {
	records := []Record{{Address: 1}, {Address: 2}}
	src := NewSliceSource(records)

	rec, ok := src.Next()
	if !ok || rec.Address != 1 {
		t.Fatalf("expected first record, got %+v ok=%v", rec, ok)
	}
	rec, ok = src.Next()
	if !ok || rec.Address != 2 {
		t.Fatalf("expected second record, got %+v ok=%v", rec, ok)
	}
	if _, ok := src.Next(); ok {
		t.Fatalf("expected exhaustion after all records consumed")
	}
}
