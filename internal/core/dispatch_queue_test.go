package core

import "testing"

func TestDispatchQueuePushPopFront(t *testing.T) {
	q := NewDispatchQueue()
	q.Push(&Instruction{Tag: 1})
	q.Push(&Instruction{Tag: 2})
	q.Push(&Instruction{Tag: 3})

	popped := q.PopFront(2)
	if len(popped) != 2 || popped[0].Tag != 1 || popped[1].Tag != 2 {
		t.Fatalf("unexpected pop order: %+v", popped)
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", q.Len())
	}
}

func TestDispatchQueuePopFrontMoreThanAvailable(t *testing.T) {
	q := NewDispatchQueue()
	q.Push(&Instruction{Tag: 1})

	popped := q.PopFront(5)
	if len(popped) != 1 {
		t.Fatalf("expected 1 popped, got %d", len(popped))
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", q.Len())
	}
}

func TestFetchBufferPushDrain(t *testing.T) {
	b := NewFetchBuffer()
	b.Push(&Instruction{Tag: 1})
	b.Push(&Instruction{Tag: 2})

	if b.Len() != 2 {
		t.Fatalf("expected len 2, got %d", b.Len())
	}

	drained := b.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained, got %d", len(drained))
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer after drain, got %d", b.Len())
	}
}
