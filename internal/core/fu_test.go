package core

import "testing"

func TestFUTableAllocateRelease(t *testing.T) {
	tbl := NewFUTable(2)

	if !tbl.Allocate(1) {
		t.Fatalf("expected slot 0 to be allocatable")
	}
	if !tbl.Allocate(2) {
		t.Fatalf("expected slot 1 to be allocatable")
	}
	if tbl.Allocate(3) {
		t.Fatalf("table is full, allocate should fail")
	}
	if tbl.Occupied() != 2 {
		t.Fatalf("expected 2 occupied, got %d", tbl.Occupied())
	}

	tbl.Release(1)
	if tbl.Occupied() != 1 {
		t.Fatalf("expected 1 occupied after release, got %d", tbl.Occupied())
	}
	if !tbl.Allocate(4) {
		t.Fatalf("expected freed slot to be allocatable again")
	}
}

func TestFUTableReleaseUnknownTagIsNoop(t *testing.T) {
	tbl := NewFUTable(1)
	tbl.Allocate(1)
	tbl.Release(999)
	if tbl.Occupied() != 1 {
		t.Fatalf("releasing an unknown tag should not affect occupancy")
	}
}

func TestFUTablesFor(t *testing.T) {
	f := NewFUTables(1, 2, 3)

	if f.For(Class0) != f.Class0 {
		t.Fatalf("For(Class0) mismatch")
	}
	if f.For(Class1) != f.Class1 {
		t.Fatalf("For(Class1) mismatch")
	}
	if f.For(Class2) != f.Class2 {
		t.Fatalf("For(Class2) mismatch")
	}
	if f.Class0.Len() != 1 || f.Class1.Len() != 2 || f.Class2.Len() != 3 {
		t.Fatalf("unexpected table sizes: %d %d %d", f.Class0.Len(), f.Class1.Len(), f.Class2.Len())
	}
}
