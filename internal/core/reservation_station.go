package core

// ReservationStation is the bounded, insertion-ordered pool of scheduled,
// not-yet-retired instructions. Entries are heap-allocated *Instruction
// values, so pointers taken during a scan (State-Update, Execute) stay
// valid even if the backing slice is later reallocated by an append.
type ReservationStation struct {
	capacity int
	entries  []*Instruction
}

// NewReservationStation returns an empty station bounded at capacity
// (2*(K0+K1+K2)).
func NewReservationStation(capacity int) *ReservationStation {
	return &ReservationStation{capacity: capacity}
}

// Capacity returns the configured maximum size.
func (rs *ReservationStation) Capacity() int {
	return rs.capacity
}

// Len returns the current occupancy.
func (rs *ReservationStation) Len() int {
	return len(rs.entries)
}

// FreeSlots returns how many more entries can be appended before hitting
// capacity.
func (rs *ReservationStation) FreeSlots() int {
	free := rs.capacity - len(rs.entries)
	if free < 0 {
		return 0
	}
	return free
}

// Append inserts inst at the tail. Insertion order equals schedule
// order.
func (rs *ReservationStation) Append(inst *Instruction) {
	rs.entries = append(rs.entries, inst)
}

// All returns the live entries in insertion order. Callers must not
// mutate RS membership (append/retire) while iterating the returned
// slice within the same stage.
func (rs *ReservationStation) All() []*Instruction {
	return rs.entries
}

// RetireCompleted removes every entry whose CompleteCycle is positive and
// strictly less than the current cycle, preserving the relative order of
// the survivors.
func (rs *ReservationStation) RetireCompleted(cycle uint64) []*Instruction {
	var retired []*Instruction
	kept := rs.entries[:0]
	for _, inst := range rs.entries {
		if inst.CompleteCycle > 0 && inst.CompleteCycle < cycle {
			retired = append(retired, inst)
			continue
		}
		kept = append(kept, inst)
	}
	rs.entries = kept
	return retired
}

// Tags returns every entry's tag, for invariant checks.
func (rs *ReservationStation) Tags() []uint64 {
	out := make([]uint64, len(rs.entries))
	for i, inst := range rs.entries {
		out[i] = inst.Tag
	}
	return out
}
