package core

// RenameMap tracks, for each architectural register, the tag of the most
// recent in-flight producer. Absence of a key means the architectural
// value is current (no in-flight writer).
type RenameMap struct {
	producer map[int32]uint64
}

// NewRenameMap returns an empty rename map.
func NewRenameMap() *RenameMap {
	return &RenameMap{producer: make(map[int32]uint64)}
}

// Lookup returns the producer tag for reg, or 0 if reg is out of the
// valid architectural range or has no in-flight producer.
func (m *RenameMap) Lookup(reg int32) uint64 {
	if reg < 0 || reg >= RegisterCount {
		return 0
	}
	return m.producer[reg]
}

// Install unconditionally overwrites the producer for reg with tag,
// regardless of any prior producer. This is what gives write-after-write
// hazards their overwrite semantics: the older producer simply will not
// be able to clear the map entry at its own state-update, because
// ClearIfOwner below checks tag equality first.
func (m *RenameMap) Install(reg int32, tag uint64) {
	if reg < 0 || reg >= RegisterCount {
		return
	}
	m.producer[reg] = tag
}

// ClearIfOwner removes the mapping for reg only if its current producer
// is exactly tag. A later producer that has since overwritten the entry
// is left untouched.
func (m *RenameMap) ClearIfOwner(reg int32, tag uint64) {
	if reg < 0 || reg >= RegisterCount {
		return
	}
	if cur, ok := m.producer[reg]; ok && cur == tag {
		delete(m.producer, reg)
	}
}

// Size returns the number of registers with a live in-flight producer.
func (m *RenameMap) Size() int {
	return len(m.producer)
}

// Snapshot returns a copy of the register->tag mapping, for invariant
// checks and tests.
func (m *RenameMap) Snapshot() map[int32]uint64 {
	out := make(map[int32]uint64, len(m.producer))
	for k, v := range m.producer {
		out[k] = v
	}
	return out
}
