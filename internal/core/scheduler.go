package core

// Scheduler owns every piece of scoreboard state for one in-order-issue,
// out-of-order-execute pipeline: the rename map, reservation station, FU
// tables, dispatch queue, and fetch buffer. It holds no logic of its own
// — the stage functions in internal/pipeline operate on it explicitly, so
// there is no hidden global state.
type Scheduler struct {
	Cycle uint64

	RenameMap   *RenameMap
	RS          *ReservationStation
	FU          *FUTables
	DispatchQ   *DispatchQueue
	FetchBuf    *FetchBuffer

	nextTag uint64

	TotalInstructions uint64
	TotalFired        uint64
	DispSizeSum       uint64
	DispSampleCount   uint64
	MaxDispSize       int

	TraceDone bool
}

// NewScheduler builds a scheduler sized from the given functional-unit
// counts. RS capacity is derived as 2*(k0+k1+k2).
func NewScheduler(k0, k1, k2 int) *Scheduler {
	return &Scheduler{
		RenameMap: NewRenameMap(),
		RS:        NewReservationStation(2 * (k0 + k1 + k2)),
		FU:        NewFUTables(k0, k1, k2),
		DispatchQ: NewDispatchQueue(),
		FetchBuf:  NewFetchBuffer(),
		nextTag:   1,
	}
}

// NextTag returns the next monotonic tag and advances the counter.
// Tags are strictly positive and strictly increasing in issue order.
func (s *Scheduler) NextTag() uint64 {
	t := s.nextTag
	s.nextTag++
	return t
}

// Done reports whether the run has terminated: trace exhausted, DQ
// empty, RS empty.
func (s *Scheduler) Done() bool {
	return s.TraceDone && s.DispatchQ.Len() == 0 && s.RS.Len() == 0
}
