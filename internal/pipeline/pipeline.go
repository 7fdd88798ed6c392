// Package pipeline implements the six per-cycle scheduler stages —
// State-Update, Execute, Schedule, Broadcast, Retire, and Dispatch
// refill/Fetch — in a fixed order each cycle. Each stage is a pure
// function of a *core.Scheduler plus whatever inputs the previous stage
// produced; there is no package-level state.
package pipeline

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jasonKoogler/ooo-sched-sim/internal/core"
	"github.com/jasonKoogler/ooo-sched-sim/internal/trace"
)

// Log is the package logger. The CLI driver reconfigures its level; tests
// leave it at its default (silent below Info).
var Log = logrus.StandardLogger()

// RunCycle advances the scheduler by exactly one cycle, running every
// stage in order:
//
//	State-Update -> Execute -> Schedule -> Broadcast -> Retire -> Dispatch refill -> Fetch
//
// src may be nil once the caller knows the trace is exhausted; Fetch is a
// no-op in that case.
func RunCycle(s *core.Scheduler, src trace.Source, fetchWidth int, resultBuses int) {
	s.Cycle++
	cycle := s.Cycle

	broadcast := StateUpdate(s, cycle, resultBuses)
	Execute(s, cycle)
	Schedule(s, cycle)
	Broadcast(s, broadcast)
	Retire(s, cycle)
	DispatchRefill(s, cycle)
	Fetch(s, src, cycle, fetchWidth)
}

// StateUpdate gathers instructions that fired in a strictly earlier
// cycle and have not yet completed, sorts them by (fire_cycle asc, tag
// asc), awards up to resultBuses result buses to the front of that
// order, stamps completion, clears owned rename-map entries, and frees
// the occupying FU slot. Returns the tags broadcast this cycle.
func StateUpdate(s *core.Scheduler, cycle uint64, resultBuses int) []uint64 {
	var candidates []*core.Instruction
	for _, inst := range s.RS.All() {
		if inst.Fired && inst.CompleteCycle == 0 && inst.FireCycle < cycle {
			candidates = append(candidates, inst)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FireCycle != candidates[j].FireCycle {
			return candidates[i].FireCycle < candidates[j].FireCycle
		}
		return candidates[i].Tag < candidates[j].Tag
	})

	n := len(candidates)
	if n > resultBuses {
		n = resultBuses
	}

	broadcast := make([]uint64, 0, n)
	for _, inst := range candidates[:n] {
		inst.CompleteCycle = cycle
		s.RenameMap.ClearIfOwner(inst.DestReg, inst.Tag)

		class := inst.EffectiveClass()
		s.FU.For(class).Release(inst.Tag)

		broadcast = append(broadcast, inst.Tag)
		Log.WithFields(logrus.Fields{
			"cycle": cycle, "stage": "state-update", "tag": inst.Tag,
		}).Debug("instruction completed")
	}

	return broadcast
}

// Execute walks every unfired RS entry whose sources are both ready, in
// ascending tag order, and attempts to allocate an FU slot from its
// effective class's table. Classes allocate
// independently — an instruction blocked on its class's FUs never blocks
// a ready instruction of a different class.
func Execute(s *core.Scheduler, cycle uint64) {
	var ready []*core.Instruction
	for _, inst := range s.RS.All() {
		if !inst.Fired && inst.Ready() {
			ready = append(ready, inst)
		}
	}

	sort.Slice(ready, func(i, j int) bool { return ready[i].Tag < ready[j].Tag })

	for _, inst := range ready {
		class := inst.EffectiveClass()
		if !s.FU.For(class).Allocate(inst.Tag) {
			continue
		}
		inst.Fired = true
		inst.FireCycle = cycle
		s.TotalFired++
		Log.WithFields(logrus.Fields{
			"cycle": cycle, "stage": "execute", "tag": inst.Tag, "class": class,
		}).Debug("instruction fired")
	}
}

// Schedule moves as many head-of-DQ instructions into the RS as free
// capacity permits, renaming their source operands against the current
// rename map (which already reflects this cycle's State-Update removals
// and the installs of instructions scheduled earlier in the same batch)
// and installing each as the new producer of its destination register.
// This runs before Broadcast
// in the same cycle so a newly scheduled instruction can still be woken
// by this cycle's completions.
func Schedule(s *core.Scheduler, cycle uint64) {
	n := s.RS.FreeSlots()
	if n > s.DispatchQ.Len() {
		n = s.DispatchQ.Len()
	}
	if n == 0 {
		return
	}

	for _, inst := range s.DispatchQ.PopFront(n) {
		inst.ScheduleCycle = cycle

		for i := 0; i < 2; i++ {
			inst.SrcTag[i] = s.RenameMap.Lookup(inst.SrcReg[i])
		}

		s.RenameMap.Install(inst.DestReg, inst.Tag)
		s.RS.Append(inst)

		Log.WithFields(logrus.Fields{
			"cycle": cycle, "stage": "schedule", "tag": inst.Tag,
		}).Debug("instruction scheduled")
	}
}

// Broadcast clears, for each tag completed this cycle, any matching
// source-tag dependency in every unfired RS entry.
func Broadcast(s *core.Scheduler, tags []uint64) {
	if len(tags) == 0 {
		return
	}
	broadcastSet := make(map[uint64]struct{}, len(tags))
	for _, t := range tags {
		broadcastSet[t] = struct{}{}
	}

	for _, inst := range s.RS.All() {
		if inst.Fired {
			continue
		}
		if _, ok := broadcastSet[inst.SrcTag[0]]; ok {
			inst.SrcTag[0] = 0
		}
		if _, ok := broadcastSet[inst.SrcTag[1]]; ok {
			inst.SrcTag[1] = 0
		}
	}
}

// Retire evicts every RS entry that completed in a strictly earlier
// cycle, one cycle after its own state-update.
func Retire(s *core.Scheduler, cycle uint64) {
	for _, inst := range s.RS.RetireCompleted(cycle) {
		Log.WithFields(logrus.Fields{
			"cycle": cycle, "stage": "retire", "tag": inst.Tag,
		}).Debug("instruction retired")
	}
}

// DispatchRefill moves every fetch-buffered instruction into the
// dispatch queue, assigning a fresh tag, then updates the dispatch-queue
// occupancy statistics.
func DispatchRefill(s *core.Scheduler, cycle uint64) {
	for _, inst := range s.FetchBuf.Drain() {
		inst.DispatchCycle = cycle
		inst.Tag = s.NextTag()
		s.TotalInstructions++
		s.DispatchQ.Push(inst)
	}

	if size := s.DispatchQ.Len(); size > 0 {
		s.DispSizeSum += uint64(size)
		s.DispSampleCount++
		if size > s.MaxDispSize {
			s.MaxDispSize = size
		}
	}
}

// Fetch pulls up to fetchWidth records from src, if the trace is not
// already exhausted, and stages them in the fetch buffer with their
// lifecycle fields zeroed.
func Fetch(s *core.Scheduler, src trace.Source, cycle uint64, fetchWidth int) {
	if s.TraceDone || src == nil {
		return
	}

	for i := 0; i < fetchWidth; i++ {
		rec, ok := src.Next()
		if !ok {
			s.TraceDone = true
			return
		}

		inst := &core.Instruction{
			Address: rec.Address,
			OpCode:  rec.OpCode,
			SrcReg:  rec.Src,
			DestReg: rec.Dest,
		}
		inst.ResetLifecycle()
		inst.FetchCycle = cycle
		s.FetchBuf.Push(inst)
	}
}
