// Package simulator wires the scheduler core to a trace source and
// configuration, runs it cycle by cycle to completion, and produces the
// aggregate Statistics record.
package simulator

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jasonKoogler/ooo-sched-sim/internal/config"
	"github.com/jasonKoogler/ooo-sched-sim/internal/core"
	"github.com/jasonKoogler/ooo-sched-sim/internal/pipeline"
	"github.com/jasonKoogler/ooo-sched-sim/internal/trace"
)

// MaxCycles is the fail-safe bound: the simulation terminates
// unconditionally once the cycle counter exceeds this value.
const MaxCycles = 1_000_000

// Statistics is the aggregate record produced by a completed run.
type Statistics struct {
	RunID               string  `yaml:"runId"`
	RetiredInstructions uint64  `yaml:"retiredInstruction"`
	CycleCount          uint64  `yaml:"cycleCount"`
	AvgInstFired        float64 `yaml:"avgInstFired"`
	AvgInstRetired      float64 `yaml:"avgInstRetired"`
	MaxDispSize         int     `yaml:"maxDispSize"`
	AvgDispSize         float64 `yaml:"avgDispSize"`
}

// Simulator owns one scheduler core, its trace source, and its
// configuration. Exactly one goroutine is ever expected to call Run; the
// core itself is not safe for concurrent use.
type Simulator struct {
	cfg       *config.Config
	scheduler *core.Scheduler
	src       trace.Source
	runID     uuid.UUID
	stopped   atomic.Bool
}

// New builds a Simulator from cfg and src. cfg is validated by the
// caller (config.LoadConfig already does this); New re-derives FU/RS
// sizing from it.
func New(cfg *config.Config, src trace.Source) (*Simulator, error) {
	if cfg == nil {
		return nil, errors.New("simulator: nil configuration")
	}
	if src == nil {
		return nil, errors.New("simulator: nil trace source")
	}

	return &Simulator{
		cfg:       cfg,
		scheduler: core.NewScheduler(cfg.FUType0, cfg.FUType1, cfg.FUType2),
		src:       src,
		runID:     uuid.New(),
	}, nil
}

// Stop requests that Run return at the next cycle boundary. Safe to call
// from a different goroutine than Run (e.g. a signal handler) — it only
// ever sets a flag the cycle loop polls between cycles, so the scheduler
// core itself is never touched concurrently.
func (s *Simulator) Stop() {
	s.stopped.Store(true)
}

// Run advances the scheduler one cycle at a time until the trace is
// exhausted with an empty dispatch queue and reservation station, the
// MaxCycles safety cap is exceeded, or Stop is called. It returns the
// final Statistics.
func (s *Simulator) Run() Statistics {
	log := logrus.WithField("run_id", s.runID)
	log.Info("simulation started")

	for !s.scheduler.Done() && !s.stopped.Load() {
		pipeline.RunCycle(s.scheduler, s.src, s.cfg.FetchWidth, s.cfg.ResultBuses)
		if s.scheduler.Cycle > MaxCycles {
			log.Warn("max cycle count exceeded, aborting run")
			break
		}
	}

	stats := s.statistics()
	log.WithFields(logrus.Fields{
		"cycles":  stats.CycleCount,
		"retired": stats.RetiredInstructions,
	}).Info("simulation finished")

	return stats
}

func (s *Simulator) statistics() Statistics {
	sch := s.scheduler

	var avgFired, avgRetired float64
	if sch.Cycle > 0 {
		avgFired = float64(sch.TotalFired) / float64(sch.Cycle)
		avgRetired = float64(sch.TotalInstructions) / float64(sch.Cycle)
	}

	var avgDisp float64
	if sch.DispSampleCount > 0 {
		avgDisp = float64(sch.DispSizeSum) / float64(sch.DispSampleCount)
	}

	return Statistics{
		RunID:               s.runID.String(),
		RetiredInstructions: sch.TotalInstructions,
		CycleCount:          sch.Cycle,
		AvgInstFired:        avgFired,
		AvgInstRetired:      avgRetired,
		MaxDispSize:         sch.MaxDispSize,
		AvgDispSize:         avgDisp,
	}
}
