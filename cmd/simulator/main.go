package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/jasonKoogler/ooo-sched-sim/internal/config"
	"github.com/jasonKoogler/ooo-sched-sim/internal/simulator"
	"github.com/jasonKoogler/ooo-sched-sim/internal/trace"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "Path to the configuration file")
	tracePath := flag.String("trace", "", "Path to the instruction trace (default: stdin)")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	format := flag.String("format", "text", "Statistics output format: text or yaml")
	flag.Parse()

	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if parsed, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	} else {
		logger.Warnf("unrecognized log level %q, defaulting to info", level)
		logger.SetLevel(logrus.InfoLevel)
	}

	path := cfg.TracePath
	if *tracePath != "" {
		path = *tracePath
	}

	reader, closeTrace, err := trace.Open(path)
	if err != nil {
		logger.Fatalf("failed to open trace: %v", err)
	}
	defer closeTrace()

	logger.Info("Tomasulo scheduler simulator")
	logger.WithFields(logrus.Fields{
		"result_buses": cfg.ResultBuses,
		"fu_type0":     cfg.FUType0,
		"fu_type1":     cfg.FUType1,
		"fu_type2":     cfg.FUType2,
		"fetch_width":  cfg.FetchWidth,
		"rs_capacity":  cfg.RSCapacity(),
		"trace":        path,
	}).Info("configuration loaded")

	sim, err := simulator.New(cfg, reader)
	if err != nil {
		logger.Fatalf("failed to initialize simulator: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	statsChan := make(chan simulator.Statistics, 1)
	go func() {
		statsChan <- sim.Run()
	}()

	var stats simulator.Statistics
	select {
	case stats = <-statsChan:
	case <-sigChan:
		logger.Warn("received termination signal, stopping at next cycle boundary")
		sim.Stop()
		stats = <-statsChan
	}

	if err := reader.Err(); err != nil {
		logger.Errorf("trace reader reported an error: %v", err)
	}

	if err := printStatistics(stats, *format); err != nil {
		logger.Fatalf("failed to render statistics: %v", err)
	}
}

func printStatistics(stats simulator.Statistics, format string) error {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(stats)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		fmt.Println("\nSimulation Statistics:")
		fmt.Printf("	Run ID: %s\n", stats.RunID)
		fmt.Printf("	Total Cycles: %d\n", stats.CycleCount)
		fmt.Printf("	Retired Instructions: %d\n", stats.RetiredInstructions)
		fmt.Printf("	Avg. Instructions Fired/Cycle: %.3f\n", stats.AvgInstFired)
		fmt.Printf("	Avg. Instructions Retired/Cycle: %.3f\n", stats.AvgInstRetired)
		fmt.Printf("	Max Dispatch-Queue Size: %d\n", stats.MaxDispSize)
		fmt.Printf("	Avg. Dispatch-Queue Size: %.3f\n", stats.AvgDispSize)
	}
	return nil
}
