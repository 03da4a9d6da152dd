// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachine creates a machine configured by the program options.
func CreateMachine(logger *log.Logger, opts options.Program) *machine.Machine {
	return machine.New(logger, options.NewMachine(opts))
}

// CreateScheduler creates a scheduler for the machine running at the
// configured instruction rate.
func CreateScheduler(m scheduler.Machine, opts options.Program) *scheduler.Scheduler {
	return scheduler.New(m, opts.InstructionsPerSecond)
}
