// Package scheduler drives a machine: it executes instructions at a fixed
// rate and ticks the timers at 60 Hz.
package scheduler

import (
	"context"
	"fmt"
	"time"
)

// FrameRate is the timer tick rate in Hz.
const FrameRate = 60

// Machine is the part of the virtual machine that the scheduler drives.
type Machine interface {
	Step() error
	TickTimers() bool
}

// FrameFunc is called after every frame with the tone state of the frame.
// Returning an error stops the scheduler.
type FrameFunc func(tone bool) error

// Scheduler executes frames consisting of a fixed number of instructions
// followed by one timer tick.
type Scheduler struct {
	machine       Machine
	stepsPerFrame int
	interval      time.Duration
}

// New returns a scheduler that executes instructionsPerSecond instructions,
// at least one per frame.
func New(machine Machine, instructionsPerSecond int) *Scheduler {
	steps := instructionsPerSecond / FrameRate
	if steps < 1 {
		steps = 1
	}
	return &Scheduler{
		machine:       machine,
		stepsPerFrame: steps,
		interval:      time.Second / FrameRate,
	}
}

// StepsPerFrame returns the number of instructions executed per frame.
func (s *Scheduler) StepsPerFrame() int {
	return s.stepsPerFrame
}

// Frame executes one frame and returns whether the tone is active.
func (s *Scheduler) Frame() (bool, error) {
	for range s.stepsPerFrame {
		if err := s.machine.Step(); err != nil {
			return false, err
		}
	}
	return s.machine.TickTimers(), nil
}

// Run executes frames until the context is cancelled, the machine faults or
// the given number of frames ran. A frame count of 0 runs without limit.
// If paced is set, frames are spaced by the 60 Hz frame interval, otherwise
// they run back to back.
func (s *Scheduler) Run(ctx context.Context, frames int, paced bool, onFrame FrameFunc) error {
	var ticks <-chan time.Time
	if paced {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for frame := 0; frames == 0 || frame < frames; frame++ {
		if ticks != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticks:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		tone, err := s.Frame()
		if err != nil {
			return fmt.Errorf("running frame %d: %w", frame, err)
		}
		if onFrame != nil {
			if err := onFrame(tone); err != nil {
				return err
			}
		}
	}
	return nil
}
