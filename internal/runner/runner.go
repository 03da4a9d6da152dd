// Package runner handles running a program file in the selected mode.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrochip8/internal/screen"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// WindowFunc runs a loaded machine in a window until it is closed.
type WindowFunc func(ctx context.Context, logger *log.Logger, m *machine.Machine,
	sched *scheduler.Scheduler, scale int) error

// ProcessFile loads the program file of the options and runs it in the
// selected mode. Window mode hands the machine to the window function.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, window WindowFunc) error {
	image, err := loader.New(logger).Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	switch opts.Mode {
	case options.ModeDisasm:
		return WriteListing(image, opts, os.Stdout)

	case options.ModeHeadless:
		return RunHeadless(ctx, logger, image, opts, os.Stdout)

	default:
		return runWindow(ctx, logger, image, opts, window)
	}
}

// WriteListing writes the disassembly of the image to the output file of
// the options, or to stdout if none is set.
func WriteListing(image []byte, opts options.Program, stdout io.Writer) error {
	writer, colorize, err := createWriter(opts, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	if err := disasm.NewListing(colorize).Write(writer, image, machine.ProgramStart); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// RunHeadless runs the program for the configured number of frames without
// a window and renders the final display to stdout. The display is also
// rendered if the machine faulted, to show the state it halted in.
func RunHeadless(ctx context.Context, logger *log.Logger, image []byte, opts options.Program, stdout io.Writer) error {
	m := config.CreateMachine(logger, opts)
	if err := m.Load(image); err != nil {
		return fmt.Errorf("loading program into memory: %w", err)
	}
	sched := config.CreateScheduler(m, opts)

	logger.Info("Running program",
		log.String("file", opts.Input),
		log.Int("frames", opts.Frames),
		log.Int("instructions_per_frame", sched.StepsPerFrame()))

	runErr := sched.Run(ctx, opts.Frames, opts.Realtime, nil)
	if errors.Is(runErr, context.Canceled) {
		return runErr
	}

	renderer := screen.NewRenderer(stdout == os.Stdout && !color.NoColor)
	if err := renderer.Render(stdout, m.Display()); err != nil {
		return err
	}

	logger.Info("Program stopped",
		log.Int("cycles", int(m.Cycles())),
		log.Hex("pc", m.State().PC))

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

func runWindow(ctx context.Context, logger *log.Logger, image []byte, opts options.Program, window WindowFunc) error {
	m := config.CreateMachine(logger, opts)
	if err := m.Load(image); err != nil {
		return fmt.Errorf("loading program into memory: %w", err)
	}
	sched := config.CreateScheduler(m, opts)

	logger.Info("Running program",
		log.String("file", opts.Input),
		log.Int("instructions_per_frame", sched.StepsPerFrame()))

	if err := window(ctx, logger, m, sched, opts.Scale); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// createWriter returns the output writer and whether colored output
// should be used.
func createWriter(opts options.Program, stdout io.Writer) (io.Writer, bool, error) {
	if opts.Output == "" {
		return nopCloser{stdout}, stdout == os.Stdout && !color.NoColor, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, false, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, false, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}

// nopCloser wraps an io.Writer to keep stdout open after writing.
type nopCloser struct {
	io.Writer
}

func (nc nopCloser) Close() error {
	return nil
}
