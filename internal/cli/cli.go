// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <program to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	if opts.Trace {
		// trace output is logged at debug level
		opts.Debug = true
	}

	var errs []error
	if !validMode(opts.Mode) {
		errs = append(errs, fmt.Errorf("unsupported mode: %s. Valid options: %s",
			opts.Mode, strings.Join(options.Modes, ", ")))
	}
	if opts.InstructionsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("instructions per second must be positive, got %d", opts.InstructionsPerSecond))
	}
	if opts.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative, got %d", opts.Frames))
	}
	if opts.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %d", opts.Scale))
	}
	return errors.Join(errs...)
}

func validMode(mode string) bool {
	for _, valid := range options.Modes {
		if mode == valid {
			return true
		}
	}
	return false
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output file for the disassembly listing, printed on console if no name given")
	flags.StringVar(&opts.Mode, "mode", options.ModeWindow, "run mode (window/headless/disasm)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.IntVar(&opts.InstructionsPerSecond, "ips", 700, "instructions executed per second")
	flags.IntVar(&opts.Frames, "frames", 600, "frames to run in headless mode, 0 runs until the machine faults")
	flags.IntVar(&opts.Scale, "scale", 10, "window scale factor")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 picks a random seed")
	flags.BoolVar(&opts.Realtime, "realtime", false, "pace headless mode at 60 frames per second")
	flags.BoolVar(&opts.SkipUnknown, "skip-unknown", false, "skip unknown opcodes instead of halting the machine")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, enables -debug")
}
