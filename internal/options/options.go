// Package options contains the program options.
package options

// Run modes of the program.
const (
	ModeWindow   = "window"
	ModeHeadless = "headless"
	ModeDisasm   = "disasm"
)

// Modes lists all supported run modes.
var Modes = []string{ModeWindow, ModeHeadless, ModeDisasm}

// Parameters contains file path options.
type Parameters struct {
	Input  string `arg:"positional" usage:"program image to run"`
	Output string `flag:"o" usage:"output file for the disassembly listing (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	Mode  string `flag:"mode" usage:"run mode: window, headless, disasm" default:"window"`
	Debug bool   `flag:"debug" usage:"enable debug logging"`
	Quiet bool   `flag:"q" usage:"quiet mode"`
}

// EmulationFlags contains options controlling the machine and its scheduling.
type EmulationFlags struct {
	InstructionsPerSecond int    `flag:"ips" usage:"instructions executed per second" default:"700"`
	Frames                int    `flag:"frames" usage:"frames to run in headless mode, 0 runs until a fault" default:"600"`
	Scale                 int    `flag:"scale" usage:"window scale factor" default:"10"`
	Seed                  uint64 `flag:"seed" usage:"random seed, 0 picks a random one"`
	Realtime              bool   `flag:"realtime" usage:"pace headless mode at 60 frames per second"`
	SkipUnknown           bool   `flag:"skip-unknown" usage:"skip unknown opcodes instead of halting"`
	Trace                 bool   `flag:"trace" usage:"log every executed instruction, enables -debug"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	EmulationFlags
}

// Machine defines options to control the virtual machine core.
type Machine struct {
	Seed               uint64 // seed of the random source, 0 picks a random seed
	SkipUnknownOpcodes bool   // log and skip unknown opcodes instead of halting
	Trace              bool   // log every executed instruction at debug level
}

// NewMachine returns the machine options derived from the program options.
func NewMachine(opts Program) Machine {
	return Machine{
		Seed:               opts.Seed,
		SkipUnknownOpcodes: opts.SkipUnknown,
		Trace:              opts.Trace,
	}
}
