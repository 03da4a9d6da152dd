// Package host runs a machine in a window, mapping the keyboard to the
// hexadecimal keypad and playing a tone while the sound timer runs.
// The keyboard layout is defined by the keypad package.
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrochip8/internal/screen"
	"github.com/retroenv/retrogolib/log"
)

// newKeyMap maps the keypad keys 0-F to ebiten keys.
func newKeyMap() ([keypad.Size]ebiten.Key, error) {
	var keys [keypad.Size]ebiten.Key
	for key, name := range keypad.KeyNames() {
		if err := keys[key].UnmarshalText([]byte(name)); err != nil {
			return keys, fmt.Errorf("mapping keypad key %X: %w", key, err)
		}
	}
	return keys, nil
}

// Game implements ebiten.Game for a machine.
type Game struct {
	ctx       context.Context
	logger    *log.Logger
	machine   *machine.Machine
	scheduler *scheduler.Scheduler
	beeper    *beeper
	keys      [keypad.Size]ebiten.Key
	pixels    []byte
}

// Run opens a window and runs the machine until the window is closed,
// escape is pressed, the context is cancelled or the machine faults.
func Run(ctx context.Context, logger *log.Logger, m *machine.Machine, sched *scheduler.Scheduler, scale int) error {
	keys, err := newKeyMap()
	if err != nil {
		return err
	}

	beep, err := newBeeper()
	if err != nil {
		return fmt.Errorf("creating audio player: %w", err)
	}

	game := &Game{
		ctx:       ctx,
		logger:    logger,
		machine:   m,
		scheduler: sched,
		beeper:    beep,
		keys:      keys,
		pixels:    make([]byte, 4*machine.Width*machine.Height),
	}

	ebiten.SetWindowSize(machine.Width*scale, machine.Height*scale)
	ebiten.SetWindowTitle("retrochip8")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(scheduler.FrameRate)

	err = ebiten.RunGame(game)
	beep.set(false)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update runs one frame of the machine.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for key, keyboardKey := range g.keys {
		if err := g.machine.SetKey(uint8(key), ebiten.IsKeyPressed(keyboardKey)); err != nil {
			return err
		}
	}

	tone, err := g.scheduler.Frame()
	if err != nil {
		return fmt.Errorf("running frame: %w", err)
	}
	g.beeper.set(tone)
	return nil
}

// Draw copies the machine display to the screen.
func (g *Game) Draw(img *ebiten.Image) {
	if err := screen.RGBA(g.pixels, g.machine.Display(), screen.Foreground, screen.Background); err != nil {
		g.logger.Error("Rendering display failed", log.Err(err))
		return
	}
	img.WritePixels(g.pixels)
}

// Layout returns the native display resolution, ebiten scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return machine.Width, machine.Height
}
