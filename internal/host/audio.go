package host

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	sampleRate    = 44100
	toneFrequency = 440
	toneVolume    = 0.2
)

// beeper plays a square wave tone while enabled.
type beeper struct {
	player *audio.Player
}

func newBeeper() (*beeper, error) {
	wave := squareWave(sampleRate, toneFrequency, toneVolume)
	loop := audio.NewInfiniteLoop(bytes.NewReader(wave), int64(len(wave)))

	player, err := audio.NewContext(sampleRate).NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	return &beeper{player: player}, nil
}

func (b *beeper) set(on bool) {
	switch {
	case on && !b.player.IsPlaying():
		b.player.Play()
	case !on && b.player.IsPlaying():
		b.player.Pause()
	}
}

// squareWave returns one period of a square wave as signed 16-bit little
// endian stereo samples.
func squareWave(rate, frequency int, volume float64) []byte {
	period := rate / frequency
	amplitude := int16(volume * 32767)
	buf := make([]byte, 4*period)

	for i := range period {
		sample := amplitude
		if i >= period/2 {
			sample = -amplitude
		}
		binary.LittleEndian.PutUint16(buf[4*i:], uint16(sample))
		binary.LittleEndian.PutUint16(buf[4*i+2:], uint16(sample))
	}
	return buf
}
