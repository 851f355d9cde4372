package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/tomz197/invaders/internal/loop"
)

// Waveform shapes for ToneGenerator.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveNoise
)

// ToneGenerator synthesizes a tone that glides from start to end Hz over its
// duration and decays exponentially.
type ToneGenerator struct {
	sr     beep.SampleRate
	start  float64
	end    float64
	wave   Waveform
	volume float64
	decay  float64 // Envelope decay rate per second
	pos    int
	total  int
	phase  float64
	seed   uint32
}

// NewToneGenerator creates a generator that streams exactly duration worth of samples.
func NewToneGenerator(sr beep.SampleRate, start, end float64, duration time.Duration, wave Waveform, volume, decay float64) *ToneGenerator {
	return &ToneGenerator{
		sr:     sr,
		start:  start,
		end:    end,
		wave:   wave,
		volume: volume,
		decay:  decay,
		total:  sr.N(duration),
		seed:   0x2545f491,
	}
}

// Stream implements beep.Streamer.
func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		progress := float64(g.pos) / float64(g.total)
		t := float64(g.pos) / float64(g.sr)
		freq := g.start + (g.end-g.start)*progress
		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)

		var v float64
		switch g.wave {
		case WaveSquare:
			v = 1
			if g.phase >= 0.5 {
				v = -1
			}
		case WaveNoise:
			// xorshift keeps the output deterministic
			g.seed ^= g.seed << 13
			g.seed ^= g.seed >> 17
			g.seed ^= g.seed << 5
			v = float64(g.seed)/math.MaxUint32*2 - 1
		default:
			v = math.Sin(2 * math.Pi * g.phase)
		}

		// Short attack avoids clicks
		attack := math.Min(t/0.005, 1)
		sample := g.volume * attack * math.Exp(-t*g.decay) * v
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *ToneGenerator) Err() error {
	return nil
}

// CueStreamer returns a finite effect for cue, or nil for unknown cues.
func CueStreamer(cue loop.Cue, sr beep.SampleRate) beep.Streamer {
	switch cue {
	case loop.CueShoot:
		return NewToneGenerator(sr, 1100, 320, 90*time.Millisecond, WaveSquare, 0.12, 12)
	case loop.CueExplosion:
		return beep.Mix(
			NewToneGenerator(sr, 0, 0, 280*time.Millisecond, WaveNoise, 0.25, 9),
			NewToneGenerator(sr, 140, 60, 280*time.Millisecond, WaveSine, 0.3, 7),
		)
	case loop.CueHit:
		return NewToneGenerator(sr, 180, 70, 400*time.Millisecond, WaveSquare, 0.2, 4)
	case loop.CueWaveComplete:
		return beep.Seq(
			NewToneGenerator(sr, 523, 523, 90*time.Millisecond, WaveSine, 0.25, 3),
			NewToneGenerator(sr, 659, 659, 90*time.Millisecond, WaveSine, 0.25, 3),
			NewToneGenerator(sr, 784, 784, 160*time.Millisecond, WaveSine, 0.25, 3),
		)
	case loop.CueGameOver:
		return beep.Seq(
			NewToneGenerator(sr, 392, 392, 220*time.Millisecond, WaveSquare, 0.15, 2),
			NewToneGenerator(sr, 311, 311, 220*time.Millisecond, WaveSquare, 0.15, 2),
			NewToneGenerator(sr, 262, 180, 500*time.Millisecond, WaveSquare, 0.15, 2),
		)
	}
	return nil
}
