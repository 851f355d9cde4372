// Package audio plays the engine's sound cues: procedurally synthesized
// effects through the system speaker, a terminal bell for remote sessions,
// or nothing at all.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/invaders/internal/loop"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager mixes cue effects into a single speaker stream.
// Play is a no-op until Initialize succeeds.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// Compile-time check that SoundManager implements loop.AudioSink.
var _ loop.AudioSink = (*SoundManager)(nil)

// NewSoundManager creates a sound manager. Call Initialize before use.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. Safe to call more than once.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything still playing.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// Play implements loop.AudioSink. Unknown cues are ignored.
func (sm *SoundManager) Play(cue loop.Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := CueStreamer(cue, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
