package audio

import (
	"io"
	"sync"

	"github.com/tomz197/invaders/internal/loop"
)

// Nop discards every cue.
type Nop struct{}

// Play implements loop.AudioSink.
func (Nop) Play(loop.Cue) {}

// Bell rings the terminal bell for the cues worth interrupting a remote
// player for. Used where no local speaker exists, e.g. SSH sessions.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play implements loop.AudioSink.
func (b *Bell) Play(cue loop.Cue) {
	switch cue {
	case loop.CueHit, loop.CueGameOver:
	default:
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, "\a")
}

// Compile-time checks that the sinks implement loop.AudioSink.
var (
	_ loop.AudioSink = Nop{}
	_ loop.AudioSink = (*Bell)(nil)
)
