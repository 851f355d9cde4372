// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, so steering stays smooth while a key is held.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Fire    bool
	Enter   bool
	Escape  bool
	Retry   bool
	Center  bool   // Re-aim the camera at the formation
	Closed  bool   // The underlying reader is gone
	Pressed []byte // Raw bytes received this frame
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	up     time.Time
	down   time.Time
	fire   time.Time
	enter  time.Time
	escape time.Time
	retry  time.Time
	center time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	closed  bool
	buf     []byte
	carry   []byte // Partial escape sequence held back from the previous frame
	carried bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// The returned Pressed slice is reused by the next call.
func ReadInput(s *Stream) Input {
	now := time.Now()
	s.buf = append(s.buf[:0], s.carry...)
	s.carry = s.carry[:0]

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}

	buf := s.buf
	// An arrow key split across reads would otherwise register as Escape.
	// Hold a trailing partial sequence back, but for one frame only.
	if n := partialCSI(buf); n > 0 && !s.closed && !s.carried {
		s.carry = append(s.carry, buf[len(buf)-n:]...)
		buf = buf[:len(buf)-n]
		s.carried = true
	} else {
		s.carried = false
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
				i += 2
				continue
			case 'B':
				s.state.down = now
				i += 2
				continue
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	return Input{
		Quit:    held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Up:      held(s.state.up),
		Down:    held(s.state.down),
		Fire:    held(s.state.fire),
		Enter:   held(s.state.enter),
		Escape:  held(s.state.escape),
		Retry:   held(s.state.retry),
		Center:  held(s.state.center),
		Closed:  s.closed,
		Pressed: buf,
	}
}

// partialCSI returns the length of an unfinished "ESC [" sequence at the end of buf.
func partialCSI(buf []byte) int {
	n := len(buf)
	switch {
	case n >= 1 && buf[n-1] == '\x1b':
		return 1
	case n >= 2 && buf[n-2] == '\x1b' && buf[n-1] == '[':
		return 2
	}
	return 0
}

// ResetKeyInput forgets every held key, so a key that started a game does
// not also act inside it.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ', 'f', 'F':
		state.fire = now
	case '\n', '\r':
		state.enter = now
	case 'r', 'R':
		state.retry = now
	case 'c', 'C':
		state.center = now
	case '\x1b':
		state.escape = now
	}
}
