package input_test

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/invaders/internal/input"
)

// collect feeds data through a stream and merges every frame's keys.
func collect(t *testing.T, data string) (input.Input, []byte) {
	t.Helper()
	s := input.StartStream(bufio.NewReader(strings.NewReader(data)))
	time.Sleep(20 * time.Millisecond) // let the reader goroutine deliver everything

	var merged input.Input
	var raw []byte
	require.Eventually(t, func() bool {
		in := input.ReadInput(s)
		raw = append(raw, in.Pressed...)
		merged.Quit = merged.Quit || in.Quit
		merged.Left = merged.Left || in.Left
		merged.Right = merged.Right || in.Right
		merged.Up = merged.Up || in.Up
		merged.Down = merged.Down || in.Down
		merged.Fire = merged.Fire || in.Fire
		merged.Enter = merged.Enter || in.Enter
		merged.Escape = merged.Escape || in.Escape
		merged.Retry = merged.Retry || in.Retry
		merged.Center = merged.Center || in.Center
		merged.Closed = in.Closed
		return in.Closed
	}, time.Second, time.Millisecond)
	return merged, raw
}

func TestReadInputKeys(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		check func(input.Input) bool
	}{
		{name: "space fires", data: " ", check: func(in input.Input) bool { return in.Fire }},
		{name: "enter", data: "\r", check: func(in input.Input) bool { return in.Enter }},
		{name: "quit", data: "q", check: func(in input.Input) bool { return in.Quit }},
		{name: "ctrl-c quits", data: "\x03", check: func(in input.Input) bool { return in.Quit }},
		{name: "retry", data: "r", check: func(in input.Input) bool { return in.Retry }},
		{name: "center", data: "c", check: func(in input.Input) bool { return in.Center }},
		{name: "arrow up", data: "\x1b[A", check: func(in input.Input) bool { return in.Up && !in.Escape }},
		{name: "arrow down", data: "\x1b[B", check: func(in input.Input) bool { return in.Down }},
		{name: "arrow right", data: "\x1b[C", check: func(in input.Input) bool { return in.Right }},
		{name: "arrow left", data: "\x1b[D", check: func(in input.Input) bool { return in.Left }},
		{name: "wasd", data: "wasd", check: func(in input.Input) bool { return in.Up && in.Left && in.Down && in.Right }},
		{name: "bare escape", data: "\x1b", check: func(in input.Input) bool { return in.Escape }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, raw := collect(t, tt.data)
			assert.True(t, tt.check(in))
			assert.True(t, in.Closed)
			assert.Equal(t, tt.data, string(raw))
		})
	}
}

func TestReadInputUnknownBytes(t *testing.T) {
	in, raw := collect(t, "xyz")
	assert.False(t, in.Fire || in.Quit || in.Left || in.Right || in.Up || in.Down)
	assert.Equal(t, "xyz", string(raw))
}

func TestResetKeyInput(t *testing.T) {
	s := input.StartStream(bufio.NewReader(strings.NewReader(" ")))

	var fired bool
	require.Eventually(t, func() bool {
		in := input.ReadInput(s)
		fired = fired || in.Fire
		return in.Closed
	}, time.Second, time.Millisecond)
	require.True(t, fired)

	input.ResetKeyInput(s)
	assert.False(t, input.ReadInput(s).Fire)
}
