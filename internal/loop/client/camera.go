package client

import (
	"context"
	"fmt"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// TerminalCamera is the CameraSource for terminal clients. The environment
// facing opens the full view; the user facing falls back to a compact view
// for small terminals. Either fails when the terminal is too small to play.
type TerminalCamera struct {
	camera   *object.Camera
	sizeFunc draw.TermSizeFunc
	facing   loop.Facing
	opened   bool
}

// Compile-time check that TerminalCamera implements loop.CameraSource.
var _ loop.CameraSource = (*TerminalCamera)(nil)

// NewTerminalCamera creates a camera source for cam. A nil sizeFunc uses the
// process terminal.
func NewTerminalCamera(cam *object.Camera, sizeFunc draw.TermSizeFunc) *TerminalCamera {
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}
	return &TerminalCamera{camera: cam, sizeFunc: sizeFunc}
}

// Open implements loop.CameraSource.
func (tc *TerminalCamera) Open(ctx context.Context, facing loop.Facing) (object.Viewpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width, height, err := tc.sizeFunc()
	if err != nil {
		return nil, fmt.Errorf("%s view: terminal size: %w", facing, err)
	}

	minWidth, minHeight := config.MinTermWidth, config.MinTermHeight
	if facing == loop.FacingUser {
		minWidth, minHeight = config.CompactTermWidth, config.CompactTermHeight
	}
	if width < minWidth || height < minHeight {
		return nil, fmt.Errorf("%s view needs %dx%d, terminal is %dx%d", facing, minWidth, minHeight, width, height)
	}

	tc.camera.Reset()
	tc.facing = facing
	tc.opened = true
	return tc.camera, nil
}

// Compact reports whether the fallback view was opened.
func (tc *TerminalCamera) Compact() bool {
	return tc.opened && tc.facing == loop.FacingUser
}
