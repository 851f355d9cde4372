package loop

import (
	"context"
	"errors"

	"github.com/tomz197/invaders/internal/object"
)

// ErrStartup is wrapped by every error Boot returns.
var ErrStartup = errors.New("startup failed")

// ErrNotBooted is returned by Start before a successful Boot.
var ErrNotBooted = errors.New("engine not booted")

// Facing selects which viewpoint a CameraSource should open.
type Facing int

const (
	FacingEnvironment Facing = iota // Primary: looks out at the world
	FacingUser                      // Fallback: looks back at the player
)

func (f Facing) String() string {
	if f == FacingUser {
		return "user"
	}
	return "environment"
}

// CameraSource opens the viewpoint shots are fired from.
type CameraSource interface {
	Open(ctx context.Context, facing Facing) (object.Viewpoint, error)
}

// CameraSourceFunc adapts a function to CameraSource.
type CameraSourceFunc func(ctx context.Context, facing Facing) (object.Viewpoint, error)

// Open implements CameraSource.
func (f CameraSourceFunc) Open(ctx context.Context, facing Facing) (object.Viewpoint, error) {
	return f(ctx, facing)
}

// StaticCamera is a CameraSource that always opens the same viewpoint.
func StaticCamera(v object.Viewpoint) CameraSource {
	return CameraSourceFunc(func(ctx context.Context, _ Facing) (object.Viewpoint, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return v, nil
	})
}
