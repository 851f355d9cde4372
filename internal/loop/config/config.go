// Package config centralizes the frontend parameters: render resolution,
// frame timing, session limits. Gameplay tuning lives in internal/config.
package config

import "time"

// View resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)
)

// Max render resolution in terminal cells. Larger terminals get a centered,
// bordered play area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Minimum terminal sizes for the two camera facings. The environment view
// needs room for the full HUD; the compact view drops the side panels.
const (
	MinTermWidth      = 60
	MinTermHeight     = 20
	CompactTermWidth  = 40
	CompactTermHeight = 14
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxFrameDelta         = 100 * time.Millisecond // Clamp after stalls so the formation doesn't jump
)

// Camera steering
const (
	SteerRate = 1.2 // Radians per second while an arrow key is held
)

// HUD timings
const (
	PopupSeconds        = 0.9
	PopupRise           = 6.0 // Logical units a popup drifts upward over its life
	BannerSeconds       = 1.5
	LifeLostFlashSecond = 0.6
	RestartDelaySeconds = 1.0 // Ignore restart keys briefly after game over
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	LeaderboardSize   = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
