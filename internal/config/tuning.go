package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Reversal policies for the formation sweep.
const (
	PolicyBoundary = "boundary" // reverse when live aliens cross ±Boundary
	PolicyCycle    = "cycle"    // reverse after HorizontalLimit units of travel
)

// FormationTuning holds the alien grid layout and kinematics.
type FormationTuning struct {
	Rows     int     `yaml:"rows"`
	Cols     int     `yaml:"cols"`
	SpacingX float64 `yaml:"spacingX"`
	SpacingY float64 `yaml:"spacingY"`
	OriginX  float64 `yaml:"originX"` // Layout origin (grid center) in world space
	OriginY  float64 `yaml:"originY"`
	OriginZ  float64 `yaml:"originZ"`
	Scale    float64 `yaml:"scale"` // Visual scale passed to the asset provider

	BaseSpeed      float64 `yaml:"baseSpeed"`      // Units per second on wave 1
	WaveSpeedStep  float64 `yaml:"waveSpeedStep"`  // Added to the difficulty multiplier per wave
	SpeedRamp      float64 `yaml:"speedRamp"`      // Multiplier applied on every reversal
	KillSpeedBoost float64 `yaml:"killSpeedBoost"` // Extra speed fraction once every alien is dead
	DropDistance   float64 `yaml:"dropDistance"`

	Policy          string  `yaml:"policy"`
	Boundary        float64 `yaml:"boundary"`        // Boundary policy: |x| limit for live extents
	GroundY         float64 `yaml:"groundY"`         // Boundary policy: lowest allowed alien Y
	HorizontalLimit float64 `yaml:"horizontalLimit"` // Cycle policy: travel per sweep
	MaxDescents     int     `yaml:"maxDescents"`     // Cycle policy: descents before grounding

	WobbleFrequency float64 `yaml:"wobbleFrequency"` // Radians per second
	WobbleRotation  float64 `yaml:"wobbleRotation"`  // Peak rotation in radians
	WobbleBob       float64 `yaml:"wobbleBob"`       // Peak vertical bob in units
}

// CannonTuning holds projectile parameters.
type CannonTuning struct {
	Cooldown       time.Duration `yaml:"cooldown"`
	Speed          float64       `yaml:"speed"`
	Lifetime       time.Duration `yaml:"lifetime"`
	HitRadius      float64       `yaml:"hitRadius"`
	MuzzleOffset   float64       `yaml:"muzzleOffset"`
	MaxProjectiles int           `yaml:"maxProjectiles"`
}

// GameTuning holds scoring and progression parameters.
type GameTuning struct {
	MaxLives      int           `yaml:"maxLives"`
	ComboTimeout  time.Duration `yaml:"comboTimeout"`
	MaxMultiplier int           `yaml:"maxMultiplier"`
	WaveDelay     time.Duration `yaml:"waveDelay"`
}

// Tuning is the complete set of gameplay parameters.
//
// Configuration file: any YAML file named by INVADERS_TUNING. Missing keys keep
// their DefaultTuning values.
type Tuning struct {
	Formation FormationTuning `yaml:"formation"`
	Cannon    CannonTuning    `yaml:"cannon"`
	Game      GameTuning      `yaml:"game"`
}

// DefaultTuning returns the classic 5x11 arrangement and arcade timings.
func DefaultTuning() Tuning {
	return Tuning{
		Formation: FormationTuning{
			Rows:     5,
			Cols:     11,
			SpacingX: 1.5,
			SpacingY: 1.2,
			OriginX:  0,
			OriginY:  4,
			OriginZ:  -14,
			Scale:    0.5,

			BaseSpeed:      1.5,
			WaveSpeedStep:  0.15,
			SpeedRamp:      1.02,
			KillSpeedBoost: 2.0,
			DropDistance:   0.6,

			Policy:          PolicyBoundary,
			Boundary:        10,
			GroundY:         -3,
			HorizontalLimit: 4,
			MaxDescents:     10,

			WobbleFrequency: 3,
			WobbleRotation:  0.12,
			WobbleBob:       0.08,
		},
		Cannon: CannonTuning{
			Cooldown:       200 * time.Millisecond,
			Speed:          30,
			Lifetime:       2 * time.Second,
			HitRadius:      0.8,
			MuzzleOffset:   0.5,
			MaxProjectiles: 32,
		},
		Game: GameTuning{
			MaxLives:      3,
			ComboTimeout:  2 * time.Second,
			MaxMultiplier: 5,
			WaveDelay:     1500 * time.Millisecond,
		},
	}
}

// Validate checks that the tuning describes a playable game.
func (t Tuning) Validate() error {
	var errs []error
	f := t.Formation
	if f.Rows <= 0 || f.Cols <= 0 {
		errs = append(errs, fmt.Errorf("formation grid must be at least 1x1, got %dx%d", f.Rows, f.Cols))
	}
	if f.BaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("formation baseSpeed must be positive, got %v", f.BaseSpeed))
	}
	if f.SpeedRamp < 1 {
		errs = append(errs, fmt.Errorf("formation speedRamp must be >= 1, got %v", f.SpeedRamp))
	}
	if f.WaveSpeedStep < 0 || f.KillSpeedBoost < 0 || f.DropDistance < 0 {
		errs = append(errs, errors.New("formation waveSpeedStep, killSpeedBoost and dropDistance must not be negative"))
	}
	switch f.Policy {
	case PolicyBoundary:
		if f.Boundary <= 0 {
			errs = append(errs, fmt.Errorf("formation boundary must be positive, got %v", f.Boundary))
		}
	case PolicyCycle:
		if f.HorizontalLimit <= 0 || f.MaxDescents <= 0 {
			errs = append(errs, errors.New("formation horizontalLimit and maxDescents must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown formation policy %q", f.Policy))
	}

	c := t.Cannon
	if c.Cooldown < 0 || c.Lifetime <= 0 || c.Speed <= 0 || c.HitRadius <= 0 {
		errs = append(errs, errors.New("cannon cooldown must be >= 0 and lifetime, speed, hitRadius positive"))
	}
	if c.MaxProjectiles <= 0 {
		errs = append(errs, fmt.Errorf("cannon maxProjectiles must be positive, got %d", c.MaxProjectiles))
	}

	g := t.Game
	if g.MaxLives <= 0 {
		errs = append(errs, fmt.Errorf("game maxLives must be positive, got %d", g.MaxLives))
	}
	if g.MaxMultiplier <= 0 || g.ComboTimeout <= 0 || g.WaveDelay < 0 {
		errs = append(errs, errors.New("game maxMultiplier and comboTimeout must be positive, waveDelay >= 0"))
	}
	return errors.Join(errs...)
}

// LoadTuning reads a YAML tuning file over the defaults.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes YAML over DefaultTuning and validates the result.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// TuningFromEnv loads the file named by INVADERS_TUNING, or the defaults when unset.
func TuningFromEnv() (Tuning, error) {
	path := GetEnv("INVADERS_TUNING", "")
	if path == "" {
		return DefaultTuning(), nil
	}
	return LoadTuning(path)
}
