package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	gameconfig "github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

var (
	backgroundColor = color.RGBA{8, 8, 20, 255}
	crosshairColor  = color.RGBA{255, 255, 255, 160}
	shotColor       = color.RGBA{255, 240, 120, 255}
)

// Game adapts the engine to ebiten's Update/Draw cycle.
type Game struct {
	engine *loop.Engine
	scene  *object.Scene
	camera *object.Camera
	hud    *presenter
	view   object.Screen
	log    *log.Logger
}

func newGame(tuning *gameconfig.Tuning, sink loop.AudioSink, logger *log.Logger) (*Game, error) {
	g := &Game{
		scene:  object.NewScene(nil),
		camera: object.NewCamera(),
		hud:    &presenter{},
		view:   object.NewScreen(screenWidth, screenHeight),
		log:    logger,
	}
	engine, err := loop.NewEngine(loop.Options{
		Tuning:    tuning,
		Assets:    g.scene,
		Presenter: g.hud,
		Audio:     sink,
		Projector: loop.ProjectorFunc(g.project),
		Logger:    logger.WithPrefix("engine"),
	})
	if err != nil {
		return nil, err
	}
	g.engine = engine
	return g, nil
}

func (g *Game) boot(ctx context.Context) error {
	return g.engine.Boot(ctx, loop.StaticCamera(g.camera))
}

func (g *Game) project(p physics.Vec3) (float64, float64, bool) {
	x, y, _, ok := g.camera.Project(p, g.view)
	if !ok || x < 0 || y < 0 || x >= float64(g.view.Width) || y >= float64(g.view.Height) {
		return 0, 0, false
	}
	return x, y, true
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())
	g.scene.Update(dt)
	g.hud.update(dt.Seconds())

	switch g.engine.Phase() {
	case loop.PhaseIdle, loop.PhaseGameOver:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.camera.Reset()
			g.hud.reset()
			if err := g.engine.Start(); err != nil {
				g.log.Error("cannot start game", "err", err)
			}
		}
	case loop.PhasePlaying:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.engine.Stop()
			return nil
		}
		g.steer(dt)
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			g.camera.Reset()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.engine.Fire()
		}
		g.engine.Tick(dt)
	}
	return nil
}

func (g *Game) steer(dt time.Duration) {
	step := config.SteerRate * dt.Seconds()
	var yaw, pitch float64
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		yaw -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		yaw += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		pitch += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		pitch -= step
	}
	g.camera.Steer(yaw, pitch)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	phase := g.engine.Phase()
	if phase != loop.PhaseIdle {
		g.drawSprites(screen)
		g.drawParticles(screen)
		g.drawProjectiles(screen)
	}
	if phase == loop.PhasePlaying {
		cx, cy := float32(g.view.CenterX), float32(g.view.CenterY)
		vector.StrokeLine(screen, cx-10, cy, cx+10, cy, 1, crosshairColor, true)
		vector.StrokeLine(screen, cx, cy-10, cx, cy+10, 1, crosshairColor, true)
	}
	g.drawHUD(screen, phase)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func (g *Game) drawSprites(screen *ebiten.Image) {
	for _, s := range g.scene.Sprites() {
		if !s.Visible() {
			continue
		}
		x, y, depth, ok := g.camera.Project(s.Pos, g.view)
		if !ok {
			continue
		}
		r := g.camera.ProjectSize(s.Scale, depth, g.view)
		clr := rgba(s.Tier.Color(), 255)

		shape := object.TierShape(s.Tier)
		sin, cos := math.Sincos(s.Rotation)
		for i, p := range shape {
			q := shape[(i+1)%len(shape)]
			x0 := x + (p.X*cos-p.Y*sin)*r
			y0 := y + (p.X*sin+p.Y*cos)*r
			x1 := x + (q.X*cos-q.Y*sin)*r
			y1 := y + (q.X*sin+q.Y*cos)*r
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, clr, true)
		}
	}
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	for _, p := range g.scene.Particles() {
		x, y, _, ok := g.camera.Project(p.Pos, g.view)
		if !ok {
			continue
		}
		alpha := uint8(255)
		if p.MaxLifetime > 0 {
			alpha = uint8(255 * max(0, min(1, p.Lifetime/p.MaxLifetime)))
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), 2, rgba(p.Tint, alpha), true)
	}
}

func (g *Game) drawProjectiles(screen *ebiten.Image) {
	for _, p := range g.engine.Cannon().Projectiles() {
		if !p.Active() {
			continue
		}
		x, y, _, ok := g.camera.Project(p.Pos, g.view)
		if !ok {
			continue
		}
		tx, ty, _, ok := g.camera.Project(p.Pos.Sub(p.Dir.Scale(0.6)), g.view)
		if !ok {
			tx, ty = x, y
		}
		vector.StrokeLine(screen, float32(tx), float32(ty), float32(x), float32(y), 2, shotColor, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, phase loop.Phase) {
	switch phase {
	case loop.PhaseIdle:
		ebitenutil.DebugPrintAt(screen, "INVADERS", g.view.CenterX-24, g.view.CenterY-40)
		ebitenutil.DebugPrintAt(screen, "Enter: start   Arrows/WASD: aim   Space: fire   C: center   Esc: quit",
			g.view.CenterX-210, g.view.CenterY)
		if g.hud.startupErr != nil {
			ebitenutil.DebugPrintAt(screen, g.hud.startupErr.Error(), 8, g.view.Height-24)
		}
		return
	case loop.PhaseGameOver:
		s := g.hud.summary
		ebitenutil.DebugPrintAt(screen, "GAME OVER", g.view.CenterX-27, g.view.CenterY-40)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score %d   Wave %d   Kills %d", s.Score, s.Wave, s.Kills),
			g.view.CenterX-90, g.view.CenterY-20)
		ebitenutil.DebugPrintAt(screen, "Enter: play again   Esc: quit", g.view.CenterX-87, g.view.CenterY)
	}

	stats := g.engine.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d  Wave %d  Lives %d  Combo x%d  Aliens: %d",
		stats.Score, stats.Wave, stats.Lives, stats.Multiplier, stats.Live), 8, 8)

	for _, p := range g.hud.popups {
		ebitenutil.DebugPrintAt(screen, p.text, int(p.x), int(p.y))
	}
	if g.hud.bannerTimer > 0 {
		ebitenutil.DebugPrintAt(screen, g.hud.banner, g.view.CenterX-21, g.view.CenterY/2)
	}
	if g.hud.flashTimer > 0 {
		ebitenutil.DebugPrintAt(screen, "LIFE LOST", g.view.CenterX-27, g.view.CenterY/2+16)
	}
}

func rgba(c object.Color, alpha uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}
