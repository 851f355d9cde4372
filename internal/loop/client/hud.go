package client

import (
	"fmt"

	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
)

// popup is a floating score label in logical view coordinates.
type popup struct {
	text string
	x, y float64
	ttl  float64 // Seconds left on screen
}

// hud is the terminal Presenter. The engine pushes events into it during a
// tick; the screen code reads it when drawing.
type hud struct {
	score  int
	lives  int
	wave   int
	combo  int
	popups []popup

	banner      string
	bannerTimer float64
	flashTimer  float64 // Life lost flash

	notice      string // Messages from other players
	noticeTimer float64

	summary    loop.Summary
	over       bool // GameOver arrived and has not been consumed
	startupErr error
}

// Compile-time check that hud implements loop.Presenter.
var _ loop.Presenter = (*hud)(nil)

func (h *hud) Score(total int, p loop.Popup) {
	h.score = total
	if !p.OnScreen {
		return
	}
	text := fmt.Sprintf("+%d", p.Points)
	if p.Multiplier > 1 {
		text = fmt.Sprintf("+%d x%d", p.Points, p.Multiplier)
	}
	h.popups = append(h.popups, popup{text: text, x: p.X, y: p.Y, ttl: config.PopupSeconds})
}

func (h *hud) Wave(n int) {
	h.wave = n
	h.banner = fmt.Sprintf("WAVE %d", n)
	h.bannerTimer = config.BannerSeconds
}

func (h *hud) LifeLost(lives int) {
	h.lives = lives
	h.flashTimer = config.LifeLostFlashSecond
	h.popups = h.popups[:0]
}

func (h *hud) Combo(count int) {
	h.combo = count
}

func (h *hud) GameOver(summary loop.Summary) {
	h.summary = summary
	h.over = true
	h.popups = h.popups[:0]
	h.bannerTimer = 0
}

func (h *hud) StartupFailed(err error) {
	h.startupErr = err
}

// reset prepares the HUD for a new game.
func (h *hud) reset(lives int) {
	h.score = 0
	h.lives = lives
	h.combo = 0
	h.popups = h.popups[:0]
	h.flashTimer = 0
	h.over = false
	h.summary = loop.Summary{}
}

// consumeGameOver reports whether a game just ended, once.
func (h *hud) consumeGameOver() bool {
	over := h.over
	h.over = false
	return over
}

// setNotice shows a message at the bottom of the screen for a few seconds.
func (h *hud) setNotice(msg string, seconds float64) {
	h.notice = msg
	h.noticeTimer = seconds
}

// update ages timers and drifts popups upward.
func (h *hud) update(dt float64) {
	h.bannerTimer = max(0, h.bannerTimer-dt)
	h.flashTimer = max(0, h.flashTimer-dt)
	h.noticeTimer = max(0, h.noticeTimer-dt)

	kept := h.popups[:0]
	for _, p := range h.popups {
		p.ttl -= dt
		if p.ttl <= 0 {
			continue
		}
		p.y -= config.PopupRise * dt / config.PopupSeconds
		kept = append(kept, p)
	}
	h.popups = kept
}
