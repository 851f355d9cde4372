package main

import (
	"fmt"

	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
)

type popup struct {
	text string
	x, y float64
	ttl  float64
}

// presenter keeps the transient HUD state of the window frontend.
type presenter struct {
	popups      []popup
	banner      string
	bannerTimer float64
	flashTimer  float64
	summary     loop.Summary
	startupErr  error
}

var _ loop.Presenter = (*presenter)(nil)

func (p *presenter) Score(_ int, pop loop.Popup) {
	if !pop.OnScreen {
		return
	}
	text := fmt.Sprintf("+%d", pop.Points)
	if pop.Multiplier > 1 {
		text = fmt.Sprintf("+%d x%d", pop.Points, pop.Multiplier)
	}
	p.popups = append(p.popups, popup{text: text, x: pop.X, y: pop.Y, ttl: config.PopupSeconds})
}

func (p *presenter) Wave(n int) {
	p.banner = fmt.Sprintf("WAVE %d", n)
	p.bannerTimer = config.BannerSeconds
}

func (p *presenter) LifeLost(int) {
	p.popups = p.popups[:0]
	p.flashTimer = config.LifeLostFlashSecond
}

func (p *presenter) Combo(int) {}

func (p *presenter) GameOver(s loop.Summary) {
	p.summary = s
}

func (p *presenter) StartupFailed(err error) {
	p.startupErr = err
}

func (p *presenter) reset() {
	p.popups = p.popups[:0]
	p.bannerTimer = 0
	p.flashTimer = 0
	p.summary = loop.Summary{}
}

// update ages the timers; popups drift upward in screen pixels.
func (p *presenter) update(dt float64) {
	p.bannerTimer = max(0, p.bannerTimer-dt)
	p.flashTimer = max(0, p.flashTimer-dt)

	kept := p.popups[:0]
	for _, pop := range p.popups {
		pop.ttl -= dt
		if pop.ttl <= 0 {
			continue
		}
		pop.y -= config.PopupRise * 4 * dt
		kept = append(kept, pop)
	}
	p.popups = kept
}
