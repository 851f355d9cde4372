package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Figlet "small" font.
var (
	titleArt = []string{
		` ___ _  ___   ___   ___  ___ ___  ___ `,
		`|_ _| \| \ \ / /_\ |   \| __| _ \/ __|`,
		` | || .' |\ V / _ \| |) | _||   /\__ \`,
		`|___|_|\_| \_/_/ \_\___/|___|_|_\|___/`,
	}
	gameOverArt = []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	if c.state.GameState == GameStatePlaying || c.state.GameState == GameStateOver {
		ctx := object.DrawContext{
			Canvas: c.canvas,
			Writer: c.chunkWriter,
			Camera: c.state.Camera,
			View:   c.state.View,
		}
		if err := c.scene.Draw(ctx); err != nil {
			return err
		}
		for _, p := range c.engine.Cannon().Projectiles() {
			if err := p.Draw(ctx); err != nil {
				return err
			}
		}
		if c.state.GameState == GameStatePlaying {
			c.drawCrosshair()
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawCrosshair marks the aim point at the view center.
func (c *Client) drawCrosshair() {
	cx := float64(c.state.View.CenterX)
	cy := float64(c.state.View.CenterY)
	c.canvas.DrawLine(draw.Point{X: cx - 4, Y: cy}, draw.Point{X: cx - 2, Y: cy})
	c.canvas.DrawLine(draw.Point{X: cx + 2, Y: cy}, draw.Point{X: cx + 4, Y: cy})
	c.canvas.DrawLine(draw.Point{X: cx, Y: cy - 4}, draw.Point{X: cx, Y: cy - 2})
	c.canvas.DrawLine(draw.Point{X: cx, Y: cy + 2}, draw.Point{X: cx, Y: cy + 4})
}

// drawUI draws the UI overlay for the current screen.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateOver:
		c.drawGameOverScreen(centerX, centerY)
	case GameStateError:
		c.drawErrorScreen(termWidth, centerX, centerY)
	}
	c.drawNotice(centerX, termHeight)
}

// writeTransient writes text that disappears later; its cells are repainted
// by the canvas on the next frame.
func (c *Client) writeTransient(col, row int, color, s string) {
	n := len([]rune(s))
	if row < 1 || row > c.canvas.TerminalHeight() || col < 1 || col+n-1 > c.canvas.TerminalWidth() {
		return
	}
	c.chunkWriter.WriteAt(col, row, draw.Colorize(color, s))
	c.canvas.MarkTextDirty(col, row, n)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.chunkWriter.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.chunkWriter.WriteCentered(centerX, centerY, msg)
	c.chunkWriter.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen with controls and the leaderboard.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleStartY := centerY - 9
	for i, line := range titleArt {
		c.chunkWriter.WriteCenteredColor(centerX, titleStartY+i, draw.ColorBrightMagenta, line)
	}

	c.chunkWriter.WriteCentered(centerX, titleStartY+len(titleArt)+1, "~ Hold the line against the formation ~")

	controlsY := titleStartY + len(titleArt) + 3
	c.chunkWriter.WriteCentered(centerX, controlsY, "Controls")
	controlLines := []string{
		"Arrows / WASD . . .  Aim",
		"SPACE . . . . . . . Fire",
		"C . . . . . . . . Center",
		"ESC . . . . . . .  Title",
		"Q . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.chunkWriter.WriteCentered(centerX, controlsY+1+i, line)
	}

	// Blinking start prompt
	promptY := controlsY + len(controlLines) + 2
	if time.Now().UnixMilli()/600%2 == 0 {
		c.chunkWriter.WriteCentered(centerX, promptY, ">>  Press SPACE to Start  <<")
	} else {
		c.chunkWriter.WriteCentered(centerX, promptY, strings.Repeat(" ", 28))
	}

	c.drawLeaderboard(centerX, promptY+2)
}

// drawLeaderboard lists the best finished games on this server.
func (c *Client) drawLeaderboard(centerX, startY int) {
	scores := c.server.TopScores()
	players := fmt.Sprintf("Players online: %d", c.server.Players())
	if len(scores) == 0 {
		c.chunkWriter.WriteCentered(centerX, startY, players)
		return
	}

	c.chunkWriter.WriteCentered(centerX, startY, "High Scores")
	for i, e := range scores {
		line := fmt.Sprintf("%d. %-*s %7d  wave %d", i+1, config.MaxUsernameLength, e.Username, e.Score, e.Wave)
		c.chunkWriter.WriteCentered(centerX, startY+1+i, line)
	}
	c.chunkWriter.WriteCentered(centerX, startY+len(scores)+2, players)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	cw := c.chunkWriter
	h := c.hud
	maxMultiplier := c.engine.Tuning().Game.MaxMultiplier
	multiplier := min(max(h.combo, 1), maxMultiplier)

	if c.camera.Compact() {
		line := fmt.Sprintf("S:%-7d L:%d W:%-3d x%d", h.score, h.lives, h.wave, multiplier)
		cw.WriteAt(1, 1, line)
	} else {
		cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", h.score))

		waveText := fmt.Sprintf("Wave %-3d", h.wave)
		cw.WriteAt(termWidth/2-len(waveText)/2, 1, waveText)

		lives := strings.Repeat("♥", h.lives) + strings.Repeat("·", max(0, c.engine.Tuning().Game.MaxLives-h.lives))
		livesText := "Lives: " + lives
		cw.WriteAt(termWidth-len([]rune(livesText))-1, 1, draw.Colorize(draw.ColorRed, livesText))

		comboText := fmt.Sprintf("Combo x%d ", multiplier)
		cw.WriteAt(2, termHeight, comboText+draw.Colorize(draw.ColorYellow, draw.Meter(h.combo, maxMultiplier, 10)))

		aliens := fmt.Sprintf("Aliens: %-3d", c.engine.Stats().Live)
		cw.WriteAt(termWidth-len(aliens)-1, termHeight, aliens)
	}

	// Score popups float above the aliens they came from
	for _, p := range h.popups {
		col, row := c.canvas.LogicalToTerminal(p.x, p.y)
		c.writeTransient(col-len(p.text)/2, row, draw.ColorBrightYellow, p.text)
	}

	centerX := termWidth / 2
	if h.bannerTimer > 0 {
		c.writeTransient(centerX-len(h.banner)/2, 3, draw.ColorBrightCyan, h.banner)
	}
	if h.flashTimer > 0 {
		msg := fmt.Sprintf("THE LINE WAS BREACHED - %d LEFT", h.lives)
		c.writeTransient(centerX-len(msg)/2, termHeight/2+3, draw.ColorRed, msg)
	}
}

// drawNotice shows messages from other players at the bottom of the screen.
func (c *Client) drawNotice(centerX, termHeight int) {
	if c.hud.noticeTimer <= 0 {
		return
	}
	row := termHeight - 1
	if c.state.GameState != GameStatePlaying {
		row = termHeight
	}
	c.writeTransient(centerX-len([]rune(c.hud.notice))/2, row, draw.ColorGreen, c.hud.notice)
}

// drawGameOverScreen draws the summary of the finished game.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	titleStartY := centerY - 6
	for i, line := range gameOverArt {
		c.chunkWriter.WriteCenteredColor(centerX, titleStartY+i, draw.ColorRed, line)
	}

	s := c.hud.summary
	infoY := titleStartY + len(gameOverArt) + 1
	c.chunkWriter.WriteCentered(centerX, infoY, fmt.Sprintf("Score: %d", s.Score))
	c.chunkWriter.WriteCentered(centerX, infoY+1, fmt.Sprintf("Reached wave %d with %d kills", s.Wave, s.Kills))
	if c.state.Rank > 0 {
		c.chunkWriter.WriteCenteredColor(centerX, infoY+3, draw.ColorBrightYellow, fmt.Sprintf("New high score! Rank #%d", c.state.Rank))
	}

	promptY := infoY + 5
	if c.state.restartDelay > 0 {
		c.chunkWriter.WriteCentered(centerX, promptY, strings.Repeat(" ", 40))
		return
	}
	if time.Now().UnixMilli()/600%2 == 0 {
		c.chunkWriter.WriteCentered(centerX, promptY, ">>  Press SPACE to play again, ESC for title  <<")
	} else {
		c.chunkWriter.WriteCentered(centerX, promptY, strings.Repeat(" ", 48))
	}
}

// drawErrorScreen explains why the camera could not be opened.
func (c *Client) drawErrorScreen(termWidth, centerX, centerY int) {
	c.chunkWriter.WriteCenteredColor(centerX, centerY-4, draw.ColorRed, "CAMERA UNAVAILABLE")

	var lines []string
	if err := c.hud.startupErr; err != nil {
		lines = strings.Split(err.Error(), "\n")
	}
	for i, line := range lines {
		if maxLen := termWidth - 4; maxLen > 0 && len(line) > maxLen {
			line = line[:maxLen]
		}
		c.chunkWriter.WriteCentered(centerX, centerY-2+i, line)
	}

	hintY := centerY + len(lines)
	c.chunkWriter.WriteCentered(centerX, hintY, "Resize your terminal, then press R to retry")
	c.chunkWriter.WriteCentered(centerX, hintY+1, "Press Q to quit")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.chunkWriter.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.chunkWriter.WriteCentered(centerX, centerY-1, "The arcade is restarting for maintenance.")
	c.chunkWriter.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.chunkWriter.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.chunkWriter.WriteCentered(centerX, centerY+4, "Press Q to disconnect now")
}
