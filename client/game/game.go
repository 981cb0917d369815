package game

import (
	"fmt"
	"image/color"

	"github.com/cbodonnell/stride/client/input"
	pkggame "github.com/cbodonnell/stride/pkg/game"
	"github.com/cbodonnell/stride/pkg/kinematic"
	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/cbodonnell/stride/pkg/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	DefaultScreenWidth  = 640
	DefaultScreenHeight = 480

	// pixelsPerUnit is the map scale.
	pixelsPerUnit = 12
	// facingLength is the length of the facing indicator in world units.
	facingLength = 1.5
)

var (
	backgroundColor = color.RGBA{0x1e, 0x1e, 0x24, 0xff}
	floorColor      = color.RGBA{0x3a, 0x3f, 0x4b, 0xff}
	wallColor       = color.RGBA{0x8a, 0x8f, 0x9b, 0xff}
	lowBoxColor     = color.RGBA{0x5b, 0x8c, 0x5a, 0xff}
	overheadColor   = color.RGBA{0xc0, 0x8a, 0x3e, 0x80}
	playerColor     = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	crouchColor     = color.RGBA{0x6c, 0xb4, 0xee, 0xff}
	facingColor     = color.RGBA{0xe0, 0x4f, 0x5f, 0xff}
)

type GameMode int

const (
	GameModePlay GameMode = iota
	GameModePaused
)

func (m GameMode) String() string {
	switch m {
	case GameModePlay:
		return "Play"
	case GameModePaused:
		return "Paused"
	}
	return "Unknown"
}

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	mode  GameMode

	gameManager *pkggame.GameManager
	player      *pkggame.Character
	sampler     *input.Sampler

	// world is the offscreen map image.
	world     *ebiten.Image
	// pauseMenu is drawn over the map in GameModePaused.
	pauseMenu *ebitenui.UI
	quit      bool
}

type NewGameOptions struct {
	Debug       bool
	GameManager *pkggame.GameManager
	Player      *pkggame.Character
	Sampler     *input.Sampler
}

func NewGame(opts NewGameOptions) (ebiten.Game, error) {
	if opts.GameManager == nil || opts.Player == nil || opts.Sampler == nil {
		return nil, fmt.Errorf("game manager, player and sampler are required")
	}

	level := opts.GameManager.Level()
	g := &Game{
		debug:       opts.Debug,
		gameManager: opts.GameManager,
		player:      opts.Player,
		sampler:     opts.Sampler,
		world:       ebiten.NewImage(level.Width*pixelsPerUnit, level.Depth*pixelsPerUnit),
	}
	g.pauseMenu = newPauseMenu(pauseMenuOptions{
		OnResume: func() { g.setMode(GameModePlay) },
		OnQuit:   func() { g.quit = true },
	})
	g.setMode(GameModePlay)

	return g, nil
}

func (g *Game) setMode(mode GameMode) {
	switch mode {
	case GameModePlay:
		g.sampler.Activate()
		g.player.SetMoveEnabled(true)
	case GameModePaused:
		g.sampler.Deactivate()
		g.player.SetMoveEnabled(false)
	}
	log.Debug("Game mode changed to %s", mode)
	g.mode = mode
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return fmt.Errorf("failed to handle input: %v", err)
	}
	if g.mode == GameModePaused {
		g.pauseMenu.Update()
	}
	if g.quit {
		log.Info("Quit requested")
		return ebiten.Termination
	}

	g.gameManager.Tick(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) handleInput() error {
	if input.IsDebugJustPressed() {
		g.debug = !g.debug
	}

	switch g.mode {
	case GameModePlay:
		if input.IsNegativeJustPressed() {
			g.setMode(GameModePaused)
		}
	case GameModePaused:
		if input.IsNegativeJustPressed() || input.IsPositiveJustPressed() {
			g.setMode(GameModePlay)
		}
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.drawLevel()
	for _, c := range g.gameManager.Characters() {
		g.drawCharacter(c)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(
		float64(screen.Bounds().Dx()-g.world.Bounds().Dx())/2,
		float64(screen.Bounds().Dy()-g.world.Bounds().Dy())/2,
	)
	screen.DrawImage(g.world, op)

	g.drawHUD(screen)
	if g.mode == GameModePaused {
		g.pauseMenu.Draw(screen)
	}
	if g.debug {
		g.drawDebugOverlay(screen)
	}
}

// toScreen maps a ground-plane point to map pixels. +Z points up the screen.
func (g *Game) toScreen(x, z float64) (float32, float32) {
	return float32(x * pixelsPerUnit), float32(g.world.Bounds().Dy()) - float32(z*pixelsPerUnit)
}

func (g *Game) drawLevel() {
	g.world.Fill(floorColor)

	player := g.player.Body().Bounds()
	for _, box := range g.gameManager.Level().Boxes() {
		clr := lowBoxColor
		switch {
		case box.Min.Y() > player.Min.Y():
			clr = overheadColor
		case box.Max.Y() >= player.Max.Y():
			clr = wallColor
		}
		x, y := g.toScreen(box.Min.X(), box.Max.Z())
		size := box.Size()
		vector.DrawFilledRect(g.world, x, y, float32(size.X()*pixelsPerUnit), float32(size.Z()*pixelsPerUnit), clr, false)
	}
}

func (g *Game) drawCharacter(c *pkggame.Character) {
	state := c.State()
	bounds := c.Body().Bounds()
	radius := float32((bounds.Max.X() - bounds.Min.X()) / 2 * pixelsPerUnit)

	clr := playerColor
	if state.Stance == locomotion.StanceCrouching || state.Transitioning {
		clr = crouchColor
	}
	cx, cy := g.toScreen(state.Position.X(), state.Position.Z())
	vector.DrawFilledCircle(g.world, cx, cy, radius, clr, true)

	forward, _ := kinematic.Basis(c.Body().Rotation)
	tip := state.Position.Add(forward.Mul(facingLength))
	tx, ty := g.toScreen(tip.X(), tip.Z())
	vector.StrokeLine(g.world, cx, cy, tx, ty, 2, facingColor, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	state := g.player.State()
	hud := fmt.Sprintf("%s  stance: %s  grounded: %t  speed: %0.2f",
		g.mode, state.Stance, state.Grounded, kinematic.Horizontal(state.Velocity).Len())
	if g.mode == GameModePaused {
		hud += "\nEsc or Enter to resume"
	}
	ebitenutil.DebugPrintAt(screen, hud, 8, screen.Bounds().Dy()-32)
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	state := g.player.State()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n   FPS: %0.1f", ebiten.ActualFPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n   TPS: %0.1f", ebiten.ActualTPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n   Position: %0.2f, %0.2f, %0.2f", state.Position.X(), state.Position.Y(), state.Position.Z()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n   Velocity: %0.2f, %0.2f, %0.2f", state.Velocity.X(), state.Velocity.Y(), state.Velocity.Z()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n\n   Heading: %0.1f  Pitch: %0.1f", state.Heading, state.Pitch))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n\n\n   Collider: %0.2f @ %0.2f", state.Collider.Height, state.Collider.Center.Y()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n\n\n\n   Ticks: %d", g.gameManager.Ticks()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return DefaultScreenWidth, DefaultScreenHeight
}
