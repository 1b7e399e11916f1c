package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/fezlike/internal/config"
	"github.com/Faultbox/fezlike/internal/engine/audio"
	"github.com/Faultbox/fezlike/internal/engine/camera"
	"github.com/Faultbox/fezlike/internal/engine/debug"
	"github.com/Faultbox/fezlike/internal/engine/input"
	"github.com/Faultbox/fezlike/internal/engine/renderer"
	"github.com/Faultbox/fezlike/internal/engine/window"
	"github.com/Faultbox/fezlike/internal/level"
)

// maxFrameTime caps how much simulated time one slow frame may add.
const maxFrameTime = 250 * time.Millisecond

// Game is the windowed client.
type Game struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Manager
	camera   *camera.SideCamera
	session  *Session
	shots    *debug.Screenshots

	showHidden bool
	capture    bool
	pending    Input
}

// New loads the configured level and opens the window, GL and audio.
// Audio failures are logged and the game runs silent.
func New(cfg *config.Config, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}

	lvl, err := LoadLevel(cfg.Game.LevelFile)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:        cfg,
		log:        log,
		showHidden: cfg.Graphics.ShowHidden,
		input:      input.New(nil),
		shots:      debug.NewScreenshots(cfg.Graphics.Screenshots, "fezlike"),
		camera:     camera.NewSideCamera(cfg.Graphics.ViewCells * lvl.GridUnit),
	}
	g.session = NewSession(lvl, cfg.Game, log.Named("game"))

	// Create window (this also creates OpenGL context)
	g.window, err = window.New("fezlike - "+lvl.Name, cfg.Graphics, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := g.window.DrawableSize()
	g.renderer, err = renderer.New(w, h, log.Named("renderer"))
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.audio = audio.New(cfg.Audio, log.Named("audio"))
	if err := g.audio.Init(); err != nil {
		log.Warn("audio unavailable, continuing without sound", zap.Error(err))
	} else if cfg.Audio.MusicFile != "" {
		if err := g.audio.PlayMusic(cfg.Audio.MusicFile); err != nil {
			log.Warn("failed to start music", zap.String("path", cfg.Audio.MusicFile), zap.Error(err))
		}
	}

	snap := g.session.Snapshot()
	g.camera.Snap(snap.Player, g.session.Rotation())

	log.Info("game initialized", zap.String("level", lvl.Name))
	return g, nil
}

// LoadLevel loads path, or the built-in level when path is empty.
func LoadLevel(path string) (*level.Level, error) {
	if path == "" {
		return level.Builtin(), nil
	}
	lvl, err := level.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load level: %w", err)
	}
	return lvl, nil
}

// Run starts the main loop. The simulation advances in fixed ticks; render
// runs once per frame.
func (g *Game) Run() error {
	g.running = true

	tick := g.cfg.Game.TickDuration()
	dt := float32(tick.Seconds())

	lastTime := time.Now()
	var acc time.Duration
	frameCount := 0
	fpsTimer := lastTime

	g.log.Info("starting game loop", zap.Duration("tick", tick))

	for g.running {
		now := time.Now()
		frame := now.Sub(lastTime)
		lastTime = now
		if frame > maxFrameTime {
			frame = maxFrameTime
		}
		acc += frame

		g.handleInput(g.input.Poll())
		if !g.running {
			break
		}

		for acc >= tick {
			g.step(dt)
			acc -= tick
		}

		g.camera.Follow(g.session.Snapshot().Player, g.session.Rotation(), float32(frame.Seconds()))
		g.renderer.Draw(g.session.Frame(g.camera.ViewProjection(g.renderer.Aspect()), g.showHidden))
		if g.capture {
			g.screenshot()
		}
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			snap := g.session.Snapshot()
			g.window.SetTitle(fmt.Sprintf("fezlike - %s  %v depth %.0f  %d fps",
				g.session.Level().Name, snap.Facing, snap.Depth, frameCount))
			g.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleInput folds one frame of input into the pending tick input. Key
// presses stay pending until a tick consumes them so none are lost on
// frames that run no tick.
func (g *Game) handleInput(f input.Frame) {
	if f.Quit {
		g.running = false
		return
	}
	if f.Resized {
		w, h := g.window.DrawableSize()
		g.renderer.Resize(w, h)
	}
	if f.ToggleHidden {
		g.showHidden = !g.showHidden
	}
	g.capture = f.Screenshot
	g.pending.Horizontal = f.Horizontal
	g.pending.RotateLeft = g.pending.RotateLeft || f.RotateLeft
	g.pending.RotateRight = g.pending.RotateRight || f.RotateRight
	g.pending.Jump = g.pending.Jump || f.Jump
	g.pending.Respawn = g.pending.Respawn || f.Respawn
}

func (g *Game) step(dt float32) {
	ev := g.session.Step(g.pending, dt)
	g.pending = Input{Horizontal: g.pending.Horizontal}

	if ev.Jumped {
		g.audio.Play(audio.CueJump)
	}
	if ev.Rotated {
		g.audio.Play(audio.CueRotate)
	}
	if ev.Respawned {
		g.audio.Play(audio.CueRespawn)
		g.camera.Snap(g.session.Snapshot().Player, g.session.Rotation())
	}
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	name, err := g.shots.Save(pixels, w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", name))
}

// Close releases audio, GL and the window.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.audio != nil {
		g.audio.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
