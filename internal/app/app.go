// Package app runs the viewer: it owns the window, renderer, progress feed
// and stage, and drives them from one frame loop on the main thread.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/phone-teardown/internal/assets"
	"github.com/Faultbox/phone-teardown/internal/config"
	"github.com/Faultbox/phone-teardown/internal/engine/capture"
	"github.com/Faultbox/phone-teardown/internal/engine/input"
	"github.com/Faultbox/phone-teardown/internal/engine/renderer"
	"github.com/Faultbox/phone-teardown/internal/engine/window"
	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/internal/feed"
	"github.com/Faultbox/phone-teardown/internal/logger"
	"github.com/Faultbox/phone-teardown/internal/stage"
)

// App is the main viewer instance.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	assets *assets.Manager
	stage  *stage.Stage

	inbox   *feed.Inbox
	server  *feed.Server
	wheel   *feed.Wheel
	pending [][]byte

	shots       *capture.Screenshots
	shotPending bool

	drag          drag
	panelExploded bool
}

// New creates the window and GL context, loads the model and composes the
// stage. Nothing is left open on error.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Named("app"),
		inbox: feed.NewInbox(),
		shots: capture.NewScreenshots(cfg.Window.Screenshots, "teardown"),
	}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}
	a.log.Info("viewer initialized successfully")
	return a, nil
}

func (a *App) init() error {
	cfg := a.cfg
	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		MSAA:       cfg.Window.MSAA,
	}, logger.Named("window"))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer comes AFTER window, since the OpenGL context must exist
	dw, dh := a.window.GetDrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		ClearColor: [4]float32{0.06, 0.06, 0.07, 1},
		MSAA:       cfg.Window.MSAA > 0,
	}, logger.Named("renderer"))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()

	if err := a.loadStage(); err != nil {
		return err
	}
	ww, wh := a.window.GetSize()
	a.stage.SetViewport(ww, wh)
	a.stage.OnSelect(a.onSelect)

	if cfg.Feed.Wheel.Enabled {
		a.wheel = feed.NewWheel(feed.WheelConfig{
			Step:      cfg.Feed.Wheel.Step,
			Smoothing: cfg.Feed.Wheel.Smoothing,
		}, a.inbox)
	}
	if cfg.Feed.Listen != "" {
		a.server = feed.NewServer(feed.Config{
			Listen:         cfg.Feed.Listen,
			Path:           cfg.Feed.Path,
			WriteTimeout:   cfg.Feed.WriteTimeout,
			AllowedOrigins: cfg.Feed.AllowedOrigins,
		}, a.inbox, logger.Named("feed"))
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("failed to start progress feed: %w", err)
		}
	}
	return nil
}

// loadStage reads the model and textures and composes the stage. Missing
// textures are tolerated; a missing model is not.
func (a *App) loadStage() error {
	a.assets = assets.NewManager(logger.Named("assets"))
	if err := a.assets.AddRoot(a.cfg.Assets.Root); err != nil {
		return err
	}

	model, err := a.assets.Model(a.cfg.Assets.Model)
	if err != nil {
		return err
	}

	var tex stage.Textures
	if tex.Display, err = a.assets.Texture(a.cfg.Assets.Display); err != nil {
		a.log.Warn("display texture unavailable", zap.String("path", a.cfg.Assets.Display), zap.Error(err))
	}
	if tex.Internals, err = a.assets.Texture(a.cfg.Assets.Internals); err != nil {
		a.log.Warn("internals texture unavailable", zap.String("path", a.cfg.Assets.Internals), zap.Error(err))
	}

	scfg, err := stage.ConfigFrom(a.cfg, logger.Named("stage"))
	if err != nil {
		return err
	}
	a.stage, err = stage.New(model, tex, scfg)
	if err != nil {
		return fmt.Errorf("composing stage: %w", err)
	}
	return nil
}

func (a *App) onSelect(l explode.Layer) {
	a.log.Info("layer selected", zap.Stringer("layer", l))
	if a.server != nil {
		a.server.Broadcast(explode.EncodeSelectMessage(l))
	}
}

// Close cleans up viewer resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.server != nil {
		if err := a.server.Close(); err != nil {
			a.log.Warn("closing progress feed", zap.Error(err))
		}
		a.server = nil
	}
	if a.assets != nil {
		a.assets.Close()
		a.assets = nil
	}
	if a.renderer != nil {
		a.renderer.Close()
		a.renderer = nil
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}
