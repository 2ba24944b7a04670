package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/phone-teardown/internal/engine/input"
	"github.com/Faultbox/phone-teardown/internal/engine/renderer"
	"github.com/Faultbox/phone-teardown/internal/engine/window"
	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/internal/feed"
	"github.com/Faultbox/phone-teardown/internal/stage"
)

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		// 2. Local producer, then every queued message in arrival order
		if a.wheel != nil {
			a.wheel.Update(dt)
		}
		a.pending = a.inbox.Drain(a.pending[:0])
		applyMessages(a.stage, a.wheel, a.pending)

		// 3. Animate
		a.stage.Frame()
		a.syncChrome()

		// 4. Render and present
		if err := a.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if a.shotPending {
			a.shotPending = false
			a.saveScreenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("progress", a.stage.Progress().Global),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// applyMessages feeds msgs to st in order. When a message other than the
// wheel's own moves progress, the wheel resynchronizes so scrolling
// continues from there.
func applyMessages(st *stage.Stage, wheel *feed.Wheel, msgs [][]byte) {
	for _, msg := range msgs {
		if !st.HandleMessage(msg) || wheel == nil {
			continue
		}
		if g := st.Progress().Global; g != wheel.Posted() {
			wheel.Sync(g)
		}
	}
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		a.renderer.Resize(a.window.GetDrawableSize())
		a.stage.SetViewport(event.Width, event.Height)

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			a.running = false
		case sdl.SCANCODE_HOME:
			a.resetProgress(0)
		case sdl.SCANCODE_END:
			a.resetProgress(1)
		case sdl.SCANCODE_F12:
			a.shotPending = true
		}

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_LEFT {
			a.drag.press(event.MouseX, event.MouseY)
		}

	case input.EventMouseMove:
		if dx, dy, ok := a.drag.move(event.MouseX, event.MouseY); ok {
			a.stage.Camera().HandleDrag(float32(dx), float32(dy))
		}
		a.stage.PointerMove(float32(event.MouseX), float32(event.MouseY))

	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_LEFT && a.drag.release() {
			a.stage.PointerClick(float32(event.MouseX), float32(event.MouseY))
		}

	case input.EventMouseLeave:
		a.drag.release()
		a.stage.PointerExit()

	case input.EventMouseWheel:
		if a.wheel != nil {
			a.wheel.Scroll(event.WheelY)
		} else {
			a.stage.Camera().HandleZoom(event.WheelY)
		}
	}
}

// resetProgress jumps straight to v through the same path as the feed.
func (a *App) resetProgress(v float32) {
	if a.wheel != nil {
		a.wheel.Sync(v)
	}
	a.inbox.Post(explode.EncodeProgressMessage(v))
}

// syncChrome mirrors interaction state onto the window.
func (a *App) syncChrome() {
	if a.stage.Cursor() == explode.CursorPointer {
		a.window.SetCursor(window.CursorHand)
	} else {
		a.window.SetCursor(window.CursorArrow)
	}

	if p := a.stage.PanelExploded(); p != a.panelExploded {
		a.panelExploded = p
		title := a.cfg.Window.Title
		if p {
			title += " (exploded)"
		}
		a.window.SetTitle(title)
		a.log.Debug("panel state changed", zap.Bool("exploded", p))
	}
}

func (a *App) render() error {
	cam := a.stage.Camera()
	a.renderer.Begin()
	a.renderer.Render(a.stage.Root(), renderer.View{
		ViewProj: a.stage.ViewProj(),
		Position: cam.Position().Array(),
	}, a.stage.Lighting())
	a.renderer.End()
	return nil
}

// saveScreenshot reads back the frame just rendered, before the swap.
func (a *App) saveScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.shots.Save(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", name))
}
