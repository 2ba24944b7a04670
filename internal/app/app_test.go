package app

import (
	"image"
	"testing"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/internal/feed"
	"github.com/Faultbox/phone-teardown/internal/material"
	"github.com/Faultbox/phone-teardown/internal/scene"
	"github.com/Faultbox/phone-teardown/internal/stage"
)

func TestDragClick(t *testing.T) {
	var d drag
	d.press(10, 10)
	if _, _, ok := d.move(12, 11); ok {
		t.Error("expected small motion to stay a click")
	}
	if !d.release() {
		t.Error("expected release without drag to be a click")
	}
	if d.release() {
		t.Error("expected second release to be ignored")
	}
}

func TestDragOrbit(t *testing.T) {
	var d drag
	d.press(10, 10)
	dx, dy, ok := d.move(20, 10)
	if !ok || dx != 10 || dy != 0 {
		t.Errorf("expected drag delta (10, 0), got (%d, %d) ok=%v", dx, dy, ok)
	}
	dx, dy, ok = d.move(21, 13)
	if !ok || dx != 1 || dy != 3 {
		t.Errorf("expected drag delta (1, 3), got (%d, %d) ok=%v", dx, dy, ok)
	}
	if d.release() {
		t.Error("expected a drag not to count as a click")
	}
	if _, _, ok := d.move(30, 30); ok {
		t.Error("expected no drag without a press")
	}
}

func testStage(t *testing.T) *stage.Stage {
	t.Helper()
	root := scene.NewNode("Phone")
	root.Add(scene.NewMesh("Body", scene.Quad(1, 1), material.Default()))
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	s, err := stage.New(root, stage.Textures{Display: texture.New("d", img)}, stage.DefaultConfig())
	if err != nil {
		t.Fatalf("stage.New: %v", err)
	}
	return s
}

func TestApplyMessagesInOrder(t *testing.T) {
	s := testStage(t)
	msgs := [][]byte{
		explode.EncodeProgressMessage(0.2),
		[]byte(`garbage`),
		explode.EncodeProgressMessage(0.7),
	}
	applyMessages(s, nil, msgs)
	if got := s.Progress().Global; got != 0.7 {
		t.Errorf("expected last message to win with 0.7, got %v", got)
	}
}

func TestApplyMessagesSyncsWheel(t *testing.T) {
	s := testStage(t)
	inbox := feed.NewInbox()
	w := feed.NewWheel(feed.WheelConfig{Step: 0.1}, inbox)

	w.Scroll(2)
	w.Update(0.016)
	applyMessages(s, w, inbox.Drain(nil))
	if w.Target() != w.Posted() {
		t.Errorf("own message must not resync the wheel, target %v posted %v", w.Target(), w.Posted())
	}

	applyMessages(s, w, [][]byte{explode.EncodeProgressMessage(0.9)})
	if w.Value() != 0.9 || w.Target() != 0.9 {
		t.Errorf("expected wheel synced to 0.9, got value %v target %v", w.Value(), w.Target())
	}

	applyMessages(s, w, [][]byte{explode.EncodeProgressMessage(4)})
	if w.Value() != 1 {
		t.Errorf("expected wheel synced to clamped 1, got %v", w.Value())
	}
}
