package source

import (
	"testing"

	"depthlife/internal/render"
)

func feedLayer(w, h int) (*Layer, *Feed) {
	f := NewFeed(w, h)
	return &Layer{Producer: f, Fit: FitFill, Blend: render.BlendNormal, Opacity: 1}, f
}

func TestAddMakesNewLayerPrimary(t *testing.T) {
	s := NewStack()
	a, _ := feedLayer(100, 100)
	b, _ := feedLayer(200, 100)
	s.Add(a)
	s.Add(b)
	if s.Primary() != b {
		t.Fatal("newest layer should be primary")
	}
}

func TestRemovePrimaryPromotesNext(t *testing.T) {
	s := NewStack()
	a, _ := feedLayer(100, 100)
	b, _ := feedLayer(200, 100)
	c, _ := feedLayer(300, 100)
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.MakePrimary(1)

	s.Remove(1)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if s.Primary() != c {
		t.Fatal("removal should promote the next layer in stack order")
	}
}

func TestPruneDeadRemovesClosedFeeds(t *testing.T) {
	s := NewStack()
	a, fa := feedLayer(100, 100)
	b, _ := feedLayer(200, 100)
	s.Add(a)
	s.Add(b)
	s.MakePrimary(0)

	fa.Close()
	if !s.PruneDead() {
		t.Fatal("prune should report a change")
	}
	if s.Len() != 1 || s.Primary() != b {
		t.Fatalf("len=%d primary=%v", s.Len(), s.Primary())
	}
	if s.PruneDead() {
		t.Fatal("second prune should be a no-op")
	}
}

func TestMoveKeepsPrimaryLayer(t *testing.T) {
	s := NewStack()
	a, _ := feedLayer(100, 100)
	b, _ := feedLayer(200, 100)
	c, _ := feedLayer(300, 100)
	s.Add(a)
	s.Add(b)
	s.Add(c) // c is primary
	s.Move(2, 0)
	if s.Primary() != c {
		t.Fatal("moving the primary layer must keep it primary")
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	s := NewStack()
	a, _ := feedLayer(100, 100)
	s.Add(a)
	snap := s.Snapshot()
	s.Remove(0)
	if len(snap) != 1 || snap[0] != a {
		t.Fatal("snapshot must survive stack mutation")
	}
}

func TestParseLayerSpec(t *testing.T) {
	l, err := ParseLayer("checker:w=32,h=16,cell=4,fit=tile,blend=screen,opacity=0.75,mirror=1,anim=fade,cycle=8,speed=2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if l.Fit != FitTile || l.Blend != render.BlendScreen || !l.Mirror {
		t.Fatalf("layer options = %+v", l)
	}
	if l.Opacity != 0.75 {
		t.Fatalf("opacity = %v", l.Opacity)
	}
	if l.Anim == nil || l.Anim.Kind != AnimFade || l.Anim.CycleBeats != 8 || l.Anim.Speed != 2 {
		t.Fatalf("anim = %+v", l.Anim)
	}
	if w, h := l.Producer.NativeSize(); w != 32 || h != 16 {
		t.Fatalf("native size = %dx%d", w, h)
	}
}

func TestParseLayerRejectsUnknownKind(t *testing.T) {
	if _, err := ParseLayer("hologram:path=x"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestFeedLifecycle(t *testing.T) {
	f := NewFeed(10, 10)
	if !f.Alive() {
		t.Fatal("new feed should be alive")
	}
	if f.Frame() != nil {
		t.Fatal("no frame before first push")
	}
	f.Close()
	if f.Alive() {
		t.Fatal("closed feed should be dead")
	}
}
