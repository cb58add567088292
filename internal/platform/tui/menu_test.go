package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandfall/sandfall/internal/core"
	"github.com/sandfall/sandfall/internal/storage"
)

func newTestMenu() MenuModel {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	return NewMenuModel(nil, cfg, "easy")
}

func TestMenuModeCycleWrapsBothWays(t *testing.T) {
	m := newTestMenu()
	m.cursor = menuRowMode

	want := []string{"sandfall", "sandfall_timed", "sandfall_clear40", "sandfall"}
	for i, id := range want {
		if got := m.GameID(); got != id {
			t.Errorf("cycle step %d = %q, want %q", i, got, id)
		}
		m.cycle(1)
	}

	// Cycling backwards from the first mode wraps to the last.
	m.modeIdx = 0
	m.cycle(-1)
	if got := m.GameID(); got != "sandfall_clear40" {
		t.Errorf("cycle(-1) from first mode = %q, want sandfall_clear40", got)
	}
}

func TestMenuDifficultyCycleWraps(t *testing.T) {
	m := newTestMenu()
	m.cursor = menuRowDifficulty

	m.cycle(1)
	if got := m.Difficulty(); got != "medium" {
		t.Errorf("difficulty after cycle(1) = %q, want medium", got)
	}
	m.cycle(-1)
	m.cycle(-1)
	if got := m.Difficulty(); got != "hard" {
		t.Errorf("difficulty after wrapping backwards = %q, want hard", got)
	}
}

func TestMenuAutoplayToggle(t *testing.T) {
	m := newTestMenu()
	m.cursor = menuRowAutoplay

	m.cycle(1)
	if !m.Autoplay() {
		t.Error("autoplay should be on after one toggle")
	}
	m.cycle(1)
	if m.Autoplay() {
		t.Error("autoplay should be off after two toggles")
	}
}

func TestMenuShowsBestForSelectedMode(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if _, err := store.SaveResult(storage.Result{GameID: "sandfall", Score: 321}); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	m := NewMenuModel(store, cfg, "easy")

	if !strings.Contains(m.View(), "Best: 321") {
		t.Error("menu should show the stored best for the selected mode")
	}

	// Timed mode has no results, so the line disappears.
	m.cursor = menuRowMode
	m.cycle(1)
	if strings.Contains(m.View(), "Best:") {
		t.Error("menu should hide the best line for modes without results")
	}
}

func TestMenuViewListsOptions(t *testing.T) {
	m := newTestMenu()
	view := m.View()

	for _, want := range []string{"S A N D F A L L", "Mode", "Difficulty", "Autoplay", "Start", "Scores"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view missing %q", want)
		}
	}
}
