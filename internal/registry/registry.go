// Package registry holds the catalog of playable game variants. Variants
// register themselves from init(), so the platform and CLI discover them
// without importing each game package directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sandfall/sandfall/internal/core"
)

// Game is the contract between a game variant and the platform. Games are
// pure simulations: the platform owns the terminal, the timer, and the key
// mapping, and talks to the game only through these methods.
type Game interface {
	// ID is the stable identifier used for CLI selection and score storage
	// (e.g. "sandfall", "sandfall_timed").
	ID() string

	// Title is the human-readable name shown in menus and HUDs.
	Title() string

	// Reset starts or restarts the game for the given screen size, tick
	// rate, and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation one frame with this frame's actions.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the screen buffer. The buffer is
	// cleared by the game, not the caller.
	Render(dst *core.Screen)

	// State reports score and game-over/pause status for the platform.
	State() core.GameState
}

// Info describes one registered variant.
type Info struct {
	ID    string
	Title string
}

// Factory constructs a fresh, un-Reset game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a variant under its ID. It panics on duplicate registration,
// which only happens on a programming error in init() wiring.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns every registered variant sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Info, 0, len(factories))
	for id := range factories {
		out = append(out, Info{ID: id, Title: titles[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create instantiates a variant by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown variant %q", id)
	}
	return f(), nil
}

// Exists reports whether a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
