package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandfall/sandfall/internal/core"
	"github.com/sandfall/sandfall/internal/storage"
)

// menuRow is one selectable row in the start menu. Value rows cycle with
// left/right, action rows trigger with enter.
type menuRow int

const (
	menuRowMode menuRow = iota
	menuRowDifficulty
	menuRowAutoplay
	menuRowStart
	menuRowScores
	menuRowQuit
	menuRowCount
)

var (
	menuModeTitles   = []string{"Endless", "Timed", "Clear 40"}
	menuModeGameIDs  = []string{"sandfall", "sandfall_timed", "sandfall_clear40"}
	menuDifficulties = []string{"easy", "medium", "hard"}
)

// MenuModel is the Bubble Tea model for the start menu: pick a mode and
// difficulty, toggle autoplay, then start.
type MenuModel struct {
	cursor         menuRow
	modeIdx        int
	difficultyIdx  int
	autoplay       bool
	bestScore      int // stored best for the selected mode, 0 if none
	width          int
	height         int
	store          *storage.Store
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	started        bool
	openScoreboard bool
}

// NewMenuModel creates a new menu model with the given difficulty preselected.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, difficulty string) MenuModel {
	diffIdx := 0
	for i, d := range menuDifficulties {
		if d == difficulty {
			diffIdx = i
		}
	}

	m := MenuModel{
		difficultyIdx: diffIdx,
		width:         cfg.ScreenW,
		height:        cfg.ScreenH,
		store:         store,
		config:        cfg,
		keyMapper:     NewKeyMapper(),
	}
	m.refreshBest()
	return m
}

// refreshBest looks up the stored best score for the selected mode.
func (m *MenuModel) refreshBest() {
	m.bestScore = 0
	if m.store == nil {
		return
	}
	if best, err := m.store.HighScore(m.GameID()); err == nil {
		m.bestScore = best
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < menuRowCount-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.cycle(-1)

	case MenuActionRight:
		m.cycle(1)

	case MenuActionSelect:
		switch m.cursor {
		case menuRowMode, menuRowDifficulty, menuRowAutoplay:
			m.cycle(1)
		case menuRowStart:
			m.started = true
			return m, tea.Quit
		case menuRowScores:
			m.openScoreboard = true
			return m, tea.Quit
		case menuRowQuit:
			m.quitting = true
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// cycle advances the value under the cursor.
func (m *MenuModel) cycle(dir int) {
	switch m.cursor {
	case menuRowMode:
		m.modeIdx = (m.modeIdx + dir + len(menuModeTitles)) % len(menuModeTitles)
		m.refreshBest()
	case menuRowDifficulty:
		m.difficultyIdx = (m.difficultyIdx + dir + len(menuDifficulties)) % len(menuDifficulties)
	case menuRowAutoplay:
		m.autoplay = !m.autoplay
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "  S A N D F A L L  "
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	subtitle := "Blocks fall. Sand flows. Span the field to clear."
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	if m.bestScore > 0 {
		b.WriteString(centerText(fmt.Sprintf("Best: %d", m.bestScore), m.width))
		b.WriteString("\n\n")
	}

	autoplayStr := "off"
	if m.autoplay {
		autoplayStr = "on"
	}

	rows := []string{
		fmt.Sprintf("Mode        < %s >", menuModeTitles[m.modeIdx]),
		fmt.Sprintf("Difficulty  < %s >", menuDifficulties[m.difficultyIdx]),
		fmt.Sprintf("Autoplay    < %s >", autoplayStr),
		"Start",
		"Scores",
		"Quit",
	}

	for i, row := range rows {
		cursor := "  "
		if menuRow(i) == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+row, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Started returns true if the user chose to start a game.
func (m MenuModel) Started() bool {
	return m.started
}

// GameID returns the registry ID for the selected mode.
func (m MenuModel) GameID() string {
	return menuModeGameIDs[m.modeIdx]
}

// Difficulty returns the selected difficulty preset name.
func (m MenuModel) Difficulty() string {
	return menuDifficulties[m.difficultyIdx]
}

// Autoplay returns true if the bot should play.
func (m MenuModel) Autoplay() bool {
	return m.autoplay
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Difficulty      string
	Autoplay        bool
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, difficulty string) (MenuResult, error) {
	model := NewMenuModel(store, cfg, difficulty)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config:     m.Config(),
		Difficulty: m.Difficulty(),
		Autoplay:   m.Autoplay(),
	}

	if m.WantsScoreboard() {
		result.WantsScoreboard = true
		return result, nil
	}

	if m.IsQuitting() || !m.Started() {
		result.Quit = true
		return result, nil
	}

	result.GameID = m.GameID()
	return result, nil
}
