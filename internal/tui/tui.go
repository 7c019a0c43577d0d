package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/taleforge/internal/engine"
	"github.com/minhvu/taleforge/internal/models"
	"github.com/minhvu/taleforge/internal/presets"
	"github.com/minhvu/taleforge/internal/session"
	"github.com/minhvu/taleforge/internal/store"
)

// view mirrors the original hash routes: menu, create, game.
type view int

const (
	viewMenu view = iota
	viewCreate
	viewGame
)

type overlay int

const (
	overlayNone overlay = iota
	overlayLoad
	overlayKeys
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastWarning
	toastError
)

// userKeysMetaKey stores the user's narration API keys in store metadata.
const userKeysMetaKey = "user_api_keys"

var menuItems = []string{
	"New World",
	"Quick Create",
	"Load Game",
	"API Keys",
	"Quit",
}

// creator form field order.
var creatorLabels = []string{
	"Character name",
	"Genre",
	"Setting",
	"Premise",
	"Difficulty",
}

type model struct {
	currentView view
	overlay     overlay
	loading     bool
	loadingText string

	sess      *session.Session
	eng       *engine.Engine
	pool      *engine.KeyPool
	st        store.Store
	importDir string

	// menu
	menuCursor int
	apiStatus  string

	// creator
	inputs     []textinput.Model
	focusIdx   int
	presetList []presets.Preset
	presetIdx  int // -1 means none

	// game
	viewport  viewport.Model
	textInput textinput.Model
	gameLog   string

	// load overlay
	saves      []models.SaveFile
	saveCursor int

	toast      string
	toastLevel toastLevel

	width  int
	height int
}

// NewModel assembles the TUI over an existing session, engine and store.
func NewModel(sess *session.Session, eng *engine.Engine, pool *engine.KeyPool, st store.Store, importDir string) model {
	ti := textinput.New()
	ti.Placeholder = "What do you do?"
	ti.CharLimit = 300
	ti.Width = 60

	inputs := make([]textinput.Model, len(creatorLabels))
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = creatorLabels[i]
		in.CharLimit = 200
		in.Width = 50
		inputs[i] = in
	}

	list, err := presets.Load()
	if err != nil {
		list = nil
	}

	return model{
		currentView: viewMenu,
		sess:        sess,
		eng:         eng,
		pool:        pool,
		st:          st,
		importDir:   importDir,
		textInput:   ti,
		inputs:      inputs,
		presetList:  list,
		presetIdx:   -1,
		apiStatus:   pool.Status(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadUserKeys())
}

//================================================================
// messages
//================================================================

type worldCreatedMsg struct{ err error }

type turnDoneMsg struct {
	update models.TurnUpdate
	err    error
}

type savedMsg struct{ err error }

type savesLoadedMsg struct {
	saves []models.SaveFile
	err   error
}

type deletedMsg struct {
	id  string
	err error
}

type importedMsg struct {
	res      session.ImportResult
	selected int
	err      error
}

type userKeysMsg struct {
	keys string
	err  error
}

type toastMsg struct {
	level toastLevel
	text  string
}

//================================================================
// update
//================================================================

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.72)
		m.viewport.Height = msg.Height - 7
		if m.currentView == viewGame {
			m.viewport.SetContent(m.gameLog)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case worldCreatedMsg:
		m.loading = false
		if msg.err != nil {
			return m.showToast(toastError, fmt.Sprintf("Failed to create world: %v", msg.err))
		}
		m = m.enterGame()
		m, _ = m.showToast(toastSuccess, "World created and saved.")
		return m, nil

	case turnDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m.showToast(toastError, fmt.Sprintf("The narrator stumbled: %v", msg.err))
		}
		if err := m.sess.ApplyTurn(msg.update); err != nil {
			return m.showToast(toastError, err.Error())
		}
		m.appendStory(msg.update.Story, msg.update.Messages)
		// Persist after every turn, like the original client.
		return m, m.saveGame()

	case savedMsg:
		if msg.err != nil {
			return m.showToast(toastError, "Saving the game failed.")
		}
		return m, nil

	case savesLoadedMsg:
		if msg.err != nil {
			m.saves = nil
			return m.showToast(toastError, "Could not read saves from the database.")
		}
		m.saves = msg.saves
		m.saveCursor = 0
		m.overlay = overlayLoad
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			return m.showToast(toastError, "Deleting the save failed.")
		}
		m.saves = removeSave(m.saves, msg.id)
		if m.saveCursor >= len(m.saves) && m.saveCursor > 0 {
			m.saveCursor--
		}
		if !m.sess.Active() && m.currentView == viewGame {
			m.currentView = viewMenu
		}
		return m.showToast(toastSuccess, "Save deleted.")

	case importedMsg:
		if msg.err != nil {
			return m.showToast(toastError, fmt.Sprintf("Merging saves failed: %v", msg.err))
		}
		if msg.selected == 0 {
			return m.showToast(toastWarning, "No save files selected.")
		}
		var cmd tea.Cmd
		if msg.res.Imported > 0 {
			cmd = m.loadSaves()
		}
		switch {
		case msg.res.Failed > 0 && msg.res.Imported > 0:
			m, _ = m.showToast(toastWarning, fmt.Sprintf("Merged %d saves, %d files failed.", msg.res.Imported, msg.res.Failed))
		case msg.res.Failed > 0:
			m, _ = m.showToast(toastError, fmt.Sprintf("Could not load %d files.", msg.res.Failed))
		default:
			m, _ = m.showToast(toastSuccess, fmt.Sprintf("Uploaded and merged %d saves.", msg.res.Imported))
		}
		return m, cmd

	case userKeysMsg:
		if msg.err == nil {
			m.pool.SetUserKeys(msg.keys)
		}
		m.apiStatus = m.pool.Status()
		return m, nil

	case toastMsg:
		m.toast = msg.text
		m.toastLevel = msg.level
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.overlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	switch m.currentView {
	case viewMenu:
		return m.handleMenuKey(msg)
	case viewCreate:
		return m.handleCreatorKey(msg)
	case viewGame:
		return m.handleGameKey(msg)
	}
	return m, nil
}

func (m model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}
	case "enter":
		switch menuItems[m.menuCursor] {
		case "New World":
			m = m.resetCreator()
			m.currentView = viewCreate
			return m, textinput.Blink
		case "Quick Create":
			m = m.resetCreator()
			m.currentView = viewCreate
			m.focusIdx = creatorHintOnly
			return m, textinput.Blink
		case "Load Game":
			return m, m.loadSaves()
		case "API Keys":
			m.overlay = overlayKeys
			m.textInput.Reset()
			m.textInput.Placeholder = "Paste API keys (comma or newline separated), empty to clear"
			m.textInput.Focus()
			return m, textinput.Blink
		case "Quit":
			return m, tea.Quit
		}
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// creatorHintOnly marks quick-create mode: a single free-form hint.
const creatorHintOnly = -2

func (m model) handleCreatorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.currentView = viewMenu
		return m, nil

	case tea.KeyEnter:
		if m.focusIdx == creatorHintOnly {
			hint := m.textInput.Value()
			if hint == "" {
				hint = "random"
			}
			m.loading = true
			m.loadingText = "Generating your world..."
			return m, m.createWorld(hint, models.WorldSettings{})
		}
		if m.focusIdx == len(m.inputs)-1 {
			ws := m.authoredSettings()
			hint := ws.Idea
			if hint == "" {
				hint = ws.Genre
			}
			if hint == "" {
				hint = "random"
			}
			m.loading = true
			m.loadingText = "Generating your world..."
			return m, m.createWorld(hint, ws)
		}
		m = m.focusField(m.focusIdx + 1)
		return m, textinput.Blink

	case tea.KeyTab, tea.KeyDown:
		if m.focusIdx >= 0 {
			m = m.focusField((m.focusIdx + 1) % len(m.inputs))
		}
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		if m.focusIdx > 0 {
			m = m.focusField(m.focusIdx - 1)
		}
		return m, nil

	case tea.KeyCtrlP:
		// Cycle presets into empty fields.
		if len(m.presetList) > 0 {
			m.presetIdx = (m.presetIdx + 1) % len(m.presetList)
			m, _ = m.showToast(toastInfo, "Preset: "+m.presetList[m.presetIdx].Name)
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		// Leaving the game ends the session; progress is already saved.
		m.currentView = viewMenu
		m.sess.EndSession()
		return m, nil

	case tea.KeyEnter:
		input := strings.TrimSpace(m.textInput.Value())
		if input == "" {
			return m, nil
		}
		m.textInput.Reset()

		switch input {
		case "/quit":
			return m, tea.Quit
		case "/menu":
			m.currentView = viewMenu
			m.sess.EndSession()
			return m, nil
		case "/save":
			return m, tea.Batch(m.saveGame(), m.toastCmd(toastInfo, "Game saved."))
		case "/revert":
			if !m.sess.Revert() {
				return m.showToast(toastWarning, "Nothing to revert.")
			}
			m.rebuildLog()
			return m.showToast(toastInfo, "Reverted the last turn.")
		}

		action := input
		// A bare number picks the matching suggested action.
		if n, err := strconv.Atoi(input); err == nil {
			gs := m.sess.GameState
			if gs != nil && n >= 1 && n <= len(gs.Actions) {
				action = gs.Actions[n-1].Description
			}
		}

		m.appendAction(action)
		m.loading = true
		m.loadingText = "The narrator is thinking..."
		return m, m.processTurn(action)
	}

	return m.updateInputs(msg)
}

func (m model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == overlayKeys {
		switch msg.Type {
		case tea.KeyEsc:
			m.overlay = overlayNone
			m.textInput.Reset()
			m.textInput.Placeholder = "What do you do?"
			return m, nil
		case tea.KeyEnter:
			keys := strings.TrimSpace(m.textInput.Value())
			m.overlay = overlayNone
			m.textInput.Reset()
			m.textInput.Placeholder = "What do you do?"
			return m, tea.Batch(m.saveUserKeys(keys), m.toastCmd(toastInfo, statusForKeys(keys)))
		}
		return m.updateInputs(msg)
	}

	// load overlay
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
	case "up", "k":
		if m.saveCursor > 0 {
			m.saveCursor--
		}
	case "down", "j":
		if m.saveCursor < len(m.saves)-1 {
			m.saveCursor++
		}
	case "enter":
		if len(m.saves) == 0 {
			return m, nil
		}
		save := m.saves[m.saveCursor]
		if err := m.sess.LoadGame(save); err != nil {
			return m.showToast(toastError, "This save file is invalid or corrupt.")
		}
		m.overlay = overlayNone
		m = m.enterGame()
		return m, nil
	case "d":
		if len(m.saves) == 0 {
			return m, nil
		}
		return m, m.deleteSave(m.saves[m.saveCursor].ID)
	case "i":
		return m, m.importSaves()
	}
	return m, nil
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.overlay == overlayKeys,
		m.currentView == viewGame,
		m.currentView == viewCreate && m.focusIdx == creatorHintOnly:
		m.textInput, cmd = m.textInput.Update(msg)
	case m.currentView == viewCreate && m.focusIdx >= 0:
		m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	}
	return m, cmd
}

//================================================================
// helpers
//================================================================

func (m model) showToast(level toastLevel, text string) (model, tea.Cmd) {
	m.toast = text
	m.toastLevel = level
	return m, nil
}

func (m model) toastCmd(level toastLevel, text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{level: level, text: text} }
}

func (m model) resetCreator() model {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.presetIdx = -1
	m = m.focusField(0)
	m.textInput.Reset()
	m.textInput.Placeholder = "Enter a hint or 'random'..."
	m.textInput.Focus()
	return m
}

func (m model) focusField(idx int) model {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focusIdx = idx
	if idx >= 0 && idx < len(m.inputs) {
		m.inputs[idx].Focus()
	}
	return m
}

// authoredSettings collects the creator form into world settings, applying
// the selected preset underneath.
func (m model) authoredSettings() models.WorldSettings {
	ws := models.WorldSettings{
		Name:       strings.TrimSpace(m.inputs[0].Value()),
		Genre:      strings.TrimSpace(m.inputs[1].Value()),
		Setting:    strings.TrimSpace(m.inputs[2].Value()),
		Idea:       strings.TrimSpace(m.inputs[3].Value()),
		Difficulty: strings.TrimSpace(m.inputs[4].Value()),
	}
	if m.presetIdx >= 0 {
		ws = presets.Apply(m.presetList[m.presetIdx], ws)
	}
	return ws
}

// enterGame switches to the play view. With no active game it falls back
// to the menu instead of rendering an empty screen.
func (m model) enterGame() model {
	if !m.sess.Active() {
		m.currentView = viewMenu
		return m
	}
	m.currentView = viewGame
	m.textInput.Reset()
	m.textInput.Placeholder = "What do you do?"
	m.textInput.Focus()
	if m.viewport.Width == 0 {
		w := int(float64(m.width) * 0.72)
		if w <= 0 {
			w = 80
		}
		h := m.height - 7
		if h <= 0 {
			h = 20
		}
		m.viewport = viewport.New(w, h)
	}
	m.rebuildLog()
	return m
}

func removeSave(saves []models.SaveFile, id string) []models.SaveFile {
	out := saves[:0]
	for _, s := range saves {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func statusForKeys(keys string) string {
	if strings.TrimSpace(keys) != "" {
		return "Using your API keys."
	}
	return "Using the default Gemini key."
}

//================================================================
// commands
//================================================================

func (m model) createWorld(hint string, authored models.WorldSettings) tea.Cmd {
	sess, eng := m.sess, m.eng
	return func() tea.Msg {
		ctx := context.Background()
		ws, gs, err := eng.GenerateWorld(ctx, hint)
		if err != nil {
			return worldCreatedMsg{err: err}
		}
		ws = overlayAuthored(authored, ws)
		if err := sess.CreateWorld(ctx, gs, ws); err != nil {
			return worldCreatedMsg{err: err}
		}
		return worldCreatedMsg{}
	}
}

// overlayAuthored keeps every field the user typed over the generated one.
func overlayAuthored(authored, generated models.WorldSettings) models.WorldSettings {
	out := generated
	if authored.Name != "" {
		out.Name = authored.Name
	}
	if authored.Genre != "" {
		out.Genre = authored.Genre
	}
	if authored.Setting != "" {
		out.Setting = authored.Setting
	}
	if authored.Idea != "" {
		out.Idea = authored.Idea
	}
	if authored.Difficulty != "" {
		out.Difficulty = authored.Difficulty
	}
	if len(authored.Skills) > 0 {
		out.Skills = authored.Skills
	}
	if len(authored.LoreRules) > 0 {
		out.LoreRules = authored.LoreRules
	}
	if authored.VoLamArts != nil {
		out.VoLamArts = authored.VoLamArts
	}
	return out
}

func (m model) processTurn(action string) tea.Cmd {
	sess, eng := m.sess, m.eng
	return func() tea.Msg {
		update, err := eng.ProcessTurn(context.Background(), sess.GameState, sess.WorldSettings, action)
		return turnDoneMsg{update: update, err: err}
	}
}

func (m model) saveGame() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return savedMsg{err: sess.SaveGame(context.Background())}
	}
}

func (m model) loadSaves() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		saves, err := sess.ListSaves(context.Background())
		return savesLoadedMsg{saves: saves, err: err}
	}
}

func (m model) deleteSave(id string) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return deletedMsg{id: id, err: sess.DeleteGame(context.Background(), id)}
	}
}

// importSaves merges every JSON file in the import directory.
func (m model) importSaves() tea.Cmd {
	sess, dir := m.sess, m.importDir
	return func() tea.Msg {
		paths, _ := filepath.Glob(filepath.Join(dir, "*.json"))
		res, err := sess.ImportSaves(context.Background(), paths)
		return importedMsg{res: res, selected: len(paths), err: err}
	}
}

func (m model) loadUserKeys() tea.Cmd {
	st, pool := m.st, m.pool
	return func() tea.Msg {
		keys, err := st.GetMeta(context.Background(), userKeysMetaKey)
		if err == nil {
			pool.SetUserKeys(keys)
		}
		return userKeysMsg{keys: keys, err: err}
	}
}

func (m model) saveUserKeys(keys string) tea.Cmd {
	st := m.st
	return func() tea.Msg {
		err := st.SetMeta(context.Background(), userKeysMetaKey, keys)
		return userKeysMsg{keys: keys, err: err}
	}
}

// Run starts the program.
func Run(sess *session.Session, eng *engine.Engine, pool *engine.KeyPool, st store.Store, importDir string) error {
	p := tea.NewProgram(NewModel(sess, eng, pool, st, importDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
