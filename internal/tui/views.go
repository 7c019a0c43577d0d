package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/minhvu/taleforge/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D787")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	toastStyles = map[toastLevel]lipgloss.Style{
		toastInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF")),
		toastSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")),
		toastWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
		toastError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	}
)

func (m model) View() string {
	var s string

	switch {
	case m.overlay == overlayLoad:
		s = m.renderLoadOverlay()
	case m.overlay == overlayKeys:
		s = m.renderKeysOverlay()
	case m.loading:
		s = "\n  " + m.loadingText + "\n"
	case m.currentView == viewMenu:
		s = m.renderMenu()
	case m.currentView == viewCreate:
		s = m.renderCreator()
	case m.currentView == viewGame:
		s = m.renderGame()
	}

	if m.toast != "" {
		s += "\n" + toastStyles[m.toastLevel].Render(m.toast)
	}
	return "\n" + s + "\n"
}

func (m model) renderMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TALEFORGE") + "\n\n")
	b.WriteString("An AI-narrated role-playing game.\n\n")
	for i, item := range menuItems {
		cursor := "  "
		line := item
		if i == m.menuCursor {
			cursor = "> "
			line = selectedStyle.Render(item)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(m.apiStatus))
	return b.String()
}

func (m model) renderCreator() string {
	if m.focusIdx == creatorHintOnly {
		return fmt.Sprintf(
			"%s\n\nGive me a hint about the world you want to play in:\n\n%s\n\n%s",
			titleStyle.Render("QUICK CREATE"),
			m.textInput.View(),
			helpStyle.Render("enter: generate · esc: back"),
		)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("NEW WORLD") + "\n\n")
	for i, in := range m.inputs {
		label := creatorLabels[i]
		if i == m.focusIdx {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label + "\n" + in.View() + "\n\n")
	}
	if m.presetIdx >= 0 {
		b.WriteString("Preset: " + m.presetList[m.presetIdx].Name + "\n\n")
	}
	b.WriteString(helpStyle.Render("tab: next field · ctrl+p: cycle preset · enter on last field: create · esc: back"))
	return b.String()
}

func (m model) renderGame() string {
	logView := m.viewport.View()
	sidebar := m.renderSidebar()

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, logView, sidebar)
	help := helpStyle.Render("Commands: /save, /revert, /menu, /quit, or a number to pick a suggested action.")

	return lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+m.textInput.View(),
		"\n"+help,
	)
}

func (m model) renderSidebar() string {
	gs := m.sess.GameState
	if gs == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(gs.Title)) + "\n\n")

	ch := gs.Character
	b.WriteString(titleStyle.Render("CHARACTER") + "\n")
	fmt.Fprintf(&b, "%s (%s)\n", ch.Name, ch.Species)
	fmt.Fprintf(&b, "Money: %d\n", ch.Inventory.Money)
	for _, e := range ch.Status.Effects {
		fmt.Fprintf(&b, "[%s] %s\n", e.Type, e.Name)
	}
	b.WriteString("\n")

	if gs.CurrentTime != nil {
		t := gs.CurrentTime
		b.WriteString(titleStyle.Render("TIME") + "\n")
		fmt.Fprintf(&b, "Y%d M%d D%d %02d:%02d\n\n", t.Year, t.Month, t.Day, t.Hour, t.Minute)
	}

	b.WriteString(titleStyle.Render("INVENTORY") + "\n")
	if len(ch.Inventory.Items) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, it := range ch.Inventory.Items {
		fmt.Fprintf(&b, "- %s x%d\n", it.Name, it.Quantity)
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("QUESTS") + "\n")
	for _, q := range gs.Quests {
		if q.Status != models.QuestOngoing {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", q.Name)
	}

	if len(gs.Actions) > 0 {
		b.WriteString("\n" + titleStyle.Render("ACTIONS") + "\n")
		for i, a := range gs.Actions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, a.Description)
		}
	}

	width := int(float64(m.width) * 0.25)
	if width < 24 {
		width = 24
	}
	return sidebarStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

func (m model) renderLoadOverlay() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LOAD GAME") + "\n\n")
	if len(m.saves) == 0 {
		b.WriteString("No saves yet.\n")
	}
	for i, save := range m.saves {
		cursor := "  "
		line := fmt.Sprintf("%s (%s)", save.Name, humanTimestamp(save.Timestamp))
		if i == m.saveCursor {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter: load · d: delete · i: import from the import folder · esc: close"))
	return b.String()
}

func (m model) renderKeysOverlay() string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s",
		titleStyle.Render("API KEYS"),
		m.apiStatus,
		m.textInput.View(),
		helpStyle.Render("enter: save · esc: cancel"),
	)
}

func humanTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

//================================================================
// story log
//================================================================

func (m *model) appendStory(story string, notices []string) {
	width := m.logWidth()
	m.gameLog += gameStyle.Width(width).Render(story) + "\n\n"
	for _, n := range notices {
		m.gameLog += noticeStyle.Render("* "+n) + "\n"
	}
	if len(notices) > 0 {
		m.gameLog += "\n"
	}
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m *model) appendAction(action string) {
	width := m.logWidth()
	m.gameLog += userStyle.Width(width).Render("> "+action) + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

// rebuildLog re-renders the whole story log from the turns, used after
// load and revert.
func (m *model) rebuildLog() {
	m.gameLog = ""
	gs := m.sess.GameState
	if gs == nil {
		return
	}
	width := m.logWidth()
	for _, t := range gs.Turns {
		if t.ChosenAction != "" {
			m.gameLog += userStyle.Width(width).Render("> "+t.ChosenAction) + "\n\n"
		}
		m.gameLog += gameStyle.Width(width).Render(t.Story) + "\n\n"
		for _, msg := range t.Messages {
			m.gameLog += noticeStyle.Render("* "+msg.Text) + "\n"
		}
		if len(t.Messages) > 0 {
			m.gameLog += "\n"
		}
	}
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	w := int(float64(m.width) * 0.72)
	if w <= 0 {
		w = 80
	}
	return w
}
