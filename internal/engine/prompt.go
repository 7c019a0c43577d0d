package engine

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/minhvu/taleforge/internal/models"
)

// buildTurnPrompt renders the narration prompt: the world rules, the
// character sheet, everything the player knows, and the recent story.
func buildTurnPrompt(gs *models.GameState, ws models.WorldSettings, action string) (string, error) {
	tmpl, err := template.New("process_turn").Parse(processTurnPrompt)
	if err != nil {
		return "", err
	}

	data := struct {
		Genre          string
		Setting        string
		Details        string
		WritingStyle   string
		NarrativeVoice string
		Difficulty     string
		Allow18Plus    bool
		TimeEnabled    bool
		CurrentTime    string
		LoreRules      string
		Character      string
		Inventory      string
		Quests         string
		Knowledge      string
		Memories       string
		History        string
		Action         string
	}{
		Genre:          ws.Genre,
		Setting:        ws.Setting,
		Details:        ws.Details,
		WritingStyle:   ws.WritingStyle,
		NarrativeVoice: ws.NarrativeVoice,
		Difficulty:     ws.Difficulty,
		Allow18Plus:    ws.Allow18Plus,
		TimeEnabled:    ws.EnableTimeSystem,
		CurrentTime:    formatTime(gs.CurrentTime),
		LoreRules:      formatLoreRules(ws.LoreRules),
		Character:      formatCharacter(gs.Character),
		Inventory:      formatInventory(gs.Character.Inventory),
		Quests:         formatQuests(gs.Quests),
		Knowledge:      formatKnowledge(gs.KnowledgeBase),
		Memories:       formatMemories(gs.Memories),
		History:        formatHistory(gs.Turns),
		Action:         action,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatTime(t *models.GameTime) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("Year %d, Month %d, Day %d, %02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute)
}

func formatLoreRules(rules []models.LoreRule) string {
	var b strings.Builder
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", r.Text)
	}
	return b.String()
}

func formatCharacter(ch models.Character) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s (%s, %s, age %s)\n", ch.Name, ch.Species, ch.Gender, ch.Age)
	if ch.Personality != "" {
		fmt.Fprintf(&b, "Personality: %s\n", ch.Personality)
	}
	if ch.LinhCan != "" {
		fmt.Fprintf(&b, "Spirit root: %s\n", ch.LinhCan)
	}
	for _, s := range ch.Skills {
		fmt.Fprintf(&b, "Skill: %s - %s\n", s.Name, s.Description)
	}
	if arts := ch.VoLamArts; arts != nil {
		fmt.Fprintf(&b, "Martial arts: cong phap %s, chieu thuc %s, khi cong %s, thuat %s\n",
			arts.CongPhap, arts.ChieuThuc, arts.KhiCong, arts.Thuat)
	}
	for _, a := range ch.Abilities {
		fmt.Fprintf(&b, "Ability: %s - %s\n", a.Name, a.Description)
	}
	for _, e := range ch.Status.Effects {
		fmt.Fprintf(&b, "Status (%s): %s - %s\n", e.Type, e.Name, e.Description)
	}
	for _, r := range ch.Relationships {
		fmt.Fprintf(&b, "Relationship: %s (%s) - %s\n", r.Name, r.Type, r.Description)
	}
	return b.String()
}

func formatInventory(inv models.Inventory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Money: %d\n", inv.Money)
	for _, it := range inv.Items {
		fmt.Fprintf(&b, "- %s x%d (%s): %s\n", it.Name, it.Quantity, it.Rarity, it.Description)
	}
	return b.String()
}

func formatQuests(quests []models.Quest) string {
	var b strings.Builder
	for _, q := range quests {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", q.Status, q.Name, q.Description)
	}
	return b.String()
}

func formatKnowledge(kb models.KnowledgeBase) string {
	var b strings.Builder
	writeEntities := func(label string, list []models.KnowledgeEntity) {
		for _, e := range list {
			fmt.Fprintf(&b, "%s: %s - %s\n", label, e.Name, e.Description)
		}
	}
	writeEntities("PC", kb.PCs)
	for _, npc := range kb.NPCs {
		fmt.Fprintf(&b, "NPC: %s - %s", npc.Name, npc.Description)
		if npc.Mood != "" {
			fmt.Fprintf(&b, " (mood: %s)", npc.Mood)
		}
		b.WriteString("\n")
	}
	writeEntities("Item", kb.Items)
	writeEntities("Location", kb.Locations)
	writeEntities("Faction", kb.Factions)
	for _, m := range kb.Monsters {
		fmt.Fprintf(&b, "Monster: %s - %s\n", m.Name, m.Description)
	}
	return b.String()
}

func formatMemories(memories []models.Memory) string {
	var b strings.Builder
	for _, m := range memories {
		if m.Pinned {
			fmt.Fprintf(&b, "- [pinned] %s\n", m.Text)
		} else {
			fmt.Fprintf(&b, "- %s\n", m.Text)
		}
	}
	return b.String()
}

// formatHistory walks turns newest-to-oldest and stops at the first
// summarized turn, replacing everything older with that summary.
func formatHistory(turns []models.Turn) string {
	start := 0
	summary := ""
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Summary != "" {
			start = i + 1
			summary = turns[i].Summary
			break
		}
	}

	var b strings.Builder
	if summary != "" {
		fmt.Fprintf(&b, "Summary of earlier events: %s\n\n", summary)
	}
	for _, t := range turns[start:] {
		if t.ChosenAction != "" {
			fmt.Fprintf(&b, "Action: %s\n", t.ChosenAction)
		}
		fmt.Fprintf(&b, "Story: %s\n", t.Story)
	}
	return b.String()
}
