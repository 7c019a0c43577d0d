package presets

import (
	"testing"

	"github.com/minhvu/taleforge/internal/models"
)

func TestLoad(t *testing.T) {
	list, err := Load()
	if err != nil {
		t.Fatalf("Failed to load presets: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("Expected at least one preset")
	}

	seen := make(map[string]bool)
	for _, p := range list {
		if p.Name == "" || p.Genre == "" || p.Idea == "" {
			t.Errorf("Preset missing required fields: %+v", p)
		}
		if seen[p.Name] {
			t.Errorf("Duplicate preset name %s", p.Name)
		}
		seen[p.Name] = true
	}
}

func TestApplyFillsEmptyFields(t *testing.T) {
	p := Preset{
		Name:      "Test",
		Genre:     "Wuxia",
		Setting:   "Rivers and lakes.",
		Idea:      "A wandering swordsman",
		Skills:    []string{"Swordplay", "Qinggong"},
		LoreRules: []string{"Qi is real."},
		WuxiaArts: true,
	}

	ws := Apply(p, models.WorldSettings{})

	if ws.Genre != "Wuxia" || ws.Setting != "Rivers and lakes." || ws.Idea != "A wandering swordsman" {
		t.Errorf("Expected preset text applied, got %+v", ws)
	}
	if len(ws.Skills) != 2 || ws.Skills[0].Name != "Swordplay" {
		t.Errorf("Expected preset skills, got %v", ws.Skills)
	}
	if len(ws.LoreRules) != 1 || !ws.LoreRules[0].IsActive {
		t.Errorf("Expected active preset rules, got %v", ws.LoreRules)
	}
	if ws.VoLamArts == nil {
		t.Error("Expected martial arts block for a wuxia preset")
	}
}

func TestApplyKeepsUserInput(t *testing.T) {
	p := Preset{Genre: "Wuxia", Idea: "preset idea", Skills: []string{"Swordplay"}}
	ws := Apply(p, models.WorldSettings{
		Genre:  "Cyberpunk",
		Idea:   "my idea",
		Skills: []models.Skill{{Name: "Hacking"}},
	})

	if ws.Genre != "Cyberpunk" || ws.Idea != "my idea" {
		t.Errorf("Expected user fields to win, got %+v", ws)
	}
	if len(ws.Skills) != 1 || ws.Skills[0].Name != "Hacking" {
		t.Errorf("Expected user skills to win, got %v", ws.Skills)
	}
	if ws.VoLamArts != nil {
		t.Error("Expected no martial arts block without the flag")
	}
}
