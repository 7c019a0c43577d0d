// Package presets ships a small library of world templates for the
// creator view's quick-fill.
package presets

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/minhvu/taleforge/internal/models"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is one world template.
type Preset struct {
	Name      string   `yaml:"name"`
	Genre     string   `yaml:"genre"`
	Setting   string   `yaml:"setting"`
	Idea      string   `yaml:"idea"`
	Skills    []string `yaml:"skills"`
	LoreRules []string `yaml:"lore_rules"`
	WuxiaArts bool     `yaml:"wuxia_arts"` // pre-fill the four martial categories
}

// Load parses the embedded preset library.
func Load() ([]Preset, error) {
	var out []Preset
	if err := yaml.Unmarshal(presetsYAML, &out); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	return out, nil
}

// Apply copies a preset onto world settings, leaving fields the user
// already filled in untouched.
func Apply(p Preset, ws models.WorldSettings) models.WorldSettings {
	if ws.Genre == "" {
		ws.Genre = p.Genre
	}
	if ws.Setting == "" {
		ws.Setting = p.Setting
	}
	if ws.Idea == "" {
		ws.Idea = p.Idea
	}
	if len(ws.Skills) == 0 {
		for _, name := range p.Skills {
			ws.Skills = append(ws.Skills, models.Skill{Name: name})
		}
	}
	if len(ws.LoreRules) == 0 {
		for _, text := range p.LoreRules {
			ws.LoreRules = append(ws.LoreRules, models.LoreRule{Text: text, IsActive: true})
		}
	}
	if ws.VoLamArts == nil && p.WuxiaArts {
		ws.VoLamArts = &models.VoLamArts{}
	}
	return ws
}
