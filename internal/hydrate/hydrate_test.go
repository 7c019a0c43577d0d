package hydrate

import (
	"reflect"
	"testing"

	"github.com/minhvu/taleforge/internal/models"
)

func TestWorldSettingsIdempotent(t *testing.T) {
	in := models.WorldSettings{
		Genre:  "Wuxia",
		Skills: []models.Skill{{Name: "Swordplay"}, {ID: "skill_keep", Name: "Meditation"}},
		LoreRules: []models.LoreRule{
			{Text: "Qi is real.", IsActive: true},
		},
	}

	once := WorldSettings(in)
	twice := WorldSettings(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expected a second hydration to change nothing:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestWorldSettingsEmptyIdempotent(t *testing.T) {
	once := WorldSettings(models.WorldSettings{})
	twice := WorldSettings(once)

	if !reflect.DeepEqual(once, twice) {
		t.Error("Expected hydrating the zero value twice to be stable")
	}
	if once.Skills == nil || once.LoreRules == nil {
		t.Error("Expected nil collections to become empty slices")
	}
}

func TestWorldSettingsPreservesIDs(t *testing.T) {
	in := models.WorldSettings{
		Skills:    []models.Skill{{ID: "skill_keep", Name: "Meditation"}},
		LoreRules: []models.LoreRule{{ID: "rule_keep", Text: "No magic."}},
	}
	out := WorldSettings(in)

	if out.Skills[0].ID != "skill_keep" {
		t.Errorf("Expected skill id to be preserved, got %s", out.Skills[0].ID)
	}
	if out.LoreRules[0].ID != "rule_keep" {
		t.Errorf("Expected rule id to be preserved, got %s", out.LoreRules[0].ID)
	}
}

func TestWorldSettingsAssignsDistinctRuleIDs(t *testing.T) {
	rules := make([]models.LoreRule, 50)
	for i := range rules {
		rules[i] = models.LoreRule{Text: "rule", IsActive: true}
	}
	out := WorldSettings(models.WorldSettings{LoreRules: rules})

	seen := make(map[string]bool)
	for _, r := range out.LoreRules {
		if r.ID == "" {
			t.Fatal("Expected every rule to receive an id")
		}
		if seen[r.ID] {
			t.Fatalf("Duplicate rule id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestWorldSettingsPartialInput(t *testing.T) {
	out := WorldSettings(models.WorldSettings{
		LoreRules: []models.LoreRule{{Text: "Dragons sleep in winter.", IsActive: true}},
	})

	if len(out.LoreRules) != 1 || out.LoreRules[0].ID == "" {
		t.Error("Expected the lone rule to get an id")
	}
	if out.LoreRules[0].Text != "Dragons sleep in winter." || !out.LoreRules[0].IsActive {
		t.Error("Expected rule content to pass through untouched")
	}
	if out.Skills == nil || len(out.Skills) != 0 {
		t.Errorf("Expected skills to be an empty slice, got %v", out.Skills)
	}
	if out.Allow18Plus {
		t.Error("Expected allow18Plus to default to false")
	}
	if out.WritingStyle != "" {
		t.Errorf("Expected writing style to stay empty, got %q", out.WritingStyle)
	}
}

func TestGameStateIdempotent(t *testing.T) {
	ws := WorldSettings(models.WorldSettings{
		Name:   "Li Wei",
		Skills: []models.Skill{{Name: "Swordplay"}},
	})
	in := models.GameState{
		Turns:  []models.Turn{{Story: "The wind howls."}},
		Quests: []models.Quest{{Name: "Cross the pass"}},
	}

	once := GameState(in, ws)
	twice := GameState(once, ws)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expected a second hydration to change nothing:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestGameStateSeedsCharacter(t *testing.T) {
	ws := WorldSettings(models.WorldSettings{
		Name:             "Li Wei",
		Species:          "Human",
		Gender:           "male",
		PersonalityOuter: "calm",
		Backstory:        "An orphan of the pass.",
		Skills:           []models.Skill{{Name: "Swordplay"}},
	})

	out := GameState(models.GameState{}, ws)

	ch := out.Character
	if ch.Name != "Li Wei" || ch.Species != "Human" || ch.Gender != "male" {
		t.Errorf("Expected character identity seeded from settings, got %+v", ch)
	}
	if ch.Personality != "calm" {
		t.Errorf("Expected outer personality to seed the sheet, got %q", ch.Personality)
	}
	if len(ch.Skills) != 1 || ch.Skills[0].Name != "Swordplay" {
		t.Errorf("Expected skills copied from settings, got %v", ch.Skills)
	}

	// A sheet the narrator already filled in wins over the settings.
	out2 := GameState(models.GameState{Character: models.Character{Name: "Mei"}}, ws)
	if out2.Character.Name != "Mei" {
		t.Errorf("Expected existing character name to win, got %s", out2.Character.Name)
	}
}

func TestGameStateTitleDefaults(t *testing.T) {
	out := GameState(models.GameState{}, models.WorldSettings{Idea: "A wandering swordsman"})
	if out.Title != "A wandering swordsman" {
		t.Errorf("Expected title from the world idea, got %q", out.Title)
	}

	out = GameState(models.GameState{}, models.WorldSettings{})
	if out.Title != "Untitled Adventure" {
		t.Errorf("Expected fallback title, got %q", out.Title)
	}

	out = GameState(models.GameState{Title: "My Tale"}, models.WorldSettings{Idea: "ignored"})
	if out.Title != "My Tale" {
		t.Errorf("Expected existing title to win, got %q", out.Title)
	}
}

func TestGameStateNormalizesCollections(t *testing.T) {
	out := GameState(models.GameState{}, models.WorldSettings{})

	if out.Turns == nil || out.Actions == nil || out.Quests == nil || out.Memories == nil || out.History == nil {
		t.Error("Expected all collections present after hydration")
	}
	kb := out.KnowledgeBase
	if kb.PCs == nil || kb.NPCs == nil || kb.Items == nil || kb.Locations == nil || kb.Factions == nil || kb.Monsters == nil {
		t.Error("Expected all knowledge categories present after hydration")
	}
}

func TestGameStateDropsInvalidClock(t *testing.T) {
	bad := []models.GameTime{
		{Month: 0, Day: 1},
		{Month: 13, Day: 1},
		{Month: 1, Day: 0},
		{Month: 1, Day: 32},
		{Month: 1, Day: 1, Hour: 24},
		{Month: 1, Day: 1, Minute: 60},
	}
	for _, clock := range bad {
		c := clock
		out := GameState(models.GameState{CurrentTime: &c}, models.WorldSettings{})
		if out.CurrentTime != nil {
			t.Errorf("Expected clock %+v to be dropped", clock)
		}
	}

	good := models.GameTime{Year: 3, Month: 7, Day: 15, Hour: 23, Minute: 59}
	out := GameState(models.GameState{CurrentTime: &good}, models.WorldSettings{})
	if out.CurrentTime == nil || *out.CurrentTime != good {
		t.Errorf("Expected a well-formed clock to pass through, got %v", out.CurrentTime)
	}

	out = GameState(models.GameState{}, models.WorldSettings{})
	if out.CurrentTime != nil {
		t.Error("Expected an absent clock to stay absent")
	}
}

func TestCharacterNormalizes(t *testing.T) {
	out := Character(models.Character{
		Name: "Old Chen",
		Status: models.Status{Effects: []models.Effect{
			{Name: "Poisoned", Type: "???", Duration: -3},
		}},
		Inventory: models.Inventory{
			Money: -10,
			Items: []models.Item{{Name: "Fang", Quantity: -1, Rarity: "shiny"}},
		},
	})

	if out.Status.Effects[0].Type != models.EffectNeutral {
		t.Errorf("Expected unknown effect type to become neutral, got %s", out.Status.Effects[0].Type)
	}
	if out.Status.Effects[0].Duration != 0 {
		t.Errorf("Expected negative duration clamped to 0, got %d", out.Status.Effects[0].Duration)
	}
	if out.Inventory.Money != 0 {
		t.Errorf("Expected negative money clamped to 0, got %d", out.Inventory.Money)
	}
	if out.Inventory.Items[0].Quantity != 0 || out.Inventory.Items[0].Rarity != models.RarityCommon {
		t.Errorf("Expected item clamps, got %+v", out.Inventory.Items[0])
	}
	if out.Abilities == nil || out.Relationships == nil {
		t.Error("Expected ability and relationship slices present")
	}
	if out.LootTable != nil {
		t.Error("Expected an absent character loot table to stay absent")
	}
}

func TestMonsterLootTableAlwaysPresent(t *testing.T) {
	out := GameState(models.GameState{
		KnowledgeBase: models.KnowledgeBase{
			Monsters: []models.Monster{
				{KnowledgeEntity: models.KnowledgeEntity{Name: "Ghoul"}},
				{KnowledgeEntity: models.KnowledgeEntity{Name: "Wolf"}, LootTable: []models.LootItem{
					{ItemName: "Pelt", DropChance: 150, MinQuantity: 2, MaxQuantity: 1, Rarity: "???"},
				}},
			},
		},
	}, models.WorldSettings{})

	monsters := out.KnowledgeBase.Monsters
	if monsters[0].LootTable == nil {
		t.Error("Expected monster loot table to default to empty")
	}
	loot := monsters[1].LootTable[0]
	if loot.DropChance != 100 {
		t.Errorf("Expected drop chance clamped to 100, got %d", loot.DropChance)
	}
	if loot.MaxQuantity != loot.MinQuantity {
		t.Errorf("Expected max quantity raised to min, got %d < %d", loot.MaxQuantity, loot.MinQuantity)
	}
	if loot.Rarity != models.RarityCommon {
		t.Errorf("Expected unknown rarity to become Common, got %s", loot.Rarity)
	}
}
