package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSaveFileJSON(t *testing.T) {
	rel := 50
	save := &SaveFile{
		ID:        "save_abc",
		Name:      "The Haunted Pass",
		Timestamp: "2026-01-02T15:04:05Z",
		GameState: &GameState{
			Title: "The Haunted Pass",
			Character: Character{
				Name:      "Li Wei",
				Species:   "Human",
				Inventory: Inventory{Money: 120, Items: []Item{{Name: "Healing Herb", Quantity: 3, Rarity: RarityCommon}}},
			},
			Turns: []Turn{
				{ID: "turn_1", Story: "The wind howls.", ChosenAction: "look around", Messages: []Message{{ID: "msg_1", Text: "Received 3x Healing Herb"}}},
			},
			Quests: []Quest{{ID: "quest_1", Name: "Cross the pass", Status: QuestOngoing}},
			KnowledgeBase: KnowledgeBase{
				NPCs:     []Character{{Name: "Old Chen", Mood: "wary", Known: true, Relationship: &rel}},
				Monsters: []Monster{{KnowledgeEntity: KnowledgeEntity{Name: "Ghoul", Known: true}, LootTable: []LootItem{{ItemName: "Fang", DropChance: 40, MinQuantity: 1, MaxQuantity: 2, Rarity: RarityUncommon}}}},
			},
			CurrentTime: &GameTime{Year: 1, Month: 3, Day: 12, Hour: 8, Minute: 30},
		},
		WorldSettings: &WorldSettings{
			Genre:     "Wuxia",
			Idea:      "A wandering swordsman",
			Skills:    []Skill{{ID: "skill_1", Name: "Swordplay"}},
			LoreRules: []LoreRule{{ID: "rule_1", Text: "Qi is real.", IsActive: true}},
		},
	}

	data, err := json.Marshal(save)
	if err != nil {
		t.Fatalf("Failed to marshal save: %v", err)
	}

	// Wire keys are camelCase to stay compatible with exported save files.
	for _, key := range []string{`"gameState"`, `"worldSettings"`, `"knowledgeBase"`, `"currentTime"`, `"chosenAction"`, `"loreRules"`, `"isActive"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected wire key %s in output", key)
		}
	}

	var save2 SaveFile
	if err := json.Unmarshal(data, &save2); err != nil {
		t.Fatalf("Failed to unmarshal save: %v", err)
	}

	if save2.GameState == nil {
		t.Fatal("Expected a game state after round trip")
	}
	if save2.GameState.Character.Name != "Li Wei" {
		t.Errorf("Expected character Li Wei, got %s", save2.GameState.Character.Name)
	}
	if len(save2.GameState.KnowledgeBase.NPCs) != 1 || save2.GameState.KnowledgeBase.NPCs[0].Relationship == nil {
		t.Error("Expected NPC relationship score to survive the round trip")
	}
	if save2.GameState.KnowledgeBase.Monsters[0].Name != "Ghoul" {
		t.Errorf("Expected embedded monster name Ghoul, got %s", save2.GameState.KnowledgeBase.Monsters[0].Name)
	}
	if save2.WorldSettings.LoreRules[0].ID != "rule_1" {
		t.Errorf("Expected lore rule id rule_1, got %s", save2.WorldSettings.LoreRules[0].ID)
	}
}

func TestValidEffectType(t *testing.T) {
	for _, et := range []EffectType{EffectBuff, EffectDebuff, EffectInjury, EffectNeutral} {
		if !ValidEffectType(et) {
			t.Errorf("Expected %s to be valid", et)
		}
	}
	if ValidEffectType("poisoned") {
		t.Error("Expected unknown effect type to be invalid")
	}
	if ValidEffectType("") {
		t.Error("Expected empty effect type to be invalid")
	}
}

func TestValidRarity(t *testing.T) {
	for _, r := range []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary, RarityArtifact} {
		if !ValidRarity(r) {
			t.Errorf("Expected %s to be valid", r)
		}
	}
	if ValidRarity("common") {
		t.Error("Expected lowercase rarity to be invalid")
	}
}

func TestRarityRank(t *testing.T) {
	order := []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary, RarityArtifact}
	for i := 1; i < len(order); i++ {
		if RarityRank(order[i-1]) >= RarityRank(order[i]) {
			t.Errorf("Expected %s to rank below %s", order[i-1], order[i])
		}
	}
	if RarityRank("nonsense") != RarityRank(RarityCommon) {
		t.Error("Expected unknown rarity to rank as Common")
	}
}

func TestValidQuestStatus(t *testing.T) {
	for _, s := range []QuestStatus{QuestOngoing, QuestCompleted, QuestFailed} {
		if !ValidQuestStatus(s) {
			t.Errorf("Expected %s to be valid", s)
		}
	}
	if ValidQuestStatus("Abandoned") {
		t.Error("Expected unknown quest status to be invalid")
	}
}
