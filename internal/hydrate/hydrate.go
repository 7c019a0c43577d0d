// Package hydrate normalizes partial or legacy game data into complete,
// schema-conformant structures. Missing fields become documented defaults,
// nil collections become empty ones, and every rule, skill, quest, turn and
// memory ends up with a stable identifier. Hydration is pure and total: it
// performs no I/O and never fails, and applying it twice yields the same
// result as applying it once.
package hydrate

import (
	"github.com/minhvu/taleforge/internal/ident"
	"github.com/minhvu/taleforge/internal/models"
)

// WorldSettings fills in every missing field of a world configuration.
// Existing identifiers on skills and lore rules are preserved verbatim;
// absent ones are generated.
func WorldSettings(ws models.WorldSettings) models.WorldSettings {
	ws.Skills = skills(ws.Skills)
	ws.LoreRules = loreRules(ws.LoreRules)
	return ws
}

// GameState fills in every missing field of a game state, seeding an empty
// character sheet from the world settings. History is normalized to a
// present-but-possibly-empty slice and its entries are left untouched.
func GameState(gs models.GameState, ws models.WorldSettings) models.GameState {
	gs.Character = playerCharacter(gs.Character, ws)

	if gs.Title == "" {
		gs.Title = ws.Idea
	}
	if gs.Title == "" {
		gs.Title = "Untitled Adventure"
	}

	gs.Turns = turns(gs.Turns)
	gs.Actions = actions(gs.Actions)
	gs.KnowledgeBase = knowledgeBase(gs.KnowledgeBase)
	gs.Quests = quests(gs.Quests)
	gs.Memories = memories(gs.Memories)
	if gs.History == nil {
		gs.History = []models.GameState{}
	}
	gs.CurrentTime = gameTime(gs.CurrentTime)
	if gs.TotalTokenCount < 0 {
		gs.TotalTokenCount = 0
	}
	return gs
}

// Character normalizes a full character sheet without seeding it from world
// settings. Knowledge-base NPCs go through this path.
func Character(ch models.Character) models.Character {
	ch.Status.Effects = effects(ch.Status.Effects)
	ch.Inventory = inventory(ch.Inventory)
	ch.Skills = skills(ch.Skills)
	if ch.Abilities == nil {
		ch.Abilities = []models.Ability{}
	}
	if ch.Relationships == nil {
		ch.Relationships = []models.Relationship{}
	}
	ch.LootTable = lootTable(ch.LootTable)
	return ch
}

func playerCharacter(ch models.Character, ws models.WorldSettings) models.Character {
	if ch.Name == "" {
		ch.Name = ws.Name
	}
	if ch.Species == "" {
		ch.Species = ws.Species
	}
	if ch.Gender == "" {
		ch.Gender = ws.Gender
	}
	if ch.LinhCan == "" {
		ch.LinhCan = ws.LinhCan
	}
	if ch.Personality == "" {
		ch.Personality = ws.PersonalityOuter
	}
	if ch.Backstory == "" {
		ch.Backstory = ws.Backstory
	}
	if len(ch.Skills) == 0 && len(ws.Skills) > 0 {
		ch.Skills = append([]models.Skill(nil), ws.Skills...)
	}
	if ch.VoLamArts == nil && ws.VoLamArts != nil {
		arts := *ws.VoLamArts
		ch.VoLamArts = &arts
	}
	return Character(ch)
}

func skills(in []models.Skill) []models.Skill {
	out := make([]models.Skill, 0, len(in))
	for _, s := range in {
		if s.ID == "" {
			s.ID = ident.New("skill")
		}
		out = append(out, s)
	}
	return out
}

func loreRules(in []models.LoreRule) []models.LoreRule {
	out := make([]models.LoreRule, 0, len(in))
	for _, r := range in {
		if r.ID == "" {
			r.ID = ident.New("rule")
		}
		out = append(out, r)
	}
	return out
}

func effects(in []models.Effect) []models.Effect {
	out := make([]models.Effect, 0, len(in))
	for _, e := range in {
		if !models.ValidEffectType(e.Type) {
			e.Type = models.EffectNeutral
		}
		if e.Duration < 0 {
			e.Duration = 0
		}
		out = append(out, e)
	}
	return out
}

func inventory(in models.Inventory) models.Inventory {
	if in.Money < 0 {
		in.Money = 0
	}
	items := make([]models.Item, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 0 {
			it.Quantity = 0
		}
		if !models.ValidRarity(it.Rarity) {
			it.Rarity = models.RarityCommon
		}
		items = append(items, it)
	}
	in.Items = items
	return in
}

func lootTable(in []models.LootItem) []models.LootItem {
	if in == nil {
		return nil // optional on characters; absent stays absent
	}
	out := make([]models.LootItem, 0, len(in))
	for _, l := range in {
		if !models.ValidRarity(l.Rarity) {
			l.Rarity = models.RarityCommon
		}
		if l.DropChance < 0 {
			l.DropChance = 0
		}
		if l.DropChance > 100 {
			l.DropChance = 100
		}
		if l.MinQuantity < 0 {
			l.MinQuantity = 0
		}
		if l.MaxQuantity < l.MinQuantity {
			l.MaxQuantity = l.MinQuantity
		}
		out = append(out, l)
	}
	return out
}

func turns(in []models.Turn) []models.Turn {
	out := make([]models.Turn, 0, len(in))
	for _, t := range in {
		if t.ID == "" {
			t.ID = ident.New("turn")
		}
		msgs := make([]models.Message, 0, len(t.Messages))
		for _, m := range t.Messages {
			if m.ID == "" {
				m.ID = ident.New("msg")
			}
			msgs = append(msgs, m)
		}
		t.Messages = msgs
		if t.TokenCount < 0 {
			t.TokenCount = 0
		}
		out = append(out, t)
	}
	return out
}

func actions(in []models.GameAction) []models.GameAction {
	out := make([]models.GameAction, 0, len(in))
	for _, a := range in {
		if a.ID == "" {
			a.ID = ident.New("action")
		}
		out = append(out, a)
	}
	return out
}

func knowledgeBase(kb models.KnowledgeBase) models.KnowledgeBase {
	if kb.PCs == nil {
		kb.PCs = []models.KnowledgeEntity{}
	}
	npcs := make([]models.Character, 0, len(kb.NPCs))
	for _, npc := range kb.NPCs {
		npcs = append(npcs, Character(npc))
	}
	kb.NPCs = npcs
	if kb.Items == nil {
		kb.Items = []models.KnowledgeEntity{}
	}
	if kb.Locations == nil {
		kb.Locations = []models.KnowledgeEntity{}
	}
	if kb.Factions == nil {
		kb.Factions = []models.KnowledgeEntity{}
	}
	monsters := make([]models.Monster, 0, len(kb.Monsters))
	for _, m := range kb.Monsters {
		if m.LootTable == nil {
			m.LootTable = []models.LootItem{}
		} else {
			m.LootTable = lootTable(m.LootTable)
		}
		monsters = append(monsters, m)
	}
	kb.Monsters = monsters
	return kb
}

func quests(in []models.Quest) []models.Quest {
	out := make([]models.Quest, 0, len(in))
	for _, q := range in {
		if q.ID == "" {
			q.ID = ident.New("quest")
		}
		if !models.ValidQuestStatus(q.Status) {
			q.Status = models.QuestOngoing
		}
		out = append(out, q)
	}
	return out
}

func memories(in []models.Memory) []models.Memory {
	out := make([]models.Memory, 0, len(in))
	for _, m := range in {
		if m.ID == "" {
			m.ID = ident.New("memory")
		}
		out = append(out, m)
	}
	return out
}

// gameTime passes a well-formed clock through unchanged and drops anything
// out of range. Time tracking is optional, so nil stays nil.
func gameTime(t *models.GameTime) *models.GameTime {
	if t == nil {
		return nil
	}
	if t.Month < 1 || t.Month > 12 {
		return nil
	}
	if t.Day < 1 || t.Day > 31 {
		return nil
	}
	if t.Hour < 0 || t.Hour > 23 {
		return nil
	}
	if t.Minute < 0 || t.Minute > 59 {
		return nil
	}
	return t
}
