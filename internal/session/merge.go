package session

import (
	"encoding/json"
	"strings"

	"github.com/minhvu/taleforge/internal/hydrate"
	"github.com/minhvu/taleforge/internal/ident"
	"github.com/minhvu/taleforge/internal/models"
)

// minutes per in-game day/month follow a simple 30-day game calendar.
const (
	minutesPerHour  = 60
	hoursPerDay     = 24
	daysPerMonth    = 30
	monthsPerYear   = 12
	maxHistoryDepth = 20
)

// ApplyTurn merges a narrated turn into the live state. A history snapshot
// is taken first so the turn can be reverted in-session.
func (s *Session) ApplyTurn(update models.TurnUpdate) error {
	if s.GameState == nil {
		return ErrNoActiveGame
	}
	s.snapshot()

	gs := s.GameState

	turn := models.Turn{
		ID:           ident.New("turn"),
		Story:        update.Story,
		ChosenAction: update.ChosenAction,
		TokenCount:   update.TokenCount,
		Messages:     []models.Message{},
	}
	for _, text := range update.Messages {
		turn.Messages = append(turn.Messages, models.Message{ID: ident.New("msg"), Text: text})
	}
	gs.Turns = append(gs.Turns, turn)
	gs.TotalTokenCount += update.TokenCount

	gs.Actions = []models.GameAction{}
	for _, a := range update.Actions {
		if a.ID == "" {
			a.ID = ident.New("action")
		}
		gs.Actions = append(gs.Actions, a)
	}

	mergeKnowledge(&gs.KnowledgeBase, update.Knowledge)
	mergeQuests(gs, update.QuestUpdates)
	mergeInventory(&gs.Character.Inventory, update)
	mergeEffects(&gs.Character.Status, update)

	for _, text := range update.Memories {
		gs.Memories = append(gs.Memories, models.Memory{ID: ident.New("memory"), Text: text})
	}

	if update.TimeAdvance > 0 && gs.CurrentTime != nil {
		advanceTime(gs.CurrentTime, update.TimeAdvance)
	}
	return nil
}

// Revert restores the most recent history snapshot, undoing the last turn.
// Returns false when there is nothing to revert to.
func (s *Session) Revert() bool {
	if s.GameState == nil || len(s.GameState.History) == 0 {
		return false
	}
	history := s.GameState.History
	prev := history[len(history)-1]
	prev.History = history[:len(history)-1]
	prev.SaveID = s.GameState.SaveID
	s.GameState = &prev
	return true
}

// snapshot appends a history-stripped deep copy of the state for revert.
// Depth is bounded; the oldest snapshot falls off.
func (s *Session) snapshot() {
	snap := cloneState(*s.GameState)
	snap.History = []models.GameState{}
	history := append(s.GameState.History, snap)
	if len(history) > maxHistoryDepth {
		history = history[len(history)-maxHistoryDepth:]
	}
	s.GameState.History = history
}

// cloneState deep-copies a game state via a JSON round trip. The model is
// plain data; the round trip cannot fail.
func cloneState(gs models.GameState) models.GameState {
	data, _ := json.Marshal(gs)
	var out models.GameState
	_ = json.Unmarshal(data, &out)
	return out
}

func mergeKnowledge(kb *models.KnowledgeBase, u models.KnowledgeUpdate) {
	kb.PCs = mergeEntities(kb.PCs, u.PCs)
	kb.Items = mergeEntities(kb.Items, u.Items)
	kb.Locations = mergeEntities(kb.Locations, u.Locations)
	kb.Factions = mergeEntities(kb.Factions, u.Factions)

	for _, npc := range u.NPCs {
		if npc.Name == "" {
			continue
		}
		if i := findCharacter(kb.NPCs, npc.Name); i >= 0 {
			existing := &kb.NPCs[i]
			existing.Known = existing.Known || npc.Known
			if npc.Description != "" {
				existing.Description = npc.Description
			}
			if npc.Mood != "" {
				existing.Mood = npc.Mood
			}
			if npc.Relationship != nil {
				existing.Relationship = npc.Relationship
			}
			continue
		}
		kb.NPCs = append(kb.NPCs, hydrate.Character(npc))
	}

	for _, m := range u.Monsters {
		if m.Name == "" {
			continue
		}
		if i := findMonster(kb.Monsters, m.Name); i >= 0 {
			kb.Monsters[i].Known = kb.Monsters[i].Known || m.Known
			if m.Description != "" {
				kb.Monsters[i].Description = m.Description
			}
			if len(m.LootTable) > 0 {
				kb.Monsters[i].LootTable = m.LootTable
			}
			continue
		}
		if m.LootTable == nil {
			m.LootTable = []models.LootItem{}
		}
		kb.Monsters = append(kb.Monsters, m)
	}
}

func mergeEntities(existing, incoming []models.KnowledgeEntity) []models.KnowledgeEntity {
	for _, e := range incoming {
		if e.Name == "" {
			continue
		}
		if i := findEntity(existing, e.Name); i >= 0 {
			existing[i].Known = existing[i].Known || e.Known
			if e.Description != "" {
				existing[i].Description = e.Description
			}
			continue
		}
		existing = append(existing, e)
	}
	return existing
}

func mergeQuests(gs *models.GameState, updates []models.QuestUpdate) {
	for _, u := range updates {
		if u.Name == "" {
			continue
		}
		if i := findQuest(gs.Quests, u.Name); i >= 0 {
			q := &gs.Quests[i]
			if u.Description != "" {
				q.Description = u.Description
			}
			if models.ValidQuestStatus(u.Status) {
				q.Status = u.Status
			}
			if u.Reward != "" {
				q.Reward = u.Reward
			}
			if u.Punishment != "" {
				q.Punishment = u.Punishment
			}
			continue
		}
		status := u.Status
		if !models.ValidQuestStatus(status) {
			status = models.QuestOngoing
		}
		gs.Quests = append(gs.Quests, models.Quest{
			ID:          ident.New("quest"),
			Name:        u.Name,
			Description: u.Description,
			Status:      status,
			Reward:      u.Reward,
			Punishment:  u.Punishment,
		})
	}
}

func mergeInventory(inv *models.Inventory, update models.TurnUpdate) {
	for _, item := range update.ItemsGained {
		if item.Name == "" || item.Quantity <= 0 {
			continue
		}
		if !models.ValidRarity(item.Rarity) {
			item.Rarity = models.RarityCommon
		}
		if i := findItem(inv.Items, item.Name); i >= 0 {
			inv.Items[i].Quantity += item.Quantity
			continue
		}
		inv.Items = append(inv.Items, item)
	}

	for _, item := range update.ItemsLost {
		if item.Name == "" || item.Quantity <= 0 {
			continue
		}
		i := findItem(inv.Items, item.Name)
		if i < 0 {
			continue
		}
		inv.Items[i].Quantity -= item.Quantity
		if inv.Items[i].Quantity <= 0 {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
		}
	}

	inv.Money += update.MoneyDelta
	if inv.Money < 0 {
		inv.Money = 0
	}
}

func mergeEffects(status *models.Status, update models.TurnUpdate) {
	for _, name := range update.EffectsRemoved {
		for i := range status.Effects {
			if strings.EqualFold(status.Effects[i].Name, name) {
				status.Effects = append(status.Effects[:i], status.Effects[i+1:]...)
				break
			}
		}
	}
	for _, e := range update.EffectsAdded {
		if e.Name == "" {
			continue
		}
		if !models.ValidEffectType(e.Type) {
			e.Type = models.EffectNeutral
		}
		status.Effects = append(status.Effects, e)
	}
}

func advanceTime(t *models.GameTime, minutes int) {
	t.Minute += minutes
	t.Hour += t.Minute / minutesPerHour
	t.Minute %= minutesPerHour
	t.Day += t.Hour / hoursPerDay
	t.Hour %= hoursPerDay
	// Day and month are 1-based.
	t.Month += (t.Day - 1) / daysPerMonth
	t.Day = (t.Day-1)%daysPerMonth + 1
	t.Year += (t.Month - 1) / monthsPerYear
	t.Month = (t.Month-1)%monthsPerYear + 1
}

func findEntity(list []models.KnowledgeEntity, name string) int {
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return i
		}
	}
	return -1
}

func findCharacter(list []models.Character, name string) int {
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return i
		}
	}
	return -1
}

func findMonster(list []models.Monster, name string) int {
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return i
		}
	}
	return -1
}

func findQuest(list []models.Quest, name string) int {
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return i
		}
	}
	return -1
}

func findItem(list []models.Item, name string) int {
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return i
		}
	}
	return -1
}
