package models

// QuestUpdate changes an existing quest by name or introduces a new one.
type QuestUpdate struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Status      QuestStatus `json:"status,omitempty"`
	Reward      string      `json:"reward,omitempty"`
	Punishment  string      `json:"punishment,omitempty"`
}

// KnowledgeUpdate carries newly revealed world entities.
type KnowledgeUpdate struct {
	PCs       []KnowledgeEntity `json:"pcs,omitempty"`
	NPCs      []Character       `json:"npcs,omitempty"`
	Items     []KnowledgeEntity `json:"items,omitempty"`
	Locations []KnowledgeEntity `json:"locations,omitempty"`
	Factions  []KnowledgeEntity `json:"factions,omitempty"`
	Monsters  []Monster         `json:"monsters,omitempty"`
}

// TurnUpdate is the structured outcome of one narrated turn: the story
// text plus every state delta the narrator declared. It is merged into the
// live GameState by the session, never applied piecemeal.
type TurnUpdate struct {
	Story          string          `json:"story"`
	ChosenAction   string          `json:"chosenAction"`
	Messages       []string        `json:"messages,omitempty"`
	Actions        []GameAction    `json:"actions"`
	Knowledge      KnowledgeUpdate `json:"knowledge,omitempty"`
	QuestUpdates   []QuestUpdate   `json:"questUpdates,omitempty"`
	ItemsGained    []Item          `json:"itemsGained,omitempty"`
	ItemsLost      []Item          `json:"itemsLost,omitempty"`
	MoneyDelta     int             `json:"moneyDelta,omitempty"`
	EffectsAdded   []Effect        `json:"effectsAdded,omitempty"`
	EffectsRemoved []string        `json:"effectsRemoved,omitempty"`
	Memories       []string        `json:"memories,omitempty"`
	TimeAdvance    int             `json:"timeAdvance,omitempty"` // minutes
	TokenCount     int             `json:"-"`                     // filled from usage metadata, not the model
}
