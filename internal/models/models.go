package models

// WorldSettings is the authoring-time configuration of a world: genre and
// setting text, the player character sheet, house rules and feature toggles.
type WorldSettings struct {
	Genre            string     `json:"genre"`
	Setting          string     `json:"setting"`
	Idea             string     `json:"idea"`
	Details          string     `json:"details"`
	Name             string     `json:"name"`
	PersonalityOuter string     `json:"personalityOuter"`
	PersonalityCore  string     `json:"personalityCore"`
	Species          string     `json:"species"`
	Gender           string     `json:"gender"`
	LinhCan          string     `json:"linhCan,omitempty"` // spirit root, cultivation worlds only
	Backstory        string     `json:"backstory"`
	Skills           []Skill    `json:"skills"`
	VoLamArts        *VoLamArts `json:"voLamArts,omitempty"`
	WritingStyle     string     `json:"writingStyle"`
	NarrativeVoice   string     `json:"narrativeVoice"`
	Difficulty       string     `json:"difficulty"`
	Allow18Plus      bool       `json:"allow18Plus"`
	EnableTimeSystem bool       `json:"enableTimeSystem"`
	LoreRules        []LoreRule `json:"loreRules"`
}

// LoreRule is a user-authored world rule injected into narration prompts.
type LoreRule struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	IsActive bool   `json:"isActive"`
}

// Skill is a named character skill.
type Skill struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	EvolutionDescription string `json:"evolutionDescription,omitempty"`
}

// VoLamArts groups the four martial technique categories of wuxia worlds.
type VoLamArts struct {
	CongPhap  string `json:"congPhap"`  // internal cultivation method
	ChieuThuc string `json:"chieuThuc"` // combat techniques
	KhiCong   string `json:"khiCong"`   // qi arts
	Thuat     string `json:"thuat"`     // auxiliary arts
}

// EffectType classifies a status effect.
type EffectType string

const (
	EffectBuff    EffectType = "buff"
	EffectDebuff  EffectType = "debuff"
	EffectInjury  EffectType = "injury"
	EffectNeutral EffectType = "neutral"
)

// ValidEffectType reports whether t is one of the known effect types.
func ValidEffectType(t EffectType) bool {
	switch t {
	case EffectBuff, EffectDebuff, EffectInjury, EffectNeutral:
		return true
	}
	return false
}

// Effect is a timed status condition on a character.
type Effect struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"` // remaining turns; 0 means until cured
	Type        EffectType `json:"type"`
	Cure        string     `json:"cure,omitempty"`
}

// Rarity is one of six ordered item tiers.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityArtifact  Rarity = "Artifact"
)

var rarityOrder = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
	RarityArtifact:  5,
}

// ValidRarity reports whether r is one of the six tiers.
func ValidRarity(r Rarity) bool {
	_, ok := rarityOrder[r]
	return ok
}

// RarityRank returns the tier position of r, Common first. Unknown rarities
// rank as Common.
func RarityRank(r Rarity) int {
	return rarityOrder[r]
}

// Item is an inventory entry.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Rarity      Rarity `json:"rarity"`
}

// Inventory holds a character's money and items.
type Inventory struct {
	Money int    `json:"money"`
	Items []Item `json:"items"`
}

// Status wraps a character's active effects.
type Status struct {
	Effects []Effect `json:"effects"`
}

// Ability is a named innate power, distinct from trained skills.
type Ability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Relationship describes how a character relates to another named entity.
type Relationship struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // e.g. "ally", "rival", "mentor"
	Description string `json:"description"`
}

// LootItem is one row of a monster loot table.
type LootItem struct {
	ItemName    string `json:"itemName"`
	Description string `json:"description"`
	DropChance  int    `json:"dropChance"` // 0-100
	MinQuantity int    `json:"minQuantity"`
	MaxQuantity int    `json:"maxQuantity"`
	Rarity      Rarity `json:"rarity"`
}

// Character is a full character sheet. The same type serves the player
// character and knowledge-base NPCs; the trailing fields are NPC-only.
type Character struct {
	Name           string         `json:"name"`
	DisplayName    string         `json:"displayName,omitempty"`
	Species        string         `json:"species"`
	Age            string         `json:"age"`
	Gender         string         `json:"gender"`
	LinhCan        string         `json:"linhCan,omitempty"`
	Personality    string         `json:"personality"`
	Description    string         `json:"description"`
	Backstory      string         `json:"backstory"`
	AdventurerRank string         `json:"adventurerRank,omitempty"`
	Status         Status         `json:"status"`
	Inventory      Inventory      `json:"inventory"`
	Skills         []Skill        `json:"skills"`
	VoLamArts      *VoLamArts     `json:"voLamArts,omitempty"`
	Abilities      []Ability      `json:"abilities"`
	Relationships  []Relationship `json:"relationships"`
	LootTable      []LootItem     `json:"lootTable,omitempty"`

	// NPC-only fields.
	Relationship *int     `json:"relationship,omitempty"` // affinity score toward the player
	Mood         string   `json:"mood,omitempty"`
	Known        bool     `json:"known,omitempty"`
	Goals        []string `json:"goals,omitempty"`
}

// KnowledgeEntity is a discovered world entity in the knowledge base.
type KnowledgeEntity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Known       bool   `json:"known"`
}

// Monster is a knowledge entity with a loot table.
type Monster struct {
	KnowledgeEntity
	LootTable []LootItem `json:"lootTable"`
}

// KnowledgeBase indexes everything the player has encountered, in six
// fixed categories.
type KnowledgeBase struct {
	PCs       []KnowledgeEntity `json:"pcs"`
	NPCs      []Character       `json:"npcs"`
	Items     []KnowledgeEntity `json:"items"`
	Locations []KnowledgeEntity `json:"locations"`
	Factions  []KnowledgeEntity `json:"factions"`
	Monsters  []Monster         `json:"monsters"`
}

// QuestStatus is the lifecycle state of a quest.
type QuestStatus string

const (
	QuestOngoing   QuestStatus = "Ongoing"
	QuestCompleted QuestStatus = "Completed"
	QuestFailed    QuestStatus = "Failed"
)

// ValidQuestStatus reports whether s is a known quest status.
func ValidQuestStatus(s QuestStatus) bool {
	switch s {
	case QuestOngoing, QuestCompleted, QuestFailed:
		return true
	}
	return false
}

// Quest is a tracked objective.
type Quest struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      QuestStatus `json:"status"`
	Reward      string      `json:"reward,omitempty"`
	Punishment  string      `json:"punishment,omitempty"`
}

// GameTime is the in-world clock. Time tracking is optional; a nil
// *GameTime on GameState means the world has it disabled.
type GameTime struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Message is a short out-of-band notice attached to a turn, e.g. "Received
// 3x Healing Herb".
type Message struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Turn is one narrated story beat plus its bookkeeping.
type Turn struct {
	ID           string    `json:"id"`
	Story        string    `json:"story"`
	Messages     []Message `json:"messages"`
	ChosenAction string    `json:"chosenAction"`
	TokenCount   int       `json:"tokenCount"`
	Summary      string    `json:"summary,omitempty"`
}

// GameAction is a suggested next action offered to the player.
type GameAction struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	TimeCost      int    `json:"timeCost,omitempty"`      // minutes
	SuccessChance int    `json:"successChance,omitempty"` // 0-100
	Benefit       string `json:"benefit,omitempty"`
	Risk          string `json:"risk,omitempty"`
}

// Memory is a fact the narrator should keep in mind. Pinned memories are
// never evicted from prompts.
type Memory struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Pinned bool   `json:"pinned"`
}

// GameState is the live session. History holds prior snapshots for
// in-session revert only; it is stripped before any state is persisted and
// rebuilt empty on load.
type GameState struct {
	SaveID          string        `json:"saveId,omitempty"`
	Title           string        `json:"title"`
	Character       Character     `json:"character"`
	Turns           []Turn        `json:"turns"`
	Actions         []GameAction  `json:"actions"`
	KnowledgeBase   KnowledgeBase `json:"knowledgeBase"`
	Quests          []Quest       `json:"quests"`
	Memories        []Memory      `json:"memories"`
	History         []GameState   `json:"history"`
	CurrentTime     *GameTime     `json:"currentTime"`
	TotalTokenCount int           `json:"totalTokenCount"`
}

// SaveFile is one persisted record: a history-stripped game state plus the
// world settings it was played under. GameState and WorldSettings are
// pointers so that a record missing either can be told apart from one
// carrying zero values.
type SaveFile struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Timestamp     string         `json:"timestamp"` // RFC 3339
	GameState     *GameState     `json:"gameState"`
	WorldSettings *WorldSettings `json:"worldSettings"`
}
