// Package types defines the shared data structures for the dungeoncore engine.
// It holds type definitions only.
package types

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
	All    bool   // object was quantified ("all", "every", "each", "both")
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Effects []Effect
	Events  []Event
	Output  []string
}

// EntityDef is the base definition of a world entity (item, scenery, etc.).
type EntityDef struct {
	ID        string
	Kind      string              // "item", "entity"
	Props     map[string]any      // base properties from Lua
	Reactions map[string][]Effect // verb → effects run when the verb succeeds on this entity
}

// RoomDef is the base definition of a room.
type RoomDef struct {
	ID          string
	Description string
	Exits       map[string]string // direction → room_id
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title    string
	Author   string
	Version  string
	Start    string // starting room ID
	Intro    string
	Capacity int // carry weight limit, 0 = unlimited
}

// Player holds the player's runtime state.
type Player struct {
	Location  string   `json:"location"`
	Inventory []string `json:"inventory"`
}

// EntityState holds runtime overrides for an entity.
type EntityState struct {
	Location string         `json:"location,omitempty"` // overrides base location if non-empty
	Props    map[string]any `json:"props,omitempty"`    // overrides base props
}

// State is the complete mutable game state.
type State struct {
	Player     Player
	Entities   map[string]EntityState // runtime property overrides
	Flags      map[string]bool
	TurnCount  int
	CommandLog []string
}
