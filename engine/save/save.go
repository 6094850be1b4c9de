// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// FormatVersion identifies the save document layout.
const FormatVersion = "1"

var (
	// ErrNotFound is returned when the named save does not exist.
	ErrNotFound = errors.New("save not found")
	// ErrCorrupt is returned when a save cannot be parsed or fails validation.
	ErrCorrupt = errors.New("save is corrupt")
	// ErrInCombat is returned when saving while a fight is in progress.
	// Fights are not persisted, so such a save would drop the enemy.
	ErrInCombat = errors.New("cannot save during a fight")
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string       `json:"version"`
	ID          string       `json:"id"`
	Game        string       `json:"game"`
	SavedAt     time.Time    `json:"saved_at"`
	Turn        int          `json:"turn"`
	Player      types.Player `json:"player"`
	RNGSeed     int64        `json:"rng_seed"`
	RNGPosition int64        `json:"rng_position"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, defs *state.Defs) ([]byte, error) {
	if state.InCombat(s) {
		return nil, ErrInCombat
	}
	data := SaveData{
		Version:     FormatVersion,
		ID:          uuid.NewString(),
		Game:        defs.Game.Title,
		SavedAt:     time.Now().UTC(),
		Turn:        s.TurnCount,
		Player:      s.Player,
		RNGSeed:     s.RNGSeed,
		RNGPosition: s.RNGPosition,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes and validates JSON bytes against the world. It never
// touches any live state.
func Load(data []byte, defs *state.Defs) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	// Ensure collections are never nil after load.
	if sd.Player.Inventory == nil {
		sd.Player.Inventory = []types.Item{}
	}
	if sd.Player.Quests == nil {
		sd.Player.Quests = map[string]types.QuestState{}
	}
	if err := validate(&sd, defs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &sd, nil
}

func validate(sd *SaveData, defs *state.Defs) error {
	p := sd.Player
	switch {
	case sd.Version == "":
		return errors.New("missing version")
	case sd.Version != FormatVersion:
		return fmt.Errorf("unsupported version %q", sd.Version)
	case p.Level < 1:
		return fmt.Errorf("level %d is below 1", p.Level)
	case p.Experience < 0:
		return fmt.Errorf("negative experience %d", p.Experience)
	case p.NextLevel < 1:
		return fmt.Errorf("level threshold %d is below 1", p.NextLevel)
	case p.MaxHealth < 1:
		return fmt.Errorf("max health %d is below 1", p.MaxHealth)
	case p.Health < 0 || p.Health > p.MaxHealth:
		return fmt.Errorf("health %d outside 0-%d", p.Health, p.MaxHealth)
	case p.Attack < 0 || p.Defense < 0:
		return errors.New("negative attack or defense")
	case p.Gold < 0:
		return fmt.Errorf("negative gold %d", p.Gold)
	}
	if _, ok := defs.Locations[p.Location]; !ok {
		return fmt.Errorf("unknown location %q", p.Location)
	}
	for _, it := range p.Inventory {
		if err := validateItem(it); err != nil {
			return fmt.Errorf("inventory: %w", err)
		}
	}
	if err := validateSlot("weapon", p.Weapon, types.ItemWeapon); err != nil {
		return err
	}
	if err := validateSlot("armor", p.Armor, types.ItemArmor); err != nil {
		return err
	}
	for id, qs := range p.Quests {
		if _, ok := defs.Quests[id]; !ok {
			return fmt.Errorf("unknown quest %q", id)
		}
		if qs.Progress < 0 {
			return fmt.Errorf("quest %q has negative progress", id)
		}
	}
	return nil
}

func validateItem(it types.Item) error {
	switch it.Kind {
	case types.ItemConsumable, types.ItemWeapon, types.ItemArmor:
	default:
		return fmt.Errorf("item %q has unknown type %q", it.ID, it.Kind)
	}
	if it.Value < 0 {
		return fmt.Errorf("item %q has negative value %d", it.ID, it.Value)
	}
	if it.Price < 0 {
		return fmt.Errorf("item %q has negative price %d", it.ID, it.Price)
	}
	return nil
}

// validateSlot checks an equipped item. An empty slot is fine.
func validateSlot(slot string, it *types.Item, want types.ItemKind) error {
	if it == nil {
		return nil
	}
	if err := validateItem(*it); err != nil {
		return fmt.Errorf("%s slot: %w", slot, err)
	}
	if it.Kind != want {
		return fmt.Errorf("%s slot holds %s %q", slot, it.Kind, it.ID)
	}
	return nil
}

// ApplySave replaces the state with loaded save data. Any fight or shop
// visit in progress is abandoned.
func ApplySave(s *types.State, sd *SaveData) {
	s.Player = sd.Player
	s.Mode = types.ModeExplore
	s.Combat = nil
	s.Pending = ""
	s.TurnCount = sd.Turn
	s.RNGSeed = sd.RNGSeed
	s.RNGPosition = sd.RNGPosition
}

// Path returns the file a named save lives in.
func Path(dir, name string) string {
	if name == "" {
		name = "quicksave"
	}
	return filepath.Join(dir, name+".json")
}

// WriteFile saves the state under dir/name.json and returns the path.
func WriteFile(dir, name string, s *types.State, defs *state.Defs) (string, error) {
	data, err := Save(s, defs)
	if err != nil {
		return "", fmt.Errorf("encoding save: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating save directory: %w", err)
	}
	path := Path(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ReadFile reads and validates dir/name.json.
func ReadFile(dir, name string, defs *state.Defs) (*SaveData, error) {
	path := Path(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Load(data, defs)
}
