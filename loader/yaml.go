package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// yamlWorld is the document layout of a YAML world file. Every section is
// optional so a world can be split across files.
type yamlWorld struct {
	Game      *yamlGame               `yaml:"game"`
	Locations map[string]yamlLocation `yaml:"locations"`
	Items     map[string]yamlItem     `yaml:"items"`
	Enemies   map[string]yamlEnemy    `yaml:"enemies"`
	Quests    map[string]yamlQuest    `yaml:"quests"`
}

type yamlGame struct {
	Title   string     `yaml:"title"`
	Author  string     `yaml:"author"`
	Version string     `yaml:"version"`
	Start   string     `yaml:"start"`
	Respawn string     `yaml:"respawn"`
	Intro   string     `yaml:"intro"`
	Player  yamlPlayer `yaml:"player"`
}

type yamlPlayer struct {
	Name      string   `yaml:"name"`
	Health    int      `yaml:"health"`
	Attack    int      `yaml:"attack"`
	Defense   int      `yaml:"defense"`
	Gold      int      `yaml:"gold"`
	Inventory []string `yaml:"inventory"`
}

type yamlLocation struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Exits       map[string]string `yaml:"exits"`
	Shop        []string          `yaml:"shop"`
	Enemies     []string          `yaml:"enemies"`
	Safe        bool              `yaml:"safe"`
}

type yamlItem struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value int    `yaml:"value"`
	Price int    `yaml:"price"`
}

type yamlEnemy struct {
	Name       string `yaml:"name"`
	Level      int    `yaml:"level"`
	Health     int    `yaml:"health"`
	Attack     int    `yaml:"attack"`
	Defense    int    `yaml:"defense"`
	Gold       int    `yaml:"gold"`
	Experience int    `yaml:"experience"`
}

type yamlQuest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Target      string `yaml:"target"`
	Count       int    `yaml:"count"`
	Reward      int    `yaml:"reward"`
}

// loadYAML decodes one YAML world file and adds its contents to defs.
// Unknown keys are rejected so typos surface at load time.
func loadYAML(file string, data []byte, defs *state.Defs, seen origins) error {
	var w yamlWorld
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	if g := w.Game; g != nil {
		if err := seen.claim("Game", "", file); err != nil {
			return err
		}
		defs.Game = types.GameDef{
			Title:   g.Title,
			Author:  g.Author,
			Version: g.Version,
			Start:   g.Start,
			Respawn: g.Respawn,
			Intro:   g.Intro,
			Player: types.PlayerDef{
				Name:      g.Player.Name,
				Health:    g.Player.Health,
				Attack:    g.Player.Attack,
				Defense:   g.Player.Defense,
				Gold:      g.Player.Gold,
				Inventory: g.Player.Inventory,
			},
		}
	}

	for id, l := range w.Locations {
		if err := seen.claim("Location", id, file); err != nil {
			return err
		}
		defs.Locations[id] = types.LocationDef{
			ID:          id,
			Name:        nameOr(l.Name, id),
			Description: l.Description,
			Exits:       lowerExits(l.Exits),
			Shop:        l.Shop,
			Enemies:     l.Enemies,
			Safe:        l.Safe,
		}
	}

	for id, it := range w.Items {
		if err := seen.claim("Item", id, file); err != nil {
			return err
		}
		defs.Items[id] = types.Item{
			ID:    id,
			Name:  nameOr(it.Name, id),
			Kind:  types.ItemKind(it.Type),
			Value: it.Value,
			Price: it.Price,
		}
	}

	for id, e := range w.Enemies {
		if err := seen.claim("Enemy", id, file); err != nil {
			return err
		}
		defs.Enemies[id] = types.EnemyDef{
			ID:         id,
			Name:       nameOr(e.Name, id),
			Level:      e.Level,
			Health:     e.Health,
			Attack:     e.Attack,
			Defense:    e.Defense,
			Gold:       e.Gold,
			Experience: e.Experience,
		}
	}

	for id, q := range w.Quests {
		if err := seen.claim("Quest", id, file); err != nil {
			return err
		}
		defs.Quests[id] = types.QuestDef{
			ID:          id,
			Name:        nameOr(q.Name, id),
			Description: q.Description,
			Target:      q.Target,
			Count:       q.Count,
			Reward:      q.Reward,
		}
	}

	return nil
}
