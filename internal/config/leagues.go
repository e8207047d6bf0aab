package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// League describes one StatMuse league and the table its rosters live in.
type League struct {
	Key           string `yaml:"key"`
	Name          string `yaml:"name"`
	Table         string `yaml:"table"`
	Origin        string `yaml:"origin"` // birthplace or college
	DefaultSeason int    `yaml:"default_season"`
	Teams         []Team `yaml:"teams"`
}

type Team struct {
	ID         string       `yaml:"id"`
	Slug       string       `yaml:"slug"`
	StatMuseID int          `yaml:"statmuse_id"`
	Renames    []SlugRename `yaml:"renames,omitempty"`
}

// SlugRename switches a team's URL slug from FromSeason on (relocations, rebrands).
type SlugRename struct {
	FromSeason int    `yaml:"from_season"`
	Slug       string `yaml:"slug"`
}

// SlugFor returns the URL slug StatMuse uses for the team in the given season.
func (t *Team) SlugFor(season int) string {
	slug := t.Slug
	best := 0
	for _, r := range t.Renames {
		if season >= r.FromSeason && r.FromSeason > best {
			slug = r.Slug
			best = r.FromSeason
		}
	}
	return slug
}

// Team looks up a team by id.
func (l *League) Team(id string) (*Team, bool) {
	for i := range l.Teams {
		if l.Teams[i].ID == id {
			return &l.Teams[i], true
		}
	}
	return nil, false
}

func parseLeagues(data []byte) ([]League, error) {
	var doc struct {
		Leagues []League `yaml:"leagues"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for _, l := range doc.Leagues {
		if l.Key == "" || l.Table == "" {
			return nil, errors.New("league without key or table")
		}
		if l.Origin != "birthplace" && l.Origin != "college" {
			return nil, fmt.Errorf("league %s: invalid origin %q", l.Key, l.Origin)
		}
	}
	return doc.Leagues, nil
}
