// Package roster holds the roster record model shared by ingestion, cleanup and the read API.
package roster

import (
	"fmt"
	"strings"
)

// Identity is the de-facto primary key of a roster entry within one league table.
type Identity struct {
	TeamID     string
	SeasonYear int
	PlayerName string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%d/%s", id.TeamID, id.SeasonYear, id.PlayerName)
}

// Record is a single roster row. Empty strings stand for absent values.
type Record struct {
	ID           int64  `json:"id"`
	TeamID       string `json:"team_id"`
	SeasonYear   int    `json:"season_year"`
	PlayerName   string `json:"player_name"`
	JerseyNumber string `json:"jersey_number,omitempty"`
	Position     string `json:"position,omitempty"`
	Height       string `json:"height,omitempty"`
	Weight       string `json:"weight,omitempty"`
	BirthDate    string `json:"birth_date,omitempty"` // YYYY-MM-DD
	Birthplace   string `json:"birthplace,omitempty"`
	College      string `json:"college,omitempty"`

	// Pronunciation data written by the enrichment pass
	PhoneticName     string `json:"phonetic_name,omitempty"`
	IPAName          string `json:"ipa_name,omitempty"`
	ChineseName      string `json:"chinese_name,omitempty"`
	HardwareSafeName string `json:"hardware_safe_name,omitempty"`
}

// Identity returns the (team, season, player) key of the record.
func (r *Record) Identity() Identity {
	return Identity{TeamID: r.TeamID, SeasonYear: r.SeasonYear, PlayerName: r.PlayerName}
}

// Origin returns the birthplace or, for leagues that track it instead, the college.
func (r *Record) Origin() string {
	if r.Birthplace != "" {
		return r.Birthplace
	}
	return r.College
}

// Pronunciation is the AI generated rendering of a player's name.
type Pronunciation struct {
	Phonetic     string `json:"phonetic"`
	IPA          string `json:"ipa"`
	Chinese      string `json:"chinese"`
	HardwareSafe string `json:"-"`
}

// HardwareSafeName is the upper-cased form shown on hardware displays.
func HardwareSafeName(playerName string) string {
	return strings.ToUpper(playerName)
}
