package roster

import "github.com/kozaktomas/roster-sync/internal/names"

// OriginField names the column the last roster cell is stored in.
type OriginField string

const (
	OriginBirthplace OriginField = "birthplace"
	OriginCollege    OriginField = "college"
)

// Raw is one scraped roster row before any canonicalization.
type Raw struct {
	Jersey    string
	Name      string
	Position  string
	Height    string
	Weight    string
	BirthDate string // MM/DD/YYYY
	Origin    string
}

// FromRaw builds a canonical record for one team season.
func FromRaw(teamID string, season int, raw Raw, origin OriginField, n names.Normalizer) Record {
	rec := Record{
		TeamID:       teamID,
		SeasonYear:   season,
		PlayerName:   n.Normalize(raw.Name),
		JerseyNumber: PadJersey(raw.Jersey),
		Position:     raw.Position,
		Height:       raw.Height,
		Weight:       raw.Weight,
		BirthDate:    ParseBirthDate(raw.BirthDate),
	}
	switch origin {
	case OriginCollege:
		rec.College = raw.Origin
	default:
		rec.Birthplace = raw.Origin
	}
	return rec
}

// Dedupe drops records whose identity already appeared earlier in the batch.
// StatMuse sometimes lists a player twice for a season (traded and re-acquired).
func Dedupe(records []Record) []Record {
	seen := make(map[Identity]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		id := rec.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}
