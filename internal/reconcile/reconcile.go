// Package reconcile cleans a roster table snapshot: it canonicalizes player names and
// jersey numbers and resolves the identity collisions that canonicalization creates.
package reconcile

import (
	"cmp"
	"slices"

	"github.com/kozaktomas/roster-sync/internal/names"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Result is the classification of one snapshot.
type Result struct {
	// Updates are records whose name or jersey changed, already carrying the new values
	Updates []roster.Record `json:"updates"`
	// Deletes are ids of records that collide with a record claiming the same identity first
	Deletes []int64 `json:"deletes"`
	// Unchanged counts records left as they are
	Unchanged int `json:"unchanged"`
	// Suspicious lists untouched names that still contain an "X. " marker
	Suspicious []string `json:"suspicious,omitempty"`
}

// Reconcile classifies every record as update, delete or no-op.
//
// The identity index starts from the snapshot, so a record already holding a canonical
// identity keeps it whatever its id. Records are visited in ascending id order and the
// index is rewritten as the pass goes: among records renamed onto a free identity the
// first claimant keeps it and every later claimant is deleted. The input slice is not
// modified.
func Reconcile(records []roster.Record, n names.Normalizer) Result {
	ordered := slices.Clone(records)
	slices.SortStableFunc(ordered, func(a, b roster.Record) int {
		return cmp.Compare(a.ID, b.ID)
	})

	index := make(map[roster.Identity]int64, len(ordered))
	for i := range ordered {
		index[ordered[i].Identity()] = ordered[i].ID
	}

	var res Result
	for _, rec := range ordered {
		name := n.Normalize(rec.PlayerName)
		jersey := roster.PadJersey(rec.JerseyNumber)

		if name == rec.PlayerName && jersey == rec.JerseyNumber {
			res.Unchanged++
			if names.HasAbbrevMarker(rec.PlayerName) {
				res.Suspicious = append(res.Suspicious, rec.PlayerName)
			}
			continue
		}

		oldIdentity := rec.Identity()
		newIdentity := roster.Identity{TeamID: rec.TeamID, SeasonYear: rec.SeasonYear, PlayerName: name}

		if owner, taken := index[newIdentity]; taken && owner != rec.ID && name != rec.PlayerName {
			res.Deletes = append(res.Deletes, rec.ID)
			if index[oldIdentity] == rec.ID {
				delete(index, oldIdentity)
			}
			continue
		}

		rec.PlayerName = name
		rec.JerseyNumber = jersey
		if index[oldIdentity] == rec.ID {
			delete(index, oldIdentity)
		}
		index[newIdentity] = rec.ID
		res.Updates = append(res.Updates, rec)
	}
	return res
}

// Chunk splits items into consecutive slices of at most size elements.
// A non-positive size yields a single chunk.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
