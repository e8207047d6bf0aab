// Package mock provides an in-memory database.Store for testing.
package mock

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Store is an in-memory roster store. Like the SQL backends it rejects writes
// that would give two rows the same identity.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[int64]roster.Record
	nextID int64

	// Error injection
	FetchError               error
	ListError                error
	UpsertError              error
	DeleteError              error
	UpdatePronunciationError error

	// Calls counts write calls by method name
	Calls map[string]int
}

var _ database.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tables: make(map[string]map[int64]roster.Record),
		Calls:  make(map[string]int),
	}
}

// Add inserts records as they are, assigning ids to records without one.
func (m *Store) Add(table string, records ...roster.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		if rec.ID == 0 {
			m.nextID++
			rec.ID = m.nextID
		}
		m.nextID = max(m.nextID, rec.ID)
		m.table(table)[rec.ID] = rec
	}
}

// All returns every record of the table ordered by id.
func (m *Store) All(table string) []roster.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(table)
}

func (m *Store) table(name string) map[int64]roster.Record {
	t, ok := m.tables[name]
	if !ok {
		t = make(map[int64]roster.Record)
		m.tables[name] = t
	}
	return t
}

func (m *Store) sorted(table string) []roster.Record {
	out := make([]roster.Record, 0, len(m.tables[table]))
	for _, rec := range m.tables[table] {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b roster.Record) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (m *Store) findIdentity(table string, id roster.Identity) (int64, bool) {
	for recID, rec := range m.tables[table] {
		if rec.Identity() == id {
			return recID, true
		}
	}
	return 0, false
}

func matches(rec roster.Record, f database.Filter) bool {
	if f.TeamID != "" && rec.TeamID != f.TeamID {
		return false
	}
	if f.SeasonYear != 0 && rec.SeasonYear != f.SeasonYear {
		return false
	}
	return true
}

func page(records []roster.Record, f database.Filter) []roster.Record {
	if f.Limit <= 0 {
		return records
	}
	start := min(f.Offset, len(records))
	end := min(start+f.Limit, len(records))
	return records[start:end]
}

func (m *Store) Count(ctx context.Context, table string) (int, error) {
	if err := database.ValidateTable(table); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table]), nil
}

func (m *Store) FetchPage(ctx context.Context, table string, limit, offset int) ([]roster.Record, error) {
	if m.FetchError != nil {
		return nil, m.FetchError
	}
	if err := database.ValidateTable(table); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(page(m.sorted(table), database.Filter{Limit: limit, Offset: offset})), nil
}

func (m *Store) List(ctx context.Context, table string, filter database.Filter) ([]roster.Record, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	if err := database.ValidateTable(table); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.Record
	for _, rec := range m.sorted(table) {
		if matches(rec, filter) {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(out, func(a, b roster.Record) int {
		return cmp.Or(
			cmp.Compare(a.TeamID, b.TeamID),
			cmp.Compare(a.SeasonYear, b.SeasonYear),
			cmp.Compare(a.PlayerName, b.PlayerName),
		)
	})
	return page(out, filter), nil
}

func (m *Store) ListUnenriched(ctx context.Context, table string, filter database.Filter) ([]roster.Record, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	if err := database.ValidateTable(table); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []roster.Record
	for _, rec := range m.sorted(table) {
		if rec.PhoneticName == "" && matches(rec, filter) {
			out = append(out, rec)
		}
	}
	return page(out, filter), nil
}

func (m *Store) UpsertByIdentity(ctx context.Context, table string, records []roster.Record) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["UpsertByIdentity"]++
	if m.UpsertError != nil {
		return m.UpsertError
	}

	t := m.table(table)
	for _, rec := range records {
		if id, ok := m.findIdentity(table, rec.Identity()); ok {
			existing := t[id]
			rec.ID = id
			rec.PhoneticName = existing.PhoneticName
			rec.IPAName = existing.IPAName
			rec.ChineseName = existing.ChineseName
			rec.HardwareSafeName = existing.HardwareSafeName
		} else {
			m.nextID++
			rec.ID = m.nextID
		}
		t[rec.ID] = rec
	}
	return nil
}

func (m *Store) UpsertByID(ctx context.Context, table string, records []roster.Record) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["UpsertByID"]++
	if m.UpsertError != nil {
		return m.UpsertError
	}

	t := m.table(table)
	for _, rec := range records {
		if id, ok := m.findIdentity(table, rec.Identity()); ok && id != rec.ID {
			return fmt.Errorf("duplicate identity %s (ids %d and %d)", rec.Identity(), id, rec.ID)
		}
		if existing, ok := t[rec.ID]; ok {
			rec.PhoneticName = existing.PhoneticName
			rec.IPAName = existing.IPAName
			rec.ChineseName = existing.ChineseName
			rec.HardwareSafeName = existing.HardwareSafeName
		}
		m.nextID = max(m.nextID, rec.ID)
		t[rec.ID] = rec
	}
	return nil
}

func (m *Store) DeleteByIDs(ctx context.Context, table string, ids []int64) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["DeleteByIDs"]++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	for _, id := range ids {
		delete(m.table(table), id)
	}
	return nil
}

func (m *Store) UpdatePronunciation(ctx context.Context, table string, id int64, p roster.Pronunciation) error {
	if err := database.ValidateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["UpdatePronunciation"]++
	if m.UpdatePronunciationError != nil {
		return m.UpdatePronunciationError
	}
	t := m.table(table)
	rec, ok := t[id]
	if !ok {
		return fmt.Errorf("record %d not found in %s", id, table)
	}
	rec.PhoneticName = p.Phonetic
	rec.IPAName = p.IPA
	rec.ChineseName = p.Chinese
	rec.HardwareSafeName = p.HardwareSafe
	t[id] = rec
	return nil
}

func (m *Store) Close() error {
	return nil
}
