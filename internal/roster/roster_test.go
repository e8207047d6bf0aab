package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/roster-sync/internal/names"
)

func TestPadJersey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"7", "07"},
		{"0", "00"},
		{"17", "17"},
		{"07", "07"},
		{"", ""},
		{"A", "A"},
		{"--", "--"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, PadJersey(tt.input))
		})
	}
}

func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"padded", "10/13/1996", "1996-10-13"},
		{"single digit month and day", "1/5/2001", "2001-01-05"},
		{"empty", "", ""},
		{"two parts", "01/2001", ""},
		{"four parts", "1/2/3/4", ""},
		{"iso input", "2001-01-05", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseBirthDate(tt.input))
		})
	}
}

func TestFromRaw(t *testing.T) {
	raw := Raw{
		Jersey:    "9",
		Name:      "Ryan BurrR. Burr",
		Position:  "C",
		Height:    "6-1",
		Weight:    "195",
		BirthDate: "3/4/1995",
		Origin:    "Toronto, ON",
	}

	rec := FromRaw("TB", 2025, raw, OriginBirthplace, names.StatMuse)
	assert.Equal(t, "TB", rec.TeamID)
	assert.Equal(t, 2025, rec.SeasonYear)
	assert.Equal(t, "Ryan Burr", rec.PlayerName)
	assert.Equal(t, "09", rec.JerseyNumber)
	assert.Equal(t, "1995-03-04", rec.BirthDate)
	assert.Equal(t, "Toronto, ON", rec.Birthplace)
	assert.Empty(t, rec.College)
	assert.Zero(t, rec.ID)

	rec = FromRaw("BOS", 2024, Raw{Name: "Jayson Tatum", Origin: "Duke"}, OriginCollege, names.StatMuse)
	assert.Equal(t, "Duke", rec.College)
	assert.Empty(t, rec.Birthplace)
	assert.Equal(t, "Duke", rec.Origin())
}

func TestDedupe(t *testing.T) {
	records := []Record{
		{TeamID: "TB", SeasonYear: 2025, PlayerName: "Ryan Burr", JerseyNumber: "09"},
		{TeamID: "TB", SeasonYear: 2025, PlayerName: "Cam Atkinson"},
		{TeamID: "TB", SeasonYear: 2025, PlayerName: "Ryan Burr", JerseyNumber: "44"},
		{TeamID: "TB", SeasonYear: 2024, PlayerName: "Ryan Burr"},
	}

	out := Dedupe(records)
	require.Len(t, out, 3)
	assert.Equal(t, "09", out[0].JerseyNumber)
	assert.Equal(t, "Cam Atkinson", out[1].PlayerName)
	assert.Equal(t, 2024, out[2].SeasonYear)
}

func TestIdentity(t *testing.T) {
	rec := Record{ID: 3, TeamID: "TB", SeasonYear: 2025, PlayerName: "Ryan Burr"}
	assert.Equal(t, Identity{TeamID: "TB", SeasonYear: 2025, PlayerName: "Ryan Burr"}, rec.Identity())
	assert.Equal(t, "TB/2025/Ryan Burr", rec.Identity().String())
	assert.Equal(t, "RYAN BURR", HardwareSafeName(rec.PlayerName))
}
