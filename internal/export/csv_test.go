package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/roster-sync/internal/roster"
)

func TestWriteCSV(t *testing.T) {
	records := []roster.Record{
		{TeamID: "tampa-bay-lightning", SeasonYear: 2025, PlayerName: "Ryan Burr", JerseyNumber: "09", Position: "C", Height: "6-1", Weight: "195", BirthDate: "1995-03-04", Birthplace: "Toronto, ON"},
		{TeamID: "tampa-bay-lightning", SeasonYear: 2025, PlayerName: "Victor Hedman", JerseyNumber: "77", Position: "D", Birthplace: "Ornskoldsvik, SWE"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, roster.OriginBirthplace))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "team_id,season_year,player_name,jersey_number,position,height,weight,birth_date,birthplace", lines[0])
	assert.Equal(t, `tampa-bay-lightning,2025,Ryan Burr,09,C,6-1,195,1995-03-04,"Toronto, ON"`, lines[1])
	assert.Equal(t, `tampa-bay-lightning,2025,Victor Hedman,77,D,,,,"Ornskoldsvik, SWE"`, lines[2])
}

func TestWriteCSV_College(t *testing.T) {
	records := []roster.Record{
		{TeamID: "boston-celtics", SeasonYear: 2026, PlayerName: "Jayson Tatum", JerseyNumber: "00", College: "Duke", Birthplace: "St. Louis, MO"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, roster.OriginCollege))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], ",college"))
	assert.Equal(t, "boston-celtics,2026,Jayson Tatum,00,,,,,Duke", lines[1])
}

func TestWriter_Streaming(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, roster.OriginBirthplace)

	require.NoError(t, w.Write([]roster.Record{{TeamID: "a", SeasonYear: 2024, PlayerName: "One"}}))
	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Write([]roster.Record{{TeamID: "a", SeasonYear: 2025, PlayerName: "Two"}}))
	require.NoError(t, w.Flush())

	assert.Equal(t, 2, w.Rows())
	assert.Equal(t, 1, strings.Count(buf.String(), "team_id,"), "header written once")
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 3)
}

func TestWriter_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, "").Flush())
	assert.Equal(t, strings.Join(Header(roster.OriginBirthplace), ",")+"\n", buf.String())
}
