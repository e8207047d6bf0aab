package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/statmuse"
)

var teamsCmd = &cobra.Command{
	Use:   "teams [league...]",
	Short: "List configured teams and their StatMuse roster URLs",
	Long: `List the teams of the configured leagues. The roster URL shown is the
one used for the given season, so slug renames can be checked before
seeding.

Examples:
  roster-sync teams nhl
  roster-sync teams nhl --season 2026 --json`,
	RunE: runTeams,
}

func init() {
	rootCmd.AddCommand(teamsCmd)

	teamsCmd.Flags().Int("season", 0, "Season used for roster URLs (default: the league's current season)")
	teamsCmd.Flags().Bool("json", false, "Output as JSON")
}

// TeamInfo describes one team of a league
type TeamInfo struct {
	League     string `json:"league"`
	ID         string `json:"id"`
	StatMuseID int    `json:"statmuse_id"`
	Season     int    `json:"season"`
	Slug       string `json:"slug"`
	RosterURL  string `json:"roster_url"`
}

func runTeams(cmd *cobra.Command, args []string) error {
	season := mustGetInt(cmd, "season")
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	leagues, err := leaguesFromArgs(cfg, args)
	if err != nil {
		return err
	}
	client, err := statmuse.NewClient(cfg.StatMuse)
	if err != nil {
		return fmt.Errorf("failed to create StatMuse client: %w", err)
	}

	var teams []TeamInfo
	for _, league := range leagues {
		s := season
		if s == 0 {
			s = league.DefaultSeason
		}
		for i := range league.Teams {
			team := &league.Teams[i]
			teams = append(teams, TeamInfo{
				League:     league.Key,
				ID:         team.ID,
				StatMuseID: team.StatMuseID,
				Season:     s,
				Slug:       team.SlugFor(s),
				RosterURL:  client.RosterURL(league.Key, team, s),
			})
		}
	}

	if jsonOutput {
		return outputJSON(teams)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEAGUE\tTEAM\tSEASON\tROSTER URL")
	for _, t := range teams {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.League, t.ID, t.Season, t.RosterURL)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d teams\n", len(teams))
	return nil
}
