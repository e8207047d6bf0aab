package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kozaktomas/roster-sync/internal/database"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

func insertStatement(table string, columns []string) string {
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders(len(columns)) + ")"
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// filterClause renders a WHERE clause from fixed conditions plus the filter.
func filterClause(conds []string, f database.Filter) (string, []any) {
	var args []any
	if f.TeamID != "" {
		conds = append(conds, "team_id = ?")
		args = append(args, f.TeamID)
	}
	if f.SeasonYear != 0 {
		conds = append(conds, "season_year = ?")
		args = append(args, f.SeasonYear)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// limitClause appends LIMIT/OFFSET. An offset without a limit is ignored.
func limitClause(query string, args []any, f database.Filter) (string, []any) {
	if f.Limit <= 0 {
		return query, args
	}
	query += " LIMIT ?"
	args = append(args, f.Limit)
	if f.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, f.Offset)
	}
	return query, args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func dataValues(r *roster.Record) []any {
	return []any{
		r.TeamID,
		r.SeasonYear,
		r.PlayerName,
		nullString(r.JerseyNumber),
		nullString(r.Position),
		nullString(r.Height),
		nullString(r.Weight),
		nullString(r.BirthDate),
		nullString(r.Birthplace),
		nullString(r.College),
	}
}

func scanRecord(rows *sql.Rows) (roster.Record, error) {
	var (
		rec                                         roster.Record
		jersey, position, height, weight, birthDate sql.NullString
		birthplace, college                         sql.NullString
		phonetic, ipa, chinese, hardwareSafe        sql.NullString
	)
	err := rows.Scan(
		&rec.ID, &rec.TeamID, &rec.SeasonYear, &rec.PlayerName,
		&jersey, &position, &height, &weight, &birthDate, &birthplace, &college,
		&phonetic, &ipa, &chinese, &hardwareSafe,
	)
	if err != nil {
		return roster.Record{}, fmt.Errorf("scan roster row: %w", err)
	}
	rec.JerseyNumber = jersey.String
	rec.Position = position.String
	rec.Height = height.String
	rec.Weight = weight.String
	rec.BirthDate = birthDate.String
	rec.Birthplace = birthplace.String
	rec.College = college.String
	rec.PhoneticName = phonetic.String
	rec.IPAName = ipa.String
	rec.ChineseName = chinese.String
	rec.HardwareSafeName = hardwareSafe.String
	return rec, nil
}
