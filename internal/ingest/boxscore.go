package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hoopsight/internal/contracts"
)

// statColumns maps the box score table's data-stat attributes to the
// catalog's db_field names. Points are lifted onto the GameLog directly
// and are not repeated here.
var statColumns = map[string]string{
	"fg":  "fgm",
	"fga": "fga",
	"fg3": "fg3m",
	"3pa": "fg3a",
	"ft":  "ftm",
	"fta": "fta",
	"orb": "oreb",
	"drb": "dreb",
	"trb": "reb",
	"ast": "ast",
	"stl": "stl",
	"blk": "blk",
	"tov": "tov",
	"pf":  "pf",
}

// parseScoreboard extracts the game IDs linked from a daily scoreboard
// page. Each game summary links its box score as /boxscores/<id>.html.
func parseScoreboard(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	doc.Find("div.game_summary a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		rest, found := strings.CutPrefix(href, "/boxscores/")
		if !found {
			return
		}
		id, found := strings.CutSuffix(rest, ".html")
		if !found || id == "" || strings.Contains(id, "/") {
			return
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	})
	return ids, nil
}

// ParseBoxScore parses one box score page into the two teams' game logs.
// Each team has a basic stats table with id "box-<TEAM>-game-basic"; the
// away table comes first and the home table second, and team totals sit
// in the table's footer row.
func ParseBoxScore(html, gameID string, season int, date time.Time) ([]contracts.GameLog, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	type teamTotals struct {
		team  string
		stats map[string]float64
	}
	var teams []teamTotals

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		id, ok := table.Attr("id")
		if !ok {
			return
		}
		rest, found := strings.CutPrefix(id, "box-")
		if !found {
			return
		}
		team, found := strings.CutSuffix(rest, "-game-basic")
		if !found || team == "" {
			return
		}

		totals := make(map[string]float64)
		table.Find("tfoot td").Each(func(_ int, cell *goquery.Selection) {
			stat, ok := cell.Attr("data-stat")
			if !ok {
				return
			}
			value, ok := parseCell(cell.Text())
			if !ok {
				return
			}
			totals[stat] = value
		})
		teams = append(teams, teamTotals{team: team, stats: totals})
	})

	if len(teams) != 2 {
		return nil, fmt.Errorf("expected 2 team tables, found %d", len(teams))
	}

	logs := make([]contracts.GameLog, 0, 2)
	for i, t := range teams {
		points, ok := t.stats["pts"]
		if !ok {
			return nil, fmt.Errorf("team %s: no points total", t.team)
		}
		opp := teams[1-i]
		oppPoints, ok := opp.stats["pts"]
		if !ok {
			return nil, fmt.Errorf("team %s: no points total", opp.team)
		}

		stats := make(map[string]float64, len(statColumns))
		for column, field := range statColumns {
			if value, ok := t.stats[column]; ok {
				stats[field] = value
			}
		}

		logs = append(logs, contracts.GameLog{
			GameID:        gameID,
			Season:        season,
			Date:          date,
			Team:          t.team,
			Opponent:      opp.team,
			Home:          i == 1, // away table first, home second
			Points:        points,
			PointsAllowed: oppPoints,
			Stats:         stats,
		})
	}
	return logs, nil
}

// parseCell parses one numeric table cell. Empty cells and dashes mean
// the stat was not tracked; percentages and totals both come through as
// plain floats.
func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
