package compute

import (
	"fmt"
	"strconv"
	"strings"

	"hoopsight/internal/contracts"
)

// windowLogs resolves one base-period leaf against a (possibly pre-filtered)
// snapshot view. The caller has already applied stat-level filters: h2h
// restriction, close-game restriction, side split.
func windowLogs(view *contracts.TeamSnapshot, leaf string) ([]contracts.GameLog, error) {
	switch leaf {
	case "season":
		return view.SeasonLogs(), nil
	}

	family, n, err := splitWindow(leaf)
	if err != nil {
		return nil, err
	}
	switch family {
	case "games":
		return view.LastN(n), nil
	case "games_close":
		return view.LastNClose(n), nil
	case "days":
		return view.WithinDays(n), nil
	case "months":
		return view.WithinDays(30 * n), nil
	case "last":
		return view.LastSeasons(n), nil
	default:
		return nil, fmt.Errorf("unsupported window family %q", family)
	}
}

// splitWindow splits a window instance such as "games_close_10" into its
// family and size.
func splitWindow(leaf string) (family string, n int, err error) {
	idx := strings.LastIndex(leaf, "_")
	if idx <= 0 {
		return "", 0, fmt.Errorf("malformed window period %q", leaf)
	}
	n, convErr := strconv.Atoi(leaf[idx+1:])
	if convErr != nil || n <= 0 {
		return "", 0, fmt.Errorf("malformed window period %q", leaf)
	}
	return leaf[:idx], n, nil
}

// closeOnly keeps the games decided by at most CloseGameMargin points.
func closeOnly(logs []contracts.GameLog) []contracts.GameLog {
	var out []contracts.GameLog
	for _, g := range logs {
		if m := g.Margin(); m <= contracts.CloseGameMargin && m >= -contracts.CloseGameMargin {
			out = append(out, g)
		}
	}
	return out
}
