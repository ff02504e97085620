package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hoopsight/internal/ingest"
	"hoopsight/pkg/httputil"
	"hoopsight/pkg/metrics"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Raw data ingestion",
	Long: `Pull raw game data from the upstream sources.

Subcommands:
  games  - scrape one day's box scores from the scoreboard site
  lines  - tail the live betting-lines feed

Example:
  go run ./cmd/hoopsight ingest games --date 2024-03-15 --season 2024
  go run ./cmd/hoopsight ingest lines`,
}

var (
	ingestGamesCmd = &cobra.Command{
		Use:   "games",
		Short: "Scrape one day's box scores",
		RunE:  ingestGames,
	}

	ingestLinesCmd = &cobra.Command{
		Use:   "lines",
		Short: "Tail the live betting-lines feed",
		RunE:  ingestLines,
	}
)

var (
	ingestDate   string
	ingestSeason int
)

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.AddCommand(ingestGamesCmd)
	ingestCmd.AddCommand(ingestLinesCmd)

	// Flags
	ingestGamesCmd.Flags().StringVar(&ingestDate, "date", "", "game date (YYYY-MM-DD, default: yesterday)")
	ingestGamesCmd.Flags().IntVar(&ingestSeason, "season", 0, "season year (default: inferred from date)")
}

func ingestGames(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	date := time.Now().AddDate(0, 0, -1)
	if ingestDate != "" {
		date, err = time.Parse("2006-01-02", ingestDate)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
	}
	season := ingestSeason
	if season == 0 {
		season = inferSeason(date)
	}

	fmt.Printf("=== Box Scores %s (season %d) ===\n\n", date.Format("2006-01-02"), season)

	httpClient := httputil.New(rt.cfg, rt.log)
	client := ingest.NewClient(rt.cfg, httpClient, rt.log, metrics.New("hoopsight"))

	logs, err := client.FetchGameLogs(cmd.Context(), date, season)
	if err != nil {
		return fmt.Errorf("fetch game logs: %w", err)
	}

	data, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal game logs: %w", err)
	}
	fmt.Println(string(data))
	fmt.Printf("\n✅ %d game logs fetched\n", len(logs))
	return nil
}

// inferSeason maps a date to its season year. Seasons span the new year
// and are named for the year they end in, so October onward belongs to
// the next calendar year's season.
func inferSeason(date time.Time) int {
	if date.Month() >= time.October {
		return date.Year() + 1
	}
	return date.Year()
}

func ingestLines(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.cfg.LinesFeed.Enabled {
		return fmt.Errorf("lines feed is disabled (set LINES_FEED_ENABLED=true)")
	}

	fmt.Println("=== Lines Feed ===")

	feed := ingest.NewLinesFeed(rt.cfg.LinesFeed, rt.log, metrics.New("hoopsight"))
	if err := feed.Start(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("\n✅ Connected to %s\n", rt.cfg.LinesFeed.URL)
	fmt.Println("\nPress Ctrl+C to stop")

	// Print a snapshot of the tracked games periodically until interrupted.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ids := feed.GameIDs()
			fmt.Printf("Tracking lines for %d games\n", len(ids))
			for _, id := range ids {
				lines, err := feed.Lines(cmd.Context(), id)
				if err != nil {
					continue
				}
				fmt.Printf("  %s  spread %+.1f  total %.1f\n", id, lines.Spread, lines.Total)
			}
		case <-quit:
			fmt.Println("\nShutting down lines feed...")
			feed.Stop()
			fmt.Println("Lines feed stopped")
			return nil
		}
	}
}
