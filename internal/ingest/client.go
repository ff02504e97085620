// Package ingest pulls raw sports data into the platform: completed box
// scores scraped from the scoreboard site, and live betting lines from a
// websocket feed. It owns no schedule and no persistence; callers decide
// when to fetch and what to keep.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"hoopsight/internal/contracts"
	"hoopsight/pkg/config"
	"hoopsight/pkg/httputil"
	"hoopsight/pkg/logger"
	"hoopsight/pkg/metrics"
)

// ErrNoLines is returned when no lines have been received for a game.
var ErrNoLines = errors.New("no lines for game")

// Browser-looking User-Agent. The scoreboard site serves a trimmed page
// to unknown user agents.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client fetches scoreboard and box-score pages. All requests pass
// through one rate limiter so the crawl stays under the site's policy no
// matter how many callers share the client.
type Client struct {
	httpClient *httputil.Client
	limiter    *rate.Limiter
	baseURL    string
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a scoreboard client from config.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger, m *metrics.Metrics) *Client {
	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Scoreboard.RequestsPerSec), 1),
		baseURL:    cfg.Scoreboard.BaseURL,
		logger:     log.Named("ingest.scoreboard"),
		metrics:    m,
	}
}

// FetchGameIDs returns the IDs of every game on a day's scoreboard page.
func (c *Client) FetchGameIDs(ctx context.Context, date time.Time) ([]string, error) {
	url := fmt.Sprintf("%s/boxscores/?month=%d&day=%d&year=%d",
		c.baseURL, int(date.Month()), date.Day(), date.Year())

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	ids, err := parseScoreboard(body)
	if err != nil {
		c.scrapeError()
		return nil, fmt.Errorf("parse scoreboard: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"games": len(ids),
	}).Debug("Fetched scoreboard")
	return ids, nil
}

// FetchBoxScore fetches one game's box score and returns both teams' game
// logs.
func (c *Client) FetchBoxScore(ctx context.Context, gameID string, season int, date time.Time) ([]contracts.GameLog, error) {
	url := fmt.Sprintf("%s/boxscores/%s.html", c.baseURL, gameID)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	logs, err := ParseBoxScore(body, gameID, season, date)
	if err != nil {
		c.scrapeError()
		return nil, fmt.Errorf("parse box score %s: %w", gameID, err)
	}
	return logs, nil
}

// FetchGameLogs fetches every game log for one day. A game that fails to
// parse is logged and skipped so a single malformed page does not lose
// the day.
func (c *Client) FetchGameLogs(ctx context.Context, date time.Time, season int) ([]contracts.GameLog, error) {
	ids, err := c.FetchGameIDs(ctx, date)
	if err != nil {
		return nil, err
	}

	var logs []contracts.GameLog
	for _, id := range ids {
		gameLogs, err := c.FetchBoxScore(ctx, id, season, date)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"game_id": id,
			}).Warn("Skipping box score")
			continue
		}
		logs = append(logs, gameLogs...)
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"games": len(ids),
		"logs":  len(logs),
	}).Info("Fetched game logs")
	return logs, nil
}

// fetch runs one rate-limited GET and returns the response body.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, url, map[string]string{
		"User-Agent": userAgent,
		"Referer":    c.baseURL + "/",
	})
	if err != nil {
		c.scrapeError()
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.scrapeError()
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body failed: %w", err)
	}
	return string(body), nil
}

func (c *Client) scrapeError() {
	if c.metrics != nil {
		c.metrics.ScrapeErrors.Inc()
	}
}
