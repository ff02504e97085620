package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hoopsight/internal/contracts"
	"hoopsight/pkg/config"
	"hoopsight/pkg/logger"
	"hoopsight/pkg/metrics"
)

const (
	handshakeTimeout = 10 * time.Second
	maxReconnectWait = 2 * time.Minute
)

// linesMessage is one feed frame. Only "lines" frames carry data; every
// other type is counted and dropped.
type linesMessage struct {
	Type          string  `json:"type"`
	GameID        string  `json:"game_id"`
	Spread        float64 `json:"spread"`
	Total         float64 `json:"total"`
	HomeMoneyline float64 `json:"home_moneyline"`
	AwayMoneyline float64 `json:"away_moneyline"`
}

// LinesFeed consumes the betting-lines websocket and keeps the latest
// lines per game in memory. It is last-value-wins only: no history, no
// preloading. Implements contracts.LinesSource.
type LinesFeed struct {
	cfg     config.LinesFeedConfig
	logger  *logger.Logger
	metrics *metrics.Metrics

	conn   *websocket.Conn
	connMu sync.Mutex

	latest map[string]*contracts.GameLines
	mu     sync.RWMutex

	stopCh chan struct{}
	wg     sync.WaitGroup
}

var _ contracts.LinesSource = (*LinesFeed)(nil)

// NewLinesFeed creates a feed consumer from config.
func NewLinesFeed(cfg config.LinesFeedConfig, log *logger.Logger, m *metrics.Metrics) *LinesFeed {
	return &LinesFeed{
		cfg:     cfg,
		logger:  log.Named("ingest.lines"),
		metrics: m,
		latest:  make(map[string]*contracts.GameLines),
		stopCh:  make(chan struct{}),
	}
}

// Start connects and begins consuming frames. The read loop reconnects
// with exponential backoff until Stop is called or the context ends.
func (f *LinesFeed) Start(ctx context.Context) error {
	if err := f.connect(ctx); err != nil {
		return fmt.Errorf("lines feed connect: %w", err)
	}

	f.wg.Add(1)
	go f.run(ctx)

	f.logger.WithField("url", f.cfg.URL).Info("Lines feed connected")
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (f *LinesFeed) Stop() {
	close(f.stopCh)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.connMu.Unlock()

	f.wg.Wait()
	f.logger.Info("Lines feed stopped")
}

// Lines returns the latest lines received for a game, or ErrNoLines when
// none have arrived yet.
func (f *LinesFeed) Lines(_ context.Context, gameID string) (*contracts.GameLines, error) {
	f.mu.RLock()
	lines, ok := f.latest[gameID]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLines, gameID)
	}
	copied := *lines
	return &copied, nil
}

// GameIDs returns every game the feed currently holds lines for.
func (f *LinesFeed) GameIDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]string, 0, len(f.latest))
	for id := range f.latest {
		ids = append(ids, id)
	}
	return ids
}

func (f *LinesFeed) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	header := http.Header{}
	if f.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.cfg.APIKey)
	}

	conn, _, err := dialer.DialContext(ctx, f.cfg.URL, header)
	if err != nil {
		return err
	}

	f.connMu.Lock()
	f.conn = conn
	f.connMu.Unlock()
	return nil
}

// run reads frames until the feed stops, reconnecting on every
// connection loss.
func (f *LinesFeed) run(ctx context.Context) {
	defer f.wg.Done()

	for {
		select {
		case <-f.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			if !f.reconnect(ctx) {
				return
			}
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			select {
			case <-f.stopCh:
				return
			default:
			}
			f.logger.WithError(err).Warn("Lines feed read failed")
			f.dropConn()
			continue
		}

		f.handleMessage(message)
	}
}

// handleMessage applies one frame to the latest-lines table.
func (f *LinesFeed) handleMessage(data []byte) {
	var msg linesMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		f.countMessage("malformed")
		f.logger.WithError(err).Debug("Dropping malformed feed frame")
		return
	}
	if msg.Type != "lines" || msg.GameID == "" {
		f.countMessage("ignored")
		return
	}

	f.mu.Lock()
	f.latest[msg.GameID] = &contracts.GameLines{
		GameID:        msg.GameID,
		Spread:        msg.Spread,
		Total:         msg.Total,
		HomeMoneyline: msg.HomeMoneyline,
		AwayMoneyline: msg.AwayMoneyline,
		UpdatedAt:     time.Now(),
	}
	f.mu.Unlock()

	f.countMessage("lines")
}

// reconnect retries the connection with exponential backoff. It returns
// false when the feed was stopped while waiting.
func (f *LinesFeed) reconnect(ctx context.Context) bool {
	delay := f.cfg.ReconnectWait
	if delay <= 0 {
		delay = time.Second
	}

	for attempt := 1; ; attempt++ {
		select {
		case <-f.stopCh:
			return false
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}

		f.logger.WithField("attempt", attempt).Info("Reconnecting lines feed")
		if err := f.connect(ctx); err == nil {
			f.logger.Info("Lines feed reconnected")
			return true
		}

		delay *= 2
		if delay > maxReconnectWait {
			delay = maxReconnectWait
		}
	}
}

func (f *LinesFeed) dropConn() {
	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.connMu.Unlock()
}

func (f *LinesFeed) countMessage(kind string) {
	if f.metrics != nil {
		f.metrics.FeedMessages.WithLabelValues(kind).Inc()
	}
}
