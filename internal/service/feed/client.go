// Package feed streams live ticks from an exchange WebSocket, with
// exponential-backoff reconnects and a synthetic random-walk fallback
// once the upstream is declared unreachable.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/logger"
)

// Options configures the WebSocket client.
type Options struct {
	URL               string
	APIKey            string
	Symbols           []string
	HeartbeatInterval time.Duration
	PongTimeout       time.Duration
}

// Client implements a MarketStream backed by an exchange WebSocket.
type Client struct {
	opts Options
	log  *logger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewClient creates a WebSocket MarketStream.
func NewClient(opts Options, log *logger.Logger) *Client {
	return &Client{opts: opts, log: log}
}

var _ drepo.MarketStream = (*Client)(nil)

// Connect establishes the WebSocket connection and arms the pong
// deadline so a silent upstream surfaces as a read error.
func (c *Client) Connect(ctx context.Context) error {
	u := c.opts.URL
	if c.opts.APIKey != "" {
		u = fmt.Sprintf("%s?token=%s", c.opts.URL, c.opts.APIKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.opts.HeartbeatInterval + c.opts.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.opts.HeartbeatInterval + c.opts.PongTimeout))
	})

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.log.Info("feed connected", logger.String("url", c.opts.URL))
	return nil
}

// Subscribe registers the configured symbols on the trade channel.
func (c *Client) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	conn, connected := c.conn, c.connected
	c.mu.Unlock()
	if conn == nil || !connected {
		return fmt.Errorf("feed not connected")
	}
	for _, s := range c.opts.Symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		c.log.Debug("subscribed", logger.String("symbol", s))
	}
	return nil
}

type wireTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wireMessage struct {
	Type string      `json:"type"`
	Data []wireTrade `json:"data"`
}

// Read streams ticks and a terminal error. Malformed and non-trade
// frames are dropped, never fatal; the error channel fires once on a
// broken connection and both channels close.
func (c *Client) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	// ctx spans the process lifetime across reconnects; the heartbeat
	// must stop with this read loop, so it watches done as well.
	done := make(chan struct{})

	// heartbeat loop
	go func() {
		ticker := time.NewTicker(c.opts.HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn != nil {
					_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.PongTimeout))
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(done)
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()
			if conn == nil {
				errs <- fmt.Errorf("feed connection lost")
				return
			}

			_, b, err := conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("feed read: %w", err)
				return
			}

			var m wireMessage
			if err := json.Unmarshal(b, &m); err != nil {
				c.log.Warn("dropping malformed frame", logger.Error(err))
				continue
			}
			if m.Type != "trade" {
				continue
			}
			for _, d := range m.Data {
				tick, err := decodeTick(d)
				if err != nil {
					c.log.Warn("dropping invalid trade", logger.Error(err))
					continue
				}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

func decodeTick(d wireTrade) (*models.Tick, error) {
	if d.S == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	if d.T <= 0 {
		return nil, fmt.Errorf("invalid timestamp %d", d.T)
	}
	if d.P <= 0 || d.V < 0 {
		return nil, fmt.Errorf("invalid price/size %f/%f", d.P, d.V)
	}
	return &models.Tick{
		Symbol:    d.S,
		Timestamp: d.T / 1000,
		Price:     d.P,
		Size:      d.V,
	}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
