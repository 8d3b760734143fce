package feed

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/logger"
)

// Connector supervises a MarketStream: it connects, pumps ticks to a
// single output channel, and reconnects with capped exponential
// backoff. After MaxReconnects consecutive failures it switches to the
// synthetic fallback permanently; a restart is required to try the
// real feed again.
type Connector struct {
	symbol   string
	primary  drepo.MarketStream
	fallback drepo.MarketStream
	backoff  *Backoff
	maxTries int
	metrics  drepo.Metrics
	log      *logger.Logger

	out chan *models.Tick
}

// NewConnector wires a primary stream with its synthetic fallback for
// one symbol.
func NewConnector(symbol string, primary, fallback drepo.MarketStream, backoff *Backoff, maxReconnects int, metrics drepo.Metrics, log *logger.Logger) *Connector {
	return &Connector{
		symbol:   symbol,
		primary:  primary,
		fallback: fallback,
		backoff:  backoff,
		maxTries: maxReconnects,
		metrics:  metrics,
		log:      log.With(logger.String("symbol", symbol)),
		out:      make(chan *models.Tick, 4096),
	}
}

// Ticks is the merged tick stream across reconnects and fallback.
func (c *Connector) Ticks() <-chan *models.Tick { return c.out }

// Run drives the connection lifecycle until ctx ends. It closes the
// output channel on return.
func (c *Connector) Run(ctx context.Context) {
	defer close(c.out)

	for ctx.Err() == nil {
		if c.backoff.Attempts() >= c.maxTries {
			c.log.Error("feed unreachable, switching to synthetic data",
				logger.Int("attempts", c.backoff.Attempts()))
			c.metrics.RecordSyntheticMode(c.symbol, true)
			c.pump(ctx, c.fallback)
			return
		}

		if err := c.open(ctx, c.primary); err != nil {
			delay := c.backoff.Next()
			c.log.Warn("feed connect failed",
				logger.Error(err),
				logger.Int("attempt", c.backoff.Attempts()),
				logger.Duration("retry_in", delay))
			c.metrics.RecordReconnect(c.symbol)
			sleep(ctx, delay)
			continue
		}

		c.backoff.Reset()
		c.pump(ctx, c.primary)
		_ = c.primary.Close()

		if ctx.Err() == nil {
			delay := c.backoff.Next()
			c.log.Warn("feed disconnected", logger.Duration("retry_in", delay))
			c.metrics.RecordReconnect(c.symbol)
			sleep(ctx, delay)
		}
	}
}

func (c *Connector) open(ctx context.Context, stream drepo.MarketStream) error {
	if err := stream.Connect(ctx); err != nil {
		return err
	}
	if err := stream.Subscribe(ctx); err != nil {
		_ = stream.Close()
		return err
	}
	return nil
}

// pump forwards ticks from the stream until it errors or ctx ends.
func (c *Connector) pump(ctx context.Context, stream drepo.MarketStream) {
	if stream == c.fallback {
		if err := c.open(ctx, stream); err != nil {
			// synthetic Connect never fails; guard anyway
			c.log.Error("fallback open failed", logger.Error(err))
			return
		}
	}

	ticks, errs := stream.Read(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			if err != nil {
				c.log.Warn("feed stream error", logger.Error(err))
				return
			}
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			select {
			case c.out <- tick:
			case <-ctx.Done():
				return
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
