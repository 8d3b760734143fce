package usecase

import (
	"context"

	"MarketPulse/internal/middleware"
	"MarketPulse/internal/service/feed"
	"MarketPulse/pkg/logger"
)

// TickCollector drains one connector's tick stream through the
// validation pipeline into the market service.
type TickCollector struct {
	connector *feed.Connector
	pipe      *middleware.TickPipeline
	log       *logger.Logger
}

func NewTickCollector(connector *feed.Connector, pipe *middleware.TickPipeline, log *logger.Logger) *TickCollector {
	return &TickCollector{connector: connector, pipe: pipe, log: log}
}

// Start launches the connector and the consume loop. Both stop when
// ctx ends.
func (c *TickCollector) Start(ctx context.Context) {
	go c.connector.Run(ctx)
	go c.consume(ctx)
}

func (c *TickCollector) consume(ctx context.Context) {
	for tick := range c.connector.Ticks() {
		if err := c.pipe.Process(ctx, tick); err != nil {
			c.log.Warn("tick rejected", logger.Error(err))
		}
	}
}
