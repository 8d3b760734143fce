package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/market"
	"MarketPulse/pkg/cache"
	"MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

// CandlesUseCase serves historical candle queries from the in-memory
// ring, reaching into the archive for history past retention. Results
// are cached briefly since chart polling hits the same ranges.
type CandlesUseCase struct {
	book     *market.Book
	archive  drepo.CandleArchive
	cache    cache.Store
	cacheTTL time.Duration
	log      *logger.Logger
}

func NewCandlesUseCase(book *market.Book, archive drepo.CandleArchive, store cache.Store, cacheTTL time.Duration, log *logger.Logger) *CandlesUseCase {
	return &CandlesUseCase{
		book:     book,
		archive:  archive,
		cache:    store,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// CandlesResult is the assembled query response.
type CandlesResult struct {
	Symbol  string          `json:"symbol"`
	Period  string          `json:"period"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Count   int             `json:"count"`
	Candles []models.Candle `json:"candles"`
}

// GetCandles resolves the requested range (named period or explicit
// from/to), merges ring and archive history, and applies the limit
// keeping the newest bars.
func (uc *CandlesUseCase) GetCandles(ctx context.Context, req models.CandlesRequest) (*CandlesResult, error) {
	now := time.Now().UTC()
	from, to := util.PeriodRange(req.Period, now)
	from = util.ParseTimeDefault(req.From, from)
	to = util.ParseTimeDefault(req.To, to)
	if from.After(to) {
		return nil, fmt.Errorf("from must not be after to")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10000
	}

	key := fmt.Sprintf("candles:%s:%s:%d:%d:%d", req.Symbol, req.Period, from.Unix(), to.Unix(), limit)
	if uc.cache != nil {
		if cached, err := cache.GetTyped[CandlesResult](ctx, uc.cache, key); err == nil {
			return &cached, nil
		}
	}

	ring := filterRange(uc.book.Get(req.Symbol).Snapshot(), from, to)
	candles := ring

	// The archive covers what the ring has already trimmed.
	if uc.archive != nil && needArchive(ring, from) {
		archiveTo := to
		if len(ring) > 0 {
			archiveTo = ring[0].Time.Add(-time.Second)
		}
		older, err := uc.archive.Query(ctx, req.Symbol, from, archiveTo, limit)
		if err != nil {
			// degraded response from the ring alone
			uc.log.Warn("archive query failed", logger.String("symbol", req.Symbol), logger.Error(err))
		} else {
			candles = append(older, ring...)
		}
	}

	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}

	result := &CandlesResult{
		Symbol:  req.Symbol,
		Period:  req.Period,
		From:    from,
		To:      to,
		Count:   len(candles),
		Candles: candles,
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, result, uc.cacheTTL); err != nil {
			uc.log.Debug("cache write failed", logger.Error(err))
		}
	}
	return result, nil
}

func filterRange(candles []models.Candle, from, to time.Time) []models.Candle {
	out := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if c.Time.Before(from) || c.Time.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// needArchive reports whether the ring's oldest bar leaves a gap at
// the start of the requested range.
func needArchive(ring []models.Candle, from time.Time) bool {
	if len(ring) == 0 {
		return true
	}
	return ring[0].Time.After(from)
}
