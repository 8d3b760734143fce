package models

// Requests for the market HTTP endpoints. Defined in domain for consistency and reuse.

// CandlesRequest queries historical candles by named period or explicit range.
type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Period string `query:"period" json:"period" default:"1M" validate:"oneof=1M 6M 1Y ALL"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"10000" validate:"gte=1,lte=50000"`
}

// SignalsRequest queries the active signal feed.
type SignalsRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
}

// RegimeRequest queries the current regime snapshot for a symbol.
type RegimeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}
