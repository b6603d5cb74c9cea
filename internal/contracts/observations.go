package contracts

import (
	"sort"
	"time"
)

// ⭐ SSOT: 관측 데이터 타입 정의는 여기서만

// MarketObservation is a single market data point for a symbol.
// Indicator fields are pointers: nil means the field was not observed,
// which is different from an observed zero.
type MarketObservation struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    int64     `json:"volume"`

	// Technical indicator fields (optional)
	RSI            *float64 `json:"rsi,omitempty"`
	MACD           *float64 `json:"macd,omitempty"`
	MACDSignal     *float64 `json:"macd_signal,omitempty"`
	BollingerUpper *float64 `json:"bollinger_upper,omitempty"`
	BollingerLower *float64 `json:"bollinger_lower,omitempty"`
	MA50           *float64 `json:"ma_50,omitempty"`
	MA200          *float64 `json:"ma_200,omitempty"`
}

// FundamentalRecord holds valuation and quality ratios for a symbol.
type FundamentalRecord struct {
	Symbol       string   `json:"symbol"`
	PERatio      *float64 `json:"pe_ratio,omitempty"`
	PBRatio      *float64 `json:"pb_ratio,omitempty"`
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	ROE          *float64 `json:"roe,omitempty"`
	ProfitMargin *float64 `json:"profit_margin,omitempty"`
}

// SentimentRecord holds sentiment sub-scores for a symbol.
// Sub-scores are already normalized to [-1, 1] by the upstream feed.
type SentimentRecord struct {
	Symbol       string    `json:"symbol"`
	Timestamp    time.Time `json:"timestamp"`
	NewsScore    *float64  `json:"news_score,omitempty"`
	SocialScore  *float64  `json:"social_score,omitempty"`
	AnalystScore *float64  `json:"analyst_score,omitempty"`
}

// Datasets bundles the three input collections for one batch run.
// The engine only reads; the caller must supply them fully materialized.
type Datasets struct {
	Market      []MarketObservation
	Fundamental []FundamentalRecord
	Sentiment   []SentimentRecord
}

// GroupedDatasets is the per-symbol view the generator works from.
// Built once per batch so the per-symbol loop does O(1) lookups
// instead of rescanning the full tables.
type GroupedDatasets struct {
	Market      map[string][]MarketObservation
	Fundamental map[string]FundamentalRecord
	Sentiment   map[string][]SentimentRecord
}

// Group pre-groups all three datasets by symbol.
// Market and sentiment rows are sorted by timestamp ascending so the
// latest observation is always last; for duplicate fundamental rows the
// last row in input order wins.
func (d Datasets) Group() GroupedDatasets {
	g := GroupedDatasets{
		Market:      make(map[string][]MarketObservation),
		Fundamental: make(map[string]FundamentalRecord),
		Sentiment:   make(map[string][]SentimentRecord),
	}

	for _, obs := range d.Market {
		g.Market[obs.Symbol] = append(g.Market[obs.Symbol], obs)
	}
	for sym := range g.Market {
		rows := g.Market[sym]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Timestamp.Before(rows[j].Timestamp)
		})
	}

	for _, rec := range d.Fundamental {
		g.Fundamental[rec.Symbol] = rec
	}

	for _, rec := range d.Sentiment {
		g.Sentiment[rec.Symbol] = append(g.Sentiment[rec.Symbol], rec)
	}
	for sym := range g.Sentiment {
		rows := g.Sentiment[sym]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Timestamp.Before(rows[j].Timestamp)
		})
	}

	return g
}

// Symbols returns the sorted union of symbols across all three datasets.
// Sorted so batch output order is reproducible.
func (g GroupedDatasets) Symbols() []string {
	seen := make(map[string]struct{})
	for sym := range g.Market {
		seen[sym] = struct{}{}
	}
	for sym := range g.Fundamental {
		seen[sym] = struct{}{}
	}
	for sym := range g.Sentiment {
		seen[sym] = struct{}{}
	}

	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// Latest returns the most recent market observation for the symbol.
func (g GroupedDatasets) Latest(symbol string) (MarketObservation, bool) {
	rows := g.Market[symbol]
	if len(rows) == 0 {
		return MarketObservation{}, false
	}
	return rows[len(rows)-1], true
}

// Float64Ptr is a convenience constructor for optional fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
