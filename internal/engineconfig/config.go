package engineconfig

// Config는 어드바이저리 엔진의 전체 설정
// Immutable once loaded; shared read-only across a batch.
type Config struct {
	TechnicalWeights   map[string]float64 `yaml:"technical_weights" json:"technical_weights"`
	FundamentalWeights map[string]float64 `yaml:"fundamental_weights" json:"fundamental_weights"`
	SentimentWeights   map[string]float64 `yaml:"sentiment_weights" json:"sentiment_weights"`
	CategoryWeights    CategoryWeights    `yaml:"category_weights" json:"category_weights"`
	Thresholds         Thresholds         `yaml:"thresholds" json:"thresholds"`
	FundamentalBands   map[string]Band    `yaml:"fundamental_bands" json:"fundamental_bands"`
	PriceTarget        PriceTarget        `yaml:"price_target" json:"price_target"`

	MinDataPoints        int     `yaml:"min_data_points" json:"min_data_points"`
	DataQualityThreshold float64 `yaml:"data_quality_threshold" json:"data_quality_threshold"`
	NeutralAgreement     float64 `yaml:"neutral_agreement" json:"neutral_agreement"`
	TimeHorizon          string  `yaml:"time_horizon" json:"time_horizon"`
	Workers              int     `yaml:"workers" json:"workers"` // 0 or 1 = sequential
}

// CategoryWeights combines the three category scores into the overall score.
// Normalized by their sum at use time over contributing categories.
type CategoryWeights struct {
	Technical   float64 `yaml:"technical" json:"technical"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
}

// Sum returns the total of all category weights
func (w CategoryWeights) Sum() float64 {
	return w.Technical + w.Fundamental + w.Sentiment
}

// Thresholds are the ordered boundaries partitioning [-1, 1] into the
// five signal bands. Must be monotonically non-increasing in field order.
type Thresholds struct {
	StrongBuy  float64 `yaml:"strong_buy" json:"strong_buy"`
	Buy        float64 `yaml:"buy" json:"buy"`
	HoldMax    float64 `yaml:"hold_max" json:"hold_max"`
	HoldMin    float64 `yaml:"hold_min" json:"hold_min"`
	Sell       float64 `yaml:"sell" json:"sell"`
	StrongSell float64 `yaml:"strong_sell" json:"strong_sell"`
}

// ordered returns boundaries in walk order, most positive first.
func (t Thresholds) ordered() []float64 {
	return []float64{t.StrongBuy, t.Buy, t.HoldMax, t.HoldMin, t.Sell, t.StrongSell}
}

// Band maps a fundamental ratio to a sub-score by linear interpolation.
// For HigherIsBetter metrics the upper edge maps to +1 and the lower to -1;
// otherwise the mapping is inverted. Values outside the band clamp.
type Band struct {
	Lower          float64 `yaml:"lower" json:"lower"`
	Upper          float64 `yaml:"upper" json:"upper"`
	HigherIsBetter bool    `yaml:"higher_is_better" json:"higher_is_better"`
}

// PriceTarget holds the advisory price hint parameters.
type PriceTarget struct {
	Multiplier       float64 `yaml:"multiplier" json:"multiplier"`                 // k in price*(1+k*score)
	StopLossFraction float64 `yaml:"stop_loss_fraction" json:"stop_loss_fraction"` // max distance fraction
}

// Technical indicator names keyed in TechnicalWeights.
const (
	IndicatorRSI       = "rsi"
	IndicatorMACD      = "macd"
	IndicatorBollinger = "bollinger"
	IndicatorMACross   = "ma_cross"
)

// Fundamental ratio names keyed in FundamentalWeights and FundamentalBands.
const (
	RatioPE           = "pe_ratio"
	RatioPB           = "pb_ratio"
	RatioDebtToEquity = "debt_to_equity"
	RatioROE          = "roe"
	RatioProfitMargin = "profit_margin"
)

// Sentiment source names keyed in SentimentWeights.
const (
	SentimentNews    = "news"
	SentimentSocial  = "social"
	SentimentAnalyst = "analyst"
)

// TotalConfiguredIndicators counts indicators with a positive weight
// across all three categories. Used as the data-quality denominator.
func (c *Config) TotalConfiguredIndicators() int {
	count := 0
	for _, group := range []map[string]float64{c.TechnicalWeights, c.FundamentalWeights, c.SentimentWeights} {
		for _, w := range group {
			if w > 0 {
				count++
			}
		}
	}
	return count
}

// Default returns the built-in configuration the engine falls back to
// when a supplied document is unparsable or invalid.
func Default() *Config {
	return &Config{
		TechnicalWeights: map[string]float64{
			IndicatorRSI:       0.3,
			IndicatorMACD:      0.3,
			IndicatorBollinger: 0.2,
			IndicatorMACross:   0.2,
		},
		FundamentalWeights: map[string]float64{
			RatioPE:           0.3,
			RatioPB:           0.2,
			RatioDebtToEquity: 0.2,
			RatioROE:          0.2,
			RatioProfitMargin: 0.1,
		},
		SentimentWeights: map[string]float64{
			SentimentNews:    0.4,
			SentimentSocial:  0.3,
			SentimentAnalyst: 0.3,
		},
		CategoryWeights: CategoryWeights{
			Technical:   0.5,
			Fundamental: 0.3,
			Sentiment:   0.2,
		},
		Thresholds: Thresholds{
			StrongBuy:  0.8,
			Buy:        0.6,
			HoldMax:    0.2,
			HoldMin:    -0.2,
			Sell:       -0.6,
			StrongSell: -0.8,
		},
		FundamentalBands: map[string]Band{
			// Lower multiples = undervalued = bullish
			RatioPE:           {Lower: 10, Upper: 30, HigherIsBetter: false},
			RatioPB:           {Lower: 1, Upper: 5, HigherIsBetter: false},
			RatioDebtToEquity: {Lower: 0.5, Upper: 2, HigherIsBetter: false},
			// Higher profitability = bullish
			RatioROE:          {Lower: 0.05, Upper: 0.25, HigherIsBetter: true},
			RatioProfitMargin: {Lower: 0.02, Upper: 0.20, HigherIsBetter: true},
		},
		PriceTarget: PriceTarget{
			Multiplier:       0.15,
			StopLossFraction: 0.08,
		},
		MinDataPoints:        1,
		DataQualityThreshold: 0.6,
		NeutralAgreement:     0.5,
		TimeHorizon:          "medium-term",
		Workers:              1,
	}
}
