package scoring

import (
	"github.com/markcheno/go-talib"

	"github.com/wonny/sage/internal/contracts"
)

// Window lengths required before an indicator can be derived from the
// price series. Each includes the warm-up period of the underlying study.
const (
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerPeriod = 20
	maShortPeriod   = 50
	maLongPeriod    = 200
)

// deriveIndicators returns the latest observation, filling indicator
// fields the feed left empty from the supplied price history when the
// window is long enough. A single-point window passes through untouched,
// so precomputed indicator fields always take precedence.
func deriveIndicators(observations []contracts.MarketObservation) contracts.MarketObservation {
	latest := observations[len(observations)-1]
	if len(observations) < 2 {
		return latest
	}

	closes := make([]float64, len(observations))
	for i, obs := range observations {
		closes[i] = obs.Price
	}

	if latest.RSI == nil && len(closes) > rsiPeriod {
		series := talib.Rsi(closes, rsiPeriod)
		latest.RSI = contracts.Float64Ptr(series[len(series)-1])
	}

	if (latest.MACD == nil || latest.MACDSignal == nil) && len(closes) > macdSlow+macdSignal {
		macd, signal, _ := talib.Macd(closes, macdFast, macdSlow, macdSignal)
		latest.MACD = contracts.Float64Ptr(macd[len(macd)-1])
		latest.MACDSignal = contracts.Float64Ptr(signal[len(signal)-1])
	}

	if (latest.BollingerUpper == nil || latest.BollingerLower == nil) && len(closes) >= bollingerPeriod {
		upper, _, lower := talib.BBands(closes, bollingerPeriod, 2, 2, talib.SMA)
		latest.BollingerUpper = contracts.Float64Ptr(upper[len(upper)-1])
		latest.BollingerLower = contracts.Float64Ptr(lower[len(lower)-1])
	}

	if (latest.MA50 == nil || latest.MA200 == nil) && len(closes) >= maLongPeriod {
		short := talib.Sma(closes, maShortPeriod)
		long := talib.Sma(closes, maLongPeriod)
		latest.MA50 = contracts.Float64Ptr(short[len(short)-1])
		latest.MA200 = contracts.Float64Ptr(long[len(long)-1])
	}

	return latest
}
