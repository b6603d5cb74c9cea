package contracts

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestDatasetsGroupSortsMarketByTimestamp(t *testing.T) {
	ds := Datasets{
		Market: []MarketObservation{
			{Symbol: "AAPL", Timestamp: day(3), Price: 103},
			{Symbol: "AAPL", Timestamp: day(1), Price: 101},
			{Symbol: "AAPL", Timestamp: day(2), Price: 102},
			{Symbol: "MSFT", Timestamp: day(1), Price: 410},
		},
	}

	g := ds.Group()

	rows := g.Market["AAPL"]
	if len(rows) != 3 {
		t.Fatalf("expected 3 AAPL observations, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Timestamp.Before(rows[i-1].Timestamp) {
			t.Error("market observations must be sorted ascending by timestamp")
		}
	}

	latest, ok := g.Latest("AAPL")
	if !ok || latest.Price != 103 {
		t.Errorf("Latest(AAPL) = (%v, %v), want price 103", latest.Price, ok)
	}

	if _, ok := g.Latest("GOOG"); ok {
		t.Error("Latest should report absence for unknown symbol")
	}
}

func TestDatasetsGroupFundamentalLastWins(t *testing.T) {
	ds := Datasets{
		Fundamental: []FundamentalRecord{
			{Symbol: "AAPL", PERatio: Float64Ptr(25)},
			{Symbol: "AAPL", PERatio: Float64Ptr(27)},
		},
	}

	g := ds.Group()
	rec := g.Fundamental["AAPL"]
	if rec.PERatio == nil || *rec.PERatio != 27 {
		t.Errorf("expected last fundamental record to win, got %+v", rec)
	}
}

func TestSymbolsUnionIsSortedAndDeduplicated(t *testing.T) {
	ds := Datasets{
		Market: []MarketObservation{
			{Symbol: "MSFT", Timestamp: day(1)},
			{Symbol: "AAPL", Timestamp: day(1)},
		},
		Fundamental: []FundamentalRecord{
			{Symbol: "GOOG"},
			{Symbol: "AAPL"},
		},
		Sentiment: []SentimentRecord{
			{Symbol: "TSLA", Timestamp: day(1)},
		},
	}

	got := ds.Group().Symbols()
	want := []string{"AAPL", "GOOG", "MSFT", "TSLA"}
	if len(got) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Symbols() = %v, want %v", got, want)
		}
	}
}
