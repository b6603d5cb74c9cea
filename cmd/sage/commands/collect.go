package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sage/internal/contracts"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [symbols...]",
	Short: "펀더멘털 비율 수집",
	Long: `시세 페이지에서 펀더멘털 비율을 스크래핑해 저장합니다.
심볼을 지정하지 않으면 최근 시장 데이터가 있는 전 종목을 수집합니다.

Example:
  go run ./cmd/sage collect
  go run ./cmd/sage collect 005930 000660`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sage Fundamentals Collection ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	symbols := args
	if len(symbols) == 0 {
		to := time.Now().UTC()
		observations, err := a.markets.GetAll(ctx, to.AddDate(0, -1, 0), to)
		if err != nil {
			return fmt.Errorf("load symbols: %w", err)
		}
		datasets := contracts.Datasets{Market: observations}
		symbols = datasets.Group().Symbols()
	}
	if len(symbols) == 0 {
		fmt.Println("No symbols to collect")
		return nil
	}

	records, err := a.quotes.FetchFundamentalsBatch(ctx, symbols)
	if err != nil {
		return err
	}

	if err := a.fundamentals.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("save fundamentals: %w", err)
	}

	fmt.Printf("\n✅ Collected %d of %d symbols\n", len(records), len(symbols))
	return nil
}
