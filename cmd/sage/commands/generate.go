package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "시그널 배치를 즉시 실행",
	Long: `저장된 관측 데이터로 어드바이저리 시그널 배치를 한 번 실행하고
결과를 저장합니다.

Example:
  go run ./cmd/sage generate
  go run ./cmd/sage generate --timeout 10m
  go run ./cmd/sage generate --config config/engine.yaml`,
	RunE: runGenerate,
}

var (
	generateTimeout time.Duration
	// engineConfigPath는 ENGINE_CONFIG_PATH보다 우선한다 (bootstrap 참조)
	engineConfigPath string
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 30*time.Minute, "배치 제한 시간")
	generateCmd.Flags().StringVar(&engineConfigPath, "config", "", "엔진 설정 파일 경로 (기본: ENGINE_CONFIG_PATH)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sage Signal Generation ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	batch, err := a.service.Run(ctx)
	if err != nil {
		if batch == nil {
			return err
		}
		a.log.WithError(err).Warn("Batch finished with errors")
	}

	emitted, skipped, failed := batch.Counts()
	fmt.Printf("\n✅ Batch complete: %d emitted, %d skipped, %d failed\n", emitted, skipped, failed)

	for _, sig := range batch.Signals {
		fmt.Printf("  %-10s %-12s score=%+.2f confidence=%.2f\n",
			sig.Symbol, sig.Type, sig.OverallScore, sig.ConfidenceScore)
	}

	return nil
}
