package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "Sage - 어드바이저리 시그널 생성 엔진",
	Long: `Sage Unified CLI

기술적/펀더멘털/센티먼트 관측 데이터를 결합해
종목별 매매 추천 시그널과 신뢰도를 산출합니다.

Usage:
  go run ./cmd/sage [command]

Examples:
  go run ./cmd/sage api
  go run ./cmd/sage generate
  go run ./cmd/sage collect
  go run ./cmd/sage scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
