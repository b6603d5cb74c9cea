package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/sage/internal/scheduler"
	"github.com/wonny/sage/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "배치 스케줄러 시작",
	Long: `정기 배치 스케줄러를 시작합니다.

Jobs:
  generate_signals      - 시그널 배치 (SIGNAL_CRON, 기본: 평일 18:30)
  collect_fundamentals  - 펀더멘털 수집 (평일 17:00)

Example:
  go run ./cmd/sage scheduler`,
	RunE: runScheduler,
}

const collectCron = "0 0 17 * * MON-FRI"

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sage Scheduler ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled (SCHEDULER_ENABLED=false)")
	}

	sched := scheduler.New(a.log)

	signalJob := jobs.NewGenerateSignalsJob(a.service, a.cache, a.cfg.Scheduler.SignalCron, a.log)
	if err := sched.AddJob(signalJob); err != nil {
		return err
	}

	collectJob := jobs.NewCollectFundamentalsJob(a.quotes, a.markets, a.fundamentals, collectCron, a.log)
	if err := sched.AddJob(collectJob); err != nil {
		return err
	}

	sched.Start()
	fmt.Println("\n✅ Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
