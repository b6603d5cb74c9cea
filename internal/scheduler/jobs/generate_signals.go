package jobs

import (
	"context"
	"time"

	"github.com/wonny/sage/internal/advisory"
	"github.com/wonny/sage/pkg/logger"
	"github.com/wonny/sage/pkg/redis"
)

// GenerateSignalsJob runs the nightly advisory batch
// ⭐ SSOT: 시그널 배치 작업은 여기서만
type GenerateSignalsJob struct {
	service  *advisory.Service
	cache    *redis.Cache
	schedule string
	timeout  time.Duration
	logger   *logger.Logger
}

// NewGenerateSignalsJob creates a new signal generation job
func NewGenerateSignalsJob(service *advisory.Service, cache *redis.Cache, schedule string, log *logger.Logger) *GenerateSignalsJob {
	return &GenerateSignalsJob{
		service:  service,
		cache:    cache,
		schedule: schedule,
		timeout:  30 * time.Minute,
		logger:   log,
	}
}

// Name returns the job name
func (j *GenerateSignalsJob) Name() string {
	return "generate_signals"
}

// Schedule returns the cron expression
func (j *GenerateSignalsJob) Schedule() string {
	return j.schedule
}

// Run executes one signal generation batch
func (j *GenerateSignalsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	batch, err := j.service.Run(ctx)
	if err != nil {
		// 부분 결과라도 저장됐으면 요약은 남긴다
		if batch != nil {
			emitted, skipped, failed := batch.Counts()
			j.logger.WithFields(map[string]interface{}{
				"emitted": emitted,
				"skipped": skipped,
				"failed":  failed,
			}).Warn("Signal batch incomplete")
		}
		return err
	}

	if err := j.cache.Delete(ctx, "signals:latest"); err != nil {
		j.logger.WithError(err).Warn("Failed to invalidate signal cache")
	}

	emitted, skipped, failed := batch.Counts()
	j.logger.WithFields(map[string]interface{}{
		"emitted": emitted,
		"skipped": skipped,
		"failed":  failed,
	}).Info("Signal batch completed")

	return nil
}
