package scheduler

import (
	"context"
	"testing"

	"github.com/wonny/sage/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
}

func (j *fakeJob) Name() string              { return j.name }
func (j *fakeJob) Schedule() string          { return j.schedule }
func (j *fakeJob) Run(_ context.Context) error {
	j.runs++
	return nil
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "nightly", schedule: "0 30 18 * * MON-FRI"}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}
	if err := s.AddJob(job); err == nil {
		t.Error("AddJob() expected error for duplicate job")
	}
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())

	if err := s.AddJob(&fakeJob{name: "broken", schedule: "not a cron spec"}); err == nil {
		t.Error("AddJob() expected error for invalid schedule")
	}
}

func TestRunJobUnknown(t *testing.T) {
	s := New(logger.NewNop())

	if err := s.RunJob("missing"); err == nil {
		t.Error("RunJob() expected error for unknown job")
	}
}

func TestJobHistoryLimit(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "nightly", Success: i%2 == 0})
	}
	if len(h.Results) != historyLimit {
		t.Errorf("history length = %d, want %d", len(h.Results), historyLimit)
	}
}

func TestJobHistorySuccessRate(t *testing.T) {
	h := &JobHistory{}
	if got := h.SuccessRate(); got != 0 {
		t.Errorf("empty SuccessRate() = %v, want 0", got)
	}

	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: false})
	h.AddResult(JobResult{Success: true})
	if got := h.SuccessRate(); got != 0.75 {
		t.Errorf("SuccessRate() = %v, want 0.75", got)
	}
}
