package samplingsvc

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/logger"
)

const (
	// BulkRunCap là số activity tối đa một run được process
	BulkRunCap = 5000
	// CheckpointEvery là chu kỳ checkpoint tiến độ (theo số item process thành công)
	CheckpointEvery = 5
	// ErrorTailResponse là số lỗi tối đa trả về trong response của run
	ErrorTailResponse = 10
)

// activitySampler process một activity. Interface để test executor
// với sampler giả không cần MongoDB.
type activitySampler interface {
	SampleAndCreateTasks(ctx context.Context, activityID primitive.ObjectID, opts SampleOptions) (*SampleResult, error)
}

// runCheckpointer ghi tiến độ và finalize run
type runCheckpointer interface {
	CheckpointProgress(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string, lastProcessedID string) error
	Finalize(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string) (samplingmodels.SamplingRun, error)
}

// RunOutcome là kết quả trả về cho caller sau khi run kết thúc
type RunOutcome struct {
	Run    samplingmodels.SamplingRun `json:"run"`
	Errors []string                   `json:"errors,omitempty"` // Tail các lỗi gần nhất, tối đa 10
}

// RunExecutorService chạy vòng lặp sampling tuần tự trên tập activity đã chọn.
// Lỗi của một item không dừng run: được đếm, ghi vào tail và đi tiếp.
type RunExecutorService struct {
	sampler activitySampler
	tracker runCheckpointer
	log     *logrus.Logger
}

// NewRunExecutorService tạo mới RunExecutorService
func NewRunExecutorService(sampler activitySampler, tracker runCheckpointer) *RunExecutorService {
	return &RunExecutorService{
		sampler: sampler,
		tracker: tracker,
		log:     logger.GetAppLogger(),
	}
}

// ExecuteGrouped chạy first-sample run trên các nhóm officer đã phân bổ chỉ tiêu.
// Trong một nhóm, mỗi activity được sampler gọi với trần = budget còn lại của
// officer; activity đầu tiên của nhóm có sàn 1 để officer nào cũng có đại diện.
// Activity đến lượt khi budget đã cạn và officer đã có lựa chọn thì được đếm
// skipped và giữ nguyên trạng thái, đủ điều kiện cho run sau.
func (s *RunExecutorService) ExecuteGrouped(ctx context.Context, run samplingmodels.SamplingRun, groups []OfficerGroup, percentage float64, markFirstSample bool) (*RunOutcome, error) {
	counters := run.Counters
	var errs []string

	totalItems := 0
	for _, g := range groups {
		totalItems += len(g.Activities)
	}

	idx := 0
	for _, group := range groups {
		var createdForOfficer int64
		for i, cand := range group.Activities {
			idx++
			isLast := idx == totalItems

			remaining := group.Target - createdForOfficer
			if remaining <= 0 && createdForOfficer > 0 {
				counters.Skipped++
				if isLast {
					s.checkpoint(ctx, run.ID, counters, errs, cand.ID.Hex())
				}
				continue
			}

			opts := SampleOptions{
				RunID:           run.ID,
				Percentage:      percentage,
				MaxFarmers:      &remaining,
				MarkFirstSample: markFirstSample,
			}
			if i == 0 {
				one := int64(1)
				opts.MinFarmers = &one
			}

			result, err := s.sampler.SampleAndCreateTasks(ctx, cand.ID, opts)
			if err != nil {
				counters.ErrorCount++
				errs = append(errs, fmt.Sprintf("activity %s: %v", cand.ID.Hex(), err))
			} else {
				counters.Processed++
				counters.TasksCreatedTotal += result.TasksCreated
				counters.SkippedFarmers += result.SkippedFarmers
				createdForOfficer += result.TasksCreated
				s.classify(&counters, result.LifecycleStatus)
			}
			if isLast || (err == nil && counters.Processed%CheckpointEvery == 0) {
				s.checkpoint(ctx, run.ID, counters, errs, cand.ID.Hex())
			}
		}
	}

	return s.finish(ctx, run.ID, counters, errs)
}

// ExecuteFlat chạy ad-hoc run trên danh sách activity không phân nhóm:
// không budget, không sàn tối thiểu, mỗi activity sampling độc lập theo phần trăm.
func (s *RunExecutorService) ExecuteFlat(ctx context.Context, run samplingmodels.SamplingRun, activityIDs []primitive.ObjectID, percentage float64) (*RunOutcome, error) {
	counters := run.Counters
	var errs []string

	for idx, activityID := range activityIDs {
		isLast := idx == len(activityIDs)-1

		result, err := s.sampler.SampleAndCreateTasks(ctx, activityID, SampleOptions{
			RunID:      run.ID,
			Percentage: percentage,
		})
		if err != nil {
			counters.ErrorCount++
			errs = append(errs, fmt.Sprintf("activity %s: %v", activityID.Hex(), err))
		} else {
			counters.Processed++
			counters.TasksCreatedTotal += result.TasksCreated
			counters.SkippedFarmers += result.SkippedFarmers
			s.classify(&counters, result.LifecycleStatus)
		}
		if isLast || (err == nil && counters.Processed%CheckpointEvery == 0) {
			s.checkpoint(ctx, run.ID, counters, errs, activityID.Hex())
		}
	}

	return s.finish(ctx, run.ID, counters, errs)
}

// classify cộng bộ đếm theo trạng thái vòng đời kết quả
func (s *RunExecutorService) classify(counters *samplingmodels.RunCounters, lifecycleStatus string) {
	switch lifecycleStatus {
	case samplingmodels.ActivityStatusSampled:
		counters.SampledActivities++
	case samplingmodels.ActivityStatusInactive:
		counters.InactiveActivities++
	}
}

// checkpoint ghi tiến độ. Caller quyết định thời điểm: mỗi CheckpointEvery
// item process thành công và tại item cuối cùng. Lỗi checkpoint chỉ được log,
// không dừng run.
func (s *RunExecutorService) checkpoint(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string, lastProcessedID string) {
	if err := s.tracker.CheckpointProgress(ctx, runID, counters, errs, lastProcessedID); err != nil {
		s.log.WithFields(logrus.Fields{
			"runId": runID.Hex(),
			"error": err.Error(),
		}).Warn("Không ghi được checkpoint tiến độ run")
	}
}

// finish finalize run và cắt tail lỗi cho response
func (s *RunExecutorService) finish(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string) (*RunOutcome, error) {
	run, err := s.tracker.Finalize(ctx, runID, counters, errs)
	if err != nil {
		return nil, err
	}
	return &RunOutcome{
		Run:    run,
		Errors: errorTail(errs, ErrorTailResponse),
	}, nil
}
