// Package samplingsvc - Test vòng lặp executor: budget, checkpoint, lỗi per-item.
package samplingsvc

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/common"
)

func runFixture(matched int64) samplingmodels.SamplingRun {
	return samplingmodels.SamplingRun{
		ID:       primitive.NewObjectID(),
		RunType:  samplingmodels.RunTypeFirstSample,
		Status:   samplingmodels.RunStatusRunning,
		Counters: samplingmodels.RunCounters{Matched: matched},
	}
}

func groupFixture(officerID string, target int64, activityIDs ...primitive.ObjectID) OfficerGroup {
	g := OfficerGroup{OfficerID: officerID, Target: target}
	for _, id := range activityIDs {
		g.Activities = append(g.Activities, Candidate{ID: id, OfficerID: officerID, FarmerCount: 5})
	}
	return g
}

func TestExecuteGrouped_RespectsOfficerBudget(t *testing.T) {
	act1, act2 := primitive.NewObjectID(), primitive.NewObjectID()
	sampler := newFakeSampler()
	// Activity đầu dùng hết budget 2 của officer
	sampler.results[act1] = &SampleResult{TasksCreated: 2, LifecycleStatus: samplingmodels.ActivityStatusSampled}
	tracker := &fakeTracker{}
	executor := NewRunExecutorService(sampler, tracker)

	outcome, err := executor.ExecuteGrouped(context.Background(), runFixture(2),
		[]OfficerGroup{groupFixture("officer-a", 2, act1, act2)}, 10, true)

	require.NoError(t, err)
	// Sampler chỉ được gọi cho activity đầu, activity sau bị skip
	require.Len(t, sampler.calls, 1)
	assert.Equal(t, act1, sampler.calls[0].ActivityID)

	counters := outcome.Run.Counters
	assert.Equal(t, int64(2), counters.TasksCreatedTotal)
	assert.Equal(t, int64(1), counters.Processed)
	assert.Equal(t, int64(1), counters.Skipped)
	assert.Equal(t, int64(1), counters.SampledActivities)
	assert.Equal(t, samplingmodels.RunStatusCompleted, outcome.Run.Status)
}

func TestExecuteGrouped_FirstActivityHasFloorOfOne(t *testing.T) {
	act1, act2 := primitive.NewObjectID(), primitive.NewObjectID()
	sampler := newFakeSampler()
	sampler.results[act1] = &SampleResult{TasksCreated: 1, LifecycleStatus: samplingmodels.ActivityStatusSampled}
	sampler.results[act2] = &SampleResult{TasksCreated: 1, LifecycleStatus: samplingmodels.ActivityStatusSampled}
	executor := NewRunExecutorService(sampler, &fakeTracker{})

	_, err := executor.ExecuteGrouped(context.Background(), runFixture(2),
		[]OfficerGroup{groupFixture("officer-a", 3, act1, act2)}, 10, true)

	require.NoError(t, err)
	require.Len(t, sampler.calls, 2)

	first := sampler.calls[0].Opts
	require.NotNil(t, first.MinFarmers)
	assert.Equal(t, int64(1), *first.MinFarmers)
	require.NotNil(t, first.MaxFarmers)
	assert.Equal(t, int64(3), *first.MaxFarmers)

	second := sampler.calls[1].Opts
	assert.Nil(t, second.MinFarmers, "sàn 1 chỉ áp cho activity đầu của nhóm")
	require.NotNil(t, second.MaxFarmers)
	assert.Equal(t, int64(2), *second.MaxFarmers, "trần phải trừ số task đã tạo")
	assert.True(t, second.MarkFirstSample)
}

func TestExecuteGrouped_ItemErrorDoesNotStopRun(t *testing.T) {
	act1, act2 := primitive.NewObjectID(), primitive.NewObjectID()
	sampler := newFakeSampler()
	sampler.errs[act1] = common.ErrMongoQuery
	sampler.results[act2] = &SampleResult{TasksCreated: 1, LifecycleStatus: samplingmodels.ActivityStatusSampled}
	executor := NewRunExecutorService(sampler, &fakeTracker{})

	outcome, err := executor.ExecuteGrouped(context.Background(), runFixture(2),
		[]OfficerGroup{groupFixture("officer-a", 2, act1, act2)}, 10, true)

	require.NoError(t, err)
	counters := outcome.Run.Counters
	assert.Equal(t, int64(1), counters.Processed)
	assert.Equal(t, int64(1), counters.ErrorCount)
	assert.Equal(t, int64(1), counters.TasksCreatedTotal)
	// Có tiến độ nên run vẫn completed, lỗi nằm trong tail
	assert.Equal(t, samplingmodels.RunStatusCompleted, outcome.Run.Status)
	require.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], act1.Hex())
}

func TestExecuteFlat_AllErrorsMeansFailed(t *testing.T) {
	act1, act2 := primitive.NewObjectID(), primitive.NewObjectID()
	sampler := newFakeSampler()
	sampler.errs[act1] = common.ErrMongoQuery
	sampler.errs[act2] = common.ErrMongoQuery
	executor := NewRunExecutorService(sampler, &fakeTracker{})

	outcome, err := executor.ExecuteFlat(context.Background(), runFixture(2),
		[]primitive.ObjectID{act1, act2}, 10)

	require.NoError(t, err)
	// Không item nào process được và có lỗi → failed
	assert.Equal(t, int64(0), outcome.Run.Counters.Processed)
	assert.Equal(t, int64(2), outcome.Run.Counters.ErrorCount)
	assert.Equal(t, samplingmodels.RunStatusFailed, outcome.Run.Status)
}

func TestFinalStatus_FailedOnlyWhenNoProgressAndErrors(t *testing.T) {
	assert.Equal(t, samplingmodels.RunStatusFailed,
		FinalStatus(samplingmodels.RunCounters{Processed: 0, ErrorCount: 3}))
	assert.Equal(t, samplingmodels.RunStatusCompleted,
		FinalStatus(samplingmodels.RunCounters{Processed: 5, ErrorCount: 3}))
	assert.Equal(t, samplingmodels.RunStatusCompleted,
		FinalStatus(samplingmodels.RunCounters{Processed: 0, ErrorCount: 0}))
}

func TestExecuteFlat_CheckpointCadence(t *testing.T) {
	sampler := newFakeSampler()
	tracker := &fakeTracker{}
	executor := NewRunExecutorService(sampler, tracker)

	ids := make([]primitive.ObjectID, 7)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	_, err := executor.ExecuteFlat(context.Background(), runFixture(7), ids, 10)

	require.NoError(t, err)
	// Checkpoint tại item 5 (chu kỳ) và item 7 (cuối)
	require.Len(t, tracker.checkpoints, 2)
	assert.Equal(t, int64(5), tracker.checkpoints[0].Processed)
	assert.Equal(t, int64(7), tracker.checkpoints[1].Processed)
}

func TestExecuteFlat_AccumulatesSkippedFarmers(t *testing.T) {
	act1, act2 := primitive.NewObjectID(), primitive.NewObjectID()
	sampler := newFakeSampler()
	sampler.results[act1] = &SampleResult{TasksCreated: 2, SkippedFarmers: 3, LifecycleStatus: samplingmodels.ActivityStatusSampled}
	sampler.results[act2] = &SampleResult{TasksCreated: 0, SkippedFarmers: 4, LifecycleStatus: samplingmodels.ActivityStatusInactive}
	executor := NewRunExecutorService(sampler, &fakeTracker{})

	outcome, err := executor.ExecuteFlat(context.Background(), runFixture(2),
		[]primitive.ObjectID{act1, act2}, 10)

	require.NoError(t, err)
	// Farmer bị loại bởi cooling period hay trần số mẫu phải hiện trong bộ đếm run
	assert.Equal(t, int64(7), outcome.Run.Counters.SkippedFarmers)
	assert.Equal(t, int64(2), outcome.Run.Counters.TasksCreatedTotal)
}

func TestExecuteFlat_CheckpointCadenceCountsProcessedOnly(t *testing.T) {
	sampler := newFakeSampler()
	tracker := &fakeTracker{}
	executor := NewRunExecutorService(sampler, tracker)

	// 2 item lỗi rồi 6 item thành công: lỗi không đẩy chu kỳ checkpoint
	ids := make([]primitive.ObjectID, 8)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	sampler.errs[ids[0]] = common.ErrMongoQuery
	sampler.errs[ids[1]] = common.ErrMongoQuery

	_, err := executor.ExecuteFlat(context.Background(), runFixture(8), ids, 10)

	require.NoError(t, err)
	// Checkpoint khi Processed chạm 5 (item thứ 7) và tại item cuối (Processed 6)
	require.Len(t, tracker.checkpoints, 2)
	assert.Equal(t, int64(5), tracker.checkpoints[0].Processed)
	assert.Equal(t, int64(2), tracker.checkpoints[0].ErrorCount)
	assert.Equal(t, int64(6), tracker.checkpoints[1].Processed)
}

func TestExecuteFlat_ErrorTailLimits(t *testing.T) {
	sampler := newFakeSampler()
	ids := make([]primitive.ObjectID, 60)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
		sampler.errs[ids[i]] = fmt.Errorf("lỗi %d", i)
	}
	tracker := &fakeTracker{}
	executor := NewRunExecutorService(sampler, tracker)

	outcome, err := executor.ExecuteFlat(context.Background(), runFixture(60), ids, 10)

	require.NoError(t, err)
	assert.Len(t, outcome.Errors, ErrorTailResponse)
	assert.Len(t, tracker.finalized.Errors, ErrorTailStored)
	// Tail giữ lỗi gần nhất
	assert.Contains(t, outcome.Errors[len(outcome.Errors)-1], ids[59].Hex())
}

func TestErrorTail(t *testing.T) {
	errs := []string{"a", "b", "c"}
	assert.Equal(t, errs, errorTail(errs, 5))
	assert.Equal(t, []string{"b", "c"}, errorTail(errs, 2))
}
