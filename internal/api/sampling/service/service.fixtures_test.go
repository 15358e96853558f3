package samplingsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	samplingmodels "agri_connect/internal/api/sampling/models"
)

// samplingActivityFixture tạo activity active chưa từng được sampling
func samplingActivityFixture(officerID string, farmers []primitive.ObjectID) samplingmodels.Activity {
	return samplingmodels.Activity{
		ID:        primitive.NewObjectID(),
		Type:      "field_visit",
		Date:      1700000000000,
		OfficerID: officerID,
		Farmers:   farmers,
		Status:    samplingmodels.ActivityStatusActive,
	}
}

// fakeSampler trả kết quả/lỗi theo kịch bản định sẵn và ghi lại options của từng lần gọi
type fakeSampler struct {
	results map[primitive.ObjectID]*SampleResult
	errs    map[primitive.ObjectID]error
	calls   []fakeSamplerCall
}

type fakeSamplerCall struct {
	ActivityID primitive.ObjectID
	Opts       SampleOptions
}

func newFakeSampler() *fakeSampler {
	return &fakeSampler{
		results: map[primitive.ObjectID]*SampleResult{},
		errs:    map[primitive.ObjectID]error{},
	}
}

func (f *fakeSampler) SampleAndCreateTasks(ctx context.Context, activityID primitive.ObjectID, opts SampleOptions) (*SampleResult, error) {
	f.calls = append(f.calls, fakeSamplerCall{ActivityID: activityID, Opts: opts})
	if err, ok := f.errs[activityID]; ok {
		return nil, err
	}
	if res, ok := f.results[activityID]; ok {
		return res, nil
	}
	return &SampleResult{TasksCreated: 1, LifecycleStatus: samplingmodels.ActivityStatusSampled}, nil
}

// fakeTracker ghi lại các checkpoint và finalize bằng FinalStatus thật
type fakeTracker struct {
	checkpoints []samplingmodels.RunCounters
	finalized   *samplingmodels.SamplingRun
}

func (f *fakeTracker) CheckpointProgress(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string, lastProcessedID string) error {
	f.checkpoints = append(f.checkpoints, counters)
	return nil
}

func (f *fakeTracker) Finalize(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string) (samplingmodels.SamplingRun, error) {
	run := samplingmodels.SamplingRun{
		ID:       runID,
		Status:   FinalStatus(counters),
		Counters: counters,
		Errors:   errorTail(errs, ErrorTailStored),
	}
	f.finalized = &run
	return run, nil
}
