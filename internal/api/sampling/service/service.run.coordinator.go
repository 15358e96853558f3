package samplingsvc

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "agri_connect/internal/api/base/service"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/common"
	"agri_connect/internal/global"
	"agri_connect/internal/logger"
)

// RunCoordinatorService ghép các bước của một sampling run:
// guard chống chạy trùng, resolve khoảng ngày, đếm và fetch ứng viên,
// tạo bản ghi run, phân bổ chỉ tiêu rồi giao cho executor.
type RunCoordinatorService struct {
	activities *basesvc.BaseServiceMongoImpl[samplingmodels.Activity]
	configSvc  *SamplingConfigService
	rangeSvc   *RangeResolverService
	runSvc     *SamplingRunService
	executor   *RunExecutorService
	log        *logrus.Logger
}

// NewRunCoordinatorService tạo mới RunCoordinatorService
func NewRunCoordinatorService(configSvc *SamplingConfigService, rangeSvc *RangeResolverService, runSvc *SamplingRunService, sampler *ActivitySamplerService) *RunCoordinatorService {
	return &RunCoordinatorService{
		activities: basesvc.NewBaseServiceMongo[samplingmodels.Activity](mustCollection(global.ColNames.Activities)),
		configSvc:  configSvc,
		rangeSvc:   rangeSvc,
		runSvc:     runSvc,
		executor:   NewRunExecutorService(sampler, runSvc),
		log:        logger.GetAppLogger(),
	}
}

// StartRun chạy một sampling run đồng bộ và trả về kết quả khi run kết thúc.
// Hai đường xử lý theo runType:
//   - first_sample: khoảng ngày tự resolve nếu không truyền, phân bổ chỉ tiêu
//     theo officer, đánh dấu firstSampleRun trên mọi activity được process.
//   - adhoc: chạy phẳng trên danh sách id hoặc khoảng ngày, không budget,
//     không đụng đến firstSampleRun.
func (s *RunCoordinatorService) StartRun(ctx context.Context, userID string, input samplingdto.RunInput) (*RunOutcome, error) {
	if !input.Force {
		running, err := s.runSvc.HasRunningRun(ctx, userID, input.RunType)
		if err != nil {
			return nil, err
		}
		if running {
			return nil, common.NewError(common.ErrCodeBusinessState,
				"Đang có run cùng loại chưa kết thúc, dùng force để bỏ qua", common.StatusConflict, nil)
		}
	}

	cfg, err := s.configSvc.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	// Phần trăm truyền vào override cấu hình cho cả phân bổ lẫn sampler.
	// Không truyền thì allocator dùng mặc định, sampler tự tra theo loại.
	allocPercentage := cfg.DefaultPercentage
	samplerPercentage := float64(0)
	if input.Percentage != nil {
		allocPercentage = *input.Percentage
		samplerPercentage = *input.Percentage
	}

	switch input.RunType {
	case samplingmodels.RunTypeFirstSample:
		return s.startFirstSample(ctx, userID, input, cfg, allocPercentage, samplerPercentage)
	case samplingmodels.RunTypeAdhoc:
		return s.startAdhoc(ctx, userID, input, samplerPercentage)
	default:
		return nil, common.NewError(common.ErrCodeValidationInput,
			"runType không hợp lệ", common.StatusBadRequest, input.RunType)
	}
}

// explicitFirstSampleRange kiểm tra khoảng ngày truyền tay cho first-sample:
// phải đủ cả hai đầu, hoặc bỏ trống cả hai để resolver tự tính.
// Truyền một nửa bị từ chối thay vì âm thầm bỏ qua đầu đã truyền.
func explicitFirstSampleRange(dateFrom, dateTo int64) (bool, error) {
	if dateFrom > 0 && dateTo > 0 {
		return true, nil
	}
	if dateFrom == 0 && dateTo == 0 {
		return false, nil
	}
	return false, common.NewError(common.ErrCodeValidationInput,
		"Khoảng ngày phải truyền đủ cả dateFrom và dateTo", common.StatusBadRequest, nil)
}

func (s *RunCoordinatorService) startFirstSample(ctx context.Context, userID string, input samplingdto.RunInput, cfg samplingmodels.SamplingConfig, allocPercentage, samplerPercentage float64) (*RunOutcome, error) {
	explicit, err := explicitFirstSampleRange(input.DateFrom, input.DateTo)
	if err != nil {
		return nil, err
	}
	dateFrom, dateTo := input.DateFrom, input.DateTo
	if !explicit {
		resolved, err := s.rangeSvc.ResolveFirstSampleRange(ctx, userID)
		if err != nil {
			return nil, err
		}
		dateFrom, dateTo = resolved.DateFrom, resolved.DateTo
	}

	filter := BuildEligibilityFilter(dateFrom, dateTo, cfg.EligibleTypes)
	matched, candidates, err := s.fetchCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}

	run, err := s.runSvc.CreateRunning(ctx, userID, samplingmodels.RunTypeFirstSample, samplingmodels.RunFilters{
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		LifecycleStatus: samplingmodels.ActivityStatusActive,
		Percentage:      allocPercentage,
		Force:           input.Force,
	}, matched)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"runCode":  run.RunCode,
		"matched":  matched,
		"fetched":  len(candidates),
		"dateFrom": dateFrom,
		"dateTo":   dateTo,
	}).Info("Bắt đầu first-sample run")

	groups := Allocate(candidatesOf(candidates), allocPercentage)
	return s.executor.ExecuteGrouped(ctx, run, groups, samplerPercentage, true)
}

func (s *RunCoordinatorService) startAdhoc(ctx context.Context, userID string, input samplingdto.RunInput, samplerPercentage float64) (*RunOutcome, error) {
	filter, ids, err := adhocFilter(input)
	if err != nil {
		return nil, err
	}

	matched, candidates, err := s.fetchCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}

	run, err := s.runSvc.CreateRunning(ctx, userID, samplingmodels.RunTypeAdhoc, samplingmodels.RunFilters{
		DateFrom:    input.DateFrom,
		DateTo:      input.DateTo,
		Percentage:  samplerPercentage,
		Force:       input.Force,
		ActivityIDs: ids,
	}, matched)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"runCode": run.RunCode,
		"matched": matched,
		"fetched": len(candidates),
	}).Info("Bắt đầu ad-hoc run")

	activityIDs := make([]primitive.ObjectID, 0, len(candidates))
	for _, a := range candidates {
		activityIDs = append(activityIDs, a.ID)
	}
	return s.executor.ExecuteFlat(ctx, run, activityIDs, samplerPercentage)
}

// adhocFilter dựng filter cho ad-hoc run: theo danh sách id nếu có,
// ngược lại theo khoảng ngày. Activity đã sampled luôn bị loại.
func adhocFilter(input samplingdto.RunInput) (bson.M, []string, error) {
	filter := bson.M{
		"status":    bson.M{"$ne": samplingmodels.ActivityStatusSampled},
		"farmers.0": bson.M{"$exists": true},
	}

	if len(input.ActivityIDs) > 0 {
		objectIDs := make([]primitive.ObjectID, 0, len(input.ActivityIDs))
		for _, hex := range input.ActivityIDs {
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, nil, common.NewError(common.ErrCodeValidationFormat,
					"activityIds chứa id không hợp lệ", common.StatusBadRequest, hex)
			}
			objectIDs = append(objectIDs, id)
		}
		filter["_id"] = bson.M{"$in": objectIDs}
		return filter, input.ActivityIDs, nil
	}

	if input.DateFrom == 0 && input.DateTo == 0 {
		return nil, nil, common.NewError(common.ErrCodeValidationInput,
			"Ad-hoc run cần activityIds hoặc khoảng ngày", common.StatusBadRequest, nil)
	}

	dateRange := bson.M{}
	if input.DateFrom > 0 {
		dateRange["$gte"] = input.DateFrom
	}
	if input.DateTo > 0 {
		dateRange["$lte"] = input.DateTo
	}
	filter["date"] = dateRange
	filter["status"] = samplingmodels.ActivityStatusActive
	return filter, nil, nil
}

// fetchCandidates đếm tổng match rồi fetch tối đa BulkRunCap activity,
// sắp theo ngày tăng dần để activity cũ được process trước.
func (s *RunCoordinatorService) fetchCandidates(ctx context.Context, filter bson.M) (int64, []samplingmodels.Activity, error) {
	matched, err := s.activities.CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	if matched > BulkRunCap {
		s.log.WithFields(logrus.Fields{
			"matched": matched,
			"cap":     BulkRunCap,
		}).Warn("Số activity match vượt trần một run, phần còn lại chờ run sau")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(BulkRunCap)
	candidates, err := s.activities.Find(ctx, filter, opts)
	if err != nil {
		return 0, nil, err
	}
	return matched, candidates, nil
}

// candidatesOf chuyển danh sách Activity thành input cho allocator
func candidatesOf(activities []samplingmodels.Activity) []Candidate {
	out := make([]Candidate, 0, len(activities))
	for _, a := range activities {
		out = append(out, CandidateFromActivity(a))
	}
	return out
}
