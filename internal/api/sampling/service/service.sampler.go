package samplingsvc

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "agri_connect/internal/api/base/service"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/common"
	"agri_connect/internal/global"
)

// SampleOptions điều khiển một lần sampling trên một activity
type SampleOptions struct {
	RunID           primitive.ObjectID
	Percentage      float64 // <= 0 thì lấy theo cấu hình của loại activity
	MinFarmers      *int64  // Sàn số farmer được chọn (executor dùng cho activity đầu tiên của officer)
	MaxFarmers      *int64  // Trần số farmer được chọn (budget còn lại của officer)
	MarkFirstSample bool    // Đánh dấu activity đã qua first-sample run
}

// SampleResult là kết quả sampling của một activity
type SampleResult struct {
	TasksCreated    int64
	SkippedFarmers  int64  // Farmer không được chọn (gồm cả farmer đang trong cooling period)
	LifecycleStatus string // Trạng thái vòng đời mới của activity: sampled hoặc inactive
}

// ActivitySamplerService chọn farmer từ một activity, tạo call task,
// ghi audit và chuyển trạng thái vòng đời. Mỗi lần gọi process đúng
// một activity để lỗi của một activity không lan sang activity khác.
type ActivitySamplerService struct {
	activities *basesvc.BaseServiceMongoImpl[samplingmodels.Activity]
	tasks      *basesvc.BaseServiceMongoImpl[samplingmodels.CallTask]
	audits     *basesvc.BaseServiceMongoImpl[samplingmodels.SamplingAudit]
	configSvc  *SamplingConfigService
}

// NewActivitySamplerService tạo mới ActivitySamplerService
func NewActivitySamplerService(configSvc *SamplingConfigService) *ActivitySamplerService {
	return &ActivitySamplerService{
		activities: basesvc.NewBaseServiceMongo[samplingmodels.Activity](mustCollection(global.ColNames.Activities)),
		tasks:      basesvc.NewBaseServiceMongo[samplingmodels.CallTask](mustCollection(global.ColNames.CallTasks)),
		audits:     basesvc.NewBaseServiceMongo[samplingmodels.SamplingAudit](mustCollection(global.ColNames.SamplingAudits)),
		configSvc:  configSvc,
	}
}

// computeSampleSize tính số farmer cần chọn: ceil(eligible × pct / 100),
// nâng lên sàn min nếu có, rồi chặn bởi trần max và số farmer khả dụng.
// Trần áp sau sàn nên budget của officer không bao giờ bị vượt.
func computeSampleSize(eligible int64, percentage float64, minFarmers, maxFarmers *int64) int64 {
	if eligible <= 0 {
		return 0
	}
	size := int64(math.Ceil(float64(eligible) * percentage / 100))
	if minFarmers != nil && size < *minFarmers {
		size = *minFarmers
	}
	if maxFarmers != nil && size > *maxFarmers {
		size = *maxFarmers
	}
	if size > eligible {
		size = eligible
	}
	if size < 0 {
		size = 0
	}
	return size
}

// SampleAndCreateTasks process một activity: lọc farmer trong cooling period,
// chọn ngẫu nhiên theo phần trăm, tạo call task, ghi audit và chuyển trạng thái.
// Activity không có farmer được chọn chuyển sang inactive thay vì sampled.
func (s *ActivitySamplerService) SampleAndCreateTasks(ctx context.Context, activityID primitive.ObjectID, opts SampleOptions) (*SampleResult, error) {
	activity, err := s.activities.FindOneById(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Status == samplingmodels.ActivityStatusSampled {
		return nil, common.NewError(common.ErrCodeBusinessState,
			"Activity đã được sampling, dùng reactivate nếu cần chạy lại", common.StatusConflict, activityID.Hex())
	}

	cfg, err := s.configSvc.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}
	percentage := opts.Percentage
	if percentage <= 0 {
		percentage = cfg.PercentageForType(activity.Type)
	}

	eligible, err := s.filterCoolingPeriod(ctx, activity.Farmers, cfg.CoolingDays)
	if err != nil {
		return nil, err
	}

	sampleSize := computeSampleSize(int64(len(eligible)), percentage, opts.MinFarmers, opts.MaxFarmers)
	totalFarmers := int64(len(activity.Farmers))

	if sampleSize == 0 {
		if err := s.transition(ctx, activity.ID, samplingmodels.ActivityStatusInactive, opts.MarkFirstSample); err != nil {
			return nil, err
		}
		if err := s.writeAudit(ctx, activity.ID, opts.RunID, percentage, totalFarmers, 0); err != nil {
			return nil, err
		}
		return &SampleResult{
			TasksCreated:    0,
			SkippedFarmers:  totalFarmers,
			LifecycleStatus: samplingmodels.ActivityStatusInactive,
		}, nil
	}

	selected := pickRandom(eligible, sampleSize)
	taskDocs := make([]samplingmodels.CallTask, 0, len(selected))
	for _, farmerID := range selected {
		taskDocs = append(taskDocs, samplingmodels.CallTask{
			FarmerID:         farmerID,
			ActivityID:       activity.ID,
			RunID:            opts.RunID,
			AssignmentStatus: samplingmodels.TaskAssignmentUnassigned,
		})
	}
	if _, err := s.tasks.InsertMany(ctx, taskDocs); err != nil {
		return nil, err
	}

	if err := s.transition(ctx, activity.ID, samplingmodels.ActivityStatusSampled, opts.MarkFirstSample); err != nil {
		return nil, err
	}
	if err := s.writeAudit(ctx, activity.ID, opts.RunID, percentage, totalFarmers, int64(len(selected))); err != nil {
		return nil, err
	}

	return &SampleResult{
		TasksCreated:    int64(len(selected)),
		SkippedFarmers:  totalFarmers - int64(len(selected)),
		LifecycleStatus: samplingmodels.ActivityStatusSampled,
	}, nil
}

// filterCoolingPeriod loại các farmer đã có call task trong cooling period
func (s *ActivitySamplerService) filterCoolingPeriod(ctx context.Context, farmers []primitive.ObjectID, coolingDays int) ([]primitive.ObjectID, error) {
	if coolingDays <= 0 || len(farmers) == 0 {
		return farmers, nil
	}
	cutoff := time.Now().AddDate(0, 0, -coolingDays).UnixMilli()
	recent, err := s.tasks.Distinct(ctx, "farmerId", bson.M{
		"farmerId":  bson.M{"$in": farmers},
		"createdAt": bson.M{"$gte": cutoff},
	})
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return farmers, nil
	}

	cooling := make(map[primitive.ObjectID]struct{}, len(recent))
	for _, v := range recent {
		if id, ok := v.(primitive.ObjectID); ok {
			cooling[id] = struct{}{}
		}
	}
	eligible := make([]primitive.ObjectID, 0, len(farmers))
	for _, farmerID := range farmers {
		if _, hot := cooling[farmerID]; !hot {
			eligible = append(eligible, farmerID)
		}
	}
	return eligible, nil
}

// pickRandom chọn ngẫu nhiên n phần tử, không sửa slice gốc
func pickRandom(farmers []primitive.ObjectID, n int64) []primitive.ObjectID {
	if n >= int64(len(farmers)) {
		return farmers
	}
	shuffled := make([]primitive.ObjectID, len(farmers))
	copy(shuffled, farmers)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// transition chuyển trạng thái vòng đời của activity sau khi process
func (s *ActivitySamplerService) transition(ctx context.Context, activityID primitive.ObjectID, status string, markFirstSample bool) error {
	set := bson.M{"status": status}
	if markFirstSample {
		set["firstSampleRun"] = true
	}
	_, err := s.activities.UpdateById(ctx, activityID, bson.M{"$set": set})
	return err
}

// writeAudit ghi bản ghi audit bất biến cho một lần sampling
func (s *ActivitySamplerService) writeAudit(ctx context.Context, activityID, runID primitive.ObjectID, percentage float64, totalFarmers, sampledCount int64) error {
	_, err := s.audits.InsertOne(ctx, samplingmodels.SamplingAudit{
		ActivityID:   activityID,
		RunID:        runID,
		Percentage:   percentage,
		TotalFarmers: totalFarmers,
		SampledCount: sampledCount,
	})
	return err
}
