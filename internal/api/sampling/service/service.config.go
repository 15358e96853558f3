package samplingsvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "agri_connect/internal/api/base/service"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/common"
	"agri_connect/internal/global"
)

// Giá trị mặc định khi chưa có bản ghi cấu hình trong DB
const (
	DefaultSamplePercentage = 10.0
	DefaultCoolingDays      = 30
	DefaultAutoRunThreshold = 200
)

// SamplingConfigService quản lý singleton cấu hình sampling (key = "default")
type SamplingConfigService struct {
	*basesvc.BaseServiceMongoImpl[samplingmodels.SamplingConfig]
}

// NewSamplingConfigService tạo mới SamplingConfigService
func NewSamplingConfigService() *SamplingConfigService {
	return &SamplingConfigService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[samplingmodels.SamplingConfig](mustCollection(global.ColNames.SamplingConfigs)),
	}
}

// GetOrCreateDefault lấy cấu hình singleton, tự seed giá trị mặc định nếu chưa có
func (s *SamplingConfigService) GetOrCreateDefault(ctx context.Context) (samplingmodels.SamplingConfig, error) {
	cfg, err := s.FindOne(ctx, bson.M{"key": samplingmodels.ConfigKeyDefault}, nil)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return samplingmodels.SamplingConfig{}, err
	}

	seed := samplingmodels.SamplingConfig{
		Key:               samplingmodels.ConfigKeyDefault,
		DefaultPercentage: DefaultSamplePercentage,
		TypePercentages:   map[string]float64{},
		EligibleTypes:     []string{},
		CoolingDays:       DefaultCoolingDays,
		AutoRunEnabled:    false,
		AutoRunThreshold:  DefaultAutoRunThreshold,
	}
	created, err := s.InsertOne(ctx, seed)
	if err != nil {
		// Hai request cùng seed: bản ghi kia thắng nhờ unique index trên key
		if errors.Is(err, common.ErrMongoDuplicate) {
			return s.FindOne(ctx, bson.M{"key": samplingmodels.ConfigKeyDefault}, nil)
		}
		return samplingmodels.SamplingConfig{}, err
	}
	return created, nil
}

// UpdateDefault cập nhật từng phần cấu hình singleton, chỉ các field khác nil được ghi đè
func (s *SamplingConfigService) UpdateDefault(ctx context.Context, input samplingdto.ConfigUpdateInput) (samplingmodels.SamplingConfig, error) {
	if _, err := s.GetOrCreateDefault(ctx); err != nil {
		return samplingmodels.SamplingConfig{}, err
	}

	set := bson.M{}
	if input.DefaultPercentage != nil {
		set["defaultPercentage"] = *input.DefaultPercentage
	}
	if input.TypePercentages != nil {
		set["typePercentages"] = input.TypePercentages
	}
	if input.EligibleTypes != nil {
		set["eligibleTypes"] = input.EligibleTypes
	}
	if input.CoolingDays != nil {
		set["coolingDays"] = *input.CoolingDays
	}
	if input.AutoRunEnabled != nil {
		set["autoRunEnabled"] = *input.AutoRunEnabled
	}
	if input.AutoRunThreshold != nil {
		set["autoRunThreshold"] = *input.AutoRunThreshold
	}
	if input.AutoRunActivationDate != nil {
		set["autoRunActivationDate"] = *input.AutoRunActivationDate
	}
	if len(set) == 0 {
		return s.GetOrCreateDefault(ctx)
	}

	return s.FindOneAndUpdate(ctx,
		bson.M{"key": samplingmodels.ConfigKeyDefault},
		bson.M{"$set": set},
		nil,
	)
}

// SetEligibleTypes ghi lại danh sách loại activity được phép sampling
func (s *SamplingConfigService) SetEligibleTypes(ctx context.Context, eligibleTypes []string) (samplingmodels.SamplingConfig, error) {
	if _, err := s.GetOrCreateDefault(ctx); err != nil {
		return samplingmodels.SamplingConfig{}, err
	}
	if eligibleTypes == nil {
		eligibleTypes = []string{}
	}
	return s.FindOneAndUpdate(ctx,
		bson.M{"key": samplingmodels.ConfigKeyDefault},
		bson.M{"$set": bson.M{"eligibleTypes": eligibleTypes}},
		nil,
	)
}

// RecordAutoRun lưu bookkeeping của lần auto-run gần nhất
func (s *SamplingConfigService) RecordAutoRun(ctx context.Context, matched int64, processed int64, tasksCreated int64) error {
	_, err := s.FindOneAndUpdate(ctx,
		bson.M{"key": samplingmodels.ConfigKeyDefault},
		bson.M{"$set": bson.M{"lastAutoRun": samplingmodels.AutoRunBookkeeping{
			At:           time.Now().UnixMilli(),
			Matched:      matched,
			Processed:    processed,
			TasksCreated: tasksCreated,
		}}},
		nil,
	)
	return err
}
