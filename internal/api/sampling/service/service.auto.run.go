package samplingsvc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/logger"
)

// Lý do auto-run không chạy, trả về cho caller để hiển thị và log
const (
	AutoRunReasonDisabled       = "disabled"
	AutoRunReasonBeforeActivate = "before_activation_date"
	AutoRunReasonBelowThreshold = "below_threshold"
	AutoRunReasonAlreadyRunning = "already_running"
)

// AutoRunService là gate cho sampling tự động: chỉ khởi chạy first-sample run
// khi cấu hình bật, đã qua ngày kích hoạt, backlog đạt ngưỡng và không có
// run nào đang chạy. Gate không chạy được không phải là lỗi.
type AutoRunService struct {
	configSvc   *SamplingConfigService
	rangeSvc    *RangeResolverService
	runSvc      *SamplingRunService
	coordinator *RunCoordinatorService
	log         *logrus.Logger
}

// NewAutoRunService tạo mới AutoRunService
func NewAutoRunService(configSvc *SamplingConfigService, rangeSvc *RangeResolverService, runSvc *SamplingRunService, coordinator *RunCoordinatorService) *AutoRunService {
	return &AutoRunService{
		configSvc:   configSvc,
		rangeSvc:    rangeSvc,
		runSvc:      runSvc,
		coordinator: coordinator,
		log:         logger.GetWorkerLogger(),
	}
}

// TryAutoRun đánh giá gate và khởi chạy run nếu mọi điều kiện thỏa.
// Trả về Ran=false kèm Reason khi gate chặn, lỗi chỉ khi chính run thất bại.
func (s *AutoRunService) TryAutoRun(ctx context.Context, initiatorID string) (*samplingdto.AutoRunResult, error) {
	cfg, err := s.configSvc.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	if !cfg.AutoRunEnabled {
		return &samplingdto.AutoRunResult{Ran: false, Reason: AutoRunReasonDisabled}, nil
	}
	if cfg.AutoRunActivationDate > 0 && time.Now().UnixMilli() < cfg.AutoRunActivationDate {
		return &samplingdto.AutoRunResult{Ran: false, Reason: AutoRunReasonBeforeActivate}, nil
	}

	resolved, err := s.rangeSvc.ResolveFirstSampleRange(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	backlog := resolved.MatchedCount
	if backlog < cfg.AutoRunThreshold {
		return &samplingdto.AutoRunResult{Ran: false, Reason: AutoRunReasonBelowThreshold, Backlog: backlog}, nil
	}

	running, err := s.runSvc.HasRunningRun(ctx, initiatorID, samplingmodels.RunTypeFirstSample)
	if err != nil {
		return nil, err
	}
	if running {
		return &samplingdto.AutoRunResult{Ran: false, Reason: AutoRunReasonAlreadyRunning, Backlog: backlog}, nil
	}

	s.log.WithFields(logrus.Fields{
		"initiator": initiatorID,
		"backlog":   backlog,
		"dateFrom":  resolved.DateFrom,
		"dateTo":    resolved.DateTo,
	}).Info("Auto-run gate mở, khởi chạy first-sample run")

	outcome, err := s.coordinator.StartRun(ctx, initiatorID, samplingdto.RunInput{
		RunType:  samplingmodels.RunTypeFirstSample,
		DateFrom: resolved.DateFrom,
		DateTo:   resolved.DateTo,
	})
	if err != nil {
		return nil, err
	}

	counters := outcome.Run.Counters
	if err := s.configSvc.RecordAutoRun(ctx, counters.Matched, counters.Processed, counters.TasksCreatedTotal); err != nil {
		// Bookkeeping hỏng không làm hỏng run đã chạy xong
		s.log.WithField("error", err.Error()).Warn("Không ghi được bookkeeping auto-run")
	}

	return &samplingdto.AutoRunResult{
		Ran:     true,
		Backlog: backlog,
		Run:     outcome.Run,
	}, nil
}
