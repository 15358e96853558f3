package samplinghdl

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	basehdl "agri_connect/internal/api/base/handler"
	"agri_connect/internal/api/middleware"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	samplingsvc "agri_connect/internal/api/sampling/service"
	"agri_connect/internal/common"
)

// SamplingRunHandler xử lý các endpoint khởi chạy và theo dõi sampling run.
// Embed BaseHandler để đăng ký thêm các route đọc CRUD trên collection run.
type SamplingRunHandler struct {
	*basehdl.BaseHandler[samplingmodels.SamplingRun]
	coordinator *samplingsvc.RunCoordinatorService
	autoRunSvc  *samplingsvc.AutoRunService
	rangeSvc    *samplingsvc.RangeResolverService
	runSvc      *samplingsvc.SamplingRunService
}

// NewSamplingRunHandler tạo mới SamplingRunHandler
func NewSamplingRunHandler(coordinator *samplingsvc.RunCoordinatorService, autoRunSvc *samplingsvc.AutoRunService, rangeSvc *samplingsvc.RangeResolverService, runSvc *samplingsvc.SamplingRunService) *SamplingRunHandler {
	return &SamplingRunHandler{
		BaseHandler: basehdl.NewBaseHandler(runSvc.BaseServiceMongoImpl),
		coordinator: coordinator,
		autoRunSvc:  autoRunSvc,
		rangeSvc:    rangeSvc,
		runSvc:      runSvc,
	}
}

// Run khởi chạy một sampling run đồng bộ, response trả về khi run kết thúc
func (h *SamplingRunHandler) Run(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input samplingdto.RunInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		outcome, err := h.coordinator.StartRun(c.Context(), middleware.GetUserID(c), input)
		basehdl.HandleResponse(c, outcome, err)
		return nil
	})
}

// AutoRun là entry point cho scheduler: đánh giá gate và chạy nếu đủ điều kiện
func (h *SamplingRunHandler) AutoRun(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input samplingdto.AutoRunInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		initiatorID := input.InitiatorID
		if initiatorID == "" {
			initiatorID = middleware.GetUserID(c)
		}
		result, err := h.autoRunSvc.TryAutoRun(c.Context(), initiatorID)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// FirstSampleRange trả về khoảng ngày đề xuất cho first-sample run tiếp theo
func (h *SamplingRunHandler) FirstSampleRange(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		result, err := h.rangeSvc.ResolveFirstSampleRange(c.Context(), middleware.GetUserID(c))
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// LatestRun trả về run gần nhất của user hiện tại, nil data nếu chưa từng chạy
func (h *SamplingRunHandler) LatestRun(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		run, err := h.runSvc.LatestByUser(c.Context(), middleware.GetUserID(c))
		if err != nil && errors.Is(err, common.ErrNotFound) {
			basehdl.HandleResponse(c, nil, nil)
			return nil
		}
		basehdl.HandleResponse(c, run, err)
		return nil
	})
}
