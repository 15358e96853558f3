package samplinghdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "agri_connect/internal/api/base/handler"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingsvc "agri_connect/internal/api/sampling/service"
)

// SamplingConfigHandler xử lý các endpoint cấu hình sampling
type SamplingConfigHandler struct {
	configSvc   *samplingsvc.SamplingConfigService
	activitySvc *samplingsvc.ActivityService
}

// NewSamplingConfigHandler tạo mới SamplingConfigHandler
func NewSamplingConfigHandler(configSvc *samplingsvc.SamplingConfigService, activitySvc *samplingsvc.ActivityService) *SamplingConfigHandler {
	return &SamplingConfigHandler{
		configSvc:   configSvc,
		activitySvc: activitySvc,
	}
}

// GetConfig trả về cấu hình sampling hiện tại, tự seed mặc định nếu chưa có
func (h *SamplingConfigHandler) GetConfig(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		cfg, err := h.configSvc.GetOrCreateDefault(c.Context())
		basehdl.HandleResponse(c, cfg, err)
		return nil
	})
}

// UpdateConfig cập nhật từng phần cấu hình sampling
func (h *SamplingConfigHandler) UpdateConfig(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input samplingdto.ConfigUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		cfg, err := h.configSvc.UpdateDefault(c.Context(), input)
		basehdl.HandleResponse(c, cfg, err)
		return nil
	})
}

// ApplyEligibility áp dụng danh sách loại activity được phép sampling
// và chuyển trạng thái các activity bị ảnh hưởng
func (h *SamplingConfigHandler) ApplyEligibility(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input samplingdto.ApplyEligibilityInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.activitySvc.ApplyEligibility(c.Context(), input.EligibleTypes)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
