package samplinghdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "agri_connect/internal/api/base/handler"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	samplingsvc "agri_connect/internal/api/sampling/service"
)

// SamplingActivityHandler xử lý các endpoint trên activity:
// liệt kê, thống kê và reactivate thủ công.
type SamplingActivityHandler struct {
	*basehdl.BaseHandler[samplingmodels.Activity]
	activitySvc *samplingsvc.ActivityService
}

// NewSamplingActivityHandler tạo mới SamplingActivityHandler
func NewSamplingActivityHandler(activitySvc *samplingsvc.ActivityService) *SamplingActivityHandler {
	return &SamplingActivityHandler{
		BaseHandler: basehdl.NewBaseHandler(activitySvc.BaseServiceMongoImpl),
		activitySvc: activitySvc,
	}
}

// ListActivities liệt kê activity có phân trang theo status, loại, khoảng ngày
func (h *SamplingActivityHandler) ListActivities(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var query samplingdto.ActivityListQuery
		if err := basehdl.ParseRequestQuery(c, &query); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(query); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.activitySvc.ListActivities(c.Context(), query)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// Stats trả về thống kê activity theo (loại, trạng thái) và call task theo phân công
func (h *SamplingActivityHandler) Stats(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var query samplingdto.StatsQuery
		if err := basehdl.ParseRequestQuery(c, &query); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(query); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.activitySvc.Stats(c.Context(), query)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// ReactivatePreview là dry-run của reactivate: đếm các đối tượng bị ảnh hưởng
func (h *SamplingActivityHandler) ReactivatePreview(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var selector samplingdto.ReactivateSelector
		if err := basehdl.ParseRequestQuery(c, &selector); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(selector); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.activitySvc.ReactivatePreview(c.Context(), selector)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// Reactivate đưa activity về active, yêu cầu confirm "YES" trong body
func (h *SamplingActivityHandler) Reactivate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input samplingdto.ReactivateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.activitySvc.Reactivate(c.Context(), input)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
