package samplinghdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "agri_connect/internal/api/base/handler"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	samplingsvc "agri_connect/internal/api/sampling/service"
)

// SamplingAuditHandler xử lý các endpoint đọc lịch sử sampling audit.
// Audit là dữ liệu bất biến nên chỉ có thao tác đọc.
type SamplingAuditHandler struct {
	*basehdl.BaseHandler[samplingmodels.SamplingAudit]
	activitySvc *samplingsvc.ActivityService
}

// NewSamplingAuditHandler tạo mới SamplingAuditHandler
func NewSamplingAuditHandler(auditSvc *samplingsvc.SamplingAuditService, activitySvc *samplingsvc.ActivityService) *SamplingAuditHandler {
	return &SamplingAuditHandler{
		BaseHandler: basehdl.NewBaseHandler(auditSvc.BaseServiceMongoImpl),
		activitySvc: activitySvc,
	}
}

// ListAudits liệt kê lịch sử audit có phân trang, lọc theo activityId nếu truyền
func (h *SamplingAuditHandler) ListAudits(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var query samplingdto.AuditListQuery
		if err := basehdl.ParseRequestQuery(c, &query); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := basehdl.ValidateInput(query); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.activitySvc.ListAudits(c.Context(), query)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
