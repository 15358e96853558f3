package samplingsvc

import (
	basesvc "agri_connect/internal/api/base/service"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/global"
)

// SamplingAuditService mở các thao tác đọc trên lịch sử sampling audit.
// Audit chỉ được ghi bởi per-activity sampler và xóa bởi reactivate cascade,
// cả hai đều đi qua service khác nên ở đây không thêm thao tác ghi.
type SamplingAuditService struct {
	*basesvc.BaseServiceMongoImpl[samplingmodels.SamplingAudit]
}

// NewSamplingAuditService tạo mới SamplingAuditService
func NewSamplingAuditService() *SamplingAuditService {
	return &SamplingAuditService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[samplingmodels.SamplingAudit](mustCollection(global.ColNames.SamplingAudits)),
	}
}
