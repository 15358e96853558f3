package samplingdto

// StatsQuery là query params của GET /stats
type StatsQuery struct {
	DateFrom int64 `query:"dateFrom" validate:"omitempty,gt=0"`
	DateTo   int64 `query:"dateTo" validate:"omitempty,gt=0"`
}

// ActivityListQuery là query params của GET /activities
type ActivityListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=active sampled inactive not_eligible"`
	Type     string `query:"type"`
	DateFrom int64  `query:"dateFrom" validate:"omitempty,gt=0"`
	DateTo   int64  `query:"dateTo" validate:"omitempty,gt=0"`
	Page     int64  `query:"page" validate:"omitempty,gte=1"`
	Limit    int64  `query:"limit" validate:"omitempty,gte=1,lte=200"`
}

// AuditListQuery là query params của GET /audit
type AuditListQuery struct {
	ActivityID string `query:"activityId" validate:"omitempty,objectid_hex"`
	Page       int64  `query:"page" validate:"omitempty,gte=1"`
	Limit      int64  `query:"limit" validate:"omitempty,gte=1,lte=200"`
}

// TypeStats là thống kê của một (loại activity, trạng thái)
type TypeStats struct {
	Type         string `json:"type" bson:"type"`
	Status       string `json:"status" bson:"status"`
	Activities   int64  `json:"activities" bson:"activities"`
	TotalFarmers int64  `json:"totalFarmers" bson:"totalFarmers"`
}

// TaskStats là thống kê call task theo trạng thái phân công
type TaskStats struct {
	AssignmentStatus string `json:"assignmentStatus" bson:"_id"`
	Count            int64  `json:"count" bson:"count"`
}

// StatsResult là kết quả tổng hợp của GET /stats
type StatsResult struct {
	Activities []TypeStats `json:"activities"`
	Tasks      []TaskStats `json:"tasks"`
}
