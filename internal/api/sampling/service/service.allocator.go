package samplingsvc

import (
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	samplingmodels "agri_connect/internal/api/sampling/models"
)

// UnknownOfficerID là nhóm cho các activity thiếu mã officer
const UnknownOfficerID = "unknown"

// Candidate là một activity ứng viên cho sampling (đã fetch, chỉ giữ phần allocator cần)
type Candidate struct {
	ID          primitive.ObjectID
	OfficerID   string
	FarmerCount int64
}

// OfficerGroup là nhóm activity của một officer với chỉ tiêu sampling được phân bổ
type OfficerGroup struct {
	OfficerID    string
	TotalFarmers int64       // Tổng số farmer của nhóm
	Target       int64       // Số farmer cần chọn cho nhóm này
	Activities   []Candidate // Sắp theo số farmer giảm dần — activity lớn được process trước
}

// CandidateFromActivity chuyển Activity thành Candidate cho allocator
func CandidateFromActivity(a samplingmodels.Activity) Candidate {
	officerID := a.OfficerID
	if officerID == "" {
		officerID = UnknownOfficerID
	}
	return Candidate{
		ID:          a.ID,
		OfficerID:   officerID,
		FarmerCount: int64(len(a.Farmers)),
	}
}

// Allocate phân bổ chỉ tiêu sampling theo officer với sàn công bằng (fairness floor).
//
// Thuật toán:
//  1. Loại ứng viên không có farmer.
//  2. Nhóm theo officer, trong nhóm sắp theo số farmer giảm dần.
//  3. desiredTotal = clamp(ceil(totalWeight × pct / 100), 1, totalWeight).
//  4. Chỉ tiêu nhóm = max(1, round(trọng số nhóm / tổng × desiredTotal)).
//
// Mọi officer có ít nhất một farmer hợp lệ đều nhận tối thiểu 1 chỉ tiêu.
// Vì làm tròn và sàn tối thiểu, sum(Target) có thể vượt desiredTotal khi có
// nhiều officer trọng số thấp — đây là hành vi cố ý, không hiệu chỉnh lại.
func Allocate(candidates []Candidate, percentage float64) []OfficerGroup {
	groupIndex := make(map[string]*OfficerGroup)
	order := make([]string, 0)
	var totalWeight int64

	for _, c := range candidates {
		// Ứng viên không có farmer không tham gia phân bổ
		if c.FarmerCount <= 0 {
			continue
		}
		officerID := c.OfficerID
		if officerID == "" {
			officerID = UnknownOfficerID
		}
		g, ok := groupIndex[officerID]
		if !ok {
			g = &OfficerGroup{OfficerID: officerID}
			groupIndex[officerID] = g
			order = append(order, officerID)
		}
		g.Activities = append(g.Activities, c)
		g.TotalFarmers += c.FarmerCount
		totalWeight += c.FarmerCount
	}

	if totalWeight == 0 {
		return []OfficerGroup{}
	}

	// desiredTotal bị chặn trong [1, totalWeight]
	desiredTotal := int64(math.Ceil(float64(totalWeight) * percentage / 100))
	if desiredTotal < 1 {
		desiredTotal = 1
	}
	if desiredTotal > totalWeight {
		desiredTotal = totalWeight
	}

	groups := make([]OfficerGroup, 0, len(order))
	for _, officerID := range order {
		g := groupIndex[officerID]

		// Activity lớn được process trước để đạt chỉ tiêu nhóm sớm
		sort.SliceStable(g.Activities, func(i, j int) bool {
			return g.Activities[i].FarmerCount > g.Activities[j].FarmerCount
		})

		target := int64(math.Round(float64(g.TotalFarmers) / float64(totalWeight) * float64(desiredTotal)))
		if target < 1 {
			target = 1
		}
		g.Target = target
		groups = append(groups, *g)
	}

	return groups
}

// DesiredTotal trả về tổng số farmer mong muốn cho một batch (để log/trace)
func DesiredTotal(totalWeight int64, percentage float64) int64 {
	if totalWeight <= 0 {
		return 0
	}
	desired := int64(math.Ceil(float64(totalWeight) * percentage / 100))
	if desired < 1 {
		desired = 1
	}
	if desired > totalWeight {
		desired = totalWeight
	}
	return desired
}
