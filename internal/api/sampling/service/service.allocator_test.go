// Package samplingsvc - Test phân bổ chỉ tiêu sampling theo officer.
package samplingsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func candidate(officerID string, farmerCount int64) Candidate {
	return Candidate{
		ID:          primitive.NewObjectID(),
		OfficerID:   officerID,
		FarmerCount: farmerCount,
	}
}

func findGroup(t *testing.T, groups []OfficerGroup, officerID string) OfficerGroup {
	t.Helper()
	for _, g := range groups {
		if g.OfficerID == officerID {
			return g
		}
	}
	t.Fatalf("không tìm thấy nhóm của officer %s", officerID)
	return OfficerGroup{}
}

func TestAllocate_ProportionalTargets(t *testing.T) {
	// Tổng 17 farmer, 10% → desiredTotal = ceil(1.7) = 2.
	// A nặng 14 → round(14/17 × 2) = 2, B nhẹ 3 → round(0.35) = 0 nâng sàn 1.
	candidates := []Candidate{
		candidate("officer-a", 8),
		candidate("officer-a", 6),
		candidate("officer-b", 3),
	}

	groups := Allocate(candidates, 10)

	assert.Len(t, groups, 2)
	a := findGroup(t, groups, "officer-a")
	b := findGroup(t, groups, "officer-b")
	assert.Equal(t, int64(14), a.TotalFarmers)
	assert.Equal(t, int64(2), a.Target)
	assert.Equal(t, int64(3), b.TotalFarmers)
	assert.Equal(t, int64(1), b.Target)
}

func TestAllocate_FairnessFloor(t *testing.T) {
	// Nhiều officer trọng số nhỏ: ai cũng phải có ít nhất 1 chỉ tiêu
	candidates := []Candidate{
		candidate("officer-big", 100),
		candidate("officer-s1", 1),
		candidate("officer-s2", 1),
		candidate("officer-s3", 1),
	}

	groups := Allocate(candidates, 5)

	for _, g := range groups {
		assert.GreaterOrEqual(t, g.Target, int64(1), "officer %s không có chỉ tiêu", g.OfficerID)
	}
}

func TestAllocate_SkipsCandidatesWithoutFarmers(t *testing.T) {
	candidates := []Candidate{
		candidate("officer-a", 0),
		candidate("officer-b", 5),
	}

	groups := Allocate(candidates, 10)

	assert.Len(t, groups, 1)
	assert.Equal(t, "officer-b", groups[0].OfficerID)
}

func TestAllocate_EmptyInput(t *testing.T) {
	assert.Empty(t, Allocate(nil, 10))
	assert.Empty(t, Allocate([]Candidate{candidate("x", 0)}, 10))
}

func TestAllocate_SortsActivitiesByFarmerCountDesc(t *testing.T) {
	candidates := []Candidate{
		candidate("officer-a", 2),
		candidate("officer-a", 9),
		candidate("officer-a", 5),
	}

	groups := Allocate(candidates, 10)

	a := findGroup(t, groups, "officer-a")
	assert.Equal(t, int64(9), a.Activities[0].FarmerCount)
	assert.Equal(t, int64(5), a.Activities[1].FarmerCount)
	assert.Equal(t, int64(2), a.Activities[2].FarmerCount)
}

func TestAllocate_BlankOfficerGroupedAsUnknown(t *testing.T) {
	candidates := []Candidate{
		candidate("", 4),
		candidate("", 2),
	}

	groups := Allocate(candidates, 50)

	assert.Len(t, groups, 1)
	assert.Equal(t, UnknownOfficerID, groups[0].OfficerID)
	assert.Equal(t, int64(6), groups[0].TotalFarmers)
}

func TestDesiredTotal_Clamps(t *testing.T) {
	// Phần trăm nhỏ vẫn tối thiểu 1
	assert.Equal(t, int64(1), DesiredTotal(5, 1))
	// Không vượt tổng trọng số
	assert.Equal(t, int64(10), DesiredTotal(10, 100))
	// Nửa chừng: ceil
	assert.Equal(t, int64(2), DesiredTotal(17, 10))
	// Không có trọng số
	assert.Equal(t, int64(0), DesiredTotal(0, 10))
}

func TestCandidateFromActivity(t *testing.T) {
	farmers := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	a := samplingActivityFixture("officer-a", farmers)

	c := CandidateFromActivity(a)

	assert.Equal(t, a.ID, c.ID)
	assert.Equal(t, "officer-a", c.OfficerID)
	assert.Equal(t, int64(2), c.FarmerCount)

	a.OfficerID = ""
	assert.Equal(t, UnknownOfficerID, CandidateFromActivity(a).OfficerID)
}
