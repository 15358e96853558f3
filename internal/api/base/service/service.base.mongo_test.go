package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeFilter(t *testing.T) {
	assert.Equal(t, bson.D{}, normalizeFilter(nil))
	assert.Equal(t, bson.D{}, normalizeFilter(map[string]interface{}{}))

	filter := bson.M{"status": "active"}
	assert.Equal(t, filter, normalizeFilter(filter))
}

func TestWithUpdatedAt_InjectsIntoSet(t *testing.T) {
	update := bson.M{"$set": bson.M{"status": "sampled"}}

	result := withUpdatedAt(update)

	updateMap, ok := result.(bson.M)
	require.True(t, ok)
	set, ok := updateMap["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "sampled", set["status"])
	assert.NotZero(t, set["updatedAt"])
}

func TestWithUpdatedAt_CreatesSetWhenMissing(t *testing.T) {
	update := bson.M{"$inc": bson.M{"count": 1}}

	result := withUpdatedAt(update)

	updateMap := result.(bson.M)
	set, ok := updateMap["$set"].(bson.M)
	require.True(t, ok)
	assert.NotZero(t, set["updatedAt"])
	assert.Equal(t, bson.M{"count": 1}, updateMap["$inc"])
}

func TestWithUpdatedAt_NonMapPassthrough(t *testing.T) {
	update := bson.D{{Key: "$set", Value: bson.M{"a": 1}}}
	assert.Equal(t, update, withUpdatedAt(update))
}
