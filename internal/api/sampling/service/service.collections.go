package samplingsvc

import (
	"go.mongodb.org/mongo-driver/mongo"

	"agri_connect/internal/global"
)

// mustCollection lấy collection từ registry, panic nếu chưa đăng ký.
// Chỉ gọi trong constructor của service, sau khi init.registry đã chạy.
func mustCollection(name string) *mongo.Collection {
	col, ok := global.RegistryCollections.Get(name)
	if !ok {
		panic("collection chưa được đăng ký: " + name)
	}
	return col
}
