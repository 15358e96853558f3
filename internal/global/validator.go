package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	// Đăng ký các custom validator
	_ = Validate.RegisterValidation("objectid_hex", validateObjectIDHex)
	_ = Validate.RegisterValidation("confirm_yes", validateConfirmYes)
}

// validateObjectIDHex kiểm tra string có phải là ObjectID hex hợp lệ
func validateObjectIDHex(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // để omitempty/required quyết định
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

// validateConfirmYes kiểm tra token xác nhận cho các thao tác nguy hiểm (reactivate).
// Chỉ chấp nhận đúng chuỗi "YES" để tránh xác nhận vô tình.
func validateConfirmYes(fl validator.FieldLevel) bool {
	return fl.Field().String() == "YES"
}
