package basehdl

// Các handler CRUD đọc dùng chung cho mọi collection.
// Ghi/sửa/xóa của domain sampling đi qua các endpoint nghiệp vụ riêng,
// nên base layer chỉ mở các thao tác đọc.

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agri_connect/internal/common"
)

// Find tìm tất cả document theo query param `filter` (JSON)
func (h *BaseHandler[T]) Find(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		filter, err := ParseFilterQuery(c)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.Find(c.Context(), filter, nil)
		HandleResponse(c, data, err)
		return nil
	})
}

// FindOne tìm một document theo query param `filter` (JSON)
func (h *BaseHandler[T]) FindOne(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		filter, err := ParseFilterQuery(c)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOne(c.Context(), filter, nil)
		HandleResponse(c, data, err)
		return nil
	})
}

// FindOneById tìm một document theo URL param :id
func (h *BaseHandler[T]) FindOneById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id, err := ParseObjectIDParam(c, "id")
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOneById(c.Context(), id)
		HandleResponse(c, data, err)
		return nil
	})
}

// FindManyByIds tìm nhiều document theo danh sách id trong body
func (h *BaseHandler[T]) FindManyByIds(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		var input struct {
			IDs []string `json:"ids" validate:"required,min=1,dive,objectid_hex"`
		}
		if err := ParseRequestBody(c, &input); err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		if err := ValidateInput(&input); err != nil {
			HandleResponse(c, nil, err)
			return nil
		}

		ids := make([]primitive.ObjectID, 0, len(input.IDs))
		for _, raw := range input.IDs {
			id, _ := primitive.ObjectIDFromHex(raw)
			ids = append(ids, id)
		}

		data, err := h.BaseService.FindManyByIds(c.Context(), ids)
		HandleResponse(c, data, err)
		return nil
	})
}

// FindWithPagination tìm document theo filter với phân trang (query: filter, page, limit)
func (h *BaseHandler[T]) FindWithPagination(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		filter, err := ParseFilterQuery(c)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}

		page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
		limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

		data, err := h.BaseService.FindWithPagination(c.Context(), filter, page, limit, nil)
		HandleResponse(c, data, err)
		return nil
	})
}

// CountDocuments đếm số document theo filter
func (h *BaseHandler[T]) CountDocuments(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		filter, err := ParseFilterQuery(c)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		count, err := h.BaseService.CountDocuments(c.Context(), filter)
		HandleResponse(c, fiber.Map{"count": count}, err)
		return nil
	})
}

// Distinct lấy danh sách giá trị khác nhau của một trường (query: field, filter)
func (h *BaseHandler[T]) Distinct(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		field := c.Query("field", "")
		if field == "" {
			HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Query param field là bắt buộc",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}
		filter, err := ParseFilterQuery(c)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		values, err := h.BaseService.Distinct(c.Context(), field, filter)
		HandleResponse(c, values, err)
		return nil
	})
}

// DocumentExists kiểm tra document tồn tại theo filter
func (h *BaseHandler[T]) DocumentExists(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		filter, err := ParseFilterQuery(c)
		if err != nil {
			HandleResponse(c, nil, err)
			return nil
		}
		exists, err := h.BaseService.DocumentExists(c.Context(), filter)
		HandleResponse(c, fiber.Map{"exists": exists}, err)
		return nil
	})
}
