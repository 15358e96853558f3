package middleware

import (
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v3"

	"agri_connect/internal/common"
	"agri_connect/internal/global"
)

// TokenClaims là payload của access token
type TokenClaims struct {
	UserID      string   `json:"userId"`
	Permissions []string `json:"permissions"`
	jwt.StandardClaims
}

// AuthMiddleware trả về middleware xác thực Bearer token và kiểm tra quyền.
// permission rỗng nghĩa là chỉ cần đăng nhập, không cần quyền cụ thể.
//
// Sau khi xác thực thành công, userId được lưu vào Locals("user_id")
// để các handler phía sau sử dụng.
func AuthMiddleware(permission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization", "")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &TokenClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(global.ServerConfig.JwtSecret), nil
		})
		if err != nil || !token.Valid {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if claims.UserID == "" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra quyền nếu route yêu cầu
		if permission != "" && !hasPermission(claims.Permissions, permission) {
			HandleErrorResponse(c, common.ErrNoPermission)
			return nil
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

// hasPermission kiểm tra danh sách quyền có chứa quyền yêu cầu.
// Hỗ trợ wildcard: "*" (mọi quyền) và "Prefix.*" (mọi thao tác trong prefix).
func hasPermission(granted []string, required string) bool {
	prefix := required
	if idx := strings.LastIndex(required, "."); idx >= 0 {
		prefix = required[:idx]
	}
	for _, p := range granted {
		if p == "*" || p == required || p == prefix+".*" {
			return true
		}
	}
	return false
}

// GetUserID lấy userId đã xác thực từ context, trả về chuỗi rỗng nếu chưa đăng nhập
func GetUserID(c fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok {
		return userID
	}
	return ""
}
