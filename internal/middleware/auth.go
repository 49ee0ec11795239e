// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fluentai-go/pkg/token"
)

// 上下文键，身份通过 AuthMiddleware 注入。
const (
	ContextUserID      = "userID"
	ContextDisplayName = "displayName"
)

// AuthMiddleware 创建一个 Gin 中间件，用于校验身份 token。
// token 只承载身份（用户 ID 与展示名），不承载任何凭据语义。
// 校验通过后把身份字段存入 Gin 的上下文，供后续处理函数使用。
func AuthMiddleware(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请求未包含授权头"})
			return
		}

		// Token 以 "Bearer <token>" 的形式提供
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的授权头格式"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效或已过期的 token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextDisplayName, claims.DisplayName)
		c.Next()
	}
}

// UserID 从上下文取出当前请求的用户 ID。
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
