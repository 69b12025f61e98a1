package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/pkg/jwt"
	"github.com/AJ4200/whatiearn/pkg/redis"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// 上下文键
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxClaims = "claims"
	CtxToken  = "token"
)

// JWTAuth JWT 认证中间件
// 优先读取会话 Cookie，其次 Authorization: Bearer <token>；
// rdb 为 nil 时不检查黑名单（降级模式）
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "未登录")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("检查 Token 黑名单失败，降级放行", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, response.CodeUnauthorized, "Token 已注销")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxClaims, claims)
		c.Set(CtxToken, token)

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
