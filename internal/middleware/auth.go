package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// extractToken 依次读取 Authorization 头和登录 cookie
func extractToken(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return authHeader
	}
	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil {
			return token
		}
	}
	return ""
}

// AuthMiddleware 只做认证：没有令牌或令牌无效返回 401，通过后写入 Principal；角色由各路由自行声明
func AuthMiddleware(tokens *util.TokenIssuer, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cookieName)
		if tokenString == "" {
			util.Unauthorized(c, util.ErrUnauthenticated.Error())
			return
		}

		principal, err := tokens.Validate(tokenString)
		if err != nil {
			logger.Log.Debug("Token rejected",
				zap.Error(err),
				zap.String("path", c.FullPath()),
				zap.String("request_id", c.GetString(util.RequestIDKey)),
			)
			util.Unauthorized(c, util.ErrInvalidToken.Error())
			return
		}

		util.SetPrincipal(c, principal)
		c.Next()
	}
}

// RoleMiddleware 要求调用方角色在 roles 中，管理员始终放行
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := util.GetPrincipal(c)
		if !ok {
			util.Unauthorized(c, util.ErrUnauthenticated.Error())
			return
		}

		if !principal.IsAdmin() && !principal.HasRole(roles...) {
			util.Forbidden(c)
			return
		}
		c.Next()
	}
}

type UserActivityRecorder interface {
	TouchLastSeen(ctx context.Context, userID string) error
}

// ActivityMiddleware 记录用户最近活跃时间，同一用户 interval 内只写一次
func ActivityMiddleware(recorder UserActivityRecorder, interval time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	lastWrite := make(map[string]time.Time)

	return func(c *gin.Context) {
		principal, ok := util.GetPrincipal(c)
		if ok {
			now := time.Now()
			mu.Lock()
			due := now.Sub(lastWrite[principal.UserID]) >= interval
			if due {
				lastWrite[principal.UserID] = now
			}
			mu.Unlock()

			if due {
				if err := recorder.TouchLastSeen(c.Request.Context(), principal.UserID); err != nil {
					logger.Log.Warn("Failed to update last seen", zap.String("user_id", principal.UserID), zap.Error(err))
				}
			}
		}
		c.Next()
	}
}
