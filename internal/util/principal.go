package util

import (
	"context"

	"intern_hub_backend/internal/model"

	"github.com/gin-gonic/gin"
)

// Principal 通过认证的调用方
type Principal struct {
	UserID string
	Role   model.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.Admin
}

// HasRole 调用方角色是否在允许集合内
func (p Principal) HasRole(roles ...model.UserRole) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// CanAccessUser 管理员或本人
func (p Principal) CanAccessUser(userID string) bool {
	return p.IsAdmin() || p.UserID == userID
}

type principalCtxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}

// SetPrincipal 同时写入 gin 上下文与请求 context
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(PrincipalKey, p)
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
