package controller

import (
	"io"

	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// principal 读取认证中间件写入的调用方；缺失时直接返回 401
func principal(ctx *gin.Context) (util.Principal, bool) {
	p, ok := util.GetPrincipal(ctx)
	if !ok {
		util.Unauthorized(ctx, util.ErrUnauthenticated.Error())
	}
	return p, ok
}

// requireSelfOrAdmin 管理员或资源所属用户本人
func requireSelfOrAdmin(ctx *gin.Context, userID string) (util.Principal, bool) {
	p, ok := principal(ctx)
	if !ok {
		return p, false
	}
	if !p.CanAccessUser(userID) {
		util.Forbidden(ctx)
		return p, false
	}
	return p, true
}

// readUpload 读取 multipart 的 file 字段，超过上限返回校验错误
func readUpload(ctx *gin.Context) ([]byte, string, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return nil, "", util.NewValidationError("file", "is required")
	}
	if fh.Size > util.MaxImageSize {
		return nil, "", util.NewValidationError("file", "exceeds 5MB")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, util.MaxImageSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > util.MaxImageSize {
		return nil, "", util.NewValidationError("file", "exceeds 5MB")
	}
	return data, fh.Filename, nil
}
