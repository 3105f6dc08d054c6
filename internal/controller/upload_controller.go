package controller

import (
	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Storage *service.StorageService
}

func NewUploadController(storage *service.StorageService) *UploadController {
	return &UploadController{Storage: storage}
}

// @Summary 上传图片
// @Description 用于提交的封面图，返回可直接填入 imageUrl 的地址
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片，最大5MB"
// @Success 200 {object} object "{url}"
// @Failure 400 {object} util.ErrorResponse
// @Router /api/uploads/images [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	data, filename, err := readUpload(ctx)
	if err != nil {
		util.HandleError(ctx, err, "Failed to upload image")
		return
	}

	url, err := c.Storage.UploadImage(ctx.Request.Context(), "submissions", filename, data)
	if err != nil {
		util.HandleError(ctx, err, "Failed to upload image")
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
