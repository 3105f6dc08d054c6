package controller

import (
	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController 课时完成状态，只操作调用者本人的记录
type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 课程学习进度
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {array} model.LessonProgress
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{courseId}/progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	progress, err := c.ProgressService.ListForCourse(ctx.Request.Context(), p.UserID, ctx.Param("courseId"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch progress")
		return
	}
	util.Success(ctx, progress)
}

// @Summary 标记课时完成
// @Description 幂等，重复调用返回同一条记录
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param lessonId path string true "课时ID"
// @Success 200 {object} model.LessonProgress
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{courseId}/lessons/{lessonId}/complete [post]
func (c *ProgressController) Complete(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	progress, err := c.ProgressService.MarkComplete(ctx.Request.Context(), p.UserID, ctx.Param("courseId"), ctx.Param("lessonId"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to mark lesson complete")
		return
	}
	util.Success(ctx, progress)
}

// @Summary 取消课时完成
// @Description 记录不存在时同样返回成功
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param lessonId path string true "课时ID"
// @Success 200 {object} util.SuccessResponse
// @Router /api/courses/{courseId}/lessons/{lessonId}/complete [delete]
func (c *ProgressController) Uncomplete(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	if err := c.ProgressService.Unmark(ctx.Request.Context(), p.UserID, ctx.Param("courseId"), ctx.Param("lessonId")); err != nil {
		util.HandleError(ctx, err, "Failed to unmark lesson")
		return
	}
	util.OK(ctx)
}
