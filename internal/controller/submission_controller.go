package controller

import (
	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// @Summary 研究提交列表
// @Tags 提交
// @Produce json
// @Param status query string false "pending/published/rejected"
// @Param studentId query string false "作者ID"
// @Success 200 {array} model.Submission
// @Router /api/submissions [get]
func (c *SubmissionController) List(ctx *gin.Context) {
	filter := repository.SubmissionFilter{
		Status:    model.SubmissionStatus(ctx.Query("status")),
		StudentID: ctx.Query("studentId"),
	}
	submissions, err := c.SubmissionService.List(ctx.Request.Context(), filter)
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch submissions")
		return
	}
	util.Success(ctx, submissions)
}

// @Summary 提交详情
// @Tags 提交
// @Produce json
// @Param id path string true "提交ID"
// @Success 200 {object} model.Submission
// @Failure 404 {object} util.ErrorResponse
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) Get(ctx *gin.Context) {
	submission, err := c.SubmissionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch submission")
		return
	}
	util.Success(ctx, submission)
}

// @Summary 新建提交
// @Tags 提交
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateSubmissionInput true "提交内容"
// @Success 200 {object} model.Submission
// @Failure 400 {object} util.ErrorResponse
// @Router /api/submissions [post]
func (c *SubmissionController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req service.CreateSubmissionInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to create submission")
		return
	}

	submission, err := c.SubmissionService.Create(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to create submission")
		return
	}
	util.Success(ctx, submission)
}

// @Summary 更新提交
// @Description 作者或管理员可修改内容，审核状态只有管理员可改
// @Tags 提交
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "提交ID"
// @Param body body service.UpdateSubmissionInput true "提交字段"
// @Success 200 {object} model.Submission
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/submissions/{id} [put]
func (c *SubmissionController) Update(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req service.UpdateSubmissionInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to update submission")
		return
	}

	submission, err := c.SubmissionService.Update(ctx.Request.Context(), p, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to update submission")
		return
	}
	util.Success(ctx, submission)
}

// @Summary 删除提交
// @Tags 提交
// @Produce json
// @Security BearerAuth
// @Param id path string true "提交ID"
// @Success 200 {object} util.SuccessResponse
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/submissions/{id} [delete]
func (c *SubmissionController) Delete(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	if err := c.SubmissionService.Delete(ctx.Request.Context(), p, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err, "Failed to delete submission")
		return
	}
	util.OK(ctx)
}
