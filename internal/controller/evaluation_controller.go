package controller

import (
	"fmt"
	"time"

	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EvaluationController struct {
	EvaluationService *service.EvaluationService
}

func NewEvaluationController(evaluationService *service.EvaluationService) *EvaluationController {
	return &EvaluationController{EvaluationService: evaluationService}
}

// @Summary 所有评价
// @Tags 评价
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Evaluation
// @Router /api/evaluations [get]
func (c *EvaluationController) List(ctx *gin.Context) {
	evaluations, err := c.EvaluationService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch evaluations")
		return
	}
	util.Success(ctx, evaluations)
}

// @Summary 某实习生的评价
// @Description 管理员或实习生本人
// @Tags 评价
// @Produce json
// @Security BearerAuth
// @Param internId path string true "实习生ID"
// @Success 200 {array} model.Evaluation
// @Failure 403 {object} util.ErrorResponse
// @Router /api/evaluations/intern/{internId} [get]
func (c *EvaluationController) ListByIntern(ctx *gin.Context) {
	internID := ctx.Param("internId")
	if _, ok := requireSelfOrAdmin(ctx, internID); !ok {
		return
	}

	evaluations, err := c.EvaluationService.ListByIntern(ctx.Request.Context(), internID)
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch evaluations")
		return
	}
	util.Success(ctx, evaluations)
}

// @Summary 新增评价
// @Description 四项评分取值 0-5，同一导师可多次评价同一实习生
// @Tags 评价
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateEvaluationInput true "评价"
// @Success 200 {object} model.Evaluation
// @Failure 400 {object} util.ErrorResponse "评分越界"
// @Router /api/evaluations [post]
func (c *EvaluationController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req service.CreateEvaluationInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to create evaluation")
		return
	}

	evaluation, err := c.EvaluationService.Create(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to create evaluation")
		return
	}
	util.Success(ctx, evaluation)
}

// @Summary 删除评价
// @Tags 评价
// @Produce json
// @Security BearerAuth
// @Param id path string true "评价ID"
// @Success 200 {object} util.SuccessResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/evaluations/{id} [delete]
func (c *EvaluationController) Delete(ctx *gin.Context) {
	if err := c.EvaluationService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err, "Failed to delete evaluation")
		return
	}
	util.OK(ctx)
}

// @Summary 导出评价
// @Tags 评价
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/evaluations/export [get]
func (c *EvaluationController) Export(ctx *gin.Context) {
	data, err := c.EvaluationService.Export(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err, "Failed to export evaluations")
		return
	}

	filename := fmt.Sprintf("evaluations-%s.xlsx", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(200, xlsxContentType, data)
}
