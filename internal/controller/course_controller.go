package controller

import (
	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 课程列表
// @Description 课程按创建时间倒序，包含课时
// @Tags 课程
// @Produce json
// @Success 200 {array} model.Course
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	courses, err := c.CourseService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch courses")
		return
	}
	util.Success(ctx, courses)
}

// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Param id path string true "课程ID"
// @Success 200 {object} model.Course
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch course")
		return
	}
	util.Success(ctx, course)
}

// @Summary 创建课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateCourseInput true "课程"
// @Success 200 {object} model.Course
// @Failure 400 {object} util.ErrorResponse
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req service.CreateCourseInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to create course")
		return
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to create course")
		return
	}
	util.Success(ctx, course)
}

// @Summary 更新课程
// @Description 携带 lessons 时整体替换课时（课时重新生成ID），不携带时课时不变
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Param body body service.UpdateCourseInput true "课程字段"
// @Success 200 {object} model.Course
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	var req service.UpdateCourseInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to update course")
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to update course")
		return
	}
	util.Success(ctx, course)
}

// @Summary 删除课程
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.SuccessResponse
// @Failure 404 {object} util.ErrorResponse
// @Failure 409 {object} util.ErrorResponse
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	if err := c.CourseService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err, "Failed to delete course")
		return
	}
	util.OK(ctx)
}

// @Summary 更新课时
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param lessonId path string true "课时ID"
// @Param body body model.LessonFields true "课时字段"
// @Success 200 {object} model.Lesson
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{courseId}/lessons/{lessonId} [put]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	var req model.LessonFields
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to update lesson")
		return
	}

	lesson, err := c.CourseService.UpdateLesson(ctx.Request.Context(), ctx.Param("courseId"), ctx.Param("lessonId"), req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to update lesson")
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除课时
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param lessonId path string true "课时ID"
// @Success 200 {object} util.SuccessResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{courseId}/lessons/{lessonId} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	if err := c.CourseService.DeleteLesson(ctx.Request.Context(), ctx.Param("courseId"), ctx.Param("lessonId")); err != nil {
		util.HandleError(ctx, err, "Failed to delete lesson")
		return
	}
	util.OK(ctx)
}
