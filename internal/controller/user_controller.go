package controller

import (
	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} util.ErrorResponse
// @Router /api/users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.UserService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch users")
		return
	}
	util.Success(ctx, users)
}

// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} model.User
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, ok := requireSelfOrAdmin(ctx, id); !ok {
		return
	}

	user, err := c.UserService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch user")
		return
	}
	util.Success(ctx, user)
}

// @Summary 更新用户
// @Description 本人或管理员可修改姓名邮箱，角色只有管理员可改
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param body body service.UpdateUserInput true "用户信息"
// @Success 200 {object} model.User
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Failure 409 {object} util.ErrorResponse "邮箱已被使用"
// @Router /api/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	p, ok := requireSelfOrAdmin(ctx, id)
	if !ok {
		return
	}

	var req service.UpdateUserInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to update user")
		return
	}

	user, err := c.UserService.Update(ctx.Request.Context(), p, id, req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to update user")
		return
	}
	util.Success(ctx, user)
}

// @Summary 创建或更新实习档案
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param body body model.ProfileFields true "档案字段"
// @Success 200 {object} model.Profile
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id}/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, ok := requireSelfOrAdmin(ctx, id); !ok {
		return
	}

	var req model.ProfileFields
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to update profile")
		return
	}

	profile, err := c.UserService.UpdateProfile(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to update profile")
		return
	}
	util.Success(ctx, profile)
}

// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param file formData file true "图片"
// @Success 200 {object} model.User
// @Failure 400 {object} util.ErrorResponse
// @Router /api/users/{id}/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, ok := requireSelfOrAdmin(ctx, id); !ok {
		return
	}

	data, _, err := readUpload(ctx)
	if err != nil {
		util.HandleError(ctx, err, "Failed to upload avatar")
		return
	}

	user, err := c.UserService.UpdateAvatar(ctx.Request.Context(), id, data)
	if err != nil {
		util.HandleError(ctx, err, "Failed to upload avatar")
		return
	}
	util.Success(ctx, user)
}

// @Summary 删除用户
// @Description 同时删除档案、课时进度、提交、收到的评价和已上传的头像
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.SuccessResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	if err := c.UserService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err, "Failed to delete user")
		return
	}
	util.OK(ctx)
}
