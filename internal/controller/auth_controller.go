package controller

import (
	"net/http"
	"net/url"

	"intern_hub_backend/internal/service"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService     *service.AuthService
	CookieName      string
	CookieMaxAge    int
	IsRelease       bool // 生产环境 cookie 仅 HTTPS
	SuccessRedirect string
}

func NewAuthController(authService *service.AuthService, cookieName string, cookieMaxAge int, isRelease bool, successRedirect string) *AuthController {
	return &AuthController{
		AuthService:     authService,
		CookieName:      cookieName,
		CookieMaxAge:    cookieMaxAge,
		IsRelease:       isRelease,
		SuccessRedirect: successRedirect,
	}
}

func (c *AuthController) setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, token, maxAge, "/", "", c.IsRelease, true)
}

// Register godoc
// @Summary 注册新用户
// @Description 注册 intern 或 external 账号并返回令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "注册信息"
// @Success 201 {object} service.AuthResult "创建成功"
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 409 {object} util.ErrorResponse "邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to register")
		return
	}

	result, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to register")
		return
	}

	c.setTokenCookie(ctx, result.Token, c.CookieMaxAge)
	util.Created(ctx, result)
}

// Login godoc
// @Summary 用户登录
// @Description 校验邮箱密码，返回令牌并写入 HttpOnly cookie
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "登录凭据"
// @Success 200 {object} service.AuthResult "登录成功"
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 401 {object} util.ErrorResponse "邮箱或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to login")
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to login")
		return
	}

	c.setTokenCookie(ctx, result.Token, c.CookieMaxAge)
	util.Success(ctx, result)
}

// Logout godoc
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Success 200 {object} util.SuccessResponse
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setTokenCookie(ctx, "", -1)
	util.OK(ctx)
}

// Me godoc
// @Summary 当前用户
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} util.ErrorResponse
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	user, err := c.AuthService.Me(ctx.Request.Context(), p.UserID)
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch user")
		return
	}
	util.Success(ctx, user)
}

// GoogleLogin godoc
// @Summary Google 登录
// @Description 跳转到 Google 授权页面
// @Tags 认证
// @Success 307
// @Failure 501 {object} util.ErrorResponse "未配置 Google 登录"
// @Router /api/auth/google [get]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	authURL, err := c.AuthService.GoogleAuthURL(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err, "Failed to start Google login")
		return
	}
	ctx.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback godoc
// @Summary Google 授权回调
// @Tags 认证
// @Produce json
// @Param state query string true "state"
// @Param code query string true "授权码"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} util.ErrorResponse "state 无效或授权失败"
// @Router /api/auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	result, err := c.AuthService.GoogleCallback(ctx.Request.Context(), ctx.Query("state"), ctx.Query("code"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to login with Google")
		return
	}

	c.setTokenCookie(ctx, result.Token, c.CookieMaxAge)
	if c.SuccessRedirect != "" {
		ctx.Redirect(http.StatusFound, c.SuccessRedirect+"#token="+url.QueryEscape(result.Token))
		return
	}
	util.Success(ctx, result)
}

// GoogleToken godoc
// @Summary 使用 Google ID Token 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.GoogleTokenInput true "ID Token"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} util.ErrorResponse
// @Router /api/auth/google/token [post]
func (c *AuthController) GoogleToken(ctx *gin.Context) {
	var req service.GoogleTokenInput
	if err := util.BindJSON(ctx, &req); err != nil {
		util.HandleError(ctx, err, "Failed to login with Google")
		return
	}

	result, err := c.AuthService.GoogleIDTokenLogin(ctx.Request.Context(), req.IDToken)
	if err != nil {
		util.HandleError(ctx, err, "Failed to login with Google")
		return
	}

	c.setTokenCookie(ctx, result.Token, c.CookieMaxAge)
	util.Success(ctx, result)
}
