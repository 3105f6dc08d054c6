package util

import (
	"errors"
	"net/http"

	"intern_hub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorResponse 所有失败响应的统一结构
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessResponse 无返回体操作的响应
// swagger:model SuccessResponse
type SuccessResponse struct {
	Success bool `json:"success"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func OK(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func ValidationFailed(c *gin.Context, ve *ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:  "validation failed",
		Fields: ve.Fields,
	})
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

func LogInternalError(c *gin.Context, err error, message string) {
	logger.Log.Error(message,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(RequestIDKey)),
	)
	InternalServerError(c, message)
}

// HandleError 把领域错误映射为 HTTP 响应；未识别的错误记录日志并返回 500，
// fallback 作为对客户端的简短描述
func HandleError(c *gin.Context, err error, fallback string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		ValidationFailed(c, ve)
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "resource not found")
	case errors.Is(err, ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidOAuthState):
		Unauthorized(c, err.Error())
	case errors.Is(err, ErrEmailRegistered):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrConflict),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		logger.Log.Warn("constraint violation", zap.Error(err), zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
			Error:   fallback,
			Details: "conflicts with existing records",
		})
	case errors.Is(err, ErrOAuthDisabled):
		Error(c, http.StatusNotImplemented, err.Error())
	default:
		LogInternalError(c, err, fallback)
	}
}
