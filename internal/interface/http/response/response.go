package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// Error отдаёт AppError с его статусом, остальные ошибки маскируются как 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, failure(appErr.Code, appErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, failure(apperror.ErrCodeInternal, "внутренняя ошибка сервера"))
}

// Abort как Error, но прерывает цепочку обработчиков. Используется в middleware.
func Abort(c *gin.Context, status int, code apperror.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, failure(code, message))
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, failure(apperror.ErrCodeBadRequest, message))
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, failure(apperror.ErrCodeNotFound, message))
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, failure(apperror.ErrCodeUnauthorized, message))
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, failure(apperror.ErrCodeForbidden, message))
}

func failure(code apperror.ErrorCode, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	}
}
