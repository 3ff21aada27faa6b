package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/caelus-market/caelus-backend/internal/interface/http/response"
	"github.com/caelus-market/caelus-backend/internal/logger"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки, добавленные через c.Error, если ответ ещё не отправлен.
// AppError отдаётся как есть, остальные маскируются как внутренние.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		level := logrus.WarnLevel
		if !errors.As(err, &appErr) || appErr.HTTPStatus >= http.StatusInternalServerError {
			level = logrus.ErrorLevel
		}
		logger.Get().WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Log(level, "Request error")

		response.Error(c, err)
	}
}
