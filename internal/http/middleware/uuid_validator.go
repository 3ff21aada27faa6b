package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/interface/http/response"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: router.GET("/tags/:tagId", UUIDValidator("tagId"), handler.GetTag)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			response.Abort(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, "параметр "+paramName+" обязателен")
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			response.Abort(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, "параметр "+paramName+" должен быть валидным UUID")
			return
		}

		c.Next()
	}
}
