package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/http/middleware"
)

func getUserID(c *gin.Context) (uuid.UUID, error) {
	userID, _, ok := middleware.UserFromContext(c)
	if !ok {
		return uuid.Nil, errors.New("userID не найден в контексте")
	}
	return userID, nil
}

func getRole(c *gin.Context) string {
	return c.GetString(middleware.ContextRoleKey)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
