package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user id and role set by the auth
// middleware.
func currentUser(c *gin.Context) (uint, string, error) {
	idValue, exists := c.Get("user_id")
	if !exists {
		return 0, "", errors.New("user id not found in context")
	}
	userID, ok := idValue.(uint)
	if !ok {
		return 0, "", errors.New("invalid user id type")
	}

	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return userID, roleStr, nil
}
