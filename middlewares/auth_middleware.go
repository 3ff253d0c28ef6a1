package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/food-order-app/utils"
)

// AuthMiddleware validates the bearer token and stores user_id and role
// in the context. A token query parameter is also accepted so websocket
// clients can authenticate without headers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token != "" {
			if !strings.HasPrefix(token, "Bearer ") {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"))
				c.Abort()
				return
			}
			token = strings.TrimPrefix(token, "Bearer ")
		} else {
			token = c.Query("token")
		}

		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization token missing"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id in token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
