package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/igorpreis/Store-Back-End/internal/pkg/token"
	"github.com/igorpreis/Store-Back-End/internal/service"
)

const actorKey = "actor"

// authMiddleware 解析 Bearer token 並把 Actor 放進 context
// 沒帶 token 回 401，token 無效回 403
func authMiddleware(tokenMaker *token.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is required"})
			return
		}

		fields := strings.Fields(header)
		if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		claims, err := tokenMaker.VerifyToken(fields[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(actorKey, service.Actor{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

func getActor(c *gin.Context) service.Actor {
	actor, _ := c.MustGet(actorKey).(service.Actor)
	return actor
}
