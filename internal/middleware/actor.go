package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's reference in the Gin
// context.
const actorIDKey = contextKey("actorID")

// ActorHeader is the header collaborating systems use to convey the resolved
// actor reference. Authentication itself lives outside this engine; by the
// time a request arrives the identity provider has already vouched for it.
const ActorHeader = "X-Actor-ID"

// ActorMiddleware requires the actor header on every mutating request and
// stores its value for handlers to attribute lifecycle events to.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ActorHeader + " header required"})
			return
		}
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the actor reference from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return "", false
	}
	actorID, ok := actorVal.(string)
	if !ok {
		return "", false
	}
	return actorID, true
}
