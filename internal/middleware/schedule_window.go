package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yudadh/dokumen-service/pkg/response"
)

// ContextPathwayPeriodKey is the gin context key storing the pathway-period
// id resolved by ScheduleWindow.
const ContextPathwayPeriodKey = "pathwayPeriodID"

// StageResolver reports whether a named schedule stage is currently open.
type StageResolver interface {
	ResolveActiveStage(ctx context.Context, stageName string) (string, error)
}

// ScheduleWindow blocks the request unless the named stage is currently open,
// and stores the active pathway-period id for downstream handlers.
func ScheduleWindow(resolver StageResolver, stageName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathwayPeriodID, err := resolver.ResolveActiveStage(c.Request.Context(), stageName)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextPathwayPeriodKey, pathwayPeriodID)
		c.Next()
	}
}

// PathwayPeriodID extracts the pathway-period id stored by ScheduleWindow.
func PathwayPeriodID(c *gin.Context) string {
	value, exists := c.Get(ContextPathwayPeriodKey)
	if !exists {
		return ""
	}
	id, _ := value.(string)
	return id
}
