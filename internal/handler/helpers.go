package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viktorgrom84/trading-notes/internal/auth"
)

const dateLayout = "2006-01-02"

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func uint64Param(c *gin.Context, key string) uint64 {
	val := strings.TrimSpace(c.Param(key))
	if val == "" {
		return 0
	}
	out, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0
	}
	return out
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func paginationMeta(limit, offset int, returned int) map[string]any {
	if limit <= 0 {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"returned": returned,
	}
}

// requireAdmin allows only the configured admin identity through. An
// empty admin username closes the gate entirely.
func requireAdmin(adminUsername string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiResponse{
				Code: http.StatusUnauthorized, Message: "not authenticated",
			})
			return
		}
		if adminUsername == "" || identity.Username != adminUsername {
			c.AbortWithStatusJSON(http.StatusForbidden, apiResponse{
				Code: http.StatusForbidden, Message: "admin access required",
			})
			return
		}
		c.Next()
	}
}
