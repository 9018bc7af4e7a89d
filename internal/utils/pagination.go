package utils

import (
	"strconv"
	"strings"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/gin-gonic/gin"
)

// GetLimitParam reads the optional "limit" query parameter.
// Missing, non-numeric or non-positive values mean no limit (0);
// larger values are clamped to MaxJobListLimit.
func GetLimitParam(c *gin.Context) int {
	return ParseLimit(c.Query("limit"))
}

// ParseLimit applies the rules of GetLimitParam to a raw value.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		return 0
	}
	if limit > constants.MaxJobListLimit {
		return constants.MaxJobListLimit
	}
	return limit
}
