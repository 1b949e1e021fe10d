package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt reads an integer query parameter, falling back to def when it is
// missing. A malformed value is reported to the caller.
func QueryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, BadRequestf("%s must be an integer", key)
	}
	return v, nil
}
