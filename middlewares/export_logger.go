package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/utils"
)

// ExportLoggerMiddleware records who pulled which report.
func ExportLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.InfoLogger.Printf("Generating %s for %s (month=%s)", c.FullPath(), c.GetString("name"), c.Query("month"))

		c.Next()

		if c.Writer.Status() == 200 {
			utils.InfoLogger.Printf("Report %s delivered (%d bytes)", c.FullPath(), c.Writer.Size())
		} else {
			utils.ErrorLogger.Printf("Failed to generate %s: status %d", c.FullPath(), c.Writer.Status())
		}
	}
}
