package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidArgument:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindLocked:
		return http.StatusLocked
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with the status its kind calls for.
func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("request failed: %v", err)
	}
	utils.RespondError(c, code, err)
}

func uintParam(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(n), nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return n
}

// monthQuery reads ?month=YYYY-MM, defaulting to the current month.
func monthQuery(c *gin.Context) (int, time.Month, error) {
	raw := c.Query("month")
	if raw == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: want YYYY-MM", raw)
	}
	return t.Year(), t.Month(), nil
}

// actorName is the display name carried by the caller's token.
func actorName(c *gin.Context) string {
	if name := c.GetString("name"); name != "" {
		return name
	}
	return "admin"
}
