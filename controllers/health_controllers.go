package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
)

type HealthController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewHealthController(db *gorm.DB, hub *realtime.Hub) *HealthController {
	return &HealthController{DB: db, Hub: hub}
}

// Health -> pings the database
func (hc *HealthController) Health(c *gin.Context) {
	sqlDB, err := hc.DB.DB()
	if err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "ok", gin.H{
		"database":          "up",
		"websocket_clients": hc.Hub.Count(),
	})
}
