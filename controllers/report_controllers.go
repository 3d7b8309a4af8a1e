package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

// ExportAttendance -> monthly attendance workbook, ?month=YYYY-MM
func (rc *ReportController) ExportAttendance(c *gin.Context) {
	year, month, err := monthQuery(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	data, err := rc.Reports.AttendanceXLSX(year, month)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%04d-%02d.xlsx", year, int(month))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportAttendancePDF -> same report as a printable PDF
func (rc *ReportController) ExportAttendancePDF(c *gin.Context) {
	year, month, err := monthQuery(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	data, err := rc.Reports.AttendancePDF(year, month)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%04d-%02d.pdf", year, int(month))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
