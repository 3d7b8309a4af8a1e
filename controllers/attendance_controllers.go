package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type AttendanceController struct {
	Attendance *services.AttendanceService
}

func NewAttendanceController(attendance *services.AttendanceService) *AttendanceController {
	return &AttendanceController{Attendance: attendance}
}

// OverrideStatus -> sets today's status for an employee by hand
func (ac *AttendanceController) OverrideStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	row, err := ac.Attendance.OverrideStatus(c.Param("employee_id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Attendance status updated", row)
}

// ResetAttempts -> unlocks today's check-in for an employee
func (ac *AttendanceController) ResetAttempts(c *gin.Context) {
	n, err := ac.Attendance.ResetAttempts(c.Param("employee_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Location attempts reset", gin.H{"reset": n})
}

type locationRequest struct {
	EmployeeID string   `json:"employee_id" binding:"required"`
	Latitude   *float64 `json:"latitude" binding:"required,latitude"`
	Longitude  *float64 `json:"longitude" binding:"required,longitude"`
}

// CheckIn -> verifies the position and records the clock-in
func (ac *AttendanceController) CheckIn(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	row, err := ac.Attendance.CheckIn(c.Request.Context(), services.CheckInInput{
		EmployeeCode: req.EmployeeID,
		Lat:          *req.Latitude,
		Lng:          *req.Longitude,
		Device:       c.Request.UserAgent(),
	})
	if err != nil {
		if row != nil && (services.IsKind(err, services.KindInvalidArgument) || services.IsKind(err, services.KindLocked)) {
			c.JSON(statusFor(err), utils.JSONResponse{Status: false, Message: err.Error(), Data: row})
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checked in", row)
}

// CheckOut -> records the end of the day
func (ac *AttendanceController) CheckOut(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	row, err := ac.Attendance.CheckOut(c.Request.Context(), services.CheckOutInput{
		EmployeeCode: req.EmployeeID,
		Lat:          *req.Latitude,
		Lng:          *req.Longitude,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checked out", row)
}

// SetApproval -> admin approves or rejects a clock-in
func (ac *AttendanceController) SetApproval(c *gin.Context) {
	id, err := uintParam(c, "attendance_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req struct {
		ApprovalStatus string `json:"approval_status" binding:"required,oneof=APPROVED REJECTED"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	row, err := ac.Attendance.SetApproval(id, req.ApprovalStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Approval updated", row)
}

// GetEmployeeAttendance -> ?month=YYYY-MM
func (ac *AttendanceController) GetEmployeeAttendance(c *gin.Context) {
	year, month, err := monthQuery(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rows, err := ac.Attendance.ListForEmployee(c.Param("employee_id"), year, month)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee attendance", rows)
}

// GetDailyAttendance -> ?date=YYYY-MM-DD, today by default
func (ac *AttendanceController) GetDailyAttendance(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, ac.Attendance.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		day = parsed
	}

	rows, err := ac.Attendance.ListForDay(day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily attendance", rows)
}
