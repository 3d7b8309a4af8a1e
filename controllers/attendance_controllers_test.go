package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/opsportal/models"
)

func TestCheckInLockoutAndReset(t *testing.T) {
	cfg := testConfig()
	cfg.OfficeLat, cfg.OfficeLng = 12.9716, 77.5946
	s := newTestServer(t, cfg)
	token := s.tokenFor(t, models.UserRoleStaff)
	s.seedEmployee(t, "EMP020", models.EmployeeRoleOfficeStaff)

	far := map[string]interface{}{"employee_id": "EMP020", "latitude": 13.0827, "longitude": 80.2707}
	near := map[string]interface{}{"employee_id": "EMP020", "latitude": 12.9717, "longitude": 77.5947}

	// first miss leaves one attempt
	w := s.do(t, http.MethodPost, "/admin/attendance/check-in", token, far)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	var row models.Attendance
	decode(t, w, &row)
	assert.Equal(t, 1, row.AttemptCount)
	assert.False(t, row.Locked)

	// second miss locks the day
	w = s.do(t, http.MethodPost, "/admin/attendance/check-in", token, far)
	require.Equal(t, http.StatusLocked, w.Code, w.Body.String())
	decode(t, w, &row)
	assert.True(t, row.Locked)
	assert.Equal(t, 2, row.AttemptCount)

	// locked even when standing at the office
	w = s.do(t, http.MethodPost, "/admin/attendance/check-in", token, near)
	assert.Equal(t, http.StatusLocked, w.Code)

	w = s.do(t, http.MethodPost, "/admin/employees/EMP020/attendance/reset-attempts", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reset struct {
		Reset int64 `json:"reset"`
	}
	decode(t, w, &reset)
	assert.EqualValues(t, 1, reset.Reset)

	w = s.do(t, http.MethodPost, "/admin/attendance/check-in", token, near)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &row)
	assert.NotNil(t, row.ClockIn)
	assert.Contains(t, []string{models.AttendancePresent, models.AttendanceLate}, row.Status)

	// only one clock-in per day
	w = s.do(t, http.MethodPost, "/admin/attendance/check-in", token, near)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/admin/attendance/check-out", token, near)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &row)
	assert.NotNil(t, row.ClockOut)
}

func TestCheckInValidation(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := s.tokenFor(t, models.UserRoleStaff)

	w := s.do(t, http.MethodPost, "/admin/attendance/check-in", token, map[string]interface{}{
		"employee_id": "EMP001", "latitude": 120.0, "longitude": 10.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/admin/attendance/check-in", token, map[string]interface{}{
		"employee_id": "EMP404", "latitude": 12.0, "longitude": 77.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOverrideStatus(t *testing.T) {
	s := newTestServer(t, testConfig())
	staff := s.tokenFor(t, models.UserRoleStaff)
	s.seedEmployee(t, "EMP030", models.EmployeeRoleOfficeStaff)

	w := s.do(t, http.MethodPut, "/admin/employees/EMP030/attendance/status", staff, map[string]string{"status": "HOLIDAY"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/admin/employees/EMP030/attendance/status", staff, map[string]string{"status": models.AttendanceMarkdown})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var row models.Attendance
	decode(t, w, &row)
	assert.Equal(t, models.AttendanceMarkdown, row.Status)
	require.NotNil(t, row.Source)
	assert.Equal(t, models.SourceManualOverride, *row.Source)

	// nothing to review without a clock-in
	admin := s.tokenFor(t, models.UserRoleAdmin)
	w = s.do(t, http.MethodPatch, fmt.Sprintf("/admin/attendance/%d/approval", row.ID), admin, map[string]string{"approval_status": models.ApprovalApproved})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/admin/employees/EMP030/attendance", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.Attendance
	decode(t, w, &rows)
	assert.Len(t, rows, 1)

	w = s.do(t, http.MethodGet, "/admin/employees/EMP030/attendance?month=2024-13", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveCheckIn(t *testing.T) {
	s := newTestServer(t, testConfig())
	staff := s.tokenFor(t, models.UserRoleStaff)
	admin := s.tokenFor(t, models.UserRoleAdmin)
	s.seedEmployee(t, "EMP031", models.EmployeeRoleOfficeStaff)

	// no office configured, so any position is accepted
	w := s.do(t, http.MethodPost, "/admin/attendance/check-in", staff, map[string]interface{}{
		"employee_id": "EMP031", "latitude": 28.6139, "longitude": 77.2090,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var row models.Attendance
	decode(t, w, &row)
	assert.Equal(t, models.ApprovalPending, row.ApprovalStatus)

	approval := fmt.Sprintf("/admin/attendance/%d/approval", row.ID)
	w = s.do(t, http.MethodPatch, approval, staff, map[string]string{"approval_status": models.ApprovalApproved})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, approval, admin, map[string]string{"approval_status": "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, approval, admin, map[string]string{"approval_status": models.ApprovalApproved})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &row)
	assert.Equal(t, models.ApprovalApproved, row.ApprovalStatus)

	w = s.do(t, http.MethodPatch, "/admin/attendance/9999/approval", admin, map[string]string{"approval_status": models.ApprovalRejected})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
