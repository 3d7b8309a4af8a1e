package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/opsportal/models"
)

func TestEmployeeDirectory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEmployeeService(db)

	emp, err := svc.Create(EmployeeInput{EmployeeCode: " emp007 ", Name: "Asha Rao", Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "EMP007", emp.EmployeeCode)
	assert.Equal(t, models.EmployeeRoleOfficeStaff, emp.Role)
	assert.True(t, emp.Active)

	_, err = svc.Create(EmployeeInput{EmployeeCode: "EMP007", Name: "Dup"})
	assert.True(t, IsKind(err, KindConflict))

	_, err = svc.Create(EmployeeInput{EmployeeCode: "FE001", Name: "Ravi", Role: models.EmployeeRoleFieldEngineer, Timezone: ptr("Asia/Dubai")})
	require.NoError(t, err)

	got, err := svc.Get("FE001")
	require.NoError(t, err)
	assert.True(t, got.IsFieldEngineer())
	assert.Equal(t, "Asia/Dubai", *got.Timezone)

	_, err = svc.Get("NOPE")
	assert.True(t, IsKind(err, KindNotFound))

	updated, err := svc.Update("EMP007", EmployeeUpdate{Active: ptr(false), Phone: ptr("+91 98450 00000")})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "+91 98450 00000", updated.Phone)

	all, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "EMP007", all[0].EmployeeCode)

	active, err := svc.List(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "FE001", active[0].EmployeeCode)
}

func TestEmployeeValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEmployeeService(db)

	_, err := svc.Create(EmployeeInput{Name: "No code"})
	assert.True(t, IsKind(err, KindInvalidArgument))

	_, err = svc.Create(EmployeeInput{EmployeeCode: "X1", Role: "MANAGER"})
	assert.True(t, IsKind(err, KindInvalidArgument))

	_, err = svc.Create(EmployeeInput{EmployeeCode: "X2", Timezone: ptr("Mars/Olympus")})
	assert.True(t, IsKind(err, KindInvalidArgument))

	_, err = svc.Create(EmployeeInput{EmployeeCode: "X3"})
	require.NoError(t, err)
	_, err = svc.Update("X3", EmployeeUpdate{Role: ptr("BOSS")})
	assert.True(t, IsKind(err, KindInvalidArgument))
	_, err = svc.Update("X4", EmployeeUpdate{})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestEmployeeTimezoneDrivesDay(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "NY001", models.EmployeeRoleOfficeStaff)
	require.NoError(t, db.Model(&emp).Update("timezone", "America/New_York").Error)

	// 2024-03-11 01:00 Kolkata is still 2024-03-10 in New York
	tasks, _ := newTaskService(t, db, at(1, 0))
	_, err := tasks.AssignTask(AssignTaskInput{EmployeeCode: "NY001", Title: "Late shift"})
	require.NoError(t, err)

	var row models.Attendance
	require.NoError(t, db.Where("employee_id = ?", emp.ID).First(&row).Error)
	ny := row.Date.In(mustLoad(t, "America/New_York"))
	assert.Equal(t, 10, ny.Day())
	assert.Zero(t, ny.Hour())
}
