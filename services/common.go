package services

import (
	"errors"
	"time"

	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// clock supplies "now" and the default zone for employees without one.
type clock struct {
	Now func() time.Time
	loc *time.Location
}

func newClock(loc *time.Location) clock {
	if loc == nil {
		loc = time.UTC
	}
	return clock{Now: time.Now, loc: loc}
}

func (c clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Location is the zone used for employees without their own.
func (c clock) Location() *time.Location {
	return c.loc
}

func (c clock) zoneFor(emp models.Employee) *time.Location {
	if emp.Timezone != nil && *emp.Timezone != "" {
		if loc, err := time.LoadLocation(*emp.Timezone); err == nil {
			return loc
		}
		utils.ErrorLogger.Printf("Unknown timezone %q for employee %s, using default", *emp.Timezone, emp.EmployeeCode)
	}
	return c.loc
}

func publisherOrDiscard(p realtime.Publisher) realtime.Publisher {
	if p == nil {
		return realtime.Discard{}
	}
	return p
}

func findEmployee(db *gorm.DB, code string) (models.Employee, error) {
	var emp models.Employee
	err := db.Where("employee_code = ?", code).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return emp, notFound("employee %s not found", code)
	}
	return emp, err
}

// todaysAttendance loads the row for the employee's local day, locking it for the rest of tx.
func todaysAttendance(tx *gorm.DB, employeeID uint, start, end time.Time) (*models.Attendance, error) {
	var row models.Attendance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND date >= ? AND date < ?", employeeID, start, end).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// insertAttendanceIfAbsent creates seed unless a row for the same (employee, date)
// already exists. It reports whether seed was inserted.
func insertAttendanceIfAbsent(tx *gorm.DB, seed *models.Attendance) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(seed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func strPtr(s string) *string {
	return &s
}

func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
