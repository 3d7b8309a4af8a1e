package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/opsportal/config"
	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
)

const lockReasonAttempts = "location verification attempts exhausted"

// CheckInInput is an employee's self check-in.
type CheckInInput struct {
	EmployeeCode string
	Lat          float64
	Lng          float64
	Device       string
}

// CheckOutInput is an employee's self check-out.
type CheckOutInput struct {
	EmployeeCode string
	Lat          float64
	Lng          float64
}

// AttendanceService covers manual overrides, attempt resets and employee self check-in/out.
type AttendanceService struct {
	clock
	db           *gorm.DB
	geocoder     Geocoder
	events       realtime.Publisher
	grace        time.Duration
	workdayStart string
	office       *Point
	radius       float64
	maxAttempts  int
}

func NewAttendanceService(db *gorm.DB, cfg config.Config, geocoder Geocoder, events realtime.Publisher) *AttendanceService {
	s := &AttendanceService{
		clock:        newClock(cfg.Location()),
		db:           db,
		geocoder:     geocoder,
		events:       publisherOrDiscard(events),
		grace:        cfg.TaskGracePeriod,
		workdayStart: cfg.WorkdayStart,
		radius:       cfg.OfficeRadius,
		maxAttempts:  cfg.MaxAttempts,
	}
	if cfg.HasOffice() {
		s.office = &Point{Lat: cfg.OfficeLat, Lng: cfg.OfficeLng}
	}
	if s.maxAttempts < 1 {
		s.maxAttempts = 2
	}
	return s
}

// OverrideStatus sets today's status directly, creating a bare row when needed.
func (s *AttendanceService) OverrideStatus(employeeCode, status string) (*models.Attendance, error) {
	if !models.ValidAttendanceStatus(status) {
		return nil, invalidArgument("invalid attendance status %q", status)
	}
	emp, err := findEmployee(s.db, employeeCode)
	if err != nil {
		return nil, err
	}
	dayStart, dayEnd := utils.DayRange(s.now(), s.zoneFor(emp))

	var row *models.Attendance
	err = s.db.Transaction(func(tx *gorm.DB) error {
		seed := models.Attendance{
			EmployeeID:     emp.ID,
			Date:           dayStart,
			Status:         status,
			Source:         strPtr(models.SourceManualOverride),
			ApprovalStatus: models.ApprovalPending,
		}
		if _, err := insertAttendanceIfAbsent(tx, &seed); err != nil {
			return err
		}
		existing, err := todaysAttendance(tx, emp.ID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if existing == nil {
			return errors.New("attendance row missing after upsert")
		}
		if existing.Status != status {
			if err := tx.Model(existing).Updates(map[string]interface{}{
				"status": status,
				"source": models.SourceManualOverride,
			}).Error; err != nil {
				return err
			}
			existing.Status = status
		}
		row = existing
		return nil
	})
	if err != nil {
		return nil, txFailure("failed to override attendance", err)
	}

	utils.InfoLogger.Printf("Attendance for %s overridden to %s", emp.EmployeeCode, status)
	s.events.Broadcast(realtime.EventAttendanceUpdated, row)
	return row, nil
}

// ResetAttempts clears the verification counter and lock on today's rows.
func (s *AttendanceService) ResetAttempts(employeeCode string) (int64, error) {
	emp, err := findEmployee(s.db, employeeCode)
	if err != nil {
		return 0, err
	}
	dayStart, dayEnd := utils.DayRange(s.now(), s.zoneFor(emp))

	res := s.db.Model(&models.Attendance{}).
		Where("employee_id = ? AND date >= ? AND date < ?", emp.ID, dayStart, dayEnd).
		Updates(map[string]interface{}{
			"attempt_count": 0,
			"locked":        false,
			"lock_reason":   nil,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to reset attempts: %w", res.Error)
	}

	utils.InfoLogger.Printf("Reset location attempts for %s (%d rows)", emp.EmployeeCode, res.RowsAffected)
	return res.RowsAffected, nil
}

// CheckIn verifies the employee's position and records the clock-in. A failed
// verification still commits the incremented attempt counter.
func (s *AttendanceService) CheckIn(ctx context.Context, in CheckInInput) (*models.Attendance, error) {
	emp, err := findEmployee(s.db, in.EmployeeCode)
	if err != nil {
		return nil, err
	}
	now := s.now()
	loc := s.zoneFor(emp)
	dayStart, dayEnd := utils.DayRange(now, loc)
	here := Point{Lat: in.Lat, Lng: in.Lng}
	address := ResolveAddress(ctx, s.geocoder, here)

	var (
		row       *models.Attendance
		verifyErr error
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := todaysAttendance(tx, emp.ID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if existing == nil {
			seed := models.Attendance{
				EmployeeID:     emp.ID,
				Date:           dayStart,
				Status:         models.AttendanceAbsent,
				Source:         strPtr(models.SourceSelfCheckIn),
				ApprovalStatus: models.ApprovalPending,
			}
			if _, err := insertAttendanceIfAbsent(tx, &seed); err != nil {
				return err
			}
			if existing, err = todaysAttendance(tx, emp.ID, dayStart, dayEnd); err != nil {
				return err
			}
			if existing == nil {
				return errors.New("attendance row missing after upsert")
			}
		}
		row = existing

		if row.Locked {
			verifyErr = locked("attendance locked: %s", deref(row.LockReason))
			return nil
		}
		// a field engineer whose clock-out was cleared by a new task checks in again at the new site
		reopened := row.ClockIn != nil && row.ClockOut == nil && emp.IsFieldEngineer() &&
			deref(row.Source) == models.SourceAdminAssigned
		if row.ClockIn != nil && !reopened {
			verifyErr = conflict("%s already checked in today", emp.EmployeeCode)
			return nil
		}

		if target, ok := s.target(row); ok {
			if dist := DistanceMeters(here, target); dist > s.radius {
				return s.recordFailedAttempt(tx, row, dist, &verifyErr)
			}
		}

		status := row.Status
		if row.TaskID == nil || row.Status == models.AttendanceAbsent {
			status, err = DeriveAttendanceStatus(now, &s.workdayStart, s.grace, loc)
			if err != nil {
				return err
			}
		}
		arrived := now.UTC()
		updates := map[string]interface{}{
			"last_check_in_at": arrived,
			"status":           status,
			"source":           models.SourceSelfCheckIn,
		}
		if !reopened {
			updates["clock_in"] = arrived
			updates["clock_in_lat"] = in.Lat
			updates["clock_in_lng"] = in.Lng
			updates["clock_in_address"] = address
			updates["clock_in_device"] = in.Device
		}
		if err := tx.Model(row).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(row, row.ID).Error
	})
	if err != nil {
		return nil, txFailure("failed to check in", err)
	}
	if verifyErr != nil {
		return row, verifyErr
	}

	utils.InfoLogger.Printf("%s checked in at %s (%s)", emp.EmployeeCode, address, row.Status)
	s.events.Broadcast(realtime.EventAttendanceUpdated, row)
	return row, nil
}

func (s *AttendanceService) recordFailedAttempt(tx *gorm.DB, row *models.Attendance, dist float64, verifyErr *error) error {
	attempts := row.AttemptCount + 1
	if attempts > s.maxAttempts {
		attempts = s.maxAttempts
	}
	updates := map[string]interface{}{"attempt_count": attempts}
	if attempts >= s.maxAttempts {
		updates["locked"] = true
		updates["lock_reason"] = lockReasonAttempts
		*verifyErr = locked("attendance locked: %s", lockReasonAttempts)
	} else {
		*verifyErr = invalidArgument("you are %.0fm from the check-in location, %d attempt(s) left", dist, s.maxAttempts-attempts)
	}
	if err := tx.Model(row).Updates(updates).Error; err != nil {
		return err
	}
	return tx.First(row, row.ID).Error
}

// target is the linked task's "lat,lng" location, else the office.
func (s *AttendanceService) target(row *models.Attendance) (Point, bool) {
	if row.TaskLocation != nil {
		if p, ok := ParsePoint(*row.TaskLocation); ok {
			return p, true
		}
	}
	if s.office != nil {
		return *s.office, true
	}
	return Point{}, false
}

// CheckOut records the end of the employee's day.
func (s *AttendanceService) CheckOut(ctx context.Context, in CheckOutInput) (*models.Attendance, error) {
	emp, err := findEmployee(s.db, in.EmployeeCode)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dayStart, dayEnd := utils.DayRange(now, s.zoneFor(emp))
	address := ResolveAddress(ctx, s.geocoder, Point{Lat: in.Lat, Lng: in.Lng})

	var row *models.Attendance
	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := todaysAttendance(tx, emp.ID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if existing == nil || existing.ClockIn == nil {
			return invalidArgument("%s has not checked in today", emp.EmployeeCode)
		}
		if existing.ClockOut != nil {
			return conflict("%s already checked out today", emp.EmployeeCode)
		}
		if err := tx.Model(existing).Updates(map[string]interface{}{
			"clock_out":      now.UTC(),
			"clock_out_lat":  in.Lat,
			"clock_out_lng":  in.Lng,
			"clock_out_addr": address,
		}).Error; err != nil {
			return err
		}
		row = existing
		return tx.First(row, row.ID).Error
	})
	if err != nil {
		return nil, txFailure("failed to check out", err)
	}

	utils.InfoLogger.Printf("%s checked out", emp.EmployeeCode)
	s.events.Broadcast(realtime.EventAttendanceUpdated, row)
	return row, nil
}

// SetApproval approves or rejects a clock-in.
func (s *AttendanceService) SetApproval(attendanceID uint, approval string) (*models.Attendance, error) {
	if approval != models.ApprovalApproved && approval != models.ApprovalRejected {
		return nil, invalidArgument("invalid approval status %q", approval)
	}

	var row models.Attendance
	err := s.db.First(&row, attendanceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("attendance %d not found", attendanceID)
	}
	if err != nil {
		return nil, err
	}
	if row.ClockIn == nil {
		return nil, invalidArgument("attendance %d has no clock-in to review", attendanceID)
	}
	if err := s.db.Model(&row).Update("approval_status", approval).Error; err != nil {
		return nil, fmt.Errorf("failed to update approval: %w", err)
	}
	row.ApprovalStatus = approval

	s.events.Broadcast(realtime.EventAttendanceUpdated, row)
	return &row, nil
}

// ListForEmployee returns one employee's rows for a local month, oldest first.
func (s *AttendanceService) ListForEmployee(employeeCode string, year int, month time.Month) ([]models.Attendance, error) {
	emp, err := findEmployee(s.db, employeeCode)
	if err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, invalidArgument("invalid month %d", month)
	}
	start, end := utils.MonthRange(year, month, s.zoneFor(emp))

	var rows []models.Attendance
	err = s.db.Where("employee_id = ? AND date >= ? AND date < ?", emp.ID, start, end).
		Order("date ASC").Find(&rows).Error
	return rows, err
}

// ListForDay returns every row for the given day in the default zone.
func (s *AttendanceService) ListForDay(day time.Time) ([]models.Attendance, error) {
	start, end := utils.DayRange(day, s.loc)

	var rows []models.Attendance
	err := s.db.Preload("Employee").
		Where("date >= ? AND date < ?", start, end).
		Order("employee_id ASC").Find(&rows).Error
	return rows, err
}

// ListMonth returns all rows in a local month with employees attached.
func (s *AttendanceService) ListMonth(year int, month time.Month) ([]models.Attendance, error) {
	if month < time.January || month > time.December {
		return nil, invalidArgument("invalid month %d", month)
	}
	start, end := utils.MonthRange(year, month, s.loc)

	var rows []models.Attendance
	err := s.db.Preload("Employee").
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").Order("employee_id ASC").
		Find(&rows).Error
	return rows, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
