package services

import (
	"errors"
	"time"

	"github.com/yeremiapane/opsportal/config"
	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignTaskInput carries an assignment request. StartTime and EndTime are
// local "HH:MM" times of day in the employee's zone.
type AssignTaskInput struct {
	EmployeeCode string
	Title        string
	Description  string
	Category     *string
	Location     *string
	StartTime    *string
	EndTime      *string
	AssignedBy   string
}

// TaskPage is one page of the admin task listing.
type TaskPage struct {
	Items      []models.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskService assigns tasks and keeps the day's attendance row in step with them.
type TaskService struct {
	clock
	db     *gorm.DB
	grace  time.Duration
	events realtime.Publisher
}

func NewTaskService(db *gorm.DB, cfg config.Config, events realtime.Publisher) *TaskService {
	return &TaskService{
		clock:  newClock(cfg.Location()),
		db:     db,
		grace:  cfg.TaskGracePeriod,
		events: publisherOrDiscard(events),
	}
}

// DeriveAttendanceStatus decides PRESENT or LATE for a task starting at
// startTime on now's local day. No start time means PRESENT.
func DeriveAttendanceStatus(now time.Time, startTime *string, grace time.Duration, loc *time.Location) (string, error) {
	if startTime == nil || *startTime == "" {
		return models.AttendancePresent, nil
	}
	start, err := utils.ClockOn(now, *startTime, loc)
	if err != nil {
		return "", err
	}
	if now.After(start.Add(grace)) {
		return models.AttendanceLate, nil
	}
	return models.AttendancePresent, nil
}

// AssignTask creates a PENDING task and upserts today's attendance for the employee.
func (s *TaskService) AssignTask(in AssignTaskInput) (*models.Task, error) {
	emp, err := findEmployee(s.db, in.EmployeeCode)
	if err != nil {
		return nil, err
	}
	for _, clk := range []*string{in.StartTime, in.EndTime} {
		if clk != nil && *clk != "" {
			if _, _, err := utils.ParseClock(*clk); err != nil {
				return nil, invalidArgument("%v", err)
			}
		}
	}

	now := s.now()
	loc := s.zoneFor(emp)
	dayStart, dayEnd := utils.DayRange(now, loc)

	status, err := DeriveAttendanceStatus(now, in.StartTime, s.grace, loc)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	task := models.Task{
		EmployeeID:  emp.ID,
		Title:       in.Title,
		Description: in.Description,
		Category:    optional(in.Category),
		Location:    optional(in.Location),
		StartTime:   optional(in.StartTime),
		EndTime:     optional(in.EndTime),
		AssignedBy:  in.AssignedBy,
		Status:      models.TaskStatusPending,
		AssignedAt:  now.UTC(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Attendance{}).
			Where("employee_id = ? AND date >= ? AND date < ?", emp.ID, dayStart, dayEnd).
			Update("attempt_count", 0).Error; err != nil {
			return err
		}
		// an attempts lockout ends with new work; manual locks stay
		if err := tx.Model(&models.Attendance{}).
			Where("employee_id = ? AND date >= ? AND date < ?", emp.ID, dayStart, dayEnd).
			Where("locked = ? AND lock_reason = ?", true, lockReasonAttempts).
			Updates(map[string]interface{}{"locked": false, "lock_reason": nil}).Error; err != nil {
			return err
		}

		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		seed := models.Attendance{
			EmployeeID:     emp.ID,
			Date:           dayStart,
			Status:         status,
			TaskID:         &task.ID,
			TaskStartTime:  task.StartTime,
			TaskEndTime:    task.EndTime,
			TaskLocation:   task.Location,
			Source:         strPtr(models.SourceAdminAssigned),
			ApprovalStatus: models.ApprovalPending,
		}
		created, err := insertAttendanceIfAbsent(tx, &seed)
		if err != nil {
			return err
		}
		if created {
			return nil
		}

		row, err := todaysAttendance(tx, emp.ID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if row == nil {
			return errors.New("attendance row vanished during assignment")
		}
		updates := map[string]interface{}{
			"task_id":         task.ID,
			"task_start_time": task.StartTime,
			"task_end_time":   task.EndTime,
			"task_location":   task.Location,
			"status":          status,
			"source":          models.SourceAdminAssigned,
		}
		if emp.IsFieldEngineer() && row.ClockOut != nil {
			updates["clock_out"] = nil
		}
		return tx.Model(row).Updates(updates).Error
	})
	if err != nil {
		utils.ErrorLogger.Printf("Task assignment for %s rolled back: %v", emp.EmployeeCode, err)
		return nil, txFailure("failed to assign task", err)
	}

	task.Employee = &emp
	utils.InfoLogger.Printf("Task %d assigned to %s by %s (attendance=%s)", task.ID, emp.EmployeeCode, in.AssignedBy, status)
	s.events.Broadcast(realtime.EventTaskAssigned, task)
	return &task, nil
}

// UpdateTaskStatus moves a task to status and reconciles today's attendance
// when the row is still linked to this task.
func (s *TaskService) UpdateTaskStatus(taskID uint, status string) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, invalidArgument("invalid task status %q", status)
	}

	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Employee").First(&task, taskID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("task %d not found", taskID)
		}
		if err != nil {
			return err
		}
		if task.IsTerminal() && task.Status != status {
			return invalidArgument("task %d is %s and cannot move to %s", task.ID, task.Status, status)
		}

		now := s.now()
		updates := map[string]interface{}{"status": status}
		var completedAt *time.Time
		if status == models.TaskStatusCompleted && task.CompletedAt == nil {
			done := now.UTC()
			completedAt = &done
			updates["completed_at"] = done
		}
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		task.Status = status
		if completedAt != nil {
			task.CompletedAt = completedAt
		}

		return s.reconcile(tx, &task, now, nil)
	})
	if err != nil {
		return nil, txFailure("failed to update task status", err)
	}

	utils.InfoLogger.Printf("Task %d moved to %s", task.ID, task.Status)
	s.events.Broadcast(realtime.EventTaskUpdated, task)
	return &task, nil
}

// CompleteFieldTask marks a task COMPLETED and stamps the end time on the linked
// attendance row. Clock-out stays with the employee.
func (s *TaskService) CompleteFieldTask(taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Employee").First(&task, taskID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("task %d not found", taskID)
		}
		if err != nil {
			return err
		}
		if task.Status == models.TaskStatusCancelled {
			return invalidArgument("task %d is CANCELLED and cannot be completed", task.ID)
		}

		now := s.now()
		updates := map[string]interface{}{"status": models.TaskStatusCompleted}
		if task.CompletedAt == nil {
			done := now.UTC()
			updates["completed_at"] = done
			task.CompletedAt = &done
		}
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		task.Status = models.TaskStatusCompleted

		loc := time.UTC
		if task.Employee != nil {
			loc = s.zoneFor(*task.Employee)
		}
		endTime := utils.FormatClock(now, loc)
		return s.reconcile(tx, &task, now, &endTime)
	})
	if err != nil {
		return nil, txFailure("failed to complete task", err)
	}

	utils.InfoLogger.Printf("Field task %d completed", task.ID)
	s.events.Broadcast(realtime.EventTaskUpdated, task)
	return &task, nil
}

func (s *TaskService) reconcile(tx *gorm.DB, task *models.Task, now time.Time, endTime *string) error {
	if task.Employee == nil {
		return errors.New("task has no employee")
	}
	loc := s.zoneFor(*task.Employee)
	dayStart, dayEnd := utils.DayRange(now, loc)

	row, err := todaysAttendance(tx, task.EmployeeID, dayStart, dayEnd)
	if err != nil {
		return err
	}
	if row == nil || row.TaskID == nil || *row.TaskID != task.ID {
		return nil
	}

	next := models.AttendancePresent
	if task.Status == models.TaskStatusCancelled {
		var active int64
		err := tx.Model(&models.Task{}).
			Where("employee_id = ? AND id <> ? AND assigned_at >= ? AND assigned_at < ?", task.EmployeeID, task.ID, dayStart, dayEnd).
			Where("status IN ?", []string{models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted}).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active == 0 {
			next = models.AttendanceAbsent
		}
	}

	updates := map[string]interface{}{}
	if row.Status != next {
		updates["status"] = next
	}
	if endTime != nil {
		updates["task_end_time"] = *endTime
	}
	if len(updates) == 0 {
		return nil
	}
	if err := tx.Model(row).Updates(updates).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Attendance %d for employee %d reconciled to %s", row.ID, task.EmployeeID, next)
	return nil
}

// ListEmployeeTasks returns the employee's tasks, newest assignment first.
func (s *TaskService) ListEmployeeTasks(employeeCode, status string) ([]models.Task, error) {
	emp, err := findEmployee(s.db, employeeCode)
	if err != nil {
		return nil, err
	}
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, invalidArgument("invalid task status %q", status)
	}

	q := s.db.Where("employee_id = ?", emp.ID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []models.Task
	if err := q.Order("assigned_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListTasks pages through every task with its employee attached.
func (s *TaskService) ListTasks(page, limit int, status string) (*TaskPage, error) {
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, invalidArgument("invalid task status %q", status)
	}
	page, limit = normalizePage(page, limit)

	filtered := func() *gorm.DB {
		q := s.db.Model(&models.Task{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, err
	}

	var tasks []models.Task
	err := filtered().Preload("Employee", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "employee_code", "name", "email")
	}).
		Order("assigned_at DESC").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return &TaskPage{
		Items:      tasks,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
