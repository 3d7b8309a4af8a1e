package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
)

type EmployeeInput struct {
	EmployeeCode string
	Name         string
	Email        string
	Phone        string
	Role         string
	Timezone     *string
}

type EmployeeUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Role     *string
	Timezone *string
	Active   *bool
}

// EmployeeService is the employee directory.
type EmployeeService struct {
	db *gorm.DB
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{db: db}
}

func validRole(role string) bool {
	return role == models.EmployeeRoleFieldEngineer || role == models.EmployeeRoleOfficeStaff
}

func validTimezone(tz *string) bool {
	if tz == nil || *tz == "" {
		return true
	}
	_, err := time.LoadLocation(*tz)
	return err == nil
}

func (s *EmployeeService) Create(in EmployeeInput) (*models.Employee, error) {
	code := strings.ToUpper(strings.TrimSpace(in.EmployeeCode))
	if code == "" {
		return nil, invalidArgument("employee id is required")
	}
	if in.Role == "" {
		in.Role = models.EmployeeRoleOfficeStaff
	}
	if !validRole(in.Role) {
		return nil, invalidArgument("invalid employee role %q", in.Role)
	}
	if !validTimezone(in.Timezone) {
		return nil, invalidArgument("unknown timezone %q", *in.Timezone)
	}

	var existing int64
	if err := s.db.Model(&models.Employee{}).Where("employee_code = ?", code).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, conflict("employee %s already exists", code)
	}

	emp := models.Employee{
		EmployeeCode: code,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		Timezone:     optional(in.Timezone),
		Active:       true,
	}
	if err := s.db.Create(&emp).Error; err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	utils.InfoLogger.Printf("Employee %s created (%s)", emp.EmployeeCode, emp.Role)
	return &emp, nil
}

func (s *EmployeeService) Get(code string) (*models.Employee, error) {
	emp, err := findEmployee(s.db, code)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// List returns employees ordered by code. activeOnly hides deactivated ones.
func (s *EmployeeService) List(activeOnly bool) ([]models.Employee, error) {
	q := s.db.Order("employee_code ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []models.Employee
	return out, q.Find(&out).Error
}

func (s *EmployeeService) Update(code string, in EmployeeUpdate) (*models.Employee, error) {
	emp, err := findEmployee(s.db, code)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, invalidArgument("invalid employee role %q", *in.Role)
		}
		updates["role"] = *in.Role
	}
	if in.Timezone != nil {
		if !validTimezone(in.Timezone) {
			return nil, invalidArgument("unknown timezone %q", *in.Timezone)
		}
		updates["timezone"] = optional(in.Timezone)
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if len(updates) == 0 {
		return &emp, nil
	}

	if err := s.db.Model(&emp).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	if err := s.db.First(&emp, emp.ID).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}
