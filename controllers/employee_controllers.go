package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type EmployeeController struct {
	Employees *services.EmployeeService
}

func NewEmployeeController(employees *services.EmployeeService) *EmployeeController {
	return &EmployeeController{Employees: employees}
}

// CreateEmployee -> adds an employee to the directory
func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req struct {
		EmployeeID string  `json:"employee_id" binding:"required,max=32"`
		Name       string  `json:"name" binding:"required"`
		Email      string  `json:"email" binding:"omitempty,email"`
		Phone      string  `json:"phone"`
		Role       string  `json:"role" binding:"omitempty,oneof=FIELD_ENGINEER OFFICE_STAFF"`
		Timezone   *string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	emp, err := ec.Employees.Create(services.EmployeeInput{
		EmployeeCode: req.EmployeeID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		Timezone:     req.Timezone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Employee created", emp)
}

// GetAllEmployees -> ?active=true hides deactivated employees
func (ec *EmployeeController) GetAllEmployees(c *gin.Context) {
	employees, err := ec.Employees.List(c.Query("active") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of employees", employees)
}

func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	emp, err := ec.Employees.Get(c.Param("employee_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee details", emp)
}

// UpdateEmployee -> partial update; omitted fields stay as they are
func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Phone    *string `json:"phone"`
		Role     *string `json:"role" binding:"omitempty,oneof=FIELD_ENGINEER OFFICE_STAFF"`
		Timezone *string `json:"timezone"`
		Active   *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	emp, err := ec.Employees.Update(c.Param("employee_id"), services.EmployeeUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Timezone: req.Timezone,
		Active:   req.Active,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee updated", emp)
}
