package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type TaskController struct {
	Tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{Tasks: tasks}
}

// AssignTask -> creates a task and updates the employee's attendance for today
func (tc *TaskController) AssignTask(c *gin.Context) {
	var req struct {
		EmployeeID  string  `json:"employee_id" binding:"required"`
		Title       string  `json:"title" binding:"required,max=255"`
		Description string  `json:"description"`
		Category    *string `json:"category"`
		Location    *string `json:"location"`
		StartTime   *string `json:"start_time"`
		EndTime     *string `json:"end_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	task, err := tc.Tasks.AssignTask(services.AssignTaskInput{
		EmployeeCode: req.EmployeeID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		AssignedBy:   actorName(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Task assigned", task)
}

// UpdateTaskStatus -> moves a task and reconciles the linked attendance
func (tc *TaskController) UpdateTaskStatus(c *gin.Context) {
	taskID, err := uintParam(c, "task_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	task, err := tc.Tasks.UpdateTaskStatus(taskID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task status updated", task)
}

// CompleteFieldTask -> field engineer marks the task done on site
func (tc *TaskController) CompleteFieldTask(c *gin.Context) {
	taskID, err := uintParam(c, "task_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := tc.Tasks.CompleteFieldTask(taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task completed", task)
}

// GetEmployeeTasks -> newest first, optional ?status=
func (tc *TaskController) GetEmployeeTasks(c *gin.Context) {
	tasks, err := tc.Tasks.ListEmployeeTasks(c.Param("employee_id"), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee tasks", tasks)
}

// GetAllTasks -> ?page=&limit=&status=
func (tc *TaskController) GetAllTasks(c *gin.Context) {
	page, err := tc.Tasks.ListTasks(intQuery(c, "page", 1), intQuery(c, "limit", 50), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tasks", utils.PageResult{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}
