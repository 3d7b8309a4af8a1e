package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/opsportal/config"
	"github.com/yeremiapane/opsportal/database"
	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/router"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama:
// 1. Register + login admin -> token
// 2. Buat employee, assign task -> attendance hari ini
// 3. Complete task -> attendance PRESENT + task_end_time
// 4. Buat customer (CUS0001) + ticket (TKT0001) -> resolve
// 5. Inventory checkout -> return
func TestEndToEndIntegration(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Config{
		Timezone:        "Asia/Kolkata",
		TaskGracePeriod: 30 * time.Minute,
		WorkdayStart:    "09:30",
		MaxAttempts:     2,
		CustomerPrefix:  "CUS",
	}
	r := router.SetupRouter(db, cfg, nil)

	token := loginTest(t, r)

	// employee + task
	call(t, r, token, http.MethodPost, "/admin/employees", map[string]string{
		"employee_id": "EMP007", "name": "Ravi", "email": "ravi@example.com", "role": models.EmployeeRoleFieldEngineer,
	}, http.StatusCreated, nil)

	var task models.Task
	call(t, r, token, http.MethodPost, "/admin/tasks", map[string]string{
		"employee_id": "EMP007", "title": "Fibre splice", "location": "12.9716,77.5946",
	}, http.StatusCreated, &task)

	var done models.Task
	call(t, r, token, http.MethodPost, fmt.Sprintf("/admin/tasks/%d/complete", task.ID), nil, http.StatusOK, &done)
	assert.Equal(t, models.TaskStatusCompleted, done.Status)

	var rows []models.Attendance
	call(t, r, token, http.MethodGet, "/admin/employees/EMP007/attendance", nil, http.StatusOK, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AttendancePresent, rows[0].Status)
	assert.NotNil(t, rows[0].TaskEndTime)

	// customer + ticket
	var customer models.Customer
	call(t, r, token, http.MethodPost, "/admin/customers", map[string]string{
		"name": "Acme Traders", "email": "ops@acme.example.com",
	}, http.StatusCreated, &customer)
	assert.Equal(t, "CUS0001", customer.CustomerCode)

	var ticket models.SupportTicket
	call(t, r, token, http.MethodPost, "/admin/tickets", map[string]string{
		"customer_code": customer.CustomerCode, "subject": "Link down", "priority": models.TicketPriorityHigh,
	}, http.StatusCreated, &ticket)
	assert.Equal(t, "TKT0001", ticket.TicketNo)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)

	call(t, r, token, http.MethodPatch, "/admin/tickets/TKT0001", map[string]string{
		"status": models.TicketStatusResolved, "assignee_id": "EMP007",
	}, http.StatusOK, &ticket)
	assert.Equal(t, models.TicketStatusResolved, ticket.Status)
	assert.NotNil(t, ticket.ResolvedAt)

	// the next customer continues the same sequence
	call(t, r, token, http.MethodPost, "/admin/customers", map[string]string{"name": "Globex"}, http.StatusCreated, &customer)
	assert.Equal(t, "CUS0002", customer.CustomerCode)

	// inventory
	var item models.InventoryItem
	call(t, r, token, http.MethodPost, "/admin/inventory/items", map[string]interface{}{
		"code": "OTDR-1", "name": "OTDR meter", "quantity": 2,
	}, http.StatusCreated, &item)

	var loan models.InventoryLoan
	call(t, r, token, http.MethodPost, "/admin/inventory/checkout", map[string]interface{}{
		"code": "OTDR-1", "employee_id": "EMP007", "quantity": 2,
	}, http.StatusCreated, &loan)

	call(t, r, token, http.MethodPost, "/admin/inventory/checkout", map[string]interface{}{
		"code": "OTDR-1", "employee_id": "EMP007", "quantity": 1,
	}, http.StatusConflict, nil)

	call(t, r, token, http.MethodPost, fmt.Sprintf("/admin/inventory/loans/%d/return", loan.ID), nil, http.StatusOK, &loan)
	assert.Equal(t, models.LoanStatusReturned, loan.Status)

	call(t, r, token, http.MethodGet, "/admin/inventory/items/OTDR-1", nil, http.StatusOK, &item)
	assert.Equal(t, 2, item.Available)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func loginTest(t *testing.T, r *gin.Engine) string {
	t.Helper()
	call(t, r, "", http.MethodPost, "/register", map[string]string{
		"name": "Admin", "email": "admin@example.com", "password": "password123", "role": models.UserRoleAdmin,
	}, http.StatusCreated, nil)

	var login struct {
		Token string `json:"token"`
	}
	call(t, r, "", http.MethodPost, "/login", map[string]string{
		"email": "admin@example.com", "password": "password123",
	}, http.StatusOK, &login)
	require.NotEmpty(t, login.Token)
	return login.Token
}

// call sends body as JSON, checks the status and decodes data into out.
func call(t *testing.T, r *gin.Engine, token, method, path string, body interface{}, want int, out interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, want, w.Code, "%s %s: %s", method, path, w.Body.String())

	if out == nil {
		return
	}
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, out))
}
