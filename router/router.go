package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/opsportal/config"
	"github.com/yeremiapane/opsportal/controllers"
	"github.com/yeremiapane/opsportal/middlewares"
	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg config.Config, hub *realtime.Hub) *gin.Engine {
	if hub == nil {
		hub = realtime.NewHub()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.Metrics())
	if cfg.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}

	var geocoder services.Geocoder
	if cfg.GeocoderURL != "" {
		geocoder = services.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderTimeout)
	}

	// Inisialisasi service & controller
	ids := services.NewCustomerIDService(db, cfg.CustomerPrefix)
	attendanceSvc := services.NewAttendanceService(db, cfg, geocoder, hub)
	supportSvc := services.NewSupportService(db, ids, hub)

	userCtrl := controllers.NewUserController(db)
	healthCtrl := controllers.NewHealthController(db, hub)
	employeeCtrl := controllers.NewEmployeeController(services.NewEmployeeService(db))
	taskCtrl := controllers.NewTaskController(services.NewTaskService(db, cfg, hub))
	attendanceCtrl := controllers.NewAttendanceController(attendanceSvc)
	idCtrl := controllers.NewCustomerIDController(ids)
	customerCtrl := controllers.NewCustomerController(supportSvc)
	ticketCtrl := controllers.NewTicketController(supportSvc)
	fleetCtrl := controllers.NewFleetController(services.NewFleetService(db))
	inventoryCtrl := controllers.NewInventoryController(services.NewInventoryService(db, hub))
	reportCtrl := controllers.NewReportController(services.NewReportService(attendanceSvc))
	realtimeCtrl := controllers.NewRealtimeController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", healthCtrl.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware(), middlewares.RoleCheck())
	{
		wsGroup.GET("/:role", realtimeCtrl.Subscribe)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.UserRoleAdmin, models.UserRoleStaff))

	adminOnly := middlewares.RequireRoles(models.UserRoleAdmin)

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", adminOnly, userCtrl.GetAllUsers)

	// EMPLOYEES
	auth.GET("/employees", employeeCtrl.GetAllEmployees)
	auth.POST("/employees", adminOnly, employeeCtrl.CreateEmployee)
	auth.GET("/employees/:employee_id", employeeCtrl.GetEmployee)
	auth.PATCH("/employees/:employee_id", adminOnly, employeeCtrl.UpdateEmployee)

	// TASKS
	auth.POST("/tasks", taskCtrl.AssignTask)
	auth.GET("/tasks", taskCtrl.GetAllTasks)
	auth.PATCH("/tasks/:task_id/status", taskCtrl.UpdateTaskStatus)
	auth.POST("/tasks/:task_id/complete", taskCtrl.CompleteFieldTask)
	auth.GET("/employees/:employee_id/tasks", taskCtrl.GetEmployeeTasks)

	// ATTENDANCE
	auth.PUT("/employees/:employee_id/attendance/status", attendanceCtrl.OverrideStatus)
	auth.POST("/employees/:employee_id/attendance/reset-attempts", attendanceCtrl.ResetAttempts)
	auth.GET("/employees/:employee_id/attendance", attendanceCtrl.GetEmployeeAttendance)
	auth.GET("/attendance", attendanceCtrl.GetDailyAttendance)
	auth.POST("/attendance/check-in", attendanceCtrl.CheckIn)
	auth.POST("/attendance/check-out", attendanceCtrl.CheckOut)
	auth.PATCH("/attendance/:attendance_id/approval", adminOnly, attendanceCtrl.SetApproval)

	// CUSTOMER IDS
	auth.POST("/customer-ids/generate", idCtrl.GenerateID)
	auth.GET("/customer-ids/prefixes", idCtrl.GetActivePrefixes)
	auth.POST("/customer-ids/prefixes", adminOnly, idCtrl.AddPrefix)
	auth.DELETE("/customer-ids/prefixes/:prefix", adminOnly, idCtrl.DeactivatePrefix)

	// CUSTOMERS & TICKETS
	auth.POST("/customers", customerCtrl.CreateCustomer)
	auth.GET("/customers", customerCtrl.GetAllCustomers)
	auth.GET("/customers/:customer_code", customerCtrl.GetCustomer)
	auth.POST("/tickets", ticketCtrl.CreateTicket)
	auth.GET("/tickets", ticketCtrl.GetAllTickets)
	auth.GET("/tickets/:ticket_no", ticketCtrl.GetTicket)
	auth.PATCH("/tickets/:ticket_no", ticketCtrl.UpdateTicket)

	// FLEET
	auth.POST("/vehicles", fleetCtrl.CreateVehicle)
	auth.GET("/vehicles", fleetCtrl.GetAllVehicles)
	auth.POST("/petrol-bills", fleetCtrl.LogPetrolBill)
	auth.GET("/petrol-bills", fleetCtrl.GetPetrolBills)
	auth.GET("/petrol-bills/summary", fleetCtrl.GetMonthlySummary)

	// INVENTORY
	auth.POST("/inventory/items", inventoryCtrl.CreateItem)
	auth.GET("/inventory/items", inventoryCtrl.GetAllItems)
	auth.GET("/inventory/items/:code", inventoryCtrl.GetItemByCode)
	auth.POST("/inventory/checkout", inventoryCtrl.Checkout)
	auth.POST("/inventory/loans/:loan_id/return", inventoryCtrl.ReturnLoan)
	auth.GET("/inventory/loans", inventoryCtrl.GetLoans)

	// REPORTS
	reports := auth.Group("/reports")
	reports.Use(adminOnly, middlewares.ExportLoggerMiddleware())
	{
		reports.GET("/attendance.xlsx", reportCtrl.ExportAttendance)
		reports.GET("/attendance.pdf", reportCtrl.ExportAttendancePDF)
	}

	return r
}
