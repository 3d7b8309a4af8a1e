package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type FleetController struct {
	Fleet *services.FleetService
}

func NewFleetController(fleet *services.FleetService) *FleetController {
	return &FleetController{Fleet: fleet}
}

func (fc *FleetController) CreateVehicle(c *gin.Context) {
	var req struct {
		RegistrationNo string `json:"registration_no" binding:"required"`
		Make           string `json:"make"`
		Model          string `json:"model"`
		FuelType       string `json:"fuel_type"`
		EmployeeID     string `json:"employee_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	v, err := fc.Fleet.CreateVehicle(services.VehicleInput{
		RegistrationNo: req.RegistrationNo,
		Make:           req.Make,
		Model:          req.Model,
		FuelType:       req.FuelType,
		EmployeeCode:   req.EmployeeID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Vehicle registered", v)
}

func (fc *FleetController) GetAllVehicles(c *gin.Context) {
	vehicles, err := fc.Fleet.ListVehicles()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of vehicles", vehicles)
}

// LogPetrolBill -> bill_date is YYYY-MM-DD
func (fc *FleetController) LogPetrolBill(c *gin.Context) {
	var req struct {
		RegistrationNo string  `json:"registration_no" binding:"required"`
		EmployeeID     string  `json:"employee_id" binding:"required"`
		BillDate       string  `json:"bill_date" binding:"required"`
		Litres         float64 `json:"litres" binding:"required,gt=0"`
		Amount         float64 `json:"amount" binding:"required,gt=0"`
		Odometer       int     `json:"odometer" binding:"omitempty,min=0"`
		Station        string  `json:"station"`
		BillNumber     string  `json:"bill_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}
	billDate, err := time.Parse("2006-01-02", req.BillDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bill, err := fc.Fleet.LogPetrolBill(services.PetrolBillInput{
		RegistrationNo: req.RegistrationNo,
		EmployeeCode:   req.EmployeeID,
		BillDate:       billDate,
		Litres:         req.Litres,
		Amount:         req.Amount,
		Odometer:       req.Odometer,
		Station:        req.Station,
		BillNumber:     req.BillNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Petrol bill logged", bill)
}

// GetPetrolBills -> ?vehicle=&employee_id=&month=YYYY-MM
func (fc *FleetController) GetPetrolBills(c *gin.Context) {
	filter := services.PetrolBillFilter{
		RegistrationNo: c.Query("vehicle"),
		EmployeeCode:   c.Query("employee_id"),
	}
	if c.Query("month") != "" {
		year, month, err := monthQuery(c)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.Year, filter.Month = year, month
	}

	bills, err := fc.Fleet.ListPetrolBills(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of petrol bills", bills)
}

func (fc *FleetController) GetMonthlySummary(c *gin.Context) {
	year, month, err := monthQuery(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	summary, err := fc.Fleet.MonthlySummary(year, month)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Monthly fuel summary", summary)
}
