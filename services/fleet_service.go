package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VehicleInput struct {
	RegistrationNo string
	Make           string
	Model          string
	FuelType       string
	EmployeeCode   string
}

type PetrolBillInput struct {
	RegistrationNo string
	EmployeeCode   string
	BillDate       time.Time
	Litres         float64
	Amount         float64
	Odometer       int
	Station        string
	BillNumber     string
}

type PetrolBillFilter struct {
	RegistrationNo string
	EmployeeCode   string
	Year           int
	Month          time.Month
}

// VehicleSummary totals one vehicle's bills for a month.
type VehicleSummary struct {
	VehicleID      uint    `json:"vehicle_id"`
	RegistrationNo string  `json:"registration_no"`
	BillCount      int64   `json:"bill_count"`
	TotalLitres    float64 `json:"total_litres"`
	TotalAmount    float64 `json:"total_amount"`
}

// FleetService logs vehicles and the petrol bills raised against them.
type FleetService struct {
	db *gorm.DB
}

func NewFleetService(db *gorm.DB) *FleetService {
	return &FleetService{db: db}
}

func normalizeRegistration(r string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(r), " ", ""))
}

func (s *FleetService) CreateVehicle(in VehicleInput) (*models.Vehicle, error) {
	reg := normalizeRegistration(in.RegistrationNo)
	if reg == "" {
		return nil, invalidArgument("registration number is required")
	}
	if in.FuelType == "" {
		in.FuelType = "PETROL"
	}

	var count int64
	if err := s.db.Model(&models.Vehicle{}).Where("registration_no = ?", reg).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflict("vehicle %s already registered", reg)
	}

	v := models.Vehicle{
		RegistrationNo: reg,
		Make:           in.Make,
		Model:          in.Model,
		FuelType:       strings.ToUpper(in.FuelType),
	}
	if in.EmployeeCode != "" {
		emp, err := findEmployee(s.db, in.EmployeeCode)
		if err != nil {
			return nil, err
		}
		v.EmployeeID = &emp.ID
	}
	if err := s.db.Create(&v).Error; err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	utils.InfoLogger.Printf("Vehicle %s registered", v.RegistrationNo)
	return &v, nil
}

func (s *FleetService) ListVehicles() ([]models.Vehicle, error) {
	var out []models.Vehicle
	return out, s.db.Preload("Employee").Order("registration_no ASC").Find(&out).Error
}

func (s *FleetService) findVehicle(reg string) (models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.Where("registration_no = ?", normalizeRegistration(reg)).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, notFound("vehicle %s not found", reg)
	}
	return v, err
}

func (s *FleetService) LogPetrolBill(in PetrolBillInput) (*models.PetrolBill, error) {
	if in.Litres <= 0 || in.Amount <= 0 {
		return nil, invalidArgument("litres and amount must be positive")
	}
	if in.BillDate.IsZero() {
		return nil, invalidArgument("bill date is required")
	}
	v, err := s.findVehicle(in.RegistrationNo)
	if err != nil {
		return nil, err
	}
	emp, err := findEmployee(s.db, in.EmployeeCode)
	if err != nil {
		return nil, err
	}

	bill := models.PetrolBill{
		VehicleID:  v.ID,
		EmployeeID: emp.ID,
		BillDate:   calendarDate(in.BillDate),
		Litres:     in.Litres,
		Amount:     in.Amount,
		Odometer:   in.Odometer,
		Station:    in.Station,
		BillNumber: in.BillNumber,
	}
	if err := s.db.Create(&bill).Error; err != nil {
		return nil, fmt.Errorf("failed to log petrol bill: %w", err)
	}
	bill.Vehicle = &v
	bill.Employee = &emp
	utils.InfoLogger.Printf("Petrol bill %.2fL / %.2f logged for %s", bill.Litres, bill.Amount, v.RegistrationNo)
	return &bill, nil
}

// calendarDate keeps t's calendar day and drops its zone.
func calendarDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (s *FleetService) billQuery(f PetrolBillFilter) (*gorm.DB, error) {
	q := s.db.Model(&models.PetrolBill{})
	if f.RegistrationNo != "" {
		v, err := s.findVehicle(f.RegistrationNo)
		if err != nil {
			return nil, err
		}
		q = q.Where("vehicle_id = ?", v.ID)
	}
	if f.EmployeeCode != "" {
		emp, err := findEmployee(s.db, f.EmployeeCode)
		if err != nil {
			return nil, err
		}
		q = q.Where("employee_id = ?", emp.ID)
	}
	if f.Year != 0 {
		if f.Month < time.January || f.Month > time.December {
			return nil, invalidArgument("invalid month %d", f.Month)
		}
		start := time.Date(f.Year, f.Month, 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("bill_date >= ? AND bill_date < ?", datatypes.Date(start), datatypes.Date(start.AddDate(0, 1, 0)))
	}
	return q, nil
}

func (s *FleetService) ListPetrolBills(f PetrolBillFilter) ([]models.PetrolBill, error) {
	q, err := s.billQuery(f)
	if err != nil {
		return nil, err
	}
	var out []models.PetrolBill
	return out, q.Preload("Vehicle").Preload("Employee").Order("bill_date ASC").Order("id ASC").Find(&out).Error
}

// MonthlySummary aggregates bills per vehicle for one calendar month.
func (s *FleetService) MonthlySummary(year int, month time.Month) ([]VehicleSummary, error) {
	q, err := s.billQuery(PetrolBillFilter{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	var out []VehicleSummary
	err = q.Select("petrol_bills.vehicle_id AS vehicle_id, vehicles.registration_no AS registration_no, " +
		"COUNT(petrol_bills.id) AS bill_count, SUM(petrol_bills.litres) AS total_litres, SUM(petrol_bills.amount) AS total_amount").
		Joins("JOIN vehicles ON vehicles.id = petrol_bills.vehicle_id").
		Group("petrol_bills.vehicle_id, vehicles.registration_no").
		Order("vehicles.registration_no ASC").
		Scan(&out).Error
	return out, err
}
