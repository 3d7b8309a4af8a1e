package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemInput struct {
	Code     string
	Name     string
	Quantity int
}

type CheckoutInput struct {
	ItemCode     string
	EmployeeCode string
	Quantity     int
	DueAt        *time.Time
	Note         string
}

// InventoryService checks items out to employees and back in.
type InventoryService struct {
	clock
	db     *gorm.DB
	events realtime.Publisher
}

func NewInventoryService(db *gorm.DB, events realtime.Publisher) *InventoryService {
	return &InventoryService{
		clock:  newClock(nil),
		db:     db,
		events: publisherOrDiscard(events),
	}
}

func (s *InventoryService) CreateItem(in ItemInput) (*models.InventoryItem, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, invalidArgument("item code is required")
	}
	if in.Quantity < 0 {
		return nil, invalidArgument("quantity cannot be negative")
	}

	item := models.InventoryItem{Code: code, Name: in.Name, Quantity: in.Quantity, Available: in.Quantity}
	res := s.db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).Create(&item)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflict("item %s already exists", code)
	}
	return &item, nil
}

// FindByCode looks an item up by its barcode value.
func (s *InventoryService) FindByCode(code string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.Where("code = ?", strings.TrimSpace(code)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("item %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) ListItems() ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	return out, s.db.Order("code ASC").Find(&out).Error
}

// Checkout lends quantity units of an item. Available stock never goes negative.
func (s *InventoryService) Checkout(in CheckoutInput) (*models.InventoryLoan, error) {
	if in.Quantity <= 0 {
		return nil, invalidArgument("quantity must be positive")
	}
	emp, err := findEmployee(s.db, in.EmployeeCode)
	if err != nil {
		return nil, err
	}

	var loan models.InventoryLoan
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("code = ?", strings.TrimSpace(in.ItemCode)).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("item %s not found", in.ItemCode)
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND available >= ?", item.ID, in.Quantity).
			Update("available", gorm.Expr("available - ?", in.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return conflict("only %d of %s available", item.Available, item.Code)
		}

		loan = models.InventoryLoan{
			ItemID:       item.ID,
			EmployeeID:   emp.ID,
			Quantity:     in.Quantity,
			Status:       models.LoanStatusOut,
			CheckedOutAt: s.now().UTC(),
			Note:         in.Note,
		}
		if in.DueAt != nil {
			due := in.DueAt.UTC()
			loan.DueAt = &due
		}
		if err := tx.Create(&loan).Error; err != nil {
			return err
		}
		item.Available -= in.Quantity
		loan.Item = &item
		return nil
	})
	if err != nil {
		return nil, txFailure("failed to check out item", err)
	}

	loan.Employee = &emp
	utils.InfoLogger.Printf("%s checked out %d x %s", emp.EmployeeCode, loan.Quantity, loan.Item.Code)
	s.events.Broadcast(realtime.EventInventoryUpdated, loan)
	return &loan, nil
}

// Return closes an open loan and restores the stock.
func (s *InventoryService) Return(loanID uint) (*models.InventoryLoan, error) {
	var loan models.InventoryLoan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, loanID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("loan %d not found", loanID)
		}
		if err != nil {
			return err
		}
		if loan.Status != models.LoanStatusOut {
			return conflict("loan %d was already returned", loanID)
		}

		now := s.now().UTC()
		if err := tx.Model(&loan).Updates(map[string]interface{}{
			"status":      models.LoanStatusReturned,
			"returned_at": now,
		}).Error; err != nil {
			return err
		}
		loan.Status = models.LoanStatusReturned
		loan.ReturnedAt = &now

		return tx.Model(&models.InventoryItem{}).Where("id = ?", loan.ItemID).
			Update("available", gorm.Expr("available + ?", loan.Quantity)).Error
	})
	if err != nil {
		return nil, txFailure("failed to return item", err)
	}

	utils.InfoLogger.Printf("Loan %d returned", loan.ID)
	s.events.Broadcast(realtime.EventInventoryUpdated, loan)
	return &loan, nil
}

// ListLoans lists loans, optionally only open ones or one employee's.
func (s *InventoryService) ListLoans(openOnly bool, employeeCode string) ([]models.InventoryLoan, error) {
	q := s.db.Preload("Item").Preload("Employee")
	if openOnly {
		q = q.Where("status = ?", models.LoanStatusOut)
	}
	if employeeCode != "" {
		emp, err := findEmployee(s.db, employeeCode)
		if err != nil {
			return nil, err
		}
		q = q.Where("employee_id = ?", emp.ID)
	}
	var out []models.InventoryLoan
	return out, q.Order("checked_out_at DESC").Order("id DESC").Find(&out).Error
}

// FlagOverdue marks open loans past their due time and returns them. Each loan
// is reported once.
func (s *InventoryService) FlagOverdue() ([]models.InventoryLoan, error) {
	var loans []models.InventoryLoan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Item").Preload("Employee").
			Where("status = ? AND overdue_notified = ? AND due_at IS NOT NULL AND due_at < ?",
				models.LoanStatusOut, false, s.now().UTC()).
			Order("due_at ASC").Limit(100).
			Find(&loans).Error; err != nil {
			return err
		}
		if len(loans) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(loans))
		for _, l := range loans {
			ids = append(ids, l.ID)
		}
		return tx.Model(&models.InventoryLoan{}).Where("id IN ?", ids).Update("overdue_notified", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to flag overdue loans: %w", err)
	}
	return loans, nil
}
