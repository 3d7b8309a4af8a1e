package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const TicketPrefix = "TKT"

type CustomerInput struct {
	Prefix  string
	Name    string
	Phone   string
	Email   string
	Address string
}

type TicketInput struct {
	CustomerCode string
	Subject      string
	Description  string
	Priority     string
}

type TicketUpdate struct {
	Status       *string
	Priority     *string
	AssigneeCode *string
}

type TicketFilter struct {
	Status   string
	Priority string
	Page     int
	Limit    int
}

type TicketPage struct {
	Items      []models.SupportTicket
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// SupportService owns customers and their support tickets. Both take their
// public identifiers from the sequence generator.
type SupportService struct {
	clock
	db     *gorm.DB
	ids    *CustomerIDService
	events realtime.Publisher
}

func NewSupportService(db *gorm.DB, ids *CustomerIDService, events realtime.Publisher) *SupportService {
	return &SupportService{
		clock:  newClock(nil),
		db:     db,
		ids:    ids,
		events: publisherOrDiscard(events),
	}
}

func (s *SupportService) CreateCustomer(in CustomerInput) (*models.Customer, error) {
	customer := models.Customer{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := s.ids.NextInTx(tx, in.Prefix)
		if err != nil {
			return err
		}
		customer.CustomerCode = code
		return tx.Create(&customer).Error
	})
	if err != nil {
		return nil, txFailure("failed to create customer", err)
	}
	utils.InfoLogger.Printf("Customer %s created", customer.CustomerCode)
	return &customer, nil
}

func (s *SupportService) GetCustomer(code string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.Where("customer_code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("customer %s not found", code)
	}
	return &c, err
}

func (s *SupportService) ListCustomers() ([]models.Customer, error) {
	var out []models.Customer
	return out, s.db.Order("id ASC").Find(&out).Error
}

func validPriority(p string) bool {
	switch p {
	case models.TicketPriorityLow, models.TicketPriorityMedium, models.TicketPriorityHigh, models.TicketPriorityUrgent:
		return true
	}
	return false
}

func validTicketStatus(st string) bool {
	switch st {
	case models.TicketStatusOpen, models.TicketStatusInProgress, models.TicketStatusResolved, models.TicketStatusClosed:
		return true
	}
	return false
}

// CreateTicket opens a ticket numbered from the TKT sequence.
func (s *SupportService) CreateTicket(in TicketInput) (*models.SupportTicket, error) {
	if in.Priority == "" {
		in.Priority = models.TicketPriorityMedium
	}
	if !validPriority(in.Priority) {
		return nil, invalidArgument("invalid priority %q", in.Priority)
	}
	customer, err := s.GetCustomer(in.CustomerCode)
	if err != nil {
		return nil, err
	}

	ticket := models.SupportTicket{
		CustomerID:  customer.ID,
		Subject:     in.Subject,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      models.TicketStatusOpen,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		no, err := s.ids.NextInTx(tx, TicketPrefix)
		if err != nil {
			return err
		}
		ticket.TicketNo = no
		return tx.Create(&ticket).Error
	})
	if err != nil {
		return nil, txFailure("failed to create ticket", err)
	}

	ticket.Customer = customer
	utils.InfoLogger.Printf("Ticket %s opened for %s", ticket.TicketNo, customer.CustomerCode)
	s.events.Broadcast(realtime.EventTicketUpdated, ticket)
	return &ticket, nil
}

func (s *SupportService) GetTicket(ticketNo string) (*models.SupportTicket, error) {
	var t models.SupportTicket
	err := s.db.Preload("Customer").Preload("Assignee").Where("ticket_no = ?", ticketNo).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("ticket %s not found", ticketNo)
	}
	return &t, err
}

func (s *SupportService) ListTickets(f TicketFilter) (*TicketPage, error) {
	if f.Status != "" && !validTicketStatus(f.Status) {
		return nil, invalidArgument("invalid ticket status %q", f.Status)
	}
	if f.Priority != "" && !validPriority(f.Priority) {
		return nil, invalidArgument("invalid priority %q", f.Priority)
	}
	page, limit := normalizePage(f.Page, f.Limit)

	filtered := func() *gorm.DB {
		q := s.db.Model(&models.SupportTicket{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.Priority != "" {
			q = q.Where("priority = ?", f.Priority)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.SupportTicket
	if err := filtered().Preload("Customer").Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return &TicketPage{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit)}, nil
}

// UpdateTicket changes status, priority or assignee. CLOSED tickets are frozen.
func (s *SupportService) UpdateTicket(ticketNo string, in TicketUpdate) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("ticket_no = ?", ticketNo).First(&ticket).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("ticket %s not found", ticketNo)
		}
		if err != nil {
			return err
		}
		if ticket.Status == models.TicketStatusClosed {
			return invalidArgument("ticket %s is closed", ticketNo)
		}

		updates := map[string]interface{}{}
		if in.Status != nil {
			if !validTicketStatus(*in.Status) {
				return invalidArgument("invalid ticket status %q", *in.Status)
			}
			updates["status"] = *in.Status
			if *in.Status == models.TicketStatusResolved && ticket.ResolvedAt == nil {
				updates["resolved_at"] = s.now().UTC()
			}
		}
		if in.Priority != nil {
			if !validPriority(*in.Priority) {
				return invalidArgument("invalid priority %q", *in.Priority)
			}
			updates["priority"] = *in.Priority
		}
		if in.AssigneeCode != nil {
			emp, err := findEmployee(tx, *in.AssigneeCode)
			if err != nil {
				return err
			}
			updates["assignee_id"] = emp.ID
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&ticket).Updates(updates).Error
	})
	if err != nil {
		return nil, txFailure("failed to update ticket", err)
	}

	out, err := s.GetTicket(ticketNo)
	if err != nil {
		return nil, fmt.Errorf("failed to reload ticket: %w", err)
	}
	s.events.Broadcast(realtime.EventTicketUpdated, out)
	return out, nil
}
