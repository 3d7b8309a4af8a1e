package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type TicketController struct {
	Support *services.SupportService
}

func NewTicketController(support *services.SupportService) *TicketController {
	return &TicketController{Support: support}
}

// CreateTicket -> opens a ticket numbered TKT0001, TKT0002, ...
func (tc *TicketController) CreateTicket(c *gin.Context) {
	var req struct {
		CustomerCode string `json:"customer_code" binding:"required"`
		Subject      string `json:"subject" binding:"required,max=255"`
		Description  string `json:"description"`
		Priority     string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	ticket, err := tc.Support.CreateTicket(services.TicketInput{
		CustomerCode: req.CustomerCode,
		Subject:      req.Subject,
		Description:  req.Description,
		Priority:     req.Priority,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Ticket created", ticket)
}

// GetAllTickets -> ?status=&priority=&page=&limit=
func (tc *TicketController) GetAllTickets(c *gin.Context) {
	page, err := tc.Support.ListTickets(services.TicketFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 50),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tickets", utils.PageResult{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

func (tc *TicketController) GetTicket(c *gin.Context) {
	ticket, err := tc.Support.GetTicket(c.Param("ticket_no"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ticket details", ticket)
}

// UpdateTicket -> status, priority and assignee; closed tickets are frozen
func (tc *TicketController) UpdateTicket(c *gin.Context) {
	var req struct {
		Status     *string `json:"status"`
		Priority   *string `json:"priority"`
		AssigneeID *string `json:"assignee_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	ticket, err := tc.Support.UpdateTicket(c.Param("ticket_no"), services.TicketUpdate{
		Status:       req.Status,
		Priority:     req.Priority,
		AssigneeCode: req.AssigneeID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ticket updated", ticket)
}
