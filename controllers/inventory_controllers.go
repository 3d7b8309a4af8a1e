package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type InventoryController struct {
	Inventory *services.InventoryService
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{Inventory: inventory}
}

func (ic *InventoryController) CreateItem(c *gin.Context) {
	var req struct {
		Code     string `json:"code" binding:"required,max=64"`
		Name     string `json:"name" binding:"required"`
		Quantity int    `json:"quantity" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	item, err := ic.Inventory.CreateItem(services.ItemInput{Code: req.Code, Name: req.Name, Quantity: req.Quantity})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item created", item)
}

func (ic *InventoryController) GetAllItems(c *gin.Context) {
	items, err := ic.Inventory.ListItems()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of items", items)
}

// GetItemByCode -> lookup by scanned barcode value
func (ic *InventoryController) GetItemByCode(c *gin.Context) {
	item, err := ic.Inventory.FindByCode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item details", item)
}

// Checkout -> lends stock to an employee
func (ic *InventoryController) Checkout(c *gin.Context) {
	var req struct {
		Code       string     `json:"code" binding:"required"`
		EmployeeID string     `json:"employee_id" binding:"required"`
		Quantity   int        `json:"quantity" binding:"required,gt=0"`
		DueAt      *time.Time `json:"due_at"`
		Note       string     `json:"note" binding:"max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	loan, err := ic.Inventory.Checkout(services.CheckoutInput{
		ItemCode:     req.Code,
		EmployeeCode: req.EmployeeID,
		Quantity:     req.Quantity,
		DueAt:        req.DueAt,
		Note:         req.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item checked out", loan)
}

func (ic *InventoryController) ReturnLoan(c *gin.Context) {
	loanID, err := uintParam(c, "loan_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	loan, err := ic.Inventory.Return(loanID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item returned", loan)
}

// GetLoans -> ?open=true&employee_id=
func (ic *InventoryController) GetLoans(c *gin.Context) {
	loans, err := ic.Inventory.ListLoans(c.Query("open") == "true", c.Query("employee_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of loans", loans)
}
