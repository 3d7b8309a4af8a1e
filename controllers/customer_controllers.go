package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type CustomerController struct {
	Support *services.SupportService
}

func NewCustomerController(support *services.SupportService) *CustomerController {
	return &CustomerController{Support: support}
}

// CreateCustomer -> the customer code is minted from the prefix sequence
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		Prefix  string `json:"prefix"`
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone"`
		Email   string `json:"email" binding:"omitempty,email"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	customer, err := cc.Support.CreateCustomer(services.CustomerInput{
		Prefix:  req.Prefix,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New customer created (%s)", customer.CustomerCode)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	customers, err := cc.Support.ListCustomers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := cc.Support.GetCustomer(c.Param("customer_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer details", customer)
}
