package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/opsportal/services"
	"github.com/yeremiapane/opsportal/utils"
)

type CustomerIDController struct {
	IDs *services.CustomerIDService
}

func NewCustomerIDController(ids *services.CustomerIDService) *CustomerIDController {
	return &CustomerIDController{IDs: ids}
}

// GenerateID -> next identifier for the prefix (default prefix when omitted)
func (cc *CustomerIDController) GenerateID(c *gin.Context) {
	var req struct {
		Prefix string `json:"prefix"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondBindingError(c, err)
			return
		}
	}

	id, err := cc.IDs.GenerateCustomerID(req.Prefix)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer ID generated", gin.H{"customer_id": id})
}

// AddPrefix -> registers a new prefix starting at 0001
func (cc *CustomerIDController) AddPrefix(c *gin.Context) {
	var req struct {
		Prefix string `json:"prefix" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindingError(c, err)
		return
	}

	cfg, err := cc.IDs.AddCustomPrefix(req.Prefix)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Prefix created", cfg)
}

func (cc *CustomerIDController) GetActivePrefixes(c *gin.Context) {
	prefixes, err := cc.IDs.ListActivePrefixes()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active prefixes", prefixes)
}

func (cc *CustomerIDController) DeactivatePrefix(c *gin.Context) {
	if err := cc.IDs.DeactivatePrefix(c.Param("prefix")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Prefix deactivated", nil)
}
