package controllers

import (
	"net/http"

	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
)

type TailorController struct {
	tailors *services.TailorService
}

func NewTailorController(tailors *services.TailorService) *TailorController {
	return &TailorController{tailors: tailors}
}

func (tc *TailorController) GetTailors(c *gin.Context) {
	tailors, err := tc.tailors.List(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, tailors)
}

// CreateTailor registers a tailor under the next TLR code
func (tc *TailorController) CreateTailor(c *gin.Context) {
	var input services.TailorInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	tailor, err := tc.tailors.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, input)
		return
	}
	c.JSON(http.StatusCreated, tailor)
}

func (tc *TailorController) UpdateTailor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input services.TailorInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	tailor, err := tc.tailors.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, input)
		return
	}
	c.JSON(http.StatusOK, tailor)
}

// GetStaffName resolves a staff code for the salary form. Unknown codes
// give an empty name.
func (tc *TailorController) GetStaffName(c *gin.Context) {
	name, err := tc.tailors.LookupName(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}
