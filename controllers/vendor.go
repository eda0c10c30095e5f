package controllers

import (
	"net/http"

	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	vendorsListing   = "/api/vendors"
	purchasesListing = "/api/vendor-purchases"
)

// CreatePurchasesRequest records several material lines for one vendor
type CreatePurchasesRequest struct {
	VendorID uint                    `json:"vendorId"`
	Lines    []services.PurchaseLine `json:"lines"`
}

// UpdatePurchaseRequest rewrites a single purchase line
type UpdatePurchaseRequest struct {
	VendorID uint `json:"vendorId"`
	services.PurchaseLine
}

type VendorController struct {
	vendors *services.VendorService
}

func NewVendorController(vendors *services.VendorService) *VendorController {
	return &VendorController{vendors: vendors}
}

func (vc *VendorController) GetVendors(c *gin.Context) {
	vendors, err := vc.vendors.List(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (vc *VendorController) CreateVendor(c *gin.Context) {
	var input services.VendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	vendor, err := vc.vendors.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, input)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (vc *VendorController) GetVendor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	vendor, err := vc.vendors.Get(c.Request.Context(), id)
	if err != nil {
		respondEditError(c, err, nil, vendorsListing)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (vc *VendorController) UpdateVendor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input services.VendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	vendor, err := vc.vendors.Update(c.Request.Context(), id, input)
	if err != nil {
		respondEditError(c, err, input, vendorsListing)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (vc *VendorController) DeleteVendor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := vc.vendors.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
}

func (vc *VendorController) GetPurchases(c *gin.Context) {
	purchases, err := vc.vendors.ListPurchases(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (vc *VendorController) CreatePurchases(c *gin.Context) {
	var req CreatePurchasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	purchases, err := vc.vendors.AddPurchases(c.Request.Context(), req.VendorID, req.Lines)
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusCreated, purchases)
}

func (vc *VendorController) GetPurchase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	purchase, err := vc.vendors.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondEditError(c, err, nil, purchasesListing)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (vc *VendorController) UpdatePurchase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	purchase, err := vc.vendors.UpdatePurchase(c.Request.Context(), id, req.VendorID, req.PurchaseLine)
	if err != nil {
		respondEditError(c, err, req, purchasesListing)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (vc *VendorController) DeletePurchase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := vc.vendors.DeletePurchase(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}
