package controllers

import (
	"net/http"

	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
)

const inventoryListing = "/api/inventory"

// CreateInventoryRequest is a batch of new items
type CreateInventoryRequest struct {
	Items []services.InventoryRow `json:"items"`
}

type InventoryController struct {
	inventory *services.InventoryService
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{inventory: inventory}
}

func (ic *InventoryController) GetInventory(c *gin.Context) {
	items, err := ic.inventory.List(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateInventory adds a batch of items, each coded from its name
func (ic *InventoryController) CreateInventory(c *gin.Context) {
	var (
		rows []services.InventoryRow
		echo interface{}
	)
	if isJSON(c) {
		var req CreateInventoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		rows, echo = req.Items, req
	} else {
		form, err := postForm(c)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid form: "+err.Error())
			return
		}
		names := form["item_name"]
		for i, name := range names {
			rows = append(rows, services.InventoryRow{
				Name:     name,
				Supplier: valueAt(form["supplier"], i),
				Qty:      utils.ParseIntOrZero(valueAt(form["qty"], i)),
				UOMID:    utils.ParseOptionalID(valueAt(form["uom_id"], i)),
			})
		}
		echo = form
	}

	items, err := ic.inventory.CreateBatch(c.Request.Context(), rows)
	if err != nil {
		respondError(c, err, echo)
		return
	}
	c.JSON(http.StatusCreated, items)
}

func (ic *InventoryController) GetInventoryItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := ic.inventory.Get(c.Request.Context(), id)
	if err != nil {
		respondEditError(c, err, nil, inventoryListing)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ic *InventoryController) UpdateInventoryItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input services.InventoryUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	item, err := ic.inventory.Update(c.Request.Context(), id, input)
	if err != nil {
		respondEditError(c, err, input, inventoryListing)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ic *InventoryController) DeleteInventoryItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ic.inventory.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
