package controllers

import (
	"net/http"
	"net/url"

	"tailorshop-backend/models"
	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
)

// IntakeRequest is the JSON form of an order intake
type IntakeRequest struct {
	Name           string                    `json:"name"`
	Phone          string                    `json:"phone"`
	CustomerNotes  string                    `json:"customerNotes"`
	Measurements   []services.MeasurementRow `json:"measurements"`
	DueDate        string                    `json:"dueDate"`
	Priority       string                    `json:"priority"`
	Status         string                    `json:"status"`
	AssignedTailor string                    `json:"assignedTailor"`
	Notes          string                    `json:"notes"`
	Requirements   []string                  `json:"requirements"`
	AdvanceAmount  string                    `json:"advanceAmount"`
	TotalAmount    string                    `json:"totalAmount"`
	Items          []services.ItemRow        `json:"items"`
}

func (r IntakeRequest) toInput() services.IntakeInput {
	return services.IntakeInput{
		Customer:       services.CustomerInput{Name: r.Name, Phone: r.Phone, Notes: r.CustomerNotes},
		Measurements:   r.Measurements,
		DueDate:        utils.ParseOptionalDate(r.DueDate),
		Priority:       r.Priority,
		Status:         r.Status,
		AssignedTailor: r.AssignedTailor,
		Notes:          r.Notes,
		Requirements:   r.Requirements,
		AdvanceAmount:  utils.ParseOptionalDecimal(r.AdvanceAmount),
		TotalAmount:    utils.ParseOptionalDecimal(r.TotalAmount),
		Items:          r.Items,
	}
}

// UpdateOrderRequest is the JSON and form shape of a lifecycle update
type UpdateOrderRequest struct {
	Status         string     `json:"status" form:"status"`
	AssignedTailor *string    `json:"assignedTailor" form:"assigned_tailor"`
	DueDate        string     `json:"dueDate" form:"due_date"`
	Notes          *string    `json:"notes" form:"notes"`
	AdvanceAmount  string     `json:"advanceAmount" form:"advance_amount"`
	TotalAmount    string     `json:"totalAmount" form:"total_amount"`
	Paid           utils.Flag `json:"paid" form:"paid"`
	PickedUp       utils.Flag `json:"pickedUp" form:"picked_up"`
}

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder runs the order intake from a multipart/url-encoded form or
// a JSON body.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var (
		input services.IntakeInput
		echo  interface{}
	)
	if isJSON(c) {
		var req IntakeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		input, echo = req.toInput(), req
	} else {
		form, err := postForm(c)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid form: "+err.Error())
			return
		}
		input = intakeFromForm(form)
		input.Images = uploads(c, "order_images", form["image_labels"])
		echo = form
	}

	result, err := oc.orders.Intake(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, echo)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func intakeFromForm(form url.Values) services.IntakeInput {
	items := services.ItemForm{
		Types: form["item_type"],
		Qtys:  form["item_qty"],
		Notes: form["item_notes"],
	}

	return services.IntakeInput{
		Customer: services.CustomerInput{
			Name:  form.Get("name"),
			Phone: form.Get("phone"),
			Notes: form.Get("customer_notes"),
		},
		Measurements:   measurementsFromForm(form).Rows(),
		DueDate:        utils.ParseOptionalDate(form.Get("due_date")),
		Priority:       form.Get("priority"),
		Status:         form.Get("status"),
		AssignedTailor: form.Get("assigned_tailor"),
		Notes:          form.Get("order_notes"),
		Requirements:   form["requirements"],
		AdvanceAmount:  utils.ParseOptionalDecimal(form.Get("advance_amount")),
		TotalAmount:    utils.ParseOptionalDecimal(form.Get("total_amount")),
		Items:          items.Rows(),
	}
}

func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.orders.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err, gin.H{"status": c.Query("status")})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder applies a lifecycle update
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, stamped, err := oc.orders.Update(c.Request.Context(), id, services.UpdateInput{
		Status:         req.Status,
		AssignedTailor: req.AssignedTailor,
		DueDate:        utils.ParseOptionalDate(req.DueDate),
		Notes:          req.Notes,
		AdvanceAmount:  utils.ParseOptionalDecimal(req.AdvanceAmount),
		TotalAmount:    utils.ParseOptionalDecimal(req.TotalAmount),
		Paid:           req.Paid.Checked(),
		PickedUp:       req.PickedUp.Checked(),
	})
	if err != nil {
		respondError(c, err, req)
		return
	}
	if stamped == nil {
		stamped = []models.Milestone{}
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "stamped": stamped})
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := oc.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
