package controllers

import (
	"net/http"

	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
)

const customersListing = "/api/customers"

// UpdateCustomerInput defines the JSON and form structure for editing a customer
type UpdateCustomerInput struct {
	Name  string `json:"name" form:"name"`
	Phone string `json:"phone" form:"phone"`
}

// MeasurementsRequest is the JSON form of a measurement submission
type MeasurementsRequest struct {
	Measurements []services.MeasurementRow `json:"measurements"`
}

type CustomerController struct {
	customers    *services.CustomerService
	measurements *services.MeasurementIntake
}

func NewCustomerController(customers *services.CustomerService, measurements *services.MeasurementIntake) *CustomerController {
	return &CustomerController{customers: customers, measurements: measurements}
}

// GetCustomers lists customers, searching name and phone with ?q=
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.customers.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer returns a customer with their orders and measurement history
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := cc.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondEditError(c, err, nil, customersListing)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input UpdateCustomerInput
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	customer, err := cc.customers.Update(c.Request.Context(), id, input.Name, input.Phone)
	if err != nil {
		respondEditError(c, err, input, customersListing)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (cc *CustomerController) GetMeasurements(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	measurements, err := cc.measurements.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, measurements)
}

// AddMeasurements records new measurement rows for an existing customer
func (cc *CustomerController) AddMeasurements(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var (
		rows []services.MeasurementRow
		echo interface{}
	)
	if isJSON(c) {
		var req MeasurementsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		rows, echo = req.Measurements, req
	} else {
		form, err := postForm(c)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid form: "+err.Error())
			return
		}
		rows, echo = measurementsFromForm(form).Rows(), form
	}

	saved, stats, err := cc.measurements.Submit(c.Request.Context(), id, rows)
	if err != nil {
		respondEditError(c, err, echo, customersListing)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"measurements": saved, "stats": stats})
}
