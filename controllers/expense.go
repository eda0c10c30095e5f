package controllers

import (
	"net/http"

	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
)

const expensesListing = "/api/expenses"

// ExpenseRequest is the JSON and form shape of an expense. Amounts are
// decimal strings.
type ExpenseRequest struct {
	Name         string     `json:"expenseName" form:"expense_name"`
	Amount       string     `json:"expenseAmount" form:"expense_amount"`
	IsSalary     utils.Flag `json:"isSalary" form:"is_salary"`
	StaffNo      string     `json:"staffNo" form:"staff_no"`
	ShiftNo      string     `json:"shiftNo" form:"shift_no"`
	SalaryAmount string     `json:"salaryAmount" form:"salary_amount"`
}

func (r ExpenseRequest) toInput() services.ExpenseInput {
	return services.ExpenseInput{
		Name:         r.Name,
		Amount:       utils.ParseOptionalDecimal(r.Amount),
		IsSalary:     r.IsSalary.Checked(),
		StaffNo:      r.StaffNo,
		ShiftNo:      r.ShiftNo,
		SalaryAmount: utils.ParseOptionalDecimal(r.SalaryAmount),
	}
}

type ExpenseController struct {
	expenses *services.ExpenseService
}

func NewExpenseController(expenses *services.ExpenseService) *ExpenseController {
	return &ExpenseController{expenses: expenses}
}

// GetExpenses lists expenses filtered by ?type=all|expense|salary
func (ec *ExpenseController) GetExpenses(c *gin.Context) {
	list, err := ec.expenses.List(c.Request.Context(), services.ParseExpenseFilter(c.Query("type")))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ec *ExpenseController) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	expense, err := ec.expenses.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, req)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (ec *ExpenseController) GetExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	expense, err := ec.expenses.Get(c.Request.Context(), id)
	if err != nil {
		respondEditError(c, err, nil, expensesListing)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (ec *ExpenseController) UpdateExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	expense, err := ec.expenses.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondEditError(c, err, req, expensesListing)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (ec *ExpenseController) DeleteExpense(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ec.expenses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
