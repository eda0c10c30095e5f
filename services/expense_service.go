package services

import (
	"context"
	"strings"
	"time"

	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseFilter selects which expenses List returns
type ExpenseFilter string

const (
	ExpensesAll    ExpenseFilter = "all"
	ExpensesPlain  ExpenseFilter = "expense"
	ExpensesSalary ExpenseFilter = "salary"
)

// ExpenseInput creates or edits an expense. When IsSalary is set the
// salary amount is required and becomes the expense amount.
type ExpenseInput struct {
	Name         string              `json:"expenseName"`
	Amount       decimal.NullDecimal `json:"expenseAmount"`
	IsSalary     bool                `json:"isSalary"`
	StaffNo      string              `json:"staffNo"`
	ShiftNo      string              `json:"shiftNo"`
	SalaryAmount decimal.NullDecimal `json:"salaryAmount"`
}

// ExpenseList is the expense listing with its totals
type ExpenseList struct {
	Filter       ExpenseFilter    `json:"filter"`
	TotalExpense decimal.Decimal  `json:"totalExpense"`
	TotalSalary  decimal.Decimal  `json:"totalSalary"`
	Expenses     []models.Expense `json:"expenses"`
}

type ExpenseService struct {
	db    *gorm.DB
	codes *CodeGenerator
	now   func() time.Time
}

func NewExpenseService(db *gorm.DB, codes *CodeGenerator) *ExpenseService {
	return &ExpenseService{db: db, codes: codes, now: time.Now}
}

func ParseExpenseFilter(s string) ExpenseFilter {
	switch ExpenseFilter(strings.ToLower(strings.TrimSpace(s))) {
	case ExpensesPlain:
		return ExpensesPlain
	case ExpensesSalary:
		return ExpensesSalary
	}
	return ExpensesAll
}

func (s *ExpenseService) List(ctx context.Context, filter ExpenseFilter) (*ExpenseList, error) {
	db := s.db.WithContext(ctx)
	list := &ExpenseList{Filter: filter}

	var expenses []models.Expense
	if err := db.Select("amount").Find(&expenses).Error; err != nil {
		return nil, errors.Wrap(err, "failed to total expenses")
	}
	for _, e := range expenses {
		list.TotalExpense = list.TotalExpense.Add(e.Amount)
	}
	var salaries []models.Salary
	if err := db.Select("salary_amount").Find(&salaries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to total salaries")
	}
	for _, sal := range salaries {
		list.TotalSalary = list.TotalSalary.Add(sal.SalaryAmount)
	}

	query := db.Preload("Salary").Order("created_at DESC, id DESC")
	salaryIDs := db.Model(&models.Salary{}).Select("expense_id")
	switch filter {
	case ExpensesSalary:
		query = query.Where("id IN (?)", salaryIDs)
	case ExpensesPlain:
		query = query.Where("id NOT IN (?)", salaryIDs)
	}
	if err := query.Find(&list.Expenses).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list expenses")
	}
	return list, nil
}

func (s *ExpenseService) Get(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).Preload("Salary").First(&expense, id).Error; err != nil {
		return nil, notFound(err, "expense")
	}
	return &expense, nil
}

// Create issues the next EXP number and stores the expense, with its
// salary row when flagged.
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Expense name is required.")
	}
	amount := in.Amount
	if in.IsSalary {
		if !in.SalaryAmount.Valid {
			return nil, invalid("Salary amount is required.")
		}
		amount = in.SalaryAmount
	} else if !amount.Valid {
		return nil, invalid("Expense amount is required.")
	}

	var expense models.Expense
	err := s.codes.Issue(ctx, FamilyExpense, func(tx *gorm.DB, attempt int) error {
		no, err := s.codes.NextExpenseNo(tx, attempt)
		if err != nil {
			return err
		}
		now := s.now()
		expense = models.Expense{
			ExpenseNo:   no,
			ExpenseName: name,
			Amount:      amount.Decimal,
			CreatedAt:   now,
		}
		if in.IsSalary {
			expense.Salary = &models.Salary{
				StaffNo:      orDash(in.StaffNo),
				ShiftNo:      orDash(in.ShiftNo),
				SalaryAmount: amount.Decimal,
				CreatedAt:    now,
			}
		}
		return tx.Create(&expense).Error
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// Update changes name and amount. A salary row follows the new amount and
// staff number; its shift is kept.
func (s *ExpenseService) Update(ctx context.Context, id uint, in ExpenseInput) (*models.Expense, error) {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || !in.Amount.Valid {
		return nil, invalid("Name and amount are required.")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expense.ExpenseName = name
		expense.Amount = in.Amount.Decimal
		if err := tx.Model(expense).Select("expense_name", "amount").Updates(expense).Error; err != nil {
			return errors.Wrap(err, "failed to update expense")
		}
		if expense.Salary == nil {
			return nil
		}
		expense.Salary.StaffNo = orDash(in.StaffNo)
		expense.Salary.ShiftNo = orDash(expense.Salary.ShiftNo)
		expense.Salary.SalaryAmount = in.Amount.Decimal
		return errors.Wrap(tx.Model(expense.Salary).
			Select("staff_no", "shift_no", "salary_amount").
			Updates(expense.Salary).Error, "failed to update salary")
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes the expense and its salary row
func (s *ExpenseService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&models.Salary{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete salary")
		}
		res := tx.Delete(&models.Expense{}, id)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to delete expense")
		}
		if res.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "expense")
		}
		return nil
	})
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "-"
}
