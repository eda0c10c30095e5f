// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"tailorshop-backend/models"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportController handles all reporting functions
type ReportController struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{db: db, now: time.Now}
}

// AnalyticsSummary represents the Analytics data. Revenue counts the total
// amount of orders paid within the period.
type AnalyticsSummary struct {
	CurrentMonthRevenue   decimal.Decimal   `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal   `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal   `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopItems              []ItemSummary     `json:"topItems"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type ItemSummary struct {
	ItemType string `json:"itemType"`
	Qty      int64  `json:"qty"`
	Orders   int64  `json:"orders"`
}

type CustomerSummary struct {
	Name   string          `json:"name"`
	Phone  string          `json:"phone"`
	Orders int64           `json:"orders"`
	Spent  decimal.Decimal `json:"spent"`
}

type QuickStatistics struct {
	TotalCustomers int64           `json:"totalCustomers"`
	TotalOrders    int64           `json:"totalOrders"`
	PaidOrders     int64           `json:"paidOrders"`
	AvgOrderValue  decimal.Decimal `json:"avgOrderValue"`
}

// GetReportAnalytics returns revenue with growth against the previous
// month, quarter and year, plus this month's top items and customers.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	db := rc.db.WithContext(c.Request.Context())

	now := rc.now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	firstOfNextMonth := firstOfMonth.AddDate(0, 1, 0)
	quarterStart := rc.getQuarterStart(now)
	yearStart := time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation)

	periods := []struct {
		start, end time.Time
		failure    string
	}{
		{firstOfMonth, firstOfNextMonth, "Failed to get monthly revenue"},
		{firstOfMonth.AddDate(0, -1, 0), firstOfMonth, "Failed to get last month revenue"},
		{quarterStart, quarterStart.AddDate(0, 3, 0), "Failed to get quarterly revenue"},
		{quarterStart.AddDate(0, -3, 0), quarterStart, "Failed to get last quarter revenue"},
		{yearStart, yearStart.AddDate(1, 0, 0), "Failed to get yearly revenue"},
		{yearStart.AddDate(-1, 0, 0), yearStart, "Failed to get last year revenue"},
	}
	revenue := make([]decimal.Decimal, len(periods))
	for i, p := range periods {
		total, err := rc.getRevenue(db, p.start, p.end)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, p.failure)
			return
		}
		revenue[i] = total
	}

	topItems, err := rc.getTopItems(db, firstOfMonth, firstOfNextMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top items")
		return
	}

	topCustomers, err := rc.getTopCustomers(db, firstOfMonth, firstOfNextMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}

	quickStats, err := rc.getQuickStatistics(db)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	c.JSON(http.StatusOK, AnalyticsSummary{
		CurrentMonthRevenue:   revenue[0],
		MonthGrowth:           rc.calculateGrowthPercentage(revenue[0], revenue[1]),
		CurrentQuarterRevenue: revenue[2],
		QuarterGrowth:         rc.calculateGrowthPercentage(revenue[2], revenue[3]),
		CurrentYearRevenue:    revenue[4],
		YearGrowth:            rc.calculateGrowthPercentage(revenue[4], revenue[5]),
		TopItems:              topItems,
		TopCustomers:          topCustomers,
		QuickStats:            quickStats,
	})
}

// Helper functions for reports

// getRevenue sums orders paid in [start, end)
func (rc *ReportController) getRevenue(db *gorm.DB, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Model(&models.Order{}).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) calculateGrowthPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

func (rc *ReportController) getTopItems(db *gorm.DB, start, end time.Time, limit int) ([]ItemSummary, error) {
	var items []ItemSummary

	err := db.Table("order_items").
		Select("order_items.item_type, SUM(order_items.qty) as qty, COUNT(DISTINCT order_items.order_id) as orders").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Group("order_items.item_type").
		Order("qty DESC").
		Limit(limit).
		Scan(&items).Error

	return items, err
}

func (rc *ReportController) getTopCustomers(db *gorm.DB, start, end time.Time, limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary

	err := db.Table("orders").
		Select("customers.name, customers.phone, COUNT(orders.id) as orders, COALESCE(SUM(orders.total_amount), 0) as spent").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Group("customers.id, customers.name, customers.phone").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error

	return customers, err
}

func (rc *ReportController) getQuickStatistics(db *gorm.DB) (QuickStatistics, error) {
	var stats QuickStatistics

	if err := db.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Order{}).Where("paid_at IS NOT NULL").Count(&stats.PaidOrders).Error; err != nil {
		return stats, err
	}

	// Average Order Value over paid orders
	var paidRevenue decimal.Decimal
	if err := db.Model(&models.Order{}).
		Where("paid_at IS NOT NULL").
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&paidRevenue).Error; err != nil {
		return stats, err
	}
	if stats.PaidOrders > 0 {
		stats.AvgOrderValue = paidRevenue.Div(decimal.NewFromInt(stats.PaidOrders)).Round(2)
	}

	return stats, nil
}
