package controllers

import (
	"net/http"
	"strings"
	"time"

	"tailorshop-backend/models"
	"tailorshop-backend/services"
	"tailorshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	dashboardRecentOrders = 5
	dashboardActiveOrders = 10
	dashboardLowStock     = 10
)

type DashboardOverview struct {
	StatusCounts  map[models.OrderStatus]int64 `json:"statusCounts"`
	TotalOrders   int64                        `json:"totalOrders"`
	TotalItems    int64                        `json:"totalItems"`
	StockUnits    int64                        `json:"stockUnits"`
	LowStockCount int64                        `json:"lowStockCount"`
	LowStock      []models.InventoryItem       `json:"lowStock"`
	Queues        map[string]int64             `json:"queues"`
	Revenue       decimal.Decimal              `json:"revenue"`
	Spent         decimal.Decimal              `json:"spent"`
	RecentOrders  []DashboardOrder             `json:"recentOrders"`
	ActiveOrders  []DashboardOrder             `json:"activeOrders"`
	Pickups       []DashboardOrder             `json:"pickups"`
}

// DashboardOrder is an order line on the dashboard
type DashboardOrder struct {
	ID             uint               `json:"id"`
	CustomerName   string             `json:"customerName"`
	Phone          string             `json:"phone"`
	Status         models.OrderStatus `json:"status"`
	AssignedTailor *string            `json:"assignedTailor"`
	DueDate        *time.Time         `json:"dueDate"`
	Due            string             `json:"due"` // e.g. "Tomorrow", "2 days overdue"
}

type DashboardController struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db, now: time.Now}
}

// GetDashboardOverview summarises orders, stock and money. ?q= searches
// ready orders awaiting pickup by customer name or phone.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	db := dc.db.WithContext(c.Request.Context())
	now := dc.now()
	overview := DashboardOverview{
		StatusCounts: make(map[models.OrderStatus]int64, len(models.OrderStatuses)),
		Queues:       make(map[string]int64, 2),
	}

	err := func() error {
		// Order counts by status
		for _, status := range models.OrderStatuses {
			overview.StatusCounts[status] = 0
		}
		var byStatus []struct {
			Status models.OrderStatus
			Count  int64
		}
		if err := db.Model(&models.Order{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&byStatus).Error; err != nil {
			return errors.Wrap(err, "status counts")
		}
		for _, row := range byStatus {
			overview.StatusCounts[row.Status] = row.Count
			overview.TotalOrders += row.Count
		}

		if err := db.Model(&models.OrderItem{}).
			Select("COALESCE(SUM(qty), 0)").
			Scan(&overview.TotalItems).Error; err != nil {
			return errors.Wrap(err, "item total")
		}

		// Stock
		if err := db.Model(&models.InventoryItem{}).
			Select("COALESCE(SUM(qty), 0)").
			Scan(&overview.StockUnits).Error; err != nil {
			return errors.Wrap(err, "stock units")
		}
		low := db.Model(&models.InventoryItem{}).Where("qty <= ?", services.LowStockQty)
		if err := low.Count(&overview.LowStockCount).Error; err != nil {
			return errors.Wrap(err, "low stock count")
		}
		if err := db.Preload("UOM").
			Where("qty <= ?", services.LowStockQty).
			Order("qty ASC, name ASC").
			Limit(dashboardLowStock).
			Find(&overview.LowStock).Error; err != nil {
			return errors.Wrap(err, "low stock")
		}

		// Work queues per team
		for _, team := range []string{"Shirt", "Pant"} {
			var n int64
			if err := db.Model(&models.Order{}).
				Where("assigned_team = ? AND status <> ?", team, models.StatusCompleted).
				Count(&n).Error; err != nil {
				return errors.Wrap(err, "queue")
			}
			overview.Queues[team] = n
		}

		// Money
		if err := db.Model(&models.Order{}).
			Where("paid_at IS NOT NULL").
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&overview.Revenue).Error; err != nil {
			return errors.Wrap(err, "revenue")
		}
		if err := db.Model(&models.VendorPurchase{}).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&overview.Spent).Error; err != nil {
			return errors.Wrap(err, "spent")
		}

		var err error
		overview.RecentOrders, err = dc.orders(db.Order("orders.created_at DESC, orders.id DESC").
			Limit(dashboardRecentOrders), now)
		if err != nil {
			return errors.Wrap(err, "recent orders")
		}
		overview.ActiveOrders, err = dc.orders(db.Where("orders.status <> ?", models.StatusCompleted).
			Order("orders.due_date IS NULL, orders.due_date ASC, orders.id ASC").
			Limit(dashboardActiveOrders), now)
		if err != nil {
			return errors.Wrap(err, "active orders")
		}

		pickups := db.Where("orders.status IN ? AND orders.picked_up_at IS NULL",
			[]models.OrderStatus{models.StatusReady, models.StatusCompleted})
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			pickups = pickups.Where("customers.name LIKE ? OR customers.phone LIKE ?", like, like)
		}
		overview.Pickups, err = dc.orders(pickups.Order("orders.updated_at DESC"), now)
		return errors.Wrap(err, "pickups")
	}()
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (dc *DashboardController) orders(query *gorm.DB, now time.Time) ([]DashboardOrder, error) {
	var rows []DashboardOrder
	err := query.Model(&models.Order{}).
		Select("orders.id, customers.name as customer_name, customers.phone, orders.status, orders.assigned_tailor, orders.due_date").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].DueDate != nil {
			rows[i].Due = utils.DueLabel(*rows[i].DueDate, now)
		}
	}
	return rows, nil
}
