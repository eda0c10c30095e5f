// controllers/reminder.go
package controllers

import (
	"net/http"
	"strconv"

	"tailorshop-backend/services"

	"github.com/gin-gonic/gin"
)

const defaultReminderLogLimit = 50

type ReminderController struct {
	reminders *services.ReminderService
}

func NewReminderController(reminders *services.ReminderService) *ReminderController {
	return &ReminderController{reminders: reminders}
}

// GetReminderLogs returns the latest pickup reminder attempts, ?limit= up to 500
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultReminderLogLimit)))
	if err != nil || limit < 1 || limit > 500 {
		limit = defaultReminderLogLimit
	}
	logs, err := rc.reminders.Logs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetDueReminders lists the orders the next run would remind
func (rc *ReminderController) GetDueReminders(c *gin.Context) {
	orders, err := rc.reminders.DueOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// RunReminders sends pickup reminders now instead of waiting for the schedule
func (rc *ReminderController) RunReminders(c *gin.Context) {
	sent, err := rc.reminders.SendPickupReminders(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
