package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusInProgress OrderStatus = "In progress"
	StatusReady      OrderStatus = "Ready"
	StatusCompleted  OrderStatus = "Completed"
)

// OrderStatuses lists every accepted status in workflow order
var OrderStatuses = []OrderStatus{StatusPending, StatusInProgress, StatusReady, StatusCompleted}

// ParseOrderStatus matches s case-insensitively against OrderStatuses.
// An empty string yields StatusPending.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusPending, nil
	}
	for _, status := range OrderStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type Milestone string

const (
	MilestonePaid      Milestone = "paid"
	MilestoneDelivered Milestone = "delivered"
	MilestoneCompleted Milestone = "completed"
	MilestonePickedUp  Milestone = "picked_up"
)

// statusMilestones lists the milestones reached by moving into a status.
var statusMilestones = map[OrderStatus][]Milestone{
	StatusCompleted: {MilestoneCompleted},
}

// TransitionFlags are the one-way assertions an update can carry
type TransitionFlags struct {
	Paid     bool
	PickedUp bool
}

// Triggers returns the milestones asserted by status and flags
func Triggers(status OrderStatus, flags TransitionFlags) []Milestone {
	triggers := append([]Milestone(nil), statusMilestones[status]...)
	if flags.Paid {
		triggers = append(triggers, MilestonePaid)
	}
	if flags.PickedUp {
		triggers = append(triggers, MilestonePickedUp)
	}
	return triggers
}

// Milestones are set-once timestamps. Apply is the only writer and never
// replaces or clears a timestamp that is already set.
type Milestones struct {
	PaidAt      *time.Time `json:"paidAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`
	CompletedAt *time.Time `json:"completedAt"`
	PickedUpAt  *time.Time `json:"pickedUpAt"`
}

func (m *Milestones) slot(milestone Milestone) **time.Time {
	switch milestone {
	case MilestonePaid:
		return &m.PaidAt
	case MilestoneDelivered:
		return &m.DeliveredAt
	case MilestoneCompleted:
		return &m.CompletedAt
	case MilestonePickedUp:
		return &m.PickedUpAt
	}
	return nil
}

// Apply stamps now on every triggered milestone that is still unset and
// returns the ones it stamped.
func (m *Milestones) Apply(triggers []Milestone, now time.Time) []Milestone {
	var stamped []Milestone
	for _, milestone := range triggers {
		slot := m.slot(milestone)
		if slot == nil || *slot != nil {
			continue
		}
		at := now
		*slot = &at
		stamped = append(stamped, milestone)
	}
	return stamped
}

// At returns the timestamp of milestone, nil when unset
func (m Milestones) At(milestone Milestone) *time.Time {
	slot := m.slot(milestone)
	if slot == nil {
		return nil
	}
	return *slot
}
