// services/reminder_service.go
package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"tailorshop-backend/config"
	"tailorshop-backend/metrics"
	"tailorshop-backend/models"
	"tailorshop-backend/utils"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// MessageSender delivers a text message and returns the provider's id
type MessageSender interface {
	Send(to, body string) (string, error)
}

// TwilioSender sends through Twilio, over WhatsApp when the number is in
// E.164 form and a WhatsApp sender is configured, else over SMS.
type TwilioSender struct {
	client   *twilio.RestClient
	from     string
	whatsApp string
}

func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from:     cfg.PhoneNumber,
		whatsApp: cfg.WhatsAppNumber,
	}
}

// Channel reports which channel a message to phone would use
func (t *TwilioSender) Channel(phone string) string {
	if t.whatsApp != "" && utils.IsE164(phone) {
		return "whatsapp"
	}
	return "sms"
}

func (t *TwilioSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if t.Channel(to) == "whatsapp" {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + t.whatsApp)
	} else {
		params.SetTo(to)
		params.SetFrom(t.from)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ReminderService nudges customers whose orders are ready but not picked up
type ReminderService struct {
	db     *gorm.DB
	sender MessageSender
	cfg    config.ReminderConfig
	cron   *cron.Cron
	now    func() time.Time
}

func NewReminderService(db *gorm.DB, sender MessageSender, cfg config.ReminderConfig) *ReminderService {
	return &ReminderService{
		db:     db,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
	}
}

// StartScheduler registers the daily run. It does nothing when reminders
// are disabled.
func (s *ReminderService) StartScheduler() error {
	if !s.cfg.Enabled {
		log.Info().Msg("Pickup reminders disabled")
		return nil
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.SendPickupReminders(context.Background()); err != nil {
			log.Error().Err(err).Msg("Pickup reminder run failed")
		}
	}); err != nil {
		return errors.Wrapf(err, "invalid reminder schedule %q", s.cfg.Schedule)
	}
	s.cron.Start()
	log.Info().Str("schedule", s.cfg.Schedule).Msg("Reminder scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job
func (s *ReminderService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// DueOrders lists orders waiting for pickup for at least AfterDays days
// whose customer has not been reminded today.
func (s *ReminderService) DueOrders(ctx context.Context) ([]models.Order, error) {
	now := s.now()
	cutoff := utils.BeginningOfDay(now).AddDate(0, 0, 1-max(s.cfg.AfterDays, 0))

	var candidates []models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("status IN ?", []models.OrderStatus{models.StatusReady, models.StatusCompleted}).
		Where("picked_up_at IS NULL").
		Order("id").
		Find(&candidates).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load orders awaiting pickup")
	}

	var remindedToday []uint
	if err := s.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("sent_at >= ? AND status = ?", utils.BeginningOfDay(now), "sent").
		Pluck("order_id", &remindedToday).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load today's reminders")
	}
	skip := make(map[uint]bool, len(remindedToday))
	for _, id := range remindedToday {
		skip[id] = true
	}

	var due []models.Order
	for _, o := range candidates {
		if skip[o.ID] || o.Customer == nil || o.Customer.Phone == "" {
			continue
		}
		readySince := o.UpdatedAt
		if o.CompletedAt != nil {
			readySince = *o.CompletedAt
		}
		if readySince.Before(cutoff) {
			due = append(due, o)
		}
	}
	return due, nil
}

// SendPickupReminders sends one message per due order and logs each
// attempt. It returns the number of messages sent.
func (s *ReminderService) SendPickupReminders(ctx context.Context) (int, error) {
	orders, err := s.DueOrders(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int("due", len(orders)).Msg("Starting pickup reminder processing")

	sent := 0
	for _, o := range orders {
		message := RenderReminder(s.cfg.Template, o.Customer.Name, o.ID)
		status, errorMsg := "sent", ""

		sid, err := s.sender.Send(o.Customer.Phone, message)
		if err != nil {
			log.Warn().Err(err).Uint("order_id", o.ID).Str("phone", o.Customer.Phone).Msg("Failed to send reminder")
			status, errorMsg = "failed", err.Error()
		} else {
			sent++
			log.Info().Uint("order_id", o.ID).Str("sid", sid).Msg("Reminder sent")
		}
		metrics.RecordReminder(status)

		entry := models.ReminderLog{
			OrderID:      o.ID,
			CustomerID:   o.CustomerID,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      s.channel(o.Customer.Phone),
			SentAt:       s.now(),
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			log.Error().Err(err).Uint("order_id", o.ID).Msg("Failed to log reminder")
		}
	}

	log.Info().Int("sent", sent).Msg("Pickup reminder processing completed")
	return sent, nil
}

// Logs returns the latest reminder attempts
func (s *ReminderService) Logs(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	var logs []models.ReminderLog
	if err := s.db.WithContext(ctx).Order("sent_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load reminder logs")
	}
	return logs, nil
}

func (s *ReminderService) channel(phone string) string {
	if t, ok := s.sender.(interface{ Channel(string) string }); ok {
		return t.Channel(phone)
	}
	return "sms"
}

// RenderReminder fills the [CustomerName] and [OrderID] placeholders
func RenderReminder(template, customerName string, orderID uint) string {
	return strings.NewReplacer(
		"[CustomerName]", customerName,
		"[OrderID]", strconv.FormatUint(uint64(orderID), 10),
	).Replace(template)
}
