package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"warranty-tracker-backend/internal/model"
	"warranty-tracker-backend/internal/store"
	"warranty-tracker-backend/internal/warranty"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Service turns appliance state into alert records and delivers them to
// push subscribers through a worker pool.
//
// The generation rule: an appliance whose derived status is Expiring gets a
// WARRANTY_EXPIRING_SOON alert, Expired gets WARRANTY_EXPIRED, and an
// incomplete maintenance task due within the maintenance window gets
// MAINTENANCE_UPCOMING. No new alert is created while an unread alert of
// the same type exists for the same appliance.
type Service struct {
	store             store.Store
	webpush           *webpush.Options
	maintenanceWindow int
	size              int
	jobs              chan string
	now               func() time.Time
	sender            Sender
}

// NewService creates the alert service. A nil webpushOptions disables push
// delivery; alerts are still recorded.
func NewService(size int, st store.Store, webpushOptions *webpush.Options, maintenanceWindowDays int) *Service {
	if size <= 0 {
		size = 1
	}
	if maintenanceWindowDays <= 0 {
		maintenanceWindowDays = 7
	}
	return &Service{
		store:             st,
		webpush:           webpushOptions,
		maintenanceWindow: maintenanceWindowDays,
		size:              size,
		jobs:              make(chan string, 16),
		now:               time.Now,
		sender:            &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (s *Service) Start(ctx context.Context) {
	for i := 0; i < s.size; i++ {
		go s.worker(ctx, i)
	}
}

// Dispatch queues an appliance for evaluation. Dispatch never blocks; when
// the queue is full the evaluation is dropped and picked up by the next
// write to the same appliance.
func (s *Service) Dispatch(applianceID string) {
	select {
	case s.jobs <- applianceID:
	default:
		log.Printf("alerts: queue full, dropping evaluation for appliance %s", applianceID)
	}
}

func (s *Service) worker(ctx context.Context, id int) {
	log.Printf("alert worker %d started", id)
	for {
		select {
		case applianceID := <-s.jobs:
			s.process(ctx, applianceID)
		case <-ctx.Done():
			log.Printf("alert worker %d shutting down", id)
			return
		}
	}
}

func (s *Service) process(ctx context.Context, applianceID string) {
	created, err := s.Evaluate(ctx, applianceID)
	if err != nil {
		log.Printf("alerts: evaluating appliance %s: %v", applianceID, err)
		return
	}
	for _, alert := range created {
		s.deliver(ctx, alert)
	}
}

// Evaluate applies the alert generation rule for one appliance and returns
// the alerts it created. An appliance deleted since dispatch is not an error.
func (s *Service) Evaluate(ctx context.Context, applianceID string) ([]model.Alert, error) {
	a, err := s.store.GetApplianceByID(ctx, applianceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var created []model.Alert

	switch a.Status {
	case warranty.StatusExpiring:
		days := warranty.DaysUntil(a.WarrantyExpiry, now)
		alert, ok, err := s.maybeCreate(ctx, model.Alert{
			Type:        model.AlertWarrantyExpiringSoon,
			ApplianceID: a.ID,
			Title:       "Warranty Expiring Soon",
			Message:     fmt.Sprintf("%s warranty expires in %d days", a.Name, days),
			DueDate:     a.WarrantyExpiry,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, alert)
		}
	case warranty.StatusExpired:
		alert, ok, err := s.maybeCreate(ctx, model.Alert{
			Type:        model.AlertWarrantyExpired,
			ApplianceID: a.ID,
			Title:       "Warranty Expired",
			Message:     fmt.Sprintf("%s warranty expired on %s", a.Name, a.WarrantyExpiry.Format("2006-01-02")),
			DueDate:     a.WarrantyExpiry,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, alert)
		}
	}

	tasks, err := s.store.ListMaintenanceForAppliance(ctx, a.ID)
	if err != nil {
		return created, err
	}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		days := warranty.DaysUntil(task.DueDate, now)
		if days < 0 || days > s.maintenanceWindow {
			continue
		}
		alert, ok, err := s.maybeCreate(ctx, model.Alert{
			Type:        model.AlertMaintenanceUpcoming,
			ApplianceID: a.ID,
			Title:       "Maintenance Due",
			Message:     fmt.Sprintf("%s: %s due in %d days", a.Name, task.Title, days),
			DueDate:     task.DueDate,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, alert)
		}
	}

	return created, nil
}

func (s *Service) maybeCreate(ctx context.Context, alert model.Alert) (model.Alert, bool, error) {
	exists, err := s.store.HasUnreadAlert(ctx, alert.ApplianceID, alert.Type)
	if err != nil {
		return model.Alert{}, false, err
	}
	if exists {
		return model.Alert{}, false, nil
	}
	created, err := s.store.CreateAlert(ctx, alert)
	if err != nil {
		return model.Alert{}, false, err
	}
	return created, true, nil
}

type pushPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// deliver pushes one alert to every subscription. Delivery is best-effort.
func (s *Service) deliver(ctx context.Context, alert model.Alert) {
	if s.webpush == nil {
		return
	}

	subs, err := s.store.ListPushSubscriptions(ctx)
	if err != nil {
		log.Printf("alerts: listing push subscriptions: %v", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{Title: alert.Title, Message: alert.Message})
	if err != nil {
		log.Printf("alerts: encoding push payload: %v", err)
		return
	}

	log.Printf("alerts: sending %d notifications for alert %s", len(subs), alert.ID)
	for _, sub := range subs {
		s.send(ctx, sub, payload)
	}
}

func (s *Service) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := s.sender.Send(payload, wpSub, s.webpush)
	if err != nil {
		log.Printf("alerts: sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("alerts: subscription %s is expired, deleting", sub.Endpoint)
		if err := s.store.DeletePushSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("alerts: deleting expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
