// Package push sends web push notifications to organizers when RSVPs land.
package push

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/gamepop/gamepop/internal/model"
	"github.com/gamepop/gamepop/internal/store"
)

// ErrExpired is returned when a push subscription is no longer valid (410 Gone).
var ErrExpired = errors.New("push subscription expired")

// Payload is the JSON sent to the push service.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Config holds VAPID configuration. Push is disabled when either key is empty.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Contact         string
}

// Service fans RSVP notifications out to every stored subscription.
type Service struct {
	cfg    Config
	subs   *store.PushStore
	logger *slog.Logger
}

func NewService(cfg Config, subs *store.PushStore, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, subs: subs, logger: logger}
}

// VAPIDPublicKey returns the public key for client-side subscription.
func (s *Service) VAPIDPublicKey() string {
	return s.cfg.VAPIDPublicKey
}

// NotifyRSVP reports a submitted RSVP to all organizer devices. Expired
// subscriptions are pruned; other delivery failures are logged and skipped
// so one dead endpoint never blocks the rest.
func (s *Service) NotifyRSVP(sess *model.Session, resp *model.SessionResponse, created bool) {
	status := "responded"
	if resp.Status != nil {
		status = *resp.Status
	}
	verb := "updated their RSVP"
	if created {
		verb = "RSVPed"
	}

	payload := Payload{
		Title: sess.Title,
		Body:  fmt.Sprintf("%s %s: %s", resp.PlayerName, verb, status),
		URL:   "/s/" + sess.ID,
		Tag:   "rsvp-" + sess.ID,
	}

	subs, err := s.subs.List()
	if err != nil {
		s.logger.Error("list push subscriptions", "error", err)
		return
	}

	for _, sub := range subs {
		if err := s.send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if delErr := s.subs.Delete(sub.ID); delErr != nil {
					s.logger.Error("prune expired subscription", "id", sub.ID, "error", delErr)
				}
				continue
			}
			s.logger.Warn("push delivery failed", "id", sub.ID, "error", err)
		}
	}
}

func (s *Service) send(sub *model.PushSubscription, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotification(data, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Contact,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             3600,
	})
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		return ErrExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
