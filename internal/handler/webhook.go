package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/gamepop/gamepop/internal/payments"
	"github.com/gamepop/gamepop/internal/store"
)

const webhookBodyLimit = 64 * 1024

type WebhookHandler struct {
	paymentStore *store.PaymentStore
	stripe       *payments.Client
	logger       *slog.Logger
}

func NewWebhookHandler(ps *store.PaymentStore, stripe *payments.Client, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{paymentStore: ps, stripe: stripe, logger: logger}
}

// HandleStripe handles POST /api/webhooks/stripe. Signature verification
// happens before anything else; an unverifiable payload is dropped.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookBodyLimit))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
		return
	}

	event, err := h.stripe.ConstructWebhookEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("reject stripe webhook", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			h.logger.Error("decode checkout session", "event_id", event.ID, "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed event"})
			return
		}
		h.completeCheckout(&cs)
	default:
		h.logger.Debug("ignore stripe event", "type", event.Type)
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

func (h *WebhookHandler) completeCheckout(cs *stripe.CheckoutSession) {
	var payerEmail *string
	if cs.CustomerDetails != nil && cs.CustomerDetails.Email != "" {
		payerEmail = &cs.CustomerDetails.Email
	}

	existing, err := h.paymentStore.GetByStripeSessionID(cs.ID)
	if err != nil {
		h.logger.Error("look up payment", "stripe_session_id", cs.ID, "error", err)
		return
	}

	// The pending row is normally created at checkout time. A webhook can
	// still arrive for a checkout we never recorded, so fall back to the
	// session id carried in the metadata.
	if existing == nil {
		sessionID := cs.Metadata[payments.MetadataSessionID]
		if sessionID == "" {
			h.logger.Warn("completed checkout without session metadata", "stripe_session_id", cs.ID)
			return
		}
		if _, err := h.paymentStore.Create(sessionID, cs.ID, cs.AmountTotal, string(cs.Currency)); err != nil {
			h.logger.Error("record completed payment", "stripe_session_id", cs.ID, "error", err)
			return
		}
	}

	if err := h.paymentStore.MarkCompleted(cs.ID, payerEmail); err != nil {
		h.logger.Error("mark payment completed", "stripe_session_id", cs.ID, "error", err)
		return
	}

	h.logger.Info("payment completed", "stripe_session_id", cs.ID)
}
