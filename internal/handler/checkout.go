package handler

import (
	"log/slog"
	"net/http"

	"github.com/gamepop/gamepop/internal/payments"
	"github.com/gamepop/gamepop/internal/store"
)

type CheckoutHandler struct {
	sessions     *store.SessionStore
	paymentStore *store.PaymentStore
	stripe       *payments.Client
	logger       *slog.Logger
}

func NewCheckoutHandler(ss *store.SessionStore, ps *store.PaymentStore, stripe *payments.Client, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{sessions: ss, paymentStore: ps, stripe: stripe, logger: logger}
}

// Create handles POST /api/sessions/{id}/checkout. It returns the Stripe
// checkout URL for a priced session.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.stripe == nil || !h.stripe.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "payments not configured"})
		return
	}

	sessionID := r.PathValue("id")
	sess, err := h.sessions.GetByID(sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if sess.PriceCents == nil || *sess.PriceCents <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session has no price"})
		return
	}

	checkoutURL, stripeSessionID, err := h.stripe.CreateCheckoutSession(sess)
	if err != nil {
		h.logger.Error("create checkout session", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start checkout"})
		return
	}

	if _, err := h.paymentStore.Create(sessionID, stripeSessionID, *sess.PriceCents, "gbp"); err != nil {
		h.logger.Error("record pending payment", "stripe_session_id", stripeSessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record payment"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": checkoutURL})
}
