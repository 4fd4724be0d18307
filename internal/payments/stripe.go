// Package payments wraps the Stripe calls used for paid session spots.
package payments

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	checksession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/gamepop/gamepop/internal/model"
)

// MetadataSessionID is the checkout metadata key carrying our session id.
const MetadataSessionID = "gamepop_session_id"

type Config struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

// Configured returns true if the secret key is set. Checkout routes are not
// registered otherwise.
func (c *Client) Configured() bool {
	return c.cfg.SecretKey != ""
}

// CreateCheckoutSession creates a one-off payment checkout for a priced
// session and returns the hosted checkout URL and the Stripe session id.
func (c *Client) CreateCheckoutSession(sess *model.Session) (url, id string, err error) {
	if sess.PriceCents == nil || *sess.PriceCents <= 0 {
		return "", "", fmt.Errorf("session %s has no price", sess.ID)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("gbp"),
					UnitAmount: stripe.Int64(*sess.PriceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(sess.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerCreation: stripe.String(string(stripe.CheckoutSessionCustomerCreationIfRequired)),
		SuccessURL:       stripe.String(c.cfg.BaseURL + "/success?cs={CHECKOUT_SESSION_ID}"),
		CancelURL:        stripe.String(c.cfg.BaseURL + "/s/" + sess.ID),
	}
	params.AddMetadata(MetadataSessionID, sess.ID)

	checkout, err := checksession.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}
	return checkout.URL, checkout.ID, nil
}

// ConstructWebhookEvent verifies the signature and returns the parsed event.
func (c *Client) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.cfg.WebhookSecret)
}
