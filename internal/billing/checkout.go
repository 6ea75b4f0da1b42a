// Package billing adapts Stripe Checkout and Stripe webhooks to entitlements.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/stripe/stripe-go/v82"
	stripesession "github.com/stripe/stripe-go/v82/checkout/session"
)

// ErrNotConfigured is returned when the Stripe key or price is missing.
var ErrNotConfigured = errors.New("billing not configured")

// Config holds the Stripe settings used to start checkouts.
type Config struct {
	APIKey     string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Checkout starts hosted Stripe Checkout sessions for the upgrade plan.
type Checkout struct {
	cfg                   Config
	activity              *activity.Recorder
	logger                *slog.Logger
	sessions              *stripesession.Client
	createCheckoutSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewCheckout creates a checkout starter. The API key is bound to its own
// session client; the package-level stripe.Key is never touched.
func NewCheckout(cfg Config, recorder *activity.Recorder, logger *slog.Logger) *Checkout {
	sessions := &stripesession.Client{
		B:   stripe.GetBackend(stripe.APIBackend),
		Key: strings.TrimSpace(cfg.APIKey),
	}
	return &Checkout{
		cfg:                   cfg,
		activity:              recorder,
		logger:                logger,
		sessions:              sessions,
		createCheckoutSession: sessions.New,
	}
}

// Configured reports whether checkouts can be started.
func (c *Checkout) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != "" && strings.TrimSpace(c.cfg.PriceID) != ""
}

// Start creates a subscription checkout for the principal and returns its URL.
// The account id travels as client_reference_id and metadata so the webhook
// can attribute the payment.
func (c *Checkout) Start(ctx context.Context, p account.Principal) (string, error) {
	if !p.Authenticated() {
		return "", account.ErrUnauthenticated
	}
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(c.cfg.SuccessURL),
		CancelURL:         stripe.String(c.cfg.CancelURL),
		ClientReferenceID: stripe.String(p.AccountID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(strings.TrimSpace(c.cfg.PriceID)),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"account_id": p.AccountID,
		},
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Context = ctx

	session, err := c.createCheckoutSession(params)
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}
	if session == nil || strings.TrimSpace(session.URL) == "" {
		return "", fmt.Errorf("stripe returned empty checkout URL")
	}

	c.activity.Record(ctx, p.AccountID, nil, activity.TypeCheckoutStarted, "checkout session "+session.ID)
	if c.logger != nil {
		c.logger.Info("checkout started", "account_id", p.AccountID, "session_id", session.ID)
	}
	return strings.TrimSpace(session.URL), nil
}
