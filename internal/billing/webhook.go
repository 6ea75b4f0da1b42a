package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/rpggio/revtrack/internal/metrics"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookBodyLimit = 1024 * 1024 // 1 MiB

// Entitlements is the write side of the entitlement service the webhook drives.
type Entitlements interface {
	Grant(ctx context.Context, req entitlement.GrantRequest) (bool, error)
	RevokeSubscription(ctx context.Context, subscriptionRef string) ([]string, error)
}

// Accounts ensures the paying account exists before an entitlement references it.
type Accounts interface {
	Ensure(ctx context.Context, p account.Principal) (*account.Account, error)
}

// WebhookHandler handles incoming Stripe webhook events.
type WebhookHandler struct {
	secret       string
	entitlements Entitlements
	accounts     Accounts
	logger       *slog.Logger
}

type webhookErrorResponse struct {
	Error string `json:"error"`
}

type webhookReceivedResponse struct {
	Received bool `json:"received"`
}

// NewWebhookHandler creates a Stripe webhook HTTP handler.
func NewWebhookHandler(secret string, entitlements Entitlements, accounts Accounts, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:       secret,
		entitlements: entitlements,
		accounts:     accounts,
		logger:       logger,
	}
}

// ServeHTTP verifies the Stripe signature and dispatches the event.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	eventType := "unknown"
	status := http.StatusOK
	defer func() {
		metrics.WebhookRequestsTotal.WithLabelValues(eventType, strconv.Itoa(status)).Inc()
		metrics.WebhookDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
	}()

	if r.Method != http.MethodPost {
		status = http.StatusMethodNotAllowed
		writeJSON(w, status, webhookErrorResponse{Error: "method not allowed"})
		return
	}
	if strings.TrimSpace(h.secret) == "" {
		status = http.StatusServiceUnavailable
		writeJSON(w, status, webhookErrorResponse{Error: "webhook secret not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		status = http.StatusBadRequest
		writeJSON(w, status, webhookErrorResponse{Error: "failed to read request body"})
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		status = http.StatusBadRequest
		writeJSON(w, status, webhookErrorResponse{Error: "missing Stripe signature"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("stripe webhook rejected", "error", err)
		}
		status = http.StatusBadRequest
		writeJSON(w, status, webhookErrorResponse{Error: "invalid Stripe signature"})
		return
	}
	eventType = string(event.Type)

	if err := h.handleEvent(r.Context(), &event); err != nil {
		if h.logger != nil {
			h.logger.Error("stripe webhook processing failed", "event_id", event.ID, "type", eventType, "error", err)
		}
		status = http.StatusInternalServerError
		writeJSON(w, status, webhookErrorResponse{Error: "processing failed"})
		return
	}

	writeJSON(w, http.StatusOK, webhookReceivedResponse{Received: true})
}

func (h *WebhookHandler) handleEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var session CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("decode checkout.session: %w", err)
		}
		return h.handleCheckoutCompleted(ctx, session)

	case "customer.subscription.deleted":
		var sub Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		if strings.TrimSpace(sub.ID) == "" {
			return nil
		}
		accounts, err := h.entitlements.RevokeSubscription(ctx, sub.ID)
		if err != nil {
			return fmt.Errorf("revoke subscription: %w", err)
		}
		if h.logger != nil {
			h.logger.Info("subscription cancelled", "subscription", sub.ID, "accounts", len(accounts))
		}
		return nil

	default:
		if h.logger != nil {
			h.logger.Info("stripe webhook ignored (unhandled type)", "type", string(event.Type), "event_id", event.ID)
		}
		return nil
	}
}

func (h *WebhookHandler) handleCheckoutCompleted(ctx context.Context, session CheckoutSession) error {
	if !session.Paid() {
		if h.logger != nil {
			h.logger.Info("checkout completed without payment", "session_id", session.ID, "payment_status", session.PaymentStatus)
		}
		return nil
	}

	accountID := session.AccountID()
	if accountID == "" || strings.TrimSpace(session.ID) == "" {
		if h.logger != nil {
			h.logger.Warn("checkout session has no account reference", "session_id", session.ID)
		}
		return nil
	}

	if _, err := h.accounts.Ensure(ctx, account.Principal{AccountID: accountID, Email: session.Email()}); err != nil {
		return fmt.Errorf("ensure account: %w", err)
	}

	created, err := h.entitlements.Grant(ctx, entitlement.GrantRequest{
		AccountID:       accountID,
		ProviderRef:     session.ID,
		SubscriptionRef: session.Subscription,
	})
	if err != nil {
		return fmt.Errorf("grant entitlement: %w", err)
	}
	if created {
		metrics.EntitlementsGrantedTotal.Inc()
	}
	return nil
}

// CheckoutSession is a minimal representation of a Stripe checkout.session event.
type CheckoutSession struct {
	ID                string `json:"id"`
	Mode              string `json:"mode"`
	PaymentStatus     string `json:"payment_status"`
	Customer          string `json:"customer"`
	Subscription      string `json:"subscription"`
	ClientReferenceID string `json:"client_reference_id"`
	CustomerEmail     string `json:"customer_email"`
	CustomerDetails   struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
}

// Paid reports whether the session represents a completed payment.
func (s CheckoutSession) Paid() bool {
	switch s.PaymentStatus {
	case "paid", "no_payment_required":
		return true
	}
	return false
}

// AccountID returns the revtrack account the session was started for.
func (s CheckoutSession) AccountID() string {
	if id := strings.TrimSpace(s.ClientReferenceID); id != "" {
		return id
	}
	return strings.TrimSpace(s.Metadata["account_id"])
}

// Email returns the best-known customer email.
func (s CheckoutSession) Email() string {
	if email := strings.TrimSpace(s.CustomerEmail); email != "" {
		return email
	}
	return strings.TrimSpace(s.CustomerDetails.Email)
}

// Subscription is a minimal representation of a Stripe subscription event.
type Subscription struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
