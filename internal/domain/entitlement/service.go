package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rpggio/revtrack/internal/domain/activity"
)

// Service reads and grants entitlements. Grants are only reachable from the
// verified payment webhook.
type Service struct {
	repo     Repository
	activity *activity.Recorder
	logger   *slog.Logger
}

// NewService creates a new entitlement service.
func NewService(repo Repository, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activity: recorder, logger: logger}
}

// IsEntitled reports whether the account has at least one active record.
func (s *Service) IsEntitled(ctx context.Context, accountID string) (bool, error) {
	n, err := s.repo.CountActive(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("counting active entitlements: %w", err)
	}
	return n > 0, nil
}

// Status returns the plan summary for an account.
func (s *Service) Status(ctx context.Context, accountID string) (Status, error) {
	entitled, err := s.IsEntitled(ctx, accountID)
	if err != nil {
		return Status{}, err
	}
	plan := PlanFree
	if entitled {
		plan = PlanPro
	}
	return Status{AccountID: accountID, Entitled: entitled, Plan: plan}, nil
}

// GrantRequest describes a provider-confirmed activation.
type GrantRequest struct {
	AccountID       string
	ProviderRef     string
	SubscriptionRef string
}

// Grant records an active entitlement once per provider reference. It reports
// whether a new record was written; a replayed confirmation returns false.
func (s *Service) Grant(ctx context.Context, req GrantRequest) (bool, error) {
	if strings.TrimSpace(req.AccountID) == "" || strings.TrimSpace(req.ProviderRef) == "" {
		return false, ErrInvalidInput
	}

	rec := &Entitlement{
		ID:              ulid.Make().String(),
		AccountID:       req.AccountID,
		Active:          true,
		ProviderRef:     req.ProviderRef,
		SubscriptionRef: req.SubscriptionRef,
		CreatedAt:       time.Now().UTC(),
	}
	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("inserting entitlement: %w", err)
	}

	if created {
		s.activity.Record(ctx, req.AccountID, nil, activity.TypeEntitlementGranted,
			fmt.Sprintf("entitlement granted for %s", req.ProviderRef))
		if s.logger != nil {
			s.logger.Info("entitlement granted", "account_id", req.AccountID, "provider_ref", req.ProviderRef)
		}
	} else if s.logger != nil {
		s.logger.Info("entitlement already granted", "account_id", req.AccountID, "provider_ref", req.ProviderRef)
	}
	return created, nil
}

// RevokeSubscription deactivates records tied to a cancelled subscription and
// returns the affected account ids.
func (s *Service) RevokeSubscription(ctx context.Context, subscriptionRef string) ([]string, error) {
	if strings.TrimSpace(subscriptionRef) == "" {
		return nil, ErrInvalidInput
	}
	accounts, err := s.repo.DeactivateBySubscription(ctx, subscriptionRef)
	if err != nil {
		return nil, fmt.Errorf("deactivating entitlements: %w", err)
	}
	for _, accountID := range accounts {
		s.activity.Record(ctx, accountID, nil, activity.TypeEntitlementRevoked,
			fmt.Sprintf("subscription %s cancelled", subscriptionRef))
	}
	return accounts, nil
}
