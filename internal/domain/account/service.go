package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service mirrors authenticated identities into the store.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new account service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Ensure upserts the principal's account row and returns it as stored. Calling it
// repeatedly with the same principal leaves exactly one row.
func (s *Service) Ensure(ctx context.Context, p Principal) (*Account, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}

	now := time.Now().UTC()
	acct := &Account{
		ID:        p.AccountID,
		Email:     strings.TrimSpace(p.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, acct); err != nil {
		return nil, fmt.Errorf("upserting account: %w", err)
	}
	stored, err := s.repo.Get(ctx, acct.ID)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("account ensured", "account_id", stored.ID)
	}
	return stored, nil
}
