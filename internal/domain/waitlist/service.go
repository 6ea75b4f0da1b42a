package waitlist

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// Service handles waitlist sign-ups.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new waitlist service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Normalize trims and lower-cases email and checks it is a bare address.
func Normalize(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidInput
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", ErrInvalidInput
	}
	if !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", ErrInvalidInput
	}
	return email, nil
}

// Join adds email to the waitlist. Joining twice is not an error.
func (s *Service) Join(ctx context.Context, email string) (*Entry, error) {
	normalized, err := Normalize(email)
	if err != nil {
		return nil, err
	}
	entry := &Entry{Email: normalized, CreatedAt: time.Now().UTC()}
	added, err := s.repo.Add(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("adding waitlist entry: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("waitlist join", "new", added)
	}
	return entry, nil
}
