package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store        StoreAPI
	Mailer       Mailer
	EmailEnabled bool
	From         string
}

func New(store StoreAPI, mailer Mailer, emailEnabled bool, from string) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{store: store, Mailer: mailer, EmailEnabled: emailEnabled, From: from}
}

// Create persists the notification and, when email delivery is configured,
// sends a copy. Email failures are logged and never fail the caller.
func (s *Service) Create(ctx context.Context, userID, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}

	if s.Mailer == nil || !s.EmailEnabled {
		return nil
	}

	email, err := s.store.UserEmail(ctx, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.From, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]map[string]any, error) {
	return s.store.ListNotifications(ctx, userID, limit, offset)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.store.CountNotifications(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}
