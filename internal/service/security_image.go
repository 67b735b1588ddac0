package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/flashid/volunteer-bot/internal/model"
	"github.com/flashid/volunteer-bot/internal/repository"
)

// DefaultSecurityImage is returned when the icon collection is empty.
const DefaultSecurityImage = "SMILE"

// IconStore is the slice of the icon repository the selection policy
// needs. *repository.IconRepository satisfies it.
type IconStore interface {
	OldestAvailable(ctx context.Context) (*model.SecurityIcon, error)
	Oldest(ctx context.Context) (*model.SecurityIcon, error)
	MarkUsed(ctx context.Context, value string) error
	Touch(ctx context.Context, value string) error
	ResetAllAvailable(ctx context.Context) (int64, error)
}

// SecurityImageService rotates the shared security images handed to
// volunteers who claim a help request.
type SecurityImageService struct {
	icons IconStore
	log   *zap.Logger
}

func NewSecurityImageService(icons IconStore, log *zap.Logger) *SecurityImageService {
	return &SecurityImageService{icons: icons, log: log}
}

// Select picks the least-recently-used available icon, marks it used,
// and returns its value. When every icon is in use it degrades to the
// globally oldest icon, refreshing only its timestamp so repeated
// scarcity reuses icons round-robin. An empty collection yields the
// default image.
func (s *SecurityImageService) Select(ctx context.Context) (string, error) {
	icon, err := s.icons.OldestAvailable(ctx)
	switch {
	case err == nil:
		if err := s.icons.MarkUsed(ctx, icon.Value); err != nil {
			return "", err
		}
		return icon.Value, nil
	case errors.Is(err, repository.ErrNotFound):
		return s.selectOldest(ctx)
	default:
		return "", err
	}
}

func (s *SecurityImageService) selectOldest(ctx context.Context) (string, error) {
	oldest, err := s.icons.Oldest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("icon collection is empty, using default security image")
		return DefaultSecurityImage, nil
	}
	if err != nil {
		return "", err
	}
	if err := s.icons.Touch(ctx, oldest.Value); err != nil {
		return "", err
	}
	return oldest.Value, nil
}

// ResetPool returns every icon to the available pool.
func (s *SecurityImageService) ResetPool(ctx context.Context) error {
	reset, err := s.icons.ResetAllAvailable(ctx)
	if err != nil {
		return err
	}
	s.log.Info("security image pool reset", zap.Int64("icons", reset))
	return nil
}
