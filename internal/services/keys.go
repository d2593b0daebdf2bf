package services

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// KeySelector is the credential-picker collaborator guarding the costly video
// path. SelectedKey reports whether the user already has a usable API key;
// OfferSelection runs the selection flow and reports whether a key was chosen.
type KeySelector interface {
	SelectedKey(ctx context.Context, userID uuid.UUID) (string, bool)
	OfferSelection(ctx context.Context, userID uuid.UUID) (string, bool)
}

type userKeyRepo interface {
	GetAPIKey(ctx context.Context, userID uuid.UUID) (string, error)
	SetAPIKey(ctx context.Context, userID uuid.UUID, key string) error
}

// UserKeySelector prefers a key stored on the user record and falls back to
// assigning the server's shared key when the user accepts selection. With no
// shared key configured the selection is declined.
type UserKeySelector struct {
	users     userKeyRepo
	sharedKey string
}

func NewUserKeySelector(users userKeyRepo, sharedKey string) *UserKeySelector {
	return &UserKeySelector{users: users, sharedKey: sharedKey}
}

func (s *UserKeySelector) SelectedKey(ctx context.Context, userID uuid.UUID) (string, bool) {
	key, err := s.users.GetAPIKey(ctx, userID)
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func (s *UserKeySelector) OfferSelection(ctx context.Context, userID uuid.UUID) (string, bool) {
	if s.sharedKey == "" {
		return "", false
	}
	if err := s.users.SetAPIKey(ctx, userID, s.sharedKey); err != nil {
		log.Printf("failed to persist selected key for %s: %v", userID, err)
	}
	return s.sharedKey, true
}
