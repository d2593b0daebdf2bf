package store

import (
	"context"
)

const (
	themeKeyPrefix      = "studyflow:theme:"
	onboardingGlobalKey = "studyflow:onboarding"
	onboardingKeyPrefix = "studyflow:onboarding:"
)

// PrefsStore persists UI preferences: theme choice and onboarding-completion
// flags (one global, one per identity). Reads fall back to safe defaults.
type PrefsStore struct {
	kv KV
}

func NewPrefsStore(kv KV) *PrefsStore {
	return &PrefsStore{kv: kv}
}

// Theme returns "light" or "dark". Anything missing or unrecognized defaults
// to dark.
func (s *PrefsStore) Theme(ctx context.Context, email string) string {
	val, err := s.kv.Get(ctx, themeKeyPrefix+email)
	if err != nil || (val != "light" && val != "dark") {
		return "dark"
	}
	return val
}

func (s *PrefsStore) SetTheme(ctx context.Context, email, theme string) error {
	return s.kv.Set(ctx, themeKeyPrefix+email, theme)
}

// OnboardingComplete reports whether the identity has finished onboarding.
func (s *PrefsStore) OnboardingComplete(ctx context.Context, email string) bool {
	val, err := s.kv.Get(ctx, onboardingKeyPrefix+email)
	return err == nil && val == "true"
}

// CompleteOnboarding sets both the per-identity and the global flag.
func (s *PrefsStore) CompleteOnboarding(ctx context.Context, email string) error {
	if err := s.kv.Set(ctx, onboardingKeyPrefix+email, "true"); err != nil {
		return err
	}
	return s.kv.Set(ctx, onboardingGlobalKey, "true")
}
