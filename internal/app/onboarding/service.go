package onboarding

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"memorymatch/internal/ports"
)

var (
	ErrNotConfigured = errors.New("onboarding service not configured")
	ErrMissingUserID = errors.New("user id is required")
)

// Result captures the outcome of onboarding a new account.
type Result struct {
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed; authentication still succeeds.
	ProfileUpdateErr error
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service.
// accounts must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		rng:      rng,
	}
}

// OnboardNewUser gives a newly created account a friendly generated name.
// Profile failures are reported in Result rather than as an error.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s == nil || s.accounts == nil {
		return Result{}, ErrNotConfigured
	}
	if userID == "" {
		return Result{}, ErrMissingUserID
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		result.ProfileUpdateErr = fmt.Errorf("update profile for %s: %w", userID, err)
	}
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Sharp", "Quick", "Keen", "Lucky", "Steady", "Bright", "Nimble", "Patient", "Clever", "Bold"}
	nouns := []string{"Owl", "Elephant", "Raven", "Octopus", "Squirrel", "Magpie", "Dolphin", "Crow", "Parrot", "Fox"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
