package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/models"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/repository"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/pkg/utils"
)

// AuthService orchestrates the credential lifecycle: registration, login,
// API-key issuance and revocation, and the two-phase password reset.
type AuthService struct {
	store    *repository.Store
	tokens   *TokenService
	notifier ResetNotifier
	logger   *slog.Logger
	resetTTL time.Duration
}

func NewAuthService(store *repository.Store, tokens *TokenService, notifier ResetNotifier, logger *slog.Logger, resetTTL time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		resetTTL: resetTTL,
	}
}

// Register creates a user with a freshly hashed password. The pre-check is a
// single query over both unique fields; the store's unique indexes close the
// remaining race window between concurrent registrations.
func (s *AuthService) Register(ctx context.Context, name, email, address, username, password string) (*models.User, error) {
	existing, err := s.store.FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Address:      address,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the password and issues a session token. The response also
// carries the ids of the user's non-revoked API keys.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, []uint, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	keys, err := s.store.ListAPIKeys(ctx, user.ID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	activeIDs := make([]uint, 0, len(keys))
	for _, k := range keys {
		if !k.Revoked {
			activeIDs = append(activeIDs, k.ID)
		}
	}

	return token, user, activeIDs, nil
}

// CurrentUser resolves a session token to its user. Missing, malformed,
// expired and unknown-subject tokens all fail the same way.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	subject, ok := s.tokens.Validate(token)
	if !ok {
		return nil, ErrUnauthenticated
	}
	user, err := s.store.FindUserByUsername(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// IssueAPIKey creates a key and returns its raw value exactly once. Only the
// SHA-256 of the raw value is persisted.
func (s *AuthService) IssueAPIKey(ctx context.Context, user *models.User) (*models.APIKey, string, error) {
	raw := utils.GenerateRawAPIKey()
	key := &models.APIKey{
		KeyHash: utils.HashAPIKey(raw),
		UserID:  user.ID,
	}
	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, "", err
	}
	return key, raw, nil
}

// ListAPIKeys returns all of the user's keys, revoked included, metadata only.
func (s *AuthService) ListAPIKeys(ctx context.Context, user *models.User) ([]models.APIKey, error) {
	return s.store.ListAPIKeys(ctx, user.ID)
}

// RevokeAPIKey marks the key revoked. Keys owned by other users are
// indistinguishable from absent ones. Revoking twice succeeds.
func (s *AuthService) RevokeAPIKey(ctx context.Context, user *models.User, keyID uint) error {
	key, err := s.store.FindAPIKey(ctx, keyID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to look up api key: %w", err)
	}
	if key == nil {
		return ErrNotFound
	}
	return s.store.RevokeAPIKey(ctx, key.ID)
}

// AuthenticateAPIKey resolves a presented raw key to its owner, rejecting
// revoked keys.
func (s *AuthService) AuthenticateAPIKey(ctx context.Context, rawKey string) (*models.User, error) {
	key, err := s.store.FindActiveAPIKeyByHash(ctx, utils.HashAPIKey(rawKey))
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}
	if key == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.store.FindUserByID(ctx, key.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up key owner: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequestPasswordReset creates and delivers a reset token when the email is
// known. It never reports whether the email exists: the unknown-email path
// returns the same nil as the happy path, and delivery failures are only
// logged.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil
	}

	token := &models.PasswordResetToken{
		Token:     utils.GenerateResetToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.resetTTL),
	}
	if err := s.store.CreateResetToken(ctx, token); err != nil {
		return err
	}

	if err := s.notifier.Deliver(ctx, user.Email, token.Token); err != nil {
		s.logger.Warn("Failed to deliver reset link", "error", err)
	}
	return nil
}

// ConfirmPasswordReset consumes a reset token and rewrites the password.
// Used-or-expired is checked as one gate before anything is written, and the
// token flip plus hash update commit together.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenValue, newPassword string) error {
	token, err := s.store.FindResetToken(ctx, tokenValue)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if token == nil || token.Used || token.ExpiresAt.Before(time.Now().UTC()) {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.store.FindUserByID(ctx, token.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		// Unreachable while the cascade invariants hold.
		return ErrUserNotFound
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.ConsumeResetToken(ctx, token.ID, user.ID, hash)
}
