package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert hits one of the unique indexes
// (users.username, users.email, api_keys.key_hash, password_reset_tokens.token).
var ErrDuplicate = errors.New("duplicate record")

// Store is the durable credential store. Lookups return (nil, nil) when the
// record is absent; callers branch on presence, not on errors.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers without error translation.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func (s *Store) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user. The unique indexes on username and email are the
// authoritative conflict check; a concurrent insert that slips past an
// application-level pre-check still surfaces as ErrDuplicate here.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpdateUserPasswordHash(ctx context.Context, userID uint, newHash string) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", newHash).Error
}

func (s *Store) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ListAPIKeys returns every key owned by the user, revoked included.
func (s *Store) ListAPIKeys(ctx context.Context, userID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&keys).Error
	return keys, err
}

func (s *Store) FindAPIKey(ctx context.Context, id, userID uint) (*models.APIKey, error) {
	var key models.APIKey
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// FindActiveAPIKeyByHash resolves a presented key hash to its record,
// ignoring revoked keys.
func (s *Store) FindActiveAPIKeyByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var key models.APIKey
	err := s.db.WithContext(ctx).
		Where("key_hash = ? AND revoked = ?", keyHash, false).
		First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeAPIKey sets revoked=true. Revoking an already-revoked key is a no-op.
func (s *Store) RevokeAPIKey(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).
		Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

func (s *Store) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (s *Store) FindResetToken(ctx context.Context, value string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := s.db.WithContext(ctx).Where("token = ?", value).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ConsumeResetToken marks the token used and rewrites the owner's password
// hash in a single transaction. Either both rows change or neither does.
func (s *Store) ConsumeResetToken(ctx context.Context, tokenID, userID uint, newHash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("id = ?", tokenID).
			Update("used", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password_hash", newHash).Error
	})
}

// DeleteUser removes the user and both owned collections. The explicit
// two-step delete keeps the cascade working on stores without enforced
// foreign keys (sqlite with foreign_keys off).
func (s *Store) DeleteUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.APIKey{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
