package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"izinkuy/models"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// storedUser is the on-disk record. The hash is excluded from the public JSON
// shape of models.User, so it is carried in a separate field here.
type storedUser struct {
	models.User
	Hash string `json:"password_hash"`
}

// UserStorage manages account persistence in the Users bucket.
type UserStorage struct {
	db *bbolt.DB
}

// NewUserStorage creates a new user storage instance
func NewUserStorage(db *bbolt.DB) *UserStorage {
	return &UserStorage{db: db}
}

// CreateUser creates a new account with a bcrypt-hashed password.
func (s *UserStorage) CreateUser(email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketUsers))
		if findByEmail(b, user.Email) != nil {
			return errors.New("email already registered")
		}
		return saveUser(b, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves an account by ID.
func (s *UserStorage) GetUser(userID string) (*models.User, error) {
	var user *models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(BucketUsers)).Get([]byte(userID))
		if data == nil {
			return ErrUserNotFound
		}
		var derr error
		user, derr = decodeUser(data)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves an account by email.
func (s *UserStorage) GetUserByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user *models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		user = findByEmail(tx.Bucket([]byte(BucketUsers)), email)
		if user == nil {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPassword checks a password against the stored hash.
func (s *UserStorage) VerifyPassword(user *models.User, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
}

// UpdateLastLogin updates the last login timestamp
func (s *UserStorage) UpdateLastLogin(userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketUsers))
		data := b.Get([]byte(userID))
		if data == nil {
			return ErrUserNotFound
		}
		user, err := decodeUser(data)
		if err != nil {
			return err
		}
		user.LastLoginAt = time.Now()
		user.UpdatedAt = time.Now()
		return saveUser(b, user)
	})
}

// ListUsers retrieves all accounts.
func (s *UserStorage) ListUsers() ([]*models.User, error) {
	var users []*models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BucketUsers)).ForEach(func(_, v []byte) error {
			user, err := decodeUser(v)
			if err != nil {
				return nil // skip unreadable entries
			}
			users = append(users, user)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func findByEmail(b *bbolt.Bucket, email string) *models.User {
	var found *models.User
	b.ForEach(func(_, v []byte) error {
		user, err := decodeUser(v)
		if err != nil {
			return nil
		}
		if user.Email == email {
			found = user
		}
		return nil
	})
	return found
}

func saveUser(b *bbolt.Bucket, user *models.User) error {
	data, err := json.Marshal(storedUser{User: *user, Hash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("failed to marshal user: %v", err)
	}
	return b.Put([]byte(user.ID), data)
}

func decodeUser(data []byte) (*models.User, error) {
	var su storedUser
	if err := json.Unmarshal(data, &su); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %v", err)
	}
	user := su.User
	user.PasswordHash = su.Hash
	return &user, nil
}
