// Package auth provides email+password authentication and the current-identity
// change notifications the persistence bridge keys its cloud mirroring on.
package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"izinkuy/storage"
	"izinkuy/utils"
)

// MinPasswordLength is the weakest accepted password.
const MinPasswordLength = 6

// loginBurst allows a few quick attempts per email before throttling.
const loginBurst = 5

// Idle limiter entries are swept so the per-email map cannot grow without
// bound under probing with random addresses.
const (
	limiterIdleAfter  = 10 * time.Minute
	limiterSweepEvery = 5 * time.Minute
)

// Identity is the authenticated principal keying cloud-mirrored documents.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// ChangeFunc receives the new identity on sign-in and nil on sign-out.
type ChangeFunc func(*Identity)

// Service authenticates accounts and tracks the current identity.
type Service struct {
	users *storage.UserStorage

	mu        sync.Mutex
	current   *Identity
	listeners map[string]ChangeFunc
	limiters  map[string]*loginLimiter
	lastSweep time.Time
}

// loginLimiter throttles one email's attempts and remembers when it was last
// used so idle entries can be evicted.
type loginLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewService creates an authentication service over user storage.
func NewService(users *storage.UserStorage) *Service {
	return &Service{
		users:     users,
		listeners: make(map[string]ChangeFunc),
		limiters:  make(map[string]*loginLimiter),
		lastSweep: time.Now(),
	}
}

// Register creates an account and signs it in.
func (s *Service) Register(email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, newError(CodeInvalidEmail, nil)
	}
	if len(password) < MinPasswordLength {
		return nil, newError(CodeWeakPassword, nil)
	}

	if _, err := s.users.GetUserByEmail(email); err == nil {
		return nil, newError(CodeEmailInUse, nil)
	}

	user, err := s.users.CreateUser(email, password)
	if err != nil {
		return nil, newError(CodeUnknown, err)
	}

	identity := &Identity{UserID: user.ID, Email: user.Email}
	s.setCurrent(identity)
	utils.Log.Info("Registered account %s", user.Email)
	return identity, nil
}

// Login verifies credentials and signs the account in. Repeated attempts per
// email are throttled and surface as a too-many-requests failure.
func (s *Service) Login(email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, newError(CodeInvalidEmail, nil)
	}
	if !s.allowAttempt(email) {
		return nil, newError(CodeTooManyRequests, nil)
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, newError(CodeUserNotFound, err)
	}
	if err := s.users.VerifyPassword(user, password); err != nil {
		return nil, newError(CodeWrongPassword, err)
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		utils.Log.Warn("Failed to record last login for %s: %v", user.Email, err)
	}

	identity := &Identity{UserID: user.ID, Email: user.Email}
	s.setCurrent(identity)
	utils.Log.Info("Signed in %s", user.Email)
	return identity, nil
}

// Logout clears the current identity.
func (s *Service) Logout() {
	s.setCurrent(nil)
	utils.Log.Info("Signed out")
}

// Current returns the signed-in identity, or nil.
func (s *Service) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers an identity-change listener. The returned function
// removes it.
func (s *Service) OnChange(fn ChangeFunc) (unsubscribe func()) {
	id := uuid.New().String()
	s.mu.Lock()
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Service) setCurrent(identity *Identity) {
	s.mu.Lock()
	s.current = identity
	fns := make([]ChangeFunc, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

func (s *Service) allowAttempt(email string) bool {
	now := time.Now()
	s.mu.Lock()
	if now.Sub(s.lastSweep) >= limiterSweepEvery {
		s.sweepLimitersLocked(now)
	}
	entry, ok := s.limiters[email]
	if !ok {
		entry = &loginLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/loginBurst), loginBurst)}
		s.limiters[email] = entry
	}
	entry.lastSeen = now
	s.mu.Unlock()
	return entry.limiter.Allow()
}

func (s *Service) sweepLimitersLocked(now time.Time) {
	for email, entry := range s.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleAfter {
			delete(s.limiters, email)
		}
	}
	s.lastSweep = now
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
