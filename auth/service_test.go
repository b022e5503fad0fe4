package auth

import (
	"testing"
	"time"

	"izinkuy/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.InitDB(t.TempDir())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(storage.NewUserStorage(db))
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     Code
	}{
		{"no at sign", "bukan-email", "rahasia1", CodeInvalidEmail},
		{"empty local part", "@example.com", "rahasia1", CodeInvalidEmail},
		{"short password", "guru@example.com", "12345", CodeWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			_, err := svc.Register(tt.email, tt.password)
			if err == nil {
				t.Fatal("Register() succeeded, want error")
			}
			if got := AsError(err).Code; got != tt.want {
				t.Errorf("error code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegisterSignsIn(t *testing.T) {
	svc := newTestService(t)

	identity, err := svc.Register("guru@example.com", "rahasia1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if identity.UserID == "" || identity.Email != "guru@example.com" {
		t.Errorf("identity = %+v", identity)
	}
	if current := svc.Current(); current == nil || current.UserID != identity.UserID {
		t.Errorf("Current() = %+v, want the registered identity", current)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("guru@example.com", "rahasia1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, err := svc.Register("guru@example.com", "rahasia2")
	if got := AsError(err).Code; got != CodeEmailInUse {
		t.Errorf("error code = %v, want CodeEmailInUse", got)
	}
}

func TestLoginErrors(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register("guru@example.com", "rahasia1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	svc.Logout()

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("lain@example.com", "rahasia1")
		if got := AsError(err).Code; got != CodeUserNotFound {
			t.Errorf("error code = %v, want CodeUserNotFound", got)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("guru@example.com", "salah123")
		if got := AsError(err).Code; got != CodeWrongPassword {
			t.Errorf("error code = %v, want CodeWrongPassword", got)
		}
	})

	t.Run("correct credentials", func(t *testing.T) {
		identity, err := svc.Login("guru@example.com", "rahasia1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if identity.Email != "guru@example.com" {
			t.Errorf("identity = %+v", identity)
		}
	})
}

func TestLoginThrottledPerEmail(t *testing.T) {
	svc := newTestService(t)

	var throttled bool
	for i := 0; i < 20; i++ {
		_, err := svc.Login("guru@example.com", "salah123")
		if AsError(err).Code == CodeTooManyRequests {
			throttled = true
			break
		}
	}
	if !throttled {
		t.Error("repeated attempts never throttled")
	}

	// Another email still gets attempts.
	_, err := svc.Login("lain@example.com", "salah123")
	if got := AsError(err).Code; got == CodeTooManyRequests {
		t.Error("throttle leaked across emails")
	}
}

func TestLoginThrottleEvictsIdleEntries(t *testing.T) {
	svc := newTestService(t)

	// Exhaust the burst for one email.
	for i := 0; i < loginBurst; i++ {
		svc.Login("guru@example.com", "salah123")
	}
	if _, err := svc.Login("guru@example.com", "salah123"); AsError(err).Code != CodeTooManyRequests {
		t.Fatal("burst not exhausted")
	}

	// Backdate the entry past the idle cutoff, make a sweep due, and touch
	// the limiter map through another email.
	svc.mu.Lock()
	svc.limiters["guru@example.com"].lastSeen = time.Now().Add(-limiterIdleAfter - time.Minute)
	svc.lastSweep = time.Now().Add(-limiterSweepEvery - time.Minute)
	svc.mu.Unlock()
	if !svc.allowAttempt("lain@example.com") {
		t.Fatal("fresh email throttled")
	}

	svc.mu.Lock()
	_, kept := svc.limiters["guru@example.com"]
	svc.mu.Unlock()
	if kept {
		t.Error("idle limiter entry not evicted")
	}
	if !svc.allowAttempt("guru@example.com") {
		t.Error("attempts still throttled after eviction")
	}
}

func TestOnChangeNotifiesAndUnsubscribes(t *testing.T) {
	svc := newTestService(t)

	var changes []*Identity
	unsubscribe := svc.OnChange(func(identity *Identity) {
		changes = append(changes, identity)
	})

	identity, err := svc.Register("guru@example.com", "rahasia1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	svc.Logout()

	if len(changes) != 2 {
		t.Fatalf("listener called %d times, want 2", len(changes))
	}
	if changes[0] == nil || changes[0].UserID != identity.UserID {
		t.Errorf("first change = %+v, want the new identity", changes[0])
	}
	if changes[1] != nil {
		t.Errorf("second change = %+v, want nil on sign-out", changes[1])
	}

	unsubscribe()
	if _, err := svc.Login("guru@example.com", "rahasia1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if len(changes) != 2 {
		t.Error("listener still called after unsubscribe")
	}
}
