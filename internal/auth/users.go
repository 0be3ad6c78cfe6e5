package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to new passwords.
const MinPasswordLength = 6

type User struct {
	Username     string
	Role         string
	PasswordHash []byte
	IsActive     bool
	LastLogin    time.Time
}

// UserInfo is the public view of a user.
type UserInfo struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active"`
}

func (u User) Info() UserInfo {
	return UserInfo{Username: u.Username, Role: u.Role, LastLogin: u.LastLogin, IsActive: u.IsActive}
}

// Credential seeds a user account.
type Credential struct {
	Username string
	Password string
	Role     string
}

// DemoCredentials are the accounts available out of the box.
var DemoCredentials = []Credential{
	{Username: "admin", Password: "admin123", Role: "Administrator"},
	{Username: "demo", Password: "demo123", Role: "User"},
	{Username: "manager", Password: "manager123", Role: "Manager"},
	{Username: "user", Password: "user123", Role: "User"},
	{Username: "analyst", Password: "analyst123", Role: "Analyst"},
}

// UserStore keeps accounts in memory. Usernames are case-insensitive.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*User
	cost  int
}

// NewUserStore hashes every credential with the given bcrypt cost.
func NewUserStore(cost int, creds ...Credential) (*UserStore, error) {
	s := &UserStore{users: make(map[string]*User, len(creds)), cost: cost}
	for _, c := range creds {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", c.Username, err)
		}
		s.users[strings.ToLower(c.Username)] = &User{
			Username:     c.Username,
			Role:         c.Role,
			PasswordHash: hash,
			IsActive:     true,
		}
	}
	return s, nil
}

func NewDemoUserStore() (*UserStore, error) {
	return NewUserStore(bcrypt.DefaultCost, DemoCredentials...)
}

// Authenticate checks the password and records the login time.
func (s *UserStore) Authenticate(username, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok || !u.IsActive {
		return User{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, domain.ErrInvalidCredentials
	}
	u.LastLogin = time.Now().UTC()
	return *u, nil
}

func (s *UserStore) Get(username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}
	return *u, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserStore) ChangePassword(username, current, next string) error {
	if len(next) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(current)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return nil
}
