// Package identity issues credentials and sessions: registration, login and
// the sanitized user view returned to clients.
package identity

import (
	"strings"
	"sync"
	"time"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/auth"
)

type Service struct {
	graph  *record.Graph
	issuer *auth.Issuer
	hasher auth.PasswordHasher

	// registerMu serializes uniqueness-check-then-create so concurrent
	// registrations cannot slip a duplicate username or email past the
	// check.
	registerMu sync.Mutex
}

func NewService(graph *record.Graph, issuer *auth.Issuer, hasher auth.PasswordHasher) *Service {
	return &Service{graph: graph, issuer: issuer, hasher: hasher}
}

// RegisterInput carries the registration fields. Role is optional; anything
// outside the role set is coerced to staff, not rejected.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Register creates a user and returns it with a fresh session token.
func (s *Service) Register(in RegisterInput) (*record.User, string, error) {
	if in.Username == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return nil, "", apperr.New(apperr.Validation, "All fields are required")
	}

	role, ok := auth.ParseRole(in.Role)
	if !ok {
		role = auth.RoleStaff
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "hashing password", err)
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if _, exists := s.graph.Users.Find(func(u record.User) bool { return u.Username == in.Username }); exists {
		return nil, "", apperr.New(apperr.Duplicate, "Username already exists")
	}
	if _, exists := s.graph.Users.Find(func(u record.User) bool { return u.Email == in.Email }); exists {
		return nil, "", apperr.New(apperr.Duplicate, "Email already exists")
	}

	user := s.graph.Users.Create(func(id int64) record.User {
		return record.User{
			ID:           id,
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         role,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			CreatedAt:    time.Now().UTC(),
		}
	})

	token, err := s.issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies a username/password pair and returns the user with a fresh
// session token. An unknown username and a wrong password are
// indistinguishable to the caller.
func (s *Service) Login(username, password string) (*record.User, string, error) {
	if username == "" || password == "" {
		return nil, "", apperr.New(apperr.Validation, "Username and password are required")
	}

	user, ok := s.graph.Users.Find(func(u record.User) bool { return u.Username == username })
	if !ok || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, "", apperr.New(apperr.InvalidCredential, "Invalid credentials")
	}

	token, err := s.issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// SeedAdmin inserts the bootstrap administrator when no user with that
// username exists yet. Returns true when a user was created.
func (s *Service) SeedAdmin(username, password string) (bool, error) {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if _, exists := s.graph.Users.Find(func(u record.User) bool { return u.Username == username }); exists {
		return false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	s.graph.Users.Create(func(id int64) record.User {
		return record.User{
			ID:           id,
			Username:     username,
			Email:        strings.ToLower(username) + "@ehr.local",
			PasswordHash: hash,
			Role:         auth.RoleAdmin,
			FirstName:    "System",
			LastName:     "Administrator",
			CreatedAt:    time.Now().UTC(),
		}
	})
	return true, nil
}
