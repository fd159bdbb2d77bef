package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/localstore"
	"github.com/harvestgreens/storefront/pkg/logger"
	"github.com/harvestgreens/storefront/pkg/util"
)

// DemoRegistry is the offline/demo signup path: accounts live in the local
// store instead of the remote API. It exists for API-less demos only and is
// wired in exclusively when demo mode is enabled; it never coexists with
// server authentication in one session.
type DemoRegistry struct {
	mu    sync.Mutex
	local localstore.Store
}

type demoUser struct {
	model.User
	PasswordHash string `json:"password_hash"`
}

// NewDemoRegistry returns a registry over the given local store.
func NewDemoRegistry(local localstore.Store) *DemoRegistry {
	return &DemoRegistry{local: local}
}

// Register creates a local account and returns the profile with a locally
// minted opaque token. Duplicate emails are rejected case-insensitively.
func (r *DemoRegistry) Register(details RegisterDetails) (*model.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, "", err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, details.Email) {
			logger.Warn("Demo registration rejected: email exists", map[string]interface{}{
				"email": details.Email,
			})
			return nil, "", fmt.Errorf("%w: %s", ErrEmailAlreadyExists, details.Email)
		}
	}

	hash, err := util.HashPassword(details.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := demoUser{
		User: model.User{
			ID:      uint(len(users) + 1),
			Name:    details.Name,
			Email:   details.Email,
			Mobile:  details.Mobile,
			Address: details.Address,
		},
		PasswordHash: hash,
	}
	users = append(users, user)

	if err := r.save(users); err != nil {
		return nil, "", err
	}

	logger.Info("Demo user registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	profile := user.User
	return &profile, newDemoToken(), nil
}

// Authenticate checks the credentials against the local registry.
func (r *DemoRegistry) Authenticate(email, password string) (*model.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, "", err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) && util.VerifyPassword(u.PasswordHash, password) {
			profile := u.User
			return &profile, newDemoToken(), nil
		}
	}

	logger.Warn("Demo login rejected", map[string]interface{}{
		"email": email,
	})
	return nil, "", ErrInvalidCredentials
}

func (r *DemoRegistry) load() ([]demoUser, error) {
	data, ok, err := r.local.Get(localstore.KeyDemoUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var users []demoUser
	if err := json.Unmarshal(data, &users); err != nil {
		logger.Warn("Demo registry is malformed, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}
	return users, nil
}

func (r *DemoRegistry) save(users []demoUser) error {
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return r.local.Set(localstore.KeyDemoUsers, data)
}

// newDemoToken mints an opaque credential. It is deliberately not a JWT so
// it can never be mistaken for (or replayed against) a real API token.
func newDemoToken() string {
	return "demo-" + uuid.NewString()
}
