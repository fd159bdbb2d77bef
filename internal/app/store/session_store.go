package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/localstore"
	"github.com/harvestgreens/storefront/pkg/logger"
	"github.com/harvestgreens/storefront/internal/storeapi"
	"github.com/harvestgreens/storefront/pkg/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUnexpectedResponse = errors.New("unexpected authentication response")
)

// ValidationErrors maps field names to messages. Returned before any network
// call when client-side validation fails.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// AuthAPI is the slice of the remote API the session store consumes.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*storeapi.AuthResponse, error)
	Signup(ctx context.Context, req storeapi.SignupRequest) (*storeapi.AuthResponse, error)
	Me(ctx context.Context, token string) (*model.User, error)
}

// RegisterDetails are the signup form fields.
type RegisterDetails struct {
	Name                 string
	Email                string
	Mobile               string
	Address              string
	Password             string
	PasswordConfirmation string
}

// SessionStore tracks the authenticated identity and its bearer credential.
// Invariant: the token and the user are always both set or both empty, in
// memory and in the persisted copies.
type SessionStore struct {
	mu    sync.Mutex
	api   AuthAPI
	local localstore.Store
	demo  *DemoRegistry // non-nil only in demo mode

	token string
	user  *model.User
}

// NewSessionStore builds a session store. Pass a non-nil demo registry to
// route authentication through the offline registry instead of the API.
func NewSessionStore(api AuthAPI, local localstore.Store, demo *DemoRegistry) *SessionStore {
	return &SessionStore{
		api:   api,
		local: local,
		demo:  demo,
	}
}

// IsLoggedIn reports whether both the user and the token are present.
func (s *SessionStore) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// CurrentUser returns a copy of the logged-in profile, or nil.
func (s *SessionStore) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer credential, or empty when logged out.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login authenticates against the remote API (or the demo registry) and
// persists the session. State is untouched on any failure.
func (s *SessionStore) Login(ctx context.Context, email, password string, remember bool) error {
	fieldErrs := ValidationErrors{}
	if util.IsBlank(email) {
		fieldErrs["email"] = "Email is required"
	} else if !util.IsValidEmail(email) {
		fieldErrs["email"] = "Email address is invalid"
	}
	if password == "" {
		fieldErrs["password"] = "Password is required"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
		"demo":  s.demo != nil,
	})

	var (
		token string
		user  *model.User
	)
	if s.demo != nil {
		demoUser, demoToken, err := s.demo.Authenticate(email, password)
		if err != nil {
			return err
		}
		token, user = demoToken, demoUser
	} else {
		resp, err := s.api.Login(ctx, email, password)
		if err != nil {
			return mapAuthError(err, email)
		}
		if resp.Token == "" || resp.User.Email == "" {
			logger.Warn("Login response missing token or user", map[string]interface{}{
				"email": email,
			})
			return ErrUnexpectedResponse
		}
		token, user = resp.Token, &resp.User
	}

	if err := s.setSession(token, user); err != nil {
		return err
	}

	if remember {
		if err := s.local.Set(localstore.KeyRememberedEmail, []byte(email)); err != nil {
			logger.Warn("Failed to remember login email", map[string]interface{}{
				"error": err.Error(),
			})
		}
	} else {
		s.local.Delete(localstore.KeyRememberedEmail)
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

// Register validates the signup form client-side, then creates the account
// and logs the new identity in. Validation failure performs no network call.
func (s *SessionStore) Register(ctx context.Context, details RegisterDetails) error {
	if fieldErrs := validateRegistration(details); len(fieldErrs) > 0 {
		return fieldErrs
	}

	logger.Info("Registration attempt", map[string]interface{}{
		"email": details.Email,
		"demo":  s.demo != nil,
	})

	var (
		token string
		user  *model.User
	)
	if s.demo != nil {
		demoUser, demoToken, err := s.demo.Register(details)
		if err != nil {
			return err
		}
		token, user = demoToken, demoUser
	} else {
		resp, err := s.api.Signup(ctx, storeapi.SignupRequest{
			Name:                 details.Name,
			Email:                details.Email,
			Mobile:               details.Mobile,
			Address:              details.Address,
			Password:             details.Password,
			PasswordConfirmation: details.PasswordConfirmation,
		})
		if err != nil {
			return mapAuthError(err, details.Email)
		}
		if resp.User.Email == "" {
			logger.Warn("Signup response missing user", map[string]interface{}{
				"email": details.Email,
			})
			return ErrUnexpectedResponse
		}
		token, user = resp.Token, &resp.User

		// Some deployments answer signup with {message, user} and no token.
		// The account exists at that point, so obtain the session with the
		// credentials the caller just supplied.
		if token == "" {
			logger.Info("Signup response carried no token, logging in", map[string]interface{}{
				"email": details.Email,
			})
			loginResp, err := s.api.Login(ctx, details.Email, details.Password)
			if err != nil {
				return mapAuthError(err, details.Email)
			}
			if loginResp.Token == "" || loginResp.User.Email == "" {
				return ErrUnexpectedResponse
			}
			token, user = loginResp.Token, &loginResp.User
		}
	}

	if err := s.setSession(token, user); err != nil {
		return err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

// Logout tears the session down completely: in-memory fields and all
// persisted copies. Safe to call when already logged out.
func (s *SessionStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	var firstErr error
	for _, key := range []string{localstore.KeyAuthToken, localstore.KeyCurrentUser, localstore.KeyRememberedEmail} {
		if err := s.local.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	logger.Info("User logged out")
	return firstErr
}

// RestoreSession rebuilds the session from persisted storage at startup.
// Tokens whose expiry already passed are dropped without a network call;
// surviving tokens are confirmed against the profile endpoint, and a server
// rejection tears the persisted session down. A transport failure keeps the
// restored session, deferring the verdict to the next authenticated request.
func (s *SessionStore) RestoreSession(ctx context.Context) error {
	tokenData, hasToken, err := s.local.Get(localstore.KeyAuthToken)
	if err != nil {
		return err
	}
	userData, hasUser, err := s.local.Get(localstore.KeyCurrentUser)
	if err != nil {
		return err
	}

	// A lone token or a lone user snapshot violates the session invariant;
	// drop the stray key and stay logged out.
	if !hasToken || !hasUser {
		if hasToken != hasUser {
			logger.Warn("Partial persisted session found, clearing")
			s.local.Delete(localstore.KeyAuthToken)
			s.local.Delete(localstore.KeyCurrentUser)
		}
		return nil
	}

	token := string(tokenData)
	var user model.User
	if err := json.Unmarshal(userData, &user); err != nil {
		logger.Warn("Persisted user snapshot is malformed, clearing session", map[string]interface{}{
			"error": err.Error(),
		})
		s.local.Delete(localstore.KeyAuthToken)
		s.local.Delete(localstore.KeyCurrentUser)
		return nil
	}

	if _, err := util.InspectToken(token); err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			logger.Info("Persisted token has expired, clearing session", map[string]interface{}{
				"email": user.Email,
			})
			s.local.Delete(localstore.KeyAuthToken)
			s.local.Delete(localstore.KeyCurrentUser)
			return nil
		}
		// Opaque tokens cannot be inspected locally; the server decides.
	}

	if s.demo == nil {
		fresh, err := s.api.Me(ctx, token)
		switch {
		case err == nil:
			user = *fresh
		case errors.Is(err, storeapi.ErrUnauthorized):
			logger.Info("Server rejected persisted token, clearing session", map[string]interface{}{
				"email": user.Email,
			})
			s.local.Delete(localstore.KeyAuthToken)
			s.local.Delete(localstore.KeyCurrentUser)
			return nil
		default:
			logger.Warn("Could not validate persisted session, keeping it", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	logger.Info("Session restored", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

// RememberedEmail returns the persisted login email, if any.
func (s *SessionStore) RememberedEmail() string {
	data, ok, err := s.local.Get(localstore.KeyRememberedEmail)
	if err != nil || !ok {
		return ""
	}
	return string(data)
}

// setSession updates memory and the persisted copies together.
func (s *SessionStore) setSession(token string, user *model.User) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.local.Set(localstore.KeyAuthToken, []byte(token)); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.local.Set(localstore.KeyCurrentUser, userData); err != nil {
		// Roll the token back rather than leave half a session on disk.
		s.local.Delete(localstore.KeyAuthToken)
		return fmt.Errorf("failed to persist user: %w", err)
	}

	s.token = token
	s.user = user
	return nil
}

func validateRegistration(details RegisterDetails) ValidationErrors {
	fieldErrs := ValidationErrors{}
	if util.IsBlank(details.Name) {
		fieldErrs["name"] = "Name is required"
	}
	if util.IsBlank(details.Email) {
		fieldErrs["email"] = "Email is required"
	} else if !util.IsValidEmail(details.Email) {
		fieldErrs["email"] = "Email address is invalid"
	}
	if msg := util.ValidatePassword(details.Password); msg != "" {
		fieldErrs["password"] = msg
	}
	if details.PasswordConfirmation != details.Password {
		fieldErrs["password_confirmation"] = "Passwords do not match"
	}
	return fieldErrs
}

// mapAuthError translates API client failures into the session taxonomy.
func mapAuthError(err error, email string) error {
	var apiErr *storeapi.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 409 {
		return fmt.Errorf("%w: %s", ErrEmailAlreadyExists, email)
	}

	switch {
	case errors.Is(err, storeapi.ErrUnauthorized), errors.Is(err, storeapi.ErrInvalidRequest):
		logger.Warn("Authentication rejected", map[string]interface{}{
			"email": email,
		})
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	case errors.Is(err, storeapi.ErrUnexpectedResponse):
		return fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	default:
		return err
	}
}
