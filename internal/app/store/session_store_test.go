package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/localstore"
	"github.com/harvestgreens/storefront/internal/storeapi"
	"github.com/harvestgreens/storefront/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	loginResp  *storeapi.AuthResponse
	loginErr   error
	signupResp *storeapi.AuthResponse
	signupErr  error
	meUser     *model.User
	meErr      error

	loginCalls  int
	signupCalls int
	meCalls     int
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*storeapi.AuthResponse, error) {
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeAuthAPI) Signup(ctx context.Context, req storeapi.SignupRequest) (*storeapi.AuthResponse, error) {
	f.signupCalls++
	return f.signupResp, f.signupErr
}

func (f *fakeAuthAPI) Me(ctx context.Context, token string) (*model.User, error) {
	f.meCalls++
	return f.meUser, f.meErr
}

func testUser() model.User {
	return model.User{ID: 7, Name: "Jamie Park", Email: "jamie@example.com"}
}

func setupSessionStoreTest(t *testing.T) (*SessionStore, *fakeAuthAPI, localstore.Store) {
	api := &fakeAuthAPI{}
	local := localstore.NewMemory()
	return NewSessionStore(api, local, nil), api, local
}

func TestSessionStore_Login_Success(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	user := testUser()
	api.loginResp = &storeapi.AuthResponse{Token: "t1", User: user}

	err := session.Login(context.Background(), user.Email, "secretpass", false)
	require.NoError(t, err)

	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, "t1", session.Token())
	require.NotNil(t, session.CurrentUser())
	assert.Equal(t, user.Email, session.CurrentUser().Email)

	tokenData, ok, err := local.Get(localstore.KeyAuthToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t1", string(tokenData))

	userData, ok, err := local.Get(localstore.KeyCurrentUser)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted model.User
	require.NoError(t, json.Unmarshal(userData, &persisted))
	assert.Equal(t, user, persisted)
}

func TestSessionStore_Login_ValidationSkipsNetwork(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)

	err := session.Login(context.Background(), "not-an-email", "", false)

	var fieldErrs ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "password")
	assert.Zero(t, api.loginCalls)
	assert.False(t, session.IsLoggedIn())
}

func TestSessionStore_Login_RejectedCredentials(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	api.loginErr = &storeapi.APIError{StatusCode: 401, Code: "unauthorized", Message: "Invalid email or password"}

	err := session.Login(context.Background(), "jamie@example.com", "wrongpass", false)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, session.IsLoggedIn())
	_, ok, _ := local.Get(localstore.KeyAuthToken)
	assert.False(t, ok)
}

func TestSessionStore_Login_MissingTokenInResponse(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)
	api.loginResp = &storeapi.AuthResponse{User: testUser()}

	err := session.Login(context.Background(), "jamie@example.com", "secretpass", false)

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.False(t, session.IsLoggedIn())
}

func TestSessionStore_Login_RememberEmail(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	api.loginResp = &storeapi.AuthResponse{Token: "t1", User: testUser()}

	require.NoError(t, session.Login(context.Background(), "jamie@example.com", "secretpass", true))
	assert.Equal(t, "jamie@example.com", session.RememberedEmail())

	// Logging in again without remember drops the stored email.
	require.NoError(t, session.Login(context.Background(), "jamie@example.com", "secretpass", false))
	assert.Empty(t, session.RememberedEmail())
	_, ok, _ := local.Get(localstore.KeyRememberedEmail)
	assert.False(t, ok)
}

func TestSessionStore_Register_Success(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)
	user := testUser()
	api.signupResp = &storeapi.AuthResponse{Token: "t2", User: user}

	err := session.Register(context.Background(), RegisterDetails{
		Name:                 user.Name,
		Email:                user.Email,
		Password:             "secretpass",
		PasswordConfirmation: "secretpass",
	})
	require.NoError(t, err)

	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, "t2", session.Token())
	assert.Equal(t, 1, api.signupCalls)
}

func TestSessionStore_Register_ValidationSkipsNetwork(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)

	err := session.Register(context.Background(), RegisterDetails{
		Email:                "jamie@example.com",
		Password:             "short",
		PasswordConfirmation: "different",
	})

	var fieldErrs ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "password")
	assert.Contains(t, fieldErrs, "password_confirmation")
	assert.Zero(t, api.signupCalls)
}

func TestSessionStore_Register_TokenlessResponseChainsLogin(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	user := testUser()
	api.signupResp = &storeapi.AuthResponse{Message: "Account created successfully", User: user}
	api.loginResp = &storeapi.AuthResponse{Token: "t3", User: user}

	err := session.Register(context.Background(), RegisterDetails{
		Name:                 user.Name,
		Email:                user.Email,
		Password:             "secretpass",
		PasswordConfirmation: "secretpass",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, api.signupCalls)
	assert.Equal(t, 1, api.loginCalls, "a tokenless signup response logs in with the same credentials")
	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, "t3", session.Token())

	tokenData, ok, err := local.Get(localstore.KeyAuthToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t3", string(tokenData))
}

func TestSessionStore_Register_TokenlessResponseLoginFails(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)
	api.signupResp = &storeapi.AuthResponse{Message: "Account created successfully", User: testUser()}
	api.loginErr = &storeapi.APIError{StatusCode: 401, Code: "unauthorized", Message: "Invalid email or password"}

	err := session.Register(context.Background(), RegisterDetails{
		Name:                 "Jamie Park",
		Email:                "jamie@example.com",
		Password:             "secretpass",
		PasswordConfirmation: "secretpass",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, session.IsLoggedIn())
}

func TestSessionStore_Register_ResponseWithoutUser(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)
	api.signupResp = &storeapi.AuthResponse{Message: "Account created successfully"}

	err := session.Register(context.Background(), RegisterDetails{
		Name:                 "Jamie Park",
		Email:                "jamie@example.com",
		Password:             "secretpass",
		PasswordConfirmation: "secretpass",
	})

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Zero(t, api.loginCalls)
}

func TestSessionStore_Register_DuplicateEmail(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)
	api.signupErr = &storeapi.APIError{StatusCode: 409, Code: "conflict", Message: "Email already registered"}

	err := session.Register(context.Background(), RegisterDetails{
		Name:                 "Jamie Park",
		Email:                "jamie@example.com",
		Password:             "secretpass",
		PasswordConfirmation: "secretpass",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.False(t, session.IsLoggedIn())
}

func TestSessionStore_Logout_Idempotent(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	api.loginResp = &storeapi.AuthResponse{Token: "t1", User: testUser()}
	require.NoError(t, session.Login(context.Background(), "jamie@example.com", "secretpass", true))

	require.NoError(t, session.Logout())
	assert.False(t, session.IsLoggedIn())
	assert.Empty(t, session.Token())
	assert.Nil(t, session.CurrentUser())

	for _, key := range []string{localstore.KeyAuthToken, localstore.KeyCurrentUser, localstore.KeyRememberedEmail} {
		_, ok, err := local.Get(key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s should be deleted", key)
	}

	// Second logout with nothing left to delete still succeeds.
	require.NoError(t, session.Logout())
}

func persistSession(t *testing.T, local localstore.Store, token string, user model.User) {
	t.Helper()
	require.NoError(t, local.Set(localstore.KeyAuthToken, []byte(token)))
	userData, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, local.Set(localstore.KeyCurrentUser, userData))
}

func TestSessionStore_RestoreSession_Success(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	user := testUser()
	token, err := util.GenerateToken(user.ID, user.Email, "test-secret", time.Hour)
	require.NoError(t, err)
	persistSession(t, local, token, user)

	fresh := user
	fresh.Name = "Jamie Park-Lee"
	api.meUser = &fresh

	require.NoError(t, session.RestoreSession(context.Background()))

	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, 1, api.meCalls)
	assert.Equal(t, "Jamie Park-Lee", session.CurrentUser().Name)
}

func TestSessionStore_RestoreSession_NothingPersisted(t *testing.T) {
	session, api, _ := setupSessionStoreTest(t)

	require.NoError(t, session.RestoreSession(context.Background()))

	assert.False(t, session.IsLoggedIn())
	assert.Zero(t, api.meCalls)
}

func TestSessionStore_RestoreSession_ExpiredTokenSkipsNetwork(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	user := testUser()
	token, err := util.GenerateToken(user.ID, user.Email, "test-secret", -time.Minute)
	require.NoError(t, err)
	persistSession(t, local, token, user)

	require.NoError(t, session.RestoreSession(context.Background()))

	assert.False(t, session.IsLoggedIn())
	assert.Zero(t, api.meCalls)
	_, ok, _ := local.Get(localstore.KeyAuthToken)
	assert.False(t, ok)
	_, ok, _ = local.Get(localstore.KeyCurrentUser)
	assert.False(t, ok)
}

func TestSessionStore_RestoreSession_ServerRejectsToken(t *testing.T) {
	session, api, local := setupSessionStoreTest(t)
	user := testUser()
	token, err := util.GenerateToken(user.ID, user.Email, "test-secret", time.Hour)
	require.NoError(t, err)
	persistSession(t, local, token, user)
	api.meErr = &storeapi.APIError{StatusCode: 401, Code: "unauthorized", Message: "Token revoked"}

	require.NoError(t, session.RestoreSession(context.Background()))

	assert.False(t, session.IsLoggedIn())
	_, ok, _ := local.Get(localstore.KeyAuthToken)
	assert.False(t, ok)
}

func TestSessionStore_RestoreSession_NetworkErrorKeepsSession(t *testing.T) {
	session, api, store := setupSessionStoreTest(t)
	user := testUser()
	token, err := util.GenerateToken(user.ID, user.Email, "test-secret", time.Hour)
	require.NoError(t, err)
	persistSession(t, store, token, user)
	api.meErr = errors.New("dial tcp: connection refused")

	require.NoError(t, session.RestoreSession(context.Background()))

	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, token, session.Token())
	assert.Equal(t, user.Email, session.CurrentUser().Email)
}

func TestSessionStore_RestoreSession_PartialKeysCleared(t *testing.T) {
	session, api, store := setupSessionStoreTest(t)
	require.NoError(t, store.Set(localstore.KeyAuthToken, []byte("t1")))

	require.NoError(t, session.RestoreSession(context.Background()))

	assert.False(t, session.IsLoggedIn())
	assert.Zero(t, api.meCalls)
	_, ok, _ := store.Get(localstore.KeyAuthToken)
	assert.False(t, ok)
}

func TestSessionStore_RestoreSession_OpaqueTokenConfirmedByServer(t *testing.T) {
	session, api, store := setupSessionStoreTest(t)
	user := testUser()
	persistSession(t, store, "demo-3f1c", user)
	api.meUser = &user

	require.NoError(t, session.RestoreSession(context.Background()))

	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, 1, api.meCalls)
}
