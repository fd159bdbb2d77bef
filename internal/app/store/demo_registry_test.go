package store

import (
	"context"
	"strings"
	"testing"

	"github.com/harvestgreens/storefront/internal/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoDetails(email string) RegisterDetails {
	return RegisterDetails{
		Name:                 "Jamie Park",
		Email:                email,
		Password:             "secretpass",
		PasswordConfirmation: "secretpass",
	}
}

func TestDemoRegistry_RegisterAndAuthenticate(t *testing.T) {
	registry := NewDemoRegistry(localstore.NewMemory())

	user, token, err := registry.Register(demoDetails("jamie@example.com"))
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.True(t, strings.HasPrefix(token, "demo-"))

	authedUser, authedToken, err := registry.Authenticate("jamie@example.com", "secretpass")
	require.NoError(t, err)
	assert.Equal(t, user.Email, authedUser.Email)
	assert.True(t, strings.HasPrefix(authedToken, "demo-"))
	assert.NotEqual(t, token, authedToken, "each authentication mints a fresh token")
}

func TestDemoRegistry_DuplicateEmailCaseInsensitive(t *testing.T) {
	registry := NewDemoRegistry(localstore.NewMemory())

	_, _, err := registry.Register(demoDetails("jamie@example.com"))
	require.NoError(t, err)

	_, _, err = registry.Register(demoDetails("JAMIE@Example.COM"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestDemoRegistry_WrongPassword(t *testing.T) {
	registry := NewDemoRegistry(localstore.NewMemory())
	_, _, err := registry.Register(demoDetails("jamie@example.com"))
	require.NoError(t, err)

	_, _, err = registry.Authenticate("jamie@example.com", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDemoRegistry_SurvivesStoreRoundTrip(t *testing.T) {
	local := localstore.NewMemory()
	_, _, err := NewDemoRegistry(local).Register(demoDetails("jamie@example.com"))
	require.NoError(t, err)

	// A new registry over the same store sees the account.
	reopened := NewDemoRegistry(local)
	user, _, err := reopened.Authenticate("jamie@example.com", "secretpass")
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", user.Email)
}

func TestSessionStore_DemoMode_LoginAndRestore(t *testing.T) {
	local := localstore.NewMemory()
	registry := NewDemoRegistry(local)
	api := &fakeAuthAPI{}
	session := NewSessionStore(api, local, registry)

	require.NoError(t, session.Register(context.Background(), demoDetails("jamie@example.com")))
	assert.True(t, session.IsLoggedIn())
	assert.Zero(t, api.signupCalls)

	// Restore never touches the network in demo mode: the opaque token is
	// accepted as-is alongside the persisted profile.
	restored := NewSessionStore(api, local, registry)
	require.NoError(t, restored.RestoreSession(context.Background()))
	assert.True(t, restored.IsLoggedIn())
	assert.Zero(t, api.meCalls)
}
