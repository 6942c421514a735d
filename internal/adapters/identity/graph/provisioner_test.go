package graph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any)            {}
func (noopLogger) Infof(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Warnf(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}
func (l noopLogger) WithFields(fields map[string]any) ports.Logger                   { return l }

type fakeDirectory struct {
	byAppID       map[string]Application
	byDisplayName map[string]Application

	// visibleAfter delays FindApplicationByAppID hits for newly created
	// apps, simulating directory replication lag.
	visibleAfter int

	createCalls    int
	principalCalls int
	passwordCalls  int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		byAppID:       map[string]Application{},
		byDisplayName: map[string]Application{},
	}
}

func (f *fakeDirectory) FindApplicationByAppID(ctx context.Context, appID string) (Application, bool, error) {
	app, ok := f.byAppID[appID]
	if !ok {
		return Application{}, false, nil
	}
	if f.visibleAfter > 0 {
		f.visibleAfter--
		return Application{}, false, nil
	}
	return app, true, nil
}

func (f *fakeDirectory) FindApplicationByDisplayName(ctx context.Context, displayName string) (Application, bool, error) {
	app, ok := f.byDisplayName[displayName]
	return app, ok, nil
}

func (f *fakeDirectory) CreateApplication(ctx context.Context, displayName, signInAudience string, redirectURIs []string) (Application, error) {
	f.createCalls++
	app := Application{AppID: "app-" + displayName, ObjectID: "obj-" + displayName, DisplayName: displayName}
	f.byAppID[app.AppID] = app
	f.byDisplayName[displayName] = app
	return app, nil
}

func (f *fakeDirectory) CreateServicePrincipal(ctx context.Context, appID string) (string, error) {
	f.principalCalls++
	return "sp-" + appID, nil
}

func (f *fakeDirectory) AddPassword(ctx context.Context, objectID, displayName string, validity time.Duration) (string, error) {
	f.passwordCalls++
	return "generated-secret", nil
}

func newTestProvisioner(t *testing.T, dir DirectoryAPI) *Provisioner {
	t.Helper()
	p, err := NewProvisioner(dir, noopLogger{}, 3, time.Millisecond)
	require.NoError(t, err)
	return p
}

func TestCreateOrReuseHonorsCallerSuppliedAppID(t *testing.T) {
	dir := newFakeDirectory()
	dir.byAppID["caller-app"] = Application{AppID: "caller-app", ObjectID: "caller-obj", DisplayName: "Caller App"}

	reg, err := newTestProvisioner(t, dir).CreateOrReuse(context.Background(), domain.AppRegConfig{
		DisplayName:   "Anything Else",
		ExistingAppID: "caller-app",
		RequireSecret: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "caller-app", reg.ApplicationID)
	assert.Equal(t, "caller-obj", reg.ObjectID)
	assert.False(t, reg.Created)
	assert.Zero(t, dir.createCalls, "a caller-supplied identity must not trigger a create")
	assert.Zero(t, dir.passwordCalls, "a caller-supplied identity keeps its own credentials")
}

func TestCreateOrReuseFailsWhenSuppliedAppIDMissing(t *testing.T) {
	dir := newFakeDirectory()

	_, err := newTestProvisioner(t, dir).CreateOrReuse(context.Background(), domain.AppRegConfig{
		DisplayName:   "Portal SSO",
		ExistingAppID: "00000000-missing",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeResourceNotFound))
	assert.Zero(t, dir.createCalls)
}

func TestCreateOrReuseReusesByDisplayName(t *testing.T) {
	dir := newFakeDirectory()
	dir.byDisplayName["Fulfillment API"] = Application{AppID: "existing-app", ObjectID: "existing-obj", DisplayName: "Fulfillment API"}

	reg, err := newTestProvisioner(t, dir).CreateOrReuse(context.Background(), domain.AppRegConfig{
		DisplayName:   "Fulfillment API",
		RequireSecret: true,
	})

	require.NoError(t, err)
	assert.False(t, reg.Created)
	assert.Equal(t, "existing-app", reg.ApplicationID)
	assert.Zero(t, dir.createCalls)
	assert.Equal(t, 1, dir.passwordCalls, "a reused registration still needs a fresh secret")
	assert.Equal(t, "generated-secret", reg.ClientSecret)
}

func TestCreateOrReuseCreatesWithServicePrincipalAndSecret(t *testing.T) {
	dir := newFakeDirectory()
	dir.visibleAfter = 2

	reg, err := newTestProvisioner(t, dir).CreateOrReuse(context.Background(), domain.AppRegConfig{
		DisplayName:   "Fulfillment API",
		RequireSecret: true,
	})

	require.NoError(t, err)
	assert.True(t, reg.Created)
	assert.Equal(t, 1, dir.createCalls)
	assert.Equal(t, 1, dir.principalCalls)
	assert.Equal(t, "sp-app-Fulfillment API", reg.ServicePrincipalID)
	assert.Equal(t, "generated-secret", reg.ClientSecret)
	assert.Equal(t, domain.AudienceMultiTenant, reg.SignInAudience)
}

func TestCreateOrReuseVisibilityExhaustion(t *testing.T) {
	dir := newFakeDirectory()
	dir.visibleAfter = 100

	_, err := newTestProvisioner(t, dir).CreateOrReuse(context.Background(), domain.AppRegConfig{
		DisplayName: "Portal SSO",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodePropagationError))
}
