package deploy

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soladipe/saas-provision/internal/core/ports"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any)            {}
func (noopLogger) Infof(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Warnf(ctx context.Context, format string, args ...any)             {}
func (noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}
func (noopLogger) WithFields(fields map[string]any) ports.Logger                     { return noopLogger{} }

type fakeRunner struct {
	err   error
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	// dotnet publish writes the output directory named by the -o argument.
	outDir := args[len(args)-1]
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	return "", os.WriteFile(filepath.Join(outDir, "app.dll"), []byte("binary"), 0o644)
}

type fakeCreds struct {
	calls int
}

func (f *fakeCreds) PublishingCredentials(ctx context.Context, resourceGroup, name string) (string, string, error) {
	f.calls++
	return "$deployuser", "deploypass", nil
}

type fakeHTTP struct {
	posts int
	gets  int
}

func (f *fakeHTTP) Do(req *http.Request) (*http.Response, error) {
	user, _, ok := req.BasicAuth()
	if !ok || user != "$deployuser" {
		return &http.Response{StatusCode: http.StatusUnauthorized, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
	if req.Method == http.MethodPost {
		f.posts++
		header := http.Header{}
		header.Set("Location", "https://contoso-admin.scm.azurewebsites.net/api/deployments/latest")
		return &http.Response{StatusCode: http.StatusAccepted, Header: header, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
	f.gets++
	body := `{"complete":true,"status":4}`
	if f.gets == 1 {
		body = `{"complete":false,"status":1}`
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
}

func newTestDeployer(t *testing.T, runner CommandRunner, creds CredentialSource, httpClient HTTPDoer) *ZipDeployer {
	t.Helper()
	d, err := NewZipDeployer(runner, creds, httpClient, "contoso-rg", noopLogger{})
	require.NoError(t, err)
	d.pollInterval = time.Millisecond
	return d
}

func TestPublishAndDeploySucceeds(t *testing.T) {
	runner := &fakeRunner{}
	creds := &fakeCreds{}
	httpClient := &fakeHTTP{}

	outcome, err := newTestDeployer(t, runner, creds, httpClient).
		PublishAndDeploy(context.Background(), "./src/AdminSite", "contoso-admin")

	require.NoError(t, err)
	assert.Equal(t, "contoso-admin", outcome.Target)
	assert.Equal(t, "./src/AdminSite", outcome.Package.SourcePath)
	assert.False(t, outcome.DeployedAt.IsZero())
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, 1, creds.calls)
	assert.Equal(t, 1, httpClient.posts)
	assert.GreaterOrEqual(t, httpClient.gets, 2, "status is polled until complete")
}

func TestPublishFailureAbortsRemainingSteps(t *testing.T) {
	runner := &fakeRunner{err: assertableError("error CS1002: ; expected")}
	creds := &fakeCreds{}
	httpClient := &fakeHTTP{}

	_, err := newTestDeployer(t, runner, creds, httpClient).
		PublishAndDeploy(context.Background(), "./src/AdminSite", "contoso-admin")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CS1002", "the tool's own output must be surfaced verbatim")
	assert.Zero(t, creds.calls, "publish failure must abort before credential fetch")
	assert.Zero(t, httpClient.posts)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestPackageDirUsesRelativeSlashPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "wwwroot", "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.dll"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wwwroot", "css", "site.css"), []byte("b"), 0o644))

	archive := filepath.Join(t.TempDir(), "package.zip")
	require.NoError(t, packageDir(dir, archive))

	names := zipEntryNames(t, archive)
	assert.ElementsMatch(t, []string{"app.dll", "wwwroot/css/site.css"}, names)
}
